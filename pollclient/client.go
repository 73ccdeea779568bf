// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pollclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-poll/models"
)

const defaultTimeout = 10 * time.Second

// ErrUnauthorized is returned when the service rejects the identity
var ErrUnauthorized = errors.New("identity rejected")

// Client talks to the poll HTTP service. It satisfies
// controller.StoreClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the service at baseURL. A nil httpClient uses a
// client with a 10 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// StatusError is a non-2xx response the client has no sentinel for
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("poll service returned %d", e.StatusCode)
	}
	return fmt.Sprintf("poll service returned %d: %s", e.StatusCode, e.Message)
}

func (c *Client) FetchActiveQuestions(ctx context.Context, identity string) ([]models.Question, error) {
	var resp models.QuestionsResponse
	if err := c.do(ctx, http.MethodGet, "/questions", identity, nil, http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	return resp.Questions, nil
}

func (c *Client) RecordVote(ctx context.Context, questionID int, optionKey, identity string) (models.Answer, error) {
	path := "/questions/" + strconv.Itoa(questionID) + "/votes"
	body := models.SubmitVoteRequest{OptionKey: optionKey}

	var resp models.SubmitVoteResponse
	if err := c.do(ctx, http.MethodPost, path, identity, body, http.StatusCreated, &resp); err != nil {
		return models.Answer{}, fmt.Errorf("record vote: %w", err)
	}
	return resp.Answer, nil
}

// Tally fetches the public counts for a question
func (c *Client) Tally(ctx context.Context, questionID int) (models.TallyResponse, error) {
	path := "/questions/" + strconv.Itoa(questionID) + "/tally"

	var resp models.TallyResponse
	if err := c.do(ctx, http.MethodGet, path, "", nil, http.StatusOK, &resp); err != nil {
		return models.TallyResponse{}, fmt.Errorf("fetch tally: %w", err)
	}
	return resp, nil
}

// Text fetches the UI text resolved for lang. An empty lang uses the
// service's configured language.
func (c *Client) Text(ctx context.Context, lang string) (models.TextResponse, error) {
	path := "/text"
	if lang != "" {
		path += "?lang=" + url.QueryEscape(lang)
	}

	var resp models.TextResponse
	if err := c.do(ctx, http.MethodGet, path, "", nil, http.StatusOK, &resp); err != nil {
		return models.TextResponse{}, fmt.Errorf("fetch text: %w", err)
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path, identity string, body interface{}, want int, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if identity != "" {
		req.Header.Set(models.HeaderUserIdentity, identity)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError maps an error response onto the store sentinels
func statusError(resp *http.Response) error {
	var payload models.ErrorResponse
	json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload)

	switch resp.StatusCode {
	case http.StatusConflict:
		return models.ErrAlreadyVoted
	case http.StatusNotFound:
		return models.ErrQuestionNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusBadRequest:
		if payload.Message == models.ErrUnknownOption.Error() {
			return models.ErrUnknownOption
		}
	}

	return &StatusError{StatusCode: resp.StatusCode, Message: payload.Message}
}
