// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package controller

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/danielhkuo/quickly-poll/models"
)

// StoreClient is the persistent poll store as seen by the controller.
//
// FetchActiveQuestions must be safe to repeat. RecordVote must increment the
// option's tally atomically and reject a second vote by the same identity on
// the same question with models.ErrAlreadyVoted.
type StoreClient interface {
	FetchActiveQuestions(ctx context.Context, identity string) ([]models.Question, error)
	RecordVote(ctx context.Context, questionID int, optionKey, identity string) (models.Answer, error)
}

// Validation errors. These are returned before any store call.
var (
	ErrNotLoaded       = errors.New("questions not loaded")
	ErrUnknownQuestion = errors.New("unknown question")
	ErrNoSelection     = errors.New("no option selected")
	ErrQuestionClosed  = errors.New("question already answered")
	ErrSubmitInFlight  = errors.New("submission already in flight")
	ErrLoadInFlight    = errors.New("load already in flight")
	ErrNoIdentity      = errors.New("user identity required")
)

// ErrDisposed is returned by every operation after Dispose, and by any
// operation whose store result arrived after Dispose.
var ErrDisposed = errors.New("controller disposed")

// ErrInvalidTransition is returned when a question would move to a phase
// its current phase does not allow.
var ErrInvalidTransition = errors.New("invalid phase transition")

var validationErrors = []error{
	ErrNotLoaded,
	ErrUnknownQuestion,
	ErrNoSelection,
	ErrQuestionClosed,
	ErrSubmitInFlight,
	ErrLoadInFlight,
	ErrNoIdentity,
	models.ErrUnknownOption,
}

// IsValidation reports whether err was a local rejection rather than a
// store failure.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// entry is the per-question state. The question's Answer is never mutated
// in place; a settled vote installs a new Answer.
type entry struct {
	question models.Question
	phase    Phase
	selected string
}

// moveTo returns e in phase p. Staying in the same phase is not a
// transition and is always allowed.
func (e entry) moveTo(p Phase) (entry, error) {
	if e.phase != p && !e.phase.CanTransitionTo(p) {
		return e, fmt.Errorf("question %d %s to %s: %w", e.question.ID, e.phase, p, ErrInvalidTransition)
	}
	e.phase = p
	return e, nil
}

func (e entry) view() models.Question {
	q := e.question
	q.SelectedOption = e.selected
	return q
}

// Controller drives the ballot/result state of every active question for
// one identified user during one page session.
type Controller struct {
	store    StoreClient
	identity string

	mu       sync.Mutex
	entries  map[int]entry
	index    map[int]int
	snapshot []models.Question
	loaded   bool
	fetching bool
	disposed bool
	loadErr  error
}

func New(store StoreClient, identity string) *Controller {
	return &Controller{
		store:    store,
		identity: identity,
		entries:  make(map[int]entry),
		index:    make(map[int]int),
	}
}

// Load fetches the active questions with the user's vote status. Until the
// first successful Load the controller stays loading; a failed fetch leaves
// the previous state untouched.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	if c.fetching {
		c.mu.Unlock()
		return ErrLoadInFlight
	}
	if c.identity == "" {
		c.mu.Unlock()
		return ErrNoIdentity
	}
	c.fetching = true
	c.mu.Unlock()

	fetched, err := c.store.FetchActiveQuestions(ctx, c.identity)
	if err == nil {
		fetched, err = normalizeAll(fetched)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fetching = false
	if c.disposed {
		return ErrDisposed
	}
	if err != nil {
		c.loadErr = err
		return fmt.Errorf("fetch active questions: %w", err)
	}

	c.loadErr = nil
	c.apply(fetched)
	c.loaded = true
	return nil
}

func normalizeAll(questions []models.Question) ([]models.Question, error) {
	out := make([]models.Question, 0, len(questions))
	seen := make(map[int]bool, len(questions))
	for _, q := range questions {
		if seen[q.ID] {
			return nil, fmt.Errorf("duplicate question %d: %w", q.ID, models.ErrMalformedQuestion)
		}
		seen[q.ID] = true

		n, err := q.Normalize()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// apply installs a fetched list. Local guards win over the fetch: an
// in-flight submission keeps its entry, and a question closed in this
// session stays closed.
func (c *Controller) apply(fetched []models.Question) {
	entries := make(map[int]entry, len(fetched))
	order := make([]int, 0, len(fetched))

	for _, q := range fetched {
		target := PhaseOpen
		if q.IsAnswered() {
			target = PhaseClosed
		}
		next, _ := entry{question: q, phase: PhaseLoading}.moveTo(target)

		if old, ok := c.entries[q.ID]; ok {
			switch {
			case old.phase == PhaseSubmitting:
				// settled by the submission
				next = old
			case !canMove(old, target):
				next = old
			case target == PhaseOpen && q.HasOption(old.selected):
				next.selected = old.selected
			}
		}

		entries[q.ID] = next
		order = append(order, q.ID)
	}

	for _, q := range c.snapshot {
		old := c.entries[q.ID]
		if _, ok := entries[q.ID]; !ok && old.phase == PhaseSubmitting {
			entries[q.ID] = old
			order = append(order, q.ID)
		}
	}

	c.entries = entries
	c.index = make(map[int]int, len(order))
	snapshot := make([]models.Question, len(order))
	for i, id := range order {
		c.index[id] = i
		snapshot[i] = entries[id].view()
	}
	c.snapshot = snapshot
}

func canMove(e entry, p Phase) bool {
	_, err := e.moveTo(p)
	return err == nil
}

// put stores e and publishes a new snapshot. Earlier snapshots are not
// modified.
func (c *Controller) put(e entry) {
	c.entries[e.question.ID] = e
	next := slices.Clone(c.snapshot)
	next[c.index[e.question.ID]] = e.view()
	c.snapshot = next
}

// lookup returns the entry for a question that may still change
func (c *Controller) lookup(questionID int) (entry, error) {
	if c.disposed {
		return entry{}, ErrDisposed
	}
	if !c.loaded {
		return entry{}, ErrNotLoaded
	}
	e, ok := c.entries[questionID]
	if !ok {
		return entry{}, fmt.Errorf("question %d: %w", questionID, ErrUnknownQuestion)
	}
	switch e.phase {
	case PhaseClosed:
		return entry{}, fmt.Errorf("question %d: %w", questionID, ErrQuestionClosed)
	case PhaseSubmitting:
		return entry{}, fmt.Errorf("question %d: %w", questionID, ErrSubmitInFlight)
	}
	return e, nil
}

func checkOption(e entry, key string) error {
	if key != "" && !e.question.HasOption(key) {
		return fmt.Errorf("question %d option %q: %w", e.question.ID, key, models.ErrUnknownOption)
	}
	return nil
}

// Select records key as the selection for an open question, replacing any
// earlier selection. An empty key clears it.
func (c *Controller) Select(questionID int, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.lookup(questionID)
	if err != nil {
		return err
	}
	if err := checkOption(e, key); err != nil {
		return err
	}

	e.selected = key
	c.put(e)
	return nil
}

// SetQuestions applies the SelectedOption of every question in list. Only
// selections are taken from list; the controller owns everything else.
// Either all changes apply or none do.
func (c *Controller) SetQuestions(list []models.Question) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return ErrDisposed
	}
	if !c.loaded {
		return ErrNotLoaded
	}

	var changes []entry
	for _, q := range list {
		current, ok := c.entries[q.ID]
		if !ok {
			return fmt.Errorf("question %d: %w", q.ID, ErrUnknownQuestion)
		}
		if q.SelectedOption == current.selected {
			continue
		}

		e, err := c.lookup(q.ID)
		if err != nil {
			return err
		}
		if err := checkOption(e, q.SelectedOption); err != nil {
			return err
		}
		e.selected = q.SelectedOption
		changes = append(changes, e)
	}

	for _, e := range changes {
		c.put(e)
	}
	return nil
}

// Submit records a vote for questionID. An explicit optionKey counts as the
// selection and replaces any recorded one; an empty optionKey submits the
// recorded selection. An empty identity uses the controller's identity.
//
// The question enters SUBMITTING before the store is called, so a second
// Submit for the same question fails with ErrSubmitInFlight until the first
// returns. On success the question is CLOSED with the new tally. On a store
// failure it returns to OPEN with its selection intact. If the store reports
// models.ErrAlreadyVoted the question is CLOSED and the error is returned.
func (c *Controller) Submit(ctx context.Context, questionID int, optionKey, identity string) error {
	c.mu.Lock()

	e, err := c.lookup(questionID)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	key := optionKey
	if key == "" {
		key = e.selected
	}
	if key == "" {
		c.mu.Unlock()
		return fmt.Errorf("question %d: %w", questionID, ErrNoSelection)
	}
	if err := checkOption(e, key); err != nil {
		c.mu.Unlock()
		return err
	}
	if identity == "" {
		identity = c.identity
	}
	if identity == "" {
		c.mu.Unlock()
		return ErrNoIdentity
	}

	e, err = e.moveTo(PhaseSubmitting)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.put(e)
	c.mu.Unlock()

	stored, err := c.store.RecordVote(ctx, questionID, key, identity)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return ErrDisposed
	}
	e, ok := c.entries[questionID]
	if !ok {
		return fmt.Errorf("question %d: %w", questionID, ErrUnknownQuestion)
	}

	switch {
	case err == nil, errors.Is(err, models.ErrAlreadyVoted):
		closed, terr := e.moveTo(PhaseClosed)
		if terr != nil {
			return terr
		}
		closed.question.Answer = settle(e.question, stored, key, err == nil)
		closed.selected = ""
		c.put(closed)
		if err != nil {
			return fmt.Errorf("record vote for question %d: %w", questionID, err)
		}
		return nil

	default:
		open, terr := e.moveTo(PhaseOpen)
		if terr != nil {
			return terr
		}
		c.put(open)
		return fmt.Errorf("record vote for question %d: %w", questionID, err)
	}
}

// settle builds the closed Answer. An aligned store answer is
// authoritative; otherwise the local tally is used, incremented for key
// when the vote was counted.
func settle(q models.Question, stored models.Answer, key string, counted bool) *models.Answer {
	var next models.Answer
	switch {
	case stored.AlignedWith(len(q.Options)):
		next = stored.Clone()
	case q.Answer != nil:
		next = q.Answer.Clone()
		if counted {
			if i := q.OptionIndex(key); i >= 0 {
				next.AllAnswers[i]++
			}
		}
	default:
		next = models.Answer{AllAnswers: make([]int, len(q.Options))}
	}
	next.IsCurrentUserAnswered = true
	return &next
}

// Dispose detaches the controller from its page. Selections are dropped and
// results that arrive later are discarded.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return
	}
	c.disposed = true
	for _, e := range c.entries {
		if e.selected != "" {
			e.selected = ""
			c.put(e)
		}
	}
}

// Questions returns the current question list. The slice and the Answers
// it points to are never modified by the controller afterwards.
func (c *Controller) Questions() []models.Question {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.snapshot)
}

func (c *Controller) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.loaded
}

// IsSubmitting reports whether any question has a vote in flight.
func (c *Controller) IsSubmitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.phase == PhaseSubmitting {
			return true
		}
	}
	return false
}

// NoActivePolls is true once a load succeeded with an empty question list.
func (c *Controller) NoActivePolls() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded && len(c.snapshot) == 0
}

// LoadErr returns the error of the most recent failed load, if any.
func (c *Controller) LoadErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// Phase returns the state of a question. Before the first load every
// question is LOADING.
func (c *Controller) Phase(questionID int) (Phase, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		return PhaseLoading, false
	}
	e, ok := c.entries[questionID]
	if !ok {
		return "", false
	}
	return e.phase, true
}

func (c *Controller) Selection(questionID int) (models.SelectedOption, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[questionID]
	if !ok || e.selected == "" {
		return models.SelectedOption{}, false
	}
	return models.SelectedOption{QuestionID: questionID, OptionKey: e.selected}, true
}
