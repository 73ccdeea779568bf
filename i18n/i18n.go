// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type Language string

const (
	English Language = "en"
	Arabic  Language = "ar"
)

// Layout directions
const (
	LTR = "ltr"
	RTL = "rtl"
)

// BilingualText holds one string per supported language
type BilingualText struct {
	En string `json:"en"`
	Ar string `json:"ar"`
}

// Resolve returns the Arabic variant for Arabic and the English variant for
// every other value, including unknown or empty selectors.
func Resolve(text BilingualText, lang Language) string {
	if lang == Arabic {
		return text.Ar
	}
	return text.En
}

func IsRTL(lang Language) bool {
	return lang == Arabic
}

// Direction returns "rtl" for Arabic, "ltr" otherwise
func Direction(lang Language) string {
	if IsRTL(lang) {
		return RTL
	}
	return LTR
}

// ParseLanguage maps a selector to a Language. Unknown values are English.
func ParseLanguage(s string) Language {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case Arabic:
		return Arabic
	default:
		return English
	}
}

// Keys of the resolved text map
const (
	KeyWebPartTitle        = "web_part_title"
	KeySubmitButtonText    = "submit_button_text"
	KeyLoadingMessage      = "loading_message"
	KeyNoQuestionsMessage  = "no_questions_message"
	KeyAlreadyVotedMessage = "already_voted_message"
	KeySelectOptionMessage = "select_option_message"
	KeyThankYouMessage     = "thank_you_message"
	KeyResultsTitle        = "results_title"
)

// TextConfiguration is every user-facing string of the poll
type TextConfiguration struct {
	WebPartTitle        BilingualText `json:"web_part_title"`
	SubmitButtonText    BilingualText `json:"submit_button_text"`
	LoadingMessage      BilingualText `json:"loading_message"`
	NoQuestionsMessage  BilingualText `json:"no_questions_message"`
	AlreadyVotedMessage BilingualText `json:"already_voted_message"`
	SelectOptionMessage BilingualText `json:"select_option_message"`
	ThankYouMessage     BilingualText `json:"thank_you_message"`
	ResultsTitle        BilingualText `json:"results_title"`
}

func DefaultTextConfiguration() TextConfiguration {
	return TextConfiguration{
		WebPartTitle: BilingualText{
			En: "Poll",
			Ar: "استطلاع",
		},
		SubmitButtonText: BilingualText{
			En: "Submit",
			Ar: "إرسال",
		},
		LoadingMessage: BilingualText{
			En: "Loading poll...",
			Ar: "جاري تحميل الاستطلاع...",
		},
		NoQuestionsMessage: BilingualText{
			En: "No active poll questions available.",
			Ar: "لا توجد أسئلة استطلاع نشطة متاحة.",
		},
		AlreadyVotedMessage: BilingualText{
			En: "You have already voted on this poll.",
			Ar: "لقد قمت بالتصويت بالفعل في هذا الاستطلاع.",
		},
		SelectOptionMessage: BilingualText{
			En: "Please select an option to vote.",
			Ar: "يرجى اختيار خيار للتصويت.",
		},
		ThankYouMessage: BilingualText{
			En: "Thank you for your vote!",
			Ar: "شكراً لتصويتك!",
		},
		ResultsTitle: BilingualText{
			En: "Poll Results",
			Ar: "نتائج الاستطلاع",
		},
	}
}

// fields pairs each resolved key with its record
func (c *TextConfiguration) fields() map[string]*BilingualText {
	return map[string]*BilingualText{
		KeyWebPartTitle:        &c.WebPartTitle,
		KeySubmitButtonText:    &c.SubmitButtonText,
		KeyLoadingMessage:      &c.LoadingMessage,
		KeyNoQuestionsMessage:  &c.NoQuestionsMessage,
		KeyAlreadyVotedMessage: &c.AlreadyVotedMessage,
		KeySelectOptionMessage: &c.SelectOptionMessage,
		KeyThankYouMessage:     &c.ThankYouMessage,
		KeyResultsTitle:        &c.ResultsTitle,
	}
}

// WithDefaults fills every empty variant from DefaultTextConfiguration.
func (c TextConfiguration) WithDefaults() TextConfiguration {
	defaults := DefaultTextConfiguration()
	def := defaults.fields()
	for key, text := range c.fields() {
		if text.En == "" {
			text.En = def[key].En
		}
		if text.Ar == "" {
			text.Ar = def[key].Ar
		}
	}
	return c
}

// Resolve flattens the configuration into key -> string for lang
func (c TextConfiguration) Resolve(lang Language) map[string]string {
	out := make(map[string]string, 8)
	for key, text := range c.fields() {
		out[key] = Resolve(*text, lang)
	}
	return out
}

// LoadTextConfiguration reads a JSON text table. An empty path yields the
// defaults; missing variants in the file are filled from the defaults.
func LoadTextConfiguration(path string) (TextConfiguration, error) {
	if path == "" {
		return DefaultTextConfiguration(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return TextConfiguration{}, fmt.Errorf("failed to read text configuration: %w", err)
	}

	var cfg TextConfiguration
	if err := json.Unmarshal(b, &cfg); err != nil {
		return TextConfiguration{}, fmt.Errorf("failed to parse text configuration: %w", err)
	}

	return cfg.WithDefaults(), nil
}
