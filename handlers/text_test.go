// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-poll/i18n"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/testutil"
)

func TestGetText(t *testing.T) {
	texts := i18n.DefaultTextConfiguration()

	tests := []struct {
		name          string
		configured    string
		query         string
		wantLanguage  string
		wantDirection string
		wantTitle     string
	}{
		{"configured english", "en", "", "en", "ltr", texts.WebPartTitle.En},
		{"configured arabic", "ar", "", "ar", "rtl", texts.WebPartTitle.Ar},
		{"query overrides", "en", "?lang=ar", "ar", "rtl", texts.WebPartTitle.Ar},
		{"unknown falls back to english", "ar", "?lang=fr", "en", "ltr", texts.WebPartTitle.En},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testutil.GetTestConfig()
			cfg.Language = tt.configured
			h := NewTextHandler(cfg, texts)

			req := testutil.MakeRequest("GET", "/text"+tt.query, nil, nil)
			w := httptest.NewRecorder()

			h.Get(w, req)

			testutil.AssertStatus(t, w, http.StatusOK)

			var resp models.TextResponse
			testutil.AssertJSON(t, w, &resp)

			if resp.Language != tt.wantLanguage {
				t.Errorf("Expected language %q, got %q", tt.wantLanguage, resp.Language)
			}
			if resp.Direction != tt.wantDirection {
				t.Errorf("Expected direction %q, got %q", tt.wantDirection, resp.Direction)
			}
			if got := resp.Texts[i18n.KeyWebPartTitle]; got != tt.wantTitle {
				t.Errorf("Expected title %q, got %q", tt.wantTitle, got)
			}
			if len(resp.Texts) != 8 {
				t.Errorf("Expected 8 texts, got %d", len(resp.Texts))
			}
		})
	}
}
