package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cradoe/sellerverify/internal/mocks"
	"github.com/stretchr/testify/assert"
)

func TestHandleHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		deps       map[string]Pinger
		wantStatus int
		wantChecks map[string]any
	}{
		{
			name:       "all up",
			deps:       map[string]Pinger{"database": stubPinger{}, "cache": stubPinger{}},
			wantStatus: http.StatusOK,
			wantChecks: map[string]any{"database": "ok", "cache": "ok"},
		},
		{
			name:       "cache down",
			deps:       map[string]Pinger{"database": stubPinger{}, "cache": stubPinger{err: errBoom}},
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]any{"database": "ok", "cache": "unavailable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(new(mocks.MockUserRepo), new(MockVerificationService))
			h.Dependencies = tt.deps

			w := httptest.NewRecorder()
			h.HandleHealthCheck(w, httptest.NewRequest(http.MethodGet, "/status", nil))

			assert.Equal(t, tt.wantStatus, w.Code)

			body := decodeBody(t, w)
			key := "data"
			if tt.wantStatus != http.StatusOK {
				key = "error"
			}
			payload := body[key].(map[string]any)
			assert.Equal(t, tt.wantChecks, payload["checks"])
		})
	}
}
