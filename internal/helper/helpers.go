package helper

import (
	"fmt"
	"net/http"
	"sync"
)

type ErrorReporter interface {
	ReportServerError(r *http.Request, err error)
}

type HelperRepository struct {
	baseURL  string
	WG       *sync.WaitGroup
	reporter ErrorReporter
}

func New(baseURL string, wg *sync.WaitGroup, reporter ErrorReporter) *HelperRepository {
	return &HelperRepository{
		baseURL:  baseURL,
		WG:       wg,
		reporter: reporter,
	}
}

func (h *HelperRepository) NewEmailData() map[string]any {
	data := map[string]any{
		"BaseURL": h.baseURL,
	}

	return data
}

// BackgroundTask runs fn on its own goroutine. Errors and panics are reported, and the
// server waits for running tasks before it exits.
func (h *HelperRepository) BackgroundTask(fn func() error) {
	h.WG.Add(1)

	go func() {
		defer h.WG.Done()

		defer func() {
			err := recover()
			if err != nil {
				h.reporter.ReportServerError(nil, fmt.Errorf("%s", err))
			}
		}()

		err := fn()
		if err != nil {
			h.reporter.ReportServerError(nil, err)
		}
	}()
}
