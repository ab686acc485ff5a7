package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/cradoe/sellerverify/internal/response"
	"github.com/cradoe/sellerverify/internal/version"
)

const pingTimeout = 2 * time.Second

// HandleHealthCheck reports each dependency as "ok" or "unavailable". The response is 503
// when any of them is down so load balancers can take the instance out.
func (h *RouteHandler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(h.Dependencies))
	for name := range h.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	checks := make(map[string]any, len(names))
	healthy := true

	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		err := h.Dependencies[name].Ping(ctx)
		cancel()

		if err != nil {
			healthy = false
			checks[name] = "unavailable"
			continue
		}
		checks[name] = "ok"
	}

	data := map[string]any{
		"version": version.Get(),
		"checks":  checks,
	}

	if !healthy {
		err := response.JSONErrorResponse(w, data, "One or more dependencies are unavailable", http.StatusServiceUnavailable, nil)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
		}
		return
	}

	err := response.JSONOkResponse(w, data, "Up and grateful", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
