package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONOkResponseSnakeCasesMapKeys(t *testing.T) {
	w := httptest.NewRecorder()

	err := JSONOkResponse(w, map[string]any{"ExpiresAt": "soon", "nested": map[string]any{"IsVerified": true}}, "", nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Request successful", body["message"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "soon", data["expires_at"])
	assert.Equal(t, true, data["nested"].(map[string]any)["is_verified"])
}

func TestJSONErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()

	err := JSONErrorResponse(w, []string{"Level is required"}, "Validation failed", http.StatusUnprocessableEntity, nil)
	require.NoError(t, err)

	var body Response[[]string]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, []string{"Level is required"}, body.Error)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 25)
	assert.Equal(t, 3, p.TotalPages)

	p = NewPagination(0, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 0, p.TotalPages)
}

func TestMetricsResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	mw := NewMetricsResponseWriter(rec)

	mw.WriteHeader(http.StatusTeapot)
	mw.WriteHeader(http.StatusOK)
	_, err := mw.Write([]byte("hello"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, mw.StatusCode)
	assert.Equal(t, 5, mw.BytesCount)
}
