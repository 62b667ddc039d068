package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleOfflineProgress_NothingAccruedYet(t *testing.T) {
	router, _ := newTestServer(t, t.TempDir())

	w := doJSON(t, router, http.MethodPost, "/session/alice/offline", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeJSON[OfflineResponse](t, w)
	assert.Zero(t, resp.Report.ExpEarned, "no auto income on a fresh profile")
	assert.Zero(t, resp.Report.MoneyEarned)
	assert.False(t, resp.Report.Capped)
	assert.Equal(t, 1, resp.State.Level)
}

func TestHandleOfflineProgress_Idempotent(t *testing.T) {
	router, _ := newTestServer(t, t.TempDir())

	first := doJSON(t, router, http.MethodPost, "/session/alice/offline", nil)
	second := doJSON(t, router, http.MethodPost, "/session/alice/offline", nil)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	resp := decodeJSON[OfflineResponse](t, second)
	assert.Zero(t, resp.Report.ExpEarned)
}
