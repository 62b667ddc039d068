package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/GameDevClicker_Go/internal/domain"
)

func TestHandleSave_WritesSlot(t *testing.T) {
	saveDir := t.TempDir()
	router, mgr := newTestServer(t, saveDir)
	clickTimes(t, mgr, "alice", 3)

	w := doJSON(t, router, http.MethodPost, "/session/alice/save", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeJSON[SuccessResponse](t, w)
	assert.Equal(t, MsgGameSavedSuccess, resp.Message)

	slot := filepath.Join(saveDir, fmt.Sprintf("alice_%s.json", domain.SaveSlotPrimary))
	_, err := os.Stat(slot)
	assert.NoError(t, err, "primary slot file should exist")
}

func TestHandleSave_StateSurvivesRestart(t *testing.T) {
	saveDir := t.TempDir()

	router, mgr := newTestServer(t, saveDir)
	clickTimes(t, mgr, "alice", 6)
	w := doJSON(t, router, http.MethodPost, "/session/alice/save", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// A second server over the same save directory stands in for a restart.
	router2, _ := newTestServer(t, saveDir)
	w = doJSON(t, router2, http.MethodGet, "/session/alice/state", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeJSON[StateResponse](t, w)
	assert.Equal(t, 6.0, resp.State.Experience)
	assert.Equal(t, 2, resp.State.Level)
}
