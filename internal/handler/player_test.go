package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleSetPlayerData_OverridesMoney(t *testing.T) {
	router, _ := newTestServer(t, t.TempDir())

	w := doJSON(t, router, http.MethodPost, "/session/alice/player", map[string]interface{}{"money": 500})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeJSON[PlayerUpdateResponse](t, w)
	assert.Equal(t, MsgPlayerUpdatedSuccess, resp.Message)
	assert.Equal(t, 500.0, resp.State.Money)
}

func TestHandleSetPlayerData_ExperienceRerunsLevelLoop(t *testing.T) {
	router, _ := newTestServer(t, t.TempDir())

	w := doJSON(t, router, http.MethodPost, "/session/alice/player", map[string]interface{}{"experience": 20})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeJSON[PlayerUpdateResponse](t, w)
	assert.Equal(t, 20.0, resp.State.Experience)
	assert.Equal(t, 3, resp.State.Level, "20 exp crosses the level 3 threshold")
}

func TestHandleSetPlayerData_RejectsNegativeMoney(t *testing.T) {
	router, _ := newTestServer(t, t.TempDir())

	w := doJSON(t, router, http.MethodPost, "/session/alice/player", map[string]interface{}{"money": -5})

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeJSON[ValidationErrorResponse](t, w)
	assert.Contains(t, resp.Fields, "money")
}
