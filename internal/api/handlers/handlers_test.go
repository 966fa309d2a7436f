package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/config"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/database"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/navigation"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/websocket"
	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/pkg/wire"
)

func newAPIFixture(t *testing.T) (*websocket.SocketIOServer, *gin.Engine) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := database.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		UpdateInterval: 5 * time.Millisecond,
		ObstacleCM:     50,
		HistoryLimit:   100,
	}

	updates := websocket.NewSocketIOServer(db.DB, cfg)
	t.Cleanup(func() { updates.Close() })

	statusHandler := NewStatusHandler(updates)
	navigationHandler := NewNavigationHandler(updates)
	cameraHandler := NewCameraHandler(updates)
	historyHandler := NewHistoryHandler(db.DB, cfg.HistoryLimit)

	router := gin.New()
	v1 := router.Group("/v1")
	{
		v1.GET("/status", statusHandler.GetStatus)
		v1.POST("/navigation/start", navigationHandler.StartNavigation)
		v1.POST("/navigation/stop", navigationHandler.StopNavigation)
		v1.GET("/camera", cameraHandler.GetCamera)
		v1.POST("/camera", cameraHandler.AttachCamera)
		v1.DELETE("/camera", cameraHandler.DetachCamera)
		v1.GET("/history", historyHandler.ListHistory)
	}

	return updates, router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetStatus(t *testing.T) {
	_, router := newAPIFixture(t)

	rec := doJSON(t, router, http.MethodGet, "/v1/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var state wire.StatePayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	require.False(t, state.IsRunning)
	require.Equal(t, navigation.ModeDemo, state.Mode)
	require.False(t, state.Camera.Connected)
}

func TestStartAndStopNavigation(t *testing.T) {
	updates, router := newAPIFixture(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/navigation/start", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, updates.Engine().Running())

	// Starting twice conflicts.
	rec = doJSON(t, router, http.MethodPost, "/v1/navigation/start", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/v1/navigation/stop", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, updates.Engine().Running())

	var resp struct {
		Message string            `json:"message"`
		State   wire.StatePayload `json:"state"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Navigation system stopped", resp.Message)
	require.Equal(t, navigation.InstructionStopped, resp.State.LastInstruction)
}

func TestStopWithoutRunIsOK(t *testing.T) {
	_, router := newAPIFixture(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/navigation/stop", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestStartCameraModeWithoutCamera(t *testing.T) {
	_, router := newAPIFixture(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/navigation/start",
		wire.StartNavigationPayload{Mode: navigation.ModeCamera})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartUnknownMode(t *testing.T) {
	_, router := newAPIFixture(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/navigation/start",
		map[string]string{"mode": "teleport"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCameraAttachDetach(t *testing.T) {
	updates, router := newAPIFixture(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/camera",
		wire.AttachCameraRequest{Kind: "push", Label: "phone"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, updates.Cameras().Attached())

	rec = doJSON(t, router, http.MethodGet, "/v1/camera", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var info wire.CameraPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	require.True(t, info.Connected)
	require.Equal(t, "phone", info.Label)
	require.Equal(t, "push", info.Kind)

	// Second attach conflicts.
	rec = doJSON(t, router, http.MethodPost, "/v1/camera",
		wire.AttachCameraRequest{Kind: "push"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/v1/camera", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, updates.Cameras().Attached())

	rec = doJSON(t, router, http.MethodDelete, "/v1/camera", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCameraAttachValidation(t *testing.T) {
	_, router := newAPIFixture(t)

	// Missing kind fails binding.
	rec := doJSON(t, router, http.MethodPost, "/v1/camera", map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown kind.
	rec = doJSON(t, router, http.MethodPost, "/v1/camera",
		wire.AttachCameraRequest{Kind: "rtsp"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// MJPEG needs a URL.
	rec = doJSON(t, router, http.MethodPost, "/v1/camera",
		wire.AttachCameraRequest{Kind: "mjpeg"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartCameraModeWithPushCamera(t *testing.T) {
	updates, router := newAPIFixture(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/camera",
		wire.AttachCameraRequest{Kind: "push"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Mode is omitted; the attached camera wins over the simulator.
	rec = doJSON(t, router, http.MethodPost, "/v1/navigation/start", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, navigation.ModeCamera, updates.Store().Snapshot().Mode)

	rec = doJSON(t, router, http.MethodPost, "/v1/navigation/stop", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHistoryListsRecordedUpdates(t *testing.T) {
	updates, router := newAPIFixture(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/navigation/start", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Eventually(t, func() bool {
		return updates.Store().Snapshot().Distance >= navigation.MinDistanceCM
	}, 2*time.Second, 5*time.Millisecond)

	doJSON(t, router, http.MethodPost, "/v1/navigation/stop", nil)

	rec = doJSON(t, router, http.MethodGet, "/v1/history?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp wire.HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Entries)
	require.LessOrEqual(t, len(resp.Entries), 5)

	entry := resp.Entries[0]
	require.NotEmpty(t, entry.ID)
	require.NotEmpty(t, entry.RunID)
	require.Equal(t, navigation.ModeDemo, entry.Source)
	require.GreaterOrEqual(t, entry.Distance, navigation.MinDistanceCM)
	require.NotZero(t, entry.At)
}
