package handler

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/printease/backend/internal/application/fleet"
	"github.com/printease/backend/internal/application/printjob"
	"github.com/printease/backend/internal/domain/shared"
	"github.com/printease/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupPrinterRouter(printers *MockPrinterService, jobs *MockJobService) *gin.Engine {
	h := NewPrinterHandler(printers, jobs)
	router := newTestRouter()
	router.GET("/api/v1/printers", h.List)
	router.POST("/api/v1/printers/:id/heartbeat", h.Heartbeat)
	router.GET("/api/v1/printers/:id/jobs", h.Jobs)
	router.POST("/api/v1/printers/:id/test-page", h.TestPage)
	router.PUT("/api/v1/printers/:id/capabilities", h.UpdateCapabilities)
	return router
}

func samplePrinter(id string) fleet.PrinterResponse {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return fleet.PrinterResponse{
		ID:           id,
		Name:         "Library " + id,
		Status:       "online",
		Capabilities: []string{"bw-a4", "color-a4"},
		LastSeen:     now,
		RegisteredAt: now,
	}
}

func TestPrinterHandler_List(t *testing.T) {
	t.Run("all printers", func(t *testing.T) {
		printers := new(MockPrinterService)
		router := setupPrinterRouter(printers, new(MockJobService))

		printers.On("List", mock.Anything, false).Return([]fleet.PrinterResponse{samplePrinter("p1"), samplePrinter("p2")}, nil)

		w := performRequest(router, http.MethodGet, "/api/v1/printers", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var out []fleet.PrinterResponse
		_, err := decodeResponse(w, &out)
		require.NoError(t, err)
		assert.Len(t, out, 2)
		printers.AssertExpectations(t)
	})

	t.Run("online only", func(t *testing.T) {
		printers := new(MockPrinterService)
		router := setupPrinterRouter(printers, new(MockJobService))

		printers.On("List", mock.Anything, true).Return([]fleet.PrinterResponse{samplePrinter("p1")}, nil)

		w := performRequest(router, http.MethodGet, "/api/v1/printers?online=true", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		printers.AssertExpectations(t)
	})
}

func TestPrinterHandler_Heartbeat(t *testing.T) {
	t.Run("registers status", func(t *testing.T) {
		printers := new(MockPrinterService)
		router := setupPrinterRouter(printers, new(MockJobService))

		printers.On("Heartbeat", mock.Anything, "p1", fleet.HeartbeatRequest{
			Name:                 "Library",
			Status:               "online",
			QueueLength:          3,
			EstimatedWaitMinutes: 6,
			Capabilities:         []string{"bw-a4"},
		}).Return(&fleet.PrinterResponse{ID: "p1", Status: "online", QueueLength: 3}, nil)

		w := performRequest(router, http.MethodPost, "/api/v1/printers/p1/heartbeat", map[string]any{
			"name":                   "Library",
			"status":                 "online",
			"queue_length":           3,
			"estimated_wait_minutes": 6,
			"capabilities":           []string{"bw-a4"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		var out fleet.PrinterResponse
		_, err := decodeResponse(w, &out)
		require.NoError(t, err)
		assert.Equal(t, 3, out.QueueLength)
		printers.AssertExpectations(t)
	})

	t.Run("unknown status", func(t *testing.T) {
		printers := new(MockPrinterService)
		router := setupPrinterRouter(printers, new(MockJobService))

		w := performRequest(router, http.MethodPost, "/api/v1/printers/p1/heartbeat", map[string]any{"status": "sleeping"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		printers.AssertNotCalled(t, "Heartbeat", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("printer id too long", func(t *testing.T) {
		printers := new(MockPrinterService)
		router := setupPrinterRouter(printers, new(MockJobService))

		path := "/api/v1/printers/" + strings.Repeat("p", 101) + "/heartbeat"
		w := performRequest(router, http.MethodPost, path, map[string]any{"status": "online"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp, err := decodeResponse(w, nil)
		require.NoError(t, err)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	})
}

func TestPrinterHandler_Jobs(t *testing.T) {
	jobs := new(MockJobService)
	router := setupPrinterRouter(new(MockPrinterService), jobs)

	jobs.On("ListForPrinter", mock.Anything, "p1", []string{"ready", "printing"}, 5).
		Return([]printjob.JobResponse{{ID: uuid.New(), PrinterID: "p1", Status: "ready"}}, nil)

	w := performRequest(router, http.MethodGet, "/api/v1/printers/p1/jobs?status=ready&status=printing&limit=5", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var out []printjob.JobResponse
	_, err := decodeResponse(w, &out)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "p1", out[0].PrinterID)
	jobs.AssertExpectations(t)
}

func TestPrinterHandler_UpdateCapabilities(t *testing.T) {
	t.Run("replaces capabilities", func(t *testing.T) {
		printers := new(MockPrinterService)
		router := setupPrinterRouter(printers, new(MockJobService))

		req := fleet.UpdateCapabilitiesRequest{Capabilities: []string{"bw-a3", "color-a3"}}
		resp := samplePrinter("p1")
		resp.Capabilities = req.Capabilities
		printers.On("UpdateCapabilities", mock.Anything, "p1", req).Return(&resp, nil)

		w := performRequest(router, http.MethodPut, "/api/v1/printers/p1/capabilities", req)

		assert.Equal(t, http.StatusOK, w.Code)
		var out fleet.PrinterResponse
		_, err := decodeResponse(w, &out)
		require.NoError(t, err)
		assert.Equal(t, []string{"bw-a3", "color-a3"}, out.Capabilities)
	})

	t.Run("unknown printer", func(t *testing.T) {
		printers := new(MockPrinterService)
		router := setupPrinterRouter(printers, new(MockJobService))

		printers.On("UpdateCapabilities", mock.Anything, "ghost", mock.Anything).Return(nil, shared.ErrNotFound)

		w := performRequest(router, http.MethodPut, "/api/v1/printers/ghost/capabilities",
			fleet.UpdateCapabilitiesRequest{Capabilities: []string{"bw-a4"}})

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp, err := decodeResponse(w, nil)
		require.NoError(t, err)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("invalid capability", func(t *testing.T) {
		printers := new(MockPrinterService)
		router := setupPrinterRouter(printers, new(MockJobService))

		printers.On("UpdateCapabilities", mock.Anything, "p1", mock.Anything).
			Return(nil, shared.NewDomainError("INVALID_CAPABILITY", "Invalid capability: sepia-a4"))

		w := performRequest(router, http.MethodPut, "/api/v1/printers/p1/capabilities",
			fleet.UpdateCapabilitiesRequest{Capabilities: []string{"sepia-a4"}})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPrinterHandler_TestPage(t *testing.T) {
	t.Run("queues a free job", func(t *testing.T) {
		jobs := new(MockJobService)
		router := setupPrinterRouter(new(MockPrinterService), jobs)
		id := uuid.New()

		jobs.On("TestPage", mock.Anything, "p1").Return(&printjob.JobResponse{
			ID:        id,
			OrderID:   "test-page-1a2b3c4d",
			PrinterID: "p1",
			Status:    "ready",
		}, nil)

		w := performRequest(router, http.MethodPost, "/api/v1/printers/p1/test-page", nil)

		assert.Equal(t, http.StatusCreated, w.Code)
		var out printjob.JobResponse
		_, err := decodeResponse(w, &out)
		require.NoError(t, err)
		assert.Equal(t, id, out.ID)
		assert.Equal(t, "ready", out.Status)
		jobs.AssertExpectations(t)
	})

	t.Run("unknown printer", func(t *testing.T) {
		jobs := new(MockJobService)
		router := setupPrinterRouter(new(MockPrinterService), jobs)

		jobs.On("TestPage", mock.Anything, "ghost").Return(nil, shared.ErrNotFound)

		w := performRequest(router, http.MethodPost, "/api/v1/printers/ghost/test-page", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejected printer", func(t *testing.T) {
		jobs := new(MockJobService)
		router := setupPrinterRouter(new(MockPrinterService), jobs)

		jobs.On("TestPage", mock.Anything, "p2").
			Return(nil, shared.NewDomainError("INVALID_PRINTER", "Printer ID cannot be empty"))

		w := performRequest(router, http.MethodPost, "/api/v1/printers/p2/test-page", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
