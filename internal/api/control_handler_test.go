package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/health"
	"github.com/shaiso/Conveyor/internal/orchestrator"
)

type fakeController struct {
	startStatus *domain.OrchestrationStatus
	startErr    error
	status      *domain.OrchestrationStatus
	stopErr     error
}

func (f *fakeController) StartFlow(_ context.Context, _ uuid.UUID) (*domain.OrchestrationStatus, error) {
	return f.startStatus, f.startErr
}

func (f *fakeController) StopFlow(_ context.Context, _ uuid.UUID) error {
	return f.stopErr
}

func (f *fakeController) FlowStatus(_ context.Context, _ uuid.UUID) (*domain.OrchestrationStatus, error) {
	return f.status, nil
}

func controlServer(ctrl Controller) *httptest.Server {
	h := NewControlHandler(ctrl, slog.New(slog.DiscardHandler))
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

func TestControlStart(t *testing.T) {
	flowID := uuid.New()
	now := time.Now()
	srv := controlServer(&fakeController{
		startStatus: &domain.OrchestrationStatus{
			OrchestratedFlowID: flowID,
			IsActive:           true,
			StartedAt:          &now,
		},
	})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/orchestration/start/"+flowID.String(), "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body StartResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.OrchestratedFlowID != flowID {
		t.Errorf("orchestratedFlowId = %s, want %s", body.OrchestratedFlowID, flowID)
	}
}

func TestControlStart_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		startErr   error
		wantStatus int
	}{
		{
			name:       "malformed id",
			id:         "not-a-uuid",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "flow not found",
			id:         uuid.NewString(),
			startErr:   orchestrator.ErrFlowNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name: "unhealthy processors",
			id:   uuid.NewString(),
			startErr: &health.UnhealthyProcessorsError{
				Processors: []health.UnhealthyProcessor{
					{ProcessorID: uuid.New(), Reason: "no health record"},
				},
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := controlServer(&fakeController{startErr: tt.startErr})
			defer srv.Close()

			resp, err := http.Post(srv.URL+"/orchestration/start/"+tt.id, "application/json", nil)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestControlStatus_UnknownInstance(t *testing.T) {
	flowID := uuid.New()
	srv := controlServer(&fakeController{
		status: &domain.OrchestrationStatus{OrchestratedFlowID: flowID},
	})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/orchestration/status/" + flowID.String())
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	// Неизвестный экземпляр — это 200 с isActive=false, не 404
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.IsActive {
		t.Error("isActive = true for unknown instance")
	}
}

func TestControlStop_Idempotent(t *testing.T) {
	srv := controlServer(&fakeController{})
	defer srv.Close()

	// Stop без активной оркестрации отвечает 200
	resp, err := http.Post(srv.URL+"/orchestration/stop/"+uuid.NewString(), "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
