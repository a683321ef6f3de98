package schedules

import (
	"context"
	"net/http"

	"github.com/chris/digital-wallet/pkg/api"
	"github.com/chris/digital-wallet/pkg/handlers/respond"
	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/chris/digital-wallet/pkg/mapping"
	"github.com/chris/digital-wallet/pkg/models"
	"github.com/chris/digital-wallet/pkg/schedule"
)

// Service is the scheduled payment management the handlers call into.
type Service interface {
	Create(ctx context.Context, caller models.Caller, req schedule.CreateRequest) (*models.ScheduledPayment, error)
	Get(ctx context.Context, caller models.Caller, id string) (*models.ScheduledPayment, error)
	List(ctx context.Context, caller models.Caller) ([]models.ScheduledPayment, error)
	Pause(ctx context.Context, caller models.Caller, id string) (*models.ScheduledPayment, error)
	Resume(ctx context.Context, caller models.Caller, id string) (*models.ScheduledPayment, error)
	Cancel(ctx context.Context, caller models.Caller, id string) (*models.ScheduledPayment, error)
	Update(ctx context.Context, caller models.Caller, id string, req schedule.UpdateRequest) (*models.ScheduledPayment, error)
	Delete(ctx context.Context, caller models.Caller, id string) error
}

var _ Service = (*schedule.Service)(nil)

// SchedulesHandler serves scheduled payments.
type SchedulesHandler struct {
	Service Service
	Logger  *logging.Logger
}

// NewSchedulesHandler creates a new SchedulesHandler.
func NewSchedulesHandler(svc Service, logger *logging.Logger) *SchedulesHandler {
	return &SchedulesHandler{Service: svc, Logger: logging.OrGlobal(logger).Named("schedules")}
}

// ListScheduledPayments returns the caller's scheduled payments.
func (h *SchedulesHandler) ListScheduledPayments(w http.ResponseWriter, r *http.Request) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	list, err := h.Service.List(r.Context(), caller)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "", mapping.ToApiScheduledPayments(list))
}

// CreateScheduledPayment schedules a payment for the caller.
func (h *SchedulesHandler) CreateScheduledPayment(w http.ResponseWriter, r *http.Request) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	var body api.NewScheduledPayment
	if !respond.Decode(w, r, &body) {
		return
	}
	sp, err := h.Service.Create(r.Context(), caller, mapping.ToScheduleCreateRequest(&body))
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusCreated, "Scheduled payment created successfully", mapping.ToApiScheduledPayment(sp))
}

// GetScheduledPayment returns one of the caller's scheduled payments.
func (h *SchedulesHandler) GetScheduledPayment(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	sp, err := h.Service.Get(r.Context(), caller, id)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "", mapping.ToApiScheduledPayment(sp))
}

// PauseScheduledPayment pauses an active schedule.
func (h *SchedulesHandler) PauseScheduledPayment(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	sp, err := h.Service.Pause(r.Context(), caller, id)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "Scheduled payment paused", mapping.ToApiScheduledPayment(sp))
}

// ResumeScheduledPayment resumes a paused schedule.
func (h *SchedulesHandler) ResumeScheduledPayment(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	sp, err := h.Service.Resume(r.Context(), caller, id)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "Scheduled payment resumed", mapping.ToApiScheduledPayment(sp))
}

// UpdateScheduledPayment edits an active or paused schedule.
func (h *SchedulesHandler) UpdateScheduledPayment(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	var body api.UpdateScheduledPayment
	if !respond.Decode(w, r, &body) {
		return
	}
	sp, err := h.Service.Update(r.Context(), caller, id, mapping.ToScheduleUpdateRequest(&body))
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "Scheduled payment updated successfully", mapping.ToApiScheduledPayment(sp))
}

// CancelScheduledPayment stops a schedule for good.
func (h *SchedulesHandler) CancelScheduledPayment(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	sp, err := h.Service.Cancel(r.Context(), caller, id)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Data(w, http.StatusOK, "Scheduled payment cancelled", mapping.ToApiScheduledPayment(sp))
}

// DeleteScheduledPayment removes one of the caller's schedules.
func (h *SchedulesHandler) DeleteScheduledPayment(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := respond.Caller(w, r)
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), caller, id); err != nil {
		respond.Error(w, h.Logger, err)
		return
	}
	respond.Message(w, http.StatusOK, "Scheduled payment deleted successfully")
}
