package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/exam-registration/internal/hallticket"
	"github.com/iliyamo/exam-registration/internal/model"
	"github.com/iliyamo/exam-registration/internal/queue"
	"github.com/iliyamo/exam-registration/internal/repository"
	queuepublisher "github.com/iliyamo/exam-registration/internal/service"
)

// ReviewHandler implements the administrator side of registrations:
// listing applications and approving or rejecting them.  Approval
// renders the hall ticket before the decision commits, so a stored
// APPROVED row always has a ticket on disk.
type ReviewHandler struct {
	DB            *sql.DB
	Registrations *repository.RegistrationRepo
	Exams         *repository.ExamRepo
	Users         *repository.UserRepo
	Details       *repository.UserDetailsRepo
	Tickets       *hallticket.Generator
}

func NewReviewHandler(db *sql.DB, r *repository.RegistrationRepo, e *repository.ExamRepo,
	u *repository.UserRepo, d *repository.UserDetailsRepo, t *hallticket.Generator) *ReviewHandler {
	return &ReviewHandler{DB: db, Registrations: r, Exams: e, Users: u, Details: d, Tickets: t}
}

type rejectReq struct {
	Reason string `json:"reason" validate:"required"`
}

// ListAll handles GET /v1/admin/registrations.
func (h *ReviewHandler) ListAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	details, err := h.Registrations.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list registrations failed"})
	}
	return c.JSON(http.StatusOK, details)
}

// Approve handles POST /v1/admin/registrations/:application_id/approve.
func (h *ReviewHandler) Approve(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	appID := c.Param("application_id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "approve failed"})
	}
	defer tx.Rollback()

	reg, err := h.Registrations.GetByApplicationIDTx(ctx, tx, appID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "registration not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "approve failed"})
	}
	if !model.CanTransition(reg.Status, model.StatusApproved) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "registration already reviewed"})
	}

	user, err := h.Users.GetByID(ctx, reg.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "approve failed"})
	}
	exam, err := h.Exams.GetByID(ctx, reg.ExamID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "approve failed"})
	}
	details, err := h.Details.GetByUserID(ctx, reg.UserID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "approve failed"})
	}
	studentName := details.FullName
	if studentName == "" {
		studentName = user.Email
	}

	ticket := hallticket.Ticket{
		ApplicationID:   reg.ApplicationID,
		StudentName:     studentName,
		StudentEmail:    user.Email,
		ExamName:        exam.Name,
		ExamDate:        exam.ExamDate.Format("02 Jan 2006"),
		Mode:            reg.Mode,
		DurationMinutes: exam.DurationMinutes,
	}
	switch {
	case reg.SelectedExamTime != nil:
		ticket.ExamTime = *reg.SelectedExamTime
	case exam.ExamTime != nil:
		ticket.ExamTime = *exam.ExamTime
	}
	if reg.AssignedLocation != nil {
		ticket.AssignedLocation = *reg.AssignedLocation
	}
	if reg.SeatNumber != nil {
		ticket.SeatNumber = *reg.SeatNumber
	}

	// Render the ticket before the state change commits: an APPROVED row
	// must never point at a missing file.
	url, err := h.Tickets.Generate(ticket)
	if err != nil {
		log.Error().Err(err).Str("application_id", appID).Msg("hall ticket generation failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hall ticket generation failed"})
	}

	if err := h.Registrations.ApproveTx(ctx, tx, reg.ID, url); err != nil {
		if errors.Is(err, repository.ErrInvalidState) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "registration already reviewed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "approve failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "approve failed"})
	}

	reviewedAt := time.Now().UTC().Format(time.RFC3339)
	if err := queuepublisher.PublishRegistrationReviewed(ctx, queue.RegistrationReviewedEvent{
		ApplicationID: reg.ApplicationID,
		UserID:        reg.UserID,
		StudentEmail:  user.Email,
		ExamID:        exam.ID,
		ExamName:      exam.Name,
		Status:        model.StatusApproved,
		HallTicketURL: url,
		ReviewedBy:    adminID,
		ReviewedAt:    reviewedAt,
	}); err != nil {
		log.Warn().Err(err).Str("application_id", appID).Msg("publish reviewed event failed")
	}

	log.Info().Str("application_id", appID).Uint64("reviewed_by", adminID).Msg("registration approved")
	return c.JSON(http.StatusOK, echo.Map{
		"application_id":  reg.ApplicationID,
		"status":          model.StatusApproved,
		"hall_ticket_url": url,
	})
}

// Reject handles POST /v1/admin/registrations/:application_id/reject.
// Rejecting an offline registration frees its seat for other students.
func (h *ReviewHandler) Reject(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	appID := c.Param("application_id")

	var req rejectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reject failed"})
	}
	defer tx.Rollback()

	reg, err := h.Registrations.GetByApplicationIDTx(ctx, tx, appID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "registration not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reject failed"})
	}
	if !model.CanTransition(reg.Status, model.StatusRejected) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "registration already reviewed"})
	}

	user, err := h.Users.GetByID(ctx, reg.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reject failed"})
	}
	exam, err := h.Exams.GetByID(ctx, reg.ExamID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reject failed"})
	}

	if err := h.Registrations.RejectTx(ctx, tx, reg.ID, req.Reason); err != nil {
		if errors.Is(err, repository.ErrInvalidState) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "registration already reviewed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reject failed"})
	}
	if reg.Mode == model.ModeOffline && reg.AssignedLocation != nil {
		if err := h.Exams.ReleaseSeatTx(ctx, tx, reg.ExamID, *reg.AssignedLocation); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reject failed"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reject failed"})
	}

	reviewedAt := time.Now().UTC().Format(time.RFC3339)
	if err := queuepublisher.PublishRegistrationReviewed(ctx, queue.RegistrationReviewedEvent{
		ApplicationID:   reg.ApplicationID,
		UserID:          reg.UserID,
		StudentEmail:    user.Email,
		ExamID:          exam.ID,
		ExamName:        exam.Name,
		Status:          model.StatusRejected,
		RejectionReason: req.Reason,
		ReviewedBy:      adminID,
		ReviewedAt:      reviewedAt,
	}); err != nil {
		log.Warn().Err(err).Str("application_id", appID).Msg("publish reviewed event failed")
	}

	log.Info().Str("application_id", appID).Uint64("reviewed_by", adminID).Msg("registration rejected")
	return c.JSON(http.StatusOK, echo.Map{
		"application_id": reg.ApplicationID,
		"status":         model.StatusRejected,
		"reason":         req.Reason,
	})
}
