package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/exam-registration/internal/model"
	"github.com/iliyamo/exam-registration/internal/repository"
)

// RegistrationHandler implements the student side of exam registration:
// applying, listing, inspecting and cancelling.  Seat allocation for
// offline exams happens here, inside the same transaction as the
// registration insert.
type RegistrationHandler struct {
	DB            *sql.DB
	Exams         *repository.ExamRepo
	Registrations *repository.RegistrationRepo
	Details       *repository.UserDetailsRepo
}

func NewRegistrationHandler(db *sql.DB, e *repository.ExamRepo, r *repository.RegistrationRepo, d *repository.UserDetailsRepo) *RegistrationHandler {
	return &RegistrationHandler{DB: db, Exams: e, Registrations: r, Details: d}
}

type registerExamReq struct {
	ExamID              uint64   `json:"exam_id" validate:"required"`
	ExamMode            string   `json:"exam_mode" validate:"omitempty,oneof=ONLINE OFFLINE"`
	LocationPreferences []string `json:"location_preferences"`
	SelectedExamTime    string   `json:"selected_exam_time"`
}

type registerExamResp struct {
	ApplicationID    string  `json:"application_id"`
	Status           string  `json:"status"`
	AssignedLocation *string `json:"assigned_location,omitempty"`
	SeatNumber       *uint32 `json:"seat_number,omitempty"`
	SelectedExamTime *string `json:"selected_exam_time,omitempty"`
}

// Create handles POST /v1/registrations.
//
// The request is validated against the exam's mode and time policy,
// then the registration and (for offline exams) the seat claim are
// committed in one transaction.  Registrations are created PENDING and
// await an administrator's decision.
func (h *RegistrationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req registerExamReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	exam, err := h.Exams.GetByID(ctx, req.ExamID)
	if err != nil {
		if errors.Is(err, repository.ErrExamNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "exam not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load exam failed"})
	}
	if time.Now().After(exam.RegistrationDeadline) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "registration deadline has passed"})
	}
	// exam_mode in the body is informational; when present it must match
	// the exam's actual mode so a stale frontend cannot register the
	// student under the wrong assumptions.
	if req.ExamMode != "" && req.ExamMode != exam.Mode {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "exam_mode does not match the exam"})
	}

	details, err := h.Details.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	if err != nil || !details.Complete() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "complete your profile before registering"})
	}

	exists, err := h.Registrations.ExistsForUserExam(ctx, userID, exam.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration check failed"})
	}
	if exists {
		return c.JSON(http.StatusConflict, echo.Map{"error": "already registered for this exam"})
	}

	reg := model.Registration{
		ApplicationID: uuid.NewString(),
		UserID:        userID,
		ExamID:        exam.ID,
		Mode:          exam.Mode,
		Status:        model.StatusPending,
	}

	switch exam.Mode {
	case model.ModeOnline:
		var chosen string
		switch exam.TimePolicy {
		case model.TimePolicyFixed:
			if exam.ExamTime == nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "exam has no start time configured"})
			}
			chosen = *exam.ExamTime
		case model.TimePolicyFlexible:
			if req.SelectedExamTime == "" {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "selected_exam_time is required for this exam"})
			}
			if !validExamTime(req.SelectedExamTime) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "selected_exam_time must be HH:MM between 08:00 and 16:59"})
			}
			chosen = req.SelectedExamTime
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unknown exam time policy"})
		}
		reg.SelectedExamTime = &chosen
		if err := h.insertOnline(ctx, &reg); err != nil {
			return registrationCreateError(c, err)
		}

	case model.ModeOffline:
		if len(req.LocationPreferences) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "location_preferences are required for offline exams"})
		}
		locs, err := h.Exams.ListLocations(ctx, exam.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list locations failed"})
		}
		// Advisory pre-check only; the authoritative capacity check is
		// the conditional UPDATE inside the transaction.
		if _, ok := firstAvailable(req.LocationPreferences, locs); !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no seats available at your preferred locations"})
		}
		if err := h.insertOffline(ctx, &reg, req.LocationPreferences); err != nil {
			return registrationCreateError(c, err)
		}

	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unknown exam mode"})
	}

	log.Info().
		Str("application_id", reg.ApplicationID).
		Uint64("user_id", userID).
		Uint64("exam_id", exam.ID).
		Str("mode", reg.Mode).
		Msg("registration created")

	return c.JSON(http.StatusCreated, registerExamResp{
		ApplicationID:    reg.ApplicationID,
		Status:           reg.Status,
		AssignedLocation: reg.AssignedLocation,
		SeatNumber:       reg.SeatNumber,
		SelectedExamTime: reg.SelectedExamTime,
	})
}

// insertOnline writes an online registration in its own transaction.
func (h *RegistrationHandler) insertOnline(ctx context.Context, reg *model.Registration) error {
	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := h.Registrations.CreateTx(ctx, tx, reg); err != nil {
		return err
	}
	return tx.Commit()
}

// insertOffline claims a seat and writes the registration atomically.
// Preferences are tried in order; each claim is a conditional increment
// so a venue that fills up between the listing and the claim is simply
// skipped.
func (h *RegistrationHandler) insertOffline(ctx context.Context, reg *model.Registration, prefs []string) error {
	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var venue string
	var seat uint32
	claimed := false
	for _, name := range prefs {
		s, ok, err := h.Exams.ClaimSeatTx(ctx, tx, reg.ExamID, name)
		if err != nil {
			return err
		}
		if ok {
			venue, seat, claimed = name, s, true
			break
		}
	}
	if !claimed {
		return repository.ErrNoSeatAvailable
	}
	reg.AssignedLocation = &venue
	reg.SeatNumber = &seat

	if err := h.Registrations.CreateTx(ctx, tx, reg); err != nil {
		return err
	}
	return tx.Commit()
}

func registrationCreateError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrAlreadyRegistered):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already registered for this exam"})
	case errors.Is(err, repository.ErrNoSeatAvailable):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no seats available at your preferred locations"})
	default:
		log.Error().Err(err).Msg("registration create failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create registration failed"})
	}
}

// ListMine handles GET /v1/my-registrations.
func (h *RegistrationHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	details, err := h.Registrations.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list registrations failed"})
	}
	return c.JSON(http.StatusOK, details)
}

// Get handles GET /v1/registrations/:application_id.  Only the owner
// may read a registration.
func (h *RegistrationHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	appID := c.Param("application_id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Registrations.GetDetailForUser(ctx, appID, userID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "registration not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load registration failed"})
		}
	}
	return c.JSON(http.StatusOK, d)
}

// Cancel handles DELETE /v1/registrations/:application_id.  Only a
// PENDING registration may be withdrawn; cancelling an offline one
// returns its seat to the venue pool.
func (h *RegistrationHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	appID := c.Param("application_id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel registration failed"})
	}
	defer tx.Rollback()

	reg, err := h.Registrations.GetByApplicationIDTx(ctx, tx, appID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "registration not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel registration failed"})
	}
	if reg.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Registrations.DeleteTx(ctx, tx, reg.ID); err != nil {
		if errors.Is(err, repository.ErrInvalidState) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "only pending registrations can be cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel registration failed"})
	}
	if reg.Mode == model.ModeOffline && reg.AssignedLocation != nil {
		if err := h.Exams.ReleaseSeatTx(ctx, tx, reg.ExamID, *reg.AssignedLocation); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel registration failed"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel registration failed"})
	}

	log.Info().Str("application_id", appID).Uint64("user_id", userID).Msg("registration cancelled")
	return c.NoContent(http.StatusNoContent)
}
