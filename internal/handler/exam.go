package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/exam-registration/internal/model"
	"github.com/iliyamo/exam-registration/internal/repository"
)

// ExamHandler serves the exam catalogue.  Students browse it read-only;
// creation of exams and venues is restricted to admin roles by the
// router.
type ExamHandler struct {
	Exams *repository.ExamRepo
}

func NewExamHandler(e *repository.ExamRepo) *ExamHandler {
	return &ExamHandler{Exams: e}
}

type createExamReq struct {
	Name                 string  `json:"name" validate:"required"`
	Mode                 string  `json:"mode" validate:"required,oneof=ONLINE OFFLINE"`
	TimePolicy           string  `json:"time_policy" validate:"required,oneof=FIXED FLEXIBLE"`
	ExamDate             string  `json:"exam_date" validate:"required"` // "2006-01-02"
	ExamTime             *string `json:"exam_time"`                     // "HH:MM", required when FIXED
	DurationMinutes      uint32  `json:"duration_minutes" validate:"required,min=1"`
	FeeCents             uint32  `json:"fee_cents"`
	RegistrationDeadline string  `json:"registration_deadline" validate:"required"` // RFC 3339
	Category             string  `json:"category"`
	Description          string  `json:"description"`
	Prerequisites        string  `json:"prerequisites"`
}

type createLocationReq struct {
	Name       string `json:"name" validate:"required"`
	TotalSeats uint32 `json:"total_seats" validate:"required,min=1"`
}

type examResp struct {
	ID                   uint64  `json:"id"`
	Name                 string  `json:"name"`
	Mode                 string  `json:"mode"`
	TimePolicy           string  `json:"time_policy"`
	ExamDate             string  `json:"exam_date"`
	ExamTime             *string `json:"exam_time,omitempty"`
	DurationMinutes      uint32  `json:"duration_minutes"`
	FeeCents             uint32  `json:"fee_cents"`
	RegistrationDeadline string  `json:"registration_deadline"`
	Category             string  `json:"category,omitempty"`
	Description          string  `json:"description,omitempty"`
	Prerequisites        string  `json:"prerequisites,omitempty"`
}

type locationResp struct {
	ID             uint64 `json:"id"`
	Name           string `json:"name"`
	TotalSeats     uint32 `json:"total_seats"`
	AvailableSeats uint32 `json:"available_seats"`
}

func toExamResp(e model.Exam) examResp {
	return examResp{
		ID:                   e.ID,
		Name:                 e.Name,
		Mode:                 e.Mode,
		TimePolicy:           e.TimePolicy,
		ExamDate:             e.ExamDate.Format("2006-01-02"),
		ExamTime:             e.ExamTime,
		DurationMinutes:      e.DurationMinutes,
		FeeCents:             e.FeeCents,
		RegistrationDeadline: e.RegistrationDeadline.UTC().Format(time.RFC3339),
		Category:             e.Category,
		Description:          e.Description,
		Prerequisites:        e.Prerequisites,
	}
}

// List handles GET /v1/exams.
func (h *ExamHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	exams, err := h.Exams.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list exams failed"})
	}
	out := make([]examResp, 0, len(exams))
	for _, e := range exams {
		out = append(out, toExamResp(e))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/exams/:id.
func (h *ExamHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exam id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Exams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrExamNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "exam not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load exam failed"})
	}
	return c.JSON(http.StatusOK, toExamResp(e))
}

// ListLocations handles GET /v1/exams/:id/locations, used by students to
// build their venue preference list.
func (h *ExamHandler) ListLocations(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exam id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Exams.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrExamNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "exam not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load exam failed"})
	}
	locs, err := h.Exams.ListLocations(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list locations failed"})
	}
	out := make([]locationResp, 0, len(locs))
	for _, l := range locs {
		avail := uint32(0)
		if l.TotalSeats > l.FilledSeats {
			avail = l.TotalSeats - l.FilledSeats
		}
		out = append(out, locationResp{ID: l.ID, Name: l.Name, TotalSeats: l.TotalSeats, AvailableSeats: avail})
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /v1/admin/exams.
func (h *ExamHandler) Create(c echo.Context) error {
	var req createExamReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	examDate, err := time.Parse("2006-01-02", req.ExamDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "exam_date must be YYYY-MM-DD"})
	}
	deadline, err := time.Parse(time.RFC3339, req.RegistrationDeadline)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "registration_deadline must be RFC 3339"})
	}
	if req.TimePolicy == model.TimePolicyFixed {
		if req.ExamTime == nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "exam_time is required for FIXED exams"})
		}
		if !validExamTime(*req.ExamTime) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "exam_time must be HH:MM between 08:00 and 16:59"})
		}
	}

	e := model.Exam{
		Name:                 req.Name,
		Mode:                 req.Mode,
		TimePolicy:           req.TimePolicy,
		ExamDate:             examDate,
		ExamTime:             req.ExamTime,
		DurationMinutes:      req.DurationMinutes,
		FeeCents:             req.FeeCents,
		RegistrationDeadline: deadline,
		Category:             req.Category,
		Description:          req.Description,
		Prerequisites:        req.Prerequisites,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Exams.Create(ctx, &e); err != nil {
		if err.Error() == "exam name already exists" {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create exam failed"})
	}
	return c.JSON(http.StatusCreated, toExamResp(e))
}

// CreateLocation handles POST /v1/admin/exams/:id/locations.  Venues can
// only be attached to OFFLINE exams.
func (h *ExamHandler) CreateLocation(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exam id"})
	}
	var req createLocationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Exams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrExamNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "exam not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load exam failed"})
	}
	if e.Mode != model.ModeOffline {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "locations apply to OFFLINE exams only"})
	}

	loc := model.ExamLocation{ExamID: id, Name: req.Name, TotalSeats: req.TotalSeats}
	if err := h.Exams.CreateLocation(ctx, &loc); err != nil {
		if errors.Is(err, repository.ErrLocationExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create location failed"})
	}
	return c.JSON(http.StatusCreated, locationResp{
		ID: loc.ID, Name: loc.Name, TotalSeats: loc.TotalSeats, AvailableSeats: loc.TotalSeats,
	})
}
