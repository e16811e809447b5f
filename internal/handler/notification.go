package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/exam-registration/internal/model"
	"github.com/iliyamo/exam-registration/internal/queue"
	"github.com/iliyamo/exam-registration/internal/repository"
	queuepublisher "github.com/iliyamo/exam-registration/internal/service"
)

// NotificationHandler covers both sides of portal notifications: the
// administrative broadcast endpoint and the student's feed.
type NotificationHandler struct {
	Notifications *repository.NotificationRepo
	Exams         *repository.ExamRepo
}

func NewNotificationHandler(n *repository.NotificationRepo, e *repository.ExamRepo) *NotificationHandler {
	return &NotificationHandler{Notifications: n, Exams: e}
}

type createNotificationReq struct {
	Title    string  `json:"title" validate:"required"`
	Body     string  `json:"body" validate:"required"`
	Audience string  `json:"audience" validate:"required,oneof=ALL EXAM"`
	ExamID   *uint64 `json:"exam_id"`
}

// Create handles POST /v1/admin/notifications.  The notification and
// its recipient rows commit together; the broker event and any email
// delivery are strictly after-commit and best-effort.
func (h *NotificationHandler) Create(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createNotificationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if req.Audience == model.AudienceExam {
		if req.ExamID == nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "exam_id is required for EXAM audience"})
		}
		if _, err := h.Exams.GetByID(ctx, *req.ExamID); err != nil {
			if errors.Is(err, repository.ErrExamNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "exam not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load exam failed"})
		}
	} else {
		req.ExamID = nil
	}

	n := model.Notification{
		Title:     req.Title,
		Body:      req.Body,
		Audience:  req.Audience,
		ExamID:    req.ExamID,
		CreatedBy: adminID,
	}
	count, err := h.Notifications.CreateWithFanout(ctx, &n)
	if err != nil {
		log.Error().Err(err).Msg("notification fan-out failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create notification failed"})
	}

	event := queue.NotificationCreatedEvent{
		NotificationID: n.ID,
		Title:          n.Title,
		Audience:       n.Audience,
		Recipients:     count,
		CreatedBy:      adminID,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if n.ExamID != nil {
		event.ExamID = *n.ExamID
	}
	if err := queuepublisher.PublishNotificationCreated(ctx, event); err != nil {
		log.Warn().Err(err).Uint64("notification_id", n.ID).Msg("publish notification event failed")
	}

	log.Info().Uint64("notification_id", n.ID).Int64("recipients", count).
		Str("audience", n.Audience).Msg("notification created")
	return c.JSON(http.StatusCreated, echo.Map{"id": n.ID, "recipients": count})
}

// ListMine handles GET /v1/notifications.
func (h *NotificationHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Notifications.ListForUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list notifications failed"})
	}
	return c.JSON(http.StatusOK, items)
}

// MarkRead handles POST /v1/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Notifications.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "mark read failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "marked as read"})
}
