package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/exam-registration/internal/model"
	"github.com/iliyamo/exam-registration/internal/repository"
)

// ProfileHandler exposes the student's profile.  A completed profile
// (name and phone at minimum) is a precondition for exam registration
// because those fields are printed on the hall ticket.
type ProfileHandler struct {
	Details *repository.UserDetailsRepo
}

func NewProfileHandler(d *repository.UserDetailsRepo) *ProfileHandler {
	return &ProfileHandler{Details: d}
}

type profileReq struct {
	FullName     string `json:"full_name" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	DateOfBirth  string `json:"date_of_birth"` // "2006-01-02", optional
	Address      string `json:"address"`
	City         string `json:"city"`
	GuardianName string `json:"guardian_name"`
	PhotoURL     string `json:"photo_url"`
}

type profileResp struct {
	FullName     string  `json:"full_name"`
	Phone        string  `json:"phone"`
	DateOfBirth  *string `json:"date_of_birth,omitempty"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	GuardianName string  `json:"guardian_name,omitempty"`
	PhotoURL     string  `json:"photo_url,omitempty"`
	Complete     bool    `json:"complete"`
}

// Get handles GET /v1/profile.  A 404 means the student has not filled
// the profile form yet.
func (h *ProfileHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Details.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}

	resp := profileResp{
		FullName:     d.FullName,
		Phone:        d.Phone,
		Address:      d.Address,
		City:         d.City,
		GuardianName: d.GuardianName,
		PhotoURL:     d.PhotoURL,
		Complete:     d.Complete(),
	}
	if d.DateOfBirth != nil {
		v := d.DateOfBirth.Format("2006-01-02")
		resp.DateOfBirth = &v
	}
	return c.JSON(http.StatusOK, resp)
}

// Update handles PUT /v1/profile, upserting the whole profile row.
func (h *ProfileHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	d := model.UserDetails{
		UserID:       userID,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		GuardianName: req.GuardianName,
		PhotoURL:     req.PhotoURL,
	}
	if req.DateOfBirth != "" {
		t, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_of_birth must be YYYY-MM-DD"})
		}
		d.DateOfBirth = &t
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Details.Upsert(ctx, d); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save profile failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "profile saved"})
}
