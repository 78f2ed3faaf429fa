package handler

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airline-event-booking/internal/model"
	"github.com/iliyamo/airline-event-booking/internal/repository"
)

// emailPattern is the shape an email address must have: something before
// the @, something after, and a dot in the domain part.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// StaffStore is the persistence surface the staff handler needs.  It is
// implemented by *repository.StaffRepo.
type StaffStore interface {
	Create(ctx context.Context, s *model.StaffMember, password string, cost int) (*model.StaffMember, error)
}

// StaffHandler serves admin-gated staff record creation.
type StaffHandler struct {
	Staff      StaffStore
	BcryptCost int
}

// NewStaffHandler constructs a StaffHandler and panics on a nil store.
func NewStaffHandler(staff StaffStore, bcryptCost int) *StaffHandler {
	if staff == nil {
		panic("nil staff store passed to NewStaffHandler")
	}
	return &StaffHandler{Staff: staff, BcryptCost: bcryptCost}
}

// createStaffReq is the payload for POST /v1/admin/staff.  Password is
// optional; without one the member can only authenticate with the API
// key.
type createStaffReq struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	APIKey      string `json:"api_key"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Department  string `json:"department"`
	AccessLevel int    `json:"access_level"`
}

// CreateStaff handles POST /v1/admin/staff.  It validates the email
// shape, rejects duplicate emails and API keys with 409 and returns the
// created record.  The issued API key is echoed back once; the password
// hash never leaves the server.
func (h *StaffHandler) CreateStaff(c echo.Context) error {
	var req createStaffReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.APIKey = strings.TrimSpace(req.APIKey)
	req.Role = strings.TrimSpace(req.Role)
	if req.Name == "" || req.Email == "" || req.APIKey == "" || req.Role == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email, api_key and role are required"})
	}
	if !emailPattern.MatchString(req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email address"})
	}
	accessLevel := req.AccessLevel
	if accessLevel <= 0 {
		accessLevel = 1
	}

	member := &model.StaffMember{
		Name:        req.Name,
		Email:       req.Email,
		APIKey:      req.APIKey,
		Role:        req.Role,
		Department:  strings.TrimSpace(req.Department),
		AccessLevel: accessLevel,
		Status:      model.StaffActive,
	}
	created, err := h.Staff.Create(c.Request().Context(), member, req.Password, h.BcryptCost)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		case errors.Is(err, repository.ErrAPIKeyExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "api key already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create staff member"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"staff":   created,
	})
}
