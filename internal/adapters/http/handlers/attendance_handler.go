package handlers

import (
	"errors"

	"attendly/internal/adapters/http/middleware"
	"attendly/internal/adapters/persistence/models"
	"attendly/internal/adapters/persistence/store"
	"attendly/internal/core/domain"
	"attendly/internal/core/services"
	"attendly/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

var attendanceColumns = store.Columns(&models.Attendance{})

// AttendanceHandler handles the attendance lifecycle endpoints. Reads
// stay on the generic EntityHandler; every mutation goes through here
// so no record can skip the day-window and geofence checks.
type AttendanceHandler struct {
	attendanceService *services.AttendanceService
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(attendanceService *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// SignIn opens today's attendance record for the authenticated account
func (h *AttendanceHandler) SignIn(c *fiber.Ctx) error {
	var req services.SignInInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Branch == "" {
		return response.BadRequest(c, "Branch is required")
	}

	record, err := h.attendanceService.SignIn(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return attendanceError(c, err)
	}
	return response.Created(c, "Signed in", record)
}

// SignOut closes today's attendance record
func (h *AttendanceHandler) SignOut(c *fiber.Ctx) error {
	var req services.SignOutInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.AttendanceID == 0 {
		return response.BadRequest(c, "Attendance id is required")
	}
	if req.Branch == "" {
		return response.BadRequest(c, "Branch is required")
	}

	record, err := h.attendanceService.SignOut(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return attendanceError(c, err)
	}
	return response.Success(c, "Signed out", record)
}

// Update patches a record the authenticated account owns. This replaces
// the generic entity update for attendance so a caller can never edit
// another account's records.
func (h *AttendanceHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid id")
	}

	var patch map[string]interface{}
	if err := c.BodyParser(&patch); err != nil || len(patch) == 0 {
		return response.BadRequest(c, "Invalid request body")
	}
	for column := range patch {
		if _, ok := attendanceColumns[column]; !ok {
			return response.BadRequest(c, "Unknown column: "+column)
		}
	}

	record, err := h.attendanceService.Update(c.Context(), middleware.UserID(c), uint(id), patch)
	if err != nil {
		return attendanceError(c, err)
	}
	return response.Success(c, "Record updated", record)
}

// attendanceError maps lifecycle failures to specific responses. Every
// rejection keeps its discriminated reason; nothing collapses into a
// generic message.
func attendanceError(c *fiber.Ctx, err error) error {
	if reason, rejected := domain.IsLocationRejected(err); rejected {
		return response.BadRequest(c, string(reason))
	}
	switch {
	case errors.Is(err, domain.ErrDuplicateSignIn):
		return response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrSignOutExpired):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Attendance record not found")
	default:
		return response.InternalServerError(c, "Attendance operation failed")
	}
}
