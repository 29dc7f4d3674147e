package services

import (
	"context"
	"errors"
	"time"

	"attendly/internal/adapters/persistence/models"
	"attendly/internal/adapters/persistence/store"
	"attendly/internal/core/domain"
)

// SignInInput represents attendance sign-in input
type SignInInput struct {
	EmployeeID *uint   `json:"employee_id"`
	Branch     string  `json:"branch" validate:"required"`
	Latitude   float64 `json:"latitude" validate:"required"`
	Longitude  float64 `json:"longitude" validate:"required"`
}

// SignOutInput represents attendance sign-out input
type SignOutInput struct {
	AttendanceID uint    `json:"attendance_id" validate:"required"`
	Branch       string  `json:"branch" validate:"required"`
	Latitude     float64 `json:"latitude" validate:"required"`
	Longitude    float64 `json:"longitude" validate:"required"`
}

// AttendanceService owns the sign-in/sign-out lifecycle. An attendance row
// belongs to the account that created it; every mutation is scoped by
// added_by so one account can never touch another's records.
type AttendanceService struct {
	store    store.Store
	location *LocationService
	now      func() time.Time
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(s store.Store, location *LocationService) *AttendanceService {
	return &AttendanceService{
		store:    s,
		location: location,
		now:      time.Now,
	}
}

// dayBounds returns the local-midnight start and end-of-day instants
// around t, the window a "same day" check runs over.
func dayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
	return start, end
}

// SignIn opens a new attendance record for today. At most one record per
// owner per calendar day: a second sign-in on the same day is rejected
// regardless of whether the first was already signed out.
func (s *AttendanceService) SignIn(ctx context.Context, userID uint, input SignInInput) (*models.Attendance, error) {
	now := s.now()
	dayStart, dayEnd := dayBounds(now)

	n, err := s.store.Count(ctx, domain.EntityAttendance, store.Alive(
		store.Eq{Field: "added_by", Value: userID},
		store.Gte{Field: "signed_in_at", Value: dayStart},
		store.Lte{Field: "signed_in_at", Value: dayEnd},
	))
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, domain.ErrDuplicateSignIn
	}

	verdict, err := s.location.Verify(ctx, input.Branch, input.Latitude, input.Longitude)
	if err != nil {
		return nil, err
	}
	if verdict.Reason.Hard() {
		return nil, &domain.LocationError{Reason: verdict.Reason}
	}

	record := &models.Attendance{
		EmployeeID:     input.EmployeeID,
		SignedInAt:     now,
		SignedInLat:    input.Latitude,
		SignedInLng:    input.Longitude,
		IsSignedInFlag: verdict.ViolatesPolicy,
		IsActive:       true,
		AddedBy:        &userID,
	}
	if err := s.store.Create(ctx, domain.EntityAttendance, record); err != nil {
		return nil, err
	}
	return record, nil
}

// SignOut closes an open attendance record. The record must have been
// signed in today; anything older can no longer be closed.
func (s *AttendanceService) SignOut(ctx context.Context, userID uint, input SignOutInput) (*models.Attendance, error) {
	now := s.now()

	var record models.Attendance
	err := s.store.FindOne(ctx, domain.EntityAttendance, store.Alive(
		store.Eq{Field: "id", Value: input.AttendanceID},
	), &record)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrSignOutExpired
		}
		return nil, err
	}

	dayStart, dayEnd := dayBounds(now)
	if record.SignedInAt.Before(dayStart) || record.SignedInAt.After(dayEnd) {
		return nil, domain.ErrSignOutExpired
	}
	if !record.IsOpen() {
		return nil, domain.ErrNotFound
	}

	verdict, err := s.location.Verify(ctx, input.Branch, input.Latitude, input.Longitude)
	if err != nil {
		return nil, err
	}
	if verdict.Reason.Hard() {
		return nil, &domain.LocationError{Reason: verdict.Reason}
	}

	err = s.store.UpdateOne(ctx, domain.EntityAttendance, store.And{
		store.Eq{Field: "id", Value: record.ID},
		store.Eq{Field: "added_by", Value: userID},
	}, store.Patch{
		"signed_out_at":      now,
		"signed_out_lat":     input.Latitude,
		"signed_out_lng":     input.Longitude,
		"is_signed_out_flag": verdict.ViolatesPolicy,
		"updated_by":         userID,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	err = s.store.FindOne(ctx, domain.EntityAttendance, store.Eq{Field: "id", Value: record.ID}, &record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Update applies a partial update to an attendance record the caller owns.
// The day-window and geofence checks do not re-run here; this is the
// administrative correction path, not the lifecycle path.
func (s *AttendanceService) Update(ctx context.Context, userID, id uint, patch store.Patch) (*models.Attendance, error) {
	sanitized := store.Patch{}
	for column, value := range patch {
		switch column {
		case "id", "added_by", "created_at":
			continue
		}
		sanitized[column] = value
	}
	sanitized["updated_by"] = userID

	err := s.store.UpdateOne(ctx, domain.EntityAttendance, store.And{
		store.Eq{Field: "id", Value: id},
		store.Eq{Field: "added_by", Value: userID},
	}, sanitized)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var record models.Attendance
	if err := s.store.FindOne(ctx, domain.EntityAttendance, store.Eq{Field: "id", Value: id}, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
