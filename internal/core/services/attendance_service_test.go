package services

import (
	"context"
	"testing"
	"time"

	"attendly/internal/adapters/persistence/store"
	"attendly/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAttendanceFixture(t *testing.T, strict bool) (*AttendanceService, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	seedPreference(t, mem, strict)
	svc := NewAttendanceService(mem, NewLocationService(mem))
	svc.now = func() time.Time {
		return time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)
	}
	return svc, mem
}

func inOffice() SignInInput {
	return SignInInput{Branch: "Minna", Latitude: minnaLat, Longitude: minnaLng}
}

func TestAttendanceService_SignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a compliant record inside the geofence", func(t *testing.T) {
		svc, _ := newAttendanceFixture(t, true)

		record, err := svc.SignIn(ctx, 7, inOffice())
		require.NoError(t, err)
		assert.False(t, record.IsSignedInFlag)
		assert.NotZero(t, record.ID)
		require.NotNil(t, record.AddedBy)
		assert.Equal(t, uint(7), *record.AddedBy)
		assert.True(t, record.IsOpen())
	})

	t.Run("second sign-in on the same day is rejected", func(t *testing.T) {
		svc, _ := newAttendanceFixture(t, true)

		_, err := svc.SignIn(ctx, 7, inOffice())
		require.NoError(t, err)

		_, err = svc.SignIn(ctx, 7, inOffice())
		assert.ErrorIs(t, err, domain.ErrDuplicateSignIn)
	})

	t.Run("duplicate check holds even after signing out", func(t *testing.T) {
		svc, _ := newAttendanceFixture(t, true)

		record, err := svc.SignIn(ctx, 7, inOffice())
		require.NoError(t, err)
		_, err = svc.SignOut(ctx, 7, SignOutInput{AttendanceID: record.ID, Branch: "Minna", Latitude: minnaLat, Longitude: minnaLng})
		require.NoError(t, err)

		_, err = svc.SignIn(ctx, 7, inOffice())
		assert.ErrorIs(t, err, domain.ErrDuplicateSignIn)
	})

	t.Run("next calendar day starts fresh", func(t *testing.T) {
		svc, _ := newAttendanceFixture(t, true)

		_, err := svc.SignIn(ctx, 7, inOffice())
		require.NoError(t, err)

		svc.now = func() time.Time {
			return time.Date(2024, 3, 15, 0, 0, 1, 0, time.UTC)
		}
		_, err = svc.SignIn(ctx, 7, inOffice())
		assert.NoError(t, err)
	})

	t.Run("different owners do not collide", func(t *testing.T) {
		svc, _ := newAttendanceFixture(t, true)

		_, err := svc.SignIn(ctx, 7, inOffice())
		require.NoError(t, err)
		_, err = svc.SignIn(ctx, 8, inOffice())
		assert.NoError(t, err)
	})

	t.Run("strict policy blocks out-of-range sign-in", func(t *testing.T) {
		svc, _ := newAttendanceFixture(t, true)

		_, err := svc.SignIn(ctx, 7, SignInInput{Branch: "Minna", Latitude: minnaLat + 0.01, Longitude: minnaLng})
		reason, rejected := domain.IsLocationRejected(err)
		require.True(t, rejected)
		assert.Equal(t, domain.ReasonRestrictedLoc, reason)
	})

	t.Run("lenient policy records out-of-range as a compliance flag", func(t *testing.T) {
		svc, _ := newAttendanceFixture(t, false)

		record, err := svc.SignIn(ctx, 7, SignInInput{Branch: "Minna", Latitude: minnaLat + 0.01, Longitude: minnaLng})
		require.NoError(t, err)
		assert.True(t, record.IsSignedInFlag)
	})

	t.Run("unknown branch blocks sign-in regardless of policy", func(t *testing.T) {
		svc, _ := newAttendanceFixture(t, false)

		_, err := svc.SignIn(ctx, 7, SignInInput{Branch: "Lagos", Latitude: minnaLat, Longitude: minnaLng})
		reason, rejected := domain.IsLocationRejected(err)
		require.True(t, rejected)
		assert.Equal(t, domain.ReasonBranchNotSet, reason)
	})
}

func TestAttendanceService_SignOut(t *testing.T) {
	ctx := context.Background()

	signOutAt := func(id uint) SignOutInput {
		return SignOutInput{AttendanceID: id, Branch: "Minna", Latitude: minnaLat, Longitude: minnaLng}
	}

	t.Run("closes an open record", func(t *testing.T) {
		svc, _ := newAttendanceFixture(t, true)

		record, err := svc.SignIn(ctx, 7, inOffice())
		require.NoError(t, err)

		closed, err := svc.SignOut(ctx, 7, signOutAt(record.ID))
		require.NoError(t, err)
		require.NotNil(t, closed.SignedOutAt)
		require.NotNil(t, closed.IsSignedOutFlag)
		assert.False(t, *closed.IsSignedOutFlag)
		assert.False(t, closed.IsOpen())
	})

	t.Run("unknown record reads as expired", func(t *testing.T) {
		svc, _ := newAttendanceFixture(t, true)

		_, err := svc.SignOut(ctx, 7, signOutAt(999))
		assert.ErrorIs(t, err, domain.ErrSignOutExpired)
	})

	t.Run("yesterday's record can no longer be closed", func(t *testing.T) {
		svc, _ := newAttendanceFixture(t, true)

		record, err := svc.SignIn(ctx, 7, inOffice())
		require.NoError(t, err)

		svc.now = func() time.Time {
			return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
		}
		_, err = svc.SignOut(ctx, 7, signOutAt(record.ID))
		assert.ErrorIs(t, err, domain.ErrSignOutExpired)
	})

	t.Run("already closed record is not found", func(t *testing.T) {
		svc, _ := newAttendanceFixture(t, true)

		record, err := svc.SignIn(ctx, 7, inOffice())
		require.NoError(t, err)
		_, err = svc.SignOut(ctx, 7, signOutAt(record.ID))
		require.NoError(t, err)

		_, err = svc.SignOut(ctx, 7, signOutAt(record.ID))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("another account cannot close the record", func(t *testing.T) {
		svc, _ := newAttendanceFixture(t, true)

		record, err := svc.SignIn(ctx, 7, inOffice())
		require.NoError(t, err)

		_, err = svc.SignOut(ctx, 8, signOutAt(record.ID))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("geofence applies symmetrically at sign-out", func(t *testing.T) {
		svc, _ := newAttendanceFixture(t, true)

		record, err := svc.SignIn(ctx, 7, inOffice())
		require.NoError(t, err)

		_, err = svc.SignOut(ctx, 7, SignOutInput{AttendanceID: record.ID, Branch: "Minna", Latitude: minnaLat + 0.01, Longitude: minnaLng})
		reason, rejected := domain.IsLocationRejected(err)
		require.True(t, rejected)
		assert.Equal(t, domain.ReasonRestrictedLoc, reason)
	})

	t.Run("lenient out-of-range sign-out sets the compliance flag", func(t *testing.T) {
		svc, _ := newAttendanceFixture(t, false)

		record, err := svc.SignIn(ctx, 7, inOffice())
		require.NoError(t, err)

		closed, err := svc.SignOut(ctx, 7, SignOutInput{AttendanceID: record.ID, Branch: "Minna", Latitude: minnaLat + 0.01, Longitude: minnaLng})
		require.NoError(t, err)
		require.NotNil(t, closed.IsSignedOutFlag)
		assert.True(t, *closed.IsSignedOutFlag)
	})
}

func TestAttendanceService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can patch a record", func(t *testing.T) {
		svc, _ := newAttendanceFixture(t, true)

		record, err := svc.SignIn(ctx, 7, inOffice())
		require.NoError(t, err)

		updated, err := svc.Update(ctx, 7, record.ID, store.Patch{"employee_id": uint(3)})
		require.NoError(t, err)
		require.NotNil(t, updated.EmployeeID)
		assert.Equal(t, uint(3), *updated.EmployeeID)
		require.NotNil(t, updated.UpdatedBy)
		assert.Equal(t, uint(7), *updated.UpdatedBy)
	})

	t.Run("ownership columns cannot be patched", func(t *testing.T) {
		svc, _ := newAttendanceFixture(t, true)

		record, err := svc.SignIn(ctx, 7, inOffice())
		require.NoError(t, err)

		updated, err := svc.Update(ctx, 7, record.ID, store.Patch{"added_by": uint(99)})
		require.NoError(t, err)
		require.NotNil(t, updated.AddedBy)
		assert.Equal(t, uint(7), *updated.AddedBy)
	})

	t.Run("non-owner update is not found", func(t *testing.T) {
		svc, _ := newAttendanceFixture(t, true)

		record, err := svc.SignIn(ctx, 7, inOffice())
		require.NoError(t, err)

		_, err = svc.Update(ctx, 8, record.ID, store.Patch{"employee_id": uint(3)})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
