package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urbanserve/utils"
)

func kindOf(t *testing.T, err error) utils.ErrorKind {
	t.Helper()
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Kind
}

func TestCreateBookingSnapshotsServiceAndProvider(t *testing.T) {
	conn := setupDB(t)
	fx := seedFixtures(t, conn)

	booking, err := CreateBooking(conn, fx.Customer.ID, bookingInput(fx.Service.ID))
	require.NoError(t, err)

	assert.Equal(t, fx.Provider.ID, booking.ProviderID)
	assert.Equal(t, fx.Service.Price, booking.Amount)
	assert.Equal(t, StatusPending, booking.Status)
	assert.Equal(t, PayOnService, booking.PaymentMethod)
	assert.False(t, booking.IsPaid)

	// bumping the service price must not touch the existing booking
	require.NoError(t, conn.Model(&Service{}).Where("id = ?", fx.Service.ID).Update("price", 999).Error)
	var reloaded Booking
	require.NoError(t, conn.First(&reloaded, booking.ID).Error)
	assert.Equal(t, 500.0, reloaded.Amount)
}

func TestCreateBookingMissingService(t *testing.T) {
	conn := setupDB(t)
	fx := seedFixtures(t, conn)

	_, err := CreateBooking(conn, fx.Customer.ID, bookingInput(9999))
	assert.Equal(t, utils.KindNotFound, kindOf(t, err))
}

func TestCreateBookingIncompleteAddress(t *testing.T) {
	conn := setupDB(t)
	fx := seedFixtures(t, conn)

	in := bookingInput(fx.Service.ID)
	in.Address.Zip = ""
	_, err := CreateBooking(conn, fx.Customer.ID, in)
	assert.Equal(t, utils.KindValidation, kindOf(t, err))
}

func TestCreateBookingDuplicateSlot(t *testing.T) {
	conn := setupDB(t)
	fx := seedFixtures(t, conn)

	in := bookingInput(fx.Service.ID)
	_, err := CreateBooking(conn, fx.Customer.ID, in)
	require.NoError(t, err)

	_, err = CreateBooking(conn, fx.Customer.ID, in)
	assert.Equal(t, utils.KindConflict, kindOf(t, err))

	// a different slot is fine
	in.TimeSlot = "14:00 - 16:00"
	_, err = CreateBooking(conn, fx.Customer.ID, in)
	assert.NoError(t, err)
}

func TestTransitionTable(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusAccepted))
	assert.True(t, CanTransition(StatusPending, StatusCancelled))
	assert.True(t, CanTransition(StatusAccepted, StatusInProgress))
	assert.True(t, CanTransition(StatusRescheduled, StatusAccepted))
	assert.True(t, CanTransition(StatusInProgress, StatusCompleted))

	// no skipping ahead, no leaving or re-entering terminal states
	assert.False(t, CanTransition(StatusPending, StatusCompleted))
	assert.False(t, CanTransition(StatusCompleted, StatusCancelled))
	assert.False(t, CanTransition(StatusCancelled, StatusCompleted))
	assert.False(t, CanTransition(StatusCompleted, StatusCompleted))

	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
}

func TestTransitionAuthorization(t *testing.T) {
	conn := setupDB(t)
	fx := seedFixtures(t, conn)

	booking, err := CreateBooking(conn, fx.Customer.ID, bookingInput(fx.Service.ID))
	require.NoError(t, err)

	stranger := Actor{UserID: 99, Role: RoleProvider, ProviderID: fx.Provider.ID + 100}
	err = booking.Transition(conn, stranger, StatusAccepted)
	assert.Equal(t, utils.KindForbidden, kindOf(t, err))

	customer := Actor{UserID: fx.Customer.ID, Role: RoleCustomer}
	err = booking.Transition(conn, customer, StatusAccepted)
	assert.Equal(t, utils.KindForbidden, kindOf(t, err))

	owner := Actor{UserID: fx.Provider.UserID, Role: RoleProvider, ProviderID: fx.Provider.ID}
	require.NoError(t, booking.Transition(conn, owner, StatusAccepted))
	assert.Equal(t, StatusAccepted, booking.Status)

	admin := Actor{UserID: 1, Role: RoleAdmin}
	require.NoError(t, booking.Transition(conn, admin, StatusInProgress))
}

func TestTransitionRejectsIllegalMoves(t *testing.T) {
	conn := setupDB(t)
	fx := seedFixtures(t, conn)

	booking, err := CreateBooking(conn, fx.Customer.ID, bookingInput(fx.Service.ID))
	require.NoError(t, err)
	owner := Actor{UserID: fx.Provider.UserID, Role: RoleProvider, ProviderID: fx.Provider.ID}

	err = booking.Transition(conn, owner, StatusCompleted)
	assert.Equal(t, utils.KindValidation, kindOf(t, err))

	require.NoError(t, booking.Transition(conn, owner, StatusCancelled))

	err = booking.Transition(conn, owner, StatusAccepted)
	assert.Equal(t, utils.KindValidation, kindOf(t, err))
}

func TestPayOnServiceCompletionSettles(t *testing.T) {
	conn := setupDB(t)
	fx := seedFixtures(t, conn)

	booking, err := CreateBooking(conn, fx.Customer.ID, bookingInput(fx.Service.ID))
	require.NoError(t, err)
	owner := Actor{UserID: fx.Provider.UserID, Role: RoleProvider, ProviderID: fx.Provider.ID}

	require.NoError(t, booking.Transition(conn, owner, StatusAccepted))
	require.NoError(t, booking.Transition(conn, owner, StatusInProgress))
	assert.False(t, booking.IsPaid)

	require.NoError(t, booking.Transition(conn, owner, StatusCompleted))
	assert.True(t, booking.IsPaid)
	require.NotNil(t, booking.PaidAt)

	var reloaded Booking
	require.NoError(t, conn.First(&reloaded, booking.ID).Error)
	assert.True(t, reloaded.IsPaid)
}

func TestOnlineBookingCompletionDoesNotSettle(t *testing.T) {
	conn := setupDB(t)
	fx := seedFixtures(t, conn)

	in := bookingInput(fx.Service.ID)
	in.PaymentMethod = OnlinePayment
	booking, err := CreateBooking(conn, fx.Customer.ID, in)
	require.NoError(t, err)
	owner := Actor{UserID: fx.Provider.UserID, Role: RoleProvider, ProviderID: fx.Provider.ID}

	require.NoError(t, booking.Transition(conn, owner, StatusAccepted))
	require.NoError(t, booking.Transition(conn, owner, StatusInProgress))
	require.NoError(t, booking.Transition(conn, owner, StatusCompleted))

	assert.False(t, booking.IsPaid)
	assert.Nil(t, booking.PaidAt)
}

func TestTransitionPreservesConcurrentSettlement(t *testing.T) {
	conn := setupDB(t)
	fx := seedFixtures(t, conn)

	in := bookingInput(fx.Service.ID)
	in.PaymentMethod = OnlinePayment
	booking, err := CreateBooking(conn, fx.Customer.ID, in)
	require.NoError(t, err)

	// a copy read before the settlement lands, as a racing request would hold
	var stale Booking
	require.NoError(t, conn.First(&stale, booking.ID).Error)

	_, err = ApplyVerifiedPayment(conn, booking.ID, "order_123", "pay_456", "sig", booking.Amount, fx.Customer.ID)
	require.NoError(t, err)

	owner := Actor{UserID: fx.Provider.UserID, Role: RoleProvider, ProviderID: fx.Provider.ID}
	require.NoError(t, stale.Transition(conn, owner, StatusAccepted))
	assert.True(t, stale.IsPaid)

	var reloaded Booking
	require.NoError(t, conn.First(&reloaded, booking.ID).Error)
	assert.Equal(t, StatusAccepted, reloaded.Status)
	assert.True(t, reloaded.IsPaid)
	require.NotNil(t, reloaded.PaidAt)
	assert.Equal(t, "pay_456", reloaded.PaymentRef)
}

func TestComputeProviderStats(t *testing.T) {
	conn := setupDB(t)
	fx := seedFixtures(t, conn)
	owner := Actor{UserID: fx.Provider.UserID, Role: RoleProvider, ProviderID: fx.Provider.ID}

	for i, slot := range []string{"08:00", "10:00", "12:00"} {
		in := bookingInput(fx.Service.ID)
		in.TimeSlot = slot
		booking, err := CreateBooking(conn, fx.Customer.ID, in)
		require.NoError(t, err)

		require.NoError(t, booking.Transition(conn, owner, StatusAccepted))
		if i < 2 {
			require.NoError(t, booking.Transition(conn, owner, StatusInProgress))
			require.NoError(t, booking.Transition(conn, owner, StatusCompleted))
		}
	}

	stats, err := ComputeProviderStats(conn, fx.Provider.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalBookings)
	assert.Equal(t, 1000.0, stats.TotalEarnings) // two completed paid at 500 each
}
