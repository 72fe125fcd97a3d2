package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"urbanserve/utils"
)

func completedBooking(t *testing.T, conn *gorm.DB, fx fixtures, slot string) *Booking {
	t.Helper()

	in := bookingInput(fx.Service.ID)
	in.TimeSlot = slot
	booking, err := CreateBooking(conn, fx.Customer.ID, in)
	require.NoError(t, err)

	owner := Actor{UserID: fx.Provider.UserID, Role: RoleProvider, ProviderID: fx.Provider.ID}
	require.NoError(t, booking.Transition(conn, owner, StatusAccepted))
	require.NoError(t, booking.Transition(conn, owner, StatusInProgress))
	require.NoError(t, booking.Transition(conn, owner, StatusCompleted))
	return booking
}

func TestCreateReviewRatingBounds(t *testing.T) {
	conn := setupDB(t)
	fx := seedFixtures(t, conn)
	booking := completedBooking(t, conn, fx, "10:00")

	for _, rating := range []int{0, 6, -1} {
		_, err := CreateReview(conn, fx.Customer.ID, ReviewInput{BookingID: booking.ID, Rating: rating})
		assert.Equal(t, utils.KindValidation, kindOf(t, err), "rating %d", rating)
	}
}

func TestCreateReviewRequiresCompletedOwnBooking(t *testing.T) {
	conn := setupDB(t)
	fx := seedFixtures(t, conn)

	pending, err := CreateBooking(conn, fx.Customer.ID, bookingInput(fx.Service.ID))
	require.NoError(t, err)

	_, err = CreateReview(conn, fx.Customer.ID, ReviewInput{BookingID: pending.ID, Rating: 5})
	assert.Equal(t, utils.KindValidation, kindOf(t, err))

	_, err = CreateReview(conn, fx.Customer.ID, ReviewInput{BookingID: 9999, Rating: 5})
	assert.Equal(t, utils.KindNotFound, kindOf(t, err))

	booking := completedBooking(t, conn, fx, "14:00")
	_, err = CreateReview(conn, fx.Customer.ID+100, ReviewInput{BookingID: booking.ID, Rating: 5})
	assert.Equal(t, utils.KindForbidden, kindOf(t, err))
}

func TestCreateReviewOncePerBooking(t *testing.T) {
	conn := setupDB(t)
	fx := seedFixtures(t, conn)
	booking := completedBooking(t, conn, fx, "10:00")

	_, err := CreateReview(conn, fx.Customer.ID, ReviewInput{BookingID: booking.ID, Rating: 5, Comment: "Great"})
	require.NoError(t, err)

	_, err = CreateReview(conn, fx.Customer.ID, ReviewInput{BookingID: booking.ID, Rating: 4})
	assert.Equal(t, utils.KindConflict, kindOf(t, err))
}

func TestRatingAggregateIsAlwaysMeanAndCount(t *testing.T) {
	conn := setupDB(t)
	fx := seedFixtures(t, conn)

	ratings := []int{5, 3, 4}
	slots := []string{"08:00", "10:00", "12:00"}
	for i, rating := range ratings {
		booking := completedBooking(t, conn, fx, slots[i])
		_, err := CreateReview(conn, fx.Customer.ID, ReviewInput{BookingID: booking.ID, Rating: rating})
		require.NoError(t, err)

		var service Service
		require.NoError(t, conn.First(&service, fx.Service.ID).Error)
		assert.Equal(t, int64(i+1), service.NumReviews)

		sum := 0
		for _, r := range ratings[:i+1] {
			sum += r
		}
		assert.InDelta(t, float64(sum)/float64(i+1), service.AverageRating, 1e-9)
	}
}

func TestFailedReviewLeavesAggregateUntouched(t *testing.T) {
	conn := setupDB(t)
	fx := seedFixtures(t, conn)
	booking := completedBooking(t, conn, fx, "10:00")

	_, err := CreateReview(conn, fx.Customer.ID, ReviewInput{BookingID: booking.ID, Rating: 4})
	require.NoError(t, err)

	_, err = CreateReview(conn, fx.Customer.ID, ReviewInput{BookingID: booking.ID, Rating: 1})
	require.Error(t, err)

	var service Service
	require.NoError(t, conn.First(&service, fx.Service.ID).Error)
	assert.Equal(t, int64(1), service.NumReviews)
	assert.InDelta(t, 4.0, service.AverageRating, 1e-9)
}
