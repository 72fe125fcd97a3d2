package models

import (
	"urbanserve/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Review is a customer's one-shot verdict on a completed booking. The unique
// index on BookingID backs the one-review-per-booking rule at the store level.
type Review struct {
	gorm.Model
	Rating     int      `json:"rating" gorm:"not null"`
	Comment    string   `json:"comment"`
	BookingID  uint     `json:"booking_id" gorm:"uniqueIndex"`
	Booking    Booking  `json:"booking" gorm:"foreignKey:BookingID"`
	CustomerID uint     `json:"customer_id"`
	Customer   User     `json:"customer" gorm:"foreignKey:CustomerID"`
	ServiceID  uint     `json:"service_id"`
	Service    Service  `json:"service" gorm:"foreignKey:ServiceID"`
	ProviderID uint     `json:"provider_id"`
	Provider   Provider `json:"provider" gorm:"foreignKey:ProviderID"`
}

// ReviewInput is what a customer submits against their completed booking.
type ReviewInput struct {
	BookingID uint   `json:"booking_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// CreateReview persists the review and recomputes the service's aggregate
// rating in one transaction. The service row is locked for the recompute so
// two concurrent reviews cannot both read a stale count.
func CreateReview(db *gorm.DB, customerID uint, in ReviewInput) (*Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, utils.Validation("Rating must be between 1 and 5")
	}

	var review *Review
	err := db.Transaction(func(tx *gorm.DB) error {
		var booking Booking
		if err := tx.First(&booking, in.BookingID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return utils.NotFound("Booking not found")
			}
			return err
		}
		if booking.CustomerID != customerID {
			return utils.Forbidden("You can only review your own bookings")
		}
		if booking.Status != StatusCompleted {
			return utils.Validation("Only completed bookings can be reviewed")
		}

		var existing int64
		if err := tx.Model(&Review{}).Where("booking_id = ?", booking.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return utils.Conflict("This booking has already been reviewed")
		}

		// Lock the service row so concurrent reviews serialize the
		// recompute. sqlite has no FOR UPDATE; its writes are already serial.
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var service Service
		err := q.First(&service, booking.ServiceID).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return utils.NotFound("Service not found")
			}
			return err
		}

		review = &Review{
			Rating:     in.Rating,
			Comment:    in.Comment,
			BookingID:  booking.ID,
			CustomerID: customerID,
			ServiceID:  service.ID,
			ProviderID: booking.ProviderID,
		}
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		return recomputeServiceRating(tx, &service)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// recomputeServiceRating rescans all reviews for the service and stores the
// plain arithmetic mean and count. Never maintained incrementally.
func recomputeServiceRating(tx *gorm.DB, service *Service) error {
	var reviews []Review
	if err := tx.Where("service_id = ?", service.ID).Find(&reviews).Error; err != nil {
		return err
	}

	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	service.NumReviews = int64(len(reviews))
	if service.NumReviews > 0 {
		service.AverageRating = float64(sum) / float64(service.NumReviews)
	} else {
		service.AverageRating = 0
	}
	return tx.Save(service).Error
}
