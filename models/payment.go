package models

import (
	"time"

	"urbanserve/utils"

	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentSuccess PaymentStatus = "Success"
	PaymentFailed  PaymentStatus = "Failed"
)

// Payment is the audit record of a verified gateway settlement. It is only
// ever written together with the booking's paid flags.
type Payment struct {
	gorm.Model
	OrderID   string        `json:"order_id" gorm:"not null"`
	PaymentID string        `json:"payment_id" gorm:"not null"`
	Signature string        `json:"signature" gorm:"not null"`
	BookingID uint          `json:"booking_id"`
	Booking   Booking       `json:"booking" gorm:"foreignKey:BookingID"`
	UserID    uint          `json:"user_id"`
	User      User          `json:"user" gorm:"foreignKey:UserID"`
	Amount    float64       `json:"amount"`
	Status    PaymentStatus `json:"status" gorm:"default:Success"`
}

// ApplyVerifiedPayment records a settlement whose signature has already been
// verified: the booking's {IsPaid, PaidAt, PaymentRef} and the Payment row
// are written in one transaction so neither is ever visible without the other.
// The recorded amount is always the booking's snapshot, and a paid booking
// never accepts a second settlement.
func ApplyVerifiedPayment(db *gorm.DB, bookingID uint, orderID, paymentID, signature string, amount float64, userID uint) (*Payment, error) {
	var payment *Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		var booking Booking
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return utils.NotFound("Booking not found")
			}
			return err
		}

		if booking.CustomerID != userID {
			return utils.Forbidden("Not authorized to pay for this booking")
		}
		if booking.PaymentMethod != OnlinePayment {
			return utils.Validation("Booking is not payable online")
		}
		if booking.IsPaid {
			return utils.Conflict("Booking is already paid")
		}
		if amount != booking.Amount {
			return utils.Validation("Amount does not match the booking")
		}

		now := time.Now()
		updates := map[string]interface{}{
			"is_paid":     true,
			"paid_at":     &now,
			"payment_ref": paymentID,
		}
		if err := tx.Model(&Booking{}).Where("id = ?", booking.ID).Updates(updates).Error; err != nil {
			return err
		}

		payment = &Payment{
			OrderID:   orderID,
			PaymentID: paymentID,
			Signature: signature,
			BookingID: booking.ID,
			UserID:    userID,
			Amount:    booking.Amount,
			Status:    PaymentSuccess,
		}
		return tx.Create(payment).Error
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}
