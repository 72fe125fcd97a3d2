package models

import (
	"time"

	"urbanserve/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingStatus string

const (
	StatusPending     BookingStatus = "Pending"
	StatusAccepted    BookingStatus = "Accepted"
	StatusRescheduled BookingStatus = "Rescheduled"
	StatusInProgress  BookingStatus = "InProgress"
	StatusCompleted   BookingStatus = "Completed"
	StatusCancelled   BookingStatus = "Cancelled"
)

type PaymentMethod string

const (
	PayOnService  PaymentMethod = "PayOnService"
	OnlinePayment PaymentMethod = "Online"
)

// transitions is the explicit state machine: any (from, to) pair missing
// here is rejected. Terminal states have no outgoing edges.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:     {StatusAccepted, StatusRescheduled, StatusCancelled},
	StatusAccepted:    {StatusInProgress, StatusRescheduled, StatusCancelled},
	StatusRescheduled: {StatusAccepted, StatusCancelled},
	StatusInProgress:  {StatusCompleted, StatusCancelled},
	StatusCompleted:   {},
	StatusCancelled:   {},
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s BookingStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Booking ties a customer to a provider's service at a date and time slot.
// Amount and Address are snapshots taken at creation; later edits to the
// service price or the customer's profile do not touch existing bookings.
type Booking struct {
	gorm.Model
	CustomerID    uint          `json:"customer_id"`
	Customer      User          `json:"customer" gorm:"foreignKey:CustomerID"`
	ProviderID    uint          `json:"provider_id"`
	Provider      Provider      `json:"provider" gorm:"foreignKey:ProviderID"`
	ServiceID     uint          `json:"service_id"`
	Service       Service       `json:"service" gorm:"foreignKey:ServiceID"`
	BookingDate   time.Time     `json:"booking_date"`
	TimeSlot      string        `json:"time_slot"`
	Address       Address       `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	Amount        float64       `json:"amount"`
	Status        BookingStatus `json:"status" gorm:"default:Pending"`
	PaymentMethod PaymentMethod `json:"payment_method" gorm:"default:PayOnService"`
	IsPaid        bool          `json:"is_paid" gorm:"default:false"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	PaymentRef    string        `json:"payment_ref"` // gateway payment id, set on online settlement
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = StatusPending
	}
	if b.PaymentMethod == "" {
		b.PaymentMethod = PayOnService
	}
	return nil
}

// BookingInput is what a customer supplies when booking a service.
type BookingInput struct {
	ServiceID     uint          `json:"service_id" validate:"required"`
	BookingDate   time.Time     `json:"booking_date" validate:"required"`
	TimeSlot      string        `json:"time_slot" validate:"required"`
	Address       Address       `json:"address"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}

// CreateBooking resolves the provider from the service, snapshots price and
// address, and persists the booking in its initial state. A second live
// booking for the same (customer, service, date, slot) is a Conflict.
func CreateBooking(db *gorm.DB, customerID uint, in BookingInput) (*Booking, error) {
	if !in.Address.Complete() {
		return nil, utils.Validation("Complete address is required")
	}
	if in.PaymentMethod != "" && in.PaymentMethod != PayOnService && in.PaymentMethod != OnlinePayment {
		return nil, utils.Validation("Unknown payment method")
	}

	var service Service
	if err := db.First(&service, in.ServiceID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NotFound("Service not found")
		}
		return nil, err
	}

	var dup int64
	err := db.Model(&Booking{}).
		Where("customer_id = ? AND service_id = ? AND booking_date = ? AND time_slot = ?",
			customerID, in.ServiceID, in.BookingDate, in.TimeSlot).
		Where("status <> ?", StatusCancelled).
		Count(&dup).Error
	if err != nil {
		return nil, err
	}
	if dup > 0 {
		return nil, utils.Conflict("You already have a booking for this service at this time")
	}

	booking := Booking{
		CustomerID:    customerID,
		ProviderID:    service.ProviderID,
		ServiceID:     service.ID,
		BookingDate:   in.BookingDate,
		TimeSlot:      in.TimeSlot,
		Address:       in.Address,
		Amount:        service.Price,
		Status:        StatusPending,
		PaymentMethod: in.PaymentMethod,
		IsPaid:        false,
	}
	if err := db.Create(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// Actor is the authenticated principal an operation runs as.
type Actor struct {
	UserID     uint
	Role       Role
	ProviderID uint // set when Role is provider
}

// CanView enforces role-scoped visibility: customers and providers see only
// their own bookings, admins see everything.
func (b *Booking) CanView(actor Actor) bool {
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleProvider:
		return b.ProviderID == actor.ProviderID
	default:
		return b.CustomerID == actor.UserID
	}
}

// Transition moves the booking to newStatus on behalf of actor. Only the
// booking's own provider or an admin may transition. Completing a
// PayOnService booking settles it in the same write.
//
// The booking is re-read under the transaction and only the columns the
// transition owns are written, so a payment verification landing between the
// caller's read and this call is never overwritten with stale flags.
func (b *Booking) Transition(db *gorm.DB, actor Actor, newStatus BookingStatus) error {
	if actor.Role != RoleAdmin {
		if actor.Role != RoleProvider || b.ProviderID != actor.ProviderID {
			return utils.Forbidden("Not authorized to update this booking")
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var current Booking
		query := tx.Session(&gorm.Session{})
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := query.First(&current, b.ID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return utils.NotFound("Booking not found")
			}
			return err
		}

		if !CanTransition(current.Status, newStatus) {
			if current.Status.IsTerminal() {
				return utils.Validation("Booking is already " + string(current.Status))
			}
			return utils.Validation("Cannot move booking from " + string(current.Status) + " to " + string(newStatus))
		}

		current.Status = newStatus
		updates := map[string]interface{}{"status": newStatus}
		if newStatus == StatusCompleted && current.PaymentMethod == PayOnService && !current.IsPaid {
			now := time.Now()
			current.IsPaid = true
			current.PaidAt = &now
			updates["is_paid"] = true
			updates["paid_at"] = &now
		}
		if err := tx.Model(&Booking{}).Where("id = ?", current.ID).Updates(updates).Error; err != nil {
			return err
		}

		*b = current
		return nil
	})
}

// ProviderStats is the provider dashboard aggregate: every booking counts,
// only completed and paid ones earn.
type ProviderStats struct {
	TotalBookings int64   `json:"total_bookings"`
	TotalEarnings float64 `json:"total_earnings"`
}

func ComputeProviderStats(db *gorm.DB, providerID uint) (*ProviderStats, error) {
	stats := &ProviderStats{}
	err := db.Model(&Booking{}).
		Where("provider_id = ?", providerID).
		Count(&stats.TotalBookings).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&Booking{}).
		Where("provider_id = ? AND status = ? AND is_paid = ?", providerID, StatusCompleted, true).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.TotalEarnings).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
