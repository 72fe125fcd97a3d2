package controllers

import (
	"github.com/gofiber/fiber/v2"

	"urbanserve/db"
	"urbanserve/gateway"
	"urbanserve/models"
	"urbanserve/utils"
)

// Gateway is the payment collaborator; swapped for a stub in tests.
var Gateway = gateway.NewFromEnv()

type orderInput struct {
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	BookingID uint    `json:"booking_id" validate:"required"`
}

// CreateOrder mints a gateway order the frontend completes the checkout with.
func CreateOrder(c *fiber.Ctx) error {
	input := new(orderInput)
	if err := c.BodyParser(input); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}
	if appErr := utils.ValidateStruct(input); appErr != nil {
		return utils.RespondError(c, appErr)
	}

	var booking models.Booking
	if err := db.DB.First(&booking, input.BookingID).Error; err != nil {
		return utils.RespondError(c, utils.NotFound("Booking not found"))
	}

	order, err := Gateway.CreateOrder(input.Amount, booking.ID)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(order)
}

type verifyInput struct {
	OrderID   string  `json:"razorpay_order_id" validate:"required"`
	PaymentID string  `json:"razorpay_payment_id" validate:"required"`
	Signature string  `json:"razorpay_signature" validate:"required"`
	BookingID uint    `json:"booking_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
}

// VerifyPayment checks the gateway callback signature and, only if it holds,
// marks the booking paid and writes the Payment audit record atomically.
func VerifyPayment(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	input := new(verifyInput)
	if err := c.BodyParser(input); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}
	if appErr := utils.ValidateStruct(input); appErr != nil {
		return utils.RespondError(c, appErr)
	}

	if !Gateway.VerifySignature(input.OrderID, input.PaymentID, input.Signature) {
		return utils.RespondError(c, utils.SignatureMismatch("Payment verification failed. Signature mismatch."))
	}

	payment, err := models.ApplyVerifiedPayment(db.DB,
		input.BookingID, input.OrderID, input.PaymentID, input.Signature, input.Amount, userID)
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Payment successful and booking updated",
		"payment": payment,
	})
}
