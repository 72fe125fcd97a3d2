package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"urbanserve/db"
	"urbanserve/models"
	"urbanserve/utils"
)

// StartCronJobs initializes and starts the cron scheduler for booking reminders
func StartCronJobs() {
	c := cron.New()
	// Run every minute to check for bookings in the next hour
	_, err := c.AddFunc("* * * * *", sendBookingReminders)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for booking reminders")
}

// sendBookingReminders checks for upcoming accepted bookings and mails the customer
func sendBookingReminders() {
	now := time.Now()
	startWindow := now.Add(55 * time.Minute)
	endWindow := now.Add(65 * time.Minute)

	var bookings []models.Booking
	err := db.DB.Preload("Customer").Preload("Service").Preload("Provider.User").
		Where("status = ? AND booking_date BETWEEN ? AND ?", models.StatusAccepted, startWindow, endWindow).
		Find(&bookings).Error
	if err != nil {
		log.Printf("Error fetching bookings for reminders: %v", err)
		return
	}

	for _, booking := range bookings {
		if err := sendReminderEmail(&booking); err != nil {
			log.Printf("Failed to send reminder for booking %d: %v", booking.ID, err)
			continue
		}
		log.Printf("Sent reminder for booking %d to %s", booking.ID, booking.Customer.Email)
	}
}

// sendReminderEmail constructs and sends the reminder email
func sendReminderEmail(booking *models.Booking) error {
	subject := fmt.Sprintf("Reminder: Upcoming Service - %s", booking.Service.Name)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder that your booked service is scheduled in one hour.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Provider:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time Slot:</strong> %s</li>
			<li><strong>Address:</strong> %s, %s</li>
		</ul>
		<p>If you need to reschedule or cancel, contact your provider as soon as possible.</p>
		<p>Best regards,</p>
		<p>The UrbanServe Team</p>
	`, booking.Customer.Name, booking.Service.Name, booking.Provider.User.Name,
		booking.BookingDate.Format("2006-01-02"),
		booking.TimeSlot,
		booking.Address.Street, booking.Address.City)

	return utils.SendEmail(booking.Customer.Email, subject, body)
}
