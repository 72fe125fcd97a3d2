package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"urbanserve/db"
	"urbanserve/models"
)

func main() {
	importData := flag.Bool("import", false, "wipe all collections and load sample data")
	destroyData := flag.Bool("destroy", false, "wipe all collections")
	flag.Parse()

	if *importData == *destroyData {
		log.Fatal("Pass exactly one of -import or -destroy")
	}

	db.Migrate()

	wipe(db.DB)
	if *destroyData {
		fmt.Println("🗑  All data destroyed")
		return
	}

	seed(db.DB)
	fmt.Println("✅ Sample data imported")
}

// wipe empties every collection. Order matters only for readability; the
// schema keeps plain back-references, nothing cascades.
func wipe(conn *gorm.DB) {
	for _, model := range []interface{}{
		&models.Review{}, &models.Payment{}, &models.Booking{},
		&models.Service{}, &models.Category{}, &models.Provider{}, &models.User{},
	} {
		if err := conn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			log.Fatalf("Failed to wipe: %v", err)
		}
	}
}

func seed(conn *gorm.DB) {
	password, _ := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)

	admin := models.User{
		Name: "Admin User", Email: "admin@example.com", Phone: "9876543210",
		Password: string(password), Role: models.RoleAdmin,
	}
	mustCreate(conn, &admin)

	categories := []models.Category{
		{Name: "Cleaning & Pest Control", Description: "Professional cleaning and pest management services."},
		{Name: "Appliance Repair", Description: "Repair services for all your home appliances."},
		{Name: "Plumbers & Carpenters", Description: "Expert plumbers and carpenters for any repair or installation."},
		{Name: "Salon & Spa", Description: "Beauty and wellness services at your doorstep."},
		{Name: "Painters & Decorators", Description: "Transform your home with our painting and decorating services."},
	}
	for i := range categories {
		mustCreate(conn, &categories[i])
	}

	// ten providers, every fifth left unapproved to exercise the gate
	var providers []models.Provider
	for i := 0; i < 10; i++ {
		user := models.User{
			Name:     fmt.Sprintf("Provider %d", i+1),
			Email:    fmt.Sprintf("provider%d@example.com", i+1),
			Phone:    fmt.Sprintf("98700000%03d", i),
			Password: string(password),
			Role:     models.RoleProvider,
		}
		mustCreate(conn, &user)

		provider := models.Provider{
			UserID:      user.ID,
			CompanyName: fmt.Sprintf("ProServe Solutions %d", i+1),
			IsApproved:  i%5 != 0,
			Longitude:   77.59 + float64(i)*0.01,
			Latitude:    12.97 + float64(i)*0.01,
		}
		mustCreate(conn, &provider)
		providers = append(providers, provider)
	}

	var customers []models.User
	for i := 0; i < 20; i++ {
		user := models.User{
			Name:     fmt.Sprintf("User %d", i+1),
			Email:    fmt.Sprintf("user%d@example.com", i+1),
			Phone:    fmt.Sprintf("98711111%03d", i),
			Password: string(password),
			Role:     models.RoleCustomer,
			Address:  models.Address{Street: fmt.Sprintf("%d Main St", i+1), City: "Anytown", State: "State", Zip: fmt.Sprintf("%d", 10001+i)},
		}
		mustCreate(conn, &user)
		customers = append(customers, user)
	}

	var services []models.Service
	for i := 0; i < 25; i++ {
		service := models.Service{
			Name:        fmt.Sprintf("Deep Home Service %d", i+1),
			Description: "Trained and background-verified professionals.",
			Price:       float64(299 + i*100),
			CategoryID:  categories[i%len(categories)].ID,
			ProviderID:  providers[i%len(providers)].ID,
		}
		mustCreate(conn, &service)
		services = append(services, service)
	}

	// a slice of completed, paid bookings plus reviews so aggregates are live
	for i := 0; i < 10; i++ {
		customer := customers[i%len(customers)]
		service := services[i%len(services)]

		booking := models.Booking{
			CustomerID:    customer.ID,
			ProviderID:    service.ProviderID,
			ServiceID:     service.ID,
			BookingDate:   time.Now().AddDate(0, 0, -(i + 1)),
			TimeSlot:      "10:00 - 12:00",
			Address:       customer.Address,
			Amount:        service.Price,
			Status:        models.StatusCompleted,
			PaymentMethod: models.PayOnService,
			IsPaid:        true,
		}
		now := time.Now()
		booking.PaidAt = &now
		mustCreate(conn, &booking)

		if _, err := models.CreateReview(conn, customer.ID, models.ReviewInput{
			BookingID: booking.ID,
			Rating:    3 + i%3,
			Comment:   "Punctual and professional.",
		}); err != nil {
			log.Fatalf("Failed to seed review: %v", err)
		}
	}
}

func mustCreate(conn *gorm.DB, value interface{}) {
	if err := conn.Create(value).Error; err != nil {
		log.Fatalf("Failed to seed %T: %v", value, err)
	}
}
