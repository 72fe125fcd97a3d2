package models

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&User{}, &Provider{}, &Category{}, &Service{},
		&Booking{}, &Payment{}, &Review{},
	))
	return conn
}

type fixtures struct {
	Customer User
	Provider Provider
	Category Category
	Service  Service
}

func seedFixtures(t *testing.T, conn *gorm.DB) fixtures {
	t.Helper()

	customer := User{Name: "Asha", Email: "asha@example.com", Phone: "9870000001", Role: RoleCustomer}
	require.NoError(t, conn.Create(&customer).Error)

	owner := User{Name: "Ravi", Email: "ravi@example.com", Phone: "9870000002", Role: RoleProvider}
	require.NoError(t, conn.Create(&owner).Error)

	provider := Provider{UserID: owner.ID, CompanyName: "ProServe Solutions", IsApproved: true}
	require.NoError(t, conn.Create(&provider).Error)

	category := Category{Name: "Cleaning & Pest Control"}
	require.NoError(t, conn.Create(&category).Error)

	service := Service{
		Name:       "Deep Home Cleaning",
		Price:      500,
		CategoryID: category.ID,
		ProviderID: provider.ID,
	}
	require.NoError(t, conn.Create(&service).Error)

	return fixtures{Customer: customer, Provider: provider, Category: category, Service: service}
}

func validAddress() Address {
	return Address{Street: "12 Main St", City: "Anytown", State: "State", Zip: "10001"}
}

func bookingInput(serviceID uint) BookingInput {
	return BookingInput{
		ServiceID:   serviceID,
		BookingDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot:    "10:00 - 12:00",
		Address:     validAddress(),
	}
}
