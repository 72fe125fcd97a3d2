package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is one of the three the platform knows.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleProvider || r == RoleAdmin
}

// Address is embedded wherever a postal address is needed. Bookings keep
// their own copy as a snapshot, detached from the user's live profile.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// Complete reports whether every address field is filled in.
func (a Address) Complete() bool {
	return a.Street != "" && a.City != "" && a.State != "" && a.Zip != ""
}

type User struct {
	gorm.Model
	Name           string     `json:"name"`
	Email          string     `json:"email" gorm:"uniqueIndex"`
	Phone          string     `json:"phone" gorm:"uniqueIndex"`
	Password       string     `json:"-"`
	Role           Role       `json:"role" gorm:"default:customer"`
	ProfilePicture string     `json:"profile_picture"`
	Gender         string     `json:"gender"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	Address        Address    `json:"address" gorm:"embedded;embeddedPrefix:address_"`
}
