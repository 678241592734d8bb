package models

import "time"

// Roles assignable to a user account. The set is open; these are the two
// the service itself reasons about.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a user account in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	DateOfBirth  string    `json:"dateOfBirth"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Registration carries the data submitted when signing up a new account.
// It holds the cleartext password for the duration of the request only.
type Registration struct {
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
}

// Page is the envelope returned by the paginated admin listing.
type Page struct {
	TotalElements int64  `json:"totalElements"`
	TotalPages    int    `json:"totalPages"`
	PageNumber    int    `json:"pageNumber"`
	Content       []User `json:"content"`
}
