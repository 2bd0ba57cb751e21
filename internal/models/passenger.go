package models

import "time"

// PaymentMethodType mirrors the payment_method_type enum.
type PaymentMethodType string

const (
	PaymentMethodCredit PaymentMethodType = "credit"
	PaymentMethodDebit  PaymentMethodType = "debit"
)

// Passenger represents a traveller. A passenger row is created the first
// time an email books and reused for every booking after that; identity
// fields are never overwritten by later bookings.
type Passenger struct {
	ID                 int               `json:"id" db:"id"`
	Name               string            `json:"name" db:"name"`
	Email              string            `json:"email" db:"email"`
	DateOfBirth        string            `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Phone              string            `json:"phone,omitempty" db:"phone"`
	Address            string            `json:"address,omitempty" db:"address"`
	BillingAddress     string            `json:"billing_address,omitempty" db:"billing_address"`
	PaymentMethodType  PaymentMethodType `json:"payment_method_type,omitempty" db:"payment_method_type"`
	PaymentMethodLast4 string            `json:"payment_method_last4,omitempty" db:"payment_method_last4"`
	CreatedAt          time.Time         `json:"created_at" db:"created_at"`
}
