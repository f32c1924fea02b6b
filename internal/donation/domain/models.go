// Package domain contains persistence models for donor donations.
package domain

import "time"

const (
	StatusPending = "pending"

	DefaultCurrency = "USD"
)

type Donation struct {
	ID               int64     `gorm:"primaryKey;autoIncrement"`
	UserID           string    `gorm:"column:auth0_user_id;not null"`
	Amount           float64   `gorm:"column:amount;not null"`
	Currency         string    `gorm:"column:currency;not null"`
	Status           string    `gorm:"column:status;not null"`
	Testimonial      *string   `gorm:"column:testimonial"`
	PaymentReference *string   `gorm:"column:payment_reference"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Donation) TableName() string { return "donations" }
