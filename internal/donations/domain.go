package donations

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is how a donation was paid.
type PaymentMethod string

const (
	PaymentCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMobileMoney  PaymentMethod = "MOBILE_MONEY"
	PaymentPayPal       PaymentMethod = "PAYPAL"
	PaymentOther        PaymentMethod = "OTHER"
)

// ValidPaymentMethod reports whether m names a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCreditCard, PaymentBankTransfer, PaymentMobileMoney, PaymentPayPal, PaymentOther:
		return true
	}
	return false
}

// DonationStatus is the processing state of a donation.
type DonationStatus string

const (
	StatusPending    DonationStatus = "PENDING"
	StatusProcessing DonationStatus = "PROCESSING"
	StatusCompleted  DonationStatus = "COMPLETED"
	StatusFailed     DonationStatus = "FAILED"
	StatusRefunded   DonationStatus = "REFUNDED"
)

// ValidStatus reports whether s names a known donation status.
func ValidStatus(s DonationStatus) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

// DonorRef is the embedded account summary for donations tied to a user.
type DonorRef struct {
	ID    uuid.UUID `json:"id"`
	Name  *string   `json:"name"`
	Email string    `json:"email"`
}

// Donation is a single gift, possibly anonymous, possibly tied to an account.
type Donation struct {
	ID            uuid.UUID      `json:"id"`
	Amount        float64        `json:"amount"`
	Currency      string         `json:"currency"`
	DonorName     string         `json:"donorName"`
	DonorEmail    string         `json:"donorEmail"`
	DonorPhone    *string        `json:"donorPhone"`
	IsAnonymous   bool           `json:"isAnonymous"`
	PaymentMethod PaymentMethod  `json:"paymentMethod"`
	Status        DonationStatus `json:"status"`
	TransactionID *string        `json:"transactionId"`
	Notes         *string        `json:"notes"`
	UserID        *uuid.UUID     `json:"-"`
	User          *DonorRef      `json:"user"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// CreateDonationInput carries a new donation record.
type CreateDonationInput struct {
	Amount        float64
	Currency      string
	DonorName     string
	DonorEmail    string
	DonorPhone    *string
	IsAnonymous   bool
	PaymentMethod PaymentMethod
	Status        DonationStatus
	TransactionID *string
	Notes         *string
	UserID        *uuid.UUID
}

// UpdateDonationInput carries a partial update; nil fields are untouched.
type UpdateDonationInput struct {
	Status        *DonationStatus
	TransactionID *string
	Notes         *string
}

// Stats summarizes completed donations.
type Stats struct {
	TotalAmount    float64 `json:"totalAmount"`
	CompletedCount int     `json:"completedCount"`
}
