package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PaymentType is the top-level category of a tendered payment
type PaymentType string

const (
	PaymentTypeCash   PaymentType = "Cash"
	PaymentTypeCard   PaymentType = "Card"
	PaymentTypeCrypto PaymentType = "Crypto"
	PaymentTypeOther  PaymentType = "Other"
)

// paymentBranches enumerates the branches allowed for each payment type
var paymentBranches = map[PaymentType][]string{
	PaymentTypeCash:   {"Cash"},
	PaymentTypeCard:   {"Visa", "Mastercard", "Amex", "Maestro", "Discover"},
	PaymentTypeCrypto: {"Bitcoin", "Ethereum", "Litecoin", "USDC"},
	PaymentTypeOther:  {"Voucher", "GiftCard", "MealTicket", "BankTransfer"},
}

// IsValid returns true if the payment type is one of the enumerated categories
func (t PaymentType) IsValid() bool {
	_, ok := paymentBranches[t]
	return ok
}

// AllowsBranch checks that a branch is consistent with the payment type
func (t PaymentType) AllowsBranch(branch string) bool {
	for _, b := range paymentBranches[t] {
		if b == branch {
			return true
		}
	}
	return false
}

// Payment is one tendered payment entry on an order
type Payment struct {
	Type   PaymentType     `json:"payment_method" gorm:"column:payment_type;size:20"`
	Branch string          `json:"method_branch" gorm:"column:payment_branch;size:40"`
	Amount decimal.Decimal `json:"method_salesTotal" gorm:"column:amount;type:decimal(20,4)"`
}

// Key identifies payments that merge together in report rollups
func (p Payment) Key() string {
	return string(p.Type) + "/" + p.Branch
}

// ValidatePayments validates a list of tendered payments. It returns the list
// unchanged on success so callers can chain it into closing flows. It has no
// side effects.
func ValidatePayments(payments []Payment) ([]Payment, error) {
	if len(payments) == 0 {
		return nil, fmt.Errorf("at least one payment method is required")
	}
	for i, p := range payments {
		if p.Type == "" {
			return nil, fmt.Errorf("payment %d: payment type is required", i)
		}
		if !p.Type.IsValid() {
			return nil, fmt.Errorf("payment %d: invalid payment type %q", i, p.Type)
		}
		if p.Branch == "" {
			return nil, fmt.Errorf("payment %d: payment branch is required", i)
		}
		if !p.Type.AllowsBranch(p.Branch) {
			return nil, fmt.Errorf("payment %d: branch %q is not valid for payment type %q", i, p.Branch, p.Type)
		}
		if p.Amount.IsNegative() {
			return nil, fmt.Errorf("payment %d: amount cannot be negative", i)
		}
	}
	return payments, nil
}

// TotalPaid sums the amounts of a payment list
func TotalPaid(payments []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}
