package entity

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// Days per billed workspace month
	WorkspaceDaysPerMonth = 30

	// Shortest workspace reservation accepted, in inclusive days
	WorkspaceMinimumDays = 30
)

var (
	ErrWorkspaceEndBeforeStart = errors.New("workspace end date is before start date")
	ErrWorkspaceTooShort       = errors.New("workspace booking must cover at least 30 days")
)

// BillingQuantity returns durationMonths for per-duration items and quantity otherwise.
// The unused dimension never participates in pricing.
func BillingQuantity(mode PricingMode, quantity, durationMonths int) int {
	if mode == PricingModePerDuration {
		return durationMonths
	}
	return quantity
}

// PriceLine computes unitPrice × billingQuantity + Σ(addOnAmount × billingQuantity)
func PriceLine(unitPrice decimal.Decimal, billingQuantity int, addOnAmounts []decimal.Decimal) decimal.Decimal {
	qty := decimal.NewFromInt(int64(billingQuantity))
	total := unitPrice.Mul(qty)
	for _, amount := range addOnAmounts {
		total = total.Add(amount.Mul(qty))
	}
	return total
}

// DateOnly truncates t to midnight UTC of its calendar date
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// InclusiveDays counts calendar days from start to end, both included.
// Returns 0 when end is before start.
func InclusiveDays(start, end time.Time) int {
	s, e := DateOnly(start), DateOnly(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// BilledMonths converts inclusive days to billed months: ceil(days/30), at least 1
func BilledMonths(inclusiveDays int) int {
	months := (inclusiveDays + WorkspaceDaysPerMonth - 1) / WorkspaceDaysPerMonth
	if months < 1 {
		return 1
	}
	return months
}

// ValidateWorkspaceDates checks ordering and the minimum reservation length
func ValidateWorkspaceDates(start, end time.Time) error {
	if DateOnly(end).Before(DateOnly(start)) {
		return ErrWorkspaceEndBeforeStart
	}
	if InclusiveDays(start, end) < WorkspaceMinimumDays {
		return ErrWorkspaceTooShort
	}
	return nil
}

// PriceWorkspace computes monthlyRate × billedMonths + Σ flat add-on amounts
func PriceWorkspace(monthlyRate decimal.Decimal, billedMonths int, addOnAmounts []decimal.Decimal) decimal.Decimal {
	total := monthlyRate.Mul(decimal.NewFromInt(int64(billedMonths)))
	for _, amount := range addOnAmounts {
		total = total.Add(amount)
	}
	return total
}

// CalculateBookingTotal sums every line item's total price
func CalculateBookingTotal(items []ServiceItem, workspaces []WorkspaceBooking) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalPrice)
	}
	for _, ws := range workspaces {
		total = total.Add(ws.TotalPrice)
	}
	return total
}
