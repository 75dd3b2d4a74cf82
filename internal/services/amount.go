package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"kickback/internal/domain"
)

var satsPerBTC = decimal.NewFromInt(domain.SatsPerBTC)

// ToSats converts a whole-token amount to sats, rounding down.
func ToSats(amount decimal.Decimal) (uint64, error) {
	sats := amount.Mul(satsPerBTC).Floor()
	if sats.IsNegative() {
		return 0, fmt.Errorf("%w: negative amount %s", domain.ErrInvalidInput, amount)
	}
	if !sats.BigInt().IsUint64() {
		return 0, fmt.Errorf("%w: amount %s out of range", domain.ErrInvalidInput, amount)
	}
	return sats.BigInt().Uint64(), nil
}

// ParseDepositAmount validates a deposit amount and converts it to sats.
// The amount must be a number greater than zero.
func ParseDepositAmount(s string) (uint64, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !amount.IsPositive() {
		return 0, fmt.Errorf("%w: please enter a valid amount", domain.ErrInvalidInput)
	}
	return ToSats(amount)
}

// ParseEventDate converts a form date (YYYY-MM-DD, taken as UTC midnight, or
// RFC 3339) to Unix seconds. Dates before the Unix epoch do not fit the
// contract's uint and are rejected.
func ParseEventDate(s string) (int64, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return 0, fmt.Errorf("%w: invalid date %q", domain.ErrInvalidInput, s)
		}
	}
	if t.Unix() < 0 {
		return 0, fmt.Errorf("%w: date %q is before 1970-01-01", domain.ErrInvalidInput, s)
	}
	return t.Unix(), nil
}

// ParseEventForm validates the create-event form and converts it to contract units.
func ParseEventForm(form domain.EventForm) (domain.EventDraft, error) {
	name := strings.TrimSpace(form.Name)
	date := strings.TrimSpace(form.Date)
	location := strings.TrimSpace(form.Location)
	capacity := strings.TrimSpace(form.MaxCapacity)
	stake := strings.TrimSpace(form.StakeAmount)
	if name == "" || date == "" || location == "" || capacity == "" || stake == "" {
		return domain.EventDraft{}, fmt.Errorf("%w: please fill all fields", domain.ErrInvalidInput)
	}

	unix, err := ParseEventDate(date)
	if err != nil {
		return domain.EventDraft{}, err
	}
	maxCap, err := strconv.ParseUint(capacity, 10, 64)
	if err != nil {
		return domain.EventDraft{}, fmt.Errorf("%w: capacity must be a whole number", domain.ErrInvalidInput)
	}
	stakeAmount, err := decimal.NewFromString(stake)
	if err != nil {
		return domain.EventDraft{}, fmt.Errorf("%w: invalid stake amount", domain.ErrInvalidInput)
	}
	stakeSats, err := ToSats(stakeAmount)
	if err != nil {
		return domain.EventDraft{}, err
	}

	return domain.EventDraft{
		Name:        name,
		Date:        unix,
		Location:    location,
		MaxCapacity: maxCap,
		StakeSats:   stakeSats,
	}, nil
}
