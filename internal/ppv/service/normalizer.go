package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/ppv-engine/internal/ppv/entity"
	"github.com/bitfantasy/ppv-engine/internal/ppv/repository"
)

// RateSource answers exact-date exchange rate lookups.
// repository.RateRepository implements it; tests use in-memory fakes.
type RateSource interface {
	FindRate(ctx context.Context, rateType, from, to string, date time.Time) (*entity.FxRate, error)
}

// ConversionSource answers unit-of-measure factor lookups.
type ConversionSource interface {
	FindConversion(ctx context.Context, material, fromUoM, toUoM string) (*entity.UomConversion, error)
}

// Normalizer converts amounts to the target currency and quantities to the
// PO unit of measure so ordered and posted prices become comparable.
type Normalizer struct {
	rates       RateSource
	conversions ConversionSource
	rateType    string
	target      string
	maxLookback int
	holidays    map[string]bool // YYYY-MM-DD
}

func NewNormalizer(rates RateSource, conversions ConversionSource, rateType, targetCurrency string, maxLookbackDays int, holidays []string) *Normalizer {
	set := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		set[h] = true
	}
	if rateType == "" {
		rateType = entity.RateTypeAverage
	}
	if targetCurrency == "" {
		targetCurrency = "EUR"
	}
	if maxLookbackDays <= 0 {
		maxLookbackDays = 10
	}
	return &Normalizer{
		rates:       rates,
		conversions: conversions,
		rateType:    rateType,
		target:      targetCurrency,
		maxLookback: maxLookbackDays,
		holidays:    set,
	}
}

// ToEUR converts an amount into the target currency at the rate valid on
// the given date, walking back through prior business days when needed.
func (n *Normalizer) ToEUR(ctx context.Context, amount float64, currency string, date time.Time) (float64, error) {
	if currency == n.target {
		return amount, nil
	}
	rate, err := n.RateToEUR(ctx, currency, date)
	if err != nil {
		return 0, err
	}
	return amount * rate, nil
}

// RateToEUR resolves the conversion rate itself. The walk starts at the
// given date, skips weekends and configured holidays, and gives up after
// the configured number of calendar days.
func (n *Normalizer) RateToEUR(ctx context.Context, currency string, date time.Time) (float64, error) {
	if currency == n.target {
		return 1.0, nil
	}

	day := date.Truncate(24 * time.Hour)
	for step := 0; step <= n.maxLookback; step++ {
		if n.isBusinessDay(day) {
			rate, err := n.rates.FindRate(ctx, n.rateType, currency, n.target, day)
			if err == nil {
				return rate.Rate, nil
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return 0, fmt.Errorf("rate lookup %s->%s on %s: %w", currency, n.target, day.Format("2006-01-02"), err)
			}
		}
		day = day.AddDate(0, 0, -1)
	}

	return 0, &RateNotFoundError{
		RateType:     n.rateType,
		FromCurrency: currency,
		ToCurrency:   n.target,
		Date:         date,
		LookbackDays: n.maxLookback,
	}
}

func (n *Normalizer) isBusinessDay(day time.Time) bool {
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !n.holidays[day.Format("2006-01-02")]
}

// ConvertQuantity converts a quantity into the target unit of measure.
// Identity when the units match; otherwise the material's factor row
// applies. Fails hard when the units differ and no factor exists.
func (n *Normalizer) ConvertQuantity(ctx context.Context, qty float64, material, fromUoM, toUoM string) (float64, error) {
	if fromUoM == toUoM {
		return qty, nil
	}
	conv, err := n.conversions.FindConversion(ctx, material, fromUoM, toUoM)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, &ConversionNotFoundError{Material: material, FromUoM: fromUoM, ToUoM: toUoM}
		}
		return 0, fmt.Errorf("uom lookup %s %s->%s: %w", material, fromUoM, toUoM, err)
	}
	if conv.FactorDenominator == 0 {
		return 0, &ConversionNotFoundError{Material: material, FromUoM: fromUoM, ToUoM: toUoM}
	}
	return qty * conv.FactorNumerator / conv.FactorDenominator, nil
}
