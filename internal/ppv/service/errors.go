package service

import (
	"fmt"
	"time"
)

// Per-item error taxonomy. Each of these is fatal to the item being
// analyzed and to that item only; batch analysis converts them into
// ItemFailure entries and keeps going.

// Failure kinds as reported in batch output.
const (
	FailureRateNotFound       = "RATE_NOT_FOUND"
	FailureConversionNotFound = "CONVERSION_NOT_FOUND"
	FailureDegenerateQuantity = "DEGENERATE_QUANTITY"
	FailureMissingTable       = "MISSING_TABLE"
	FailureInvariant          = "DECOMPOSITION_INVARIANT"
	FailureAccess             = "ACCESS_FAILED"
)

// RateNotFoundError means no exchange rate was found within the bounded
// business-day lookback. Never defaulted to 1.0.
type RateNotFoundError struct {
	RateType     string
	FromCurrency string
	ToCurrency   string
	Date         time.Time
	LookbackDays int
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("no %s rate %s->%s on or before %s within %d days",
		e.RateType, e.FromCurrency, e.ToCurrency, e.Date.Format("2006-01-02"), e.LookbackDays)
}

// ConversionNotFoundError means the units differ and no conversion factor
// row exists for the material.
type ConversionNotFoundError struct {
	Material string
	FromUoM  string
	ToUoM    string
}

func (e *ConversionNotFoundError) Error() string {
	return fmt.Sprintf("no uom conversion for material %s from %s to %s", e.Material, e.FromUoM, e.ToUoM)
}

// DegenerateQuantityError means the invoice quantities net to zero, so no
// per-unit price can be formed.
type DegenerateQuantityError struct {
	PurchaseOrder     string
	PurchaseOrderItem string
}

func (e *DegenerateQuantityError) Error() string {
	return fmt.Sprintf("net invoice quantity is zero for %s/%s", e.PurchaseOrder, e.PurchaseOrderItem)
}

// MissingTableError means a required input row or table is absent,
// as opposed to the data source failing.
type MissingTableError struct {
	Table string
	Key   string
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("required row missing in %s: %s", e.Table, e.Key)
}

// DecompositionInvariantError signals that the contribution buckets do not
// sum to the total variance. Internal bug signal, never swallowed.
type DecompositionInvariantError struct {
	Expected float64
	Actual   float64
}

func (e *DecompositionInvariantError) Error() string {
	return fmt.Sprintf("contribution buckets sum to %.9f, expected %.9f", e.Actual, e.Expected)
}
