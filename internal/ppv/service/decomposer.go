package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/bitfantasy/ppv-engine/internal/ppv/entity"
)

const (
	qtyEpsilon   = 1e-9
	invariantTol = 1e-6 // relative
)

// Decomposition is the normalized price comparison for one PO item plus
// the attribution of the gap into named buckets.
type Decomposition struct {
	POUnitPriceEUR     float64
	PostedUnitPriceEUR float64
	A2AUnitPriceEUR    float64
	PpvPostedPct       float64
	PpvA2APct          float64
	FeePerUnit         float64
	Contributions      entity.Contributions

	NetQuantity       float64 // in PO unit of measure
	NetAmountEUR      float64
	LatestPostingDate time.Time
}

// TotalVarianceEUR is the per-unit gap the buckets must explain.
func (d *Decomposition) TotalVarianceEUR() float64 {
	return d.PostedUnitPriceEUR - d.POUnitPriceEUR
}

// Decomposer turns a PO item and its postings into a Decomposition.
type Decomposer struct {
	norm       *Normalizer
	disallowed map[string]bool
}

func NewDecomposer(norm *Normalizer, disallowedConditionTypes []string) *Decomposer {
	set := make(map[string]bool, len(disallowedConditionTypes))
	for _, t := range disallowedConditionTypes {
		set[t] = true
	}
	return &Decomposer{norm: norm, disallowed: set}
}

// roundQty rounds a converted quantity to 3 decimals, the precision invoice
// quantities are carried in. Identity conversions are never rounded.
func roundQty(q float64) float64 {
	return math.Round(q*1000) / 1000
}

// Decompose runs steps 1-6 of the variance computation: normalized unit
// prices, percentage variances, and the FX/Conditions/UoM/Residual split.
// Invoice items must all belong to the given PO item, credit memos included.
func (d *Decomposer) Decompose(ctx context.Context, po *entity.POItem, invoices []entity.InvoiceItem, conditions []entity.Condition) (*Decomposition, error) {
	if po.OrderPriceUnit <= 0 {
		return nil, fmt.Errorf("po item %s: order price unit must be positive", po.Key())
	}

	poAmountEUR, err := d.norm.ToEUR(ctx, po.NetPriceAmount, po.DocumentCurrency, po.CreationDate)
	if err != nil {
		return nil, err
	}
	poUnit := poAmountEUR / po.OrderPriceUnit

	var (
		netQty       float64 // rounded converted quantities, what we report on
		netQtyExact  float64 // exact-factor quantities, isolates the UoM bucket
		netAmountEUR float64
		latest       time.Time
		converted    bool // any non-identity conversion applied

		fxApplicable = po.DocumentCurrency != d.norm.target
		rateWeighted float64 // quantity-weighted invoice rate, same-currency case
	)

	postingDates := make(map[string]time.Time, len(invoices))

	for i := range invoices {
		inv := &invoices[i]

		qtyExact, err := d.norm.ConvertQuantity(ctx, inv.Quantity, po.Material, inv.QuantityUnit, po.OrderUnit)
		if err != nil {
			return nil, err
		}
		qty := qtyExact
		if inv.QuantityUnit != po.OrderUnit {
			qty = roundQty(qtyExact)
			converted = true
		}

		amountEUR, err := d.norm.ToEUR(ctx, inv.InvoiceAmount, inv.DocumentCurrency, inv.PostingDate)
		if err != nil {
			return nil, err
		}

		netQty += qty
		netQtyExact += qtyExact
		netAmountEUR += amountEUR

		if inv.PostingDate.After(latest) {
			latest = inv.PostingDate
		}
		postingDates[inv.DocKey()] = inv.PostingDate

		// FX attribution only holds when PO and invoice share one
		// non-target currency; a currency-pair change folds into Residual.
		if inv.DocumentCurrency != po.DocumentCurrency {
			fxApplicable = false
		} else if fxApplicable {
			rate, err := d.norm.RateToEUR(ctx, inv.DocumentCurrency, inv.PostingDate)
			if err != nil {
				return nil, err
			}
			rateWeighted += rate * qty
		}
	}

	if math.Abs(netQty) < qtyEpsilon {
		return nil, &DegenerateQuantityError{
			PurchaseOrder:     po.PurchaseOrder,
			PurchaseOrderItem: po.PurchaseOrderItem,
		}
	}

	posted := netAmountEUR / netQty

	// Disallowed fees, converted at the posting date of their document.
	var feeEUR float64
	for i := range conditions {
		cond := &conditions[i]
		if !d.disallowed[cond.ConditionType] {
			continue
		}
		date, ok := postingDates[cond.DocumentID]
		if !ok {
			continue // condition on an unmatched document
		}
		amt, err := d.norm.ToEUR(ctx, cond.ConditionAmount, cond.Currency, date)
		if err != nil {
			return nil, err
		}
		feeEUR += amt
	}
	feePerUnit := feeEUR / netQty

	a2a := posted - feePerUnit

	if poUnit == 0 {
		return nil, fmt.Errorf("po item %s: ordered unit price is zero, variance undefined", po.Key())
	}
	ppvPosted := (posted - poUnit) / poUnit * 100
	ppvA2A := (a2a - poUnit) / poUnit * 100

	var fx float64
	if fxApplicable {
		ratePO, err := d.norm.RateToEUR(ctx, po.DocumentCurrency, po.CreationDate)
		if err != nil {
			return nil, err
		}
		rateInvoice := rateWeighted / netQty
		poPriceFC := po.NetPriceAmount / po.OrderPriceUnit
		fx = (rateInvoice - ratePO) * poPriceFC
	}

	var uom float64
	if converted && math.Abs(netQtyExact) >= qtyEpsilon {
		uom = posted - netAmountEUR/netQtyExact
	}

	dec := &Decomposition{
		POUnitPriceEUR:     poUnit,
		PostedUnitPriceEUR: posted,
		A2AUnitPriceEUR:    a2a,
		PpvPostedPct:       ppvPosted,
		PpvA2APct:          ppvA2A,
		FeePerUnit:         feePerUnit,
		Contributions: entity.Contributions{
			Conditions: feePerUnit,
			FX:         fx,
			UoM:        uom,
			Residual:   (a2a - poUnit) - fx - uom,
		},
		NetQuantity:       netQty,
		NetAmountEUR:      netAmountEUR,
		LatestPostingDate: latest,
	}

	if err := dec.checkInvariant(); err != nil {
		return nil, err
	}
	return dec, nil
}

// checkInvariant enforces the conservation law: the buckets must sum to the
// total variance within tolerance. A violation is an internal bug signal.
func (d *Decomposition) checkInvariant() error {
	expected := d.TotalVarianceEUR()
	actual := d.Contributions.Total()
	for _, v := range []float64{expected, actual, d.POUnitPriceEUR, d.PostedUnitPriceEUR} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &DecompositionInvariantError{Expected: expected, Actual: actual}
		}
	}
	scale := math.Max(1, math.Abs(expected))
	if math.Abs(actual-expected) > invariantTol*scale {
		return &DecompositionInvariantError{Expected: expected, Actual: actual}
	}
	return nil
}
