package service

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/bitfantasy/ppv-engine/internal/ppv/entity"
)

func steelPOItem() *entity.POItem {
	return &entity.POItem{
		PurchaseOrder:     "4500000001",
		PurchaseOrderItem: "00010",
		CompanyCode:       "1000",
		Supplier:          "VENDOR01",
		Material:          "RAW-STEEL",
		Plant:             "1000",
		OrderQuantity:     1000,
		OrderUnit:         "EA",
		OrderPriceUnit:    1,
		NetPriceAmount:    2.00,
		DocumentCurrency:  "EUR",
		CreationDate:      day(2025, 3, 3),
	}
}

func invoiceItem(doc, item string, qty, amount float64, posting time.Time) entity.InvoiceItem {
	return entity.InvoiceItem{
		SupplierInvoice:     doc,
		FiscalYear:          "2025",
		SupplierInvoiceItem: item,
		PurchaseOrder:       "4500000001",
		PurchaseOrderItem:   "00010",
		Quantity:            qty,
		QuantityUnit:        "EA",
		InvoiceAmount:       amount,
		DocumentCurrency:    "EUR",
		PostingDate:         posting,
		InvoiceType:         entity.InvoiceTypeInvoice,
	}
}

func newTestDecomposer(rates *fakeRates, conv *fakeConversions) *Decomposer {
	norm := NewNormalizer(rates, conv, "M", "EUR", 10, nil)
	return NewDecomposer(norm, []string{"ZFR1", "ZHD1", "FRA1", "FRB1"})
}

func checkConservation(t *testing.T, dec *Decomposition) {
	t.Helper()
	total := dec.TotalVarianceEUR()
	sum := dec.Contributions.Total()
	tol := 1e-9 * math.Max(1, math.Abs(total))
	if math.Abs(sum-total) > tol {
		t.Errorf("buckets sum to %v, total variance is %v", sum, total)
	}
}

func TestDecomposeFreightSurcharge(t *testing.T) {
	// 1000 units ordered at 2.00 EUR, invoiced at 2300 EUR gross of which
	// 200 EUR is an unplanned ZFR1 freight fee.
	d := newTestDecomposer(&fakeRates{}, &fakeConversions{})
	po := steelPOItem()
	invoices := []entity.InvoiceItem{
		invoiceItem("5100000001", "0001", 1000, 2300, day(2025, 3, 10)),
	}
	conditions := []entity.Condition{{
		DocumentType:  entity.ConditionDocInvoice,
		DocumentID:    "5100000001/2025",
		ConditionType: "ZFR1", ConditionAmount: 200, Currency: "EUR",
	}}

	dec, err := d.Decompose(context.Background(), po, invoices, conditions)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	almostEqual(t, "po unit price", dec.POUnitPriceEUR, 2.00)
	almostEqual(t, "posted unit price", dec.PostedUnitPriceEUR, 2.30)
	almostEqual(t, "a2a unit price", dec.A2AUnitPriceEUR, 2.10)
	almostEqual(t, "ppv posted pct", dec.PpvPostedPct, 15.0)
	almostEqual(t, "ppv a2a pct", dec.PpvA2APct, 5.0)
	almostEqual(t, "conditions bucket", dec.Contributions.Conditions, 0.20)
	almostEqual(t, "fx bucket", dec.Contributions.FX, 0)
	almostEqual(t, "uom bucket", dec.Contributions.UoM, 0)
	almostEqual(t, "residual bucket", dec.Contributions.Residual, 0.10)
	almostEqual(t, "net quantity", dec.NetQuantity, 1000)
	almostEqual(t, "net amount", dec.NetAmountEUR, 2300)
	if !dec.LatestPostingDate.Equal(day(2025, 3, 10)) {
		t.Errorf("latest posting date = %s", dec.LatestPostingDate.Format("2006-01-02"))
	}
	checkConservation(t, dec)
}

func TestDecomposeCreditMemoNetting(t *testing.T) {
	// A 10-unit credit memo nets against the 100-unit invoice before any
	// unit price is formed.
	d := newTestDecomposer(&fakeRates{}, &fakeConversions{})
	po := steelPOItem()
	memo := invoiceItem("5100000002", "0001", -10, -100, day(2025, 3, 12))
	memo.InvoiceType = entity.InvoiceTypeCreditMemo
	invoices := []entity.InvoiceItem{
		invoiceItem("5100000001", "0001", 100, 1000, day(2025, 3, 10)),
		memo,
	}

	dec, err := d.Decompose(context.Background(), po, invoices, nil)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	almostEqual(t, "net quantity", dec.NetQuantity, 90)
	almostEqual(t, "net amount", dec.NetAmountEUR, 900)
	almostEqual(t, "posted unit price", dec.PostedUnitPriceEUR, 10.0)
	checkConservation(t, dec)
}

func TestDecomposeDegenerateQuantity(t *testing.T) {
	d := newTestDecomposer(&fakeRates{}, &fakeConversions{})
	po := steelPOItem()
	memo := invoiceItem("5100000002", "0001", -100, -1000, day(2025, 3, 12))
	memo.InvoiceType = entity.InvoiceTypeCreditMemo
	invoices := []entity.InvoiceItem{
		invoiceItem("5100000001", "0001", 100, 1000, day(2025, 3, 10)),
		memo,
	}

	_, err := d.Decompose(context.Background(), po, invoices, nil)
	var degenerate *DegenerateQuantityError
	if !errors.As(err, &degenerate) {
		t.Fatalf("err = %v, want DegenerateQuantityError", err)
	}
}

func TestDecomposeFXBucket(t *testing.T) {
	// PO and invoice both in USD. The rate moved from 0.90 at PO creation
	// to 0.95 at posting; at 10 USD/unit that is 0.50 EUR/unit of FX.
	rates := &fakeRates{rates: map[string]float64{
		"M|USD|EUR|2025-03-03": 0.90,
		"M|USD|EUR|2025-03-10": 0.95,
	}}
	d := newTestDecomposer(rates, &fakeConversions{})
	po := steelPOItem()
	po.NetPriceAmount = 10.0
	po.DocumentCurrency = "USD"

	inv := invoiceItem("5100000001", "0001", 100, 1000, day(2025, 3, 10))
	inv.DocumentCurrency = "USD"

	dec, err := d.Decompose(context.Background(), po, []entity.InvoiceItem{inv}, nil)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	almostEqual(t, "po unit price", dec.POUnitPriceEUR, 9.0)
	almostEqual(t, "posted unit price", dec.PostedUnitPriceEUR, 9.5)
	almostEqual(t, "fx bucket", dec.Contributions.FX, 0.5)
	almostEqual(t, "residual bucket", dec.Contributions.Residual, 0)
	checkConservation(t, dec)
}

func TestDecomposeCurrencyPairChangeFoldsIntoResidual(t *testing.T) {
	// Invoice currency differs from the PO currency, so FX attribution
	// cannot be isolated and the whole gap lands in Residual.
	rates := &fakeRates{rates: map[string]float64{
		"M|USD|EUR|2025-03-03": 0.90,
	}}
	d := newTestDecomposer(rates, &fakeConversions{})
	po := steelPOItem()
	po.NetPriceAmount = 10.0
	po.DocumentCurrency = "USD"

	inv := invoiceItem("5100000001", "0001", 100, 950, day(2025, 3, 10)) // EUR

	dec, err := d.Decompose(context.Background(), po, []entity.InvoiceItem{inv}, nil)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	almostEqual(t, "fx bucket", dec.Contributions.FX, 0)
	almostEqual(t, "residual bucket", dec.Contributions.Residual, 0.5)
	checkConservation(t, dec)
}

func TestDecomposeUomRounding(t *testing.T) {
	// Invoice in grams against a PO in kilograms. 1000.4 g converts to
	// 1.0004 kg exactly but is carried rounded to 1.000 kg; the gap between
	// the two prices is the UoM bucket.
	conv := &fakeConversions{factors: map[string][2]float64{
		"RAW-STEEL|G|KG": {1, 1000},
	}}
	d := newTestDecomposer(&fakeRates{}, conv)
	po := steelPOItem()
	po.OrderUnit = "KG"
	po.NetPriceAmount = 10.0

	inv := invoiceItem("5100000001", "0001", 1000.4, 10, day(2025, 3, 10))
	inv.QuantityUnit = "G"

	dec, err := d.Decompose(context.Background(), po, []entity.InvoiceItem{inv}, nil)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	almostEqual(t, "net quantity", dec.NetQuantity, 1.0)
	almostEqual(t, "posted unit price", dec.PostedUnitPriceEUR, 10.0)
	// posted minus the exact-factor price 10/1.0004
	almostEqual(t, "uom bucket", dec.Contributions.UoM, 10.0-10.0/1.0004)
	checkConservation(t, dec)
}

func TestDecomposeMatchingUnitsYieldZeroUomBucket(t *testing.T) {
	d := newTestDecomposer(&fakeRates{}, &fakeConversions{})
	po := steelPOItem()
	invoices := []entity.InvoiceItem{
		invoiceItem("5100000001", "0001", 333, 777.77, day(2025, 3, 10)),
	}

	dec, err := d.Decompose(context.Background(), po, invoices, nil)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	if dec.Contributions.UoM != 0 {
		t.Errorf("uom bucket = %v, want exactly 0 for matching units", dec.Contributions.UoM)
	}
}

func TestDecomposeIgnoresConditionsOnUnmatchedDocuments(t *testing.T) {
	d := newTestDecomposer(&fakeRates{}, &fakeConversions{})
	po := steelPOItem()
	invoices := []entity.InvoiceItem{
		invoiceItem("5100000001", "0001", 1000, 2300, day(2025, 3, 10)),
	}
	conditions := []entity.Condition{
		{DocumentType: entity.ConditionDocInvoice, DocumentID: "5100000001/2025",
			ConditionType: "ZFR1", ConditionAmount: 200, Currency: "EUR"},
		{DocumentType: entity.ConditionDocInvoice, DocumentID: "9999999999/2025",
			ConditionType: "ZFR1", ConditionAmount: 5000, Currency: "EUR"},
		{DocumentType: entity.ConditionDocInvoice, DocumentID: "5100000001/2025",
			ConditionType: "PB00", ConditionAmount: 2100, Currency: "EUR"}, // allowed type
	}

	dec, err := d.Decompose(context.Background(), po, invoices, conditions)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	almostEqual(t, "conditions bucket", dec.Contributions.Conditions, 0.20)
}

func TestDecomposeIdempotent(t *testing.T) {
	rates := &fakeRates{rates: map[string]float64{
		"M|USD|EUR|2025-03-03": 0.90,
		"M|USD|EUR|2025-03-10": 0.95,
	}}
	d := newTestDecomposer(rates, &fakeConversions{})
	po := steelPOItem()
	po.NetPriceAmount = 10.0
	po.DocumentCurrency = "USD"
	inv := invoiceItem("5100000001", "0001", 100, 1000, day(2025, 3, 10))
	inv.DocumentCurrency = "USD"
	invoices := []entity.InvoiceItem{inv}

	first, err := d.Decompose(context.Background(), po, invoices, nil)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := d.Decompose(context.Background(), po, invoices, nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("runs differ:\nfirst  %+v\nsecond %+v", first, second)
	}
}
