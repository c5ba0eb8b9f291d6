package entity

import "time"

// InvoiceItem is one supplier invoice posting matched to a PO item.
// Credit memos carry negative quantity and amount and are netted in
// before any unit price is computed.
type InvoiceItem struct {
	SupplierInvoice     string    `json:"supplier_invoice" gorm:"primaryKey;size:10"`
	FiscalYear          string    `json:"fiscal_year" gorm:"primaryKey;size:4"`
	SupplierInvoiceItem string    `json:"supplier_invoice_item" gorm:"primaryKey;size:6"`
	PurchaseOrder       string    `json:"purchase_order" gorm:"size:10;not null;index:idx_inv_po"`
	PurchaseOrderItem   string    `json:"purchase_order_item" gorm:"size:6;not null;index:idx_inv_po"`
	Quantity            float64   `json:"quantity" gorm:"type:decimal(13,3);not null"`
	QuantityUnit        string    `json:"quantity_unit" gorm:"size:3;not null"`
	InvoiceAmount       float64   `json:"invoice_amount" gorm:"type:decimal(13,2);not null"`
	DocumentCurrency    string    `json:"document_currency" gorm:"size:5;not null"`
	PostingDate         time.Time `json:"posting_date" gorm:"not null;index"`
	InvoiceType         string    `json:"invoice_type" gorm:"size:2;not null"`
}

func (InvoiceItem) TableName() string {
	return "supplier_invoice_items"
}

// Invoice document types.
const (
	InvoiceTypeInvoice    = "RE"
	InvoiceTypeCreditMemo = "KG"
)

// DocKey identifies the owning invoice document.
func (i *InvoiceItem) DocKey() string {
	return i.SupplierInvoice + "/" + i.FiscalYear
}
