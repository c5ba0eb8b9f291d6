package entity

import "time"

// JournalEntry links an invoice posting to its GL account. Evidence only:
// it is surfaced with results but never enters the variance arithmetic.
type JournalEntry struct {
	CompanyCode     string    `json:"company_code" gorm:"primaryKey;size:4"`
	FiscalYear      string    `json:"fiscal_year" gorm:"primaryKey;size:4"`
	DocumentNumber  string    `json:"document_number" gorm:"primaryKey;size:10"`
	LineItem        string    `json:"line_item" gorm:"primaryKey;size:6"`
	SupplierInvoice string    `json:"supplier_invoice" gorm:"size:10;index"`
	GLAccount       string    `json:"gl_account" gorm:"size:10;not null"`
	AmountInEUR     float64   `json:"amount_in_eur" gorm:"type:decimal(13,2)"`
	PostingDate     time.Time `json:"posting_date"`
}

func (JournalEntry) TableName() string {
	return "journal_entries"
}
