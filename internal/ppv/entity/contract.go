package entity

import "time"

// PurchaseContract is an outline agreement covering a supplier/material pair.
type PurchaseContract struct {
	ID              string     `json:"id" gorm:"primaryKey;size:32"`
	Contract        string     `json:"contract" gorm:"size:10;uniqueIndex;not null"`
	Supplier        string     `json:"supplier" gorm:"size:10;not null;index:idx_contract_cov"`
	Material        string     `json:"material" gorm:"size:40;not null;index:idx_contract_cov"`
	Status          string     `json:"status" gorm:"size:20;default:active"` // active/expired/blocked
	ValidFrom       *time.Time `json:"valid_from"`
	ValidTo         *time.Time `json:"valid_to"`
	TargetUnitPrice float64    `json:"target_unit_price" gorm:"type:decimal(11,4)"`
	Currency        string     `json:"currency" gorm:"size:5"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (PurchaseContract) TableName() string {
	return "purchase_contracts"
}

// Contract status.
const (
	ContractStatusActive  = "active"
	ContractStatusExpired = "expired"
	ContractStatusBlocked = "blocked"
)

// PurchaseContractLink records that an invoice document was posted with
// reference to a contract. Absence of a link for an invoice is what the
// classifier reads as "unlinked contract".
type PurchaseContractLink struct {
	ID              uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Contract        string `json:"contract" gorm:"size:10;not null;index"`
	SupplierInvoice string `json:"supplier_invoice" gorm:"size:10;not null;index:idx_link_inv"`
	FiscalYear      string `json:"fiscal_year" gorm:"size:4;not null;index:idx_link_inv"`
}

func (PurchaseContractLink) TableName() string {
	return "purchase_contract_links"
}
