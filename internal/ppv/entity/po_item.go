package entity

import "time"

// POItem is one purchase order line as released in purchasing.
// Immutable once created; this service only ever reads it.
type POItem struct {
	PurchaseOrder     string    `json:"purchase_order" gorm:"primaryKey;size:10"`
	PurchaseOrderItem string    `json:"purchase_order_item" gorm:"primaryKey;size:6"`
	CompanyCode       string    `json:"company_code" gorm:"size:4;not null;index"`
	Supplier          string    `json:"supplier" gorm:"size:10;not null;index"`
	Material          string    `json:"material" gorm:"size:40;not null;index"`
	Plant             string    `json:"plant" gorm:"size:4"`
	OrderQuantity     float64   `json:"order_quantity" gorm:"type:decimal(13,3);not null"`
	OrderUnit         string    `json:"order_unit" gorm:"size:3;not null"`
	OrderPriceUnit    float64   `json:"order_price_unit" gorm:"type:decimal(5,0);not null"` // price is per this many order units
	NetPriceAmount    float64   `json:"net_price_amount" gorm:"type:decimal(11,2);not null"`
	DocumentCurrency  string    `json:"document_currency" gorm:"size:5;not null"`
	CreationDate      time.Time `json:"creation_date" gorm:"not null"`
}

func (POItem) TableName() string {
	return "po_items"
}

// Key returns the composite identifier used across results and logs.
func (p *POItem) Key() string {
	return p.PurchaseOrder + "/" + p.PurchaseOrderItem
}
