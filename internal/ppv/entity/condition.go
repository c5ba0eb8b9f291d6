package entity

// Condition is a priced component (fee, discount, surcharge) attached to a
// document item or header. Which condition types are disallowed for the
// apples-to-apples comparison is configuration, not data.
type Condition struct {
	ID              uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	DocumentType    string  `json:"document_type" gorm:"size:10;not null;index:idx_cond_doc"`
	DocumentID      string  `json:"document_id" gorm:"size:20;not null;index:idx_cond_doc"`
	Item            string  `json:"item" gorm:"size:6;index:idx_cond_doc"`
	ConditionType   string  `json:"condition_type" gorm:"size:4;not null"`
	ConditionAmount float64 `json:"condition_amount" gorm:"type:decimal(13,2);not null"`
	Currency        string  `json:"currency" gorm:"size:5;not null"`
	IsHeaderLevel   bool    `json:"is_header_level" gorm:"default:false"`
}

func (Condition) TableName() string {
	return "document_conditions"
}

// Condition document types.
const (
	ConditionDocInvoice       = "INVOICE"
	ConditionDocPurchaseOrder = "PO"
)
