package repository

import (
	"context"

	"github.com/bitfantasy/ppv-engine/internal/ppv/entity"
	"gorm.io/gorm"
)

// InvoiceRepository reads supplier invoice items.
type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// FindForPOItem returns every posting matched to one PO line, credit memos
// included, oldest posting first so averaging is deterministic.
func (r *InvoiceRepository) FindForPOItem(ctx context.Context, purchaseOrder, purchaseOrderItem string) ([]entity.InvoiceItem, error) {
	var items []entity.InvoiceItem
	err := r.db.WithContext(ctx).
		Where("purchase_order = ? AND purchase_order_item = ?", purchaseOrder, purchaseOrderItem).
		Order("posting_date ASC, supplier_invoice ASC, supplier_invoice_item ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
