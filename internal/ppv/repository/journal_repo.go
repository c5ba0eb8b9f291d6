package repository

import (
	"context"

	"github.com/bitfantasy/ppv-engine/internal/ppv/entity"
	"gorm.io/gorm"
)

// JournalRepository reads GL postings for evidence references.
type JournalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// FindForInvoices returns journal entries referencing the given supplier
// invoices.
func (r *JournalRepository) FindForInvoices(ctx context.Context, supplierInvoices []string) ([]entity.JournalEntry, error) {
	if len(supplierInvoices) == 0 {
		return nil, nil
	}
	var entries []entity.JournalEntry
	err := r.db.WithContext(ctx).
		Where("supplier_invoice IN ?", supplierInvoices).
		Order("document_number ASC, line_item ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
