package repository

import (
	"context"
	"time"

	"github.com/bitfantasy/ppv-engine/internal/ppv/entity"
	"gorm.io/gorm"
)

// ContractRepository answers the two contract facts the classifier needs.
type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// HasActiveContract reports whether an active contract covers the
// supplier/material pair on the given date.
func (r *ContractRepository) HasActiveContract(ctx context.Context, supplier, material string, asOf time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.PurchaseContract{}).
		Where("supplier = ? AND material = ? AND status = ?", supplier, material, entity.ContractStatusActive).
		Where("(valid_from IS NULL OR valid_from <= ?) AND (valid_to IS NULL OR valid_to >= ?)", asOf, asOf).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsInvoiceLinked reports whether the invoice document was posted with a
// contract reference.
func (r *ContractRepository) IsInvoiceLinked(ctx context.Context, supplierInvoice, fiscalYear string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.PurchaseContractLink{}).
		Where("supplier_invoice = ? AND fiscal_year = ?", supplierInvoice, fiscalYear).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
