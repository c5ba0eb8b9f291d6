package repository

import (
	"context"

	"github.com/bitfantasy/ppv-engine/internal/ppv/entity"
	"gorm.io/gorm"
)

// ConditionRepository reads pricing conditions attached to documents.
type ConditionRepository struct {
	db *gorm.DB
}

func NewConditionRepository(db *gorm.DB) *ConditionRepository {
	return &ConditionRepository{db: db}
}

// FindForInvoices returns all condition rows keyed to the given invoice
// documents (header and item level).
func (r *ConditionRepository) FindForInvoices(ctx context.Context, documentIDs []string) ([]entity.Condition, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}
	var conds []entity.Condition
	err := r.db.WithContext(ctx).
		Where("document_type = ? AND document_id IN ?", entity.ConditionDocInvoice, documentIDs).
		Order("document_id ASC, item ASC, condition_type ASC").
		Find(&conds).Error
	if err != nil {
		return nil, err
	}
	return conds, nil
}
