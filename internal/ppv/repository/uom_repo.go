package repository

import (
	"context"

	"github.com/bitfantasy/ppv-engine/internal/ppv/entity"
	"gorm.io/gorm"
)

// UomRepository reads unit-of-measure conversion factors.
type UomRepository struct {
	db *gorm.DB
}

func NewUomRepository(db *gorm.DB) *UomRepository {
	return &UomRepository{db: db}
}

// FindConversion returns the factor row for a material and unit pair, or
// ErrNotFound.
func (r *UomRepository) FindConversion(ctx context.Context, material, fromUoM, toUoM string) (*entity.UomConversion, error) {
	var conv entity.UomConversion
	err := r.db.WithContext(ctx).
		Where("material = ? AND from_uom = ? AND to_uom = ?", material, fromUoM, toUoM).
		First(&conv).Error
	if err != nil {
		return nil, translate(err)
	}
	return &conv, nil
}
