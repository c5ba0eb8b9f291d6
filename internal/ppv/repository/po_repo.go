package repository

import (
	"context"

	"github.com/bitfantasy/ppv-engine/internal/ppv/entity"
	"gorm.io/gorm"
)

// PORepository reads purchase order lines.
type PORepository struct {
	db *gorm.DB
}

func NewPORepository(db *gorm.DB) *PORepository {
	return &PORepository{db: db}
}

// FindItem loads one PO line by its composite key.
func (r *PORepository) FindItem(ctx context.Context, purchaseOrder, purchaseOrderItem string) (*entity.POItem, error) {
	var item entity.POItem
	err := r.db.WithContext(ctx).
		Where("purchase_order = ? AND purchase_order_item = ?", purchaseOrder, purchaseOrderItem).
		First(&item).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// ListItems returns all lines of a purchase order in item order.
func (r *PORepository) ListItems(ctx context.Context, purchaseOrder string) ([]entity.POItem, error) {
	var items []entity.POItem
	err := r.db.WithContext(ctx).
		Where("purchase_order = ?", purchaseOrder).
		Order("purchase_order_item ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
