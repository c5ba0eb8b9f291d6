package repository

import (
	"context"
	"time"

	"github.com/bitfantasy/ppv-engine/internal/ppv/entity"
	"gorm.io/gorm"
)

// RateRepository reads exchange rates. The business-day fallback walk is
// the normalizer's job; this only answers exact-date lookups.
type RateRepository struct {
	db *gorm.DB
}

func NewRateRepository(db *gorm.DB) *RateRepository {
	return &RateRepository{db: db}
}

// FindRate returns the rate valid on exactly the given date, or ErrNotFound.
func (r *RateRepository) FindRate(ctx context.Context, rateType, from, to string, date time.Time) (*entity.FxRate, error) {
	var rate entity.FxRate
	day := date.Truncate(24 * time.Hour)
	err := r.db.WithContext(ctx).
		Where("rate_type = ? AND from_currency = ? AND to_currency = ? AND valid_date = ?",
			rateType, from, to, day).
		First(&rate).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rate, nil
}
