package entity

import "time"

// FxRate is one exchange rate row keyed by rate type and validity date.
type FxRate struct {
	RateType     string    `json:"rate_type" gorm:"primaryKey;size:4"`
	FromCurrency string    `json:"from_currency" gorm:"primaryKey;size:5"`
	ToCurrency   string    `json:"to_currency" gorm:"primaryKey;size:5"`
	ValidDate    time.Time `json:"valid_date" gorm:"primaryKey"`
	Rate         float64   `json:"rate" gorm:"type:decimal(12,6);not null"`
	SourceSystem string    `json:"source_system" gorm:"size:10"`
}

func (FxRate) TableName() string {
	return "fx_rates"
}

// RateTypeAverage is the month-average rate type used for all conversions.
const RateTypeAverage = "M"

// UomConversion converts a material quantity between two units of measure.
type UomConversion struct {
	Material          string  `json:"material" gorm:"primaryKey;size:40"`
	FromUoM           string  `json:"from_uom" gorm:"primaryKey;size:3"`
	ToUoM             string  `json:"to_uom" gorm:"primaryKey;size:3"`
	FactorNumerator   float64 `json:"factor_numerator" gorm:"type:decimal(10,0);not null"`
	FactorDenominator float64 `json:"factor_denominator" gorm:"type:decimal(10,0);not null"`
}

func (UomConversion) TableName() string {
	return "uom_conversions"
}
