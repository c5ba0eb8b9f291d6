package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound distinguishes "row absent" from an access failure.
	// Callers translate it into their own missing-table taxonomy.
	ErrNotFound = errors.New("record not found")
)

// Repositories bundles all read-only table access for the variance engine.
type Repositories struct {
	PO        *PORepository
	Invoice   *InvoiceRepository
	Condition *ConditionRepository
	Rate      *RateRepository
	Uom       *UomRepository
	Contract  *ContractRepository
	Journal   *JournalRepository
}

// NewRepositories wires the full set against one gorm handle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		PO:        NewPORepository(db),
		Invoice:   NewInvoiceRepository(db),
		Condition: NewConditionRepository(db),
		Rate:      NewRateRepository(db),
		Uom:       NewUomRepository(db),
		Contract:  NewContractRepository(db),
		Journal:   NewJournalRepository(db),
	}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
