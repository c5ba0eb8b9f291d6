package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/bitfantasy/ppv-engine/internal/config"
	"github.com/bitfantasy/ppv-engine/internal/ppv/entity"
	"github.com/bitfantasy/ppv-engine/internal/ppv/repository"
	"github.com/bitfantasy/ppv-engine/internal/shared/market"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Source interfaces for the data-access capability. The GORM repositories
// implement them; tests inject in-memory fakes.

type POSource interface {
	FindItem(ctx context.Context, purchaseOrder, purchaseOrderItem string) (*entity.POItem, error)
	ListItems(ctx context.Context, purchaseOrder string) ([]entity.POItem, error)
}

type InvoiceSource interface {
	FindForPOItem(ctx context.Context, purchaseOrder, purchaseOrderItem string) ([]entity.InvoiceItem, error)
}

type ConditionSource interface {
	FindForInvoices(ctx context.Context, documentIDs []string) ([]entity.Condition, error)
}

type ContractSource interface {
	HasActiveContract(ctx context.Context, supplier, material string, asOf time.Time) (bool, error)
	IsInvoiceLinked(ctx context.Context, supplierInvoice, fiscalYear string) (bool, error)
}

type JournalSource interface {
	FindForInvoices(ctx context.Context, supplierInvoices []string) ([]entity.JournalEntry, error)
}

// ContextLookup is the optional external market-context capability.
type ContextLookup interface {
	Lookup(ctx context.Context, req market.ContextRequest) (*market.ContextResult, error)
}

// Sources bundles all read-only inputs of the engine.
type Sources struct {
	PO        POSource
	Invoice   InvoiceSource
	Condition ConditionSource
	Contract  ContractSource
	Journal   JournalSource
	Rate      RateSource
	Uom       ConversionSource
}

// VarianceService computes, decomposes and classifies purchase price
// variance for PO items. Per-item computation is pure apart from data
// access and the optional external lookup.
type VarianceService struct {
	src        Sources
	norm       *Normalizer
	decomposer *Decomposer
	classifier *Classifier
	lookup     ContextLookup
	rdb        *redis.Client // optional context cache
	cfg        *config.Config
	logger     *zap.Logger
}

func NewVarianceService(src Sources, lookup ContextLookup, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *VarianceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	an := cfg.Analysis
	norm := NewNormalizer(src.Rate, src.Uom, an.RateType, an.TargetCurrency, an.MaxRateLookbackDays, an.Holidays)
	return &VarianceService{
		src:        src,
		norm:       norm,
		decomposer: NewDecomposer(norm, an.DisallowedConditionTypes),
		classifier: NewClassifier(an.ConditionThresholdPct, an.ResidualThresholdPct),
		lookup:     lookup,
		rdb:        rdb,
		cfg:        cfg,
		logger:     logger,
	}
}

// AnalyzeItem explains one PO line end to end.
func (s *VarianceService) AnalyzeItem(ctx context.Context, purchaseOrder, purchaseOrderItem string) (*entity.VarianceResult, error) {
	key := purchaseOrder + "/" + purchaseOrderItem

	poItem, err := s.src.PO.FindItem(ctx, purchaseOrder, purchaseOrderItem)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &MissingTableError{Table: "po_items", Key: key}
		}
		return nil, fmt.Errorf("load po item %s: %w", key, err)
	}

	invoices, err := s.src.Invoice.FindForPOItem(ctx, purchaseOrder, purchaseOrderItem)
	if err != nil {
		return nil, fmt.Errorf("load invoice items %s: %w", key, err)
	}
	if len(invoices) == 0 {
		return nil, &MissingTableError{Table: "supplier_invoice_items", Key: key}
	}

	docIDs, invoiceNos := invoiceDocs(invoices)
	conditions, err := s.src.Condition.FindForInvoices(ctx, docIDs)
	if err != nil {
		return nil, fmt.Errorf("load conditions %s: %w", key, err)
	}

	dec, err := s.decomposer.Decompose(ctx, poItem, invoices, conditions)
	if err != nil {
		return nil, err
	}

	facts, err := s.contractFacts(ctx, poItem, invoices, dec.LatestPostingDate)
	if err != nil {
		return nil, err
	}

	causes := s.classifier.Classify(dec, facts)

	result := &entity.VarianceResult{
		PurchaseOrder:      poItem.PurchaseOrder,
		PurchaseOrderItem:  poItem.PurchaseOrderItem,
		Material:           poItem.Material,
		Supplier:           poItem.Supplier,
		POUnitPriceEUR:     dec.POUnitPriceEUR,
		PostedUnitPriceEUR: dec.PostedUnitPriceEUR,
		A2AUnitPriceEUR:    dec.A2AUnitPriceEUR,
		PpvPostedPct:       dec.PpvPostedPct,
		PpvA2APct:          dec.PpvA2APct,
		NetQuantity:        dec.NetQuantity,
		NetSpendEUR:        dec.NetAmountEUR,
		Contributions:      dec.Contributions,
		RootCauses:         causes,
		Actions:            RecommendActions(causes),
	}

	result.ExternalContext = s.maybeLookupContext(ctx, poItem, dec, causes)
	result.Evidence = s.collectEvidence(ctx, key, invoiceNos)

	return result, nil
}

// AnalyzePO analyzes every line of a purchase order. Items run in
// parallel; a failing item is reported and skipped, never aborts the batch.
func (s *VarianceService) AnalyzePO(ctx context.Context, purchaseOrder string) (*entity.POAnalysis, error) {
	items, err := s.src.PO.ListItems(ctx, purchaseOrder)
	if err != nil {
		return nil, fmt.Errorf("list po items %s: %w", purchaseOrder, err)
	}
	if len(items) == 0 {
		return nil, &MissingTableError{Table: "po_items", Key: purchaseOrder}
	}

	type slot struct {
		result  *entity.VarianceResult
		failure *entity.ItemFailure
	}
	slots := make([]slot, len(items))

	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			item := &items[i]
			res, err := s.AnalyzeItem(ctx, item.PurchaseOrder, item.PurchaseOrderItem)
			if err != nil {
				s.logger.Warn("item analysis failed",
					zap.String("po_item", item.Key()),
					zap.String("kind", failureKind(err)),
					zap.Error(err))
				slots[i].failure = &entity.ItemFailure{
					PurchaseOrderItem: item.PurchaseOrderItem,
					Kind:              failureKind(err),
					Reason:            err.Error(),
				}
				return
			}
			slots[i].result = res
		}(i)
	}
	wg.Wait()

	analysis := &entity.POAnalysis{
		RunID:         uuid.New().String(),
		PurchaseOrder: purchaseOrder,
	}
	for i := range slots {
		if slots[i].result != nil {
			analysis.Results = append(analysis.Results, *slots[i].result)
		}
		if slots[i].failure != nil {
			analysis.Failures = append(analysis.Failures, *slots[i].failure)
		}
	}
	if len(items) > 1 {
		analysis.Summary = Aggregate(analysis.Results, len(analysis.Failures))
	}
	return analysis, nil
}

// contractFacts resolves the two auxiliary booleans the classifier needs.
// The invoice side is linked only when every posted invoice document
// carries a contract reference.
func (s *VarianceService) contractFacts(ctx context.Context, po *entity.POItem, invoices []entity.InvoiceItem, asOf time.Time) (ContractFacts, error) {
	facts := ContractFacts{}

	has, err := s.src.Contract.HasActiveContract(ctx, po.Supplier, po.Material, asOf)
	if err != nil {
		return facts, fmt.Errorf("contract coverage %s: %w", po.Key(), err)
	}
	facts.HasActiveContract = has
	if !has {
		return facts, nil
	}

	facts.ContractLinkedToInvoice = true
	seen := make(map[string]bool)
	for i := range invoices {
		inv := &invoices[i]
		doc := inv.DocKey()
		if seen[doc] {
			continue
		}
		seen[doc] = true
		linked, err := s.src.Contract.IsInvoiceLinked(ctx, inv.SupplierInvoice, inv.FiscalYear)
		if err != nil {
			return facts, fmt.Errorf("contract link %s: %w", doc, err)
		}
		if !linked {
			facts.ContractLinkedToInvoice = false
		}
	}
	return facts, nil
}

// maybeLookupContext applies the materiality gate and, when it opens,
// fetches one market-context sentence. Failures degrade to nil.
func (s *VarianceService) maybeLookupContext(ctx context.Context, po *entity.POItem, dec *Decomposition, causes []string) *entity.ExternalContext {
	if s.lookup == nil || !s.cfg.Lookup.Enabled {
		return nil
	}
	if !containsCause(causes, CauseMaterialFluctuation) {
		return nil
	}
	total := math.Abs(dec.TotalVarianceEUR())
	if total == 0 {
		return nil
	}
	if math.Abs(dec.Contributions.Residual)/total*100 < s.cfg.Analysis.MaterialityThresholdPct {
		return nil
	}

	region := po.Plant
	if region == "" {
		region = po.Supplier
	}
	req := market.ContextRequest{
		Material:  po.Material,
		Region:    region,
		YearMonth: dec.LatestPostingDate.Format("2006-01"),
	}

	if cached := s.cachedContext(ctx, req); cached != nil {
		return cached
	}

	timeout := s.cfg.Lookup.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	lookupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := s.lookup.Lookup(lookupCtx, req)
	if err != nil {
		s.logger.Warn("market context unavailable",
			zap.String("material", req.Material),
			zap.String("year_month", req.YearMonth),
			zap.Error(err))
		return nil
	}

	out := &entity.ExternalContext{Sentence: res.Sentence, SourceLink: res.SourceLink}
	s.storeContext(ctx, req, out)
	return out
}

func (s *VarianceService) contextCacheKey(req market.ContextRequest) string {
	return fmt.Sprintf("ppv:ctx:%s:%s:%s", req.Material, req.Region, req.YearMonth)
}

func (s *VarianceService) cachedContext(ctx context.Context, req market.ContextRequest) *entity.ExternalContext {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, s.contextCacheKey(req)).Result()
	if err != nil {
		return nil
	}
	var cached entity.ExternalContext
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil
	}
	return &cached
}

func (s *VarianceService) storeContext(ctx context.Context, req market.ContextRequest, val *entity.ExternalContext) {
	if s.rdb == nil {
		return
	}
	ttl := s.cfg.Lookup.CacheTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, s.contextCacheKey(req), raw, ttl).Err(); err != nil {
		s.logger.Debug("context cache write failed", zap.Error(err))
	}
}

// collectEvidence attaches journal-entry references. Evidence is optional:
// a journal read failure is logged, never fatal to the item.
func (s *VarianceService) collectEvidence(ctx context.Context, key string, invoiceNos []string) []entity.PostingReference {
	if s.src.Journal == nil {
		return nil
	}
	entries, err := s.src.Journal.FindForInvoices(ctx, invoiceNos)
	if err != nil {
		s.logger.Warn("journal evidence unavailable", zap.String("po_item", key), zap.Error(err))
		return nil
	}
	refs := make([]entity.PostingReference, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		refs = append(refs, entity.PostingReference{
			DocumentNumber: e.DocumentNumber,
			LineItem:       e.LineItem,
			GLAccount:      e.GLAccount,
			AmountInEUR:    e.AmountInEUR,
		})
	}
	return refs
}

// invoiceDocs returns the distinct condition document keys and supplier
// invoice numbers for a set of invoice items, in first-seen order.
func invoiceDocs(invoices []entity.InvoiceItem) (docIDs []string, invoiceNos []string) {
	seenDoc := make(map[string]bool)
	seenInv := make(map[string]bool)
	for i := range invoices {
		inv := &invoices[i]
		if doc := inv.DocKey(); !seenDoc[doc] {
			seenDoc[doc] = true
			docIDs = append(docIDs, doc)
		}
		if !seenInv[inv.SupplierInvoice] {
			seenInv[inv.SupplierInvoice] = true
			invoiceNos = append(invoiceNos, inv.SupplierInvoice)
		}
	}
	return docIDs, invoiceNos
}

func containsCause(causes []string, cause string) bool {
	for _, c := range causes {
		if c == cause {
			return true
		}
	}
	return false
}

// failureKind maps a per-item error to its reported kind.
func failureKind(err error) string {
	var (
		rateErr  *RateNotFoundError
		convErr  *ConversionNotFoundError
		qtyErr   *DegenerateQuantityError
		missErr  *MissingTableError
		invarErr *DecompositionInvariantError
	)
	switch {
	case errors.As(err, &rateErr):
		return FailureRateNotFound
	case errors.As(err, &convErr):
		return FailureConversionNotFound
	case errors.As(err, &qtyErr):
		return FailureDegenerateQuantity
	case errors.As(err, &missErr):
		return FailureMissingTable
	case errors.As(err, &invarErr):
		return FailureInvariant
	default:
		return FailureAccess
	}
}
