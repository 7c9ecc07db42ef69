package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cashflow-insight/internal/broker"
	"cashflow-insight/internal/dataset"
	"cashflow-insight/internal/models"
	"cashflow-insight/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidBudget is returned when a reorder plan is requested with a
// non-positive budget.
var ErrInvalidBudget = errors.New("budget must be a positive amount")

// Policy bundles the business constants the analyses run with.
type Policy struct {
	RestockHorizonDays int
	DefaultBudget      float64
	Clearance          ClearancePolicy
}

// DefaultPolicy returns the standard business constants.
func DefaultPolicy() Policy {
	return Policy{
		RestockHorizonDays: 5,
		DefaultBudget:      500,
		Clearance:          DefaultClearancePolicy(),
	}
}

// Service owns the current dataset and runs the analyses over it. Derived
// results are never cached: every call re-enriches from the current
// snapshot. The event publisher is optional; without one the service simply
// computes and returns.
type Service struct {
	holder *dataset.Holder
	files  *dataset.FileStore
	events *broker.EventPublisher
	logger *zap.Logger
	policy Policy
}

// NewService creates an analysis service. events may be nil.
func NewService(holder *dataset.Holder, files *dataset.FileStore, events *broker.EventPublisher, policy Policy) *Service {
	return &Service{
		holder: holder,
		files:  files,
		events: events,
		logger: util.GetLogger(),
		policy: policy,
	}
}

// DefaultBudget exposes the configured fallback reorder budget.
func (s *Service) DefaultBudget() float64 {
	return s.policy.DefaultBudget
}

// RestorePersisted re-loads previously uploaded tables from disk into the
// holder. Nothing persisted is not an error; the service starts empty.
func (s *Service) RestorePersisted() error {
	ds, err := s.files.Load()
	if err != nil {
		var nf *dataset.NotFoundError
		if errors.As(err, &nf) {
			return nil
		}
		return fmt.Errorf("failed to restore persisted dataset: %w", err)
	}
	s.holder.Replace(ds)
	s.logger.Info("Restored persisted dataset",
		zap.Int("transactions", len(ds.Transactions)),
		zap.Int("refunds", len(ds.Refunds)),
		zap.Int("payouts", len(ds.Payouts)),
		zap.Int("products", len(ds.Products)))
	return nil
}

// UploadTables decodes, validates and installs any subset of the four
// tables, persists them to disk and publishes a DatasetUploaded event.
func (s *Service) UploadTables(ctx context.Context, tables map[dataset.Kind]*dataset.Table) (models.DatasetStatus, error) {
	ctx, span := util.StartSpan(ctx, "AnalysisService.UploadTables")
	defer span.End()

	var update dataset.Update
	var counts []models.TableRowCount

	for kind, t := range tables {
		switch kind {
		case dataset.KindTransactions:
			rows, err := dataset.DecodeTransactions(t)
			if err != nil {
				return models.DatasetStatus{}, err
			}
			update.Transactions = rows
			counts = append(counts, models.TableRowCount{Kind: string(kind), Rows: len(rows)})
		case dataset.KindRefunds:
			rows, err := dataset.DecodeRefunds(t)
			if err != nil {
				return models.DatasetStatus{}, err
			}
			update.Refunds = rows
			counts = append(counts, models.TableRowCount{Kind: string(kind), Rows: len(rows)})
		case dataset.KindPayouts:
			rows, err := dataset.DecodePayouts(t)
			if err != nil {
				return models.DatasetStatus{}, err
			}
			update.Payouts = rows
			counts = append(counts, models.TableRowCount{Kind: string(kind), Rows: len(rows)})
		case dataset.KindProducts:
			rows, err := dataset.DecodeProducts(t)
			if err != nil {
				return models.DatasetStatus{}, err
			}
			update.Products = rows
			counts = append(counts, models.TableRowCount{Kind: string(kind), Rows: len(rows)})
		default:
			return models.DatasetStatus{}, fmt.Errorf("unknown table kind %q", kind)
		}
	}

	s.holder.Set(update)

	for kind, t := range tables {
		if err := s.files.SaveTable(kind, t); err != nil {
			s.logger.Error("Failed to persist uploaded table",
				zap.String("kind", string(kind)), zap.Error(err))
		}
		util.DatasetUploadsTotal.WithLabelValues(string(kind)).Inc()
	}

	for _, c := range counts {
		s.logger.Info("Table loaded", zap.String("kind", c.Kind), zap.Int("rows", c.Rows))
	}

	if s.events != nil {
		event := &models.DatasetUploadedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeDatasetUploaded,
				Timestamp: time.Now(),
			},
			UploadID: uuid.New().String(),
			Tables:   counts,
		}
		if err := s.events.PublishDatasetUploaded(ctx, event); err != nil {
			s.logger.Error("Failed to publish DatasetUploaded event", zap.Error(err))
		}
	}

	return s.holder.Status(), nil
}

// Status reports which tables are loaded and their row counts.
func (s *Service) Status() models.DatasetStatus {
	return s.holder.Status()
}

// Reset clears the current dataset and deletes the persisted copies.
func (s *Service) Reset(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "AnalysisService.Reset")
	defer span.End()

	s.holder.Reset()
	if err := s.files.Clear(); err != nil {
		return err
	}
	util.DatasetResetsTotal.Inc()
	s.logger.Info("Dataset cleared")

	if s.events != nil {
		event := &models.DatasetResetEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeDatasetReset,
				Timestamp: time.Now(),
			},
		}
		if err := s.events.PublishDatasetReset(ctx, event); err != nil {
			s.logger.Error("Failed to publish DatasetReset event", zap.Error(err))
		}
	}
	return nil
}

// ProcessedData re-runs margin enrichment over the current dataset and
// returns the enriched transactions plus the raw refunds and payouts.
func (s *Service) ProcessedData(ctx context.Context) ([]models.EnrichedTransaction, []models.Refund, []models.Payout, error) {
	_, span := util.StartSpan(ctx, "AnalysisService.ProcessedData")
	defer span.End()

	ds, err := s.holder.Get()
	if err != nil {
		return nil, nil, nil, err
	}
	en, err := Enrich(ds.Transactions, ds.Products)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to enrich transactions: %w", err)
	}
	return en, ds.Refunds, ds.Payouts, nil
}

// Snapshot computes the executive overview for the current dataset.
func (s *Service) Snapshot(ctx context.Context) (models.Snapshot, error) {
	ctx, span := util.StartSpan(ctx, "AnalysisService.Snapshot")
	defer span.End()
	start := time.Now()

	en, refunds, payouts, err := s.ProcessedData(ctx)
	if err != nil {
		s.failed(models.AnalysisKindSnapshot, err)
		return models.Snapshot{}, err
	}
	snap := BuildSnapshot(en, refunds, payouts)
	s.completed(ctx, models.AnalysisKindSnapshot, 0, len(en), snap.GrossSales, start)
	return snap, nil
}

// CashEaters ranks cash-drain categories and lowest-margin products.
func (s *Service) CashEaters(ctx context.Context) (models.CashEatersResult, error) {
	ctx, span := util.StartSpan(ctx, "AnalysisService.CashEaters")
	defer span.End()
	start := time.Now()

	en, refunds, payouts, err := s.ProcessedData(ctx)
	if err != nil {
		s.failed(models.AnalysisKindCashEaters, err)
		return models.CashEatersResult{}, err
	}
	result := CashEaters(en, refunds, payouts)

	var leakage float64
	for _, c := range result.Categories {
		leakage += c.Amount
	}
	s.logger.Info("Cash eaters calculated", zap.Float64("total_leakage", leakage))
	s.completed(ctx, models.AnalysisKindCashEaters, 0, len(en), leakage, start)
	return result, nil
}

// ReorderPlan runs the greedy budget-constrained reorder allocation.
func (s *Service) ReorderPlan(ctx context.Context, budget float64) (models.ReorderPlan, error) {
	ctx, span := util.StartSpan(ctx, "AnalysisService.ReorderPlan")
	defer span.End()
	start := time.Now()

	if budget <= 0 {
		s.failed(models.AnalysisKindReorder, ErrInvalidBudget)
		return models.ReorderPlan{}, ErrInvalidBudget
	}

	en, _, _, err := s.ProcessedData(ctx)
	if err != nil {
		s.failed(models.AnalysisKindReorder, err)
		return models.ReorderPlan{}, err
	}
	plan := PlanReorder(en, budget, s.policy.RestockHorizonDays)

	s.logger.Info("Reorder plan generated",
		zap.Int("items", len(plan.Lines)),
		zap.Float64("allocated", budget-plan.RemainingBudget))
	s.completed(ctx, models.AnalysisKindReorder, budget, len(plan.Lines), budget-plan.RemainingBudget, start)
	return plan, nil
}

// Clearance projects the clearance cash estimate for slow movers.
func (s *Service) Clearance(ctx context.Context) (models.ClearanceEstimate, error) {
	ctx, span := util.StartSpan(ctx, "AnalysisService.Clearance")
	defer span.End()
	start := time.Now()

	en, _, _, err := s.ProcessedData(ctx)
	if err != nil {
		s.failed(models.AnalysisKindClearance, err)
		return models.ClearanceEstimate{}, err
	}
	est := EstimateClearance(en, s.policy.Clearance)

	s.logger.Info("Clearance estimate calculated", zap.Float64("potential", est.TotalExtraCash))
	s.completed(ctx, models.AnalysisKindClearance, 0, len(est.Lines), est.TotalExtraCash, start)
	return est, nil
}

func (s *Service) failed(kind string, err error) {
	reason := "error"
	if errors.Is(err, dataset.ErrNoData) {
		reason = "no_data"
	} else if errors.Is(err, ErrInvalidBudget) {
		reason = "invalid_budget"
	}
	util.AnalysesFailedTotal.WithLabelValues(kind, reason).Inc()
}

func (s *Service) completed(ctx context.Context, kind string, budget float64, rows int, headline float64, start time.Time) {
	elapsed := time.Since(start)
	util.AnalysesTotal.WithLabelValues(kind).Inc()
	util.AnalysisDuration.WithLabelValues(kind).Observe(elapsed.Seconds())

	if s.events == nil {
		return
	}
	event := &models.AnalysisCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeAnalysisCompleted,
			Timestamp: time.Now(),
		},
		RunID:        uuid.New().String(),
		AnalysisKind: kind,
		Budget:       budget,
		RowCount:     rows,
		Headline:     headline,
		DurationMs:   elapsed.Milliseconds(),
	}
	if err := s.events.PublishAnalysisCompleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish AnalysisCompleted event", zap.Error(err))
	}
}
