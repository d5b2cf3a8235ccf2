/*
engine.go - Orchestration of the paycheck pipeline

PURPOSE:
  Composes the pipeline: schedule rebuild -> per-paycheck aggregation ->
  residual redistribution -> one atomic commit. Data flows strictly forward;
  all I/O happens before the fan-out and after the fan-in.

CONCURRENCY:
  Paychecks are aggregated in parallel - each goroutine owns exactly one
  paycheck, so no locking is needed. Redistribution runs after the join
  because it reads every cost line of the year. Concurrent ProcessPaychecks
  calls for the same (employee, year) are NOT serialized here; the caller
  owns that, and the store's version checks turn any race into
  ErrConcurrentModification instead of a half-rebuilt schedule.

ERROR POLICY:
  Argument and not-found errors are raised before any mutation. Everything
  else surfaces to the caller unmodified; no internal retries.

SEE ALSO:
  - schedule.go, aggregate.go, residual.go: The pipeline stages
  - store.go: The commit contract
*/
package payroll

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine wires the pipeline stages to a store and a benefit catalog.
type Engine struct {
	cfg     Config
	store   Store
	catalog BenefitCatalog
	log     *zap.Logger
}

// NewEngine creates an engine. A nil logger disables logging.
func NewEngine(store Store, catalog BenefitCatalog, cfg Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{cfg: cfg, store: store, catalog: catalog, log: log}
}

func checkArgs(employeeID int64, year int) error {
	if employeeID <= 0 {
		return &ArgumentError{Name: "employeeId", Value: employeeID}
	}
	if year <= 0 {
		return &ArgumentError{Name: "year", Value: int64(year)}
	}
	return nil
}

// =============================================================================
// PROCESS - Rebuild, price, reconcile, commit
// =============================================================================

// ProcessPaychecks regenerates the unsent paychecks of the year, computes
// their benefit costs and net amounts, folds the year's rounding residuals
// into the last unsent paycheck, and commits everything as one unit. Sent
// paychecks are never touched. When the final period is already sent, the
// schedule is frozen and the surviving unsent paychecks are repriced in
// place instead of being regenerated.
func (e *Engine) ProcessPaychecks(ctx context.Context, employeeID int64, year int) error {
	if err := checkArgs(employeeID, year); err != nil {
		return err
	}

	emp, err := e.store.FindEmployee(ctx, employeeID)
	if err != nil {
		return err
	}
	if emp == nil {
		return &EmployeeNotFoundError{EmployeeID: employeeID}
	}

	existing, err := e.store.PaychecksForYear(ctx, employeeID, year)
	if err != nil {
		return err
	}

	outcome := e.rebuildSchedule(emp, year, existing)
	processing := outcome.processing()
	if len(processing) == 0 {
		// Every paycheck already sent (or no periods configured): terminal.
		e.log.Debug("process: nothing to do",
			zap.Int64("employee_id", employeeID), zap.Int("year", year))
		return nil
	}

	employeeBenefits, err := e.catalog.ActiveEmployeeBenefits(ctx)
	if err != nil {
		return err
	}
	dependentBenefits, err := e.catalog.ActiveDependentBenefits(ctx)
	if err != nil {
		return err
	}
	for i := range employeeBenefits {
		if err := employeeBenefits[i].Validate(); err != nil {
			return err
		}
	}
	for i := range dependentBenefits {
		if err := dependentBenefits[i].Validate(); err != nil {
			return err
		}
	}

	if err := e.aggregateAll(processing, emp, employeeBenefits, dependentBenefits); err != nil {
		return err
	}

	// Gross amounts were only recomputed when the schedule was regenerated;
	// frozen-schedule survivors keep theirs, so only benefit residuals move.
	e.redistribute(outcome.fullYear(), processing, len(outcome.created) > 0)

	cs := &Changeset{Deletes: outcome.deletes, Inserts: outcome.created, Updates: outcome.kept}
	if err := e.store.Commit(ctx, cs); err != nil {
		return err
	}

	e.log.Info("processed paychecks",
		zap.Int64("employee_id", employeeID),
		zap.Int("year", year),
		zap.Int("rebuilt", len(outcome.created)),
		zap.Int("repriced", len(outcome.kept)),
		zap.Int("kept_sent", len(outcome.sent)))
	return nil
}

// aggregateAll prices every paycheck concurrently. Each goroutine owns one
// paycheck; the first error wins.
func (e *Engine) aggregateAll(paychecks []*Paycheck, emp *Employee, employeeBenefits, dependentBenefits []Benefit) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, p := range paychecks {
		wg.Add(1)
		go func(p *Paycheck) {
			defer wg.Done()
			if err := e.aggregatePaycheck(p, emp, employeeBenefits, dependentBenefits); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(p)
	}
	wg.Wait()
	return firstErr
}

// =============================================================================
// DELETE / READ
// =============================================================================

// DeletePaychecks removes the unsent paychecks (and their cost lines) for
// the year. Sent paychecks and other years are untouched. Succeeds even when
// nothing exists to delete.
func (e *Engine) DeletePaychecks(ctx context.Context, employeeID int64, year int) error {
	if err := checkArgs(employeeID, year); err != nil {
		return err
	}

	existing, err := e.store.PaychecksForYear(ctx, employeeID, year)
	if err != nil {
		return err
	}

	cs := &Changeset{}
	for _, p := range existing {
		if !p.Sent() {
			cs.Deletes = append(cs.Deletes, PaycheckRef{ID: p.ID, Version: p.Version})
		}
	}
	if cs.Empty() {
		return nil
	}
	if err := e.store.Commit(ctx, cs); err != nil {
		return err
	}

	e.log.Info("deleted unsent paychecks",
		zap.Int64("employee_id", employeeID),
		zap.Int("year", year),
		zap.Int("deleted", len(cs.Deletes)))
	return nil
}

// GetEmployeePaychecks returns the year's paychecks ordered by index.
func (e *Engine) GetEmployeePaychecks(ctx context.Context, employeeID int64, year int) ([]*Paycheck, error) {
	if err := checkArgs(employeeID, year); err != nil {
		return nil, err
	}
	return e.store.PaychecksForYear(ctx, employeeID, year)
}
