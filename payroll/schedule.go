/*
schedule.go - Year schedule rebuild

PURPOSE:
  Rebuilds the set of unsent paychecks for an (employee, year) from the
  employee's pay parameters. Sent paychecks are immutable: they are kept
  untouched and their indices are skipped. Everything unsent is deleted and
  regenerated from scratch, so stale gross amounts never survive a pay change.

PERIOD DATES:
  Periods start Jan 1 and are each floor(365 / periodsPerYear) days long.
  The leftover days of the 365 division are NOT absorbed by the final period
  and leap days are not accounted for; the day remainder surfaces only in the
  gross-pay rounding residual. Known quirk, kept deliberately - changing the
  annual day accounting would shift every period boundary downstream systems
  have already seen.

TERMINAL STATE:
  If the final period of the year is already sent, the date schedule is
  frozen: no paycheck is deleted or regenerated. Surviving unsent paychecks
  are still handed back for in-place repricing, so a catalog or dependent
  change keeps reaching them.

SEE ALSO:
  - engine.go: Loads state, invokes the rebuild, commits the outcome
*/
package payroll

import (
	"time"
)

// =============================================================================
// PAY PERIODS - Derived date ranges, never stored
// =============================================================================

// PayPeriod is one slice of a calendar year.
type PayPeriod struct {
	Index int // 1-based
	Start time.Time
	End   time.Time
}

// Periods derives the pay period date ranges for a year.
func (c Config) Periods(year int) []PayPeriod {
	daysPerPeriod := 365 / c.PeriodsPerYear
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)

	periods := make([]PayPeriod, 0, c.PeriodsPerYear)
	for i := 1; i <= c.PeriodsPerYear; i++ {
		periods = append(periods, PayPeriod{
			Index: i,
			Start: start,
			End:   start.AddDate(0, 0, daysPerPeriod-1),
		})
		start = start.AddDate(0, 0, daysPerPeriod)
	}
	return periods
}

// =============================================================================
// SCHEDULE REBUILD - Delete and regenerate the unsent tail of a year
// =============================================================================

// rebuildOutcome is the in-memory result of a schedule rebuild. Nothing is
// persisted until the engine commits it together with the aggregation pass.
type rebuildOutcome struct {
	// deletes identifies the previously stored unsent paychecks to remove
	// (their cost lines go with them).
	deletes []PaycheckRef

	// created are the regenerated unsent paychecks, ordered by index.
	created []*Paycheck

	// kept are surviving unsent paychecks when the final period is already
	// sent: the date schedule is frozen, so they are repriced in place
	// instead of being regenerated. Empty whenever created is non-empty.
	kept []*Paycheck

	// sent are the finalized paychecks, untouched and in their loaded state.
	sent []*Paycheck
}

// processing returns the unsent paychecks of the year as they exist after the
// rebuild: the regenerated ones, or the surviving ones when the schedule
// could not be regenerated.
func (r *rebuildOutcome) processing() []*Paycheck {
	if len(r.created) > 0 {
		return r.created
	}
	return r.kept
}

// fullYear returns every paycheck of the year as it will exist after commit.
func (r *rebuildOutcome) fullYear() []*Paycheck {
	all := make([]*Paycheck, 0, len(r.sent)+len(r.created)+len(r.kept))
	all = append(all, r.sent...)
	all = append(all, r.created...)
	all = append(all, r.kept...)
	return all
}

// rebuildSchedule partitions the existing paychecks into sent and unsent,
// drops the unsent ones, and regenerates every index above the last sent one
// by splitting the employee's annual gross pay into equal periods. The
// per-paycheck rounding delta is recorded as the gross-pay residual.
func (e *Engine) rebuildSchedule(emp *Employee, year int, existing []*Paycheck) *rebuildOutcome {
	out := &rebuildOutcome{}

	lastSentIndex := 0
	var unsent []*Paycheck
	for _, p := range existing {
		if p.Sent() {
			out.sent = append(out.sent, p)
			if p.Index > lastSentIndex {
				lastSentIndex = p.Index
			}
		} else {
			unsent = append(unsent, p)
		}
	}

	// Last paycheck already sent: the schedule is frozen. Survivors are
	// repriced where they stand instead of being regenerated.
	if lastSentIndex == e.cfg.PeriodsPerYear {
		out.kept = unsent
		return out
	}

	for _, p := range unsent {
		out.deletes = append(out.deletes, PaycheckRef{ID: p.ID, Version: p.Version})
	}

	periods := decimal64(e.cfg.PeriodsPerYear)
	periodAmount := emp.AnnualPay(e.cfg).DivRound(periods, residualScale)
	gross := roundCents(periodAmount)
	residual := periodAmount.Sub(gross)

	for _, period := range e.cfg.Periods(year) {
		if period.Index <= lastSentIndex {
			continue
		}
		out.created = append(out.created, &Paycheck{
			EmployeeID:          emp.ID,
			Year:                year,
			Index:               period.Index,
			StartDate:           period.Start,
			EndDate:             period.End,
			GrossAmount:         gross,
			ResidualGrossAmount: residual,
			NetAmount:           gross,
		})
	}
	return out
}
