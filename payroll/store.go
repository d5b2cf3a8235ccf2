/*
store.go - Persistence interfaces consumed by the engine

PURPOSE:
  Defines the boundary between the computation engine and whatever stores
  the records. The engine loads an employee and a year's paychecks, computes
  entirely in memory, and commits one Changeset. Implementations decide how
  to make that changeset atomic.

COMMIT CONTRACT:
  Commit applies every delete, insert, and update as one unit - all or
  nothing. Deletes and updates name the paycheck version observed at load
  time; if the stored row has a different version, was sent in the meantime,
  or no longer exists, Commit fails with ErrConcurrentModification and
  nothing is applied. The engine does not retry: the caller must re-fetch
  and decide.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite store (also a BenefitCatalog)
  - payroll/store: In-memory store for tests

SEE ALSO:
  - engine.go: The only consumer of these interfaces
*/
package payroll

import (
	"context"
	"time"
)

// =============================================================================
// STORE - Employee and paycheck persistence
// =============================================================================

// Store provides read access to pay parameters and schedules, and the atomic
// commit for computed results.
type Store interface {
	// FindEmployee returns the employee with dependents attached, or nil
	// when no such employee exists.
	FindEmployee(ctx context.Context, id int64) (*Employee, error)

	// PaychecksForYear returns the employee's paychecks for a year with
	// their cost lines attached, ordered by index.
	PaychecksForYear(ctx context.Context, employeeID int64, year int) ([]*Paycheck, error)

	// PaycheckYears returns the distinct years the employee has paychecks
	// for, newest first.
	PaycheckYears(ctx context.Context, employeeID int64) ([]int, error)

	// Commit applies the changeset atomically. See the commit contract above.
	Commit(ctx context.Context, cs *Changeset) error

	// MarkPaycheckSent finalizes a paycheck. Fails with
	// ErrPaycheckAlreadySent if it was already finalized, or
	// ErrPaycheckNotFound if it does not exist.
	MarkPaycheckSent(ctx context.Context, paycheckID int64, at time.Time) error
}

// BenefitCatalog supplies the currently active benefit definitions,
// discounts included. Disabled benefits are never returned.
type BenefitCatalog interface {
	ActiveEmployeeBenefits(ctx context.Context) ([]Benefit, error)
	ActiveDependentBenefits(ctx context.Context) ([]Benefit, error)
}

// =============================================================================
// CHANGESET - One atomic unit of schedule mutation
// =============================================================================

// PaycheckRef names a stored paycheck at the version it was loaded.
type PaycheckRef struct {
	ID      int64
	Version int64
}

// Changeset is the full set of pending mutations from one engine operation.
type Changeset struct {
	// Deletes removes unsent paychecks and, through them, their cost lines.
	Deletes []PaycheckRef

	// Inserts creates paychecks with their nested cost lines. IDs are
	// assigned by the store.
	Inserts []*Paycheck

	// Updates rewrites the mutable fields and cost lines of unsent
	// paychecks, version-checked.
	Updates []*Paycheck
}

// Empty reports whether the changeset would do nothing.
func (cs *Changeset) Empty() bool {
	return len(cs.Deletes) == 0 && len(cs.Inserts) == 0 && len(cs.Updates) == 0
}
