/*
paycheck.go - Paycheck and cost line records

PURPOSE:
  A Paycheck is one pay period for one employee: exactly one exists per
  (employee, year, index) for index 1..periods-per-year. A paycheck with a
  SentDate is finalized: it is never deleted, recreated, or recalculated.

  A BenefitCost is one computed cost line (one benefit, one beneficiary, one
  paycheck). Lines are constructed only by NewBenefitCost (cost.go) and are
  replaced wholesale when a paycheck is recomputed.

RESIDUALS:
  GrossAmount and each line's Amount are rounded to cents. The fraction each
  rounding drops is recorded (ResidualGrossAmount / Residual) at 24 fractional
  digits so the year can be reconciled exactly (see residual.go).

SEE ALSO:
  - schedule.go: Creates paychecks when rebuilding a year
  - aggregate.go: Fills BenefitsCost and NetAmount
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYCHECK - One pay period for one employee
// =============================================================================

type Paycheck struct {
	ID         int64
	EmployeeID int64

	Year  int
	Index int // 1-based within the year

	StartDate time.Time
	EndDate   time.Time

	// GrossAmount is the per-period gross, rounded to cents.
	GrossAmount decimal.Decimal

	// ResidualGrossAmount is the fraction dropped (or gained) when
	// GrossAmount was rounded. High precision, signed.
	ResidualGrossAmount decimal.Decimal

	// BenefitsCost is nil until the paycheck has been aggregated.
	BenefitsCost *decimal.Decimal

	// NetAmount = GrossAmount - BenefitsCost. May go negative: a small gross
	// with many dependent benefit lines is accepted, not clamped.
	NetAmount decimal.Decimal

	BenefitsCostCalculationDate *time.Time

	// SentDate marks the paycheck finalized. Once set the record is immutable.
	SentDate *time.Time

	Costs []BenefitCost

	// Version supports optimistic concurrency at the commit boundary.
	Version int64
}

// Sent reports whether the paycheck has been finalized.
func (p *Paycheck) Sent() bool { return p.SentDate != nil }

// refreshNet recomputes NetAmount from GrossAmount and BenefitsCost.
// Idempotent; a nil BenefitsCost counts as zero.
func (p *Paycheck) refreshNet() {
	cost := decimal.Zero
	if p.BenefitsCost != nil {
		cost = *p.BenefitsCost
	}
	p.NetAmount = p.GrossAmount.Sub(cost)
}

// Clone returns a deep copy, detached from the original's cost line slice.
func (p *Paycheck) Clone() *Paycheck {
	cp := *p
	if p.BenefitsCost != nil {
		v := *p.BenefitsCost
		cp.BenefitsCost = &v
	}
	if p.BenefitsCostCalculationDate != nil {
		v := *p.BenefitsCostCalculationDate
		cp.BenefitsCostCalculationDate = &v
	}
	if p.SentDate != nil {
		v := *p.SentDate
		cp.SentDate = &v
	}
	cp.Costs = make([]BenefitCost, len(p.Costs))
	copy(cp.Costs, p.Costs)
	return &cp
}

// =============================================================================
// BENEFIT COST - One line: one benefit, one beneficiary, one paycheck
// =============================================================================

type BenefitCost struct {
	ID         int64
	PaycheckID int64
	BenefitID  int64

	BeneficiaryKind      BeneficiaryKind
	BeneficiaryID        int64
	BeneficiaryFirstName string

	// AmountBeforeDiscounts is the undiscounted per-period share of the
	// benefit's annual cost, carried at full precision.
	AmountBeforeDiscounts decimal.Decimal

	// Amount is the final discounted price, rounded to cents.
	Amount decimal.Decimal

	// Residual is the pre-round value minus Amount: what rounding dropped
	// (positive) or granted (negative).
	Residual decimal.Decimal

	CreatedAt time.Time
}
