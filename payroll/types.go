/*
Package payroll provides the core paycheck computation engine.

PURPOSE:
  This package contains the types and algorithms for splitting an employee's
  annual gross pay into a fixed schedule of paychecks, pricing benefit
  enrollments per paycheck (with optional discounts), and reconciling the
  fractional cents lost to rounding so that a year's paychecks always sum
  exactly to the theoretical annual totals.

KEY CONCEPTS IN THIS FILE (types.go):
  - Config: Periods-per-year and default pay, threaded explicitly (no globals)
  - Person / Employee / Dependent: Beneficiaries of benefit cost lines
  - Beneficiary: The capability shared by employees and dependents

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Residual bookkeeping: Every rounded value records the fraction it dropped
  3. Sent paychecks are immutable: never deleted, recreated, or recalculated
  4. I/O at the edges: stores load and commit; computation is pure in between

USAGE:
  engine := payroll.NewEngine(store, catalog, payroll.DefaultConfig(), logger)
  err := engine.ProcessPaychecks(ctx, employeeID, 2026)

SEE ALSO:
  - engine.go: ProcessPaychecks / DeletePaychecks orchestration
  - schedule.go: Year schedule rebuild
  - cost.go: Per-line benefit cost computation
  - residual.go: Year-end residual redistribution
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CONFIG - Explicit knobs for the schedule, no compiled-in globals
// =============================================================================

// Config carries the pay schedule parameters. Pass it to NewEngine; tests use
// alternate period counts without touching package state.
type Config struct {
	// PeriodsPerYear is the number of paychecks per calendar year.
	PeriodsPerYear int

	// DefaultPaycheckAmount is the per-period gross used when an employee has
	// no AnnualGrossPay override.
	DefaultPaycheckAmount decimal.Decimal
}

// DefaultConfig returns the standard bi-weekly schedule: 26 paychecks of 2000.
func DefaultConfig() Config {
	return Config{
		PeriodsPerYear:        26,
		DefaultPaycheckAmount: decimal.NewFromInt(2000),
	}
}

// DefaultAnnualGrossPay is the annual gross for employees without an override.
func (c Config) DefaultAnnualGrossPay() decimal.Decimal {
	return c.DefaultPaycheckAmount.Mul(decimal.NewFromInt(int64(c.PeriodsPerYear)))
}

// residualScale is the fractional precision used for residual bookkeeping.
// Per-period divisions are carried at this scale before rounding to cents.
const residualScale = 24

// roundCents rounds to whole cents using banker's rounding, so half-cent
// values don't bias the annual totals upward.
func roundCents(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

func decimal64(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

// MustParseDecimal parses s, returning zero on malformed input.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// BENEFICIARIES - Employees and their dependents
// =============================================================================

type BeneficiaryKind string

const (
	BeneficiaryEmployee  BeneficiaryKind = "employee"
	BeneficiaryDependent BeneficiaryKind = "dependent"
)

// Beneficiary is anyone a benefit cost line can be billed for.
type Beneficiary interface {
	BeneficiaryID() int64
	BeneficiaryKind() BeneficiaryKind
	BeneficiaryFirstName() string
}

// Person holds the naming fields shared by employees and dependents.
type Person struct {
	ID        int64
	FirstName string
	LastName  string
}

// Employee holds pay parameters and the dependent roster.
type Employee struct {
	Person

	StartDate time.Time
	EndDate   *time.Time

	// AnnualGrossPay overrides the configured default when set.
	AnnualGrossPay *decimal.Decimal

	Dependents []Dependent
}

// AnnualPay returns the employee's annual gross, falling back to the default.
func (e *Employee) AnnualPay(cfg Config) decimal.Decimal {
	if e.AnnualGrossPay != nil {
		return *e.AnnualGrossPay
	}
	return cfg.DefaultAnnualGrossPay()
}

func (e *Employee) BeneficiaryID() int64             { return e.ID }
func (e *Employee) BeneficiaryKind() BeneficiaryKind { return BeneficiaryEmployee }
func (e *Employee) BeneficiaryFirstName() string     { return e.FirstName }

// Relationship describes how a dependent relates to the employee.
type Relationship string

const (
	RelationshipSpouse          Relationship = "spouse"
	RelationshipChild           Relationship = "child"
	RelationshipDomesticPartner Relationship = "domestic_partner"
)

// Valid reports whether r is one of the declared relationships.
func (r Relationship) Valid() bool {
	switch r {
	case RelationshipSpouse, RelationshipChild, RelationshipDomesticPartner:
		return true
	}
	return false
}

// Dependent is a member of an employee's household eligible for
// dependent-scoped benefits.
type Dependent struct {
	Person

	EmployeeID   int64
	Relationship Relationship
}

func (d *Dependent) BeneficiaryID() int64             { return d.ID }
func (d *Dependent) BeneficiaryKind() BeneficiaryKind { return BeneficiaryDependent }
func (d *Dependent) BeneficiaryFirstName() string     { return d.FirstName }
