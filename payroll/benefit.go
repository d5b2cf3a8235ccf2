/*
benefit.go - Benefit catalog entries

PURPOSE:
  A Benefit is a priced, enable-able offering scoped to either employees or
  dependents. Only enabled benefits participate in cost computation, and a
  benefit is treated as immutable once in use (no edit path here).

VALIDATION:
  String attributes are validated with go-playground/validator struct tags;
  decimal ranges are checked explicitly since the validator has no notion of
  decimal.Decimal. Validation happens at the catalog boundary - the hot
  computation path assumes validated records and only keeps cheap range
  checks (see cost.go).

SEE ALSO:
  - discount.go: Discount rules attached to benefits
  - cost.go: Turns a benefit into a per-paycheck cost line
*/
package payroll

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// =============================================================================
// BENEFIT - Priced offering, scoped to employees or dependents
// =============================================================================

// BenefitKind is a closed variant: a benefit applies either once per employee
// or once per dependent of the employee.
type BenefitKind string

const (
	BenefitForEmployee  BenefitKind = "employee"
	BenefitForDependent BenefitKind = "dependent"
)

// Benefit is a catalog entry. AnnualCost is the undiscounted yearly price,
// split evenly across the pay periods.
type Benefit struct {
	ID          int64
	Kind        BenefitKind
	Enabled     bool
	AnnualCost  decimal.Decimal
	Description string `validate:"required,max=100"`
	Discounts   []Discount
}

// Validate checks the benefit's declared attribute ranges, including its
// discounts. Catalog implementations call this before handing records to the
// engine.
func (b *Benefit) Validate() error {
	if err := validate.Struct(b); err != nil {
		return &BenefitError{BenefitID: b.ID, Reason: err.Error()}
	}
	if b.Kind != BenefitForEmployee && b.Kind != BenefitForDependent {
		return &BenefitError{BenefitID: b.ID, Reason: "unknown benefit kind " + string(b.Kind)}
	}
	if b.AnnualCost.IsNegative() {
		return &BenefitError{BenefitID: b.ID, Reason: "annual cost must be non-negative"}
	}
	for i := range b.Discounts {
		if err := b.Discounts[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
