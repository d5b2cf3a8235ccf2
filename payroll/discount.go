/*
discount.go - Discount rules and their evaluators

PURPOSE:
  Discounts are a closed tagged variant dispatched by kind through a
  registered evaluator table. This keeps the hierarchy extensible (new kinds
  register an evaluator) without inheritance: the Discount record carries the
  union of variant fields, and only the evaluator for its kind reads them.

EVALUATION CONTRACT:
  An evaluator is a pure predicate over (discount, cost line). All applicable
  discounts multiply together in collection order; there is no priority
  ordering beyond that.

IMPLEMENTED KINDS:
  name_starts_with: Applies when the beneficiary's first name, case-folded,
  starts with the discount's case-folded prefix. An empty first name never
  matches.

SEE ALSO:
  - cost.go: Applies discounts while computing a cost line
*/
package payroll

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DISCOUNT - Tagged variant with a percent multiplier
// =============================================================================

type DiscountKind string

const (
	// DiscountNameStartsWith matches beneficiaries by first-name prefix.
	DiscountNameStartsWith DiscountKind = "name_starts_with"
)

// Discount reduces a cost line by Percent (0..1) when its evaluator applies.
type Discount struct {
	ID      int64
	Kind    DiscountKind
	Percent decimal.Decimal

	// NameStartsWith is read by the name_starts_with evaluator only.
	NameStartsWith string
}

// Validate checks the discount's declared attribute ranges.
func (d *Discount) Validate() error {
	if d.Percent.IsNegative() || d.Percent.GreaterThan(decimal.NewFromInt(1)) {
		return &DiscountError{DiscountID: d.ID, Reason: "percent must be within [0, 1]"}
	}
	if _, ok := evaluators[d.Kind]; !ok {
		return &DiscountError{DiscountID: d.ID, Reason: "unknown discount kind " + string(d.Kind)}
	}
	if d.Kind == DiscountNameStartsWith {
		if n := len(d.NameStartsWith); n < 1 || n > 100 {
			return &DiscountError{DiscountID: d.ID, Reason: "name prefix must be 1-100 characters"}
		}
	}
	return nil
}

// Applies reports whether this discount applies to the given cost line.
// Unknown kinds never apply.
func (d Discount) Applies(line *BenefitCost) bool {
	ev, ok := evaluators[d.Kind]
	if !ok {
		return false
	}
	return ev(d, line)
}

// =============================================================================
// EVALUATOR REGISTRY - One pure predicate per discount kind
// =============================================================================

// DiscountEvaluator decides whether a discount applies to a cost line.
// Evaluators must be pure: no side effects, no ordering dependency.
type DiscountEvaluator func(Discount, *BenefitCost) bool

var evaluators = map[DiscountKind]DiscountEvaluator{}

// RegisterDiscountEvaluator installs the evaluator for a discount kind.
// Later registrations for the same kind replace earlier ones.
func RegisterDiscountEvaluator(kind DiscountKind, ev DiscountEvaluator) {
	evaluators[kind] = ev
}

func init() {
	RegisterDiscountEvaluator(DiscountNameStartsWith, nameStartsWithApplies)
}

func nameStartsWithApplies(d Discount, line *BenefitCost) bool {
	name := line.BeneficiaryFirstName
	if name == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(name), strings.ToLower(d.NameStartsWith))
}
