/*
cost.go - Benefit cost calculator

PURPOSE:
  Computes a single cost line: the per-period share of a benefit's annual
  cost for one beneficiary on one paycheck, with applicable discounts
  multiplied in and the rounding residual recorded.

CALCULATION:
  1. amountBeforeDiscounts = annualCost / periodsPerYear (24-digit precision)
  2. amount = amountBeforeDiscounts, then *= (1 - percent) per applicable rule
  3. residual = amount (pre-round), amount = roundCents(amount),
     residual -= amount

  The result is always non-negative and never exceeds amountBeforeDiscounts
  when the inputs are within their declared ranges.

DEFENSIVE CHECKS:
  Catalog records are validated upstream (benefit.go), but given the
  financial nature of the data the calculator re-checks the ranges it
  depends on and fails rather than producing a wrong price.

SEE ALSO:
  - aggregate.go: Fans this out over benefits x beneficiaries
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// NewBenefitCost computes the cost line for benefit b billed to who on
// paycheck p. It is the only constructor for BenefitCost values.
func NewBenefitCost(cfg Config, b Benefit, who Beneficiary, p *Paycheck) (*BenefitCost, error) {
	if b.AnnualCost.IsNegative() {
		return nil, &BenefitError{BenefitID: b.ID, Reason: "annual cost must be non-negative"}
	}

	line := &BenefitCost{
		PaycheckID:           p.ID,
		BenefitID:            b.ID,
		BeneficiaryKind:      who.BeneficiaryKind(),
		BeneficiaryID:        who.BeneficiaryID(),
		BeneficiaryFirstName: who.BeneficiaryFirstName(),
		CreatedAt:            time.Now().UTC(),
	}

	periods := decimal.NewFromInt(int64(cfg.PeriodsPerYear))
	line.AmountBeforeDiscounts = b.AnnualCost.DivRound(periods, residualScale)

	amount := line.AmountBeforeDiscounts
	for _, d := range b.Discounts {
		if d.Percent.IsNegative() || d.Percent.GreaterThan(one) {
			return nil, &DiscountError{DiscountID: d.ID, Reason: "percent must be within [0, 1]"}
		}
		if d.Applies(line) {
			amount = amount.Mul(one.Sub(d.Percent))
		}
	}

	line.Residual = amount
	line.Amount = roundCents(amount)
	line.Residual = line.Residual.Sub(line.Amount)
	return line, nil
}
