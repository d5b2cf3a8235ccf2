/*
residual.go - Year-end residual redistribution

PURPOSE:
  Every rounded value in the year drops or gains a fraction of a cent. Left
  alone, those fractions drift the annual totals away from the theoretical
  annual gross pay and benefit cost. This pass sums the benefit-cost
  residuals and the gross-pay residuals separately across the WHOLE year
  (sent paychecks included - their residuals were real) and applies each sum,
  rounded to cents, to the last unsent paycheck.

  Concentrating the correction in the final period keeps every other
  paycheck's amounts untouched; spreading fractional cents across periods
  would churn amounts employees have already seen.

BARRIER:
  Runs strictly after all paycheck aggregation has completed, because it
  reads every cost line of the year.

SEE ALSO:
  - aggregate.go: Produces the per-line residuals
  - schedule.go: Produces the per-paycheck gross residuals
*/
package payroll

import "github.com/shopspring/decimal"

// redistribute folds the year's accumulated rounding residuals into the last
// of the just-processed paychecks. No-op when nothing was processed.
//
// grossRebuilt reports whether the gross amounts were regenerated on this
// run. When the schedule survived in place the stored gross amounts already
// carry their correction, so folding the gross residuals again would inflate
// the annual total on every repricing; only the benefit leg moves then.
func (e *Engine) redistribute(yearPaychecks, processed []*Paycheck, grossRebuilt bool) {
	if len(processed) == 0 {
		return
	}
	last := processed[len(processed)-1]

	benefitsResidual := decimal.Zero
	hasLines := false
	for _, p := range yearPaychecks {
		for _, line := range p.Costs {
			hasLines = true
			benefitsResidual = benefitsResidual.Add(line.Residual)
		}
	}
	if hasLines && !benefitsResidual.IsZero() {
		adjusted := roundCents(benefitsResidual)
		cost := decimal.Zero
		if last.BenefitsCost != nil {
			cost = *last.BenefitsCost
		}
		cost = cost.Add(adjusted)
		last.BenefitsCost = &cost
	}

	if grossRebuilt {
		grossResidual := decimal.Zero
		for _, p := range yearPaychecks {
			grossResidual = grossResidual.Add(p.ResidualGrossAmount)
		}
		if !grossResidual.IsZero() {
			last.GrossAmount = last.GrossAmount.Add(roundCents(grossResidual))
		}
	}

	last.refreshNet()
}
