/*
aggregate.go - Per-paycheck cost aggregation

PURPOSE:
  For one paycheck, fans the cost calculator out over all active employee
  benefits (billed to the employee) and all active dependent benefits (billed
  once per dependent), sums the rounded line amounts into BenefitsCost, and
  derives NetAmount.

CONCURRENCY:
  Lines are independent: each goroutine computes its own BenefitCost and
  sends it over a channel, so there is no shared mutable state between lines.
  Aggregation replaces any previously existing cost lines for the paycheck -
  a recompute is destructive, not incremental.

SEE ALSO:
  - cost.go: Single line computation
  - engine.go: Fans aggregation out across the paychecks of a year
*/
package payroll

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type lineResult struct {
	line *BenefitCost
	err  error
}

// aggregatePaycheck computes every cost line for p and updates its totals in
// place. The paycheck's previous cost lines are discarded.
func (e *Engine) aggregatePaycheck(p *Paycheck, emp *Employee, employeeBenefits, dependentBenefits []Benefit) error {
	lineCount := len(employeeBenefits) + len(dependentBenefits)*len(emp.Dependents)
	results := make(chan lineResult, lineCount)

	var wg sync.WaitGroup
	for _, b := range employeeBenefits {
		wg.Add(1)
		go func(b Benefit) {
			defer wg.Done()
			line, err := NewBenefitCost(e.cfg, b, emp, p)
			results <- lineResult{line: line, err: err}
		}(b)
	}
	for _, b := range dependentBenefits {
		for i := range emp.Dependents {
			wg.Add(1)
			go func(b Benefit, dep *Dependent) {
				defer wg.Done()
				line, err := NewBenefitCost(e.cfg, b, dep, p)
				results <- lineResult{line: line, err: err}
			}(b, &emp.Dependents[i])
		}
	}
	wg.Wait()
	close(results)

	lines := make([]BenefitCost, 0, lineCount)
	for r := range results {
		if r.err != nil {
			return r.err
		}
		lines = append(lines, *r.line)
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Amount)
	}

	now := time.Now().UTC()
	p.Costs = lines
	p.BenefitsCost = &total
	p.BenefitsCostCalculationDate = &now
	p.refreshNet()
	return nil
}
