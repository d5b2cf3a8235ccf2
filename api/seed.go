/*
seed.go - Demo dataset loader

PURPOSE:
  Loads a small, deterministic dataset for demos and manual testing: one
  employee (John Doe) with three dependents, one employee-scoped benefit,
  and one dependent-scoped benefit, each carrying a first-name-prefix
  discount. The numbers are chosen so the rounding and discount behavior is
  visible in the first response: the employee benefit divides unevenly
  across 26 periods, and two of the three dependents start with a
  non-matching letter.

IDEMPOTENCY:
  Seeding is skipped entirely when any employee already exists, so the
  endpoint is safe to call repeatedly.

SEE ALSO:
  - handlers.go: The /api/seed endpoint
*/
package api

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// SeedDemo loads the demo dataset. Returns false when the database already
// has employees and nothing was written.
func SeedDemo(ctx context.Context, store *sqlite.Store) (bool, error) {
	seeded, err := store.HasEmployees(ctx)
	if err != nil {
		return false, err
	}
	if seeded {
		return false, nil
	}

	employeeBenefit := payroll.Benefit{
		Kind:        payroll.BenefitForEmployee,
		Enabled:     true,
		AnnualCost:  decimal.NewFromInt(1000),
		Description: "Medical benefit for household",
		Discounts: []payroll.Discount{{
			Kind:           payroll.DiscountNameStartsWith,
			NameStartsWith: "A",
			Percent:        payroll.MustParseDecimal("0.01"),
		}},
	}
	if err := store.SaveBenefit(ctx, &employeeBenefit); err != nil {
		return false, err
	}

	dependentBenefit := payroll.Benefit{
		Kind:        payroll.BenefitForDependent,
		Enabled:     true,
		AnnualCost:  decimal.NewFromInt(500),
		Description: "Medical benefit for dependents",
		Discounts: []payroll.Discount{{
			Kind:           payroll.DiscountNameStartsWith,
			NameStartsWith: "A",
			Percent:        payroll.MustParseDecimal("0.1"),
		}},
	}
	if err := store.SaveBenefit(ctx, &dependentBenefit); err != nil {
		return false, err
	}

	employee := payroll.Employee{
		Person: payroll.Person{
			FirstName: "John",
			LastName:  "Doe",
		},
		StartDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Dependents: []payroll.Dependent{
			{
				Person:       payroll.Person{FirstName: "Jane", LastName: "Doe"},
				Relationship: payroll.RelationshipSpouse,
			},
			{
				Person:       payroll.Person{FirstName: "Kevin", LastName: "Doe"},
				Relationship: payroll.RelationshipChild,
			},
			{
				Person:       payroll.Person{FirstName: "Alex", LastName: "Doe"},
				Relationship: payroll.RelationshipChild,
			},
		},
	}
	if err := store.SaveEmployee(ctx, &employee); err != nil {
		return false, err
	}
	return true, nil
}
