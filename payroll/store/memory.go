// Package store provides in-memory implementations of the payroll
// persistence interfaces, for testing and development.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// MEMORY STORE - payroll.Store + payroll.BenefitCatalog (for testing/dev)
// =============================================================================

type Memory struct {
	mu sync.RWMutex

	employees map[int64]*payroll.Employee
	paychecks map[int64]*payroll.Paycheck
	benefits  []payroll.Benefit

	nextEmployeeID  int64
	nextDependentID int64
	nextPaycheckID  int64
	nextCostID      int64
	nextBenefitID   int64
}

var (
	_ payroll.Store          = (*Memory)(nil)
	_ payroll.BenefitCatalog = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{
		employees: make(map[int64]*payroll.Employee),
		paychecks: make(map[int64]*payroll.Paycheck),
	}
}

// AddEmployee stores an employee and assigns ids. Returns the employee id.
func (m *Memory) AddEmployee(emp payroll.Employee) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextEmployeeID++
	emp.ID = m.nextEmployeeID
	for i := range emp.Dependents {
		m.nextDependentID++
		emp.Dependents[i].ID = m.nextDependentID
		emp.Dependents[i].EmployeeID = emp.ID
	}
	m.employees[emp.ID] = &emp
	return emp.ID
}

// UpdateEmployee overwrites a stored employee in place. Test helper for
// simulating pay parameter changes between processing runs.
func (m *Memory) UpdateEmployee(emp payroll.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.employees[emp.ID] = &emp
}

// AddBenefit stores a catalog entry and assigns it an id.
func (m *Memory) AddBenefit(b payroll.Benefit) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextBenefitID++
	b.ID = m.nextBenefitID
	m.benefits = append(m.benefits, b)
	return b.ID
}

func (m *Memory) FindEmployee(_ context.Context, id int64) (*payroll.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	emp, ok := m.employees[id]
	if !ok {
		return nil, nil
	}
	cp := *emp
	cp.Dependents = append([]payroll.Dependent{}, emp.Dependents...)
	return &cp, nil
}

func (m *Memory) PaychecksForYear(_ context.Context, employeeID int64, year int) ([]*payroll.Paycheck, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*payroll.Paycheck
	for _, p := range m.paychecks {
		if p.EmployeeID == employeeID && p.Year == year {
			result = append(result, p.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Index < result[j].Index })
	return result, nil
}

func (m *Memory) PaycheckYears(_ context.Context, employeeID int64) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[int]bool)
	for _, p := range m.paychecks {
		if p.EmployeeID == employeeID {
			seen[p.Year] = true
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

// Commit validates the whole changeset against current state before touching
// anything, simulating the all-or-nothing transaction of a real database.
func (m *Memory) Commit(_ context.Context, cs *payroll.Changeset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Validate phase: any stale reference fails the whole changeset.
	for _, ref := range cs.Deletes {
		stored, ok := m.paychecks[ref.ID]
		if !ok || stored.Sent() || stored.Version != ref.Version {
			return payroll.ErrConcurrentModification
		}
	}
	for _, p := range cs.Updates {
		stored, ok := m.paychecks[p.ID]
		if !ok || stored.Sent() || stored.Version != p.Version {
			return payroll.ErrConcurrentModification
		}
	}

	// Apply phase.
	for _, ref := range cs.Deletes {
		delete(m.paychecks, ref.ID)
	}
	for _, p := range cs.Inserts {
		m.nextPaycheckID++
		cp := p.Clone()
		cp.ID = m.nextPaycheckID
		cp.Version = 1
		for i := range cp.Costs {
			m.nextCostID++
			cp.Costs[i].ID = m.nextCostID
			cp.Costs[i].PaycheckID = cp.ID
		}
		m.paychecks[cp.ID] = cp
		p.ID = cp.ID
	}
	for _, p := range cs.Updates {
		cp := p.Clone()
		cp.Version = p.Version + 1
		for i := range cp.Costs {
			if cp.Costs[i].ID == 0 {
				m.nextCostID++
				cp.Costs[i].ID = m.nextCostID
			}
			cp.Costs[i].PaycheckID = cp.ID
		}
		m.paychecks[cp.ID] = cp
	}
	return nil
}

func (m *Memory) MarkPaycheckSent(_ context.Context, paycheckID int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.paychecks[paycheckID]
	if !ok {
		return payroll.ErrPaycheckNotFound
	}
	if p.Sent() {
		return payroll.ErrPaycheckAlreadySent
	}
	sent := at
	p.SentDate = &sent
	p.Version++
	return nil
}

// =============================================================================
// BENEFIT CATALOG
// =============================================================================

func (m *Memory) ActiveEmployeeBenefits(_ context.Context) ([]payroll.Benefit, error) {
	return m.activeBenefits(payroll.BenefitForEmployee), nil
}

func (m *Memory) ActiveDependentBenefits(_ context.Context) ([]payroll.Benefit, error) {
	return m.activeBenefits(payroll.BenefitForDependent), nil
}

func (m *Memory) activeBenefits(kind payroll.BenefitKind) []payroll.Benefit {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []payroll.Benefit
	for _, b := range m.benefits {
		if b.Enabled && b.Kind == kind {
			cp := b
			cp.Discounts = append([]payroll.Discount{}, b.Discounts...)
			result = append(result, cp)
		}
	}
	return result
}
