/*
Package sqlite provides a SQLite-backed implementation of the payroll
storage interfaces.

PURPOSE:
  Implements payroll.Store and payroll.BenefitCatalog using SQLite. In
  production the same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

KEY TABLES:
  employees:              Pay parameter holders
  dependents:             Household members eligible for dependent benefits
  benefits:               Catalog entries (employee- and dependent-scoped)
  benefit_discounts:      Discount rules attached to benefits
  paychecks:              One row per (employee, year, index)
  paycheck_benefit_costs: Computed cost lines, cascade-deleted with paychecks

DECIMALS:
  Money and residual columns are stored as TEXT and parsed with
  shopspring/decimal. SQLite REAL would reintroduce exactly the float drift
  the engine exists to prevent.

CONCURRENCY:
  Paycheck rows carry a version counter. Commit deletes and updates are
  version-checked inside one transaction; a mismatch (or a row that was sent
  or removed since load) rolls everything back with
  payroll.ErrConcurrentModification. A sync.RWMutex serializes access within
  the process; WAL mode keeps readers unblocked.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper migration
  tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - payroll/store.go: Interface definitions and the commit contract
  - payroll/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
)

// Store implements the payroll storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ payroll.Store          = (*Store)(nil)
	_ payroll.BenefitCatalog = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT,
		start_date TEXT NOT NULL,
		end_date TEXT,
		annual_gross_pay TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS dependents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		first_name TEXT NOT NULL,
		last_name TEXT,
		relationship TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_dependents_employee
		ON dependents(employee_id);

	CREATE TABLE IF NOT EXISTS benefits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		annual_cost TEXT NOT NULL,
		description TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_benefits_kind_enabled
		ON benefits(kind, enabled);

	CREATE TABLE IF NOT EXISTS benefit_discounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		benefit_id INTEGER NOT NULL REFERENCES benefits(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		percent TEXT NOT NULL,
		name_starts_with TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_discounts_benefit
		ON benefit_discounts(benefit_id);

	CREATE TABLE IF NOT EXISTS paychecks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id INTEGER NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		year INTEGER NOT NULL,
		period_index INTEGER NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		gross_amount TEXT NOT NULL,
		residual_gross_amount TEXT NOT NULL,
		benefits_cost TEXT,
		net_amount TEXT NOT NULL,
		benefits_cost_calculated_at TEXT,
		sent_at TEXT,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	-- Exactly one paycheck per (employee, year, index)
	CREATE UNIQUE INDEX IF NOT EXISTS idx_paychecks_unique
		ON paychecks(employee_id, year, period_index);

	CREATE TABLE IF NOT EXISTS paycheck_benefit_costs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		paycheck_id INTEGER NOT NULL REFERENCES paychecks(id) ON DELETE CASCADE,
		benefit_id INTEGER NOT NULL,
		beneficiary_kind TEXT NOT NULL,
		beneficiary_id INTEGER NOT NULL,
		beneficiary_first_name TEXT NOT NULL,
		amount_before_discounts TEXT NOT NULL,
		amount TEXT NOT NULL,
		residual TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_costs_paycheck
		ON paycheck_benefit_costs(paycheck_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEE READS (payroll.Store)
// =============================================================================

// FindEmployee loads an employee with dependents attached, or nil when absent.
func (s *Store) FindEmployee(ctx context.Context, id int64) (*payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		emp            payroll.Employee
		lastName       sql.NullString
		startDate      string
		endDate        sql.NullString
		annualGrossPay sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, first_name, last_name, start_date, end_date, annual_gross_pay FROM employees WHERE id = ?",
		id,
	).Scan(&emp.ID, &emp.FirstName, &lastName, &startDate, &endDate, &annualGrossPay)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load employee %d: %w", id, err)
	}

	emp.LastName = lastName.String
	emp.StartDate, _ = time.Parse(time.RFC3339, startDate)
	if endDate.Valid {
		t, _ := time.Parse(time.RFC3339, endDate.String)
		emp.EndDate = &t
	}
	if annualGrossPay.Valid {
		d := payroll.MustParseDecimal(annualGrossPay.String)
		emp.AnnualGrossPay = &d
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, employee_id, first_name, last_name, relationship FROM dependents WHERE employee_id = ? ORDER BY id",
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			dep     payroll.Dependent
			depLast sql.NullString
		)
		if err := rows.Scan(&dep.ID, &dep.EmployeeID, &dep.FirstName, &depLast, &dep.Relationship); err != nil {
			return nil, err
		}
		dep.LastName = depLast.String
		emp.Dependents = append(emp.Dependents, dep)
	}
	return &emp, rows.Err()
}

// =============================================================================
// PAYCHECK READS (payroll.Store)
// =============================================================================

const paycheckColumns = `id, employee_id, year, period_index, start_date, end_date,
	gross_amount, residual_gross_amount, benefits_cost, net_amount,
	benefits_cost_calculated_at, sent_at, version`

// PaychecksForYear returns the year's paychecks with cost lines attached,
// ordered by index.
func (s *Store) PaychecksForYear(ctx context.Context, employeeID int64, year int) ([]*payroll.Paycheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+paycheckColumns+" FROM paychecks WHERE employee_id = ? AND year = ? ORDER BY period_index ASC",
		employeeID, year,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paychecks []*payroll.Paycheck
	byID := make(map[int64]*payroll.Paycheck)
	for rows.Next() {
		p, err := scanPaycheck(rows)
		if err != nil {
			return nil, err
		}
		paychecks = append(paychecks, p)
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(paychecks) == 0 {
		return nil, nil
	}

	costRows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.paycheck_id, c.benefit_id, c.beneficiary_kind, c.beneficiary_id,
		       c.beneficiary_first_name, c.amount_before_discounts, c.amount, c.residual, c.created_at
		FROM paycheck_benefit_costs c
		JOIN paychecks p ON p.id = c.paycheck_id
		WHERE p.employee_id = ? AND p.year = ?
		ORDER BY c.id ASC`,
		employeeID, year,
	)
	if err != nil {
		return nil, err
	}
	defer costRows.Close()

	for costRows.Next() {
		var (
			line                           payroll.BenefitCost
			before, amount, res, createdAt string
		)
		if err := costRows.Scan(&line.ID, &line.PaycheckID, &line.BenefitID, &line.BeneficiaryKind,
			&line.BeneficiaryID, &line.BeneficiaryFirstName, &before, &amount, &res, &createdAt); err != nil {
			return nil, err
		}
		line.AmountBeforeDiscounts = payroll.MustParseDecimal(before)
		line.Amount = payroll.MustParseDecimal(amount)
		line.Residual = payroll.MustParseDecimal(res)
		line.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		if p, ok := byID[line.PaycheckID]; ok {
			p.Costs = append(p.Costs, line)
		}
	}
	return paychecks, costRows.Err()
}

func scanPaycheck(rows *sql.Rows) (*payroll.Paycheck, error) {
	var (
		p                    payroll.Paycheck
		startDate, endDate   string
		gross, residual, net string
		benefitsCost         sql.NullString
		calculatedAt, sentAt sql.NullString
	)
	err := rows.Scan(&p.ID, &p.EmployeeID, &p.Year, &p.Index, &startDate, &endDate,
		&gross, &residual, &benefitsCost, &net, &calculatedAt, &sentAt, &p.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to scan paycheck: %w", err)
	}

	p.StartDate, _ = time.Parse(time.RFC3339, startDate)
	p.EndDate, _ = time.Parse(time.RFC3339, endDate)
	p.GrossAmount = payroll.MustParseDecimal(gross)
	p.ResidualGrossAmount = payroll.MustParseDecimal(residual)
	p.NetAmount = payroll.MustParseDecimal(net)
	if benefitsCost.Valid {
		d := payroll.MustParseDecimal(benefitsCost.String)
		p.BenefitsCost = &d
	}
	if calculatedAt.Valid {
		t, _ := time.Parse(time.RFC3339, calculatedAt.String)
		p.BenefitsCostCalculationDate = &t
	}
	if sentAt.Valid {
		t, _ := time.Parse(time.RFC3339, sentAt.String)
		p.SentDate = &t
	}
	return &p, nil
}

// PaycheckYears returns the distinct years with paychecks, newest first.
func (s *Store) PaycheckYears(ctx context.Context, employeeID int64) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT year FROM paychecks WHERE employee_id = ? ORDER BY year DESC",
		employeeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

// =============================================================================
// COMMIT (payroll.Store) - One transaction, version-checked
// =============================================================================

// Commit applies the changeset in one transaction. Any stale delete or update
// target rolls the whole changeset back with ErrConcurrentModification.
func (s *Store) Commit(ctx context.Context, cs *payroll.Changeset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, ref := range cs.Deletes {
		res, err := tx.ExecContext(ctx,
			"DELETE FROM paychecks WHERE id = ? AND version = ? AND sent_at IS NULL",
			ref.ID, ref.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to delete paycheck %d: %w", ref.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return payroll.ErrConcurrentModification
		}
	}

	for _, p := range cs.Inserts {
		if err := insertPaycheck(ctx, tx, p); err != nil {
			return err
		}
	}

	for _, p := range cs.Updates {
		res, err := tx.ExecContext(ctx, `
			UPDATE paychecks SET
				gross_amount = ?, residual_gross_amount = ?, benefits_cost = ?,
				net_amount = ?, benefits_cost_calculated_at = ?, version = version + 1
			WHERE id = ? AND version = ? AND sent_at IS NULL`,
			p.GrossAmount.String(), p.ResidualGrossAmount.String(),
			nullDecimal(p.BenefitsCost), p.NetAmount.String(),
			nullTime(p.BenefitsCostCalculationDate),
			p.ID, p.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to update paycheck %d: %w", p.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return payroll.ErrConcurrentModification
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM paycheck_benefit_costs WHERE paycheck_id = ?", p.ID); err != nil {
			return err
		}
		if err := insertCostLines(ctx, tx, p.ID, p.Costs); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertPaycheck(ctx context.Context, tx *sql.Tx, p *payroll.Paycheck) error {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO paychecks
		(employee_id, year, period_index, start_date, end_date, gross_amount,
		 residual_gross_amount, benefits_cost, net_amount, benefits_cost_calculated_at,
		 sent_at, version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		p.EmployeeID, p.Year, p.Index,
		p.StartDate.UTC().Format(time.RFC3339), p.EndDate.UTC().Format(time.RFC3339),
		p.GrossAmount.String(), p.ResidualGrossAmount.String(),
		nullDecimal(p.BenefitsCost), p.NetAmount.String(),
		nullTime(p.BenefitsCostCalculationDate), nullTime(p.SentDate),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert paycheck %d/%d: %w", p.Year, p.Index, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	p.Version = 1
	return insertCostLines(ctx, tx, id, p.Costs)
}

func insertCostLines(ctx context.Context, tx *sql.Tx, paycheckID int64, lines []payroll.BenefitCost) error {
	for i := range lines {
		line := &lines[i]
		res, err := tx.ExecContext(ctx, `
			INSERT INTO paycheck_benefit_costs
			(paycheck_id, benefit_id, beneficiary_kind, beneficiary_id,
			 beneficiary_first_name, amount_before_discounts, amount, residual, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			paycheckID, line.BenefitID, line.BeneficiaryKind, line.BeneficiaryID,
			line.BeneficiaryFirstName, line.AmountBeforeDiscounts.String(),
			line.Amount.String(), line.Residual.String(),
			line.CreatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to insert cost line: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		line.ID = id
		line.PaycheckID = paycheckID
	}
	return nil
}

// MarkPaycheckSent finalizes a paycheck; it becomes immutable afterwards.
func (s *Store) MarkPaycheckSent(ctx context.Context, paycheckID int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE paychecks SET sent_at = ?, version = version + 1 WHERE id = ? AND sent_at IS NULL",
		at.UTC().Format(time.RFC3339), paycheckID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	var exists int
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM paychecks WHERE id = ?", paycheckID,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return payroll.ErrPaycheckAlreadySent
	}
	return payroll.ErrPaycheckNotFound
}

// =============================================================================
// BENEFIT CATALOG (payroll.BenefitCatalog)
// =============================================================================

// ActiveEmployeeBenefits returns enabled employee-scoped benefits with discounts.
func (s *Store) ActiveEmployeeBenefits(ctx context.Context) ([]payroll.Benefit, error) {
	return s.activeBenefits(ctx, payroll.BenefitForEmployee)
}

// ActiveDependentBenefits returns enabled dependent-scoped benefits with discounts.
func (s *Store) ActiveDependentBenefits(ctx context.Context) ([]payroll.Benefit, error) {
	return s.activeBenefits(ctx, payroll.BenefitForDependent)
}

func (s *Store) activeBenefits(ctx context.Context, kind payroll.BenefitKind) ([]payroll.Benefit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, kind, enabled, annual_cost, description FROM benefits WHERE kind = ? AND enabled = TRUE ORDER BY id",
		kind,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var benefits []payroll.Benefit
	for rows.Next() {
		var (
			b    payroll.Benefit
			cost string
		)
		if err := rows.Scan(&b.ID, &b.Kind, &b.Enabled, &cost, &b.Description); err != nil {
			return nil, err
		}
		b.AnnualCost = payroll.MustParseDecimal(cost)
		benefits = append(benefits, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(benefits) == 0 {
		return nil, nil
	}

	byID := make(map[int64]*payroll.Benefit, len(benefits))
	for i := range benefits {
		byID[benefits[i].ID] = &benefits[i]
	}

	discRows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.benefit_id, d.kind, d.percent, d.name_starts_with
		FROM benefit_discounts d
		JOIN benefits b ON b.id = d.benefit_id
		WHERE b.kind = ? AND b.enabled = TRUE
		ORDER BY d.id ASC`,
		kind,
	)
	if err != nil {
		return nil, err
	}
	defer discRows.Close()

	for discRows.Next() {
		var (
			d         payroll.Discount
			benefitID int64
			percent   string
			prefix    sql.NullString
		)
		if err := discRows.Scan(&d.ID, &benefitID, &d.Kind, &percent, &prefix); err != nil {
			return nil, err
		}
		d.Percent = payroll.MustParseDecimal(percent)
		d.NameStartsWith = prefix.String
		if b, ok := byID[benefitID]; ok {
			b.Discounts = append(b.Discounts, d)
		}
	}
	return benefits, discRows.Err()
}

// =============================================================================
// ADMIN WRITES - Roster and catalog management (seed, tests, API)
// =============================================================================

// SaveEmployee inserts an employee with dependents, assigning ids in place.
func (s *Store) SaveEmployee(ctx context.Context, emp *payroll.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var annual any
	if emp.AnnualGrossPay != nil {
		annual = emp.AnnualGrossPay.String()
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO employees (first_name, last_name, start_date, end_date, annual_gross_pay, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		emp.FirstName, emp.LastName,
		emp.StartDate.UTC().Format(time.RFC3339), nullTime(emp.EndDate),
		annual, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}
	if emp.ID, err = res.LastInsertId(); err != nil {
		return err
	}

	for i := range emp.Dependents {
		dep := &emp.Dependents[i]
		dep.EmployeeID = emp.ID
		res, err := tx.ExecContext(ctx, `
			INSERT INTO dependents (employee_id, first_name, last_name, relationship, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			dep.EmployeeID, dep.FirstName, dep.LastName, dep.Relationship,
			time.Now().UTC().Format(time.RFC3339),
		)
		if err != nil {
			return err
		}
		if dep.ID, err = res.LastInsertId(); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteEmployee removes an employee. Dependents, paychecks, and cost lines
// go with it via the foreign key cascades, sent paychecks included; roster
// removal is the one operation that outranks sent immutability.
func (s *Store) DeleteEmployee(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete employee %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &payroll.EmployeeNotFoundError{EmployeeID: id}
	}
	return nil
}

// SaveDependent inserts a dependent for an existing employee, assigning its
// id in place. Paychecks are not repriced here; callers reprocess the years
// they care about.
func (s *Store) SaveDependent(ctx context.Context, dep *payroll.Dependent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM employees WHERE id = ?", dep.EmployeeID,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		return &payroll.EmployeeNotFoundError{EmployeeID: dep.EmployeeID}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO dependents (employee_id, first_name, last_name, relationship, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		dep.EmployeeID, dep.FirstName, dep.LastName, dep.Relationship,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert dependent: %w", err)
	}
	dep.ID, err = res.LastInsertId()
	return err
}

// UpdateDependent rewrites a dependent's name and relationship.
func (s *Store) UpdateDependent(ctx context.Context, dep *payroll.Dependent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE dependents SET first_name = ?, last_name = ?, relationship = ? WHERE id = ?",
		dep.FirstName, dep.LastName, dep.Relationship, dep.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update dependent %d: %w", dep.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return payroll.ErrDependentNotFound
	}
	return nil
}

// DeleteDependent removes a dependent. Existing cost lines naming them stay
// as history until their paychecks are reprocessed.
func (s *Store) DeleteDependent(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM dependents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete dependent %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return payroll.ErrDependentNotFound
	}
	return nil
}

// SaveBenefit inserts a catalog entry with its discounts, assigning ids in place.
func (s *Store) SaveBenefit(ctx context.Context, b *payroll.Benefit) error {
	if err := b.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO benefits (kind, enabled, annual_cost, description, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		b.Kind, b.Enabled, b.AnnualCost.String(), b.Description,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}
	if b.ID, err = res.LastInsertId(); err != nil {
		return err
	}

	for i := range b.Discounts {
		d := &b.Discounts[i]
		res, err := tx.ExecContext(ctx, `
			INSERT INTO benefit_discounts (benefit_id, kind, percent, name_starts_with, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			b.ID, d.Kind, d.Percent.String(), d.NameStartsWith,
			time.Now().UTC().Format(time.RFC3339),
		)
		if err != nil {
			return err
		}
		if d.ID, err = res.LastInsertId(); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// HasEmployees reports whether any employee exists. The seed loader uses it
// to avoid double-seeding.
func (s *Store) HasEmployees(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM employees").Scan(&count)
	return count > 0, err
}

// Helper functions

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func nullDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}
