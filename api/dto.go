/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

MONEY:
  All decimal amounts are serialized as strings ("1923.08"), never as JSON
  numbers. Clients parsing them as floats would reintroduce the drift the
  engine eliminates.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - payroll/types.go: The domain model these project
*/
package api

import (
	"time"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID             int64          `json:"id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name,omitempty"`
	StartDate      string         `json:"start_date"`
	EndDate        *string        `json:"end_date,omitempty"`
	AnnualGrossPay *string        `json:"annual_gross_pay,omitempty"`
	Dependents     []DependentDTO `json:"dependents"`
}

// DependentDTO represents a dependent in API responses.
type DependentDTO struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Relationship string `json:"relationship"`
}

// BenefitDTO represents a benefit catalog entry.
type BenefitDTO struct {
	ID          int64         `json:"id"`
	Kind        string        `json:"kind"`
	Enabled     bool          `json:"enabled"`
	AnnualCost  string        `json:"annual_cost"`
	Description string        `json:"description"`
	Discounts   []DiscountDTO `json:"discounts"`
}

// DiscountDTO represents a discount rule on a benefit.
type DiscountDTO struct {
	ID             int64  `json:"id"`
	Kind           string `json:"kind"`
	Percent        string `json:"percent"`
	NameStartsWith string `json:"name_starts_with,omitempty"`
}

// PaycheckDTO represents one paycheck with its cost lines.
type PaycheckDTO struct {
	ID           int64            `json:"id"`
	EmployeeID   int64            `json:"employee_id"`
	Year         int              `json:"year"`
	Index        int              `json:"index"`
	StartDate    string           `json:"start_date"`
	EndDate      string           `json:"end_date"`
	GrossAmount  string           `json:"gross_amount"`
	BenefitsCost *string          `json:"benefits_cost,omitempty"`
	NetAmount    string           `json:"net_amount"`
	CalculatedAt *string          `json:"benefits_cost_calculated_at,omitempty"`
	SentAt       *string          `json:"sent_at,omitempty"`
	Costs        []BenefitCostDTO `json:"costs"`
}

// BenefitCostDTO represents one computed cost line.
type BenefitCostDTO struct {
	ID                    int64  `json:"id"`
	BenefitID             int64  `json:"benefit_id"`
	BeneficiaryKind       string `json:"beneficiary_kind"`
	BeneficiaryID         int64  `json:"beneficiary_id"`
	BeneficiaryFirstName  string `json:"beneficiary_first_name"`
	AmountBeforeDiscounts string `json:"amount_before_discounts"`
	Amount                string `json:"amount"`
}

// DependentRequest is the body for creating or updating a dependent.
type DependentRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Relationship string `json:"relationship"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// DOMAIN -> DTO PROJECTION
// =============================================================================

const dateLayout = "2006-01-02"

func toEmployeeDTO(e *payroll.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:         e.ID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		StartDate:  e.StartDate.Format(dateLayout),
		Dependents: make([]DependentDTO, 0, len(e.Dependents)),
	}
	if e.EndDate != nil {
		s := e.EndDate.Format(dateLayout)
		dto.EndDate = &s
	}
	if e.AnnualGrossPay != nil {
		s := e.AnnualGrossPay.StringFixed(2)
		dto.AnnualGrossPay = &s
	}
	for _, d := range e.Dependents {
		dto.Dependents = append(dto.Dependents, toDependentDTO(d))
	}
	return dto
}

func toDependentDTO(d payroll.Dependent) DependentDTO {
	return DependentDTO{
		ID:           d.ID,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Relationship: string(d.Relationship),
	}
}

func toBenefitDTO(b payroll.Benefit) BenefitDTO {
	dto := BenefitDTO{
		ID:          b.ID,
		Kind:        string(b.Kind),
		Enabled:     b.Enabled,
		AnnualCost:  b.AnnualCost.StringFixed(2),
		Description: b.Description,
		Discounts:   make([]DiscountDTO, 0, len(b.Discounts)),
	}
	for _, d := range b.Discounts {
		dto.Discounts = append(dto.Discounts, DiscountDTO{
			ID:             d.ID,
			Kind:           string(d.Kind),
			Percent:        d.Percent.String(),
			NameStartsWith: d.NameStartsWith,
		})
	}
	return dto
}

func toPaycheckDTO(p *payroll.Paycheck) PaycheckDTO {
	dto := PaycheckDTO{
		ID:          p.ID,
		EmployeeID:  p.EmployeeID,
		Year:        p.Year,
		Index:       p.Index,
		StartDate:   p.StartDate.Format(dateLayout),
		EndDate:     p.EndDate.Format(dateLayout),
		GrossAmount: p.GrossAmount.StringFixed(2),
		NetAmount:   p.NetAmount.StringFixed(2),
		Costs:       make([]BenefitCostDTO, 0, len(p.Costs)),
	}
	if p.BenefitsCost != nil {
		s := p.BenefitsCost.StringFixed(2)
		dto.BenefitsCost = &s
	}
	if p.BenefitsCostCalculationDate != nil {
		s := p.BenefitsCostCalculationDate.Format(time.RFC3339)
		dto.CalculatedAt = &s
	}
	if p.SentDate != nil {
		s := p.SentDate.Format(time.RFC3339)
		dto.SentAt = &s
	}
	for _, c := range p.Costs {
		dto.Costs = append(dto.Costs, BenefitCostDTO{
			ID:                    c.ID,
			BenefitID:             c.BenefitID,
			BeneficiaryKind:       string(c.BeneficiaryKind),
			BeneficiaryID:         c.BeneficiaryID,
			BeneficiaryFirstName:  c.BeneficiaryFirstName,
			AmountBeforeDiscounts: c.AmountBeforeDiscounts.StringFixed(2),
			Amount:                c.Amount.StringFixed(2),
		})
	}
	return dto
}

func toPaycheckDTOs(paychecks []*payroll.Paycheck) []PaycheckDTO {
	dtos := make([]PaycheckDTO, 0, len(paychecks))
	for _, p := range paychecks {
		dtos = append(dtos, toPaycheckDTO(p))
	}
	return dtos
}
