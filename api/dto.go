/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY:
  Amounts are serialized as strings with two decimals ("1000.00") and rates
  as decimal strings, so no client ever sees a float rounding artifact.

DATES:
  All dates are "YYYY-MM-DD".

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/rates.go: ConfigJSON type served at /api/rates
*/
package api

import (
	"time"

	"github.com/warp/commission-engine/commission"
	"github.com/warp/commission-engine/report"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ScheduleRequest computes a schedule for an ad-hoc investment.
type ScheduleRequest struct {
	InvestmentID     string `json:"investment_id"`
	InvestorID       string `json:"investor_id"`
	Principal        string `json:"principal"`
	StartDate        string `json:"start_date"`
	CommitmentMonths int    `json:"commitment_months"`
	Liquidity        string `json:"liquidity"`
	AdvisorID        string `json:"advisor_id,omitempty"`
	AdvisorRole      string `json:"advisor_role,omitempty"`
	OfficeID         string `json:"office_id,omitempty"`
	HasOffice        bool   `json:"has_office"`
}

// CreateInvestmentRequest stores an investment. The id is generated when
// omitted.
type CreateInvestmentRequest struct {
	ID               string `json:"id,omitempty"`
	InvestorID       string `json:"investor_id"`
	Principal        string `json:"principal"`
	StartDate        string `json:"start_date"`
	CommitmentMonths int    `json:"commitment_months"`
	Liquidity        string `json:"liquidity"`
	AdvisorID        string `json:"advisor_id,omitempty"`
	OfficeID         string `json:"office_id,omitempty"`
}

// CreatePartyRequest stores an investor, advisor or office.
type CreatePartyRequest struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	AdvisorRole string `json:"advisor_role,omitempty"`
	OfficeID    string `json:"office_id,omitempty"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ScheduleEntryDTO is one monthly payment line.
type ScheduleEntryDTO struct {
	Index              int    `json:"index"`
	DueDate            string `json:"due_date"`
	Office             string `json:"office"`
	Advisor            string `json:"advisor"`
	Investor           string `json:"investor"`
	Total              string `json:"total"`
	IsProRata          bool   `json:"is_pro_rata"`
	InvestorProRata    bool   `json:"investor_pro_rata"`
	InvestorCompounded bool   `json:"investor_compounded"`
}

// RatesDTO are the monthly percents applied to one investment.
type RatesDTO struct {
	CommitmentMonths int    `json:"commitment_months"`
	Liquidity        string `json:"liquidity"`
	CycleMonths      int    `json:"cycle_months"`
	Investor         string `json:"investor"`
	Advisor          string `json:"advisor"`
	Office           string `json:"office"`
}

// LegTotalsDTO sums each leg over a schedule.
type LegTotalsDTO struct {
	Office   string `json:"office"`
	Advisor  string `json:"advisor"`
	Investor string `json:"investor"`
	Total    string `json:"total"`
}

// ScheduleDTO is a full commission schedule.
type ScheduleDTO struct {
	InvestmentID  string             `json:"investment_id"`
	InvestorID    string             `json:"investor_id,omitempty"`
	AdvisorID     string             `json:"advisor_id,omitempty"`
	OfficeID      string             `json:"office_id,omitempty"`
	Principal     string             `json:"principal"`
	StartDate     string             `json:"start_date"`
	EndDate       string             `json:"end_date"`
	InvestorStart string             `json:"investor_start"`
	Rates         RatesDTO           `json:"rates"`
	Totals        LegTotalsDTO       `json:"totals"`
	Entries       []ScheduleEntryDTO `json:"entries"`
}

// InvestmentDTO represents a stored investment.
type InvestmentDTO struct {
	ID               string    `json:"id"`
	InvestorID       string    `json:"investor_id"`
	Principal        string    `json:"principal"`
	StartDate        string    `json:"start_date"`
	CommitmentMonths int       `json:"commitment_months"`
	Liquidity        string    `json:"liquidity"`
	AdvisorID        string    `json:"advisor_id,omitempty"`
	OfficeID         string    `json:"office_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// PartyDTO represents a stored party.
type PartyDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	AdvisorRole string    `json:"advisor_role,omitempty"`
	OfficeID    string    `json:"office_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// PartyTotalDTO aggregates one party's leg.
type PartyTotalDTO struct {
	PartyID     string `json:"party_id"`
	Kind        string `json:"kind"`
	Investments int    `json:"investments"`
	Elapsed     string `json:"elapsed"`
	Due         string `json:"due"`
	Scheduled   string `json:"scheduled"`
	Outstanding string `json:"outstanding"`
	Total       string `json:"total"`
}

// DueDateTotalDTO aggregates all legs on one due date.
type DueDateTotalDTO struct {
	DueDate  string `json:"due_date"`
	Status   string `json:"status"`
	Office   string `json:"office"`
	Advisor  string `json:"advisor"`
	Investor string `json:"investor"`
	Total    string `json:"total"`
}

// SkippedDTO is an investment left out of a report.
type SkippedDTO struct {
	InvestmentID string `json:"investment_id"`
	Code         string `json:"code"`
	Error        string `json:"error"`
}

// ReportResponse is the commission report.
type ReportResponse struct {
	AsOf        string            `json:"as_of"`
	Investments int               `json:"investments"`
	Parties     []PartyTotalDTO   `json:"parties"`
	DueDates    []DueDateTotalDTO `json:"due_dates"`
	Skipped     []SkippedDTO      `json:"skipped"`
}

// NextPaymentDateResponse is the next cutoff on or after today.
type NextPaymentDateResponse struct {
	Today           string `json:"today"`
	NextPaymentDate string `json:"next_payment_date"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toScheduleDTO(s *commission.CommissionSchedule) ScheduleDTO {
	totals := s.Totals()
	dto := ScheduleDTO{
		InvestmentID:  string(s.InvestmentID),
		InvestorID:    string(s.InvestorID),
		AdvisorID:     string(s.AdvisorID),
		OfficeID:      string(s.OfficeID),
		Principal:     s.Principal.String(),
		StartDate:     s.Period.Start.String(),
		EndDate:       s.Period.End.String(),
		InvestorStart: s.InvestorStart.String(),
		Rates: RatesDTO{
			CommitmentMonths: s.Rates.CommitmentMonths,
			Liquidity:        string(s.Rates.Liquidity),
			CycleMonths:      s.Rates.CycleMonths,
			Investor:         s.Rates.Investor.String(),
			Advisor:          s.Rates.Advisor.String(),
			Office:           s.Rates.Office.String(),
		},
		Totals: LegTotalsDTO{
			Office:   totals.Office.String(),
			Advisor:  totals.Advisor.String(),
			Investor: totals.Investor.String(),
			Total:    totals.Total().String(),
		},
		Entries: make([]ScheduleEntryDTO, 0, len(s.Entries)),
	}
	for _, e := range s.Entries {
		dto.Entries = append(dto.Entries, ScheduleEntryDTO{
			Index:              e.Index,
			DueDate:            e.DueDate.String(),
			Office:             e.Office.String(),
			Advisor:            e.Advisor.String(),
			Investor:           e.Investor.String(),
			Total:              e.Total().String(),
			IsProRata:          e.IsProRata,
			InvestorProRata:    e.InvestorProRata,
			InvestorCompounded: e.InvestorCompounded,
		})
	}
	return dto
}

func toInvestmentDTO(inv commission.InvestmentRecord) InvestmentDTO {
	return InvestmentDTO{
		ID:               string(inv.ID),
		InvestorID:       string(inv.InvestorID),
		Principal:        inv.Principal.String(),
		StartDate:        inv.StartDate.String(),
		CommitmentMonths: inv.CommitmentMonths,
		Liquidity:        inv.Liquidity,
		AdvisorID:        string(inv.AdvisorID),
		OfficeID:         string(inv.OfficeID),
		CreatedAt:        inv.CreatedAt,
	}
}

func toPartyDTO(p commission.Party) PartyDTO {
	return PartyDTO{
		ID:          string(p.ID),
		Name:        p.Name,
		Role:        string(p.Role),
		AdvisorRole: string(p.AdvisorRole),
		OfficeID:    string(p.OfficeID),
		CreatedAt:   p.CreatedAt,
	}
}

func toReportResponse(r *report.Report) ReportResponse {
	resp := ReportResponse{
		AsOf:        r.AsOf.String(),
		Investments: len(r.Schedules),
		Parties:     make([]PartyTotalDTO, 0, len(r.Parties)),
		DueDates:    make([]DueDateTotalDTO, 0, len(r.DueDates)),
		Skipped:     make([]SkippedDTO, 0, len(r.Skipped)),
	}
	for _, p := range r.Parties {
		resp.Parties = append(resp.Parties, PartyTotalDTO{
			PartyID:     string(p.PartyID),
			Kind:        string(p.Kind),
			Investments: p.Investments,
			Elapsed:     p.Elapsed.String(),
			Due:         p.Due.String(),
			Scheduled:   p.Scheduled.String(),
			Outstanding: p.Outstanding().String(),
			Total:       p.Total().String(),
		})
	}
	for _, d := range r.DueDates {
		resp.DueDates = append(resp.DueDates, DueDateTotalDTO{
			DueDate:  d.DueDate.String(),
			Status:   string(d.Status),
			Office:   d.Office.String(),
			Advisor:  d.Advisor.String(),
			Investor: d.Investor.String(),
			Total:    d.Total().String(),
		})
	}
	for _, s := range r.Skipped {
		resp.Skipped = append(resp.Skipped, SkippedDTO{
			InvestmentID: string(s.InvestmentID),
			Code:         s.Code,
			Error:        s.Err.Error(),
		})
	}
	return resp
}
