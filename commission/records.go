package commission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/warp/commission-engine/generic"
)

// =============================================================================
// RECORDS - Collaborator data contracts
// =============================================================================

// InvestmentRecord is an investment as persisted by the record source.
type InvestmentRecord struct {
	ID               generic.InvestmentID
	InvestorID       generic.PartyID
	Principal        generic.Amount
	StartDate        generic.TimePoint
	CommitmentMonths int
	Liquidity        string
	AdvisorID        generic.PartyID // empty = no advisor
	OfficeID         generic.PartyID // empty = office of the advisor, if any
	CreatedAt        time.Time
}

// PartyRole is a party's place in the hierarchy.
type PartyRole string

const (
	RoleInvestor PartyRole = "investor"
	RoleAdvisor  PartyRole = "advisor"
	RoleOffice   PartyRole = "office"
)

// Party is an investor, advisor or office. Advisors carry their role and
// may belong to an office.
type Party struct {
	ID          generic.PartyID
	Name        string
	Role        PartyRole
	AdvisorRole AdvisorRole     // advisors only
	OfficeID    generic.PartyID // advisors only: parent office
	CreatedAt   time.Time
}

// RecordSource provides investment and party records. Implementations:
// store/sqlite and store/memory.
type RecordSource interface {
	GetInvestment(ctx context.Context, id generic.InvestmentID) (*InvestmentRecord, error)
	ListInvestments(ctx context.Context) ([]InvestmentRecord, error)
	GetParty(ctx context.Context, id generic.PartyID) (*Party, error)
}

// =============================================================================
// FACT RESOLVER - Records -> InvestmentFact
// =============================================================================

// FactResolver builds InvestmentFacts from a RecordSource and its party
// hierarchy.
type FactResolver struct {
	Source RecordSource
}

func NewFactResolver(source RecordSource) *FactResolver {
	return &FactResolver{Source: source}
}

// Resolve loads an investment by id and resolves it.
func (r *FactResolver) Resolve(ctx context.Context, id generic.InvestmentID) (InvestmentFact, error) {
	inv, err := r.Source.GetInvestment(ctx, id)
	if err != nil {
		return InvestmentFact{}, err
	}
	if inv == nil {
		return InvestmentFact{}, generic.NewNotFoundError(generic.ErrInvestmentNotFound, "investment", string(id))
	}
	return r.FactFor(ctx, *inv)
}

// FactFor resolves the advisor role and office of a record. The office is
// the investment's own office when set, otherwise the advisor's office. An
// investment without an advisor keeps its direct office relationship.
func (r *FactResolver) FactFor(ctx context.Context, inv InvestmentRecord) (InvestmentFact, error) {
	fact := InvestmentFact{
		InvestmentID:     inv.ID,
		InvestorID:       inv.InvestorID,
		Principal:        inv.Principal,
		StartDate:        inv.StartDate,
		CommitmentMonths: inv.CommitmentMonths,
		Liquidity:        inv.Liquidity,
	}

	officeID := inv.OfficeID
	if inv.AdvisorID != "" {
		advisor, err := r.party(ctx, inv.AdvisorID, RoleAdvisor)
		if err != nil {
			return InvestmentFact{}, err
		}
		fact.AdvisorID = advisor.ID
		fact.AdvisorRole = advisor.AdvisorRole
		if officeID == "" {
			officeID = advisor.OfficeID
		}
	}
	if officeID != "" {
		office, err := r.party(ctx, officeID, RoleOffice)
		if err != nil {
			return InvestmentFact{}, err
		}
		fact.OfficeID = office.ID
		fact.HasOffice = true
	}
	return fact, nil
}

// ResolveAll resolves every investment of the source. Investments whose
// parties cannot be resolved are returned in skipped, keyed by id, and the
// rest are still resolved.
func (r *FactResolver) ResolveAll(ctx context.Context) ([]InvestmentFact, map[generic.InvestmentID]error, error) {
	records, err := r.Source.ListInvestments(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list investments: %w", err)
	}
	facts := make([]InvestmentFact, 0, len(records))
	skipped := make(map[generic.InvestmentID]error)
	for _, inv := range records {
		fact, err := r.FactFor(ctx, inv)
		if err != nil {
			if errors.Is(err, generic.ErrPartyNotFound) {
				skipped[inv.ID] = err
				continue
			}
			return nil, nil, err
		}
		facts = append(facts, fact)
	}
	return facts, skipped, nil
}

func (r *FactResolver) party(ctx context.Context, id generic.PartyID, role PartyRole) (*Party, error) {
	p, err := r.Source.GetParty(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.Role != role {
		return nil, generic.NewNotFoundError(generic.ErrPartyNotFound, string(role), string(id))
	}
	return p, nil
}
