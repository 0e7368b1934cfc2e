/*
handlers.go - HTTP API handlers for the commission engine

PURPOSE:
  Exposes the commission engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the engine and the report layer.

ENDPOINTS:
  Schedules:
    POST   /api/schedules                   Compute a schedule for an ad-hoc investment

  Investments:
    GET    /api/investments                 List investments (?party_id=)
    POST   /api/investments                 Create investment
    GET    /api/investments/{id}            Get investment
    DELETE /api/investments/{id}            Delete investment
    GET    /api/investments/{id}/schedule   Commission schedule of a stored investment

  Parties:
    GET    /api/parties                     List parties (?role=)
    POST   /api/parties                     Create investor, advisor or office
    GET    /api/parties/{id}                Get party

  Reports:
    GET    /api/reports/commissions         Totals per party and due date (?as_of=&party_id=)
    GET    /api/payment-dates/next          Next cutoff on or after ?today=
    GET    /api/rates                       Active rate table

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: investment and party records
  - Engine: the immutable commission engine
  - Resolver: records to InvestmentFact
  - Clock: "today" for endpoints whose date parameter is omitted

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input. Engine failures carry the generic message
         "could not calculate commission for this investment" and a code.
  - 404: Resource not found
  - 409: Duplicate id
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scheduler.go: Daily payables digest
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/warp/commission-engine/commission"
	"github.com/warp/commission-engine/factory"
	"github.com/warp/commission-engine/generic"
	"github.com/warp/commission-engine/report"
	"github.com/warp/commission-engine/store/sqlite"
)

// MsgCommissionFailed is the message clients see for any engine failure.
const MsgCommissionFailed = "could not calculate commission for this investment"

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Engine   *commission.Engine
	Resolver *commission.FactResolver
	Factory  *factory.ConfigFactory
	Log      zerolog.Logger

	// Workers bounds the report fan-out.
	Workers int

	// Clock supplies "today" when a request omits it.
	Clock func() generic.TimePoint
}

// NewHandler creates a new handler with the given store and engine.
func NewHandler(store *sqlite.Store, engine *commission.Engine, log zerolog.Logger) *Handler {
	return &Handler{
		Store:    store,
		Engine:   engine,
		Resolver: commission.NewFactResolver(store),
		Factory:  factory.NewConfigFactory(),
		Log:      log.With().Str("component", "api").Logger(),
		Workers:  4,
		Clock:    generic.Today,
	}
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

// ComputeSchedule builds a schedule for an investment described in the body.
// Nothing is persisted.
func (h *Handler) ComputeSchedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	fact, err := factFromRequest(req)
	if err != nil {
		h.writeCommissionError(w, err)
		return
	}

	schedule, err := h.Engine.ComputeSchedule(fact)
	if err != nil {
		h.writeCommissionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleDTO(schedule))
}

func factFromRequest(req ScheduleRequest) (commission.InvestmentFact, error) {
	principal, err := commission.ParsePrincipal(req.Principal)
	if err != nil {
		return commission.InvestmentFact{}, err
	}
	start, err := commission.ParseStartDate(req.StartDate)
	if err != nil {
		return commission.InvestmentFact{}, err
	}
	role, err := commission.ParseAdvisorRole(req.AdvisorRole)
	if err != nil {
		return commission.InvestmentFact{}, err
	}

	id := req.InvestmentID
	if id == "" {
		id = "adhoc"
	}
	return commission.InvestmentFact{
		InvestmentID:     generic.InvestmentID(id),
		InvestorID:       generic.PartyID(req.InvestorID),
		Principal:        principal,
		StartDate:        start,
		CommitmentMonths: req.CommitmentMonths,
		Liquidity:        req.Liquidity,
		AdvisorID:        generic.PartyID(req.AdvisorID),
		AdvisorRole:      role,
		OfficeID:         generic.PartyID(req.OfficeID),
		HasOffice:        req.HasOffice || req.OfficeID != "",
	}, nil
}

// =============================================================================
// INVESTMENT HANDLERS
// =============================================================================

// ListInvestments returns all investments, or those of one party.
func (h *Handler) ListInvestments(w http.ResponseWriter, r *http.Request) {
	var (
		records []commission.InvestmentRecord
		err     error
	)
	if partyID := r.URL.Query().Get("party_id"); partyID != "" {
		records, err = h.Store.ListInvestmentsByParty(r.Context(), generic.PartyID(partyID))
	} else {
		records, err = h.Store.ListInvestments(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list investments", err)
		return
	}

	dtos := make([]InvestmentDTO, 0, len(records))
	for _, inv := range records {
		dtos = append(dtos, toInvestmentDTO(inv))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetInvestment returns a single investment.
func (h *Handler) GetInvestment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	inv, err := h.Store.GetInvestment(r.Context(), generic.InvestmentID(id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get investment", err)
		return
	}
	if inv == nil {
		writeError(w, http.StatusNotFound, "Investment not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toInvestmentDTO(*inv))
}

// CreateInvestment stores an investment after checking that a schedule can
// be computed for it.
func (h *Handler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	var req CreateInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.InvestorID) == "" {
		writeError(w, http.StatusBadRequest, "investor_id is required", nil)
		return
	}

	principal, err := commission.ParsePrincipal(req.Principal)
	if err != nil {
		h.writeCommissionError(w, err)
		return
	}
	start, err := commission.ParseStartDate(req.StartDate)
	if err != nil {
		h.writeCommissionError(w, err)
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	inv := commission.InvestmentRecord{
		ID:               generic.InvestmentID(id),
		InvestorID:       generic.PartyID(req.InvestorID),
		Principal:        principal,
		StartDate:        start,
		CommitmentMonths: req.CommitmentMonths,
		Liquidity:        req.Liquidity,
		AdvisorID:        generic.PartyID(req.AdvisorID),
		OfficeID:         generic.PartyID(req.OfficeID),
		CreatedAt:        time.Now().UTC(),
	}

	fact, err := h.Resolver.FactFor(r.Context(), inv)
	if err != nil {
		if generic.IsNotFound(err) {
			writeError(w, http.StatusBadRequest, "Unknown advisor or office", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to resolve parties", err)
		return
	}
	if _, err := h.Engine.ComputeSchedule(fact); err != nil {
		h.writeCommissionError(w, err)
		return
	}

	if err := h.Store.SaveInvestment(r.Context(), inv); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create investment", err)
		return
	}
	writeJSON(w, http.StatusCreated, toInvestmentDTO(inv))
}

// DeleteInvestment removes an investment.
func (h *Handler) DeleteInvestment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteInvestment(r.Context(), generic.InvestmentID(id)); err != nil {
		if generic.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Investment not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete investment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetInvestmentSchedule computes the schedule of a stored investment.
func (h *Handler) GetInvestmentSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	fact, err := h.Resolver.Resolve(r.Context(), generic.InvestmentID(id))
	if err != nil {
		if generic.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Investment not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load investment", err)
		return
	}

	schedule, err := h.Engine.ComputeSchedule(fact)
	if err != nil {
		h.writeCommissionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleDTO(schedule))
}

// =============================================================================
// PARTY HANDLERS
// =============================================================================

// ListParties returns all parties, or those of one role.
func (h *Handler) ListParties(w http.ResponseWriter, r *http.Request) {
	role := commission.PartyRole(r.URL.Query().Get("role"))
	if role != "" && !validRole(role) {
		writeError(w, http.StatusBadRequest, "Invalid role", nil)
		return
	}

	parties, err := h.Store.ListParties(r.Context(), role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list parties", err)
		return
	}

	dtos := make([]PartyDTO, 0, len(parties))
	for _, p := range parties {
		dtos = append(dtos, toPartyDTO(p))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetParty returns a single party.
func (h *Handler) GetParty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.Store.GetParty(r.Context(), generic.PartyID(id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get party", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Party not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toPartyDTO(*p))
}

// CreateParty stores an investor, advisor or office.
func (h *Handler) CreateParty(w http.ResponseWriter, r *http.Request) {
	var req CreatePartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	role := commission.PartyRole(strings.ToLower(strings.TrimSpace(req.Role)))
	if !validRole(role) {
		writeError(w, http.StatusBadRequest, "role must be investor, advisor or office", nil)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	p := commission.Party{
		ID:        generic.PartyID(req.ID),
		Name:      req.Name,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if p.ID == "" {
		p.ID = generic.PartyID(uuid.NewString())
	}

	if role == commission.RoleAdvisor {
		advisorRole, err := commission.ParseAdvisorRole(req.AdvisorRole)
		if err != nil || advisorRole == commission.AdvisorNone {
			writeError(w, http.StatusBadRequest, "advisor_role must be internal or external", err)
			return
		}
		p.AdvisorRole = advisorRole
		p.OfficeID = generic.PartyID(req.OfficeID)
	}

	if err := h.Store.CreateParty(r.Context(), p); err != nil {
		if errors.Is(err, generic.ErrDuplicateRecord) {
			writeError(w, http.StatusConflict, "Party already exists", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create party", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPartyDTO(p))
}

func validRole(role commission.PartyRole) bool {
	switch role {
	case commission.RoleInvestor, commission.RoleAdvisor, commission.RoleOffice:
		return true
	}
	return false
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetCommissionReport compiles totals for every stored investment as of a
// date (?as_of=, default today), optionally for one party (?party_id=).
func (h *Handler) GetCommissionReport(w http.ResponseWriter, r *http.Request) {
	asOf, ok := h.dateParam(w, r, "as_of")
	if !ok {
		return
	}

	rep, err := h.compile(r.Context(), asOf, generic.PartyID(r.URL.Query().Get("party_id")))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compile report", err)
		return
	}
	writeJSON(w, http.StatusOK, toReportResponse(rep))
}

// compile resolves every stored investment and compiles the report. Investments
// whose parties cannot be resolved are reported as skipped.
func (h *Handler) compile(ctx context.Context, asOf generic.TimePoint, party generic.PartyID) (*report.Report, error) {
	return compileStored(ctx, h.Resolver, h.Engine, asOf, report.Options{
		Workers: h.Workers,
		PartyID: party,
		Logger:  h.Log,
	})
}

func compileStored(ctx context.Context, resolver *commission.FactResolver, engine *commission.Engine, asOf generic.TimePoint, opts report.Options) (*report.Report, error) {
	facts, unresolved, err := resolver.ResolveAll(ctx)
	if err != nil {
		return nil, err
	}

	rep, err := report.Compile(ctx, engine, facts, asOf, opts)
	if err != nil {
		return nil, err
	}

	for id, err := range unresolved {
		opts.Logger.Warn().Err(err).Str("investment_id", string(id)).Msg("could not resolve investment parties, skipping")
		rep.Skipped = append(rep.Skipped, report.Skipped{InvestmentID: id, Code: commission.ErrorCode(err), Err: err})
	}
	sort.SliceStable(rep.Skipped, func(i, j int) bool {
		return rep.Skipped[i].InvestmentID < rep.Skipped[j].InvestmentID
	})
	return rep, nil
}

// GetNextPaymentDate returns the next cutoff on or after ?today= (default
// today).
func (h *Handler) GetNextPaymentDate(w http.ResponseWriter, r *http.Request) {
	today, ok := h.dateParam(w, r, "today")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, NextPaymentDateResponse{
		Today:           today.String(),
		NextPaymentDate: h.Engine.NextPaymentDate(today).String(),
	})
}

// GetRates returns the active engine configuration as a rate document.
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Factory.ToJSON(h.Engine.Config()))
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) dateParam(w http.ResponseWriter, r *http.Request, name string) (generic.TimePoint, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return h.Clock(), true
	}
	tp, err := generic.ParseDate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s (expected YYYY-MM-DD)", name), err)
		return generic.TimePoint{}, false
	}
	return tp, true
}

// writeCommissionError maps engine errors to a status and the generic
// client message. Internal failures are logged.
func (h *Handler) writeCommissionError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case commission.IsInputError(err):
		status = http.StatusBadRequest
	case generic.IsNotFound(err):
		status = http.StatusNotFound
	default:
		h.Log.Error().Err(err).Msg("commission calculation failed")
	}
	writeJSON(w, status, ErrorResponse{
		Error:   MsgCommissionFailed,
		Code:    commission.ErrorCode(err),
		Details: err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
