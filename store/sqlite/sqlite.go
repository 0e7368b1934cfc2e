/*
Package sqlite provides a SQLite-backed record source.

PURPOSE:
  Persists the records the commission engine is fed from: investments and
  the party hierarchy (investors, advisors, offices). The engine itself never
  touches storage; callers load records here, resolve them into
  InvestmentFacts with commission.FactResolver, and compute schedules.

INTERFACES IMPLEMENTED:
  commission.RecordSource: GetInvestment, ListInvestments, GetParty

KEY TABLES:
  parties:     Investors, advisors (with role and parent office), offices
  investments: Principal, start date, commitment, liquidity, party links

AMOUNTS:
  Principals are stored as decimal TEXT, never REAL, so a round trip never
  loses cents.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so report readers don't
  block record writers.

USAGE:
  store, err := sqlite.New("./data/commission.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  resolver := commission.NewFactResolver(store)

SEE ALSO:
  - commission/records.go: Record types and RecordSource
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/commission-engine/commission"
	"github.com/warp/commission-engine/generic"
)

// Store implements commission.RecordSource using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ commission.RecordSource = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to ":memory:" is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
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

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Parties (investors, advisors, offices)
	CREATE TABLE IF NOT EXISTS parties (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('investor', 'advisor', 'office')),
		advisor_role TEXT,
		office_id TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_parties_role
		ON parties(role);
	CREATE INDEX IF NOT EXISTS idx_parties_office
		ON parties(office_id) WHERE office_id IS NOT NULL;

	-- Investments
	CREATE TABLE IF NOT EXISTS investments (
		id TEXT PRIMARY KEY,
		investor_id TEXT,
		principal TEXT NOT NULL,
		start_date TEXT NOT NULL,
		commitment_months INTEGER NOT NULL,
		liquidity TEXT NOT NULL DEFAULT '',
		advisor_id TEXT,
		office_id TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_investments_start
		ON investments(start_date, id);
	CREATE INDEX IF NOT EXISTS idx_investments_advisor
		ON investments(advisor_id) WHERE advisor_id IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_investments_office
		ON investments(office_id) WHERE office_id IS NOT NULL;
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PARTY STORE
// =============================================================================

// SaveParty inserts or updates a party.
func (s *Store) SaveParty(ctx context.Context, p commission.Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO parties (id, name, role, advisor_role, office_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			role = excluded.role,
			advisor_role = excluded.advisor_role,
			office_id = excluded.office_id
	`

	_, err := s.db.ExecContext(ctx, query,
		string(p.ID), p.Name, string(p.Role),
		nullString(string(p.AdvisorRole)), nullString(string(p.OfficeID)),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetParty retrieves a party by ID. Returns nil, nil when it doesn't exist.
func (s *Store) GetParty(ctx context.Context, id generic.PartyID) (*commission.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, role, advisor_role, office_id, created_at FROM parties WHERE id = ?",
		string(id),
	)
	p, err := scanParty(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListParties returns parties, optionally filtered by role ("" = all).
func (s *Store) ListParties(ctx context.Context, role commission.PartyRole) ([]commission.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, name, role, advisor_role, office_id, created_at FROM parties"
	var args []any
	if role != "" {
		query += " WHERE role = ?"
		args = append(args, string(role))
	}
	query += " ORDER BY name, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parties []commission.Party
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, err
		}
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanParty(row scanner) (commission.Party, error) {
	var p commission.Party
	var id, role, createdAt string
	var advisorRole, officeID sql.NullString
	if err := row.Scan(&id, &p.Name, &role, &advisorRole, &officeID, &createdAt); err != nil {
		return commission.Party{}, err
	}
	p.ID = generic.PartyID(id)
	p.Role = commission.PartyRole(role)
	p.AdvisorRole = commission.AdvisorRole(advisorRole.String)
	p.OfficeID = generic.PartyID(officeID.String)
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return p, nil
}

// =============================================================================
// INVESTMENT STORE
// =============================================================================

// SaveInvestment inserts or updates an investment.
func (s *Store) SaveInvestment(ctx context.Context, inv commission.InvestmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO investments
		(id, investor_id, principal, start_date, commitment_months, liquidity, advisor_id, office_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			investor_id = excluded.investor_id,
			principal = excluded.principal,
			start_date = excluded.start_date,
			commitment_months = excluded.commitment_months,
			liquidity = excluded.liquidity,
			advisor_id = excluded.advisor_id,
			office_id = excluded.office_id
	`

	_, err := s.db.ExecContext(ctx, query,
		string(inv.ID), nullString(string(inv.InvestorID)),
		inv.Principal.Value.String(), inv.StartDate.String(),
		inv.CommitmentMonths, inv.Liquidity,
		nullString(string(inv.AdvisorID)), nullString(string(inv.OfficeID)),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

const investmentColumns = "id, investor_id, principal, start_date, commitment_months, liquidity, advisor_id, office_id, created_at"

// GetInvestment retrieves an investment by ID. Returns nil, nil when it
// doesn't exist.
func (s *Store) GetInvestment(ctx context.Context, id generic.InvestmentID) (*commission.InvestmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT "+investmentColumns+" FROM investments WHERE id = ?",
		string(id),
	)
	inv, err := scanInvestment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInvestments returns all investments ordered by start date, then id.
func (s *Store) ListInvestments(ctx context.Context) ([]commission.InvestmentRecord, error) {
	return s.queryInvestments(ctx, "SELECT "+investmentColumns+" FROM investments ORDER BY start_date, id")
}

// ListInvestmentsByParty returns investments where the party is the
// investor, the advisor or the office.
func (s *Store) ListInvestmentsByParty(ctx context.Context, partyID generic.PartyID) ([]commission.InvestmentRecord, error) {
	return s.queryInvestments(ctx,
		"SELECT "+investmentColumns+" FROM investments WHERE investor_id = ? OR advisor_id = ? OR office_id = ? ORDER BY start_date, id",
		string(partyID), string(partyID), string(partyID),
	)
}

// DeleteInvestment removes an investment.
func (s *Store) DeleteInvestment(ctx context.Context, id generic.InvestmentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM investments WHERE id = ?", string(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return generic.NewNotFoundError(generic.ErrInvestmentNotFound, "investment", string(id))
	}
	return nil
}

func (s *Store) queryInvestments(ctx context.Context, query string, args ...any) ([]commission.InvestmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var investments []commission.InvestmentRecord
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}

func scanInvestment(row scanner) (commission.InvestmentRecord, error) {
	var inv commission.InvestmentRecord
	var id, principal, startDate, createdAt string
	var investorID, advisorID, officeID sql.NullString
	if err := row.Scan(&id, &investorID, &principal, &startDate, &inv.CommitmentMonths,
		&inv.Liquidity, &advisorID, &officeID, &createdAt); err != nil {
		return commission.InvestmentRecord{}, err
	}

	amount, err := generic.ParseAmount(principal)
	if err != nil {
		return commission.InvestmentRecord{}, fmt.Errorf("investment %s: principal %q: %w", id, principal, err)
	}
	start, err := generic.ParseDate(startDate)
	if err != nil {
		return commission.InvestmentRecord{}, fmt.Errorf("investment %s: start date %q: %w", id, startDate, err)
	}

	inv.ID = generic.InvestmentID(id)
	inv.InvestorID = generic.PartyID(investorID.String)
	inv.Principal = amount
	inv.StartDate = start
	inv.AdvisorID = generic.PartyID(advisorID.String)
	inv.OfficeID = generic.PartyID(officeID.String)
	inv.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return inv, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"investments", "parties"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}

// CreateParty inserts a party, failing with generic.ErrDuplicateRecord if
// the id is taken.
func (s *Store) CreateParty(ctx context.Context, p commission.Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO parties (id, name, role, advisor_role, office_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		string(p.ID), p.Name, string(p.Role),
		nullString(string(p.AdvisorRole)), nullString(string(p.OfficeID)),
		time.Now().UTC().Format(time.RFC3339),
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("party %s: %w", p.ID, generic.ErrDuplicateRecord)
	}
	return err
}
