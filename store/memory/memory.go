// Package memory provides an in-memory record source (for testing/dev).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/commission-engine/commission"
	"github.com/warp/commission-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation of commission.RecordSource
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	investments map[generic.InvestmentID]commission.InvestmentRecord
	parties     map[generic.PartyID]commission.Party
}

var _ commission.RecordSource = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		investments: make(map[generic.InvestmentID]commission.InvestmentRecord),
		parties:     make(map[generic.PartyID]commission.Party),
	}
}

// SaveInvestment inserts or replaces an investment.
func (m *Memory) SaveInvestment(_ context.Context, inv commission.InvestmentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.investments[inv.ID] = inv
	return nil
}

// SaveParty inserts or replaces a party.
func (m *Memory) SaveParty(_ context.Context, p commission.Party) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parties[p.ID] = p
	return nil
}

// GetInvestment returns nil, nil when the investment doesn't exist.
func (m *Memory) GetInvestment(_ context.Context, id generic.InvestmentID) (*commission.InvestmentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, ok := m.investments[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

// ListInvestments returns investments ordered by start date, then id.
func (m *Memory) ListInvestments(_ context.Context) ([]commission.InvestmentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]commission.InvestmentRecord, 0, len(m.investments))
	for _, inv := range m.investments {
		result = append(result, inv)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].StartDate.Before(result[j].StartDate)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// GetParty returns nil, nil when the party doesn't exist.
func (m *Memory) GetParty(_ context.Context, id generic.PartyID) (*commission.Party, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.parties[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}
