// Package memstore is an in-memory interfaces.LeadStore, grounded on the
// production SurrealDB store's create/advance/count contract but backed by a
// mutex-guarded map instead of a database connection. It exists for fast unit
// tests of the scheduler and worker that don't need a real SurrealDB instance.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hyperdrip/hyperdrip/internal/interfaces"
	"github.com/hyperdrip/hyperdrip/internal/models"
	"github.com/hyperdrip/hyperdrip/internal/storage"
)

// Store is an in-memory interfaces.LeadStore.
type Store struct {
	mu     sync.Mutex
	leads  map[string]*models.Lead
	emails map[string]string
	phones map[string]string
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		leads:  make(map[string]*models.Lead),
		emails: make(map[string]string),
		phones: make(map[string]string),
	}
}

func (s *Store) Create(_ context.Context, draft *models.Draft) (*models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emails[draft.Email]; exists {
		return nil, fmt.Errorf("create lead: %w", storage.ErrDuplicateKey)
	}
	if _, exists := s.phones[draft.Phone]; exists {
		return nil, fmt.Errorf("create lead: %w", storage.ErrDuplicateKey)
	}

	now := time.Now()
	today := models.CivilDateOf(now, time.UTC)
	lead := &models.Lead{
		ID:               uuid.New().String(),
		Email:            draft.Email,
		Phone:            draft.Phone,
		Name:             draft.Name,
		Notes:            draft.Notes,
		MaxMessages:      draft.MaxMessages,
		MessageCount:     0,
		NextScheduledFor: &today,
		Status:           models.LeadStatusActive,
		CreatedAt:        now,
	}

	s.leads[lead.ID] = lead
	s.emails[lead.Email] = lead.ID
	s.phones[lead.Phone] = lead.ID

	cp := *lead
	return &cp, nil
}

func (s *Store) Get(_ context.Context, id string) (*models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leads[id]
	if !ok {
		return nil, fmt.Errorf("get lead %s: %w", id, storage.ErrLeadNotFound)
	}
	cp := *lead
	return &cp, nil
}

func (s *Store) AdvanceIfCurrent(_ context.Context, id string, expectedCount int, now time.Time) (bool, *models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leads[id]
	if !ok {
		return false, nil, fmt.Errorf("advance lead %s: %w", id, storage.ErrLeadNotFound)
	}
	if lead.MessageCount != expectedCount {
		return false, nil, nil
	}

	lead.MessageCount = expectedCount + 1
	lead.LastSentAt = &now
	if lead.MessageCount >= lead.MaxMessages {
		lead.Status = models.LeadStatusCompleted
		lead.NextScheduledFor = nil
	} else {
		tomorrow := models.CivilDateOf(now, time.UTC).AddDays(1)
		lead.NextScheduledFor = &tomorrow
		lead.Status = models.LeadStatusActive
	}

	cp := *lead
	return true, &cp, nil
}

func (s *Store) CountSentOnDay(_ context.Context, start, end time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, lead := range s.leads {
		if lead.LastSentAt == nil {
			continue
		}
		if !lead.LastSentAt.Before(start) && lead.LastSentAt.Before(end) {
			count++
		}
	}
	return count, nil
}

func (s *Store) Close() error {
	return nil
}

// Compile-time check
var _ interfaces.LeadStore = (*Store)(nil)
