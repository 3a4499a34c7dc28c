package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hyperdrip/hyperdrip/internal/common"
	"github.com/hyperdrip/hyperdrip/internal/interfaces"
	"github.com/hyperdrip/hyperdrip/internal/models"
	"github.com/hyperdrip/hyperdrip/internal/storage"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// leadSelectFields lists the fields to select from lead, aliasing lead_id to
// id for struct mapping (SurrealDB's own "id" holds the table:id record ID,
// which is a record pointer, not our uuid string).
const leadSelectFields = "lead_id as id, email, phone, name, notes, max_messages, message_count, last_sent_at, next_scheduled_for, status, created_at"

// isDuplicateKeyError reports whether err is a SurrealDB unique-index violation.
func isDuplicateKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "already contains")
}

// LeadStore implements interfaces.LeadStore using SurrealDB.
type LeadStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewLeadStore creates a new LeadStore.
func NewLeadStore(db *surrealdb.DB, logger *common.Logger) *LeadStore {
	return &LeadStore{db: db, logger: logger}
}

func (s *LeadStore) Create(ctx context.Context, draft *models.Draft) (*models.Lead, error) {
	today := models.CivilDateOf(time.Now(), time.UTC)
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
		CreatedAt:        time.Now(),
	}

	sql := `CREATE $rid SET
		lead_id = $lead_id, email = $email, phone = $phone, name = $name, notes = $notes,
		max_messages = $max_messages, message_count = $message_count,
		next_scheduled_for = $next_scheduled_for, status = $status, created_at = $created_at`
	vars := map[string]any{
		"rid":                surrealmodels.NewRecordID("lead", lead.ID),
		"lead_id":            lead.ID,
		"email":              lead.Email,
		"phone":              lead.Phone,
		"name":               lead.Name,
		"notes":              lead.Notes,
		"max_messages":       lead.MaxMessages,
		"message_count":      lead.MessageCount,
		"next_scheduled_for": today.String(),
		"status":             lead.Status,
		"created_at":         lead.CreatedAt,
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("create lead: %w", storage.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

func (s *LeadStore) Get(ctx context.Context, id string) (*models.Lead, error) {
	sql := "SELECT " + leadSelectFields + " FROM lead WHERE lead_id = $id LIMIT 1"
	vars := map[string]any{"id": id}

	results, err := surrealdb.Query[[]models.Lead](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("get lead %s: %w", id, storage.ErrLeadNotFound)
	}
	lead := (*results)[0].Result[0]
	return &lead, nil
}

func (s *LeadStore) AdvanceIfCurrent(ctx context.Context, id string, expectedCount int, now time.Time) (bool, *models.Lead, error) {
	next := expectedCount + 1

	current, err := s.Get(ctx, id)
	if err != nil {
		return false, nil, err
	}
	completing := next >= current.MaxMessages

	status := models.LeadStatusActive
	if completing {
		status = models.LeadStatusCompleted
	}

	var sql string
	vars := map[string]any{
		"rid":      surrealmodels.NewRecordID("lead", id),
		"next":     next,
		"now":      now,
		"status":   status,
		"expected": expectedCount,
	}
	if completing {
		sql = `UPDATE $rid SET message_count = $next, last_sent_at = $now, status = $status,
			next_scheduled_for = NONE WHERE message_count = $expected`
	} else {
		tomorrow := models.CivilDateOf(now, time.UTC).AddDays(1)
		sql = `UPDATE $rid SET message_count = $next, last_sent_at = $now, status = $status,
			next_scheduled_for = $next_scheduled_for WHERE message_count = $expected`
		vars["next_scheduled_for"] = tomorrow.String()
	}

	result, err := surrealdb.Query[[]map[string]any](ctx, s.db, sql, vars)
	if err != nil {
		return false, nil, fmt.Errorf("advance lead %s: %w", id, err)
	}
	if result == nil || len(*result) == 0 || len((*result)[0].Result) == 0 {
		// Either the row no longer existed or message_count had already moved
		// on — another sender committed the advance first.
		return false, nil, nil
	}

	lead, err := s.Get(ctx, id)
	if err != nil {
		return false, nil, err
	}
	return true, lead, nil
}

func (s *LeadStore) CountSentOnDay(ctx context.Context, start, end time.Time) (int, error) {
	sql := "SELECT count() AS cnt FROM lead WHERE last_sent_at >= $start AND last_sent_at < $end GROUP ALL"
	vars := map[string]any{"start": start, "end": end}

	type countResult struct {
		Cnt int `json:"cnt"`
	}

	results, err := surrealdb.Query[[]countResult](ctx, s.db, sql, vars)
	if err != nil {
		return 0, fmt.Errorf("count sent on day: %w", err)
	}
	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return (*results)[0].Result[0].Cnt, nil
	}
	return 0, nil
}

func (s *LeadStore) Close() error {
	return nil
}

// Compile-time check
var _ interfaces.LeadStore = (*LeadStore)(nil)
