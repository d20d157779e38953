package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"peopledesk/internal/platform/querier"
)

type Event struct {
	ID        string          `json:"id"`
	ActorID   string          `json:"actorId"`
	Action    string          `json:"action"`
	Entity    string          `json:"entity"`
	EntityID  string          `json:"entityId"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Service struct {
	DB querier.Querier
}

func NewService(db querier.Querier) *Service {
	return &Service{DB: db}
}

// Record writes an audit event. Failures are logged and swallowed so
// auditing never breaks the operation being audited.
func (s *Service) Record(ctx context.Context, actorID, action, entity, entityID string, details map[string]any) {
	var payload []byte
	if len(details) > 0 {
		var err error
		if payload, err = json.Marshal(details); err != nil {
			slog.Warn("failed to encode audit details", slog.Any("error", err))
		}
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_events (actor_id, action, entity, entity_id, details)
    VALUES (NULLIF($1,'')::uuid, $2, $3, NULLIF($4,''), $5)
  `, actorID, action, entity, entityID, payload)
	if err != nil {
		slog.Warn("failed to record audit event",
			slog.String("action", action),
			slog.String("entity", entity),
			slog.Any("error", err))
	}
}

type Filter struct {
	ActorID string
	Entity  string
	Action  string
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]Event, error) {
	query := `
    SELECT id, COALESCE(actor_id::text,''), action, entity, COALESCE(entity_id,''),
           details, created_at
    FROM audit_events WHERE 1=1`
	args := []any{}
	if filter.ActorID != "" {
		args = append(args, filter.ActorID)
		query += fmt.Sprintf(" AND actor_id = $%d", len(args))
	}
	if filter.Entity != "" {
		args = append(args, filter.Entity)
		query += fmt.Sprintf(" AND entity = $%d", len(args))
	}
	if filter.Action != "" {
		args = append(args, filter.Action)
		query += fmt.Sprintf(" AND action = $%d", len(args))
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.Entity, &e.EntityID,
			&e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Purge removes events older than the retention horizon.
func (s *Service) Purge(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx,
		"DELETE FROM audit_events WHERE created_at < $1", olderThan)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
