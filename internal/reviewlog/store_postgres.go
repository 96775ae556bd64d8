package reviewlog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Mloh16/food-oasis/internal/stakeholder/models"
)

// PostgresStore persists the transition trail in stakeholder_review_log.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed transition store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stakeholder_review_log
			(stakeholder_id, actor_login_id, from_status, to_status, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.StakeholderID, entry.ActorLoginID,
		int64(entry.FromStatus), int64(entry.ToStatus),
		entry.Note, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("append review log entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByStakeholder(ctx context.Context, stakeholderID int64) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, stakeholder_id, actor_login_id, from_status, to_status, note, created_at
		FROM stakeholder_review_log
		WHERE stakeholder_id = $1
		ORDER BY created_at, id`, stakeholderID)
	if err != nil {
		return nil, fmt.Errorf("list review log entries: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			e        Entry
			from, to int64
		)
		if err := rows.Scan(&e.ID, &e.StakeholderID, &e.ActorLoginID, &from, &to, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review log entry: %w", err)
		}
		e.FromStatus = models.VerificationStatus(from)
		e.ToStatus = models.VerificationStatus(to)
		e.CreatedAt = e.CreatedAt.UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review log entries: %w", err)
	}
	return entries, nil
}
