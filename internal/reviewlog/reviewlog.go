// Package reviewlog records workflow transitions as an append-only trail.
// Each entry captures who moved a stakeholder between which states and when,
// so the nullable workflow columns never have to be reconstructed from logs.
package reviewlog

import (
	"context"
	"log/slog"
	"time"

	"github.com/Mloh16/food-oasis/internal/stakeholder/models"
)

// Entry is one recorded workflow transition.
type Entry struct {
	ID            int64                     `json:"id"`
	StakeholderID int64                     `json:"stakeholderId"`
	ActorLoginID  int64                     `json:"actorLoginId"`
	FromStatus    models.VerificationStatus `json:"fromStatus"`
	ToStatus      models.VerificationStatus `json:"toStatus"`
	Note          string                    `json:"note"`
	CreatedAt     time.Time                 `json:"createdAt"`
}

// Store persists transition entries.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListByStakeholder(ctx context.Context, stakeholderID int64) ([]Entry, error)
}

// Publisher writes transition entries without letting persistence failures
// reach the caller. The trail is diagnostic; the transition itself has
// already committed by the time Record runs.
type Publisher struct {
	store  Store
	logger *slog.Logger
}

// NewPublisher constructs a publisher over the given store.
func NewPublisher(store Store, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{store: store, logger: logger}
}

// Record appends a transition entry. Failures are logged, never returned.
func (p *Publisher) Record(ctx context.Context, entry Entry) {
	if p == nil || p.store == nil {
		return
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := p.store.Append(ctx, entry); err != nil {
		p.logger.ErrorContext(ctx, "failed to record review transition",
			"error", err,
			"stakeholder_id", entry.StakeholderID,
			"from_status", entry.FromStatus.String(),
			"to_status", entry.ToStatus.String(),
		)
	}
}
