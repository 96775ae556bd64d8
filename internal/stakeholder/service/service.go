// Package service orchestrates stakeholder reads, writes, and workflow
// transitions over the version store.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Mloh16/food-oasis/internal/reviewlog"
	"github.com/Mloh16/food-oasis/internal/stakeholder/metrics"
	"github.com/Mloh16/food-oasis/internal/stakeholder/models"
	domainerrors "github.com/Mloh16/food-oasis/pkg/domain-errors"
	"github.com/Mloh16/food-oasis/pkg/platform/sentinel"
)

// Store is the persistence contract the service depends on. The Postgres
// store is the production implementation; tests use the memory store.
type Store interface {
	Create(ctx context.Context, v *models.StakeholderVersion) (int64, error)
	CreateVersion(ctx context.Context, id int64, v *models.StakeholderVersion) (int64, error)
	Current(ctx context.Context, id int64) (*models.StakeholderVersion, error)
	Search(ctx context.Context, f *models.SearchFilter) ([]*models.StakeholderVersion, error)
	Remove(ctx context.Context, id int64) error
	Assign(ctx context.Context, id, assigneeID, actorID int64, now time.Time) error
	NeedsVerification(ctx context.Context, id, actorID int64, message string, now time.Time) error
	Claim(ctx context.Context, id, claimantID int64, setClaimed bool, actorID int64, now time.Time) error
	Verify(ctx context.Context, id int64, setVerified bool, actorID int64, now time.Time) error
	Categories(ctx context.Context) ([]models.Category, error)
}

// Service implements the stakeholder operations.
type Service struct {
	store       Store
	logger      *slog.Logger
	metrics     *metrics.Metrics
	publisher   *reviewlog.Publisher
	reviewStore reviewlog.Store
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithReviewLog wires the transition trail: transitions publish through
// store, and ReviewHistory reads back from it.
func WithReviewLog(store reviewlog.Store, logger *slog.Logger) Option {
	return func(s *Service) {
		s.reviewStore = store
		s.publisher = reviewlog.NewPublisher(store, logger)
	}
}

// WithClock overrides the time source. Tests pin it for deterministic
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New constructs a stakeholder service over the given store.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns the current version of every stakeholder matching the
// filter. When the filter carries an origin the results are ranked by
// distance; otherwise store name order is preserved. A persistence failure
// degrades to an empty result so the public directory stays up.
func (s *Service) Search(ctx context.Context, f *models.SearchFilter) ([]*models.StakeholderVersion, error) {
	if err := f.Validate(); err != nil {
		s.countSearch("invalid")
		return nil, domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid search filter")
	}

	start := s.now()
	results, err := s.store.Search(ctx, f)
	if s.metrics != nil {
		s.metrics.SearchDuration.Observe(s.now().Sub(start).Seconds())
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "stakeholder search failed, returning empty result",
			"error", err,
		)
		s.countSearch("degraded")
		return []*models.StakeholderVersion{}, nil
	}

	if f.HasOrigin() {
		results = rankByDistance(results, *f.Latitude, *f.Longitude, f.Radius)
	}
	s.countSearch("ok")
	if s.metrics != nil {
		s.metrics.SearchResultSize.Observe(float64(len(results)))
	}
	return results, nil
}

// Get returns the current version of one stakeholder.
func (s *Service) Get(ctx context.Context, id int64) (*models.StakeholderVersion, error) {
	v, err := s.store.Current(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, domainerrors.New(domainerrors.CodeNotFound, "stakeholder not found")
		}
		s.logger.ErrorContext(ctx, "failed to load stakeholder", "error", err, "stakeholder_id", id)
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "load stakeholder")
	}
	return v, nil
}

// Create inserts version 1 of a new stakeholder and returns its logical id.
func (s *Service) Create(ctx context.Context, v *models.StakeholderVersion, actorID int64) (int64, error) {
	if err := v.Validate(); err != nil {
		return 0, domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid stakeholder")
	}
	now := s.now().UTC()
	v.CreatedDate = &now
	v.ModifiedDate = &now
	if actorID > 0 {
		v.CreatedLoginID = &actorID
		v.ModifiedLoginID = &actorID
	}
	if v.VerificationStatusID == 0 {
		v.VerificationStatusID = models.StatusUnverified
	}

	id, err := s.store.Create(ctx, v)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create stakeholder", "error", err)
		s.countWrite("create", "error")
		return 0, domainerrors.Wrap(err, domainerrors.CodeInternal, "create stakeholder")
	}
	s.countWrite("create", "ok")
	return id, nil
}

// Update appends a new version of an existing stakeholder. The whole version
// including its children is written in one transaction.
func (s *Service) Update(ctx context.Context, id int64, v *models.StakeholderVersion, actorID int64) error {
	if err := v.Validate(); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid stakeholder")
	}
	now := s.now().UTC()
	v.ModifiedDate = &now
	if actorID > 0 {
		v.ModifiedLoginID = &actorID
	}

	if _, err := s.store.CreateVersion(ctx, id, v); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domainerrors.New(domainerrors.CodeNotFound, "stakeholder not found")
		}
		s.logger.ErrorContext(ctx, "failed to update stakeholder", "error", err, "stakeholder_id", id)
		s.countWrite("update", "error")
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "update stakeholder")
	}
	s.countWrite("update", "ok")
	return nil
}

// Remove hard-deletes a stakeholder and its full version history.
func (s *Service) Remove(ctx context.Context, id int64) error {
	if err := s.store.Remove(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domainerrors.New(domainerrors.CodeNotFound, "stakeholder not found")
		}
		s.logger.ErrorContext(ctx, "failed to remove stakeholder", "error", err, "stakeholder_id", id)
		s.countWrite("remove", "error")
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "remove stakeholder")
	}
	s.countWrite("remove", "ok")
	return nil
}

// Assign hands the current version to a reviewer, clearing any earlier
// submission or approval.
func (s *Service) Assign(ctx context.Context, id, assigneeID, actorID int64) error {
	if assigneeID <= 0 {
		return domainerrors.New(domainerrors.CodeValidation, "assignee login id is required")
	}
	return s.transition(ctx, id, actorID, "assign", models.StatusAssigned, "",
		func(now time.Time) error {
			return s.store.Assign(ctx, id, assigneeID, actorID, now)
		})
}

// NeedsVerification sends a record back to unverified, optionally appending
// a reviewer message to its notes.
func (s *Service) NeedsVerification(ctx context.Context, id, actorID int64, message string) error {
	return s.transition(ctx, id, actorID, "needs_verification", models.StatusUnverified, message,
		func(now time.Time) error {
			return s.store.NeedsVerification(ctx, id, actorID, message, now)
		})
}

// Claim sets or clears the claimed pair. Claiming is independent of
// assignment state, so the verification status is left untouched.
func (s *Service) Claim(ctx context.Context, id, claimantID int64, setClaimed bool, actorID int64) error {
	if setClaimed && claimantID <= 0 {
		return domainerrors.New(domainerrors.CodeValidation, "claimant login id is required")
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	if err := s.store.Claim(ctx, id, claimantID, setClaimed, actorID, now); err != nil {
		return s.transitionError(ctx, err, id, "claim")
	}
	s.countTransition("claim", "ok")
	s.record(ctx, id, actorID, current.VerificationStatusID, current.VerificationStatusID, "", now)
	return nil
}

// Verify sets or clears the verified confirmation pair. Like claiming, the
// confirmation is independent of the review workflow, so the verification
// status is left untouched.
func (s *Service) Verify(ctx context.Context, id int64, setVerified bool, actorID int64) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	if err := s.store.Verify(ctx, id, setVerified, actorID, now); err != nil {
		return s.transitionError(ctx, err, id, "verify")
	}
	s.countTransition("verify", "ok")
	s.record(ctx, id, actorID, current.VerificationStatusID, current.VerificationStatusID, "", now)
	return nil
}

// Categories lists the category reference table.
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.store.Categories(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list categories", "error", err)
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list categories")
	}
	return categories, nil
}

// ReviewHistory lists the recorded workflow transitions for a stakeholder.
// Returns an empty slice when no review log is wired.
func (s *Service) ReviewHistory(ctx context.Context, id int64) ([]reviewlog.Entry, error) {
	if s.reviewStore == nil {
		return []reviewlog.Entry{}, nil
	}
	entries, err := s.reviewStore.ListByStakeholder(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list review history", "error", err, "stakeholder_id", id)
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list review history")
	}
	return entries, nil
}

func (s *Service) transition(ctx context.Context, id, actorID int64, name string, to models.VerificationStatus, note string, apply func(now time.Time) error) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	if err := apply(now); err != nil {
		return s.transitionError(ctx, err, id, name)
	}
	s.countTransition(name, "ok")
	s.record(ctx, id, actorID, current.VerificationStatusID, to, note, now)
	return nil
}

func (s *Service) transitionError(ctx context.Context, err error, id int64, name string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return domainerrors.New(domainerrors.CodeNotFound, "stakeholder not found")
	}
	s.logger.ErrorContext(ctx, "workflow transition failed",
		"error", err,
		"transition", name,
		"stakeholder_id", id,
	)
	s.countTransition(name, "error")
	return domainerrors.Wrap(err, domainerrors.CodeInternal, name+" stakeholder")
}

func (s *Service) record(ctx context.Context, id, actorID int64, from, to models.VerificationStatus, note string, now time.Time) {
	if s.publisher == nil {
		return
	}
	s.publisher.Record(ctx, reviewlog.Entry{
		StakeholderID: id,
		ActorLoginID:  actorID,
		FromStatus:    from,
		ToStatus:      to,
		Note:          note,
		CreatedAt:     now,
	})
}

func (s *Service) countSearch(outcome string) {
	if s.metrics != nil {
		s.metrics.SearchTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) countWrite(operation, outcome string) {
	if s.metrics != nil {
		s.metrics.WritesTotal.WithLabelValues(operation, outcome).Inc()
	}
}

func (s *Service) countTransition(transition, outcome string) {
	if s.metrics != nil {
		s.metrics.TransitionsTotal.WithLabelValues(transition, outcome).Inc()
	}
}
