package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Mloh16/food-oasis/internal/reviewlog"
	"github.com/Mloh16/food-oasis/internal/stakeholder/models"
	"github.com/Mloh16/food-oasis/internal/stakeholder/store"
	domainerrors "github.com/Mloh16/food-oasis/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	store     *store.Memory
	reviewLog *reviewlog.MemoryStore
	svc       *Service
	ctx       context.Context
	now       time.Time
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewMemory()
	s.reviewLog = reviewlog.NewMemory()
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.svc = New(s.store,
		WithLogger(logger),
		WithReviewLog(s.reviewLog, logger),
		WithClock(func() time.Time { return s.now }),
	)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) newVersion(name string) *models.StakeholderVersion {
	return &models.StakeholderVersion{Name: name, City: "Los Angeles"}
}

func (s *ServiceSuite) TestCreateAndGet() {
	s.Run("create stamps audit fields and defaults status", func() {
		id, err := s.svc.Create(s.ctx, s.newVersion("Pantry"), 7)
		s.Require().NoError(err)

		got, err := s.svc.Get(s.ctx, id)
		s.Require().NoError(err)
		s.Require().NotNil(got.CreatedDate)
		s.Equal(s.now, *got.CreatedDate)
		s.Require().NotNil(got.CreatedLoginID)
		s.Equal(int64(7), *got.CreatedLoginID)
		s.Equal(models.StatusUnverified, got.VerificationStatusID)
	})

	s.Run("create rejects a nameless record", func() {
		_, err := s.svc.Create(s.ctx, s.newVersion(""), 7)
		s.Require().Error(err)
		s.True(domainerrors.HasCode(err, domainerrors.CodeValidation))
	})

	s.Run("get of unknown id is a coded not-found", func() {
		_, err := s.svc.Get(s.ctx, 9999)
		s.Require().Error(err)
		s.True(domainerrors.HasCode(err, domainerrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestUpdate() {
	id, err := s.svc.Create(s.ctx, s.newVersion("Pantry"), 7)
	s.Require().NoError(err)

	s.Run("update appends a version and stamps the modifier", func() {
		next := s.newVersion("Pantry renamed")
		s.Require().NoError(s.svc.Update(s.ctx, id, next, 8))

		got, err := s.svc.Get(s.ctx, id)
		s.Require().NoError(err)
		s.Equal("Pantry renamed", got.Name)
		s.Equal(int64(2), got.VersionID)
		s.Require().NotNil(got.ModifiedLoginID)
		s.Equal(int64(8), *got.ModifiedLoginID)
		// Creation audit fields survive the update.
		s.Require().NotNil(got.CreatedLoginID)
		s.Equal(int64(7), *got.CreatedLoginID)
	})

	s.Run("update of unknown id is a coded not-found", func() {
		err := s.svc.Update(s.ctx, 9999, s.newVersion("ghost"), 8)
		s.True(domainerrors.HasCode(err, domainerrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestSearch() {
	s.Run("invalid filter is rejected before any query", func() {
		lat := 34.0
		_, err := s.svc.Search(s.ctx, &models.SearchFilter{Latitude: &lat})
		s.Require().Error(err)
		s.True(domainerrors.HasCode(err, domainerrors.CodeValidation))
	})

	s.Run("without an origin distance stays nil and name order holds", func() {
		_, err := s.svc.Create(s.ctx, s.newVersion("Beta Pantry"), 7)
		s.Require().NoError(err)
		_, err = s.svc.Create(s.ctx, s.newVersion("Alpha Pantry"), 7)
		s.Require().NoError(err)

		results, err := s.svc.Search(s.ctx, &models.SearchFilter{})
		s.Require().NoError(err)
		s.Require().Len(results, 2)
		s.Equal("Alpha Pantry", results[0].Name)
		s.Nil(results[0].Distance)
	})

	s.Run("with an origin results are ranked and annotated", func() {
		near := s.newVersion("Near Pantry")
		nearLat, nearLng := 34.06, -118.25
		near.Latitude, near.Longitude = &nearLat, &nearLng
		_, err := s.svc.Create(s.ctx, near, 7)
		s.Require().NoError(err)

		far := s.newVersion("A Far Pantry")
		farLat, farLng := 35.0, -118.2437
		far.Latitude, far.Longitude = &farLat, &farLng
		_, err = s.svc.Create(s.ctx, far, 7)
		s.Require().NoError(err)

		// Radius excludes the coordinate-less records created above, which
		// carry the unknown-distance sentinel.
		originLat, originLng := 34.0522, -118.2437
		results, err := s.svc.Search(s.ctx, &models.SearchFilter{
			Latitude:  &originLat,
			Longitude: &originLng,
			Radius:    100,
		})
		s.Require().NoError(err)
		s.Require().Len(results, 2)
		s.Equal("Near Pantry", results[0].Name)
		s.Require().NotNil(results[0].Distance)
		s.Less(*results[0].Distance, *results[1].Distance)
	})

	s.Run("a persistence failure degrades to an empty result", func() {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		svc := New(&failingSearchStore{Memory: s.store},
			WithLogger(logger),
			WithClock(func() time.Time { return s.now }),
		)

		results, err := svc.Search(s.ctx, &models.SearchFilter{})
		s.Require().NoError(err)
		s.NotNil(results)
		s.Empty(results)
	})
}

func (s *ServiceSuite) TestTransitionsRecordReviewTrail() {
	id, err := s.svc.Create(s.ctx, s.newVersion("Workflow Pantry"), 7)
	s.Require().NoError(err)

	s.Run("assign records unverified to assigned", func() {
		s.Require().NoError(s.svc.Assign(s.ctx, id, 8, 7))

		entries, err := s.reviewLog.ListByStakeholder(s.ctx, id)
		s.Require().NoError(err)
		s.Require().Len(entries, 1)
		s.Equal(models.StatusUnverified, entries[0].FromStatus)
		s.Equal(models.StatusAssigned, entries[0].ToStatus)
		s.Equal(int64(7), entries[0].ActorLoginID)
	})

	s.Run("needsVerification after assign clears the workflow fields", func() {
		s.Require().NoError(s.svc.NeedsVerification(s.ctx, id, 7, "recheck hours"))

		got, err := s.svc.Get(s.ctx, id)
		s.Require().NoError(err)
		s.Nil(got.AssignedLoginID)
		s.Nil(got.SubmittedDate)
		s.Equal(models.StatusUnverified, got.VerificationStatusID)

		entries, err := s.reviewLog.ListByStakeholder(s.ctx, id)
		s.Require().NoError(err)
		s.Require().Len(entries, 2)
		s.Equal(models.StatusAssigned, entries[1].FromStatus)
		s.Equal(models.StatusUnverified, entries[1].ToStatus)
		s.Equal("recheck hours", entries[1].Note)
	})

	s.Run("claim leaves verification status untouched", func() {
		s.Require().NoError(s.svc.Claim(s.ctx, id, 8, true, 7))

		got, err := s.svc.Get(s.ctx, id)
		s.Require().NoError(err)
		s.Require().NotNil(got.ClaimedLoginID)
		s.Equal(int64(8), *got.ClaimedLoginID)
		s.Equal(models.StatusUnverified, got.VerificationStatusID)

		entries, err := s.reviewLog.ListByStakeholder(s.ctx, id)
		s.Require().NoError(err)
		s.Require().Len(entries, 3)
		s.Equal(entries[2].FromStatus, entries[2].ToStatus)
	})

	s.Run("verify toggles the verified pair without moving the workflow", func() {
		s.Require().NoError(s.svc.Verify(s.ctx, id, true, 7))

		got, err := s.svc.Get(s.ctx, id)
		s.Require().NoError(err)
		s.Require().NotNil(got.VerifiedLoginID)
		s.Equal(int64(7), *got.VerifiedLoginID)
		s.NotNil(got.VerifiedDate)
		s.Equal(models.StatusUnverified, got.VerificationStatusID)
		s.Nil(got.ApprovedDate)
		s.Nil(got.RejectedDate)

		entries, err := s.reviewLog.ListByStakeholder(s.ctx, id)
		s.Require().NoError(err)
		s.Require().Len(entries, 4)
		s.Equal(entries[3].FromStatus, entries[3].ToStatus)

		s.Require().NoError(s.svc.Verify(s.ctx, id, false, 7))
		got, err = s.svc.Get(s.ctx, id)
		s.Require().NoError(err)
		s.Nil(got.VerifiedDate)
		s.Nil(got.VerifiedLoginID)
	})

	s.Run("review history reads back through the service", func() {
		entries, err := s.svc.ReviewHistory(s.ctx, id)
		s.Require().NoError(err)
		s.Len(entries, 5)
	})

	s.Run("assign requires a positive assignee", func() {
		err := s.svc.Assign(s.ctx, id, 0, 7)
		s.True(domainerrors.HasCode(err, domainerrors.CodeValidation))
	})

	s.Run("transitions on unknown ids are coded not-found", func() {
		err := s.svc.Assign(s.ctx, 9999, 8, 7)
		s.True(domainerrors.HasCode(err, domainerrors.CodeNotFound))
	})
}

// failingSearchStore delegates everything to the memory store except Search,
// which always fails.
type failingSearchStore struct {
	*store.Memory
}

func (f *failingSearchStore) Search(context.Context, *models.SearchFilter) ([]*models.StakeholderVersion, error) {
	return nil, errors.New("connection refused")
}
