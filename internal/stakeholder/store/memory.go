package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Mloh16/food-oasis/internal/stakeholder/models"
	"github.com/Mloh16/food-oasis/pkg/platform/sentinel"
)

// Memory is an in-memory stakeholder store with the same observable
// behavior as the Postgres store. Used by unit tests and local development.
type Memory struct {
	mu         sync.RWMutex
	nextID     int64
	versions   map[int64][]*models.StakeholderVersion
	logins     map[int64]string
	categories map[int64]string
}

// NewMemory constructs an empty in-memory stakeholder store.
func NewMemory() *Memory {
	return &Memory{
		nextID:     1,
		versions:   make(map[int64][]*models.StakeholderVersion),
		logins:     make(map[int64]string),
		categories: make(map[int64]string),
	}
}

// SeedLogin registers a login display name for denormalized reads.
func (m *Memory) SeedLogin(id int64, displayName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logins[id] = displayName
}

// SeedCategory registers a category reference row.
func (m *Memory) SeedCategory(id int64, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[id] = name
}

func (m *Memory) Create(_ context.Context, v *models.StakeholderVersion) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	stored := cloneVersion(v)
	stored.ID = id
	stored.VersionID = 1
	m.versions[id] = []*models.StakeholderVersion{stored}
	return id, nil
}

func (m *Memory) CreateVersion(_ context.Context, id int64, v *models.StakeholderVersion) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	history, ok := m.versions[id]
	if !ok {
		return 0, sentinel.ErrNotFound
	}
	prev := history[len(history)-1]
	stored := cloneVersion(v)
	stored.ID = id
	stored.VersionID = prev.VersionID + 1
	stored.CreatedDate = prev.CreatedDate
	stored.CreatedLoginID = prev.CreatedLoginID
	m.versions[id] = append(history, stored)
	return stored.VersionID, nil
}

func (m *Memory) Current(_ context.Context, id int64) (*models.StakeholderVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history, ok := m.versions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return m.render(history[len(history)-1]), nil
}

func (m *Memory) Search(_ context.Context, f *models.SearchFilter) ([]*models.StakeholderVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]*models.StakeholderVersion, 0)
	for _, history := range m.versions {
		current := history[len(history)-1]
		if matchesFilter(current, f) {
			results = append(results, m.render(current))
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return strings.ToLower(results[i].Name) < strings.ToLower(results[j].Name)
	})
	return results, nil
}

func (m *Memory) Remove(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.versions[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(m.versions, id)
	return nil
}

func (m *Memory) Assign(_ context.Context, id, assigneeID, actorID int64, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, err := m.current(id)
	if err != nil {
		return err
	}
	current.AssignedLoginID = ptrInt(assigneeID)
	current.AssignedDate = ptrTime(now)
	current.SubmittedDate = nil
	current.SubmittedLoginID = nil
	current.ApprovedDate = nil
	current.ReviewedLoginID = nil
	current.VerificationStatusID = models.StatusAssigned
	stamp(current, actorID, now)
	return nil
}

func (m *Memory) NeedsVerification(_ context.Context, id, actorID int64, message string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, err := m.current(id)
	if err != nil {
		return err
	}
	current.AssignedLoginID = nil
	current.AssignedDate = nil
	current.SubmittedDate = nil
	current.SubmittedLoginID = nil
	current.ApprovedDate = nil
	current.ReviewedLoginID = nil
	current.VerificationStatusID = models.StatusUnverified
	if message != "" {
		if current.ReviewNotes != "" {
			current.ReviewNotes += "\n\n" + message
		} else {
			current.ReviewNotes = message
		}
	}
	stamp(current, actorID, now)
	return nil
}

func (m *Memory) Claim(_ context.Context, id, claimantID int64, setClaimed bool, actorID int64, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, err := m.current(id)
	if err != nil {
		return err
	}
	if setClaimed {
		current.ClaimedLoginID = ptrInt(claimantID)
		current.ClaimedDate = ptrTime(now)
	} else {
		current.ClaimedLoginID = nil
		current.ClaimedDate = nil
	}
	stamp(current, actorID, now)
	return nil
}

func (m *Memory) Verify(_ context.Context, id int64, setVerified bool, actorID int64, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, err := m.current(id)
	if err != nil {
		return err
	}
	if setVerified {
		current.VerifiedDate = ptrTime(now)
		current.VerifiedLoginID = ptrInt(actorID)
	} else {
		current.VerifiedDate = nil
		current.VerifiedLoginID = nil
	}
	stamp(current, actorID, now)
	return nil
}

func (m *Memory) Categories(_ context.Context) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	categories := make([]models.Category, 0, len(m.categories))
	for id, name := range m.categories {
		categories = append(categories, models.Category{ID: id, Name: name})
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// VersionCount reports how many versions exist for a stakeholder. Test
// helper; the Postgres store has no equivalent.
func (m *Memory) VersionCount(id int64) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.versions[id])
}

func (m *Memory) current(id int64) (*models.StakeholderVersion, error) {
	history, ok := m.versions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return history[len(history)-1], nil
}

// render returns a copy with display names and category names resolved,
// mirroring what the Postgres read queries denormalize.
func (m *Memory) render(v *models.StakeholderVersion) *models.StakeholderVersion {
	out := cloneVersion(v)
	out.CreatedUser = m.loginName(v.CreatedLoginID)
	out.ModifiedUser = m.loginName(v.ModifiedLoginID)
	out.SubmittedUser = m.loginName(v.SubmittedLoginID)
	out.ReviewedUser = m.loginName(v.ReviewedLoginID)
	out.AssignedUser = m.loginName(v.AssignedLoginID)
	out.ClaimedUser = m.loginName(v.ClaimedLoginID)
	for i := range out.Categories {
		if name, ok := m.categories[out.Categories[i].ID]; ok {
			out.Categories[i].Name = name
		}
	}
	sort.Slice(out.Categories, func(i, j int) bool {
		return out.Categories[i].Name < out.Categories[j].Name
	})
	return out
}

func (m *Memory) loginName(id *int64) string {
	if id == nil {
		return ""
	}
	return m.logins[*id]
}

func matchesFilter(v *models.StakeholderVersion, f *models.SearchFilter) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(v.Name), strings.ToLower(f.Name)) {
		return false
	}
	if len(f.CategoryIDs) > 0 && !hasAnyCategory(v, f.CategoryIDs) {
		return false
	}
	if !matchesNullCheck(v.AssignedDate, f.IsAssigned) {
		return false
	}
	if !matchesNullCheck(v.SubmittedDate, f.IsSubmitted) {
		return false
	}
	if !matchesNullCheck(v.ApprovedDate, f.IsApproved) {
		return false
	}
	if !matchesNullCheck(v.RejectedDate, f.IsRejected) {
		return false
	}
	if !matchesNullCheck(v.ClaimedDate, f.IsClaimed) {
		return false
	}
	if f.IsInactive != nil && v.Inactive != *f.IsInactive {
		return false
	}
	if f.AssignedLoginID > 0 && (v.AssignedLoginID == nil || *v.AssignedLoginID != f.AssignedLoginID) {
		return false
	}
	if f.ClaimedLoginID > 0 && (v.ClaimedLoginID == nil || *v.ClaimedLoginID != f.ClaimedLoginID) {
		return false
	}
	if f.VerificationStatusID > 0 && int64(v.VerificationStatusID) != f.VerificationStatusID {
		return false
	}
	return true
}

func matchesNullCheck(date *time.Time, want *bool) bool {
	if want == nil {
		return true
	}
	return (date != nil) == *want
}

func hasAnyCategory(v *models.StakeholderVersion, ids []int64) bool {
	for _, c := range v.Categories {
		for _, id := range ids {
			if c.ID == id {
				return true
			}
		}
	}
	return false
}

func cloneVersion(v *models.StakeholderVersion) *models.StakeholderVersion {
	out := *v
	out.Hours = append([]models.ScheduleEntry(nil), v.Hours...)
	out.Categories = append([]models.Category(nil), v.Categories...)
	out.Latitude = clonePtr(v.Latitude)
	out.Longitude = clonePtr(v.Longitude)
	out.Distance = clonePtr(v.Distance)
	out.CreatedDate = clonePtr(v.CreatedDate)
	out.CreatedLoginID = clonePtr(v.CreatedLoginID)
	out.ModifiedDate = clonePtr(v.ModifiedDate)
	out.ModifiedLoginID = clonePtr(v.ModifiedLoginID)
	out.SubmittedDate = clonePtr(v.SubmittedDate)
	out.SubmittedLoginID = clonePtr(v.SubmittedLoginID)
	out.ApprovedDate = clonePtr(v.ApprovedDate)
	out.RejectedDate = clonePtr(v.RejectedDate)
	out.ReviewedLoginID = clonePtr(v.ReviewedLoginID)
	out.AssignedDate = clonePtr(v.AssignedDate)
	out.AssignedLoginID = clonePtr(v.AssignedLoginID)
	out.ClaimedDate = clonePtr(v.ClaimedDate)
	out.ClaimedLoginID = clonePtr(v.ClaimedLoginID)
	out.VerifiedDate = clonePtr(v.VerifiedDate)
	out.VerifiedLoginID = clonePtr(v.VerifiedLoginID)
	if out.Hours == nil {
		out.Hours = []models.ScheduleEntry{}
	}
	if out.Categories == nil {
		out.Categories = []models.Category{}
	}
	return &out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// stamp records the acting user on a mutated version, as every transition
// does.
func stamp(v *models.StakeholderVersion, actorID int64, now time.Time) {
	v.ModifiedLoginID = ptrInt(actorID)
	v.ModifiedDate = ptrTime(now)
}

func ptrInt(i int64) *int64 { return &i }

func ptrTime(t time.Time) *time.Time {
	u := t.UTC()
	return &u
}
