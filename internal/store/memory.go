package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"takatrack-backend/internal/models"
)

// Memory is a Store kept in process memory. A single mutex serializes every
// operation, so ScheduleCollection never creates duplicate bins.
type Memory struct {
	mu sync.Mutex

	nextID      map[string]int64
	users       map[int64]models.User
	bins        map[int64]models.Bin
	collections map[int64]models.Collection
	records     map[int64]models.RecyclingRecord
	tokens      map[string]models.DeviceToken

	now func() time.Time
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		nextID:      make(map[string]int64),
		users:       make(map[int64]models.User),
		bins:        make(map[int64]models.Bin),
		collections: make(map[int64]models.Collection),
		records:     make(map[int64]models.RecyclingRecord),
		tokens:      make(map[string]models.DeviceToken),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (m *Memory) id(kind string) int64 {
	m.nextID[kind]++
	return m.nextID[kind]
}

func (m *Memory) stamp(t *time.Time) {
	if t.IsZero() {
		*t = m.now()
	}
}

func (m *Memory) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
	}

	u.ID = m.id("users")
	m.stamp(&u.CreatedAt)
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CountUsers(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

func (m *Memory) CreateBin(ctx context.Context, b *models.Bin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertBin(b)
	return nil
}

func (m *Memory) insertBin(b *models.Bin) {
	b.ID = m.id("bins")
	m.stamp(&b.CreatedAt)
	m.bins[b.ID] = *b
}

func (m *Memory) ListBins(ctx context.Context) ([]models.Bin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bins := make([]models.Bin, 0, len(m.bins))
	for _, b := range m.bins {
		bins = append(bins, b)
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].ID < bins[j].ID })
	return bins, nil
}

func (m *Memory) CountBins(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bins), nil
}

func (m *Memory) CreateCollection(ctx context.Context, c *models.Collection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertCollection(c)
	return nil
}

func (m *Memory) insertCollection(c *models.Collection) {
	c.ID = m.id("collections")
	m.stamp(&c.CreatedAt)
	stored := *c
	stored.Bin = nil
	m.collections[c.ID] = stored
}

func (m *Memory) ScheduleCollection(ctx context.Context, c *models.Collection, fallback models.Bin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var found *models.Bin
	for _, b := range m.bins {
		if b.Type == fallback.Type && (found == nil || b.ID < found.ID) {
			b := b
			found = &b
		}
	}
	if found == nil {
		bin := fallback
		m.insertBin(&bin)
		found = &bin
	}

	c.BinID = found.ID
	m.insertCollection(c)
	c.Bin = found
	return nil
}

func (m *Memory) ListCollections(ctx context.Context) ([]models.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Collection, 0, len(m.collections))
	for _, c := range m.collections {
		if b, ok := m.bins[c.BinID]; ok {
			c.Bin = &b
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *Memory) GetCollection(ctx context.Context, id int64) (*models.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[id]
	if !ok {
		return nil, ErrNotFound
	}
	if b, ok := m.bins[c.BinID]; ok {
		c.Bin = &b
	}
	return &c, nil
}

func (m *Memory) UpdateCollection(ctx context.Context, id int64, upd CollectionUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[id]
	if !ok {
		return ErrNotFound
	}
	c.Status = upd.Status
	if upd.Weight != nil {
		c.Weight = *upd.Weight
	}
	if upd.CompletedDate != nil {
		t := *upd.CompletedDate
		c.CompletedDate = &t
	}
	m.collections[id] = c
	return nil
}

func (m *Memory) CountCollectionsByStatus(ctx context.Context, status string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.collections {
		if c.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *Memory) ListDriverSummaries(ctx context.Context) ([]models.DriverSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []models.DriverSummary{}
	for _, u := range m.users {
		if u.Role != models.RoleDriver {
			continue
		}
		s := models.DriverSummary{ID: u.ID, Name: u.Name, Phone: u.Phone, Email: u.Email}
		for _, c := range m.collections {
			if c.UserID != u.ID {
				continue
			}
			s.CollectionCount++
			if c.Status == models.CollectionStatusCompleted {
				s.CompletedWeight += c.Weight
			}
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) CreateRecyclingRecord(ctx context.Context, r *models.RecyclingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r.ID = m.id("recycling_records")
	m.stamp(&r.CreatedAt)
	m.records[r.ID] = *r
	return nil
}

func (m *Memory) ListRecyclingRecords(ctx context.Context) ([]models.RecyclingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.RecyclingRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *Memory) RecyclingTotals(ctx context.Context) (RecyclingTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var t RecyclingTotals
	for _, r := range m.records {
		t.Weight += r.Weight
		t.Impact += r.EnvironmentalImpact
	}
	return t, nil
}

func (m *Memory) SaveDeviceToken(ctx context.Context, t *models.DeviceToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if existing, ok := m.tokens[t.Token]; ok {
		t.ID = existing.ID
		t.CreatedAt = existing.CreatedAt
	} else {
		t.ID = m.id("fcm_tokens")
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	m.tokens[t.Token] = *t
	return nil
}

func (m *Memory) ListDeviceTokens(ctx context.Context, userID int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []string{}
	for token, t := range m.tokens {
		if t.UserID == userID {
			out = append(out, token)
		}
	}
	sort.Strings(out)
	return out, nil
}
