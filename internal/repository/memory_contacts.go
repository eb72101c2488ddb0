package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"contacts-data/internal/domain"
)

// MemoryContactsRepository supports the API when DB is disabled, and doubles as the
// store test double in unit tests.
type MemoryContactsRepository struct {
	mu       sync.RWMutex
	contacts map[int64]domain.Contact
	nextID   int64

	// now is swappable in tests (birthday window queries)
	now func() time.Time
}

func NewMemoryContactsRepository() *MemoryContactsRepository {
	return &MemoryContactsRepository{
		contacts: map[int64]domain.Contact{},
		nextID:   1,
		now:      time.Now,
	}
}

var _ ContactsRepository = (*MemoryContactsRepository)(nil)

// sortedContacts id 升序快照（与 Postgres 实现的 ORDER BY id 对齐）
func (r *MemoryContactsRepository) sortedContacts() []domain.Contact {
	all := make([]domain.Contact, 0, len(r.contacts))
	for _, c := range r.contacts {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].ID < all[j].ID
	})
	return all
}

func paginate(all []domain.Contact, skip, limit int) []domain.Contact {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(all) {
		return []domain.Contact{}
	}
	end := skip + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[skip:end]
}

func (r *MemoryContactsRepository) ListContacts(_ context.Context, skip, limit int) ([]domain.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return paginate(r.sortedContacts(), skip, limit), nil
}

func (r *MemoryContactsRepository) GetContact(_ context.Context, id int64) (*domain.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contacts[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *MemoryContactsRepository) CreateContact(_ context.Context, payload domain.ContactCreate) (*domain.Contact, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	c := domain.Contact{
		ID:             r.nextID,
		FirstName:      payload.FirstName,
		LastName:       payload.LastName,
		Email:          payload.Email,
		PhoneNumber:    payload.PhoneNumber,
		Birthday:       payload.Birthday,
		AdditionalData: payload.AdditionalData,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.nextID++
	r.contacts[c.ID] = c
	return &c, nil
}

func (r *MemoryContactsRepository) UpdateContact(_ context.Context, id int64, patch domain.ContactUpdate) (*domain.Contact, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.contacts[id]
	if !ok {
		return nil, nil
	}

	merged := patch.ApplyTo(current)
	merged.UpdatedAt = r.now().UTC()
	r.contacts[id] = merged
	return &merged, nil
}

func (r *MemoryContactsRepository) DeleteContact(_ context.Context, id int64) (*domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.contacts[id]
	if !ok {
		return nil, nil
	}
	delete(r.contacts, id)
	return &c, nil
}

func (r *MemoryContactsRepository) SearchContacts(_ context.Context, query string, skip, limit int) ([]domain.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	matched := []domain.Contact{}
	for _, c := range r.sortedContacts() {
		if q == "" ||
			strings.Contains(strings.ToLower(c.FirstName), q) ||
			strings.Contains(strings.ToLower(c.LastName), q) ||
			strings.Contains(strings.ToLower(c.Email), q) ||
			strings.Contains(strings.ToLower(c.PhoneNumber), q) ||
			strings.Contains(strings.ToLower(c.AdditionalData), q) {
			matched = append(matched, c)
		}
	}
	return paginate(matched, skip, limit), nil
}

func (r *MemoryContactsRepository) UpcomingBirthdays(_ context.Context, days int) ([]domain.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	today := r.now().UTC()
	matched := []domain.Contact{}
	for _, c := range r.sortedContacts() {
		if domain.InBirthdayWindow(c.Birthday, today, days) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}
