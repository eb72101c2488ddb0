package repository

import (
	"context"
	"testing"
	"time"

	"contacts-data/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedContact(t *testing.T, repo *MemoryContactsRepository, first, last, email, phone string, birthday domain.Date) *domain.Contact {
	t.Helper()
	c, err := repo.CreateContact(context.Background(), domain.ContactCreate{
		FirstName:   first,
		LastName:    last,
		Email:       email,
		PhoneNumber: phone,
		Birthday:    birthday,
	})
	require.NoError(t, err)
	return c
}

func TestMemoryContacts_CreateGetRoundTrip(t *testing.T) {
	repo := NewMemoryContactsRepository()
	ctx := context.Background()

	created := seedContact(t, repo, "Jane", "Doe", "jane@example.com", "+1-555-0100", domain.NewDate(1990, 6, 3))
	assert.Equal(t, int64(1), created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.CreatedAt.After(created.UpdatedAt))

	got, err := repo.GetContact(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *created, *got)
}

func TestMemoryContacts_CreateValidation(t *testing.T) {
	repo := NewMemoryContactsRepository()

	_, err := repo.CreateContact(context.Background(), domain.ContactCreate{
		FirstName: "NoOtherFields",
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestMemoryContacts_GetAbsent(t *testing.T) {
	repo := NewMemoryContactsRepository()

	got, err := repo.GetContact(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryContacts_UpdatePreservesOmittedFields(t *testing.T) {
	repo := NewMemoryContactsRepository()
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base }

	created := seedContact(t, repo, "Jane", "Doe", "jane@example.com", "+1-555-0100", domain.NewDate(1990, 6, 3))

	repo.now = func() time.Time { return base.Add(time.Hour) }
	phone := "+1-555-0199"
	updated, err := repo.UpdateContact(ctx, created.ID, domain.ContactUpdate{PhoneNumber: &phone})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, phone, updated.PhoneNumber)
	assert.Equal(t, created.FirstName, updated.FirstName)
	assert.Equal(t, created.LastName, updated.LastName)
	assert.Equal(t, created.Email, updated.Email)
	assert.Equal(t, created.Birthday, updated.Birthday)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	// updated_at 严格递增
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestMemoryContacts_UpdateAbsent(t *testing.T) {
	repo := NewMemoryContactsRepository()

	phone := "+1-555-0199"
	updated, err := repo.UpdateContact(context.Background(), 42, domain.ContactUpdate{PhoneNumber: &phone})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestMemoryContacts_DeleteIdempotent(t *testing.T) {
	repo := NewMemoryContactsRepository()
	ctx := context.Background()

	created := seedContact(t, repo, "Jane", "Doe", "jane@example.com", "+1-555-0100", domain.NewDate(1990, 6, 3))

	// 第一次删除返回删除前的记录
	deleted, err := repo.DeleteContact(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, *created, *deleted)

	// 第二次删除返回 absent，不报错
	again, err := repo.DeleteContact(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, again)

	got, err := repo.GetContact(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryContacts_SearchCaseInsensitiveOR(t *testing.T) {
	repo := NewMemoryContactsRepository()
	ctx := context.Background()

	seedContact(t, repo, "Jane", "Doe", "Jane@X.com", "+1-555-0100", domain.NewDate(1990, 6, 3))
	seedContact(t, repo, "Bob", "Smith", "bob@example.com", "+1-555-0101", domain.NewDate(1985, 1, 1))

	// email 大小写不敏感命中
	found, err := repo.SearchContacts(ctx, "jane", 0, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Jane@X.com", found[0].Email)

	// phone_number 命中
	found, err = repo.SearchContacts(ctx, "0101", 0, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Bob", found[0].FirstName)

	// 空 query 匹配全部
	found, err = repo.SearchContacts(ctx, "", 0, 10)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	// 无命中返回空切片
	found, err = repo.SearchContacts(ctx, "nobody", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestMemoryContacts_Pagination(t *testing.T) {
	repo := NewMemoryContactsRepository()
	ctx := context.Background()

	for i, name := range []string{"A", "B", "C", "D"} {
		seedContact(t, repo, name, "Last", name+"@example.com", "+1-555-010"+name, domain.NewDate(1990, time.Month(i+1), 1))
	}

	first, err := repo.ListContacts(ctx, 0, 2)
	require.NoError(t, err)
	second, err := repo.ListContacts(ctx, 2, 2)
	require.NoError(t, err)

	require.Len(t, first, 2)
	require.Len(t, second, 2)

	// 两页不相交，并集为全部4条
	seen := map[int64]bool{}
	for _, c := range append(first, second...) {
		assert.False(t, seen[c.ID], "contact %d returned twice", c.ID)
		seen[c.ID] = true
	}
	assert.Len(t, seen, 4)

	// skip 超出总数返回空切片
	third, err := repo.ListContacts(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, third)
}

func TestMemoryContacts_UpcomingBirthdays(t *testing.T) {
	repo := NewMemoryContactsRepository()
	ctx := context.Background()

	// 固定 today = 2024-12-28
	repo.now = func() time.Time { return time.Date(2024, 12, 28, 10, 0, 0, 0, time.UTC) }

	wrap := seedContact(t, repo, "Newyear", "Kid", "ny@example.com", "+1-555-0102", domain.NewDate(1992, 1, 3))
	seedContact(t, repo, "Already", "Past", "past@example.com", "+1-555-0103", domain.NewDate(1970, 12, 20))
	inYear := seedContact(t, repo, "Yearend", "Match", "ye@example.com", "+1-555-0104", domain.NewDate(1988, 12, 30))

	matched, err := repo.UpcomingBirthdays(ctx, 10)
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, wrap.ID, matched[0].ID)
	assert.Equal(t, inYear.ID, matched[1].ID)

	// days=0 只匹配当天
	repo.now = func() time.Time { return time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC) }
	matched, err = repo.UpcomingBirthdays(ctx, 0)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, inYear.ID, matched[0].ID)
}
