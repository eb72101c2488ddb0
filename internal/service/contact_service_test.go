package service

import (
	"context"
	"testing"

	"contacts-data/internal/domain"
	"contacts-data/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupContactService() *ContactService {
	repo := repository.NewMemoryContactsRepository()
	return NewContactService(repo, zap.NewNop())
}

func TestContactService_CreateAndGet(t *testing.T) {
	svc := setupContactService()
	ctx := context.Background()

	created, err := svc.CreateContact(ctx, domain.ContactCreate{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@example.com",
		PhoneNumber: "+1-555-0100",
		Birthday:    domain.NewDate(1990, 6, 3),
	})
	require.NoError(t, err)

	got, err := svc.GetContact(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *created, *got)
}

func TestContactService_ValidationPropagates(t *testing.T) {
	svc := setupContactService()

	_, err := svc.CreateContact(context.Background(), domain.ContactCreate{})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestContactService_UpdateDeletePassthrough(t *testing.T) {
	svc := setupContactService()
	ctx := context.Background()

	created, err := svc.CreateContact(ctx, domain.ContactCreate{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@example.com",
		PhoneNumber: "+1-555-0100",
		Birthday:    domain.NewDate(1990, 6, 3),
	})
	require.NoError(t, err)

	email := "jane.doe@example.com"
	updated, err := svc.UpdateContact(ctx, created.ID, domain.ContactUpdate{Email: &email})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, email, updated.Email)

	deleted, err := svc.DeleteContact(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)

	// absent 原样透传，不转换为错误
	absent, err := svc.DeleteContact(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestContactService_SearchAndBirthdays(t *testing.T) {
	svc := setupContactService()
	ctx := context.Background()

	_, err := svc.CreateContact(ctx, domain.ContactCreate{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "Jane@X.com",
		PhoneNumber: "+1-555-0100",
		Birthday:    domain.NewDate(1990, 6, 3),
	})
	require.NoError(t, err)

	found, err := svc.SearchContacts(ctx, "jane", 0, 10)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	// 一年窗口必然包含任何生日
	matched, err := svc.UpcomingBirthdays(ctx, 366)
	require.NoError(t, err)
	assert.Len(t, matched, 1)
}
