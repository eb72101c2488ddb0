package service

import (
	"context"

	"contacts-data/internal/domain"
	"contacts-data/internal/repository"

	"go.uber.org/zap"
)

// ContactService 联系人服务
// Repository 之上的编排边界：方法与 Repository 一一对应，
// 鉴权检查、审计日志等横切逻辑挂在这一层，不进 Repository
type ContactService struct {
	contactsRepo repository.ContactsRepository
	logger       *zap.Logger
}

// NewContactService 创建联系人服务
func NewContactService(contactsRepo repository.ContactsRepository, logger *zap.Logger) *ContactService {
	return &ContactService{
		contactsRepo: contactsRepo,
		logger:       logger,
	}
}

func (s *ContactService) ListContacts(ctx context.Context, skip, limit int) ([]domain.Contact, error) {
	return s.contactsRepo.ListContacts(ctx, skip, limit)
}

func (s *ContactService) GetContact(ctx context.Context, id int64) (*domain.Contact, error) {
	return s.contactsRepo.GetContact(ctx, id)
}

func (s *ContactService) CreateContact(ctx context.Context, payload domain.ContactCreate) (*domain.Contact, error) {
	created, err := s.contactsRepo.CreateContact(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.logger.Info("contact created",
		zap.Int64("contact_id", created.ID),
		zap.String("email", created.Email),
	)
	return created, nil
}

func (s *ContactService) UpdateContact(ctx context.Context, id int64, patch domain.ContactUpdate) (*domain.Contact, error) {
	updated, err := s.contactsRepo.UpdateContact(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if updated != nil {
		s.logger.Info("contact updated", zap.Int64("contact_id", id))
	}
	return updated, nil
}

func (s *ContactService) DeleteContact(ctx context.Context, id int64) (*domain.Contact, error) {
	deleted, err := s.contactsRepo.DeleteContact(ctx, id)
	if err != nil {
		return nil, err
	}
	if deleted != nil {
		s.logger.Info("contact deleted", zap.Int64("contact_id", id))
	}
	return deleted, nil
}

func (s *ContactService) SearchContacts(ctx context.Context, query string, skip, limit int) ([]domain.Contact, error) {
	return s.contactsRepo.SearchContacts(ctx, query, skip, limit)
}

func (s *ContactService) UpcomingBirthdays(ctx context.Context, days int) ([]domain.Contact, error) {
	return s.contactsRepo.UpcomingBirthdays(ctx, days)
}
