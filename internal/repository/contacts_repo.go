package repository

import (
	"context"

	"contacts-data/internal/domain"
)

// ContactsRepository 联系人Repository接口
// 使用强类型领域模型，不使用map[string]any
//
// 结果约定：GetContact / UpdateContact / DeleteContact 对不存在的 id 返回 (nil, nil)，
// "不存在"不是错误；存储层故障统一包装为 *StoreError。
type ContactsRepository interface {
	// ListContacts 分页列表（按 id 升序，skip 超出总数时返回空切片）
	ListContacts(ctx context.Context, skip, limit int) ([]domain.Contact, error)

	// GetContact 点查
	GetContact(ctx context.Context, id int64) (*domain.Contact, error)

	// CreateContact 插入新记录（id/created_at/updated_at 由存储层分配），
	// 返回完整记录；载荷校验失败返回 *domain.ValidationError
	CreateContact(ctx context.Context, payload domain.ContactCreate) (*domain.Contact, error)

	// UpdateContact 部分更新：只覆盖载荷中出现的字段，刷新 updated_at，
	// 返回更新后的记录
	UpdateContact(ctx context.Context, id int64, patch domain.ContactUpdate) (*domain.Contact, error)

	// DeleteContact 硬删除，返回删除前的记录；重复删除返回 (nil, nil)
	DeleteContact(ctx context.Context, id int64) (*domain.Contact, error)

	// SearchContacts 大小写不敏感的子串搜索（first_name/last_name/email/
	// phone_number/additional_data 任一字段命中即返回），空 query 匹配全部
	SearchContacts(ctx context.Context, query string, skip, limit int) ([]domain.Contact, error)

	// UpcomingBirthdays 未来 days 天内过生日的联系人（只比较月/日，见 domain.InBirthdayWindow）
	UpcomingBirthdays(ctx context.Context, days int) ([]domain.Contact, error)
}
