package repository

import (
	"context"
	"database/sql"

	"contacts-data/internal/domain"
)

// PostgresContactsRepository 联系人Repository实现
// 实现ContactsRepository接口，使用domain.Contact领域模型
type PostgresContactsRepository struct {
	db *sql.DB
}

// NewPostgresContactsRepository 创建联系人Repository
func NewPostgresContactsRepository(db *sql.DB) *PostgresContactsRepository {
	return &PostgresContactsRepository{db: db}
}

// 确保实现了接口
var _ ContactsRepository = (*PostgresContactsRepository)(nil)

// contactColumns SELECT 列清单（additional_data 可空，统一折算为空串）
const contactColumns = `
	id,
	first_name,
	last_name,
	email,
	phone_number,
	birthday,
	COALESCE(additional_data, '') AS additional_data,
	created_at,
	updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.PhoneNumber,
		&c.Birthday,
		&c.AdditionalData,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectContacts(rows *sql.Rows) ([]domain.Contact, error) {
	defer rows.Close()

	contacts := []domain.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return contacts, nil
}

// ListContacts 分页查询联系人列表
func (r *PostgresContactsRepository) ListContacts(ctx context.Context, skip, limit int) ([]domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts ORDER BY id OFFSET $1 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, skip, limit)
	if err != nil {
		return nil, storeErr("list contacts", err)
	}
	contacts, err := collectContacts(rows)
	if err != nil {
		return nil, storeErr("list contacts", err)
	}
	return contacts, nil
}

// GetContact 根据 id 获取联系人；不存在返回 (nil, nil)
func (r *PostgresContactsRepository) GetContact(ctx context.Context, id int64) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

	c, err := scanContact(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, storeErr("get contact", err)
	}
	return c, nil
}

// CreateContact 插入新联系人，id/created_at/updated_at 由 DB 分配
func (r *PostgresContactsRepository) CreateContact(ctx context.Context, payload domain.ContactCreate) (*domain.Contact, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO contacts (first_name, last_name, email, phone_number, birthday, additional_data)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING ` + contactColumns

	c, err := scanContact(r.db.QueryRowContext(ctx, query,
		payload.FirstName,
		payload.LastName,
		payload.Email,
		payload.PhoneNumber,
		payload.Birthday,
		payload.AdditionalData,
	))
	if err != nil {
		return nil, storeErr("create contact", err)
	}
	return c, nil
}

// UpdateContact 部分更新：事务内读取当前记录（FOR UPDATE），合并载荷后写回
// 不存在返回 (nil, nil)
func (r *PostgresContactsRepository) UpdateContact(ctx context.Context, id int64, patch domain.ContactUpdate) (*domain.Contact, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr("update contact", err)
	}
	defer tx.Rollback()

	current, err := scanContact(tx.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, storeErr("update contact", err)
	}

	merged := patch.ApplyTo(*current)

	updated, err := scanContact(tx.QueryRowContext(ctx, `
		UPDATE contacts
		SET first_name = $2,
		    last_name = $3,
		    email = $4,
		    phone_number = $5,
		    birthday = $6,
		    additional_data = NULLIF($7, ''),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+contactColumns,
		id,
		merged.FirstName,
		merged.LastName,
		merged.Email,
		merged.PhoneNumber,
		merged.Birthday,
		merged.AdditionalData,
	))
	if err != nil {
		return nil, storeErr("update contact", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr("update contact", err)
	}
	return updated, nil
}

// DeleteContact 硬删除并返回删除前的记录；不存在返回 (nil, nil)，幂等
func (r *PostgresContactsRepository) DeleteContact(ctx context.Context, id int64) (*domain.Contact, error) {
	query := `DELETE FROM contacts WHERE id = $1 RETURNING ` + contactColumns

	c, err := scanContact(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, storeErr("delete contact", err)
	}
	return c, nil
}

// SearchContacts 大小写不敏感的子串搜索（五个文本字段 OR），空 query 匹配全部
func (r *PostgresContactsRepository) SearchContacts(ctx context.Context, query string, skip, limit int) ([]domain.Contact, error) {
	stmt := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE first_name ILIKE $1
		   OR last_name ILIKE $1
		   OR email ILIKE $1
		   OR phone_number ILIKE $1
		   OR COALESCE(additional_data, '') ILIKE $1
		ORDER BY id
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, stmt, "%"+query+"%", skip, limit)
	if err != nil {
		return nil, storeErr("search contacts", err)
	}
	contacts, err := collectContacts(rows)
	if err != nil {
		return nil, storeErr("search contacts", err)
	}
	return contacts, nil
}

// UpcomingBirthdays 未来 days 天内过生日的联系人
// 两个候选日期覆盖跨年：生日月/日配今年年份、配明年年份，任一落在
// [CURRENT_DATE, CURRENT_DATE + days] 即命中。
// make_date(y, m, 1) + (day - 1) 的写法让 2月29日在非闰年归一化为3月1日，
// 与 domain.InBirthdayWindow 的 Go 实现保持同一策略。
func (r *PostgresContactsRepository) UpcomingBirthdays(ctx context.Context, days int) ([]domain.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE (make_date(EXTRACT(YEAR FROM CURRENT_DATE)::int, EXTRACT(MONTH FROM birthday)::int, 1)
		         + (EXTRACT(DAY FROM birthday)::int - 1))
		      BETWEEN CURRENT_DATE AND CURRENT_DATE + $1
		   OR (make_date(EXTRACT(YEAR FROM CURRENT_DATE)::int + 1, EXTRACT(MONTH FROM birthday)::int, 1)
		         + (EXTRACT(DAY FROM birthday)::int - 1))
		      BETWEEN CURRENT_DATE AND CURRENT_DATE + $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, days)
	if err != nil {
		return nil, storeErr("upcoming birthdays", err)
	}
	contacts, err := collectContacts(rows)
	if err != nil {
		return nil, storeErr("upcoming birthdays", err)
	}
	return contacts, nil
}
