package domain

import (
	"fmt"
	"time"
)

// Contact 联系人领域模型（对应 contacts 表）
type Contact struct {
	ID             int64     `db:"id" json:"id"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	Email          string    `db:"email" json:"email"`
	PhoneNumber    string    `db:"phone_number" json:"phone_number"`
	Birthday       Date      `db:"birthday" json:"birthday"`
	AdditionalData string    `db:"additional_data" json:"additional_data,omitempty"` // nullable
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// 字段长度约束（与 contacts 表的 VARCHAR 长度一致）
const (
	maxFirstNameLen      = 50
	maxLastNameLen       = 50
	maxEmailLen          = 100
	maxPhoneNumberLen    = 20
	maxAdditionalDataLen = 150
)

// ValidationError 载荷字段校验错误（在到达存储层之前返回）
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func requireLen(field, value string, max int) error {
	if value == "" {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	if len(value) > max {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must be at most %d characters", max)}
	}
	return nil
}

// ContactCreate 创建联系人载荷：除 additional_data 外全部必填
type ContactCreate struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	Birthday       Date   `json:"birthday"`
	AdditionalData string `json:"additional_data,omitempty"`
}

func (p ContactCreate) Validate() error {
	if err := requireLen("first_name", p.FirstName, maxFirstNameLen); err != nil {
		return err
	}
	if err := requireLen("last_name", p.LastName, maxLastNameLen); err != nil {
		return err
	}
	if err := requireLen("email", p.Email, maxEmailLen); err != nil {
		return err
	}
	if err := requireLen("phone_number", p.PhoneNumber, maxPhoneNumberLen); err != nil {
		return err
	}
	if p.Birthday.IsZero() {
		return &ValidationError{Field: "birthday", Reason: "is required"}
	}
	if len(p.AdditionalData) > maxAdditionalDataLen {
		return &ValidationError{Field: "additional_data", Reason: fmt.Sprintf("must be at most %d characters", maxAdditionalDataLen)}
	}
	return nil
}

// ContactUpdate 部分更新载荷：nil 表示不修改该字段
// required 字段不允许通过部分更新清空
type ContactUpdate struct {
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	Email          *string `json:"email,omitempty"`
	PhoneNumber    *string `json:"phone_number,omitempty"`
	Birthday       *Date   `json:"birthday,omitempty"`
	AdditionalData *string `json:"additional_data,omitempty"`
}

func (p ContactUpdate) Validate() error {
	if p.FirstName != nil {
		if err := requireLen("first_name", *p.FirstName, maxFirstNameLen); err != nil {
			return err
		}
	}
	if p.LastName != nil {
		if err := requireLen("last_name", *p.LastName, maxLastNameLen); err != nil {
			return err
		}
	}
	if p.Email != nil {
		if err := requireLen("email", *p.Email, maxEmailLen); err != nil {
			return err
		}
	}
	if p.PhoneNumber != nil {
		if err := requireLen("phone_number", *p.PhoneNumber, maxPhoneNumberLen); err != nil {
			return err
		}
	}
	if p.Birthday != nil && p.Birthday.IsZero() {
		return &ValidationError{Field: "birthday", Reason: "must be a valid date"}
	}
	if p.AdditionalData != nil && len(*p.AdditionalData) > maxAdditionalDataLen {
		return &ValidationError{Field: "additional_data", Reason: fmt.Sprintf("must be at most %d characters", maxAdditionalDataLen)}
	}
	return nil
}

// ApplyTo 把部分更新合并到已有记录上，返回新值（不修改入参）
// updated_at 由存储层刷新，这里不动时间戳
func (p ContactUpdate) ApplyTo(c Contact) Contact {
	if p.FirstName != nil {
		c.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		c.LastName = *p.LastName
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.PhoneNumber != nil {
		c.PhoneNumber = *p.PhoneNumber
	}
	if p.Birthday != nil {
		c.Birthday = *p.Birthday
	}
	if p.AdditionalData != nil {
		c.AdditionalData = *p.AdditionalData
	}
	return c
}
