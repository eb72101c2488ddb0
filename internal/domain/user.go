package domain

import "time"

// User 用户领域模型（对应 users 表）
// 只承载认证所需的最小字段集
type User struct {
	// UserID UUID 主键；Email 唯一，作为登录标识
	UserID       string    `db:"user_id" json:"user_id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash []byte    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
