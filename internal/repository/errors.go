package repository

import (
	"errors"
	"fmt"
)

// errDuplicateEmail email 唯一约束冲突（内存实现；Postgres 侧由 UNIQUE 约束保证）
var errDuplicateEmail = errors.New("email already registered")

// StoreError 存储层故障（约束冲突、连接失败等）
// 不做重试，直接向调用方传播；底层错误可通过 errors.Unwrap 获取
type StoreError struct {
	Op  string // 失败的操作，如 "create contact"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
