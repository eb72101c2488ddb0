package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreate() ContactCreate {
	return ContactCreate{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@example.com",
		PhoneNumber: "+1-555-0100",
		Birthday:    NewDate(1990, 6, 3),
	}
}

func TestContactCreate_Validate(t *testing.T) {
	assert.NoError(t, validCreate().Validate())

	// required 字段为空
	p := validCreate()
	p.FirstName = ""
	var ve *ValidationError
	err := p.Validate()
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "first_name", ve.Field)

	// 长度超限
	p = validCreate()
	p.Email = strings.Repeat("x", 101)
	err = p.Validate()
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)

	// birthday 必填
	p = validCreate()
	p.Birthday = Date{}
	err = p.Validate()
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "birthday", ve.Field)

	// additional_data 可选但限长
	p = validCreate()
	p.AdditionalData = strings.Repeat("x", 151)
	err = p.Validate()
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "additional_data", ve.Field)
}

func TestContactUpdate_Validate(t *testing.T) {
	// 空载荷合法（什么都不改）
	assert.NoError(t, ContactUpdate{}.Validate())

	// 不允许把 required 字段清空
	empty := ""
	var ve *ValidationError
	err := ContactUpdate{PhoneNumber: &empty}.Validate()
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "phone_number", ve.Field)

	long := strings.Repeat("x", 51)
	err = ContactUpdate{LastName: &long}.Validate()
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "last_name", ve.Field)
}

func TestContactUpdate_ApplyTo(t *testing.T) {
	original := Contact{
		ID:          7,
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@example.com",
		PhoneNumber: "+1-555-0100",
		Birthday:    NewDate(1990, 6, 3),
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	phone := "+1-555-0199"
	merged := ContactUpdate{PhoneNumber: &phone}.ApplyTo(original)

	// 只有 phone_number 变化，其余字段保留
	assert.Equal(t, phone, merged.PhoneNumber)
	assert.Equal(t, original.FirstName, merged.FirstName)
	assert.Equal(t, original.LastName, merged.LastName)
	assert.Equal(t, original.Email, merged.Email)
	assert.Equal(t, original.Birthday, merged.Birthday)

	// 入参不被修改（值语义合并）
	assert.Equal(t, "+1-555-0100", original.PhoneNumber)
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(1990, 6, 3)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1990-06-03"`, string(b))

	var parsed Date
	require.NoError(t, json.Unmarshal([]byte(`"1990-06-03"`), &parsed))
	assert.Equal(t, d, parsed)

	// 非法格式报错
	assert.Error(t, json.Unmarshal([]byte(`"06/03/1990"`), &parsed))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(1990, 6, 3, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, NewDate(1990, 6, 3), d)

	require.NoError(t, d.Scan([]byte("1988-12-31")))
	assert.Equal(t, NewDate(1988, 12, 31), d)
}
