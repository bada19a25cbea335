package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateDriverDuplicates(t *testing.T) {
	cases := []struct {
		name, table, msg, column string
	}{
		{"sqlite", "users", "UNIQUE constraint failed: users.email (2067)", "email"},
		{"postgres", "users", `ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`, "email"},
		{"mysql", "newsletter_subscribers", "Error 1062 (23000): Duplicate entry 'a@example.org' for key 'newsletter_subscribers.idx_newsletter_subscribers_email'", "email"},
		{"sqlserver", "password_reset_tokens", "mssql: Cannot insert duplicate key row in object 'dbo.password_reset_tokens' with unique index 'idx_password_reset_tokens_token'. The duplicate key value is (abc).", "token"},
		{"unknown index", "users", "duplicate key value violates unique constraint \"users_pkey\"", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := translate(errors.New(tc.msg), tc.table)
			var conflict *ConflictError
			if assert.True(t, errors.As(err, &conflict)) {
				assert.Equal(t, tc.column, conflict.Column)
			}
		})
	}
}

func TestTranslatePassesOtherErrors(t *testing.T) {
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound, "users"), ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey, "users"), ErrConflict)

	boom := errors.New("connection reset")
	assert.Equal(t, boom, translate(boom, "users"))
	assert.NoError(t, translate(nil, "users"))
}
