package repository

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"gorm sentinel", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm sentinel", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), true},
		{"postgres sqlstate", errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`), true},
		{"driver message only", errors.New("duplicate key value violates unique constraint"), true},
		{"other constraint", errors.New("ERROR: null value in column (SQLSTATE 23502)"), false},
		{"plain failure", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestConflictField(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"email index", errors.New(`duplicate key value violates unique constraint "idx_users_email"`), "email"},
		{"phone index", errors.New(`duplicate key value violates unique constraint "idx_users_phone_number"`), "phone_number"},
		{"uppercase message", errors.New(`duplicate key on IDX_USERS_EMAIL`), "email"},
		{"unrecognized constraint", errors.New("duplicate key value violates unique constraint \"idx_something\""), "field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := conflictField(tt.err); got != tt.want {
				t.Errorf("conflictField(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}
