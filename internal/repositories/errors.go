package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when an insert violates the unique email index.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrDuplicateUsername is returned when an insert violates the unique username index.
	ErrDuplicateUsername = errors.New("username already exists")
)

// classifyUniqueViolation maps a unique-index violation onto the column it hit, or returns nil.
// The dialect decides whether err is a duplicate key; the raw driver text only names the index
// ("users.email" on sqlite, "idx_users_email" on postgres), since gorm.ErrDuplicatedKey drops it.
func classifyUniqueViolation(db *gorm.DB, err error) error {
	translator, ok := db.Dialector.(gorm.ErrorTranslator)
	if !ok || !errors.Is(translator.Translate(err), gorm.ErrDuplicatedKey) {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "username"):
		return ErrDuplicateUsername
	case strings.Contains(msg, "email"):
		return ErrDuplicateEmail
	}
	return nil
}
