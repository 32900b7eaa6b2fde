package participant

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	displayNameMinLength = 2
	displayNameMaxLength = 24
)

type Participant struct {
	ID          string
	DisplayName string
	Email       string
	IsAdmin     bool
	CreatedAt   time.Time
}

// ValidateDisplayName defines what a storable display name is: trimmed,
// 2–24 runes, no control characters.
func ValidateDisplayName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed != name {
		return fmt.Errorf("display name must not have leading or trailing whitespace")
	}
	length := utf8.RuneCountInString(name)
	if length < displayNameMinLength {
		return fmt.Errorf("display name must be at least %d characters", displayNameMinLength)
	}
	if length > displayNameMaxLength {
		return fmt.Errorf("display name must be at most %d characters", displayNameMaxLength)
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("display name must not contain control characters")
		}
	}
	return nil
}
