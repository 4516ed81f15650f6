package journal

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var opaqueUserID = regexp.MustCompile(`^[A-Za-z0-9._@:-]{1,128}$`)

// ParseUserID canonicalises a user identifier. UUIDs in any accepted spelling
// become the lower-case hyphenated form; other ids must be short and free of
// whitespace and path separators.
func ParseUserID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if u, err := uuid.Parse(s); err == nil {
		return u.String(), nil
	}
	if !opaqueUserID.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidUserID, s)
	}
	return s, nil
}
