package validators

import (
	"net/http"
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/angelmondragon/pricesnapshot/pkg/errors"
)

// QueryString returns the trimmed query parameter, cut to maxLen runes.
func QueryString(r *http.Request, key string, maxLen int) string {
	return SanitizeString(r.URL.Query().Get(key), maxLen)
}

// RequireQuery is QueryString that fails with MISSING_INPUT when the
// parameter is blank.
func RequireQuery(r *http.Request, key string, maxLen int, message string) (string, error) {
	value := QueryString(r, key, maxLen)
	if value == "" {
		return "", pkgerrors.New(pkgerrors.CodeMissingInput, message).WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 || utf8.RuneCountInString(trimmed) <= maxLen {
		return trimmed
	}
	runes := []rune(trimmed)
	return strings.TrimSpace(string(runes[:maxLen]))
}
