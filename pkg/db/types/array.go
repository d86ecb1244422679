package dbtypes

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TextArray maps a postgres text[] column. SQLite stores the same literal as TEXT.
type TextArray []string

func (a *TextArray) Scan(src any) error {
	raw, err := scanLiteral("TextArray", src)
	if err != nil {
		return err
	}
	*a = TextArray(splitLiteral(raw))
	return nil
}

func (a TextArray) Value() (driver.Value, error) {
	quoted := make([]string, 0, len(a))
	for _, v := range a {
		quoted = append(quoted, `"`+strings.ReplaceAll(v, `"`, `\"`)+`"`)
	}
	return "{" + strings.Join(quoted, ",") + "}", nil
}

// UUIDArray maps a postgres uuid[] column.
type UUIDArray []uuid.UUID

func (a *UUIDArray) Scan(src any) error {
	raw, err := scanLiteral("UUIDArray", src)
	if err != nil {
		return err
	}
	parts := splitLiteral(raw)
	out := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(p)
		if err != nil {
			return fmt.Errorf("UUIDArray: parse %q: %w", p, err)
		}
		out = append(out, id)
	}
	*a = UUIDArray(out)
	return nil
}

func (a UUIDArray) Value() (driver.Value, error) {
	parts := make([]string, 0, len(a))
	for _, id := range a {
		parts = append(parts, id.String())
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

func scanLiteral(typeName string, src any) (string, error) {
	switch v := src.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("%s: unsupported Scan type %T", typeName, src)
	}
}

// splitLiteral parses a one-dimensional postgres array literal such as {a,"b c"}.
func splitLiteral(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	if strings.TrimSpace(s) == "" {
		return []string{}
	}

	out := []string{}
	var current strings.Builder
	inQuotes := false
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			out = append(out, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	out = append(out, strings.TrimSpace(current.String()))
	return out
}
