package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ErrInvalidToken is returned for tokens that do not decode to a cursor.
var ErrInvalidToken = errors.New("invalid pagination token")

// Cursor is the opaque pagination state we encode/decode.
// Offset indexes into a ranked snapshot; Anchor is the id of the item just
// before Offset, so a page boundary that moved can be detected.
type Cursor struct {
	Offset int    `json:"offset"`
	Anchor string `json:"anchor,omitempty"`
}

// Encode converts a Cursor into a Base64 string.
func Encode(c Cursor) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Decode parses a Base64 string into a Cursor.
// Empty token → empty cursor (first page).
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, nil
	}

	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, ErrInvalidToken
	}

	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil || c.Offset < 0 {
		return Cursor{}, ErrInvalidToken
	}
	return c, nil
}

// PageSize clamps a requested page size to (0, MaxPageSize].
func PageSize(requested int32) int {
	switch {
	case requested <= 0:
		return DefaultPageSize
	case requested > MaxPageSize:
		return MaxPageSize
	default:
		return int(requested)
	}
}

// Page slices items starting at the cursor in token. It returns the page
// and the token of the next page, nil on the last page. id names items for
// the cursor anchor.
func Page[T any](items []T, token *string, size int, id func(T) string) ([]T, *string, error) {
	var raw string
	if token != nil {
		raw = *token
	}
	c, err := Decode(raw)
	if err != nil {
		return nil, nil, err
	}

	start := c.Offset
	if start > len(items) {
		start = len(items)
	}
	// snapshot shifted under the cursor: restart after the anchor if it moved
	if c.Anchor != "" && (start == 0 || id(items[start-1]) != c.Anchor) {
		for i, it := range items {
			if id(it) == c.Anchor {
				start = i + 1
				break
			}
		}
	}

	end := min(start+size, len(items))
	page := items[start:end]

	var next *string
	if end < len(items) {
		tok, err := Encode(Cursor{Offset: end, Anchor: id(items[end-1])})
		if err != nil {
			return nil, nil, err
		}
		next = &tok
	}
	return page, next, nil
}
