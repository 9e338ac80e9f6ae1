package integrations

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// CursorVersion is the current cursor schema version.
const CursorVersion = 1

// ErrInvalidCursor reports a pagination cursor that does not decode.
var ErrInvalidCursor = errors.New("integrations: invalid pagination cursor")

// Cursor is the opaque pagination state handed back to callers
// between list calls. It carries whichever of the three paging styles
// the provider uses: a provider-issued continuation token, a page
// number, or a result offset.
type Cursor struct {
	Version int    `json:"v"`
	Service string `json:"svc,omitempty"`
	Token   string `json:"token,omitempty"`
	Page    int    `json:"page,omitempty"`
	Offset  int    `json:"offset,omitempty"`
}

// Encode serializes the cursor to an opaque string. Encoding a nil
// cursor yields "", the "start from the beginning" value.
func (c *Cursor) Encode() string {
	if c == nil {
		return ""
	}
	c.Version = CursorVersion
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeCursor parses an opaque cursor string. An empty string decodes
// to a fresh cursor; anything malformed or from another schema version
// is ErrInvalidCursor.
func DecodeCursor(s string) (*Cursor, error) {
	if s == "" {
		return &Cursor{Version: CursorVersion}, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, ErrInvalidCursor
	}
	if c.Version != CursorVersion {
		return nil, ErrInvalidCursor
	}
	return &c, nil
}
