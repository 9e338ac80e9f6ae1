// Package handle encodes documents as self-contained opaque strings.
// A handle carries the entire document, so any process holding one can
// resume building; nothing is registered in server memory and handles
// survive restarts and load-balanced retries.
package handle

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/wudi/docsmith/doc"
)

// ErrInvalidHandle is returned for strings that do not decode to a
// document envelope.
var ErrInvalidHandle = errors.New("handle: invalid document handle")

const version = 1

// envelope is the versioned wire form. Payload is the gzip-compressed
// document JSON; kind and id are duplicated outside it so Peek can
// answer without inflating.
type envelope struct {
	V       int      `json:"v"`
	Kind    doc.Kind `json:"kind"`
	ID      string   `json:"id"`
	Payload []byte   `json:"payload"`
}

// Encode serializes d into an opaque handle string. Documents without
// an ID are assigned one, so the identity survives round trips.
func Encode(d *doc.Document) (string, error) {
	if d == nil {
		return "", fmt.Errorf("handle: nil document")
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}

	raw, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("handle: marshal document: %w", err)
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return "", fmt.Errorf("handle: compress document: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("handle: compress document: %w", err)
	}

	env, err := json.Marshal(envelope{V: version, Kind: d.Kind, ID: d.ID, Payload: buf.Bytes()})
	if err != nil {
		return "", fmt.Errorf("handle: marshal envelope: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(env), nil
}

// Decode inflates a handle back into the document it carries.
func Decode(s string) (*doc.Document, error) {
	env, err := decodeEnvelope(s)
	if err != nil {
		return nil, err
	}
	zr, err := gzip.NewReader(bytes.NewReader(env.Payload))
	if err != nil {
		return nil, fmt.Errorf("%w: bad payload: %v", ErrInvalidHandle, err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: bad payload: %v", ErrInvalidHandle, err)
	}
	var d doc.Document
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("%w: bad document: %v", ErrInvalidHandle, err)
	}
	if d.ID == "" {
		d.ID = env.ID
	}
	return &d, nil
}

// DecodeKind decodes a handle and checks it carries the wanted
// document kind.
func DecodeKind(s string, want doc.Kind) (*doc.Document, error) {
	d, err := Decode(s)
	if err != nil {
		return nil, err
	}
	if d.Kind != want {
		return nil, fmt.Errorf("%w: is a %s, want %s", ErrInvalidHandle, d.Kind, want)
	}
	return d, nil
}

// Peek returns the kind and id without inflating the document.
func Peek(s string) (doc.Kind, string, error) {
	env, err := decodeEnvelope(s)
	if err != nil {
		return "", "", err
	}
	return env.Kind, env.ID, nil
}

func decodeEnvelope(s string) (*envelope, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidHandle
	}
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHandle, err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHandle, err)
	}
	if env.V != version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidHandle, env.V)
	}
	return &env, nil
}
