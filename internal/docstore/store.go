// Package docstore is a hierarchical JSON document store addressed by
// slash-separated paths. A collection is the object of its children, so a
// Get on a collection path returns every record beneath it keyed by child
// name.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidPath   = errors.New("docstore: invalid path")
	ErrNotCollection = errors.New("docstore: value is not a collection")
)

type Store interface {
	// Get returns nil, nil when nothing is stored at path.
	Get(ctx context.Context, path string) (json.RawMessage, error)
	// Set overwrites the record at path, including anything beneath it.
	Set(ctx context.Context, path string, value any) error
	// Push stores value under a new child of path and returns the child key.
	// Keys sort in insertion order.
	Push(ctx context.Context, path string, value any) (string, error)
	// Update merges the top-level fields of partial into the record at path.
	Update(ctx context.Context, path string, partial map[string]any) error
	// Delete removes the record at path and everything beneath it.
	Delete(ctx context.Context, path string) error
}

// Join builds a path from raw segments, escaping each one so that
// user-supplied names never introduce extra levels.
func Join(segments ...string) (string, error) {
	if len(segments) == 0 {
		return "", ErrInvalidPath
	}
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if strings.TrimSpace(s) == "" {
			return "", ErrInvalidPath
		}
		parts = append(parts, url.PathEscape(s))
	}
	return strings.Join(parts, "/"), nil
}

func split(path string) ([]string, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil, ErrInvalidPath
	}
	segs := strings.Split(path, "/")
	for _, s := range segs {
		if s == "" {
			return nil, ErrInvalidPath
		}
	}
	return segs, nil
}

// NewPushKey returns a time-ordered unique key.
func NewPushKey() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

type Child struct {
	Key   string
	Value json.RawMessage
}

// Children decodes a collection read into its children ordered by key,
// which is insertion order for pushed records.
func Children(raw json.RawMessage) ([]Child, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, ErrNotCollection
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Child, 0, len(keys))
	for _, k := range keys {
		out = append(out, Child{Key: k, Value: m[k]})
	}
	return out, nil
}

// Last keeps the newest n children. n <= 0 keeps everything.
func Last(children []Child, n int) []Child {
	if n <= 0 || len(children) <= n {
		return children
	}
	return children[len(children)-n:]
}
