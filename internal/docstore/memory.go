package docstore

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory keeps the whole tree in process. It backs development runs and
// tests.
type Memory struct {
	mu   sync.RWMutex
	root map[string]any
}

func NewMemory() *Memory {
	return &Memory{root: map[string]any{}}
}

func (m *Memory) Get(ctx context.Context, path string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	segs, err := split(path)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	node, ok := getIn(m.root, segs)
	if !ok || node == nil {
		return nil, nil
	}
	return json.Marshal(node)
}

func (m *Memory) Set(ctx context.Context, path string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	segs, err := split(path)
	if err != nil {
		return err
	}
	v, err := normalize(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if v == nil {
		deleteIn(m.root, segs)
		return nil
	}
	setIn(m.root, segs, v)
	return nil
}

func (m *Memory) Push(ctx context.Context, path string, value any) (string, error) {
	key, err := NewPushKey()
	if err != nil {
		return "", err
	}
	if err := m.Set(ctx, path+"/"+key, value); err != nil {
		return "", err
	}
	return key, nil
}

func (m *Memory) Update(ctx context.Context, path string, partial map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	segs, err := split(path)
	if err != nil {
		return err
	}
	p, err := normalize(partial)
	if err != nil {
		return err
	}
	fields, _ := p.(map[string]any)

	m.mu.Lock()
	defer m.mu.Unlock()

	node, _ := getIn(m.root, segs)
	setIn(m.root, segs, merge(node, fields))
	return nil
}

func (m *Memory) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	segs, err := split(path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	deleteIn(m.root, segs)
	return nil
}
