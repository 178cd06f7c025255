package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"opportunity-matcher/internal/database"
)

type querier interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (database.Rows, error)
}

// SQL stores one row per written record in the documents table. A record
// lives at the level it was written: writes beneath an existing record
// rewrite that record, and collection reads assemble their children from
// rows sharing the path prefix.
type SQL struct {
	db database.DB
}

func NewSQL(db database.DB) *SQL {
	return &SQL{db: db}
}

type docRow struct {
	path  string
	value string
}

func (s *SQL) Get(ctx context.Context, path string) (json.RawMessage, error) {
	segs, err := split(path)
	if err != nil {
		return nil, err
	}
	path = strings.Join(segs, "/")

	var out json.RawMessage
	err = s.inTx(ctx, func(q querier) error {
		_, below, node, ok, err := findAncestor(ctx, q, segs)
		if err != nil {
			return err
		}
		if ok {
			v, found := getIn(node, below)
			if !found || v == nil {
				return nil
			}
			out, err = json.Marshal(v)
			return err
		}

		own, err := selectRows(ctx, q, `SELECT path, value FROM documents WHERE path = $1`, path)
		if err != nil {
			return err
		}
		sub, err := selectSubtree(ctx, q, path)
		if err != nil {
			return err
		}

		if len(sub) == 0 {
			if len(own) > 0 {
				out = json.RawMessage(own[0].value)
			}
			return nil
		}

		root := map[string]any{}
		if len(own) > 0 {
			if v, err := decode([]byte(own[0].value)); err == nil {
				if m, ok := v.(map[string]any); ok {
					root = m
				}
			}
		}
		prefix := path + "/"
		for _, r := range sub {
			rel, err := split(strings.TrimPrefix(r.path, prefix))
			if err != nil {
				continue
			}
			v, err := decode([]byte(r.value))
			if err != nil {
				return fmt.Errorf("decode %s: %w", r.path, err)
			}
			setIn(root, rel, v)
		}
		out, err = json.Marshal(root)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQL) Set(ctx context.Context, path string, value any) error {
	segs, err := split(path)
	if err != nil {
		return err
	}
	v, err := normalize(value)
	if err != nil {
		return err
	}
	path = strings.Join(segs, "/")

	return s.inTx(ctx, func(q querier) error {
		anc, below, node, ok, err := findAncestor(ctx, q, segs)
		if err != nil {
			return err
		}
		if ok {
			root := asObject(node)
			if v == nil {
				deleteIn(root, below)
			} else {
				setIn(root, below, v)
			}
			return writeRow(ctx, q, anc, root)
		}

		if err := deleteSubtree(ctx, q, path); err != nil {
			return err
		}
		if v == nil {
			_, err := q.Exec(ctx, `DELETE FROM documents WHERE path = $1`, path)
			return err
		}
		return writeRow(ctx, q, path, v)
	})
}

func (s *SQL) Push(ctx context.Context, path string, value any) (string, error) {
	key, err := NewPushKey()
	if err != nil {
		return "", err
	}
	if err := s.Set(ctx, path+"/"+key, value); err != nil {
		return "", err
	}
	return key, nil
}

func (s *SQL) Update(ctx context.Context, path string, partial map[string]any) error {
	segs, err := split(path)
	if err != nil {
		return err
	}
	p, err := normalize(partial)
	if err != nil {
		return err
	}
	fields, _ := p.(map[string]any)
	path = strings.Join(segs, "/")

	return s.inTx(ctx, func(q querier) error {
		anc, below, node, ok, err := findAncestor(ctx, q, segs)
		if err != nil {
			return err
		}
		if ok {
			root := asObject(node)
			cur, _ := getIn(root, below)
			setIn(root, below, merge(cur, fields))
			return writeRow(ctx, q, anc, root)
		}

		own, err := selectRows(ctx, q, `SELECT path, value FROM documents WHERE path = $1`, path)
		if err != nil {
			return err
		}
		if len(own) > 0 {
			if s.db.Dialect() == database.DialectPostgres {
				merged, err := mergeJSONB(ctx, q, path, fields)
				if err != nil || merged {
					return err
				}
			}
			cur, err := decode([]byte(own[0].value))
			if err != nil {
				return fmt.Errorf("decode %s: %w", path, err)
			}
			return writeRow(ctx, q, path, merge(cur, fields))
		}

		sub, err := selectSubtree(ctx, q, path)
		if err != nil {
			return err
		}
		if len(sub) == 0 {
			return writeRow(ctx, q, path, merge(nil, fields))
		}

		// path is a collection: each field replaces one child.
		for k, v := range fields {
			child := path + "/" + url.PathEscape(k)
			if err := deleteSubtree(ctx, q, child); err != nil {
				return err
			}
			if err := writeRow(ctx, q, child, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQL) Delete(ctx context.Context, path string) error {
	segs, err := split(path)
	if err != nil {
		return err
	}
	path = strings.Join(segs, "/")

	return s.inTx(ctx, func(q querier) error {
		anc, below, node, ok, err := findAncestor(ctx, q, segs)
		if err != nil {
			return err
		}
		if ok {
			root := asObject(node)
			deleteIn(root, below)
			return writeRow(ctx, q, anc, root)
		}

		if _, err := q.Exec(ctx, `DELETE FROM documents WHERE path = $1`, path); err != nil {
			return err
		}
		return deleteSubtree(ctx, q, path)
	})
}

func (s *SQL) inTx(ctx context.Context, fn func(q querier) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// findAncestor returns the deepest stored record strictly above segs.
func findAncestor(ctx context.Context, q querier, segs []string) (string, []string, any, bool, error) {
	if len(segs) < 2 {
		return "", nil, nil, false, nil
	}

	placeholders := make([]string, 0, len(segs)-1)
	args := make([]any, 0, len(segs)-1)
	for i := 1; i < len(segs); i++ {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i))
		args = append(args, strings.Join(segs[:i], "/"))
	}

	rows, err := selectRows(ctx, q,
		`SELECT path, value FROM documents WHERE path IN (`+strings.Join(placeholders, ", ")+`)`,
		args...,
	)
	if err != nil {
		return "", nil, nil, false, err
	}
	if len(rows) == 0 {
		return "", nil, nil, false, nil
	}

	best := rows[0]
	for _, r := range rows[1:] {
		if len(r.path) > len(best.path) {
			best = r
		}
	}
	node, err := decode([]byte(best.value))
	if err != nil {
		return "", nil, nil, false, fmt.Errorf("decode %s: %w", best.path, err)
	}
	depth := strings.Count(best.path, "/") + 1
	return best.path, segs[depth:], node, true, nil
}

func selectRows(ctx context.Context, q querier, query string, args ...any) ([]docRow, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]docRow, 0)
	for rows.Next() {
		var r docRow
		if err := rows.Scan(&r.path, &r.value); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func selectSubtree(ctx context.Context, q querier, path string) ([]docRow, error) {
	prefix := path + "/"
	return selectRows(ctx, q,
		`SELECT path, value FROM documents WHERE substr(path, 1, $1) = $2 ORDER BY path`,
		len(prefix), prefix,
	)
}

func deleteSubtree(ctx context.Context, q querier, path string) error {
	prefix := path + "/"
	_, err := q.Exec(ctx, `DELETE FROM documents WHERE substr(path, 1, $1) = $2`, len(prefix), prefix)
	return err
}

func writeRow(ctx context.Context, q querier, path string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, `
INSERT INTO documents (path, value, updated_at) VALUES ($1, $2, CURRENT_TIMESTAMP)
ON CONFLICT (path) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		path, string(b),
	)
	return err
}

// mergeJSONB applies fields to an object record in place. It reports false
// when the stored value is not an object and has to be rewritten instead.
func mergeJSONB(ctx context.Context, q querier, path string, fields map[string]any) (bool, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return false, err
	}
	n, err := q.Exec(ctx, `
UPDATE documents SET value = value || $1::jsonb, updated_at = now()
WHERE path = $2 AND jsonb_typeof(value) = 'object'`,
		string(b), path,
	)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func asObject(node any) map[string]any {
	if m, ok := node.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
