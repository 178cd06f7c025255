package docstore

import (
	"bytes"
	"encoding/json"
)

// normalize converts any value into its decoded JSON form so that stored
// trees only hold maps, slices, strings, bools, json.Number and nil.
func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return decode(b)
}

func decode(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func getIn(node any, segs []string) (any, bool) {
	cur := node
	for _, s := range segs {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[s]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// setIn writes v at segs below root, replacing non-object intermediates.
func setIn(root map[string]any, segs []string, v any) {
	cur := root
	for _, s := range segs[:len(segs)-1] {
		next, ok := cur[s].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[s] = next
		}
		cur = next
	}
	cur[segs[len(segs)-1]] = v
}

func deleteIn(root map[string]any, segs []string) {
	cur := root
	for _, s := range segs[:len(segs)-1] {
		next, ok := cur[s].(map[string]any)
		if !ok {
			return
		}
		cur = next
	}
	delete(cur, segs[len(segs)-1])
}

// merge returns node with the top-level fields of partial applied. A node
// that is missing or not an object is replaced.
func merge(node any, partial map[string]any) map[string]any {
	out, ok := node.(map[string]any)
	if !ok {
		out = make(map[string]any, len(partial))
	}
	for k, v := range partial {
		out[k] = v
	}
	return out
}
