// Package diff computes a nested structural delta between two
// JSON-shaped values (nil, bool, json.Number, string, time.Time,
// []any, map[string]any). It exists to derive per-field audit
// messages from before/after toggle records without a hand-written
// comparator per field.
package diff

import (
	"encoding/json"
	"time"
)

// Delta is the difference at one node. A node is either a leaf
// (Previous/Current hold the two unequal values) or a container
// (Keys for records, Items for sequences). A nil *Delta means the
// values did not differ.
type Delta struct {
	Previous any
	Current  any
	Keys     map[string]*Delta
	Items    []*Delta
}

// Leaf reports whether the delta is a scalar change.
func (d *Delta) Leaf() bool {
	return d != nil && d.Keys == nil && d.Items == nil
}

// Field returns the delta for a record key, or nil. Safe on nil and
// on leaf deltas.
func (d *Delta) Field(key string) *Delta {
	if d == nil || d.Keys == nil {
		return nil
	}
	return d.Keys[key]
}

// Classifiers are tried in a fixed order; the first whose type
// predicate matches either side decides the comparison. The order
// matters: sequences and records must win before their elements are
// interpreted as scalars.
var classifiers []func(a, b any) *Delta

func init() {
	classifiers = []func(a, b any) *Delta{
		handleArray,
		handleBoolean,
		handleDate,
		handleNumber,
		handleObject,
		handleString,
	}
}

// Get returns the delta between a and b, or nil when equal.
func Get(a, b any) *Delta {
	for _, fn := range classifiers {
		if d := fn(a, b); d != nil {
			return d
		}
	}
	return nil
}

func leaf(a, b any) *Delta {
	return &Delta{Previous: a, Current: b}
}

func handleArray(a, b any) *Delta {
	as, aok := a.([]any)
	bs, bok := b.([]any)
	if !aok && !bok {
		return nil
	}
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	items := make([]*Delta, n)
	for i := 0; i < n; i++ {
		var av, bv any
		if i < len(as) {
			av = as[i]
		}
		if i < len(bs) {
			bv = bs[i]
		}
		items[i] = Get(av, bv)
	}
	return &Delta{Items: items}
}

func handleBoolean(a, b any) *Delta {
	if _, ok := a.(bool); !ok {
		if _, ok := b.(bool); !ok {
			return nil
		}
	}
	if a != b {
		return leaf(a, b)
	}
	return nil
}

func handleDate(a, b any) *Delta {
	at, aok := a.(time.Time)
	bt, bok := b.(time.Time)
	if !aok && !bok {
		return nil
	}
	if aok && bok && at.Equal(bt) {
		return nil
	}
	return leaf(a, b)
}

func isNumber(v any) bool {
	switch v.(type) {
	case json.Number, float64, float32, int, int32, int64:
		return true
	}
	return false
}

func handleNumber(a, b any) *Delta {
	if !isNumber(a) && !isNumber(b) {
		return nil
	}
	if a != b {
		return leaf(a, b)
	}
	return nil
}

func handleObject(a, b any) *Delta {
	am, aok := a.(map[string]any)
	bm, bok := b.(map[string]any)
	if !aok && !bok {
		return nil
	}
	keys := make(map[string]*Delta)
	for k := range am {
		if d := Get(am[k], bm[k]); d != nil {
			keys[k] = d
		}
	}
	for k := range bm {
		if _, seen := am[k]; seen {
			continue
		}
		if d := Get(nil, bm[k]); d != nil {
			keys[k] = d
		}
	}
	return &Delta{Keys: keys}
}

func handleString(a, b any) *Delta {
	if _, ok := a.(string); !ok {
		if _, ok := b.(string); !ok {
			return nil
		}
	}
	if a != b {
		return leaf(a, b)
	}
	return nil
}
