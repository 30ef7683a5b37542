package store

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Memory is an in-memory stand-in for the remote backend. Each table is an
// ordered list of rows that lives as long as the Memory value does.
type Memory struct {
	mu     sync.Mutex
	tables map[string][]Row
}

// NewMemory instantiates an empty Memory.
func NewMemory() *Memory {
	return &Memory{
		tables: map[string][]Row{},
	}
}

// Execute runs req against the current contents of the table. A panic raised
// while executing is recovered and returned as the error.
func (m *Memory) Execute(ctx context.Context, req Request) (rows []Row, err error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			rows = nil
			err = fmt.Errorf("memory %s on %s: %v", req.Op, req.Table, r)
		}
	}()

	switch req.Op {
	case OpSelect:
		return m.selectRows(req), nil
	case OpInsert:
		m.insertRows(req)
	case OpUpdate:
		m.updateRows(req)
	case OpDelete:
		m.deleteRows(req)
	}
	return nil, nil
}

// Len reports how many rows table holds.
func (m *Memory) Len(table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tables[table])
}

func (m *Memory) selectRows(req Request) []Row {
	out := make([]Row, 0, len(m.tables[req.Table]))
	for _, row := range m.tables[req.Table] {
		if matches(row, req.Filters) {
			out = append(out, maps.Clone(row))
		}
	}
	if req.Sort != nil {
		col, asc := req.Sort.Column, req.Sort.Ascending
		sort.SliceStable(out, func(i, j int) bool {
			c := compareValues(out[i][col], out[j][col])
			if asc {
				return c < 0
			}
			return c > 0
		})
	}
	return out
}

func (m *Memory) insertRows(req Request) {
	for _, row := range req.Rows {
		r := maps.Clone(row)
		if r == nil {
			r = Row{}
		}
		if id, _ := r["id"].(string); id == "" {
			r["id"] = uuid.NewString()
		}
		m.tables[req.Table] = append(m.tables[req.Table], r)
	}
}

func (m *Memory) updateRows(req Request) {
	for _, row := range m.tables[req.Table] {
		if !matches(row, req.Filters) {
			continue
		}
		for k, v := range req.Patch {
			row[k] = v
		}
	}
}

func (m *Memory) deleteRows(req Request) {
	rows := m.tables[req.Table]
	kept := rows[:0]
	for _, row := range rows {
		if !matches(row, req.Filters) {
			kept = append(kept, row)
		}
	}
	clear(rows[len(kept):])
	m.tables[req.Table] = kept
}

func matches(row Row, filters []Filter) bool {
	for _, f := range filters {
		if !equalValues(row[f.Column], f.Value) {
			return false
		}
	}
	return true
}

func equalValues(a, b any) bool {
	if da, ok := asDecimal(a); ok {
		if db, ok := asDecimal(b); ok {
			return da.Equal(db)
		}
		return false
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// compareValues orders nil first, then numbers, times and strings by their
// natural order. Values of unrelated kinds fall back to their formatted text.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if da, ok := asDecimal(a); ok {
		if db, ok := asDecimal(b); ok {
			return da.Cmp(db)
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return cmp.Compare(sa, sb)
		}
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func asDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case float64:
		return decimal.NewFromFloat(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case int32:
		return decimal.NewFromInt32(n), true
	}
	return decimal.Decimal{}, false
}
