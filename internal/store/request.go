package store

import (
	"context"
	"errors"
	"maps"
)

// ErrUnsupportedOp is returned when an executor receives an operation it cannot run.
var ErrUnsupportedOp = errors.New("unsupported operation")

// ErrMissingTable is returned when a request does not name a table.
var ErrMissingTable = errors.New("request has no table")

// Row is a single backend row keyed by column name.
type Row map[string]any

// Op is the kind of operation a Request performs.
type Op string

const (
	OpSelect Op = "select"
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Filter is an equality condition on a column.
type Filter struct {
	Column string
	Value  any
}

// Order sorts select results by a single column.
type Order struct {
	Column    string
	Ascending bool
}

// Request describes one operation against a table. Requests are values: every
// builder method returns a copy and never touches the receiver's slices.
type Request struct {
	Op      Op
	Table   string
	Filters []Filter
	Sort    *Order
	Rows    []Row
	Patch   Row
}

// Executor runs a Request against a backend. Nothing happens until Execute is called.
type Executor interface {
	Execute(ctx context.Context, req Request) ([]Row, error)
}

// Select builds a select request over table.
func Select(table string) Request {
	return Request{Op: OpSelect, Table: table}
}

// Insert builds an insert request for rows.
func Insert(table string, rows ...Row) Request {
	cp := make([]Row, len(rows))
	for i, r := range rows {
		cp[i] = maps.Clone(r)
	}
	return Request{Op: OpInsert, Table: table, Rows: cp}
}

// Update builds an update request merging patch into matching rows.
func Update(table string, patch Row) Request {
	return Request{Op: OpUpdate, Table: table, Patch: maps.Clone(patch)}
}

// Delete builds a delete request.
func Delete(table string) Request {
	return Request{Op: OpDelete, Table: table}
}

// Eq returns a copy of r with an extra equality filter.
func (r Request) Eq(column string, value any) Request {
	filters := make([]Filter, len(r.Filters), len(r.Filters)+1)
	copy(filters, r.Filters)
	r.Filters = append(filters, Filter{Column: column, Value: value})
	return r
}

// Order returns a copy of r sorted by column.
func (r Request) Order(column string, ascending bool) Request {
	r.Sort = &Order{Column: column, Ascending: ascending}
	return r
}

func (r Request) validate() error {
	if r.Table == "" {
		return ErrMissingTable
	}
	switch r.Op {
	case OpSelect, OpInsert, OpUpdate, OpDelete:
		return nil
	}
	return ErrUnsupportedOp
}
