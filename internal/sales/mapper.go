package sales

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"sales_dashboard/internal/store"
)

// Table is the backend table holding sales.
const Table = "sales"

const (
	colID         = "id"
	colConsultant = "consultant_name"
	colClient     = "client_name"
	colType       = "type"
	colValue      = "value"
	colDate       = "date"
	colStatus     = "status"
)

// ToDomain converts a backend row into a Sale. Missing or mistyped columns map
// to zero values; enum values are not checked.
func ToDomain(row store.Row) Sale {
	return Sale{
		ID:             text(row[colID]),
		ConsultantName: text(row[colConsultant]),
		ClientName:     text(row[colClient]),
		Type:           ConsortiumType(text(row[colType])),
		Value:          number(row[colValue]),
		Date:           date(row[colDate]),
		Status:         Status(text(row[colStatus])),
	}
}

// ToStorage converts a Sale into a backend row. An empty ID is left out so the
// backend can assign one.
func ToStorage(s Sale) store.Row {
	row := store.Row{
		colConsultant: s.ConsultantName,
		colClient:     s.ClientName,
		colType:       string(s.Type),
		colValue:      s.Value,
		colDate:       s.Date,
		colStatus:     string(s.Status),
	}
	if s.ID != "" {
		row[colID] = s.ID
	}
	return row
}

func text(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprint(v)
}

func number(v any) decimal.Decimal {
	switch n := v.(type) {
	case decimal.Decimal:
		return n
	case float64:
		if !math.IsNaN(n) && !math.IsInf(n, 0) {
			return decimal.NewFromFloat(n)
		}
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case json.Number:
		if d, err := decimal.NewFromString(n.String()); err == nil {
			return d
		}
	case string:
		if d, err := decimal.NewFromString(n); err == nil {
			return d
		}
	}
	return decimal.Zero
}

func date(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.Format(time.DateOnly)
	}
	return text(v)
}
