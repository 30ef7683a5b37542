package sales

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"sales_dashboard/internal/store"
)

func TestMapper_RoundTrip(t *testing.T) {
	cases := []Sale{
		{
			ID:             "a1",
			ConsultantName: "Ana Silva",
			ClientName:     "Transportadora Veloz",
			Type:           HeavyMachinery,
			Value:          decimal.RequireFromString("450000.123456789"),
			Date:           "2024-05-10",
			Status:         Approved,
		},
		{
			ConsultantName: "Carlos",
			ClientName:     "João, Ferreira",
			Type:           ConsortiumType("Barco"),
			Value:          decimal.Zero,
			Date:           "2024-01-01",
			Status:         Status("???"),
		},
	}

	for _, s := range cases {
		if diff := cmp.Diff(s, ToDomain(ToStorage(s))); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestToStorage_ColumnNames(t *testing.T) {
	row := ToStorage(Sale{
		ID:             "1",
		ConsultantName: "Ana",
		ClientName:     "João",
		Type:           Automobile,
		Value:          decimal.NewFromInt(10),
		Date:           "2024-05-10",
		Status:         Pending,
	})

	assert.Equal(t, "1", row["id"])
	assert.Equal(t, "Ana", row["consultant_name"])
	assert.Equal(t, "João", row["client_name"])
	assert.Equal(t, "Automóvel", row["type"])
	assert.Equal(t, "2024-05-10", row["date"])
	assert.Equal(t, "Pendente", row["status"])
}

func TestToStorage_OmitsEmptyID(t *testing.T) {
	row := ToStorage(Sale{ConsultantName: "Ana"})
	_, ok := row["id"]
	assert.False(t, ok)
}

func TestToDomain_CoercesValues(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"float", 80000.5, "80000.5"},
		{"int", 12, "12"},
		{"json number", json.Number("99.99"), "99.99"},
		{"string", "1500.25", "1500.25"},
		{"garbage", "abc", "0"},
		{"missing", nil, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ToDomain(store.Row{"value": tt.value})
			assert.True(t, decimal.RequireFromString(tt.want).Equal(s.Value), "got %s", s.Value)
		})
	}
}

func TestToDomain_DateFromTime(t *testing.T) {
	s := ToDomain(store.Row{"date": time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)})
	assert.Equal(t, "2024-05-12", s.Date)
}
