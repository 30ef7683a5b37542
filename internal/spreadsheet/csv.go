package spreadsheet

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sales_dashboard/internal/sales"
)

// ErrNoValidRows is returned when an import contains no acceptable row.
var ErrNoValidRows = errors.New("nenhuma venda válida encontrada no arquivo")

// Policy decides what happens to rows whose type or status label is unknown.
type Policy int

const (
	// CoerceUnknown maps unknown types to Automobile and unknown statuses to Pending.
	CoerceUnknown Policy = iota
	// RejectUnknown skips rows with unknown labels. A missing status column is
	// still read as Pending.
	RejectUnknown
)

// Header is the first line written by WriteCSV.
var Header = []string{"ID", "Data", "Consultor", "Cliente", "Tipo", "Valor", "Status"}

const (
	colDate = iota + 1
	colConsultant
	colClient
	colType
	colValue
	colStatus
)

// ImportResult is the outcome of parsing an import file.
type ImportResult struct {
	Sales   []sales.Sale
	Skipped int
}

// ParseCSV reads the import format: a header line, then one sale per non-blank
// line. Rows without a date, a consultant or a numeric value are skipped. Every
// accepted sale gets a new ID; the file's ID column is ignored.
func ParseCSV(text string, policy Policy) (*ImportResult, error) {
	lines := strings.Split(text, "\n")
	res := &ImportResult{Sales: []sales.Sale{}}

	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		s, ok := parseRow(splitLine(line), policy)
		if !ok {
			res.Skipped++
			continue
		}
		res.Sales = append(res.Sales, s)
	}

	if len(res.Sales) == 0 {
		return res, ErrNoValidRows
	}
	return res, nil
}

func parseRow(cols []string, policy Policy) (sales.Sale, bool) {
	if len(cols) < colStatus {
		return sales.Sale{}, false
	}

	date, consultant := cols[colDate], cols[colConsultant]
	value, err := decimal.NewFromString(cols[colValue])
	if date == "" || consultant == "" || err != nil {
		return sales.Sale{}, false
	}

	typ := sales.ConsortiumType(cols[colType])
	if !typ.Valid() {
		if policy == RejectUnknown {
			return sales.Sale{}, false
		}
		typ = sales.Automobile
	}

	status := sales.Pending
	if len(cols) > colStatus {
		st := sales.Status(cols[colStatus])
		switch {
		case st.Valid():
			status = st
		case policy == RejectUnknown:
			return sales.Sale{}, false
		}
	}

	return sales.Sale{
		ID:             uuid.NewString(),
		ConsultantName: consultant,
		ClientName:     cols[colClient],
		Type:           typ,
		Value:          value,
		Date:           date,
		Status:         status,
	}, true
}

// splitLine splits on commas followed by an even number of double quotes up to
// the end of the line, then trims each column and strips one surrounding quote
// on each side.
func splitLine(line string) []string {
	after := make([]int, len(line)+1)
	for i := len(line) - 1; i >= 0; i-- {
		after[i] = after[i+1]
		if line[i] == '"' {
			after[i]++
		}
	}

	var cols []string
	start := 0
	for i := 0; i < len(line); i++ {
		if line[i] == ',' && after[i+1]%2 == 0 {
			cols = append(cols, clean(line[start:i]))
			start = i + 1
		}
	}
	return append(cols, clean(line[start:]))
}

func clean(col string) string {
	col = strings.TrimSpace(col)
	col = strings.TrimPrefix(col, `"`)
	col = strings.TrimSuffix(col, `"`)
	return strings.ReplaceAll(col, `""`, `"`)
}

// WriteCSV writes sales in the export format. Names are always quoted and
// values carry two decimal places.
func WriteCSV(w io.Writer, list []sales.Sale) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(Header, ",")); err != nil {
		return err
	}
	for _, s := range list {
		_, err := fmt.Fprintf(bw, "\n%s,%s,%s,%s,%s,%s,%s",
			s.ID,
			s.Date,
			quote(s.ConsultantName),
			quote(s.ClientName),
			s.Type,
			s.Value.StringFixed(2),
			s.Status,
		)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
