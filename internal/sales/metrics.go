package sales

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Metrics holds the headline numbers of the dashboard.
type Metrics struct {
	TotalVolume   decimal.Decimal `json:"totalVolume"`
	TotalCount    int             `json:"totalCount"`
	AvgTicket     decimal.Decimal `json:"avgTicket"`
	TopConsultant string          `json:"topConsultant"`
	Approved      int             `json:"approved"`
	Pending       int             `json:"pending"`
	Cancelled     int             `json:"cancelled"`
}

// Point is one value of a chart series.
type Point struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// Dashboard bundles the metrics and series the overview screen draws.
type Dashboard struct {
	Metrics      Metrics `json:"metrics"`
	ByType       []Point `json:"byType"`
	ByConsultant []Point `json:"byConsultant"`
	OverTime     []Point `json:"overTime"`
}

// Summarize computes totals, average ticket and the consultant with the highest
// volume. With no sales the top consultant is "N/A".
func Summarize(sales []Sale) Metrics {
	m := Metrics{TopConsultant: "N/A"}
	for _, s := range sales {
		m.TotalVolume = m.TotalVolume.Add(s.Value)
		m.TotalCount++
		switch s.Status {
		case Approved:
			m.Approved++
		case Pending:
			m.Pending++
		case Cancelled:
			m.Cancelled++
		}
	}
	if m.TotalCount > 0 {
		m.AvgTicket = m.TotalVolume.Div(decimal.NewFromInt(int64(m.TotalCount)))
	}

	best := decimal.Zero
	for _, p := range ByConsultant(sales) {
		if p.Value.GreaterThan(best) {
			best = p.Value
			m.TopConsultant = p.Label
		}
	}
	return m
}

// ByType sums values per consortium type, in the order types first appear.
func ByType(sales []Sale) []Point {
	return sumBy(sales, func(s Sale) string { return string(s.Type) })
}

// ByConsultant sums values per consultant, largest first.
func ByConsultant(sales []Sale) []Point {
	points := sumBy(sales, func(s Sale) string { return s.ConsultantName })
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Value.GreaterThan(points[j].Value)
	})
	return points
}

// OverTime sums values per day, oldest day first.
func OverTime(sales []Sale) []Point {
	points := sumBy(sales, func(s Sale) string { return s.Date })
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Label < points[j].Label
	})
	return points
}

// BuildDashboard computes every dashboard figure for sales.
func BuildDashboard(sales []Sale) Dashboard {
	return Dashboard{
		Metrics:      Summarize(sales),
		ByType:       ByType(sales),
		ByConsultant: ByConsultant(sales),
		OverTime:     OverTime(sales),
	}
}

func sumBy(sales []Sale, key func(Sale) string) []Point {
	index := map[string]int{}
	points := make([]Point, 0)
	for _, s := range sales {
		k := key(s)
		i, ok := index[k]
		if !ok {
			i = len(points)
			index[k] = i
			points = append(points, Point{Label: k})
		}
		points[i].Value = points[i].Value.Add(s.Value)
	}
	return points
}
