package sales

import "sort"

// Filter narrows a list of sales the way the history table does. Empty fields
// do not filter; dates are inclusive YYYY-MM-DD bounds.
type Filter struct {
	StartDate  string `form:"start" json:"start"`
	EndDate    string `form:"end" json:"end"`
	Consultant string `form:"consultant" json:"consultant"`
}

// Apply returns the sales that pass f, keeping their order.
func (f Filter) Apply(sales []Sale) []Sale {
	out := make([]Sale, 0, len(sales))
	for _, s := range sales {
		if f.StartDate != "" && s.Date < f.StartDate {
			continue
		}
		if f.EndDate != "" && s.Date > f.EndDate {
			continue
		}
		if f.Consultant != "" && s.ConsultantName != f.Consultant {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Consultants returns the distinct consultant names, sorted.
func Consultants(sales []Sale) []string {
	seen := map[string]bool{}
	names := make([]string, 0)
	for _, s := range sales {
		if !seen[s.ConsultantName] {
			seen[s.ConsultantName] = true
			names = append(names, s.ConsultantName)
		}
	}
	sort.Strings(names)
	return names
}
