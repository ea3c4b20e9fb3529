package analytics

import (
	"strconv"
	"strings"
	"time"
)

// Record is one booking line in the materialized snapshot: the scheduled
// date and the price as stored. Prices are text in the legacy data and may
// be junk; readers treat unparsable values as 0.
type Record struct {
	Date  time.Time
	Price string
}

// Engine computes revenue, counts and growth over a fixed snapshot. All
// methods are pure: same snapshot, same answers, and the snapshot is never
// mutated.
type Engine struct {
	records []Record
}

func NewEngine(records []Record) *Engine {
	return &Engine{records: records}
}

// MonthServiceCount counts bookings in the (month, year) bucket. Month is
// an English month name, year a 4-digit string.
func (e *Engine) MonthServiceCount(month, year string) int {
	n := 0
	for _, r := range e.records {
		if inBucket(r, month, year) {
			n++
		}
	}
	return n
}

// TotalRevenue sums prices in the bucket. Unparsable or missing prices
// contribute 0.
func (e *Engine) TotalRevenue(month, year string) float64 {
	total := 0.0
	for _, r := range e.records {
		if inBucket(r, month, year) {
			total += parsePrice(r.Price)
		}
	}
	return total
}

// Growth is the percentage change against the immediately preceding
// calendar month, crossing year boundaries (January's predecessor is
// December of the prior year). Defined as 0 when the bucket is the first
// month in the known sequence or when the previous bucket's revenue is 0.
func (e *Engine) Growth(month, year string) float64 {
	months := e.KnownMonths()
	if len(months) == 0 || months[0] == month {
		return 0
	}

	m, ok := monthIndex(month)
	if !ok {
		return 0
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return 0
	}

	prevMonth := m - 1
	prevYear := y
	if prevMonth < time.January {
		prevMonth = time.December
		prevYear--
	}

	previous := e.TotalRevenue(prevMonth.String(), strconv.Itoa(prevYear))
	if previous == 0 {
		return 0
	}
	current := e.TotalRevenue(month, year)
	return (current - previous) / previous * 100
}

// KnownMonths returns the distinct month names present in the snapshot, in
// the order first encountered. Callers needing chronological order must
// sort explicitly.
func (e *Engine) KnownMonths() []string {
	seen := map[string]bool{}
	var months []string
	for _, r := range e.records {
		name := r.Date.Month().String()
		if !seen[name] {
			seen[name] = true
			months = append(months, name)
		}
	}
	return months
}

// KnownYears returns the distinct years present in the snapshot, in the
// order first encountered.
func (e *Engine) KnownYears() []string {
	seen := map[string]bool{}
	var years []string
	for _, r := range e.records {
		y := strconv.Itoa(r.Date.Year())
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	return years
}

func inBucket(r Record, month, year string) bool {
	return r.Date.Month().String() == month && strconv.Itoa(r.Date.Year()) == year
}

func monthIndex(name string) (time.Month, bool) {
	for m := time.January; m <= time.December; m++ {
		if m.String() == name {
			return m, true
		}
	}
	return 0, false
}

// parsePrice is lenient: legacy rows store prices as text, sometimes with a
// decimal comma. Anything unparsable counts as 0.
func parsePrice(raw string) float64 {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}
