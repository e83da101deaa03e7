package services

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/tbourn/go-training-planner/internal/domain"
)

// matchWeekday resolves a case-insensitive prefix ("wed", "Th") to the
// first canonical weekday it starts.
func matchWeekday(s string) (string, bool) {
	fold := cases.Fold()
	p := fold.String(strings.TrimSpace(s))
	if p == "" {
		return "", false
	}
	for _, d := range domain.Weekdays {
		if strings.HasPrefix(fold.String(d), p) {
			return d, true
		}
	}
	return "", false
}

// NormalizeWeekdays resolves, dedupes and orders a weekday selection.
// Unknown entries are dropped. When nothing valid remains every day is
// returned, so a bad selection never blocks registration.
func NormalizeWeekdays(days []string) []string {
	picked := make([]bool, len(domain.Weekdays))
	n := 0
	for _, raw := range days {
		d, ok := matchWeekday(raw)
		if !ok {
			continue
		}
		i := domain.WeekdayIndex(d)
		if !picked[i] {
			picked[i] = true
			n++
		}
	}
	if n == 0 {
		out := make([]string, len(domain.Weekdays))
		copy(out, domain.Weekdays)
		return out
	}
	out := make([]string, 0, n)
	for i, d := range domain.Weekdays {
		if picked[i] {
			out = append(out, d)
		}
	}
	return out
}

// joinDays and splitDays convert between the list form and the stored CSV.
func joinDays(days []string) string { return strings.Join(days, ",") }

func splitDays(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	return strings.Split(csv, ",")
}
