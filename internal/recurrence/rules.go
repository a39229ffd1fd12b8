package recurrence

import (
	"sort"
	"time"

	"github.com/vhoward/training-plan-api/pkg/timeutil"
)

// TimeRange is a start/end pair within one day.
type TimeRange struct {
	Start timeutil.ClockTime `json:"start"`
	End   timeutil.ClockTime `json:"end"`
}

// Predicate decides whether a rule applies on a given date.
type Predicate func(date time.Time) bool

// Rule describes a fixed recurring event: when it happens and which time
// ranges it occupies.
type Rule struct {
	Name    string
	IsBreak bool
	Ranges  []TimeRange
	When    Predicate
}

// Daily matches every date.
func Daily() Predicate {
	return func(time.Time) bool { return true }
}

// Weekly matches dates falling on the given weekday.
func Weekly(day time.Weekday) Predicate {
	return func(date time.Time) bool { return date.Weekday() == day }
}

// FirstThursdayOfMonth matches only the first Thursday of each month.
func FirstThursdayOfMonth() Predicate {
	return timeutil.IsFirstThursdayOfMonth
}

// Expand returns the rule's time ranges when it applies on the date, nil
// otherwise.
func (r Rule) Expand(date time.Time) []TimeRange {
	if r.When == nil || !r.When(date) {
		return nil
	}
	return r.Ranges
}

// Block is one expanded occurrence of a rule on a concrete date.
type Block struct {
	Name    string
	IsBreak bool
	Start   timeutil.ClockTime
	End     timeutil.ClockTime
}

// ExpandDay expands all rules for a date into blocks ordered by start time.
// Blocks starting at the same minute keep the rule-list order.
func ExpandDay(rules []Rule, date time.Time) []Block {
	var blocks []Block
	for _, rule := range rules {
		for _, tr := range rule.Expand(date) {
			blocks = append(blocks, Block{
				Name:    rule.Name,
				IsBreak: rule.IsBreak,
				Start:   tr.Start,
				End:     tr.End,
			})
		}
	}
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Start.Before(blocks[j].Start)
	})
	return blocks
}

// BreakNames collects the names of break-flagged rules. The validator uses
// this set to exclude breaks from hours accounting.
func BreakNames(rules []Rule) map[string]struct{} {
	names := make(map[string]struct{})
	for _, rule := range rules {
		if rule.IsBreak {
			names[rule.Name] = struct{}{}
		}
	}
	return names
}

// DefaultRules is the built-in fixed-event set used when no external rule
// configuration is supplied.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "Flag raising",
			When: Weekly(time.Monday),
			Ranges: []TimeRange{
				{Start: timeutil.NewClock(7, 0), End: timeutil.NewClock(8, 0)},
			},
		},
		{
			Name: "Field march",
			When: Weekly(time.Wednesday),
			Ranges: []TimeRange{
				{Start: timeutil.NewClock(19, 0), End: timeutil.NewClock(21, 0)},
			},
		},
		{
			Name: "Political education day",
			When: FirstThursdayOfMonth(),
			Ranges: []TimeRange{
				{Start: timeutil.NewClock(7, 0), End: timeutil.NewClock(11, 30)},
				{Start: timeutil.NewClock(12, 30), End: timeutil.NewClock(16, 0)},
			},
		},
		{
			Name:    "Lunch break",
			IsBreak: true,
			When:    Daily(),
			Ranges: []TimeRange{
				{Start: timeutil.NewClock(11, 30), End: timeutil.NewClock(12, 30)},
			},
		},
	}
}
