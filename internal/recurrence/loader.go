package recurrence

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// ruleSpec is the on-disk form of a rule. Recurrence is one of "daily",
// "weekly" or "first_thursday"; day_of_week is required for weekly rules.
type ruleSpec struct {
	Name       string      `json:"name"`
	IsBreak    bool        `json:"is_break"`
	Recurrence string      `json:"recurrence"`
	DayOfWeek  string      `json:"day_of_week,omitempty"`
	TimeRanges []TimeRange `json:"time_ranges"`
}

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

func (s ruleSpec) build() (Rule, error) {
	rule := Rule{Name: s.Name, IsBreak: s.IsBreak, Ranges: s.TimeRanges}
	if strings.TrimSpace(s.Name) == "" {
		return Rule{}, fmt.Errorf("rule name is required")
	}
	if len(s.TimeRanges) == 0 {
		return Rule{}, fmt.Errorf("rule %q has no time ranges", s.Name)
	}
	for _, tr := range s.TimeRanges {
		if !tr.Start.Before(tr.End) {
			return Rule{}, fmt.Errorf("rule %q has an empty or inverted time range", s.Name)
		}
	}

	switch strings.ToLower(s.Recurrence) {
	case "daily":
		rule.When = Daily()
	case "weekly":
		day, ok := weekdayNames[strings.ToLower(s.DayOfWeek)]
		if !ok {
			return Rule{}, fmt.Errorf("rule %q has unknown day_of_week %q", s.Name, s.DayOfWeek)
		}
		rule.When = Weekly(day)
	case "first_thursday":
		rule.When = FirstThursdayOfMonth()
	default:
		return Rule{}, fmt.Errorf("rule %q has unknown recurrence %q", s.Name, s.Recurrence)
	}
	return rule, nil
}

// LoadFile reads a JSON rule list from path.
func LoadFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON rule list.
func Parse(data []byte) ([]Rule, error) {
	var specs []ruleSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	rules := make([]Rule, 0, len(specs))
	for _, spec := range specs {
		rule, err := spec.build()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// LoadFileOrDefault returns the rules from path, or the built-in defaults
// when path is empty. A missing or malformed file is an error so a typo does
// not silently drop fixed events.
func LoadFileOrDefault(path string) ([]Rule, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	return LoadFile(path)
}
