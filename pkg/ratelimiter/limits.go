package ratelimiter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Window is one configured limit: at most Max hits in any trailing Duration.
type Window struct {
	Max      int
	Duration time.Duration
}

// String renders the window as "<max> per <duration>".
func (w Window) String() string {
	return fmt.Sprintf("%d per %s", w.Max, w.Duration)
}

// key identifies the window inside a composite storage key.
func (w Window) key() string {
	return strconv.Itoa(w.Max) + "/" + strconv.FormatInt(w.Duration.Milliseconds(), 10)
}

var granularities = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
	"month":  30 * 24 * time.Hour,
	"year":   365 * 24 * time.Hour,
}

// "10 per 5 minutes", "10/minute", "100 per hour"
var limitPattern = regexp.MustCompile(`^(\d+)\s*(?:per|/)\s*(\d+)?\s*([a-z]+?)s?$`)

// ParseLimits parses a human readable limit string such as
// "1 per 5 minutes; 1000 per 1 day" into its windows.
// Items are separated by ";" or ",". Supported units are second, minute,
// hour, day, month (30 days) and year (365 days), singular or plural.
func ParseLimits(limits string) ([]Window, error) {
	items := strings.FieldsFunc(limits, func(r rune) bool { return r == ';' || r == ',' })

	windows := make([]Window, 0, len(items))
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" {
			continue
		}

		m := limitPattern.FindStringSubmatch(item)
		if m == nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLimit, item)
		}

		limit, err := strconv.Atoi(m[1])
		if err != nil || limit <= 0 {
			return nil, fmt.Errorf("%w: %q: count must be positive", ErrInvalidLimit, item)
		}

		multiple := 1
		if m[2] != "" {
			multiple, err = strconv.Atoi(m[2])
			if err != nil || multiple <= 0 {
				return nil, fmt.Errorf("%w: %q: period must be positive", ErrInvalidLimit, item)
			}
		}

		unit, ok := granularities[m[3]]
		if !ok {
			return nil, fmt.Errorf("%w: %q: unknown unit %q", ErrInvalidLimit, item, m[3])
		}

		windows = append(windows, Window{Max: limit, Duration: time.Duration(multiple) * unit})
	}

	if len(windows) == 0 {
		return nil, fmt.Errorf("%w: %q: no limits", ErrInvalidLimit, limits)
	}

	return windows, nil
}
