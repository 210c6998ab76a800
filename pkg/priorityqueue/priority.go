package priorityqueue

import (
	"fmt"
	"strconv"
	"strings"
)

// Priority selects the tier a task is queued in.
// The zero value is PriorityLow.
type Priority uint8

// Priority tiers, in ascending order of urgency.
const (
	PriorityLow Priority = iota
	PriorityMid
	PriorityHigh

	priorityCount = int(PriorityHigh) + 1
)

// dispatchOrder lists the tiers from most to least urgent.
var dispatchOrder = [...]Priority{PriorityHigh, PriorityMid, PriorityLow}

// Valid reports whether p is one of the three recognized tiers.
func (p Priority) Valid() bool {
	return p <= PriorityHigh
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMid:
		return "mid"
	case PriorityHigh:
		return "high"
	default:
		return "priority(" + strconv.Itoa(int(p)) + ")"
	}
}

// ParsePriority converts a tier name into a Priority.
// Accepts "low", "mid" (or "medium") and "high", case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "mid", "medium":
		return PriorityMid, nil
	case "high":
		return PriorityHigh, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPriority, p)
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so Priority fields of
// env-tagged config structs accept the names ParsePriority understands.
func (p *Priority) UnmarshalText(text []byte) error {
	parsed, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
