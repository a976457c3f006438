package food

import (
	"fmt"
	"sort"
	"strings"
)

// Direction is the sort order of the active sort column
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// String returns the short name used on the command line and in the API
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Flip returns the opposite direction
func (d Direction) Flip() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// MarshalText implements encoding.TextMarshaler
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection parses asc/ascending/desc/descending, case-insensitively
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("invalid sort direction: %q (must be asc or desc)", s)
	}
}

// ViewState is the user's current filter and sort choice.
// An empty SortKey means no active sort: rows keep dataset order.
type ViewState struct {
	Filter    string    `json:"filter"`
	SortKey   string    `json:"sort_key,omitempty"`
	Direction Direction `json:"direction"`
}

// Sorted reports whether a sort column is active
func (s ViewState) Sorted() bool {
	return s.SortKey != ""
}

// WithFilter returns the state with new filter text
func (s ViewState) WithFilter(text string) ViewState {
	s.Filter = text
	return s
}

// Toggle is the column-header click: the active column flips direction,
// any other column becomes active in descending order.
func (s ViewState) Toggle(key string) ViewState {
	if key == "" {
		return s.Clear()
	}
	if s.SortKey == key {
		s.Direction = s.Direction.Flip()
		return s
	}
	s.SortKey = key
	s.Direction = Descending
	return s
}

// Clear drops the active sort
func (s ViewState) Clear() ViewState {
	s.SortKey = ""
	s.Direction = Ascending
	return s
}

// Filter keeps the records whose name contains text, ignoring case.
// Order is preserved; empty text keeps everything.
func Filter(records []Record, text string) []Record {
	needle := strings.ToLower(text)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Food), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Sort orders records by the numeric value of key. Ties keep input order.
// With an empty key the input order is returned unchanged.
func Sort(records []Record, key string, dir Direction) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	if key == "" {
		return out
	}

	nums := make([]float64, len(out))
	for i, r := range out {
		nums[i] = r.Number(key)
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		va, vb := nums[idx[a]], nums[idx[b]]
		if dir == Descending {
			return va > vb
		}
		return va < vb
	})

	sorted := make([]Record, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}

// BuildView filters and then sorts; filtering never sees sort state
func BuildView(records []Record, state ViewState) []Record {
	return Sort(Filter(records, state.Filter), state.SortKey, state.Direction)
}

// SortIndicator is the suffix shown on a column header
func SortIndicator(state ViewState, key string) string {
	if state.SortKey == "" || state.SortKey != key {
		return ""
	}
	if state.Direction == Ascending {
		return " ↓"
	}
	return " ↑"
}
