package food

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// NameKey is the dataset field holding the food name
const NameKey = "food"

// Value is a single nutrient field as it appeared in the dataset:
// a JSON number, a string, or null.
type Value struct {
	raw interface{}
}

// NumberValue creates a numeric value
func NumberValue(f float64) Value {
	return Value{raw: f}
}

// StringValue creates a string value
func StringValue(s string) Value {
	return Value{raw: s}
}

// IsNull reports whether the value is JSON null or unset
func (v Value) IsNull() bool {
	return v.raw == nil
}

// Numeric returns the number when the value was stored as a JSON number
func (v Value) Numeric() (float64, bool) {
	f, ok := v.raw.(float64)
	return f, ok
}

// String renders the value for display. Null renders blank.
func (v Value) String() string {
	switch x := v.raw.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// Float interprets the value as a number. Strings are read up to the first
// character that cannot continue a number ("12g" is 12). Anything that does
// not yield a number is 0.
func (v Value) Float() float64 {
	switch x := v.raw.(type) {
	case float64:
		if math.IsNaN(x) {
			return 0
		}
		return x
	case string:
		return parseLeadingFloat(x)
	default:
		return 0
	}
}

// MarshalJSON writes the value back in its original JSON kind
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

var leadingFloat = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

func parseLeadingFloat(s string) float64 {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	if strings.HasSuffix(m, "Infinity") {
		if strings.HasPrefix(m, "-") {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		// out of range still yields ±Inf, which is what we want
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return f
		}
		return 0
	}
	return f
}

// Record is one food row of the dataset
type Record struct {
	Food   string
	Values map[string]Value
}

// NewRecord builds a record from a name and nutrient values
func NewRecord(name string, values map[string]Value) Record {
	if values == nil {
		values = make(map[string]Value)
	}
	return Record{Food: name, Values: values}
}

// Value returns the nutrient value stored under key
func (r Record) Value(key string) (Value, bool) {
	if key == NameKey {
		return StringValue(r.Food), true
	}
	v, ok := r.Values[key]
	return v, ok
}

// Display renders the field for a table cell; absent fields are blank
func (r Record) Display(key string) string {
	v, ok := r.Value(key)
	if !ok {
		return ""
	}
	return v.String()
}

// Number is the sort value of the field; absent fields are 0
func (r Record) Number(key string) float64 {
	v, ok := r.Value(key)
	if !ok {
		return 0
	}
	return v.Float()
}

// Keys returns the nutrient field names of the record in sorted order
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.Values))
	for k := range r.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UnmarshalJSON decodes a flat object. The food name is required.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("record is null")
	}

	name, ok := fields[NameKey].(string)
	if !ok || name == "" {
		return fmt.Errorf("record is missing a non-empty %q field", NameKey)
	}

	values := make(map[string]Value, len(fields)-1)
	for k, v := range fields {
		if k == NameKey {
			continue
		}
		values[k] = Value{raw: v}
	}

	r.Food = name
	r.Values = values
	return nil
}

// MarshalJSON writes the record as a flat object with the name first
func (r Record) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')

	name, err := json.Marshal(r.Food)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(&b, "%q:%s", NameKey, name)

	for _, k := range r.Keys() {
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Values[k])
		if err != nil {
			return nil, err
		}
		b.WriteByte(',')
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}

	b.WriteByte('}')
	return b.Bytes(), nil
}

// ParseRecords decodes the dataset document, an array of flat objects
func ParseRecords(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("dataset must be a JSON array")
	}

	var records []Record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}
