package food

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Top-level members of the analyses document
const (
	topFoodsKey          = "top_foods"
	highNutrientFoodsKey = "high_nutrient_foods"
	caloricGroupsKey     = "caloric_groups"
	summaryStatsKey      = "summary_stats"
	correlationKey       = "correlation_matrix"
)

// member is one key/value pair of a JSON object, kept in document order
type member struct {
	Key string
	Raw json.RawMessage
}

// Analyses is the precomputed summary document. Members are decoded lazily
// by ProjectSummary so that a malformed member never fails the load.
type Analyses struct {
	members []member
}

// ParseAnalyses decodes the analyses document. Only a document that is
// not a JSON object (or null) is rejected.
func ParseAnalyses(data []byte) (*Analyses, error) {
	a := &Analyses{}
	if err := json.Unmarshal(data, a); err != nil {
		return nil, fmt.Errorf("failed to decode analyses: %w", err)
	}
	return a, nil
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Analyses) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		a.members = nil
		return nil
	}
	members, ok := decodeObject(data)
	if !ok {
		return fmt.Errorf("analyses document must be a JSON object")
	}
	a.members = members
	return nil
}

// MarshalJSON writes the document back with its original member order
func (a *Analyses) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, m := range a.members {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(m.Raw)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// Keys returns the top-level member names in document order
func (a *Analyses) Keys() []string {
	if a == nil {
		return nil
	}
	keys := make([]string, 0, len(a.members))
	for _, m := range a.members {
		keys = append(keys, m.Key)
	}
	return keys
}

// lookup returns the last member named key, like encoding/json would
func (a *Analyses) lookup(key string) (json.RawMessage, bool) {
	if a == nil {
		return nil, false
	}
	for i := len(a.members) - 1; i >= 0; i-- {
		if a.members[i].Key == key {
			return a.members[i].Raw, true
		}
	}
	return nil, false
}

// decodeObject splits a JSON object into members without losing key order
func decodeObject(data []byte) ([]member, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, false
	}

	members := make([]member, 0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := tok.(string)
		if !ok {
			return nil, false
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, false
		}
		members = append(members, member{Key: key, Raw: raw})
	}

	if _, err := dec.Token(); err != nil {
		return nil, false
	}
	return members, true
}

// NutrientTop is the top foods list for one nutrient
type NutrientTop struct {
	Nutrient string   `json:"nutrient"`
	Foods    []Record `json:"foods"`
}

// CaloricGroup is one caloric range bucket and the foods in it
type CaloricGroup struct {
	Range string   `json:"range"`
	Foods []string `json:"foods"`
}

// Stat is a single descriptive statistic (mean, max, 50%, ...)
type Stat struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ColumnStats holds the descriptive statistics of one dataset column
type ColumnStats struct {
	Column string `json:"column"`
	Stats  []Stat `json:"stats"`
}

// Summary is the display-ready projection of the analyses document
type Summary struct {
	TopByNutrient     []NutrientTop  `json:"top_by_nutrient"`
	HighNutrientCount int            `json:"high_nutrient_count"`
	HighNutrientFoods []Record       `json:"high_nutrient_foods"`
	CaloricGroups     []CaloricGroup `json:"caloric_groups"`
	Stats             []ColumnStats  `json:"stats"`
	Correlations      []ColumnStats  `json:"correlations"` // Stat.Name is the other column
}

// ProjectSummary reshapes the analyses for display. Missing or malformed
// members become empty values; it never fails.
func ProjectSummary(a *Analyses) Summary {
	high := projectRecordList(a, highNutrientFoodsKey)
	return Summary{
		TopByNutrient:     projectTopFoods(a),
		HighNutrientCount: len(high),
		HighNutrientFoods: high,
		CaloricGroups:     projectCaloricGroups(a),
		Stats:             projectNumberTable(a, summaryStatsKey),
		Correlations:      projectNumberTable(a, correlationKey),
	}
}

func projectTopFoods(a *Analyses) []NutrientTop {
	tops := make([]NutrientTop, 0)
	raw, ok := a.lookup(topFoodsKey)
	if !ok {
		return tops
	}
	members, ok := decodeObject(raw)
	if !ok {
		return tops
	}

	for _, m := range members {
		records, ok := decodeRecordList(m.Raw)
		if !ok {
			continue
		}
		tops = append(tops, NutrientTop{Nutrient: m.Key, Foods: records})
	}
	return tops
}

func projectRecordList(a *Analyses, key string) []Record {
	raw, ok := a.lookup(key)
	if !ok {
		return []Record{}
	}
	records, ok := decodeRecordList(raw)
	if !ok {
		return []Record{}
	}
	return records
}

// decodeRecordList decodes an array of records, skipping malformed entries
func decodeRecordList(raw json.RawMessage) ([]Record, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}
	records := make([]Record, 0, len(items))
	for _, item := range items {
		var r Record
		if err := json.Unmarshal(item, &r); err != nil {
			continue
		}
		records = append(records, r)
	}
	return records, true
}

// caloricGroupDoc accepts the pipeline's column name and two shorter aliases
type caloricGroupDoc struct {
	CaloricRange string        `json:"Caloric_Range"`
	Range        string        `json:"range"`
	Label        string        `json:"label"`
	Food         []interface{} `json:"food"`
}

func (d caloricGroupDoc) label() string {
	for _, s := range []string{d.CaloricRange, d.Range, d.Label} {
		if s != "" {
			return s
		}
	}
	return ""
}

func projectCaloricGroups(a *Analyses) []CaloricGroup {
	groups := make([]CaloricGroup, 0)
	raw, ok := a.lookup(caloricGroupsKey)
	if !ok {
		return groups
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return groups
	}

	for _, item := range items {
		var doc caloricGroupDoc
		if err := json.Unmarshal(item, &doc); err != nil {
			continue
		}
		label := doc.label()
		if label == "" {
			continue
		}
		foods := make([]string, 0, len(doc.Food))
		for _, f := range doc.Food {
			if name, ok := f.(string); ok {
				foods = append(foods, name)
			}
		}
		groups = append(groups, CaloricGroup{Range: label, Foods: foods})
	}
	return groups
}

// projectNumberTable reads an object of objects of numbers, skipping
// nulls and non-numbers
func projectNumberTable(a *Analyses, key string) []ColumnStats {
	stats := make([]ColumnStats, 0)
	raw, ok := a.lookup(key)
	if !ok {
		return stats
	}
	columns, ok := decodeObject(raw)
	if !ok {
		return stats
	}

	for _, col := range columns {
		entries, ok := decodeObject(col.Raw)
		if !ok {
			continue
		}
		cs := ColumnStats{Column: col.Key, Stats: make([]Stat, 0, len(entries))}
		for _, e := range entries {
			var v *float64
			if err := json.Unmarshal(e.Raw, &v); err != nil || v == nil {
				continue
			}
			cs.Stats = append(cs.Stats, Stat{Name: e.Key, Value: *v})
		}
		stats = append(stats, cs)
	}
	return stats
}
