package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Analytics is the per-category summary computed by the service
type Analytics struct {
	Status  string         `json:"status,omitempty"`
	Message string         `json:"message,omitempty"`
	Data    CategoryCounts `json:"data"`
}

type CategoryCount struct {
	Name  string
	Value float64
}

// CategoryCounts is a JSON object of name -> count that keeps the order keys arrived in.
// Duplicate keys keep their first position and take the last value.
type CategoryCounts []CategoryCount

func (c *CategoryCounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*c = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("analytics data: expected object, got %v", tok)
	}

	var out CategoryCounts
	seen := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("analytics data: unexpected key %v", keyTok)
		}
		var value float64
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("analytics data: value for %q: %w", key, err)
		}
		if i, ok := seen[key]; ok {
			out[i].Value = value
			continue
		}
		seen[key] = len(out)
		out = append(out, CategoryCount{Name: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*c = out
	return nil
}

func (c CategoryCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ChartPoint is one slice of the analytics chart
type ChartPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ChartPoints fans the data mapping into chart points in input order, without sorting
func (a Analytics) ChartPoints() []ChartPoint {
	points := make([]ChartPoint, 0, len(a.Data))
	for _, entry := range a.Data {
		points = append(points, ChartPoint{Name: entry.Name, Value: entry.Value})
	}
	return points
}

// Total sums all counts
func (a Analytics) Total() float64 {
	var total float64
	for _, entry := range a.Data {
		total += entry.Value
	}
	return total
}
