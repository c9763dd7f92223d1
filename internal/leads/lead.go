package leads

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ID acepta identificadores numericos o string.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be string or number: %s", strings.TrimSpace(string(data)))
	}
	*id = ID(n.String())
	return nil
}

// Lead contiene los campos que usa la vista de listado.
type Lead struct {
	ID       ID       `json:"id"`
	Name     string   `json:"name"`
	Company  string   `json:"company"`
	Email    string   `json:"email,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Status   string   `json:"status"`
	Source   string   `json:"source"`
	Tags     []string `json:"tags,omitempty"`
	Score    float64  `json:"score"`
	Verified bool     `json:"verified"`
}

func DecodeLeads(items []json.RawMessage) ([]Lead, error) {
	out := make([]Lead, 0, len(items))
	for i, raw := range items {
		var l Lead
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, fmt.Errorf("decode lead %d: %w", i, err)
		}
		out = append(out, l)
	}
	return out, nil
}
