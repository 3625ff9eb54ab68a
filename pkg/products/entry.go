// Package products defines the catalog entry model together with the
// payloads used to create and edit entries, the validation schema that
// guards them, and derived views such as the category list.
package products

import (
	"encoding/json"
	"strconv"

	"github.com/agentstation/catalogadmin/pkg/errors"
)

// Entry is one product of the catalog as held by the canonical collection.
// Stock and Price are nil when the value is unknown.
type Entry struct {
	ID       int      `json:"id" yaml:"id"`
	Category string   `json:"category" yaml:"category"`
	Name     string   `json:"name" yaml:"name"`
	ImageURL string   `json:"imageUrl" yaml:"imageUrl"`
	Stock    *int     `json:"stock" yaml:"stock"`
	Price    *float64 `json:"price" yaml:"price"`
}

// Key returns the entry id formatted for logs and error messages.
func (e Entry) Key() string {
	return strconv.Itoa(e.ID)
}

// Clone returns a copy that shares no pointers with e.
func (e Entry) Clone() Entry {
	out := e
	if e.Stock != nil {
		v := *e.Stock
		out.Stock = &v
	}
	if e.Price != nil {
		v := *e.Price
		out.Price = &v
	}
	return out
}

// MergeFields shallow-merges a server representation into e. Every field
// present in fields overwrites the local value, absent fields are kept.
// Unknown keys are ignored.
func (e Entry) MergeFields(fields map[string]json.RawMessage) (Entry, error) {
	out := e.Clone()
	for key, raw := range fields {
		var err error
		switch key {
		case "id":
			err = json.Unmarshal(raw, &out.ID)
		case "category":
			out.Category, err = decodeString(raw)
		case "name":
			out.Name, err = decodeString(raw)
		case "imageUrl":
			out.ImageURL, err = decodeString(raw)
		case "stock":
			out.Stock = nil
			err = json.Unmarshal(raw, &out.Stock)
		case "price":
			out.Price = nil
			err = json.Unmarshal(raw, &out.Price)
		}
		if err != nil {
			return e, errors.WrapParse("json", key, err)
		}
	}
	return out, nil
}

// Apply returns e with the changes of p applied, the way the backend is
// expected to apply them. It is used to preview edits before they are sent.
func (e Entry) Apply(p Patch) Entry {
	out := e.Clone()
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.ImageURL != nil {
		out.ImageURL = *p.ImageURL
	}
	if p.Stock.Set {
		out.Stock = p.Stock.Ptr()
	}
	if p.Price.Set {
		out.Price = p.Price.Ptr()
	}
	return out
}

// a JSON null string decodes to the empty string
func decodeString(raw json.RawMessage) (string, error) {
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	if s == nil {
		return "", nil
	}
	return *s, nil
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// FloatPtr returns a pointer to v.
func FloatPtr(v float64) *float64 { return &v }

// StringPtr returns a pointer to v.
func StringPtr(v string) *string { return &v }
