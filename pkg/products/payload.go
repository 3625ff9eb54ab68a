package products

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/agentstation/catalogadmin/pkg/errors"
)

// Nullable is a tri-state field of a Patch: untouched (Set is false),
// cleared to unknown (Set with a nil Value), or set to a concrete value.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Some returns a Nullable set to v.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null returns a Nullable explicitly cleared to unknown.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// IsNull reports whether the field was explicitly cleared.
func (n Nullable[T]) IsNull() bool {
	return n.Set && n.Value == nil
}

// Ptr returns a fresh pointer to the value, or nil.
func (n Nullable[T]) Ptr() *T {
	if n.Value == nil {
		return nil
	}
	v := *n.Value
	return &v
}

// Draft is a product about to be created. It carries every field except
// the id, which the backend assigns, and optionally an image to upload.
type Draft struct {
	Category string   `json:"category" validate:"productcategory"`
	Name     string   `json:"name" validate:"productname"`
	ImageURL string   `json:"imageUrl"`
	Stock    *int     `json:"stock" validate:"omitempty,gte=0"`
	Price    *float64 `json:"price" validate:"omitempty,gte=0"`
	Image    *Image   `json:"-" validate:"-"`
}

// FormValues returns the draft as multipart form fields. Unknown numbers
// are sent as empty values.
func (d Draft) FormValues() map[string]string {
	return map[string]string{
		"category": d.Category,
		"name":     d.Name,
		"imageUrl": d.ImageURL,
		"stock":    formatInt(d.Stock),
		"price":    formatFloat(d.Price),
	}
}

// Patch holds the fields of an edit the user actually changed. A nil
// string pointer and an unset Nullable mean the field is left untouched.
type Patch struct {
	Category *string           `json:"category,omitempty" validate:"omitnil,productcategory"`
	Name     *string           `json:"name,omitempty" validate:"omitnil,productname"`
	ImageURL *string           `json:"imageUrl,omitempty" validate:"omitnil"`
	Stock    Nullable[int]     `json:"stock" validate:"omitempty,gte=0"`
	Price    Nullable[float64] `json:"price" validate:"omitempty,gte=0"`
	Image    *Image            `json:"-" validate:"-"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Category == nil && p.Name == nil && p.ImageURL == nil &&
		!p.Stock.Set && !p.Price.Set && p.Image == nil
}

// Changed returns the JSON names of the fields the patch touches, in
// display order.
func (p Patch) Changed() []string {
	var fields []string
	if p.Category != nil {
		fields = append(fields, "category")
	}
	if p.Name != nil {
		fields = append(fields, "name")
	}
	if p.ImageURL != nil {
		fields = append(fields, "imageUrl")
	}
	if p.Stock.Set {
		fields = append(fields, "stock")
	}
	if p.Price.Set {
		fields = append(fields, "price")
	}
	if p.Image != nil {
		fields = append(fields, "image")
	}
	return fields
}

// MarshalJSON encodes only the touched fields. Cleared numbers encode as null.
func (p Patch) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 5)
	if p.Category != nil {
		out["category"] = *p.Category
	}
	if p.Name != nil {
		out["name"] = *p.Name
	}
	if p.ImageURL != nil {
		out["imageUrl"] = *p.ImageURL
	}
	if p.Stock.Set {
		out["stock"] = p.Stock.Value
	}
	if p.Price.Set {
		out["price"] = p.Price.Value
	}
	return json.Marshal(out)
}

// FormValues returns the touched fields as multipart form values.
func (p Patch) FormValues() map[string]string {
	out := make(map[string]string, 5)
	if p.Category != nil {
		out["category"] = *p.Category
	}
	if p.Name != nil {
		out["name"] = *p.Name
	}
	if p.ImageURL != nil {
		out["imageUrl"] = *p.ImageURL
	}
	if p.Stock.Set {
		out["stock"] = formatInt(p.Stock.Value)
	}
	if p.Price.Set {
		out["price"] = formatFloat(p.Price.Value)
	}
	return out
}

// ParseStock interprets a form value for the stock field. An empty string
// clears the value.
func ParseStock(s string) (Nullable[int], error) {
	if s == "" {
		return Null[int](), nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return Nullable[int]{}, err
	}
	return Some(v), nil
}

// ParsePrice interprets a form value for the price field. An empty string
// clears the value. NaN and infinities are rejected.
func ParsePrice(s string) (Nullable[float64], error) {
	if s == "" {
		return Null[float64](), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Nullable[float64]{}, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Nullable[float64]{}, errors.NewValidationError("price", s, "price must be a finite number")
	}
	return Some(v), nil
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
