package confirm

import (
	"fmt"
	"strings"

	"github.com/agentstation/catalogadmin/pkg/products"
)

// Change is one line of an edit diff.
type Change struct {
	Field  string
	Before string
	After  string
}

// Changed reports whether the line shows a different value.
func (c Change) Changed() bool {
	return c.Before != c.After
}

// Summary is the human-readable confirmation of an action.
type Summary struct {
	Title    string
	Question string
	Changes  []Change
	Details  []string
}

// String renders the summary as plain text.
func (s Summary) String() string {
	var b strings.Builder
	b.WriteString(s.Title)
	b.WriteString("\n")
	b.WriteString(s.Question)
	b.WriteString("\n")
	if len(s.Changes) > 0 {
		b.WriteString("\nChanges:\n")
		for _, c := range s.Changes {
			fmt.Fprintf(&b, "  %s: %s → %s\n", c.Field, c.Before, c.After)
		}
	}
	if len(s.Details) > 0 {
		b.WriteString("\nDetails:\n")
		for _, d := range s.Details {
			fmt.Fprintf(&b, "  %s\n", d)
		}
	}
	return b.String()
}

// Describe builds the confirmation shown before a is applied.
func Describe(a Action) Summary {
	switch a := a.(type) {
	case Add:
		d := a.Draft
		return Summary{
			Title:    "Add product",
			Question: "Are you sure you want to add this product?",
			Details: details(d.Name, d.Category, d.Stock, d.Price,
				addedImage(d.Image, "-")),
		}
	case Edit:
		return Summary{
			Title:    "Edit product",
			Question: "Are you sure you want to edit this product?",
			Changes:  editChanges(a.Original, a.Changes),
		}
	case Delete:
		e := a.Original
		img := "-"
		if e.ImageURL != "" {
			img = e.ImageURL
		}
		return Summary{
			Title:    "Delete product",
			Question: "Are you sure you want to delete this product?",
			Details:  details(e.Name, e.Category, e.Stock, e.Price, img),
		}
	}
	return Summary{}
}

func details(name, category string, stock *int, price *float64, image string) []string {
	return []string{
		fmt.Sprintf("Product: %s | Category: %s", name, category),
		fmt.Sprintf("Stock: %s | Price: %s", products.FormatStock(stock), products.FormatPrice(price)),
		fmt.Sprintf("Image: %s", image),
	}
}

// editChanges lists every field, original against merged value.
func editChanges(original products.Entry, patch products.Patch) []Change {
	merged := original.Apply(patch)
	return []Change{
		{Field: "Category", Before: original.Category, After: merged.Category},
		{Field: "Name", Before: original.Name, After: merged.Name},
		{Field: "Image", Before: imageBefore(original), After: imageAfter(original, merged, patch.Image)},
		{Field: "Stock", Before: products.FormatStock(original.Stock), After: products.FormatStock(merged.Stock)},
		{Field: "Price", Before: products.FormatPrice(original.Price), After: products.FormatPrice(merged.Price)},
	}
}

func imageBefore(e products.Entry) string {
	if e.ImageURL == "" {
		return "no image"
	}
	return e.ImageURL
}

func imageAfter(original, merged products.Entry, img *products.Image) string {
	switch {
	case img != nil && original.ImageURL == "":
		return addedImage(img, "")
	case img != nil:
		return img.Filename
	case merged.ImageURL != "" && merged.ImageURL == original.ImageURL:
		return "image kept"
	case merged.ImageURL != "":
		return merged.ImageURL
	default:
		return "no image"
	}
}

func addedImage(img *products.Image, none string) string {
	if img == nil {
		return none
	}
	return "added: " + img.Filename
}
