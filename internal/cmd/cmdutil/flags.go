// Package cmdutil provides shared flags and helpers for catalogadmin commands.
package cmdutil

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/catalogadmin/pkg/errors"
	"github.com/agentstation/catalogadmin/pkg/listing"
	"github.com/agentstation/catalogadmin/pkg/products"
)

// ListFlags holds the flags that shape a product listing.
type ListFlags struct {
	Search   string
	Category string
	Sort     string
	Page     int
	PageSize int
	All      bool
}

// AddListFlags adds listing flags to a command.
func AddListFlags(cmd *cobra.Command) *ListFlags {
	flags := &ListFlags{}

	cmd.Flags().StringVarP(&flags.Search, "search", "s", "",
		"Show products whose name contains this text")
	cmd.Flags().StringVarP(&flags.Category, "category", "c", "",
		"Show products of one category")
	cmd.Flags().StringVar(&flags.Sort, "sort", "",
		"Sort priorities, e.g. 'price:desc,name' (first is primary)")
	cmd.Flags().IntVarP(&flags.Page, "page", "p", 1,
		"Page to show")
	cmd.Flags().IntVar(&flags.PageSize, "page-size", 0,
		"Rows per page (default from config)")
	cmd.Flags().BoolVar(&flags.All, "all", false,
		"Show every matching product on one page")

	return flags
}

// Apply configures view from the flags. Search and category are mutually
// exclusive, matching the table where applying one replaces the other.
func (f *ListFlags) Apply(view *listing.View) error {
	if f.Search != "" && f.Category != "" {
		return errors.NewValidationError("search", f.Search, "--search and --category cannot be combined")
	}
	if f.Sort != "" {
		p, err := listing.ParsePriorities(f.Sort)
		if err != nil {
			return err
		}
		view.SetPriorities(p)
	}
	switch {
	case strings.TrimSpace(f.Search) != "":
		view.ApplySearch(f.Search)
	case f.Category != "":
		view.ApplyCategory(f.Category)
	}
	if f.Page > 1 && !view.GoTo(f.Page) {
		return errors.NewValidationError("page", f.Page, "page out of range")
	}
	return nil
}

// ProductFlags holds the field flags of add and edit.
type ProductFlags struct {
	Name     string
	Category string
	ImageURL string
	Stock    string
	Price    string
	Image    string
}

// AddProductFlags adds product field flags to a command.
func AddProductFlags(cmd *cobra.Command) *ProductFlags {
	flags := &ProductFlags{}

	cmd.Flags().StringVar(&flags.Name, "name", "",
		"Product name (up to 55 characters)")
	cmd.Flags().StringVar(&flags.Category, "category", "",
		"Product category (up to 30 characters)")
	cmd.Flags().StringVar(&flags.ImageURL, "image-url", "",
		"Image URL")
	cmd.Flags().StringVar(&flags.Stock, "stock", "",
		"Units in stock; empty means unknown")
	cmd.Flags().StringVar(&flags.Price, "price", "",
		"Unit price; empty means unknown")
	cmd.Flags().StringVar(&flags.Image, "image", "",
		"Path of an image file to upload (jpeg, png, gif or webp, up to 5 MiB)")

	return flags
}

// Draft builds a new product from the flags. Stock and price default to 0
// when not given.
func (f *ProductFlags) Draft(cmd *cobra.Command) (products.Draft, error) {
	d := products.Draft{
		Name:     f.Name,
		Category: f.Category,
		ImageURL: f.ImageURL,
		Stock:    products.IntPtr(0),
		Price:    products.FloatPtr(0),
	}
	if cmd.Flags().Changed("stock") {
		n, err := products.ParseStock(strings.TrimSpace(f.Stock))
		if err != nil {
			return d, errors.NewValidationError("stock", f.Stock, "stock must be a whole number")
		}
		d.Stock = n.Ptr()
	}
	if cmd.Flags().Changed("price") {
		n, err := products.ParsePrice(strings.TrimSpace(f.Price))
		if err != nil {
			return d, errors.NewValidationError("price", f.Price, "price must be a number")
		}
		d.Price = n.Ptr()
	}
	if f.Image != "" {
		img, err := products.OpenImage(f.Image)
		if err != nil {
			return d, err
		}
		d.Image = img
	}
	return d, nil
}

// Patch builds an edit from the flags the operator actually passed.
func (f *ProductFlags) Patch(cmd *cobra.Command) (products.Patch, error) {
	var p products.Patch
	changed := cmd.Flags().Changed

	if changed("name") {
		p.Name = products.StringPtr(f.Name)
	}
	if changed("category") {
		p.Category = products.StringPtr(f.Category)
	}
	if changed("image-url") {
		p.ImageURL = products.StringPtr(f.ImageURL)
	}
	if changed("stock") {
		n, err := products.ParseStock(strings.TrimSpace(f.Stock))
		if err != nil {
			return p, errors.NewValidationError("stock", f.Stock, "stock must be a whole number")
		}
		p.Stock = n
	}
	if changed("price") {
		n, err := products.ParsePrice(strings.TrimSpace(f.Price))
		if err != nil {
			return p, errors.NewValidationError("price", f.Price, "price must be a number")
		}
		p.Price = n
	}
	if changed("image") && f.Image != "" {
		img, err := products.OpenImage(f.Image)
		if err != nil {
			return p, err
		}
		p.Image = img
	}
	return p, nil
}
