package products

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/agentstation/catalogadmin/pkg/constants"
	"github.com/agentstation/catalogadmin/pkg/errors"
)

// Violation is the first failed rule of one field.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Violations is the ordered list of per-field failures of a submission.
// It implements error and matches errors.ErrInvalidInput.
type Violations []Violation

// Error implements the error interface
func (v Violations) Error() string {
	parts := make([]string, len(v))
	for i, violation := range v {
		parts[i] = violation.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is implements errors.Is support
func (v Violations) Is(target error) bool {
	return target == errors.ErrInvalidInput
}

// Field returns the violation recorded for the named field.
func (v Violations) Field(name string) (Violation, bool) {
	for _, violation := range v {
		if violation.Field == name {
			return violation, true
		}
	}
	return Violation{}, false
}

// Messages returns field name to message, the shape forms render inline.
func (v Violations) Messages() map[string]string {
	out := make(map[string]string, len(v))
	for _, violation := range v {
		out[violation.Field] = violation.Message
	}
	return out
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func schema() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		v.RegisterAlias("productname", fmt.Sprintf("notblank,max=%d", constants.MaxNameLength))
		v.RegisterAlias("productcategory", fmt.Sprintf("notblank,max=%d", constants.MaxCategoryLength))
		v.RegisterAlias("imagetype", "oneof="+strings.Join(AllowedImageTypes, " "))
		v.RegisterAlias("imagesize", fmt.Sprintf("gt=0,max=%d", constants.MaxImageSize))
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if n, ok := field.Interface().(Nullable[int]); ok && n.Value != nil {
				return *n.Value
			}
			return nil
		}, Nullable[int]{})
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if n, ok := field.Interface().(Nullable[float64]); ok && n.Value != nil {
				return *n.Value
			}
			return nil
		}, Nullable[float64]{})
		validate = v
	})
	return validate
}

// ValidateDraft checks a new product. It returns nil or Violations.
func ValidateDraft(d Draft) error {
	return collect(schema().Struct(d), d.Image)
}

// ValidatePatch checks the touched fields of an edit. Untouched fields are
// not checked. It returns nil or Violations.
func ValidatePatch(p Patch) error {
	return collect(schema().Struct(p), p.Image)
}

// ValidateImage checks a pending image on its own.
func ValidateImage(img *Image) error {
	return collect(nil, img)
}

func collect(err error, img *Image) error {
	var out Violations
	if err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return errors.WrapValidation("", err)
		}
		for _, fe := range fieldErrs {
			out = append(out, Violation{
				Field:   fe.Field(),
				Rule:    fe.ActualTag(),
				Message: message(fe.Field(), fe.ActualTag(), fe.Param()),
			})
		}
	}
	if img != nil {
		if err := schema().Struct(img); err != nil {
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
				fe := fieldErrs[0]
				out = append(out, Violation{
					Field:   "image",
					Rule:    fe.ActualTag(),
					Message: imageMessage(fe.Field(), img),
				})
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func message(field, rule, param string) string {
	switch rule {
	case "notblank", "required":
		return fmt.Sprintf("%s cannot be empty", field)
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", field, param)
	case "gte":
		if field == "stock" {
			return "stock must be a whole number greater than or equal to 0"
		}
		return fmt.Sprintf("%s must be a number greater than or equal to %s", field, param)
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, rule)
	}
}

func imageMessage(field string, img *Image) string {
	switch field {
	case "mimeType":
		return fmt.Sprintf("image type %q is not allowed, use one of %s", img.MIMEType, strings.Join(AllowedImageTypes, ", "))
	case "size":
		if img.Size <= 0 {
			return "image file is empty"
		}
		return fmt.Sprintf("image cannot exceed %d MiB", constants.MaxImageSize>>20)
	default:
		return "image file name is missing"
	}
}
