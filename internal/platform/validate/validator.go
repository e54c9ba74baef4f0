package validate

import (
	"context"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their column name, which is also what the forms use.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("db"), ",")
		if name == "" || name == "-" {
			return f.Name
		}

		return name
	})
}

// Struct is a thin wrapper around validator.Validate's StructCtx.
// This exists purely to ensure that we only have one validator cache.
func Struct(ctx context.Context, s any) error {
	return validate.StructCtx(ctx, s)
}
