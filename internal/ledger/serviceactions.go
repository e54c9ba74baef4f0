package ledger

import (
	"context"

	"github.com/gaqzi/review-ledger/internal/platform/action"
	"github.com/gaqzi/review-ledger/internal/platform/validate"
)

// Names of the actions the Service runs before writing to storage.
const (
	actionAddReview     = "AddReview"
	actionAddRestaurant = "AddRestaurant"
	actionAddCustomer   = "AddCustomer"
)

type (
	addReviewAction     = func(ctx context.Context, r Review) (Review, error)
	addRestaurantAction = func(ctx context.Context, r Restaurant) (Restaurant, error)
	addCustomerAction   = func(ctx context.Context, c Customer) (Customer, error)
)

// serviceActions are the default pre-hooks for the Service.
// They keep the checking of records out of the Service so it only does collaboration with the stores.
func serviceActions() *action.Mapper {
	m := &action.Mapper{}

	m.Add(actionAddReview, addReviewAction(func(ctx context.Context, r Review) (Review, error) {
		if err := validate.Struct(ctx, r); err != nil {
			return r, &ValidationError{Err: err}
		}

		return r, nil
	}))

	m.Add(actionAddRestaurant, addRestaurantAction(func(ctx context.Context, r Restaurant) (Restaurant, error) {
		if err := validate.Struct(ctx, r); err != nil {
			return r, &ValidationError{Err: err}
		}

		return r, nil
	}))

	// Names are stored as given, the hook is here so callers can replace it.
	m.Add(actionAddCustomer, addCustomerAction(func(_ context.Context, c Customer) (Customer, error) {
		return c, nil
	}))

	return m
}
