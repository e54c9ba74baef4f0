package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gaqzi/review-ledger/internal/ledger"
	"github.com/gaqzi/review-ledger/test/a"
)

// Stores is one set of the ledger's stores sharing the same backing storage.
type Stores struct {
	Customers   ledger.CustomerStorage
	Restaurants ledger.RestaurantStorage
	Reviews     ledger.ReviewStorage
}

// StorageTest is a base suite used to test across the implementations of the ledger's storage.
// It's implemented this way to ensure that the implementations can be used interchangeably, and to allow for the use
// of lighter implementations during testing.
// The factory has to return empty stores on every call.
func StorageTest(t *testing.T, ctx context.Context, storeFactory func(t *testing.T) Stores) {
	seed := func(t *testing.T, s Stores) (ledger.Customer, ledger.Restaurant) {
		t.Helper()

		c, err := s.Customers.Save(ctx, a.Customer().IsNotSaved().Build())
		require.NoError(t, err, "expected to have saved the customer")
		r, err := s.Restaurants.Save(ctx, a.Restaurant().IsNotSaved().Build())
		require.NoError(t, err, "expected to have saved the restaurant")

		return c, r
	}

	t.Run("Customers", func(t *testing.T) {
		t.Run("Save sets the ID and Get returns the same object", func(t *testing.T) {
			s := storeFactory(t)
			customer := a.Customer().IsNotSaved().Build()

			saved, err := s.Customers.Save(ctx, customer)
			require.NoError(t, err)
			require.NotEmpty(t, saved.ID, "expected the ID to be set when saved")

			actual, err := s.Customers.Get(ctx, saved.ID)
			require.NoError(t, err)
			require.Equal(t, saved, actual)
		})

		t.Run("Save with an ID updates the stored customer", func(t *testing.T) {
			s := storeFactory(t)
			saved, err := s.Customers.Save(ctx, a.Customer().IsNotSaved().Build())
			require.NoError(t, err)

			saved.LastName = "wick"
			_, err = s.Customers.Save(ctx, saved)
			require.NoError(t, err)

			actual, err := s.Customers.Get(ctx, saved.ID)
			require.NoError(t, err)
			require.Equal(t, "james wick", actual.FullName())
		})

		t.Run("Save with an unknown ID returns a NotFoundError and stores nothing", func(t *testing.T) {
			s := storeFactory(t)

			_, err := s.Customers.Save(ctx, a.Customer().WithID(1_000).Build())

			var actualErr *ledger.NotFoundError
			require.ErrorAs(t, err, &actualErr)
			require.Equal(t, &ledger.NotFoundError{Kind: ledger.KindCustomer, ID: 1_000}, actualErr)
			all, err := s.Customers.All(ctx)
			require.NoError(t, err)
			require.Empty(t, all, "expected the customer to not have been stored")
		})

		t.Run("Get returns a NotFoundError when the customer doesn't exist", func(t *testing.T) {
			s := storeFactory(t)

			_, err := s.Customers.Get(ctx, 1_000)

			var actualErr *ledger.NotFoundError
			require.ErrorAs(t, err, &actualErr, "expected a not found error")
			require.Equal(t, &ledger.NotFoundError{Kind: ledger.KindCustomer, ID: 1_000}, actualErr)
		})

		t.Run("All returns the customers in the order they were stored", func(t *testing.T) {
			s := storeFactory(t)
			empty, err := s.Customers.All(ctx)
			require.NoError(t, err)
			require.Empty(t, empty, "expected nothing before anything is stored")

			first, err := s.Customers.Save(ctx, a.Customer().IsNotSaved().Build())
			require.NoError(t, err)
			second, err := s.Customers.Save(ctx, a.Customer().IsNotSaved().WithName("john", "wick").Build())
			require.NoError(t, err)

			actual, err := s.Customers.All(ctx)
			require.NoError(t, err)
			require.Equal(t, []ledger.Customer{first, second}, actual)
		})
	})

	t.Run("Restaurants", func(t *testing.T) {
		t.Run("Save sets the ID and Get returns the same object", func(t *testing.T) {
			s := storeFactory(t)

			saved, err := s.Restaurants.Save(ctx, a.Restaurant().IsNotSaved().Build())
			require.NoError(t, err)
			require.NotEmpty(t, saved.ID)

			actual, err := s.Restaurants.Get(ctx, saved.ID)
			require.NoError(t, err)
			require.Equal(t, saved, actual)
		})

		t.Run("Save with an unknown ID returns a NotFoundError and stores nothing", func(t *testing.T) {
			s := storeFactory(t)

			_, err := s.Restaurants.Save(ctx, a.Restaurant().WithID(1_000).Build())

			var actualErr *ledger.NotFoundError
			require.ErrorAs(t, err, &actualErr)
			require.Equal(t, &ledger.NotFoundError{Kind: ledger.KindRestaurant, ID: 1_000}, actualErr)
			all, err := s.Restaurants.All(ctx)
			require.NoError(t, err)
			require.Empty(t, all, "expected the restaurant to not have been stored")
		})

		t.Run("Get returns a NotFoundError when the restaurant doesn't exist", func(t *testing.T) {
			s := storeFactory(t)

			_, err := s.Restaurants.Get(ctx, 1_000)

			var actualErr *ledger.NotFoundError
			require.ErrorAs(t, err, &actualErr)
			require.Equal(t, ledger.KindRestaurant, actualErr.Kind)
		})

		t.Run("Fanciest with no restaurants returns false", func(t *testing.T) {
			s := storeFactory(t)

			_, ok, err := s.Restaurants.Fanciest(ctx)

			require.NoError(t, err)
			require.False(t, ok)
		})

		t.Run("Fanciest returns the restaurant with the highest price", func(t *testing.T) {
			s := storeFactory(t)
			var risen ledger.Restaurant
			for _, r := range []ledger.Restaurant{
				a.Restaurant().IsNotSaved().WithName("Risen").WithPrice(4.5).Build(),
				a.Restaurant().IsNotSaved().WithName("lily's place").WithPrice(2.0).Build(),
				a.Restaurant().IsNotSaved().WithName("pizza hut").WithPrice(3.8).Build(),
			} {
				saved, err := s.Restaurants.Save(ctx, r)
				require.NoError(t, err)
				if saved.Name == "Risen" {
					risen = saved
				}
			}

			actual, ok, err := s.Restaurants.Fanciest(ctx)

			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, risen, actual)
		})

		t.Run("Fanciest returns the first stored when prices tie", func(t *testing.T) {
			s := storeFactory(t)
			first, err := s.Restaurants.Save(ctx, a.Restaurant().IsNotSaved().WithName("first").WithPrice(3).Build())
			require.NoError(t, err)
			_, err = s.Restaurants.Save(ctx, a.Restaurant().IsNotSaved().WithName("second").WithPrice(3).Build())
			require.NoError(t, err)

			actual, ok, err := s.Restaurants.Fanciest(ctx)

			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, first, actual)
		})
	})

	t.Run("Reviews", func(t *testing.T) {
		t.Run("Add stores the review and it can be found by both owners", func(t *testing.T) {
			s := storeFactory(t)
			customer, restaurant := seed(t, s)

			review, err := s.Reviews.Add(ctx, a.Review().IsNotSaved().By(customer).Of(restaurant).WithRating(4).Build())
			require.NoError(t, err)
			require.NotEmpty(t, review.ID)

			actual, err := s.Reviews.Get(ctx, review.ID)
			require.NoError(t, err)
			require.Equal(t, review, actual)

			byCustomer, err := s.Reviews.ByCustomer(ctx, customer.ID)
			require.NoError(t, err)
			require.Equal(t, []ledger.Review{review}, byCustomer)

			byRestaurant, err := s.Reviews.ByRestaurant(ctx, restaurant.ID)
			require.NoError(t, err)
			require.Equal(t, []ledger.Review{review}, byRestaurant)
		})

		t.Run("Add returns a NotFoundError for a customer that doesn't exist and stores nothing", func(t *testing.T) {
			s := storeFactory(t)
			_, restaurant := seed(t, s)

			_, err := s.Reviews.Add(ctx, a.Review().IsNotSaved().Of(restaurant).By(ledger.Customer{ID: 1_000}).Build())

			var actualErr *ledger.NotFoundError
			require.ErrorAs(t, err, &actualErr)
			require.Equal(t, &ledger.NotFoundError{Kind: ledger.KindCustomer, ID: 1_000}, actualErr)

			reviews, err := s.Reviews.ByRestaurant(ctx, restaurant.ID)
			require.NoError(t, err)
			require.Empty(t, reviews, "expected the failed add to not have stored anything")
		})

		t.Run("Add returns a NotFoundError for a restaurant that doesn't exist", func(t *testing.T) {
			s := storeFactory(t)
			customer, _ := seed(t, s)

			_, err := s.Reviews.Add(ctx, a.Review().IsNotSaved().By(customer).Of(ledger.Restaurant{ID: 1_000}).Build())

			var actualErr *ledger.NotFoundError
			require.ErrorAs(t, err, &actualErr)
			require.Equal(t, &ledger.NotFoundError{Kind: ledger.KindRestaurant, ID: 1_000}, actualErr)
		})

		t.Run("Get returns a NotFoundError when the review doesn't exist", func(t *testing.T) {
			s := storeFactory(t)

			_, err := s.Reviews.Get(ctx, 1_000)

			var actualErr *ledger.NotFoundError
			require.ErrorAs(t, err, &actualErr)
			require.Equal(t, ledger.KindReview, actualErr.Kind)
		})

		t.Run("ByCustomer and ByRestaurant return reviews in the order they were added", func(t *testing.T) {
			s := storeFactory(t)
			customer, restaurant := seed(t, s)
			first, err := s.Reviews.Add(ctx, a.Review().IsNotSaved().By(customer).Of(restaurant).WithRating(2).Build())
			require.NoError(t, err)
			second, err := s.Reviews.Add(ctx, a.Review().IsNotSaved().By(customer).Of(restaurant).WithRating(5).Build())
			require.NoError(t, err)

			byCustomer, err := s.Reviews.ByCustomer(ctx, customer.ID)
			require.NoError(t, err)
			require.Equal(t, []ledger.Review{first, second}, byCustomer)

			byRestaurant, err := s.Reviews.ByRestaurant(ctx, restaurant.ID)
			require.NoError(t, err)
			require.Equal(t, []ledger.Review{first, second}, byRestaurant)
		})

		t.Run("DeleteFor removes only the reviews for the customer and restaurant pair", func(t *testing.T) {
			s := storeFactory(t)
			customer, restaurant := seed(t, s)
			other, err := s.Restaurants.Save(ctx, a.Restaurant().IsNotSaved().WithName("pizza hut").Build())
			require.NoError(t, err)
			otherCustomer, err := s.Customers.Save(ctx, a.Customer().IsNotSaved().WithName("john", "wick").Build())
			require.NoError(t, err)

			for _, r := range []ledger.Review{
				a.Review().IsNotSaved().By(customer).Of(restaurant).Build(),
				a.Review().IsNotSaved().By(customer).Of(restaurant).WithRating(1).Build(),
			} {
				_, err := s.Reviews.Add(ctx, r)
				require.NoError(t, err)
			}
			keptOther, err := s.Reviews.Add(ctx, a.Review().IsNotSaved().By(customer).Of(other).Build())
			require.NoError(t, err)
			keptCustomer, err := s.Reviews.Add(ctx, a.Review().IsNotSaved().By(otherCustomer).Of(restaurant).Build())
			require.NoError(t, err)

			n, err := s.Reviews.DeleteFor(ctx, customer.ID, restaurant.ID)
			require.NoError(t, err)
			require.EqualValues(t, 2, n)

			byCustomer, err := s.Reviews.ByCustomer(ctx, customer.ID)
			require.NoError(t, err)
			require.Equal(t, []ledger.Review{keptOther}, byCustomer, "expected reviews of other restaurants to be kept")

			byRestaurant, err := s.Reviews.ByRestaurant(ctx, restaurant.ID)
			require.NoError(t, err)
			require.Equal(t, []ledger.Review{keptCustomer}, byRestaurant, "expected reviews by other customers to be kept")
		})

		t.Run("DeleteFor with nothing to delete removes nothing", func(t *testing.T) {
			s := storeFactory(t)
			customer, restaurant := seed(t, s)

			n, err := s.Reviews.DeleteFor(ctx, customer.ID, restaurant.ID)

			require.NoError(t, err)
			require.Zero(t, n)
		})
	})
}
