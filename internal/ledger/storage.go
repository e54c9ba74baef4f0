package ledger

import "context"

type CustomerStorage interface {
	// Get finds the customer or returns a NotFoundError.
	Get(ctx context.Context, id int64) (Customer, error)

	// Save stores the customer and sets the ID when it's not already set.
	Save(ctx context.Context, customer Customer) (Customer, error)

	// All returns every customer in storage order.
	All(ctx context.Context) ([]Customer, error)
}

type RestaurantStorage interface {
	// Get finds the restaurant or returns a NotFoundError.
	Get(ctx context.Context, id int64) (Restaurant, error)

	// Save stores the restaurant and sets the ID when it's not already set.
	Save(ctx context.Context, restaurant Restaurant) (Restaurant, error)

	// All returns every restaurant in storage order.
	All(ctx context.Context) ([]Restaurant, error)

	// Fanciest returns the restaurant with the highest price, the first one stored wins a tie.
	// The bool is false when there are no restaurants.
	Fanciest(ctx context.Context) (Restaurant, bool, error)
}

type ReviewStorage interface {
	// Get finds the review or returns a NotFoundError.
	Get(ctx context.Context, id int64) (Review, error)

	// Add stores a new review in a single unit of work, returning a NotFoundError
	// if either the customer or the restaurant doesn't exist.
	Add(ctx context.Context, review Review) (Review, error)

	// DeleteFor removes every review the customer has for the restaurant in a single unit of work
	// and returns how many were removed.
	DeleteFor(ctx context.Context, customerID, restaurantID int64) (int64, error)

	// ByCustomer returns the customer's reviews in storage order.
	ByCustomer(ctx context.Context, customerID int64) ([]Review, error)

	// ByRestaurant returns the restaurant's reviews in storage order.
	ByRestaurant(ctx context.Context, restaurantID int64) ([]Review, error)
}
