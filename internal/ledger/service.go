package ledger

import (
	"context"
	"fmt"

	"github.com/gaqzi/review-ledger/internal/platform/action"
)

type Service struct {
	customers   CustomerStorage
	restaurants RestaurantStorage
	reviews     ReviewStorage
	actions     *action.Mapper
}

type ServiceOption func(s *Service)

// WithActionMapper replaces the default actions with the ones in m.
func WithActionMapper(m *action.Mapper) ServiceOption {
	return func(s *Service) {
		s.actions.Merge(m)
	}
}

func NewService(
	customers CustomerStorage,
	restaurants RestaurantStorage,
	reviews ReviewStorage,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		customers:   customers,
		restaurants: restaurants,
		reviews:     reviews,
		actions:     serviceActions(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) AddCustomer(ctx context.Context, c Customer) (Customer, error) {
	prepare, err := action.Lookup[addCustomerAction](s.actions, actionAddCustomer)
	if err != nil {
		return Customer{}, err
	}

	c, err = prepare(ctx, c)
	if err != nil {
		return Customer{}, fmt.Errorf("failed to validate customer: %w", err)
	}

	c, err = s.customers.Save(ctx, c)
	if err != nil {
		return Customer{}, fmt.Errorf("failed to save customer: %w", err)
	}

	return c, nil
}

func (s *Service) AddRestaurant(ctx context.Context, r Restaurant) (Restaurant, error) {
	prepare, err := action.Lookup[addRestaurantAction](s.actions, actionAddRestaurant)
	if err != nil {
		return Restaurant{}, err
	}

	r, err = prepare(ctx, r)
	if err != nil {
		return Restaurant{}, fmt.Errorf("failed to validate restaurant: %w", err)
	}

	r, err = s.restaurants.Save(ctx, r)
	if err != nil {
		return Restaurant{}, fmt.Errorf("failed to save restaurant: %w", err)
	}

	return r, nil
}

func (s *Service) Customer(ctx context.Context, id int64) (Customer, error) {
	c, err := s.customers.Get(ctx, id)
	if err != nil {
		return Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}

	return c, nil
}

func (s *Service) Restaurant(ctx context.Context, id int64) (Restaurant, error) {
	r, err := s.restaurants.Get(ctx, id)
	if err != nil {
		return Restaurant{}, fmt.Errorf("failed to get restaurant: %w", err)
	}

	return r, nil
}

func (s *Service) AllCustomers(ctx context.Context) ([]Customer, error) {
	ret, err := s.customers.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all customers: %w", err)
	}

	return ret, nil
}

func (s *Service) AllRestaurants(ctx context.Context) ([]Restaurant, error) {
	ret, err := s.restaurants.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all restaurants: %w", err)
	}

	return ret, nil
}

// AddReview creates a review by the customer of the restaurant and stores it in one unit of work.
func (s *Service) AddReview(ctx context.Context, customerID, restaurantID int64, rating int) (Review, error) {
	prepare, err := action.Lookup[addReviewAction](s.actions, actionAddReview)
	if err != nil {
		return Review{}, err
	}

	review, err := prepare(ctx, Review{
		CustomerID:   customerID,
		RestaurantID: restaurantID,
		Rating:       rating,
	})
	if err != nil {
		return Review{}, fmt.Errorf("failed to validate review: %w", err)
	}

	review, err = s.reviews.Add(ctx, review)
	if err != nil {
		return Review{}, fmt.Errorf("failed to add review: %w", err)
	}

	return review, nil
}

// DeleteReviews removes every review the customer has written for the restaurant.
func (s *Service) DeleteReviews(ctx context.Context, customerID, restaurantID int64) (int64, error) {
	n, err := s.reviews.DeleteFor(ctx, customerID, restaurantID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete reviews: %w", err)
	}

	return n, nil
}

// FavoriteRestaurant returns the restaurant the customer has rated the highest.
// When several reviews share the highest rating the first one written wins.
// The bool is false when the customer hasn't reviewed anything.
func (s *Service) FavoriteRestaurant(ctx context.Context, customerID int64) (Restaurant, bool, error) {
	reviews, err := s.reviews.ByCustomer(ctx, customerID)
	if err != nil {
		return Restaurant{}, false, fmt.Errorf("failed to get reviews for customer: %w", err)
	}
	if len(reviews) == 0 {
		return Restaurant{}, false, nil
	}

	best := reviews[0]
	for _, r := range reviews[1:] {
		if r.Rating > best.Rating {
			best = r
		}
	}

	restaurant, err := s.restaurants.Get(ctx, best.RestaurantID)
	if err != nil {
		return Restaurant{}, false, fmt.Errorf("failed to get favorite restaurant: %w", err)
	}

	return restaurant, true, nil
}

// Restaurants returns the restaurant of each of the customer's reviews,
// so a restaurant reviewed twice is returned twice.
func (s *Service) Restaurants(ctx context.Context, customerID int64) ([]Restaurant, error) {
	reviews, err := s.reviews.ByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews for customer: %w", err)
	}

	ret := make([]Restaurant, 0, len(reviews))
	seen := make(map[int64]Restaurant)
	for _, review := range reviews {
		r, ok := seen[review.RestaurantID]
		if !ok {
			r, err = s.restaurants.Get(ctx, review.RestaurantID)
			if err != nil {
				return nil, fmt.Errorf("failed to get restaurant for review %d: %w", review.ID, err)
			}
			seen[r.ID] = r
		}

		ret = append(ret, r)
	}

	return ret, nil
}

// Customers returns the customer of each of the restaurant's reviews,
// so a customer who reviewed twice is returned twice.
func (s *Service) Customers(ctx context.Context, restaurantID int64) ([]Customer, error) {
	reviews, err := s.reviews.ByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews for restaurant: %w", err)
	}

	ret := make([]Customer, 0, len(reviews))
	seen := make(map[int64]Customer)
	for _, review := range reviews {
		c, ok := seen[review.CustomerID]
		if !ok {
			c, err = s.customers.Get(ctx, review.CustomerID)
			if err != nil {
				return nil, fmt.Errorf("failed to get customer for review %d: %w", review.ID, err)
			}
			seen[c.ID] = c
		}

		ret = append(ret, c)
	}

	return ret, nil
}

// Fanciest returns the most expensive restaurant, the bool is false when there are no restaurants.
func (s *Service) Fanciest(ctx context.Context) (Restaurant, bool, error) {
	r, ok, err := s.restaurants.Fanciest(ctx)
	if err != nil {
		return Restaurant{}, false, fmt.Errorf("failed to get fanciest restaurant: %w", err)
	}

	return r, ok, nil
}

// FullReview renders the review with the names of its customer and restaurant.
func (s *Service) FullReview(ctx context.Context, reviewID int64) (string, error) {
	review, err := s.reviews.Get(ctx, reviewID)
	if err != nil {
		return "", fmt.Errorf("failed to get review: %w", err)
	}

	customer, err := s.customers.Get(ctx, review.CustomerID)
	if err != nil {
		return "", fmt.Errorf("failed to get customer of review: %w", err)
	}

	restaurant, err := s.restaurants.Get(ctx, review.RestaurantID)
	if err != nil {
		return "", fmt.Errorf("failed to get restaurant of review: %w", err)
	}

	return review.FullReview(customer, restaurant), nil
}

// AllReviews renders every review of the restaurant in the order they were written.
func (s *Service) AllReviews(ctx context.Context, restaurantID int64) ([]string, error) {
	restaurant, err := s.restaurants.Get(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}

	reviews, err := s.reviews.ByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews for restaurant: %w", err)
	}

	ret := make([]string, 0, len(reviews))
	seen := make(map[int64]Customer)
	for _, review := range reviews {
		c, ok := seen[review.CustomerID]
		if !ok {
			c, err = s.customers.Get(ctx, review.CustomerID)
			if err != nil {
				return nil, fmt.Errorf("failed to get customer for review %d: %w", review.ID, err)
			}
			seen[c.ID] = c
		}

		ret = append(ret, review.FullReview(c, restaurant))
	}

	return ret, nil
}
