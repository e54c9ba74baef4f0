// Package a happily stolen from Working Effectively with Unit Tests.
package a

import (
	"github.com/gaqzi/review-ledger/internal/ledger"
)

type BuilderCustomer struct {
	c ledger.Customer
}

// Customer prepares a ledger.Customer that is valid and saved by default but allows for customization.
func Customer() BuilderCustomer {
	return BuilderCustomer{}.IsValid().IsSaved()
}

// IsValid prepares a ledger.Customer named james bond.
func (b BuilderCustomer) IsValid() BuilderCustomer {
	b.c.FirstName = "james"
	b.c.LastName = "bond"

	return b
}

// IsSaved prepares a ledger.Customer that has an ID.
func (b BuilderCustomer) IsSaved() BuilderCustomer {
	b.c.ID = 1

	return b
}

// IsNotSaved prepares a ledger.Customer that hasn't been stored yet.
func (b BuilderCustomer) IsNotSaved() BuilderCustomer {
	b.c.ID = 0

	return b
}

func (b BuilderCustomer) WithID(id int64) BuilderCustomer {
	b.c.ID = id

	return b
}

func (b BuilderCustomer) WithName(first, last string) BuilderCustomer {
	b.c.FirstName = first
	b.c.LastName = last

	return b
}

func (b BuilderCustomer) Build() ledger.Customer {
	return b.c
}

type BuilderRestaurant struct {
	r ledger.Restaurant
}

// Restaurant prepares a ledger.Restaurant that is valid and saved by default.
func Restaurant() BuilderRestaurant {
	return BuilderRestaurant{}.IsValid().IsSaved()
}

func (b BuilderRestaurant) IsValid() BuilderRestaurant {
	b.r.Name = "Risen"
	b.r.Price = 4.5

	return b
}

// IsInvalid prepares a ledger.Restaurant with a negative price.
func (b BuilderRestaurant) IsInvalid() BuilderRestaurant {
	b.r.Price = -1

	return b
}

func (b BuilderRestaurant) IsSaved() BuilderRestaurant {
	b.r.ID = 1

	return b
}

func (b BuilderRestaurant) IsNotSaved() BuilderRestaurant {
	b.r.ID = 0

	return b
}

func (b BuilderRestaurant) WithID(id int64) BuilderRestaurant {
	b.r.ID = id

	return b
}

func (b BuilderRestaurant) WithName(n string) BuilderRestaurant {
	b.r.Name = n

	return b
}

func (b BuilderRestaurant) WithPrice(p float64) BuilderRestaurant {
	b.r.Price = p

	return b
}

func (b BuilderRestaurant) Build() ledger.Restaurant {
	return b.r
}

type BuilderReview struct {
	r ledger.Review
}

// Review prepares a ledger.Review by customer 1 of restaurant 1 that is valid and saved.
func Review() BuilderReview {
	return BuilderReview{}.IsValid().IsSaved()
}

func (b BuilderReview) IsValid() BuilderReview {
	b.r.CustomerID = 1
	b.r.RestaurantID = 1
	b.r.Rating = 5

	return b
}

// IsInvalid prepares a ledger.Review that will fail validation because of its rating.
func (b BuilderReview) IsInvalid() BuilderReview {
	b.r.Rating = 0

	return b
}

func (b BuilderReview) IsSaved() BuilderReview {
	b.r.ID = 1

	return b
}

func (b BuilderReview) IsNotSaved() BuilderReview {
	b.r.ID = 0

	return b
}

func (b BuilderReview) WithID(id int64) BuilderReview {
	b.r.ID = id

	return b
}

func (b BuilderReview) By(c ledger.Customer) BuilderReview {
	b.r.CustomerID = c.ID

	return b
}

func (b BuilderReview) Of(r ledger.Restaurant) BuilderReview {
	b.r.RestaurantID = r.ID

	return b
}

func (b BuilderReview) WithRating(rating int) BuilderReview {
	b.r.Rating = rating

	return b
}

func (b BuilderReview) Build() ledger.Review {
	return b.r
}
