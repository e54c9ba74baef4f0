package ledger

import "fmt"

type Review struct {
	ID           int64 `db:"id"`
	CustomerID   int64 `db:"customer_id"`
	RestaurantID int64 `db:"restaurant_id"`
	Rating       int   `db:"rating" validate:"min=1,max=5"`
}

// FullReview renders the review using its customer and restaurant.
// The caller is responsible for passing the records the review references.
func (r Review) FullReview(c Customer, rest Restaurant) string {
	return fmt.Sprintf("Rating: %d, Review by: %s, Restaurant: %s", r.Rating, c.FullName(), rest.Name)
}
