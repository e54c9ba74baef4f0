package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/gaqzi/review-ledger/internal/ledger"
	ledgerhttp "github.com/gaqzi/review-ledger/internal/ledger/http"
	"github.com/gaqzi/review-ledger/internal/ledger/storage"
	"github.com/gaqzi/review-ledger/test/a"
)

type fixture struct {
	service     *ledger.Service
	router      chi.Router
	customers   []ledger.Customer
	restaurants []ledger.Restaurant
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	customers := storage.NewCustomerMemoryStore()
	restaurants := storage.NewRestaurantMemoryStore()
	service := ledger.NewService(customers, restaurants, storage.NewReviewMemoryStore(customers, restaurants))

	f := fixture{service: service, router: chi.NewRouter()}
	f.router.Group(ledgerhttp.Handler(service))

	for _, c := range []ledger.Customer{
		a.Customer().IsNotSaved().WithName("james", "bond").Build(),
		a.Customer().IsNotSaved().WithName("john", "wick").Build(),
	} {
		saved, err := service.AddCustomer(ctx, c)
		require.NoError(t, err)
		f.customers = append(f.customers, saved)
	}
	for _, r := range []ledger.Restaurant{
		a.Restaurant().IsNotSaved().WithName("Risen").WithPrice(4.5).Build(),
		a.Restaurant().IsNotSaved().WithName("pizza hut").WithPrice(3.8).Build(),
	} {
		saved, err := service.AddRestaurant(ctx, r)
		require.NoError(t, err)
		f.restaurants = append(f.restaurants, saved)
	}

	return f
}

func (f fixture) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Restaurants(t *testing.T) {
	t.Run("lists the restaurants and points out the fanciest", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/restaurants", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Fanciest Restaurant:")
		require.Contains(t, rec.Body.String(), "pizza hut")
	})

	t.Run("shows every review of a restaurant", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.AddReview(context.Background(), f.customers[0].ID, f.restaurants[0].ID, 5)
		require.NoError(t, err)

		rec := f.do(http.MethodGet, "/restaurants/1", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Rating: 5, Review by: james bond, Restaurant: Risen")
	})

	t.Run("a restaurant that doesn't exist is not found", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/restaurants/1000", nil)

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "restaurant not found by id: 1000")
	})

	t.Run("an id that isn't a number is a bad request", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodGet, "/restaurants/risen", nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_CreateRestaurant(t *testing.T) {
	t.Run("stores the restaurant and redirects to it", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/restaurants", url.Values{"name": {"lily's place"}, "price": {"2.0"}})

		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/restaurants/3", rec.Header().Get("Location"))
	})

	t.Run("a negative price is unprocessable", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/restaurants", url.Values{"name": {"cheap"}, "price": {"-1"}})

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestHandler_Customers(t *testing.T) {
	t.Run("creating a customer redirects to it", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/customers", url.Values{"firstName": {"keanu"}, "lastName": {"reeves"}})

		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/customers/3", rec.Header().Get("Location"))

		rec = f.do(http.MethodGet, "/customers", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "keanu reeves")
	})

	t.Run("shows the favorite restaurant of the customer", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		_, err := f.service.AddReview(ctx, f.customers[0].ID, f.restaurants[1].ID, 5)
		require.NoError(t, err)
		_, err = f.service.AddReview(ctx, f.customers[0].ID, f.restaurants[0].ID, 2)
		require.NoError(t, err)

		rec := f.do(http.MethodGet, "/customers/1", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Favorite restaurant: <a href=\"/restaurants/2\">pizza hut</a>")
	})
}

func TestHandler_Reviews(t *testing.T) {
	t.Run("adding a review stores it and redirects back to the customer", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/customers/2/reviews", url.Values{"restaurantID": {"1"}, "rating": {"4"}})

		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/customers/2", rec.Header().Get("Location"))

		reviews, err := f.service.AllReviews(context.Background(), 1)
		require.NoError(t, err)
		require.Equal(t, []string{"Rating: 4, Review by: john wick, Restaurant: Risen"}, reviews)
	})

	t.Run("a rating out of bounds is unprocessable", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/customers/2/reviews", url.Values{"restaurantID": {"1"}, "rating": {"9"}})

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("reviewing a restaurant that doesn't exist is not found", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/customers/2/reviews", url.Values{"restaurantID": {"1000"}, "rating": {"4"}})

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("a rating that isn't a number is a bad request", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(http.MethodPost, "/customers/2/reviews", url.Values{"restaurantID": {"1"}, "rating": {"great"}})

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("deleting removes the customer's reviews of that restaurant", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		_, err := f.service.AddReview(ctx, f.customers[0].ID, f.restaurants[0].ID, 5)
		require.NoError(t, err)
		_, err = f.service.AddReview(ctx, f.customers[0].ID, f.restaurants[1].ID, 3)
		require.NoError(t, err)

		rec := f.do(http.MethodPost, "/customers/1/reviews/delete", url.Values{"restaurantID": {"1"}})

		require.Equal(t, http.StatusSeeOther, rec.Code)
		reviewed, err := f.service.Restaurants(ctx, f.customers[0].ID)
		require.NoError(t, err)
		require.Equal(t, []ledger.Restaurant{f.restaurants[1]}, reviewed)
	})
}
