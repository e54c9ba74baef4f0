package http

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/donseba/go-htmx"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/form/v4"

	"github.com/gaqzi/review-ledger/internal/ledger"
)

var (
	//go:embed templates
	templates embed.FS
)

type ledgerService interface {
	AddCustomer(ctx context.Context, c ledger.Customer) (ledger.Customer, error)
	AddRestaurant(ctx context.Context, r ledger.Restaurant) (ledger.Restaurant, error)
	Customer(ctx context.Context, id int64) (ledger.Customer, error)
	Restaurant(ctx context.Context, id int64) (ledger.Restaurant, error)
	AllCustomers(ctx context.Context) ([]ledger.Customer, error)
	AllRestaurants(ctx context.Context) ([]ledger.Restaurant, error)

	AddReview(ctx context.Context, customerID, restaurantID int64, rating int) (ledger.Review, error)
	DeleteReviews(ctx context.Context, customerID, restaurantID int64) (int64, error)

	FavoriteRestaurant(ctx context.Context, customerID int64) (ledger.Restaurant, bool, error)
	Restaurants(ctx context.Context, customerID int64) ([]ledger.Restaurant, error)
	Customers(ctx context.Context, restaurantID int64) ([]ledger.Customer, error)
	Fanciest(ctx context.Context) (ledger.Restaurant, bool, error)
	AllReviews(ctx context.Context, restaurantID int64) ([]string, error)
}

type App struct {
	htmx    *htmx.HTMX
	decoder *form.Decoder
	service ledgerService
}

// Handler registers the pages for browsing customers and restaurants, and for writing reviews.
func Handler(service ledgerService) func(chi.Router) {
	app := App{
		htmx:    htmx.New(),
		decoder: form.NewDecoder(),
		service: service,
	}

	return func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/restaurants", http.StatusFound)
		})

		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", app.Restaurants)
			r.Post("/", app.CreateRestaurant)
			r.Get("/{id}", app.ShowRestaurant)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", app.Customers)
			r.Post("/", app.CreateCustomer)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", app.ShowCustomer)
				r.Post("/reviews", app.AddReview)
				r.Post("/reviews/delete", app.DeleteReviews)
			})
		})
	}
}

type CustomerBasic struct {
	ID        int64  `form:"id"`
	FirstName string `form:"firstName"`
	LastName  string `form:"lastName"`

	FullName string
}

type RestaurantBasic struct {
	ID    int64   `form:"id"`
	Name  string  `form:"name"`
	Price float64 `form:"price"`
}

type ReviewBasic struct {
	RestaurantID int64 `form:"restaurantID"`
	Rating       int   `form:"rating"`
}

func (a *App) Restaurants(w http.ResponseWriter, r *http.Request) {
	h := a.htmx.NewHandler(w, r)
	ctx := r.Context()

	restaurants, err := a.service.AllRestaurants(ctx)
	if err != nil {
		a.writeError(h, "failed to list restaurants", err)
		return
	}

	data := map[string]any{
		"Restaurants": convertRestaurants(restaurants),
	}

	fanciest, ok, err := a.service.Fanciest(ctx)
	if err != nil {
		// The listing is still useful without it, so only log.
		slog.Error("failed to get the fanciest restaurant", "error", err)
	}
	if ok {
		data["Fanciest"] = convertRestaurant(fanciest)
	}

	a.render(h, r, "templates/restaurants/index.html", data)
}

func (a *App) ShowRestaurant(w http.ResponseWriter, r *http.Request) {
	h := a.htmx.NewHandler(w, r)
	ctx := r.Context()

	id, ok := a.parseID(h, r)
	if !ok {
		return
	}

	restaurant, err := a.service.Restaurant(ctx, id)
	if err != nil {
		a.writeError(h, "failed to get restaurant", err)
		return
	}

	reviews, err := a.service.AllReviews(ctx, id)
	if err != nil {
		a.writeError(h, "failed to get reviews for restaurant", err)
		return
	}

	customers, err := a.service.Customers(ctx, id)
	if err != nil {
		a.writeError(h, "failed to get customers of restaurant", err)
		return
	}

	a.render(h, r, "templates/restaurants/show.html", map[string]any{
		"Restaurant": convertRestaurant(restaurant),
		"Reviews":    reviews,
		"Customers":  convertCustomers(customers),
	})
}

func (a *App) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	h := a.htmx.NewHandler(w, r)

	var rb RestaurantBasic
	if !a.decode(h, r, &rb) {
		return
	}

	restaurant, err := a.service.AddRestaurant(r.Context(), ledger.Restaurant{Name: rb.Name, Price: rb.Price})
	if err != nil {
		a.writeError(h, "failed to add restaurant", err)
		return
	}

	h.Header().Add("Location", fmt.Sprintf("/restaurants/%d", restaurant.ID))
	h.WriteHeader(http.StatusSeeOther)
}

func (a *App) Customers(w http.ResponseWriter, r *http.Request) {
	h := a.htmx.NewHandler(w, r)

	customers, err := a.service.AllCustomers(r.Context())
	if err != nil {
		a.writeError(h, "failed to list customers", err)
		return
	}

	a.render(h, r, "templates/customers/index.html", map[string]any{
		"Customers": convertCustomers(customers),
	})
}

func (a *App) ShowCustomer(w http.ResponseWriter, r *http.Request) {
	h := a.htmx.NewHandler(w, r)
	ctx := r.Context()

	id, ok := a.parseID(h, r)
	if !ok {
		return
	}

	customer, err := a.service.Customer(ctx, id)
	if err != nil {
		a.writeError(h, "failed to get customer", err)
		return
	}

	reviewed, err := a.service.Restaurants(ctx, id)
	if err != nil {
		a.writeError(h, "failed to get restaurants reviewed by customer", err)
		return
	}

	all, err := a.service.AllRestaurants(ctx)
	if err != nil {
		a.writeError(h, "failed to list restaurants", err)
		return
	}

	data := map[string]any{
		"Customer":    convertCustomer(customer),
		"Reviewed":    convertRestaurants(reviewed),
		"Restaurants": convertRestaurants(all),
	}

	favorite, ok, err := a.service.FavoriteRestaurant(ctx, id)
	if err != nil {
		a.writeError(h, "failed to get favorite restaurant", err)
		return
	}
	if ok {
		data["Favorite"] = convertRestaurant(favorite)
	}

	a.render(h, r, "templates/customers/show.html", data)
}

func (a *App) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	h := a.htmx.NewHandler(w, r)

	var cb CustomerBasic
	if !a.decode(h, r, &cb) {
		return
	}

	customer, err := a.service.AddCustomer(r.Context(), ledger.Customer{FirstName: cb.FirstName, LastName: cb.LastName})
	if err != nil {
		a.writeError(h, "failed to add customer", err)
		return
	}

	h.Header().Add("Location", fmt.Sprintf("/customers/%d", customer.ID))
	h.WriteHeader(http.StatusSeeOther)
}

func (a *App) AddReview(w http.ResponseWriter, r *http.Request) {
	h := a.htmx.NewHandler(w, r)

	customerID, ok := a.parseID(h, r)
	if !ok {
		return
	}

	var rb ReviewBasic
	if !a.decode(h, r, &rb) {
		return
	}

	if _, err := a.service.AddReview(r.Context(), customerID, rb.RestaurantID, rb.Rating); err != nil {
		a.writeError(h, "failed to add review", err)
		return
	}

	h.Header().Add("Location", fmt.Sprintf("/customers/%d", customerID))
	h.WriteHeader(http.StatusSeeOther)
}

func (a *App) DeleteReviews(w http.ResponseWriter, r *http.Request) {
	h := a.htmx.NewHandler(w, r)

	customerID, ok := a.parseID(h, r)
	if !ok {
		return
	}

	var rb ReviewBasic
	if !a.decode(h, r, &rb) {
		return
	}

	n, err := a.service.DeleteReviews(r.Context(), customerID, rb.RestaurantID)
	if err != nil {
		a.writeError(h, "failed to delete reviews", err)
		return
	}
	slog.Info("deleted reviews", "customerID", customerID, "restaurantID", rb.RestaurantID, "count", n)

	h.Header().Add("Location", fmt.Sprintf("/customers/%d", customerID))
	h.WriteHeader(http.StatusSeeOther)
}

func (a *App) parseID(h *htmx.Handler, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		slog.Info("failed to parse id", "id", chi.URLParam(r, "id"), "error", err)
		h.WriteHeader(http.StatusBadRequest)
		h.JustWriteString("invalid id")
		return 0, false
	}

	return id, true
}

func (a *App) decode(h *htmx.Handler, r *http.Request, v any) bool {
	if err := r.ParseForm(); err != nil {
		slog.Error("failed to parse form", "error", err)
		h.WriteHeader(http.StatusBadRequest)
		h.JustWriteString("invalid form")
		return false
	}

	if err := a.decoder.Decode(v, r.Form); err != nil {
		slog.Info("failed to decode form", "error", err)
		h.WriteHeader(http.StatusBadRequest)
		h.JustWriteString(err.Error())
		return false
	}

	return true
}

// writeError picks the status code from the kind of error and writes the error as the body.
func (a *App) writeError(h *htmx.Handler, msg string, err error) {
	var (
		notFound *ledger.NotFoundError
		invalid  *ledger.ValidationError
	)

	switch {
	case errors.As(err, &notFound):
		slog.Info(msg, "error", err)
		h.WriteHeader(http.StatusNotFound)
		h.JustWriteString(fmt.Sprintf("404: %s", notFound.Error()))
	case errors.As(err, &invalid):
		slog.Info(msg, "error", err)
		h.WriteHeader(http.StatusUnprocessableEntity)
		h.JustWriteString(invalid.Error())
	default:
		slog.Error(msg, "error", err)
		h.WriteHeader(http.StatusInternalServerError)
		h.JustWriteString(msg)
	}
}

func (a *App) render(h *htmx.Handler, r *http.Request, name string, data map[string]any) {
	page := htmx.NewComponent(name).
		FS(templates).
		SetData(data).
		Wrap(baseContent(), "Body")

	if _, err := h.Render(r.Context(), page); err != nil {
		slog.Error("failed to render page", "page", name, "error", err)
		h.WriteHeader(http.StatusInternalServerError)
		_, _ = h.WriteString("failed to render")
	}
}

func baseContent() htmx.RenderableComponent {
	return htmx.NewComponent("templates/base.html").FS(templates)
}

func convertCustomer(c ledger.Customer) CustomerBasic {
	return CustomerBasic{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName(),
	}
}

func convertCustomers(cs []ledger.Customer) []CustomerBasic {
	ret := make([]CustomerBasic, 0, len(cs))
	for _, c := range cs {
		ret = append(ret, convertCustomer(c))
	}

	return ret
}

func convertRestaurant(r ledger.Restaurant) RestaurantBasic {
	return RestaurantBasic{
		ID:    r.ID,
		Name:  r.Name,
		Price: r.Price,
	}
}

func convertRestaurants(rs []ledger.Restaurant) []RestaurantBasic {
	ret := make([]RestaurantBasic, 0, len(rs))
	for _, r := range rs {
		ret = append(ret, convertRestaurant(r))
	}

	return ret
}
