package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sqlx/sqlx"

	"github.com/gaqzi/review-ledger/internal/ledger"
)

// The queries are written with ? placeholders and rebound for the driver in use,
// that way the same stores work for both SQLite and Postgres.

func storageErr(op string, err error) error {
	return &ledger.StorageError{Op: op, Err: err}
}

type CustomerSQLStore struct {
	db *sqlx.DB
}

func NewCustomerSQLStore(db *sqlx.DB) *CustomerSQLStore {
	return &CustomerSQLStore{db: db}
}

func (s *CustomerSQLStore) Get(ctx context.Context, id int64) (ledger.Customer, error) {
	var c ledger.Customer
	err := s.db.GetContext(ctx, &c, s.db.Rebind(`SELECT id, first_name, last_name FROM customers WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Customer{}, &ledger.NotFoundError{Kind: ledger.KindCustomer, ID: id}
		}

		return ledger.Customer{}, storageErr("get customer", err)
	}

	return c, nil
}

func (s *CustomerSQLStore) Save(ctx context.Context, c ledger.Customer) (ledger.Customer, error) {
	if c.ID == 0 {
		err := s.db.QueryRowxContext(
			ctx,
			s.db.Rebind(`INSERT INTO customers (first_name, last_name) VALUES (?, ?) RETURNING id`),
			c.FirstName, c.LastName,
		).Scan(&c.ID)
		if err != nil {
			return ledger.Customer{}, storageErr("insert customer", err)
		}

		return c, nil
	}

	res, err := s.db.NamedExecContext(ctx, `UPDATE customers SET first_name = :first_name, last_name = :last_name WHERE id = :id`, c)
	if err != nil {
		return ledger.Customer{}, storageErr("update customer", err)
	}
	if err := expectUpdated(res, ledger.KindCustomer, c.ID); err != nil {
		return ledger.Customer{}, err
	}

	return c, nil
}

func (s *CustomerSQLStore) All(ctx context.Context) ([]ledger.Customer, error) {
	ret := []ledger.Customer{}
	if err := s.db.SelectContext(ctx, &ret, `SELECT id, first_name, last_name FROM customers ORDER BY id`); err != nil {
		return nil, storageErr("list customers", err)
	}

	return ret, nil
}

type RestaurantSQLStore struct {
	db *sqlx.DB
}

func NewRestaurantSQLStore(db *sqlx.DB) *RestaurantSQLStore {
	return &RestaurantSQLStore{db: db}
}

func (s *RestaurantSQLStore) Get(ctx context.Context, id int64) (ledger.Restaurant, error) {
	var r ledger.Restaurant
	err := s.db.GetContext(ctx, &r, s.db.Rebind(`SELECT id, name, price FROM restaurants WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Restaurant{}, &ledger.NotFoundError{Kind: ledger.KindRestaurant, ID: id}
		}

		return ledger.Restaurant{}, storageErr("get restaurant", err)
	}

	return r, nil
}

func (s *RestaurantSQLStore) Save(ctx context.Context, r ledger.Restaurant) (ledger.Restaurant, error) {
	if r.ID == 0 {
		err := s.db.QueryRowxContext(
			ctx,
			s.db.Rebind(`INSERT INTO restaurants (name, price) VALUES (?, ?) RETURNING id`),
			r.Name, r.Price,
		).Scan(&r.ID)
		if err != nil {
			return ledger.Restaurant{}, storageErr("insert restaurant", err)
		}

		return r, nil
	}

	res, err := s.db.NamedExecContext(ctx, `UPDATE restaurants SET name = :name, price = :price WHERE id = :id`, r)
	if err != nil {
		return ledger.Restaurant{}, storageErr("update restaurant", err)
	}
	if err := expectUpdated(res, ledger.KindRestaurant, r.ID); err != nil {
		return ledger.Restaurant{}, err
	}

	return r, nil
}

func (s *RestaurantSQLStore) All(ctx context.Context) ([]ledger.Restaurant, error) {
	ret := []ledger.Restaurant{}
	if err := s.db.SelectContext(ctx, &ret, `SELECT id, name, price FROM restaurants ORDER BY id`); err != nil {
		return nil, storageErr("list restaurants", err)
	}

	return ret, nil
}

func (s *RestaurantSQLStore) Fanciest(ctx context.Context) (ledger.Restaurant, bool, error) {
	var r ledger.Restaurant
	err := s.db.GetContext(ctx, &r, `SELECT id, name, price FROM restaurants ORDER BY price DESC, id ASC LIMIT 1`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Restaurant{}, false, nil
		}

		return ledger.Restaurant{}, false, storageErr("get fanciest restaurant", err)
	}

	return r, true, nil
}

type ReviewSQLStore struct {
	db *sqlx.DB
}

func NewReviewSQLStore(db *sqlx.DB) *ReviewSQLStore {
	return &ReviewSQLStore{db: db}
}

func (s *ReviewSQLStore) Get(ctx context.Context, id int64) (ledger.Review, error) {
	var r ledger.Review
	err := s.db.GetContext(
		ctx,
		&r,
		s.db.Rebind(`SELECT id, customer_id, restaurant_id, rating FROM reviews WHERE id = ?`),
		id,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Review{}, &ledger.NotFoundError{Kind: ledger.KindReview, ID: id}
		}

		return ledger.Review{}, storageErr("get review", err)
	}

	return r, nil
}

func (s *ReviewSQLStore) Add(ctx context.Context, r ledger.Review) (ledger.Review, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return ledger.Review{}, storageErr("begin adding review", err)
	}
	// Rolling back after a commit is a no-op, so this only matters on the error paths.
	defer func() { _ = tx.Rollback() }()

	if err := exists(ctx, tx, `SELECT EXISTS (SELECT 1 FROM customers WHERE id = ?)`, ledger.KindCustomer, r.CustomerID); err != nil {
		return ledger.Review{}, err
	}
	if err := exists(ctx, tx, `SELECT EXISTS (SELECT 1 FROM restaurants WHERE id = ?)`, ledger.KindRestaurant, r.RestaurantID); err != nil {
		return ledger.Review{}, err
	}

	err = tx.QueryRowxContext(
		ctx,
		tx.Rebind(`INSERT INTO reviews (customer_id, restaurant_id, rating) VALUES (?, ?, ?) RETURNING id`),
		r.CustomerID, r.RestaurantID, r.Rating,
	).Scan(&r.ID)
	if err != nil {
		return ledger.Review{}, storageErr("insert review", err)
	}

	if err := tx.Commit(); err != nil {
		return ledger.Review{}, storageErr("commit review", err)
	}

	return r, nil
}

func (s *ReviewSQLStore) DeleteFor(ctx context.Context, customerID, restaurantID int64) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, storageErr("begin deleting reviews", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(
		ctx,
		tx.Rebind(`DELETE FROM reviews WHERE customer_id = ? AND restaurant_id = ?`),
		customerID, restaurantID,
	)
	if err != nil {
		return 0, storageErr("delete reviews", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("count deleted reviews", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, storageErr("commit deleted reviews", err)
	}

	return n, nil
}

func (s *ReviewSQLStore) ByCustomer(ctx context.Context, customerID int64) ([]ledger.Review, error) {
	ret := []ledger.Review{}
	err := s.db.SelectContext(
		ctx,
		&ret,
		s.db.Rebind(`SELECT id, customer_id, restaurant_id, rating FROM reviews WHERE customer_id = ? ORDER BY id`),
		customerID,
	)
	if err != nil {
		return nil, storageErr("list reviews by customer", err)
	}

	return ret, nil
}

func (s *ReviewSQLStore) ByRestaurant(ctx context.Context, restaurantID int64) ([]ledger.Review, error) {
	ret := []ledger.Review{}
	err := s.db.SelectContext(
		ctx,
		&ret,
		s.db.Rebind(`SELECT id, customer_id, restaurant_id, rating FROM reviews WHERE restaurant_id = ? ORDER BY id`),
		restaurantID,
	)
	if err != nil {
		return nil, storageErr("list reviews by restaurant", err)
	}

	return ret, nil
}

func exists(ctx context.Context, tx *sqlx.Tx, query string, kind string, id int64) error {
	var found bool
	if err := tx.GetContext(ctx, &found, tx.Rebind(query), id); err != nil {
		return storageErr("look up "+kind, err)
	}
	if !found {
		return &ledger.NotFoundError{Kind: kind, ID: id}
	}

	return nil
}

func expectUpdated(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("count updated "+kind, err)
	}
	if n == 0 {
		return &ledger.NotFoundError{Kind: kind, ID: id}
	}

	return nil
}
