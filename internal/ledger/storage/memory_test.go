package storage_test

import (
	"context"
	"testing"

	"github.com/gaqzi/review-ledger/internal/ledger/storage"
)

func TestMemoryStore(t *testing.T) {
	StorageTest(t, context.Background(), func(_ *testing.T) Stores {
		customers := storage.NewCustomerMemoryStore()
		restaurants := storage.NewRestaurantMemoryStore()

		return Stores{
			Customers:   customers,
			Restaurants: restaurants,
			Reviews:     storage.NewReviewMemoryStore(customers, restaurants),
		}
	})
}
