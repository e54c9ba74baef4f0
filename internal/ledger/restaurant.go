package ledger

type Restaurant struct {
	ID    int64   `db:"id"`
	Name  string  `db:"name"`
	Price float64 `db:"price" validate:"gte=0"`
}
