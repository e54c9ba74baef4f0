package ledger

type Customer struct {
	ID        int64  `db:"id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
}

// FullName returns the first and last name separated by a space.
func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
