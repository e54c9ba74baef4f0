//go:build ruleguard
// +build ruleguard

package ruleguard

import (
	"github.com/quasilyte/go-ruleguard/dsl"
)

// The templates only get the *Basic types from the http package, so that changing a ledger
// type doesn't silently change what a page shows.
//
// To work on this use ruleguard directly: ruleguard -rules ruleguard/rules-dont-pass-domain-objects-to-templates.go internal/ledger/http/handler.go
func domainObjectsInTemplates(m dsl.Matcher) {
	m.Import("github.com/gaqzi/review-ledger/internal/ledger")

	m.Match(`map[string]any{$*_, $key: $val, $*_}`, `$data[$key] = $val`).
		Where(m["val"].Type.Is(`ledger.Customer`) || m["val"].Type.Is(`[]ledger.Customer`)).
		Report(`passing ledger.Customer into a template's data. Use: convertCustomer($val) or convertCustomers($val)`)

	m.Match(`map[string]any{$*_, $key: $val, $*_}`, `$data[$key] = $val`).
		Where(m["val"].Type.Is(`ledger.Restaurant`) || m["val"].Type.Is(`[]ledger.Restaurant`)).
		Report(`passing ledger.Restaurant into a template's data. Use: convertRestaurant($val) or convertRestaurants($val)`)

	m.Match(`map[string]any{$*_, $key: $val, $*_}`, `$data[$key] = $val`).
		Where(m["val"].Type.Is(`ledger.Review`) || m["val"].Type.Is(`[]ledger.Review`)).
		Report(`passing ledger.Review into a template's data, render it with FullReview instead`)
}
