// Package model holds the entities of the solicitudes domain together with
// the pure rules attached to them (status transitions, item totals).
package model

import "github.com/shopspring/decimal"

func init() {
	// The frontend reads monetary fields as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}
