package validation

import (
	"fmt"
	"strings"

	"iglesia360/internal/model"
)

// Items checks that the list is non-empty and every item has a description
// and a positive amount. Items are expected to be normalized already.
func Items(items []model.SolicitudItem) error {
	v := Violations{}
	if len(items) == 0 {
		v.Add("items", "must have at least 1 element(s)")
		return v.Err(msgMissingFields)
	}

	for i, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			v.Add(fmt.Sprintf("items[%d].description", i), "must not be blank")
		}
		if !item.Amount.IsPositive() {
			v.Add(fmt.Sprintf("items[%d].amount", i), "must be greater than 0")
		}
	}
	return v.Err("Invalid items")
}
