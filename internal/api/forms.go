package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"pharmadesk/m/domain"
)

var (
	stockFields    = []string{"medicine", "quantity", "price", "expiry_date"}
	customerFields = []string{"name", "phone_number", "email", "medicines"}
)

// stockFromForm validates and coerces every field before an item is built,
// so a bad value never reaches the store.
func stockFromForm(form url.Values) (domain.StockItem, error) {
	name := strings.TrimSpace(form.Get("medicine"))
	if name == "" {
		return domain.StockItem{}, &domain.ValidationError{Field: "medicine", Reason: "is required"}
	}
	expiry := strings.TrimSpace(form.Get("expiry_date"))
	if expiry == "" {
		return domain.StockItem{}, &domain.ValidationError{Field: "expiry_date", Reason: "is required"}
	}

	rawQty := strings.TrimSpace(form.Get("quantity"))
	qty, err := strconv.ParseInt(rawQty, 10, 64)
	if err != nil {
		return domain.StockItem{}, &domain.CoercionError{Field: "quantity", Value: rawQty, Err: err}
	}
	if qty < 0 {
		return domain.StockItem{}, &domain.CoercionError{Field: "quantity", Value: rawQty}
	}

	rawPrice := strings.TrimSpace(form.Get("price"))
	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return domain.StockItem{}, &domain.CoercionError{Field: "price", Value: rawPrice, Err: err}
	}
	if price.IsNegative() {
		return domain.StockItem{}, &domain.CoercionError{Field: "price", Value: rawPrice}
	}

	return domain.StockItem{Name: name, Quantity: qty, Price: price, ExpiryDate: expiry}, nil
}

// customerFromForm keeps the selected medicines in submitted order,
// duplicates included. Blank selections are dropped.
func customerFromForm(form url.Values) (domain.Customer, error) {
	c := domain.Customer{
		Name:        strings.TrimSpace(form.Get("name")),
		PhoneNumber: strings.TrimSpace(form.Get("phone_number")),
		Email:       strings.TrimSpace(form.Get("email")),
		Medicines:   domain.MedicineList{},
	}
	switch {
	case c.Name == "":
		return domain.Customer{}, &domain.ValidationError{Field: "name", Reason: "is required"}
	case c.PhoneNumber == "":
		return domain.Customer{}, &domain.ValidationError{Field: "phone_number", Reason: "is required"}
	case c.Email == "":
		return domain.Customer{}, &domain.ValidationError{Field: "email", Reason: "is required"}
	}
	for _, name := range form["medicines"] {
		if name = strings.TrimSpace(name); name != "" {
			c.Medicines = append(c.Medicines, name)
		}
	}
	return c, nil
}
