package models

import "encoding/json"

type Order struct {
	ID            int
	ProductID     int
	Quantity      int
	TotalPrice    float64
	ShippingPrice float64
	TotalPriceTax *float64
	Email         *string
	Shipping      *ShippingInformation
	CreditCard    *CreditCardOnFile
	Paid          bool
	Transaction   *Transaction
}

// ShippingInformation is all-or-nothing: either every field is set on the
// order or the whole block is absent.
type ShippingInformation struct {
	Country    string `json:"country"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Province   string `json:"province"`
}

// CreditCardOnFile holds the masked card details returned by the payment
// gateway. Raw card numbers submitted by clients are never stored.
type CreditCardOnFile struct {
	Name            string `json:"name"`
	FirstDigits     string `json:"first_digits"`
	LastDigits      string `json:"last_digits"`
	ExpirationYear  int    `json:"expiration_year"`
	ExpirationMonth int    `json:"expiration_month"`
}

type Transaction struct {
	ID            string  `json:"id"`
	Success       bool    `json:"success"`
	AmountCharged float64 `json:"amount_charged"`
}

type CreateOrderRequest struct {
	Product *CreateOrderProduct `json:"product"`
}

type CreateOrderProduct struct {
	ID       *int `json:"id"`
	Quantity *int `json:"quantity"`
}

// ShippingRequest uses pointers throughout so absent fields can be told apart
// from zero values during validation.
type ShippingRequest struct {
	Email               *string              `json:"email"`
	ShippingInformation *ShippingInfoRequest `json:"shipping_information"`
}

type ShippingInfoRequest struct {
	Country    *string `json:"country"`
	Address    *string `json:"address"`
	PostalCode *string `json:"postal_code"`
	City       *string `json:"city"`
	Province   *string `json:"province"`
}

// Complete reports whether every shipping field is present. Empty strings
// count as present; only absent keys fail validation.
func (r *ShippingInfoRequest) Complete() bool {
	return r.Country != nil && r.Address != nil && r.PostalCode != nil &&
		r.City != nil && r.Province != nil
}

// PayRequest keeps the credit card as raw JSON; it is forwarded to the
// gateway verbatim and never interpreted here.
type PayRequest struct {
	CreditCard json.RawMessage `json:"credit_card"`
}

// OrderView is the wire shape of an order. Unset shipping, card and
// transaction blocks serialize as explicit nulls, never partial objects.
type OrderView struct {
	ID                  int                  `json:"id"`
	TotalPrice          float64              `json:"total_price"`
	TotalPriceTax       *float64             `json:"total_price_tax"`
	Email               *string              `json:"email"`
	ShippingInformation *ShippingInformation `json:"shipping_information"`
	CreditCard          *CreditCardOnFile    `json:"credit_card"`
	Paid                bool                 `json:"paid"`
	Transaction         *Transaction         `json:"transaction"`
	Product             OrderProductView     `json:"product"`
	ShippingPrice       float64              `json:"shipping_price"`
}

type OrderProductView struct {
	ID       int `json:"id"`
	Quantity int `json:"quantity"`
}

// NewOrderView builds the projection from the stored entity.
func NewOrderView(o *Order) OrderView {
	return OrderView{
		ID:                  o.ID,
		TotalPrice:          o.TotalPrice,
		TotalPriceTax:       o.TotalPriceTax,
		Email:               o.Email,
		ShippingInformation: o.Shipping,
		CreditCard:          o.CreditCard,
		Paid:                o.Paid,
		Transaction:         o.Transaction,
		Product: OrderProductView{
			ID:       o.ProductID,
			Quantity: o.Quantity,
		},
		ShippingPrice: o.ShippingPrice,
	}
}
