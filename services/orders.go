// Package services holds the order lifecycle: validation, the state machine
// from created to addressed to paid, and the payment protocol against the
// external gateway.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"shop-api/models"
	"shop-api/payment"
	"shop-api/pricing"
)

type CatalogReader interface {
	GetProduct(ctx context.Context, id int) (*models.Product, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, o *models.Order) (int, error)
	GetOrder(ctx context.Context, id int) (*models.Order, error)
	UpdateShipping(ctx context.Context, id int, email string, shipping models.ShippingInformation, totalPriceTax float64) error
	MarkPaid(ctx context.Context, id int, card models.CreditCardOnFile, txn models.Transaction) (bool, error)
}

type Gateway interface {
	Charge(ctx context.Context, creditCard json.RawMessage, amount float64) (*payment.ChargeResult, error)
}

type OrderService struct {
	catalog CatalogReader
	orders  OrderRepository
	gateway Gateway

	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewOrderService(catalog CatalogReader, orders OrderRepository, gateway Gateway) *OrderService {
	return &OrderService{
		catalog: catalog,
		orders:  orders,
		gateway: gateway,
		locks:   make(map[int]*sync.Mutex),
	}
}

// orderLock returns the mutex serializing mutations of a single order. Locks
// are per order id so a blocked payment call never stalls unrelated orders.
func (s *OrderService) orderLock(id int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// CreateOrder validates the request against the catalog, fixes the immutable
// pricing fields and persists a new unpaid order, returning its id.
func (s *OrderService) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (int, error) {
	if req.Product == nil || req.Product.ID == nil || req.Product.Quantity == nil {
		return 0, validationErr(GroupProduct, CodeMissingFields,
			"Order creation requires a product with an id and a quantity")
	}
	if *req.Product.Quantity < 1 {
		return 0, validationErr(GroupProduct, CodeMissingFields,
			"Quantity must be greater than or equal to 1")
	}

	product, err := s.catalog.GetProduct(ctx, *req.Product.ID)
	if err != nil {
		return 0, fmt.Errorf("loading product: %w", err)
	}
	if product == nil || !product.InStock {
		return 0, validationErr(GroupProduct, CodeOutOfInventory,
			"The requested product is not in inventory")
	}

	quantity := *req.Product.Quantity
	order := &models.Order{
		ProductID:     product.ID,
		Quantity:      quantity,
		TotalPrice:    product.Price * float64(quantity),
		ShippingPrice: pricing.ShippingCost(product.Weight * quantity),
	}

	id, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		return 0, fmt.Errorf("persisting order: %w", err)
	}
	return id, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// SetShipping overwrites the order's contact block and recomputes the
// tax-inclusive total for the new province. It may be called repeatedly
// while the order is unpaid; paid orders reject it so the charged amount
// can never drift afterwards.
func (s *OrderService) SetShipping(ctx context.Context, id int, req models.ShippingRequest) (*models.Order, error) {
	lock := s.orderLock(id)
	lock.Lock()
	defer lock.Unlock()

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email == nil || req.ShippingInformation == nil || !req.ShippingInformation.Complete() {
		return nil, validationErr(GroupOrder, CodeMissingFields,
			"One or more mandatory fields are missing")
	}
	if order.Paid {
		return nil, validationErr(GroupOrder, CodeAlreadyPaid,
			"The order has already been paid")
	}

	shipping := models.ShippingInformation{
		Country:    *req.ShippingInformation.Country,
		Address:    *req.ShippingInformation.Address,
		PostalCode: *req.ShippingInformation.PostalCode,
		City:       *req.ShippingInformation.City,
		Province:   *req.ShippingInformation.Province,
	}
	subtotal := order.TotalPrice + order.ShippingPrice
	totalPriceTax := subtotal + pricing.TaxAmount(subtotal, shipping.Province)

	if err := s.orders.UpdateShipping(ctx, id, *req.Email, shipping, totalPriceTax); err != nil {
		return nil, fmt.Errorf("persisting shipping info: %w", err)
	}
	return s.GetOrder(ctx, id)
}

// Pay charges the tax-inclusive total through the gateway and records the
// result. Payment requires an addressed order and happens at most once.
func (s *OrderService) Pay(ctx context.Context, id int, creditCard json.RawMessage) (*models.Order, error) {
	lock := s.orderLock(id)
	lock.Lock()
	defer lock.Unlock()

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(creditCard) == 0 {
		return nil, validationErr(GroupOrder, CodeMissingFields,
			"Credit card information is required for payment")
	}
	if order.Email == nil || order.Shipping == nil {
		return nil, validationErr(GroupOrder, CodeMissingFields,
			"Customer information is required before applying a credit card")
	}
	if order.Paid {
		return nil, validationErr(GroupOrder, CodeAlreadyPaid,
			"The order has already been paid")
	}

	var amount float64
	if order.TotalPriceTax != nil {
		amount = *order.TotalPriceTax
	}

	result, err := s.gateway.Charge(ctx, creditCard, amount)
	if err != nil {
		var gwErr *payment.GatewayError
		if errors.As(err, &gwErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}

	updated, err := s.orders.MarkPaid(ctx, id, result.CreditCard, result.Transaction)
	if err != nil {
		return nil, fmt.Errorf("persisting payment: %w", err)
	}
	if !updated {
		// Lost the race against another pay on a different instance.
		return nil, validationErr(GroupOrder, CodeAlreadyPaid,
			"The order has already been paid")
	}
	return s.GetOrder(ctx, id)
}
