package stores

import (
	"context"
	"database/sql"
	"errors"

	"shop-api/models"
)

// OrderStore persists orders. Creation fixes the immutable pricing fields;
// later mutations each run as a single statement so an order is never left
// half-updated.
type OrderStore struct {
	db *sql.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

// CreateOrder inserts a new unpaid order and returns its assigned id.
func (s *OrderStore) CreateOrder(ctx context.Context, o *models.Order) (int, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO orders (product_id, quantity, total_price, shipping_price)
		VALUES (?, ?, ?, ?)
	`, o.ProductID, o.Quantity, o.TotalPrice, o.ShippingPrice)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

// GetOrder returns nil without error when no order has the given id.
func (s *OrderStore) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	var (
		o           models.Order
		tax         sql.NullFloat64
		email       sql.NullString
		country     sql.NullString
		address     sql.NullString
		postalCode  sql.NullString
		city        sql.NullString
		province    sql.NullString
		cardName    sql.NullString
		cardFirst   sql.NullString
		cardLast    sql.NullString
		cardExpYear sql.NullInt64
		cardExpMon  sql.NullInt64
		txnID       sql.NullString
		txnSuccess  sql.NullBool
		txnAmount   sql.NullFloat64
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, product_id, quantity, total_price, shipping_price, total_price_tax,
		       email, shipping_country, shipping_address, shipping_postal_code,
		       shipping_city, shipping_province, paid,
		       credit_card_name, credit_card_first_digits, credit_card_last_digits,
		       credit_card_expiration_year, credit_card_expiration_month,
		       transaction_id, transaction_success, transaction_amount
		FROM orders
		WHERE id = ?
	`, id).Scan(
		&o.ID, &o.ProductID, &o.Quantity, &o.TotalPrice, &o.ShippingPrice, &tax,
		&email, &country, &address, &postalCode, &city, &province, &o.Paid,
		&cardName, &cardFirst, &cardLast, &cardExpYear, &cardExpMon,
		&txnID, &txnSuccess, &txnAmount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if tax.Valid {
		o.TotalPriceTax = &tax.Float64
	}
	if email.Valid {
		o.Email = &email.String
	}
	if country.Valid {
		o.Shipping = &models.ShippingInformation{
			Country:    country.String,
			Address:    address.String,
			PostalCode: postalCode.String,
			City:       city.String,
			Province:   province.String,
		}
	}
	if cardName.Valid {
		o.CreditCard = &models.CreditCardOnFile{
			Name:            cardName.String,
			FirstDigits:     cardFirst.String,
			LastDigits:      cardLast.String,
			ExpirationYear:  int(cardExpYear.Int64),
			ExpirationMonth: int(cardExpMon.Int64),
		}
	}
	if txnID.Valid {
		o.Transaction = &models.Transaction{
			ID:            txnID.String,
			Success:       txnSuccess.Bool,
			AmountCharged: txnAmount.Float64,
		}
	}

	return &o, nil
}

// UpdateShipping overwrites the contact block and the recomputed tax in one
// statement.
func (s *OrderStore) UpdateShipping(ctx context.Context, id int, email string, shipping models.ShippingInformation, totalPriceTax float64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET email = ?, shipping_country = ?, shipping_address = ?,
		    shipping_postal_code = ?, shipping_city = ?, shipping_province = ?,
		    total_price_tax = ?
		WHERE id = ?
	`, email, shipping.Country, shipping.Address, shipping.PostalCode,
		shipping.City, shipping.Province, totalPriceTax, id)
	return err
}

// MarkPaid flips the paid flag and records the gateway result in a single
// conditional update. It reports false when the order was already paid, which
// makes the check-and-set atomic under concurrent pay attempts.
func (s *OrderStore) MarkPaid(ctx context.Context, id int, card models.CreditCardOnFile, txn models.Transaction) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET paid = TRUE,
		    credit_card_name = ?, credit_card_first_digits = ?, credit_card_last_digits = ?,
		    credit_card_expiration_year = ?, credit_card_expiration_month = ?,
		    transaction_id = ?, transaction_success = ?, transaction_amount = ?
		WHERE id = ? AND paid = FALSE
	`, card.Name, card.FirstDigits, card.LastDigits,
		card.ExpirationYear, card.ExpirationMonth,
		txn.ID, txn.Success, txn.AmountCharged, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
