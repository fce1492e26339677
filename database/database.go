package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"shop-api/config"
)

const productsSchema = `
CREATE TABLE IF NOT EXISTS products (
	id INT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	description TEXT NOT NULL,
	price DOUBLE NOT NULL,
	in_stock BOOLEAN NOT NULL DEFAULT TRUE,
	weight INT NOT NULL,
	image VARCHAR(255) NOT NULL
)`

const ordersSchema = `
CREATE TABLE IF NOT EXISTS orders (
	id INT AUTO_INCREMENT PRIMARY KEY,
	product_id INT NOT NULL,
	quantity INT NOT NULL,
	total_price DOUBLE NOT NULL,
	shipping_price DOUBLE NOT NULL,
	total_price_tax DOUBLE NULL,
	email VARCHAR(255) NULL,
	shipping_country VARCHAR(100) NULL,
	shipping_address VARCHAR(255) NULL,
	shipping_postal_code VARCHAR(20) NULL,
	shipping_city VARCHAR(100) NULL,
	shipping_province VARCHAR(10) NULL,
	paid BOOLEAN NOT NULL DEFAULT FALSE,
	credit_card_name VARCHAR(255) NULL,
	credit_card_first_digits VARCHAR(4) NULL,
	credit_card_last_digits VARCHAR(4) NULL,
	credit_card_expiration_year INT NULL,
	credit_card_expiration_month INT NULL,
	transaction_id VARCHAR(64) NULL,
	transaction_success BOOLEAN NULL,
	transaction_amount DOUBLE NULL
)`

// InitDB opens the MySQL handle and makes sure the schema exists.
func InitDB(cfg *config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		if closeErr != nil {
			return nil, closeErr
		}
		return nil, err
	}

	for _, schema := range []string{productsSchema, ordersSchema} {
		if _, err := db.Exec(schema); err != nil {
			closeErr := db.Close()
			if closeErr != nil {
				return nil, closeErr
			}
			return nil, err
		}
	}

	return db, nil
}
