// Package postgres implements the store interface for PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq" // sql driver "postgres" and *pq.Error codes

	"github.com/GoldenCloudGuy/DecentraPay/lib/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS wallets (
	id               TEXT PRIMARY KEY,
	currency         TEXT NOT NULL,
	address          TEXT NOT NULL,
	private_key      TEXT NOT NULL DEFAULT '',
	mnemonic         TEXT NOT NULL DEFAULT '',
	private_view_key TEXT NOT NULL DEFAULT '',
	path             TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS crypto_prices (
	symbol    TEXT NOT NULL,
	price     TEXT NOT NULL,
	timestamp TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS exchange_rates (
	currency  TEXT NOT NULL,
	rate      DOUBLE PRECISION NOT NULL,
	timestamp TIMESTAMPTZ NOT NULL
);`

// unique_violation
const uniqueViolation = "23505"

type Postgres struct {
	db *sql.DB
}

// New returns a postgres client connection to the specified database in 'connection' and creates the tables.
func New(connection string) (*Postgres, error) {
	db, err := sql.Open("postgres", connection)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to DB: %w", err)
	}

	if _, err = db.Exec(schema); err != nil {
		db.Close()

		return nil, fmt.Errorf("cannot create tables: %w", err)
	}

	return &Postgres{db: db}, nil
}

// ClosePostgres will close any database connection. Must be called at termination time.
func (p *Postgres) ClosePostgres() error {
	return p.db.Close()
}

func (p *Postgres) AddWallet(ctx context.Context, w store.Wallet) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO wallets (id, currency, address, private_key, mnemonic, private_view_key, path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		w.ID, w.Currency, w.Address, w.PrivateKey, w.Mnemonic, w.PrivateViewKey, w.Path, w.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return store.ErrDuplicateID
	}

	if err != nil {
		return fmt.Errorf("could not insert wallet in db: %w", err)
	}

	return nil
}

func (p *Postgres) GetWallet(ctx context.Context, id string) (w store.Wallet, err error) {
	err = p.db.QueryRowContext(ctx,
		`SELECT id, currency, address, private_key, mnemonic, private_view_key, path, created_at
		FROM wallets WHERE id = $1`, id).
		Scan(&w.ID, &w.Currency, &w.Address, &w.PrivateKey, &w.Mnemonic, &w.PrivateViewKey, &w.Path, &w.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		err = store.ErrWalletNotFound
	}

	return
}

func (p *Postgres) AddPrices(ctx context.Context, prices []store.Price) error {
	return p.insert(ctx, len(prices), `INSERT INTO crypto_prices (symbol, price, timestamp) VALUES ($1, $2, $3)`,
		func(i int) []interface{} {
			return []interface{}{prices[i].Symbol, prices[i].Price, prices[i].Timestamp}
		})
}

func (p *Postgres) AddRates(ctx context.Context, rates []store.Rate) error {
	return p.insert(ctx, len(rates), `INSERT INTO exchange_rates (currency, rate, timestamp) VALUES ($1, $2, $3)`,
		func(i int) []interface{} { return []interface{}{rates[i].Currency, rates[i].Rate, rates[i].Timestamp} })
}

// insert runs query n times in a single transaction with the arguments returned by args.
func (p *Postgres) insert(ctx context.Context, n int, query string, args func(int) []interface{}) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		if _, err = tx.ExecContext(ctx, query, args(i)...); err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("could not insert snapshot in db: %w", err)
		}
	}

	return tx.Commit()
}
