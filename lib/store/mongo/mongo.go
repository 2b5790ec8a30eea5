// Package mongo implements the store interface for MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mgo "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GoldenCloudGuy/DecentraPay/lib/store"
)

// Collection names.
const (
	WalletsCol    = "wallets"
	CryptoPrices  = "Prices/CryptoPrices"
	ExchangeRates = "Prices/ExchangeRates"
)

// Mongo implements a connection to a MongoDB database.
type Mongo struct {
	c    *mgo.Client
	name string
}

// New returns a Mongo client connection to the specified MongoDB database uri. All collections are kept in database name.
func New(uri, name string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second) //nolint:gomnd // 5 seconds timeout
	defer cancel()

	c, err := mgo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("cannot connect to mongo DB: %w", err)
	}

	if err = c.Ping(ctx, nil); err != nil {
		_ = c.Disconnect(context.Background())

		return nil, fmt.Errorf("error connecting to mongo DB: %w", err)
	}

	return &Mongo{c: c, name: name}, nil
}

// CloseMongo will close a database connection. Must be called at termination time.
func (m *Mongo) CloseMongo() error {
	return m.c.Disconnect(context.Background())
}

// AddWallet inserts the wallet document keyed by its id.
func (m *Mongo) AddWallet(ctx context.Context, w store.Wallet) error {
	_, err := m.c.Database(m.name).Collection(WalletsCol).InsertOne(ctx, w)
	if mgo.IsDuplicateKeyError(err) {
		return store.ErrDuplicateID
	}

	if err != nil {
		return fmt.Errorf("could not insert wallet in db: %w", err)
	}

	return nil
}

// GetWallet loads the wallet document with the given id.
func (m *Mongo) GetWallet(ctx context.Context, id string) (w store.Wallet, err error) {
	err = m.c.Database(m.name).Collection(WalletsCol).FindOne(ctx, bson.M{"_id": id}).Decode(&w)
	if errors.Is(err, mgo.ErrNoDocuments) {
		err = store.ErrWalletNotFound
	}

	return
}

// AddPrices appends the price snapshot rows to Prices/CryptoPrices.
func (m *Mongo) AddPrices(ctx context.Context, p []store.Price) error {
	if len(p) == 0 {
		return nil
	}

	docs := make([]interface{}, len(p))
	for i := range p {
		docs[i] = p[i]
	}

	if _, err := m.c.Database(m.name).Collection(CryptoPrices).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("could not insert prices in db: %w", err)
	}

	return nil
}

// AddRates appends the exchange rate snapshot rows to Prices/ExchangeRates.
func (m *Mongo) AddRates(ctx context.Context, r []store.Rate) error {
	if len(r) == 0 {
		return nil
	}

	docs := make([]interface{}, len(r))
	for i := range r {
		docs[i] = r[i]
	}

	if _, err := m.c.Database(m.name).Collection(ExchangeRates).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("could not insert rates in db: %w", err)
	}

	return nil
}

// DeleteWallet removes a wallet document. Only used to clean up after tests.
func (m *Mongo) DeleteWallet(ctx context.Context, id string) error {
	res, err := m.c.Database(m.name).Collection(WalletsCol).DeleteOne(ctx, bson.M{"_id": id})
	if err == nil && res.DeletedCount != 1 {
		err = store.ErrWalletNotFound
	}

	return err
}
