package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-api/models"
)

type fakeStore struct {
	count    int
	inserted []models.Product
}

func (f *fakeStore) CountProducts(context.Context) (int, error) {
	return f.count, nil
}

func (f *fakeStore) InsertProducts(_ context.Context, products []models.Product) error {
	f.inserted = products
	return nil
}

const catalogBody = `{
	"products": [
		{"id": 1, "name": "Brown eggs", "description": "Raw organic brown eggs", "price": 28.1, "in_stock": true, "weight": 400, "image": "0.jpg"},
		{"id": 2, "name": "Sweet fresh stawberry", "description": "Sweet fresh stawberry on the wooden table", "price": 29.45, "weight": 299, "image": "1.jpg"},
		{"id": 3, "name": "Asparagus", "description": "Asparagus with ham", "price": 18.95, "in_stock": false, "weight": 100, "image": "2.jpg"}
	]
}`

func TestBootstrapLoadsEmptyCatalog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(catalogBody))
	}))
	defer server.Close()

	store := &fakeStore{}
	require.NoError(t, Bootstrap(context.Background(), store, server.URL))

	require.Len(t, store.inserted, 3)
	assert.Equal(t, 1, store.inserted[0].ID)
	assert.InDelta(t, 28.1, store.inserted[0].Price, 1e-9)
	assert.True(t, store.inserted[0].InStock)
	// Missing in_stock defaults to true.
	assert.True(t, store.inserted[1].InStock)
	assert.False(t, store.inserted[2].InStock)
}

func TestBootstrapSkipsNonEmptyCatalog(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		requests++
	}))
	defer server.Close()

	store := &fakeStore{count: 3}
	require.NoError(t, Bootstrap(context.Background(), store, server.URL))

	assert.Zero(t, requests)
	assert.Nil(t, store.inserted)
}

func TestBootstrapSourceFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	store := &fakeStore{}
	err := Bootstrap(context.Background(), store, server.URL)
	assert.ErrorContains(t, err, "status 500")
}
