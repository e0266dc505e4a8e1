package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupReturnsCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/GB/SW1A", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"places":[{"longitude":"-0.1416","latitude":"51.5010"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	coords, err := client.Lookup(context.Background(), "GB", "SW1A")
	require.NoError(t, err)
	require.NotNil(t, coords)
	assert.InDelta(t, -0.1416, coords.Lng, 0.0001)
	assert.InDelta(t, 51.5010, coords.Lat, 0.0001)
}

func TestLookupUnknownPostalCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	coords, err := client.Lookup(context.Background(), "GB", "NOPE")
	require.NoError(t, err)
	assert.Nil(t, coords)
}

func TestLookupEmptyInputs(t *testing.T) {
	client := NewClient("http://unused.invalid")

	coords, err := client.Lookup(context.Background(), "", "SW1A")
	require.NoError(t, err)
	assert.Nil(t, coords)

	coords, err = client.Lookup(context.Background(), "GB", "")
	require.NoError(t, err)
	assert.Nil(t, coords)
}

func TestLookupServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Lookup(context.Background(), "GB", "SW1A")
	assert.Error(t, err)
}
