package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/port"
)

func TestWhoisLookupParsesCreationDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "example.com", r.URL.Query().Get("domainName"))
		assert.Equal(t, "JSON", r.URL.Query().Get("outputFormat"))
		fmt.Fprint(w, `{"WhoisRecord":{"registrarName":"NameCheap","createdDate":"2020-06-15T00:00:00Z"}}`)
	}))
	defer server.Close()

	client := NewWhoisClient(server.URL, "key", time.Second, quietLogger())
	client.now = func() time.Time { return time.Date(2021, 6, 15, 12, 0, 0, 0, time.UTC) }

	record, err := client.Lookup(context.Background(), "example.com")
	require.NoError(t, err)

	assert.Equal(t, "NameCheap", record.Registrar)
	require.NotNil(t, record.AgeDays)
	assert.Equal(t, 365, *record.AgeDays)
	require.NotNil(t, record.CreatedAt)
	assert.Equal(t, 2020, record.CreatedAt.Year())
}

func TestWhoisLookupFallsBackToRegistryData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"WhoisRecord":{"registrarName":"GoDaddy","registryData":{"createdDate":"2019-01-01"}}}`)
	}))
	defer server.Close()

	client := NewWhoisClient(server.URL, "key", time.Second, quietLogger())

	record, err := client.Lookup(context.Background(), "example.com")
	require.NoError(t, err)
	require.NotNil(t, record.AgeDays)
	assert.Greater(t, *record.AgeDays, 365)
}

func TestWhoisLookupMissingDateLeavesAgeNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"WhoisRecord":{"registrarName":"NameCheap"}}`)
	}))
	defer server.Close()

	client := NewWhoisClient(server.URL, "key", time.Second, quietLogger())

	record, err := client.Lookup(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Nil(t, record.AgeDays)
	assert.Nil(t, record.CreatedAt)
}

func TestWhoisLookupVendorErrorIsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ErrorMessage":"invalid API key"}`)
	}))
	defer server.Close()

	client := NewWhoisClient(server.URL, "key", time.Second, quietLogger())

	_, err := client.Lookup(context.Background(), "example.com")
	require.Error(t, err)

	var perr *port.ProviderError
	assert.ErrorAs(t, err, &perr)
}

func TestWhoisLookupHTTPFailureIsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewWhoisClient(server.URL, "key", time.Second, quietLogger())

	_, err := client.Lookup(context.Background(), "example.com")
	require.Error(t, err)

	var perr *port.ProviderError
	assert.ErrorAs(t, err, &perr)
}
