package supplier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shukli/price-ingest/config"
)

func testSupplierConfig(baseURL string) *config.SupplierConfig {
	return &config.SupplierConfig{
		BaseURL:        baseURL,
		PricesPath:     "/prices",
		ChainID:        "7290058160839",
		ChainName:      "Netiv Hahesed",
		RequestTimeout: 5 * time.Second,
		RetryCount:     2,
		RetryWait:      time.Millisecond,
		UserAgent:      "test-agent",
	}
}

func TestFetchFileSendsBrowserHeaders(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	client := NewClient(testSupplierConfig(srv.URL), zap.NewNop())
	data, err := client.FetchFile(context.Background(), "PriceFull7290058160839-039-202504030530.gz")
	require.NoError(t, err)

	assert.Equal(t, []byte("payload"), data)
	assert.Equal(t, "test-agent", gotUA)
	assert.Equal(t, "*/*", gotAccept)
}

func TestFetchFileRetriesThenSucceeds(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := NewClient(testSupplierConfig(srv.URL), zap.NewNop())
	data, err := client.FetchFile(context.Background(), "Promo7290058160839-039-202504030530.gz")
	require.NoError(t, err)

	assert.Equal(t, []byte("ok"), data)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestFetchFileFailsAfterRetryBudget(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(testSupplierConfig(srv.URL), zap.NewNop())
	_, err := client.FetchFile(context.Background(), "missing.gz")

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Equal(t, int32(3), attempts.Load(), "initial attempt plus two retries")
}

func TestListingFetchesRootPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/", r.URL.Path)
		w.Write([]byte("<html>listing</html>"))
	}))
	defer srv.Close()

	client := NewClient(testSupplierConfig(srv.URL), zap.NewNop())
	listing, err := client.Listing(context.Background())
	require.NoError(t, err)
	assert.Contains(t, listing, "listing")
}
