package books

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookkeep/backend/internal/infrastructure/cache"
)

func TestChartOfAccounts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chart-of-accounts", r.URL.Path)
		w.Write([]byte(`{"chartOfAccounts":[
			{"key":"acc-1","name":"Office Supplies","code":"6100"},
			{"key":"acc-2","name":"Travel","code":"6200"}
		],"totalRecords":2}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	accounts, err := client.ChartOfAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Office Supplies", accounts[0].Name)
	assert.Equal(t, "6100", accounts[0].Code)
}

func TestBankAndCashAccountsDecodesBalances(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bankAndCashAccounts":[
			{"key":"bank-1","name":"Checking","balance":1520.75,"currency":"USD"}
		],"totalRecords":1}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	accounts, err := client.BankAndCashAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "1520.75", accounts[0].Balance.String())
	assert.Equal(t, "USD", accounts[0].Currency)
}

func TestReceiptsDecodeTransactionFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"receipts":[{
			"key":"rcpt-1",
			"date":"2026-03-15",
			"reference":"R-100",
			"description":"Client payment",
			"amount":{"value":99.50,"currency":"EUR"},
			"lines":[{"account":{"key":"acc-1","name":"Sales"},"amount":99.50,"description":"line one"}]
		}],"totalRecords":1}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	records, err := client.Receipts(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "rcpt-1", rec.Key)
	assert.Equal(t, "2026-03-15", rec.Date)
	assert.Equal(t, "R-100", rec.Reference)
	assert.Equal(t, "99.5", rec.Amount.String())
	assert.Equal(t, "EUR", rec.Currency)
	require.Len(t, rec.Lines, 1)
	assert.Equal(t, "acc-1", rec.Lines[0].AccountKey)
	assert.Equal(t, "Sales", rec.Lines[0].AccountName)
	assert.NotNil(t, rec.Raw)
}

func TestBankAccountTransactionsPath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"bankAccountTransactions":[],"totalRecords":0}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.BankAccountTransactions(context.Background(), "bank-1", 0, 50)
	require.NoError(t, err)
	assert.Equal(t, "/bank-account-transactions/bank-1", gotPath)
}

func TestReportFormAndView(t *testing.T) {
	var formBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/balance-sheet-form":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&formBody))
			w.Write([]byte(`{"key":"view-123"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/balance-sheet-view/view-123":
			w.Write([]byte(`{"title":"Balance Sheet","assets":1000}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server)
	view, err := client.BalanceSheet(context.Background(), "2026-06-30")
	require.NoError(t, err)
	assert.Equal(t, "2026-06-30", formBody["Date"])
	assert.Equal(t, "Balance Sheet", view["title"])
}

func TestGeneralLedgerTransactionsForm(t *testing.T) {
	var formBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&formBody))
			w.Write([]byte(`{"key":"glt-1"}`))
			return
		}
		assert.Equal(t, "/general-ledger-transactions-view/glt-1", r.URL.Path)
		w.Write([]byte(`{"transactions":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.GeneralLedgerTransactions(context.Background(), "acc-1", "2026-01-01", "2026-06-30")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", formBody["Account"])
	assert.Equal(t, "2026-01-01", formBody["FromDate"])
	assert.Equal(t, "2026-06-30", formBody["ToDate"])
}

func TestReportFormMissingKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.TrialBalance(context.Background(), "2026-06-30")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not include a key")
}

func TestGeneralLedgerView(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/general-ledger-transactions-view/view-9", r.URL.Path)
		w.Write([]byte(`{"transactions":[{"key":"t1"}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	view, err := client.GeneralLedgerView(context.Background(), "view-9")
	require.NoError(t, err)
	assert.Contains(t, view, "transactions")
}

// ---------------------------------------------------------------------------
// Read Caching
// ---------------------------------------------------------------------------

func TestCachedReadSkipsSecondRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"suppliers":[{"key":"sup-1","name":"Acme"}],"totalRecords":1}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	store := cache.NewInMemoryReadCache()
	defer store.Close()
	client.SetReadCache(store)

	for i := 0; i < 3; i++ {
		suppliers, err := client.Suppliers(context.Background())
		require.NoError(t, err)
		require.Len(t, suppliers, 1)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestPageReadsBypassCache(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"payments":[{"key":"pay-1"}],"totalRecords":1}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	store := cache.NewInMemoryReadCache()
	defer store.Close()
	client.SetReadCache(store)

	for i := 0; i < 2; i++ {
		pg, err := client.PaymentsPage(context.Background(), 0, 50)
		require.NoError(t, err)
		require.Len(t, pg.Items, 1)
	}
	// Single pages are never memoized; only the assembled full fetch is
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchAllCachesAssembledWhole(t *testing.T) {
	const n = 250
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
		take, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

		items := []map[string]any{}
		for i := skip; i < n && i < skip+take; i++ {
			items = append(items, map[string]any{"key": fmt.Sprintf("pay-%d", i)})
		}
		json.NewEncoder(w).Encode(map[string]any{"payments": items, "totalRecords": n})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	store := cache.NewInMemoryReadCache()
	defer store.Close()
	client.SetReadCache(store)

	first, err := client.Payments(context.Background())
	require.NoError(t, err)
	require.Len(t, first, n)
	walkCalls := calls.Load()
	assert.Equal(t, int32(3), walkCalls)

	// The second fetch must come back complete from the cached whole,
	// without stitching pages captured at different moments
	second, err := client.Payments(context.Background())
	require.NoError(t, err)
	require.Len(t, second, n)
	assert.Equal(t, "pay-0", second[0].Key)
	assert.Equal(t, fmt.Sprintf("pay-%d", n-1), second[n-1].Key)
	assert.Equal(t, walkCalls, calls.Load())
}

func TestCacheIsolatesTenants(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"suppliers":[],"totalRecords":0}`))
	}))
	defer server.Close()

	store := cache.NewInMemoryReadCache()
	defer store.Close()

	for i := 0; i < 2; i++ {
		client, err := NewClientWithHTTPClient(uuid.New(), testConfig(server.URL), nil, server.Client())
		require.NoError(t, err)
		client.SetReadCache(store)
		_, err = client.Suppliers(context.Background())
		require.NoError(t, err)
	}
	// Distinct tenants must not share cached reads
	assert.Equal(t, int32(2), calls.Load())
}

func TestCacheExpiryRefetches(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"suppliers":[],"totalRecords":0}`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.CacheTTL = 10 * time.Millisecond
	client, err := NewClientWithHTTPClient(uuid.New(), cfg, nil, server.Client())
	require.NoError(t, err)
	store := cache.NewInMemoryReadCache()
	defer store.Close()
	client.SetReadCache(store)

	_, err = client.Suppliers(context.Background())
	require.NoError(t, err)
	time.Sleep(30 * time.Millisecond)
	_, err = client.Suppliers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestWritesBypassCache(t *testing.T) {
	var methods []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		w.Write([]byte(`{"key":"created-1"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	store := cache.NewInMemoryReadCache()
	defer store.Close()
	client.SetReadCache(store)

	for i := 0; i < 2; i++ {
		_, err := client.CallAPI(context.Background(), http.MethodPost, "/payment-form", nil, map[string]any{})
		require.NoError(t, err)
	}
	assert.Len(t, methods, 2)
	for _, m := range methods {
		assert.True(t, strings.HasPrefix(m, "POST "), m)
	}
}
