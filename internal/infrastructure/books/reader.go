package books

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/bookkeep/backend/internal/domain/accounting"
)

// referenceList fetches a full reference listing. Reference data is small
// and stable, so these always walk to exhaustion through the read cache.
func referenceList[T any](ctx context.Context, c *Client, path string, decode func(map[string]any) T) ([]T, error) {
	return fetchAllPages(ctx, c, path, nil, decode)
}

// ---------------------------------------------------------------------------
// Reference Data
// ---------------------------------------------------------------------------

// ChartOfAccounts returns every ledger account
func (c *Client) ChartOfAccounts(ctx context.Context) ([]accounting.Account, error) {
	return referenceList(ctx, c, "/chart-of-accounts", decodeAccount)
}

// Suppliers returns every supplier
func (c *Client) Suppliers(ctx context.Context) ([]accounting.Supplier, error) {
	return referenceList(ctx, c, "/suppliers", decodeSupplier)
}

// Customers returns every customer
func (c *Client) Customers(ctx context.Context) ([]accounting.Customer, error) {
	return referenceList(ctx, c, "/customers", decodeCustomer)
}

// BankAndCashAccounts returns every bank and cash account
func (c *Client) BankAndCashAccounts(ctx context.Context) ([]accounting.BankAccount, error) {
	return referenceList(ctx, c, "/bank-and-cash-accounts", decodeBankAccount)
}

// Employees returns every employee
func (c *Client) Employees(ctx context.Context) ([]accounting.Employee, error) {
	return referenceList(ctx, c, "/employees", decodeEmployee)
}

// TaxCodes returns every tax code
func (c *Client) TaxCodes(ctx context.Context) ([]accounting.TaxCode, error) {
	return referenceList(ctx, c, "/tax-codes", decodeTaxCode)
}

// Projects returns every tracking project
func (c *Client) Projects(ctx context.Context) ([]accounting.Project, error) {
	return referenceList(ctx, c, "/projects", decodeProject)
}

// FixedAssets returns every fixed asset
func (c *Client) FixedAssets(ctx context.Context) ([]accounting.FixedAsset, error) {
	return referenceList(ctx, c, "/fixed-assets", decodeFixedAsset)
}

// Investments returns every investment
func (c *Client) Investments(ctx context.Context) ([]accounting.Investment, error) {
	return referenceList(ctx, c, "/investments", decodeInvestment)
}

// InventoryItems returns every inventory item
func (c *Client) InventoryItems(ctx context.Context) ([]accounting.InventoryItem, error) {
	return referenceList(ctx, c, "/inventory-items", decodeInventoryItem)
}

// InventoryKits returns every inventory kit
func (c *Client) InventoryKits(ctx context.Context) ([]accounting.InventoryKit, error) {
	return referenceList(ctx, c, "/inventory-kits", decodeInventoryKit)
}

// ---------------------------------------------------------------------------
// Transaction Listings
// ---------------------------------------------------------------------------

func (c *Client) transactionPage(ctx context.Context, path string, skip, take int) (accounting.Page[accounting.TransactionRecord], error) {
	items, total, err := c.fetchPage(ctx, path, skip, take, nil)
	if err != nil {
		return accounting.Page[accounting.TransactionRecord]{}, err
	}
	return page(items, total, skip, take, decodeTransaction), nil
}

func (c *Client) transactionsAll(ctx context.Context, path string) ([]accounting.TransactionRecord, error) {
	return fetchAllPages(ctx, c, path, nil, decodeTransaction)
}

// Receipts returns all receipts
func (c *Client) Receipts(ctx context.Context) ([]accounting.TransactionRecord, error) {
	return c.transactionsAll(ctx, "/receipts")
}

// ReceiptsPage returns one page of receipts
func (c *Client) ReceiptsPage(ctx context.Context, skip, take int) (accounting.Page[accounting.TransactionRecord], error) {
	return c.transactionPage(ctx, "/receipts", skip, take)
}

// Payments returns all payments
func (c *Client) Payments(ctx context.Context) ([]accounting.TransactionRecord, error) {
	return c.transactionsAll(ctx, "/payments")
}

// PaymentsPage returns one page of payments
func (c *Client) PaymentsPage(ctx context.Context, skip, take int) (accounting.Page[accounting.TransactionRecord], error) {
	return c.transactionPage(ctx, "/payments", skip, take)
}

// ExpenseClaims returns all expense claims
func (c *Client) ExpenseClaims(ctx context.Context) ([]accounting.TransactionRecord, error) {
	return c.transactionsAll(ctx, "/expense-claims")
}

// ExpenseClaimsPage returns one page of expense claims
func (c *Client) ExpenseClaimsPage(ctx context.Context, skip, take int) (accounting.Page[accounting.TransactionRecord], error) {
	return c.transactionPage(ctx, "/expense-claims", skip, take)
}

// PurchaseInvoices returns all purchase invoices
func (c *Client) PurchaseInvoices(ctx context.Context) ([]accounting.TransactionRecord, error) {
	return c.transactionsAll(ctx, "/purchase-invoices")
}

// PurchaseInvoicesPage returns one page of purchase invoices
func (c *Client) PurchaseInvoicesPage(ctx context.Context, skip, take int) (accounting.Page[accounting.TransactionRecord], error) {
	return c.transactionPage(ctx, "/purchase-invoices", skip, take)
}

// SalesInvoices returns all sales invoices
func (c *Client) SalesInvoices(ctx context.Context) ([]accounting.TransactionRecord, error) {
	return c.transactionsAll(ctx, "/sales-invoices")
}

// SalesInvoicesPage returns one page of sales invoices
func (c *Client) SalesInvoicesPage(ctx context.Context, skip, take int) (accounting.Page[accounting.TransactionRecord], error) {
	return c.transactionPage(ctx, "/sales-invoices", skip, take)
}

// JournalEntries returns all journal entries
func (c *Client) JournalEntries(ctx context.Context) ([]accounting.TransactionRecord, error) {
	return c.transactionsAll(ctx, "/journal-entries")
}

// JournalEntriesPage returns one page of journal entries
func (c *Client) JournalEntriesPage(ctx context.Context, skip, take int) (accounting.Page[accounting.TransactionRecord], error) {
	return c.transactionPage(ctx, "/journal-entries", skip, take)
}

// CreditNotes returns all credit notes
func (c *Client) CreditNotes(ctx context.Context) ([]accounting.TransactionRecord, error) {
	return c.transactionsAll(ctx, "/credit-notes")
}

// CreditNotesPage returns one page of credit notes
func (c *Client) CreditNotesPage(ctx context.Context, skip, take int) (accounting.Page[accounting.TransactionRecord], error) {
	return c.transactionPage(ctx, "/credit-notes", skip, take)
}

// DebitNotes returns all debit notes
func (c *Client) DebitNotes(ctx context.Context) ([]accounting.TransactionRecord, error) {
	return c.transactionsAll(ctx, "/debit-notes")
}

// DebitNotesPage returns one page of debit notes
func (c *Client) DebitNotesPage(ctx context.Context, skip, take int) (accounting.Page[accounting.TransactionRecord], error) {
	return c.transactionPage(ctx, "/debit-notes", skip, take)
}

// PurchaseOrders returns all purchase orders
func (c *Client) PurchaseOrders(ctx context.Context) ([]accounting.TransactionRecord, error) {
	return c.transactionsAll(ctx, "/purchase-orders")
}

// PurchaseOrdersPage returns one page of purchase orders
func (c *Client) PurchaseOrdersPage(ctx context.Context, skip, take int) (accounting.Page[accounting.TransactionRecord], error) {
	return c.transactionPage(ctx, "/purchase-orders", skip, take)
}

// SalesOrders returns all sales orders
func (c *Client) SalesOrders(ctx context.Context) ([]accounting.TransactionRecord, error) {
	return c.transactionsAll(ctx, "/sales-orders")
}

// SalesOrdersPage returns one page of sales orders
func (c *Client) SalesOrdersPage(ctx context.Context, skip, take int) (accounting.Page[accounting.TransactionRecord], error) {
	return c.transactionPage(ctx, "/sales-orders", skip, take)
}

// SalesQuotes returns all sales quotes
func (c *Client) SalesQuotes(ctx context.Context) ([]accounting.TransactionRecord, error) {
	return c.transactionsAll(ctx, "/sales-quotes")
}

// SalesQuotesPage returns one page of sales quotes
func (c *Client) SalesQuotesPage(ctx context.Context, skip, take int) (accounting.Page[accounting.TransactionRecord], error) {
	return c.transactionPage(ctx, "/sales-quotes", skip, take)
}

// DeliveryNotes returns all delivery notes
func (c *Client) DeliveryNotes(ctx context.Context) ([]accounting.TransactionRecord, error) {
	return c.transactionsAll(ctx, "/delivery-notes")
}

// DeliveryNotesPage returns one page of delivery notes
func (c *Client) DeliveryNotesPage(ctx context.Context, skip, take int) (accounting.Page[accounting.TransactionRecord], error) {
	return c.transactionPage(ctx, "/delivery-notes", skip, take)
}

// GoodsReceipts returns all goods receipts
func (c *Client) GoodsReceipts(ctx context.Context) ([]accounting.TransactionRecord, error) {
	return c.transactionsAll(ctx, "/goods-receipts")
}

// GoodsReceiptsPage returns one page of goods receipts
func (c *Client) GoodsReceiptsPage(ctx context.Context, skip, take int) (accounting.Page[accounting.TransactionRecord], error) {
	return c.transactionPage(ctx, "/goods-receipts", skip, take)
}

// InterAccountTransfers returns all inter account transfers
func (c *Client) InterAccountTransfers(ctx context.Context) ([]accounting.TransactionRecord, error) {
	return c.transactionsAll(ctx, "/inter-account-transfers")
}

// InterAccountTransfersPage returns one page of inter account transfers
func (c *Client) InterAccountTransfersPage(ctx context.Context, skip, take int) (accounting.Page[accounting.TransactionRecord], error) {
	return c.transactionPage(ctx, "/inter-account-transfers", skip, take)
}

// BankAccountTransactions returns one page of transactions for a single
// bank or cash account
func (c *Client) BankAccountTransactions(ctx context.Context, accountKey string, skip, take int) (accounting.Page[accounting.TransactionRecord], error) {
	return c.transactionPage(ctx, "/bank-account-transactions/"+url.PathEscape(accountKey), skip, take)
}

// ---------------------------------------------------------------------------
// Financial Reports
// ---------------------------------------------------------------------------

// Report views are produced in two steps: POST the report configuration to
// the form endpoint, then GET the generated view under the returned key.
// Creating a report form never posts a ledger entry, so the POST goes
// through the retrying read path.
func (c *Client) reportView(ctx context.Context, report string, form map[string]any) (accounting.ReportData, error) {
	payload, err := c.doRead(ctx, http.MethodPost, "/"+report+"-form", nil, form)
	if err != nil {
		return nil, err
	}
	key := extractKey(payload)
	if key == "" {
		return nil, &accounting.RemoteError{
			Kind:    accounting.ErrorKindGeneric,
			Message: "report form response did not include a key",
		}
	}

	viewPayload, err := c.doRead(ctx, http.MethodGet, "/"+report+"-view/"+url.PathEscape(key), nil, nil)
	if err != nil {
		return nil, err
	}
	var view accounting.ReportData
	if err := json.Unmarshal(viewPayload, &view); err != nil {
		return nil, err
	}
	return view, nil
}

// BalanceSheet returns the balance sheet as of the given date (yyyy-mm-dd)
func (c *Client) BalanceSheet(ctx context.Context, date string) (accounting.ReportData, error) {
	return c.reportView(ctx, "balance-sheet", map[string]any{"Date": date})
}

// ProfitAndLoss returns the profit and loss statement for the period
func (c *Client) ProfitAndLoss(ctx context.Context, fromDate, toDate string) (accounting.ReportData, error) {
	return c.reportView(ctx, "profit-and-loss-statement", map[string]any{
		"FromDate": fromDate,
		"ToDate":   toDate,
	})
}

// TrialBalance returns the trial balance as of the given date
func (c *Client) TrialBalance(ctx context.Context, date string) (accounting.ReportData, error) {
	return c.reportView(ctx, "trial-balance", map[string]any{"Date": date})
}

// CashFlowStatement returns the cash flow statement for the period
func (c *Client) CashFlowStatement(ctx context.Context, fromDate, toDate string) (accounting.ReportData, error) {
	return c.reportView(ctx, "cash-flow-statement", map[string]any{
		"FromDate": fromDate,
		"ToDate":   toDate,
	})
}

// GeneralLedgerSummary returns the ledger summary for the period
func (c *Client) GeneralLedgerSummary(ctx context.Context, fromDate, toDate string) (accounting.ReportData, error) {
	return c.reportView(ctx, "general-ledger-summary", map[string]any{
		"FromDate": fromDate,
		"ToDate":   toDate,
	})
}

// GeneralLedgerTransactions returns ledger transactions for one account
// over the period
func (c *Client) GeneralLedgerTransactions(ctx context.Context, accountKey, fromDate, toDate string) (accounting.ReportData, error) {
	return c.reportView(ctx, "general-ledger-transactions", map[string]any{
		"Account":  accountKey,
		"FromDate": fromDate,
		"ToDate":   toDate,
	})
}

// GeneralLedgerView fetches a previously generated ledger transactions view
func (c *Client) GeneralLedgerView(ctx context.Context, viewID string) (accounting.ReportData, error) {
	payload, err := c.doRead(ctx, http.MethodGet, "/general-ledger-transactions-view/"+url.PathEscape(viewID), nil, nil)
	if err != nil {
		return nil, err
	}
	var view accounting.ReportData
	if err := json.Unmarshal(payload, &view); err != nil {
		return nil, err
	}
	return view, nil
}

// AgedReceivables returns the aged receivables report as of the given date
func (c *Client) AgedReceivables(ctx context.Context, date string) (accounting.ReportData, error) {
	return c.reportView(ctx, "aged-receivables", map[string]any{"Date": date})
}

// AgedPayables returns the aged payables report as of the given date
func (c *Client) AgedPayables(ctx context.Context, date string) (accounting.ReportData, error) {
	return c.reportView(ctx, "aged-payables", map[string]any{"Date": date})
}
