package accounting

import "github.com/shopspring/decimal"

// ---------------------------------------------------------------------------
// Transaction Records
// ---------------------------------------------------------------------------

// LineItem is one row of a multi-line transaction
type LineItem struct {
	// AccountKey is the remote key of the posted account
	AccountKey string
	// AccountName is the display name when the remote provides it
	AccountName string
	// Description is the line narration
	Description string
	// Qty is the line quantity, zero when the remote omits it
	Qty decimal.Decimal
	// UnitPrice is the per-unit price, zero when the remote omits it
	UnitPrice decimal.Decimal
	// Amount is the line amount, zero when the remote omits it
	Amount decimal.Decimal
}

// TransactionRecord is a transaction fetched from the remote ledger.
// Decoding is schema-tolerant: unknown fields are preserved in Raw and
// missing fields stay zero-valued rather than failing the fetch.
type TransactionRecord struct {
	// Key is the remote-assigned transaction identifier
	Key string
	// Date is the transaction date in YYYY-MM-DD form
	Date string
	// Reference is the optional reference number
	Reference string
	// Description is the transaction narration
	Description string
	// Amount is the transaction total when the remote provides one
	Amount decimal.Decimal
	// Currency is the amount currency when the remote provides one
	Currency string
	// Lines holds the ordered line items
	Lines []LineItem
	// Raw preserves the decoded remote record for fields not mapped above
	Raw map[string]any
}

// Page is one page of a paginated remote listing. Item order is server order.
type Page[T any] struct {
	// Items is the ordered slice of records on this page
	Items []T
	// Total is the size of the backing dataset as reported by the remote
	Total int
	// Skip is the offset this page was fetched at
	Skip int
	// Take is the page size that was requested
	Take int
}

// ReportData is an opaque key-addressable report payload. Remote reports
// have no fixed shape, so they are not mapped onto typed records.
type ReportData map[string]any
