package accounting

import "github.com/shopspring/decimal"

// ---------------------------------------------------------------------------
// Reference Entities
// ---------------------------------------------------------------------------
//
// Reference entities are owned by the remote accounting system and read-only
// here. Keys are remote-assigned, immutable identifiers.

// Account is one row of the chart of accounts
type Account struct {
	// Key is the remote-assigned account identifier
	Key string
	// Name is the account display name
	Name string
	// Code is the optional account code
	Code string
}

// Supplier is a vendor the business purchases from
type Supplier struct {
	Key  string
	Name string
	Code string
}

// Customer is a party the business sells to
type Customer struct {
	Key  string
	Name string
	Code string
}

// BankAccount is a bank or cash account with its current balance
type BankAccount struct {
	Key      string
	Name     string
	Balance  decimal.Decimal
	Currency string
}

// Employee can be the payer of an expense claim
type Employee struct {
	Key  string
	Name string
}

// TaxCode is a tax rate definition applied to transaction lines
type TaxCode struct {
	Key  string
	Name string
	Rate decimal.Decimal
}

// Project groups income and expenses for tracking
type Project struct {
	Key  string
	Name string
	Code string
}

// FixedAsset is a depreciable asset registered on the remote system
type FixedAsset struct {
	Key  string
	Name string
	Code string
}

// Investment is a holding tracked on the remote system
type Investment struct {
	Key  string
	Name string
	Code string
}

// InventoryItem is a stocked item available on transaction lines
type InventoryItem struct {
	Key  string
	Name string
	Code string
}

// InventoryKit is a bundle of inventory items sold as one unit
type InventoryKit struct {
	Key  string
	Name string
	Code string
}
