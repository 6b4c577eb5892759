package books

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bookkeep/backend/internal/domain/accounting"
)

// envelopeKeys maps a listing endpoint to the JSON key its response wraps
// the item array in. Unknown endpoints fall back to probing common keys.
var envelopeKeys = map[string]string{
	"/chart-of-accounts":         "chartOfAccounts",
	"/suppliers":                 "suppliers",
	"/customers":                 "customers",
	"/bank-and-cash-accounts":    "bankAndCashAccounts",
	"/employees":                 "employees",
	"/tax-codes":                 "taxCodes",
	"/projects":                  "projects",
	"/fixed-assets":              "fixedAssets",
	"/investments":               "investments",
	"/inventory-items":           "inventoryItems",
	"/inventory-kits":            "inventoryKits",
	"/receipts":                  "receipts",
	"/payments":                  "payments",
	"/expense-claims":            "expenseClaims",
	"/purchase-invoices":         "purchaseInvoices",
	"/sales-invoices":            "salesInvoices",
	"/journal-entries":           "journalEntries",
	"/credit-notes":              "creditNotes",
	"/debit-notes":               "debitNotes",
	"/purchase-orders":           "purchaseOrders",
	"/sales-orders":              "salesOrders",
	"/sales-quotes":              "salesQuotes",
	"/delivery-notes":            "deliveryNotes",
	"/goods-receipts":            "goodsReceipts",
	"/inter-account-transfers":   "interAccountTransfers",
	"/bank-account-transactions": "bankAccountTransactions",
}

// totalKeys are tried in order for the reported total record count
var totalKeys = []string{"totalRecords", "total", "count"}

// envelopeKeyFor resolves the item array key for an endpoint path. Paths
// with a trailing segment (e.g. /bank-account-transactions/{key}) match on
// their collection prefix.
func envelopeKeyFor(path string) string {
	path = "/" + strings.TrimLeft(path, "/")
	if key, ok := envelopeKeys[path]; ok {
		return key
	}
	for prefix, key := range envelopeKeys {
		if strings.HasPrefix(path, prefix+"/") {
			return key
		}
	}
	return ""
}

// decodeEnvelope unpacks a listing response into its raw items and the
// reported total. The total is -1 when the envelope does not report one.
func decodeEnvelope(payload []byte, path string) ([]map[string]any, int, error) {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(payload, &outer); err != nil {
		// Some endpoints return a bare array
		var bare []map[string]any
		if bareErr := json.Unmarshal(payload, &bare); bareErr == nil {
			return bare, -1, nil
		}
		return nil, 0, err
	}

	var raw json.RawMessage
	if key := envelopeKeyFor(path); key != "" {
		raw = outer[key]
	}
	if raw == nil {
		// Fall back to the first array-valued field
		for _, v := range outer {
			if len(v) > 0 && v[0] == '[' {
				raw = v
				break
			}
		}
	}

	items := []map[string]any{}
	if raw != nil {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, 0, err
		}
	}

	total := -1
	for _, key := range totalKeys {
		if v, ok := outer[key]; ok {
			var n int
			if err := json.Unmarshal(v, &n); err == nil {
				total = n
				break
			}
		}
	}
	return items, total, nil
}

// ---------------------------------------------------------------------------
// Field Extraction
// ---------------------------------------------------------------------------

func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func numberField(m map[string]any, keys ...string) decimal.Decimal {
	for _, key := range keys {
		v, ok := m[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return decimal.NewFromFloat(n)
		case string:
			if d, err := decimal.NewFromString(n); err == nil {
				return d
			}
		case map[string]any:
			// Nested amount objects: {"value": 12.5, "currency": "USD"}
			if d := numberField(n, "value", "amount"); !d.IsZero() {
				return d
			}
		}
	}
	return decimal.Zero
}

// ---------------------------------------------------------------------------
// Entity Decoding
// ---------------------------------------------------------------------------

func decodeAccount(m map[string]any) accounting.Account {
	return accounting.Account{
		Key:  stringField(m, "key", "Key"),
		Name: stringField(m, "name", "Name"),
		Code: stringField(m, "code", "Code"),
	}
}

func decodeSupplier(m map[string]any) accounting.Supplier {
	return accounting.Supplier{
		Key:  stringField(m, "key", "Key"),
		Name: stringField(m, "name", "Name"),
		Code: stringField(m, "code", "Code"),
	}
}

func decodeCustomer(m map[string]any) accounting.Customer {
	return accounting.Customer{
		Key:  stringField(m, "key", "Key"),
		Name: stringField(m, "name", "Name"),
		Code: stringField(m, "code", "Code"),
	}
}

func decodeBankAccount(m map[string]any) accounting.BankAccount {
	return accounting.BankAccount{
		Key:      stringField(m, "key", "Key"),
		Name:     stringField(m, "name", "Name"),
		Balance:  numberField(m, "balance", "Balance"),
		Currency: stringField(m, "currency", "Currency"),
	}
}

func decodeEmployee(m map[string]any) accounting.Employee {
	return accounting.Employee{
		Key:  stringField(m, "key", "Key"),
		Name: stringField(m, "name", "Name"),
	}
}

func decodeTaxCode(m map[string]any) accounting.TaxCode {
	return accounting.TaxCode{
		Key:  stringField(m, "key", "Key"),
		Name: stringField(m, "name", "Name"),
		Rate: numberField(m, "rate", "Rate"),
	}
}

func decodeProject(m map[string]any) accounting.Project {
	return accounting.Project{
		Key:  stringField(m, "key", "Key"),
		Name: stringField(m, "name", "Name"),
		Code: stringField(m, "code", "Code"),
	}
}

func decodeFixedAsset(m map[string]any) accounting.FixedAsset {
	return accounting.FixedAsset{
		Key:  stringField(m, "key", "Key"),
		Name: stringField(m, "name", "Name"),
		Code: stringField(m, "code", "Code"),
	}
}

func decodeInvestment(m map[string]any) accounting.Investment {
	return accounting.Investment{
		Key:  stringField(m, "key", "Key"),
		Name: stringField(m, "name", "Name"),
		Code: stringField(m, "code", "Code"),
	}
}

func decodeInventoryItem(m map[string]any) accounting.InventoryItem {
	return accounting.InventoryItem{
		Key:  stringField(m, "key", "Key"),
		Name: stringField(m, "name", "Name"),
		Code: stringField(m, "code", "Code"),
	}
}

func decodeInventoryKit(m map[string]any) accounting.InventoryKit {
	return accounting.InventoryKit{
		Key:  stringField(m, "key", "Key"),
		Name: stringField(m, "name", "Name"),
		Code: stringField(m, "code", "Code"),
	}
}

// decodeTransaction maps a raw listing item onto the shared transaction
// shape. Field names vary across endpoints so each is looked up under its
// known aliases; the untouched item is kept in Raw.
func decodeTransaction(m map[string]any) accounting.TransactionRecord {
	rec := accounting.TransactionRecord{
		Key:         stringField(m, "key", "Key", "id"),
		Date:        stringField(m, "date", "Date", "issueDate", "IssueDate"),
		Reference:   stringField(m, "reference", "Reference"),
		Description: stringField(m, "description", "Description", "narration", "summary"),
		Amount:      numberField(m, "amount", "Amount", "total", "Total", "totalAmount"),
		Currency:    transactionCurrency(m),
		Raw:         m,
	}
	if lines, ok := m["lines"].([]any); ok {
		rec.Lines = decodeLines(lines)
	} else if lines, ok := m["Lines"].([]any); ok {
		rec.Lines = decodeLines(lines)
	}
	return rec
}

func transactionCurrency(m map[string]any) string {
	if s := stringField(m, "currency", "Currency"); s != "" {
		return s
	}
	for _, key := range []string{"amount", "Amount", "total", "Total"} {
		if nested, ok := m[key].(map[string]any); ok {
			if s := stringField(nested, "currency", "Currency"); s != "" {
				return s
			}
		}
	}
	return ""
}

func decodeLines(raw []any) []accounting.LineItem {
	lines := make([]accounting.LineItem, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		line := accounting.LineItem{
			Description: stringField(m, "description", "Description", "lineDescription", "LineDescription"),
			Qty:         numberField(m, "qty", "Qty", "quantity"),
			UnitPrice:   numberField(m, "unitPrice", "UnitPrice", "purchaseUnitPrice", "salesUnitPrice"),
			Amount:      numberField(m, "amount", "Amount"),
		}
		if nested, ok := m["account"].(map[string]any); ok {
			line.AccountKey = stringField(nested, "key", "Key")
			line.AccountName = stringField(nested, "name", "Name")
		} else {
			line.AccountKey = stringField(m, "account", "Account", "accountKey")
			line.AccountName = stringField(m, "accountName", "AccountName")
		}
		lines = append(lines, line)
	}
	return lines
}
