package accounting

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Write Payloads
// ---------------------------------------------------------------------------
//
// One payload type per creatable transaction. Validate runs locally before
// any network call; a failed validation never reaches the remote system.

// ExpenseClaimLine is one line of an expense claim
type ExpenseClaimLine struct {
	// AccountKey is the expense account to post to
	AccountKey string
	// Description is the line narration
	Description string
	// Qty is the line quantity, at least 1
	Qty decimal.Decimal
	// UnitPrice is the purchase unit price
	UnitPrice decimal.Decimal
}

// ExpenseClaim records an expense paid out of pocket by an employee
type ExpenseClaim struct {
	// Date is the claim date in YYYY-MM-DD form
	Date string
	// PaidBy is the employee key of the payer
	PaidBy string
	// Payee is the party that was paid
	Payee string
	// Description is the claim narration
	Description string
	// Lines holds the ordered claim lines
	Lines []ExpenseClaimLine
}

// Validate checks the claim is complete enough to submit
func (p ExpenseClaim) Validate() error {
	var errs []string
	if p.Date == "" {
		errs = append(errs, "date is required")
	}
	if p.PaidBy == "" {
		errs = append(errs, "paid-by employee is required")
	}
	if p.Payee == "" {
		errs = append(errs, "payee is required")
	}
	if len(p.Lines) == 0 {
		errs = append(errs, "at least one line item is required")
	}
	for i, line := range p.Lines {
		if line.AccountKey == "" {
			errs = append(errs, fmt.Sprintf("line %d: account is required", i+1))
		}
		if !line.Qty.IsPositive() {
			errs = append(errs, fmt.Sprintf("line %d: quantity must be positive", i+1))
		}
		if line.UnitPrice.IsNegative() {
			errs = append(errs, fmt.Sprintf("line %d: unit price cannot be negative", i+1))
		}
	}
	return joinValidation("expense claim", errs)
}

// Total returns the sum of qty * unit price across all lines
func (p ExpenseClaim) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range p.Lines {
		total = total.Add(line.Qty.Mul(line.UnitPrice))
	}
	return total
}

// PurchaseInvoiceLine is one line of a purchase invoice
type PurchaseInvoiceLine struct {
	AccountKey  string
	Description string
	UnitPrice   decimal.Decimal
}

// PurchaseInvoice records a supplier bill received on credit
type PurchaseInvoice struct {
	// IssueDate is the invoice date in YYYY-MM-DD form
	IssueDate string
	// Reference is the supplier's invoice number
	Reference string
	// Description is the invoice narration
	Description string
	// SupplierKey is the remote key of the billing supplier
	SupplierKey string
	// Lines holds the ordered invoice lines
	Lines []PurchaseInvoiceLine
}

// Validate checks the invoice is complete enough to submit
func (p PurchaseInvoice) Validate() error {
	var errs []string
	if p.IssueDate == "" {
		errs = append(errs, "issue date is required")
	}
	if p.Reference == "" {
		errs = append(errs, "reference is required")
	}
	if p.SupplierKey == "" {
		errs = append(errs, "supplier is required")
	}
	if len(p.Lines) == 0 {
		errs = append(errs, "at least one line item is required")
	}
	for i, line := range p.Lines {
		if line.AccountKey == "" {
			errs = append(errs, fmt.Sprintf("line %d: account is required", i+1))
		}
		if line.UnitPrice.IsNegative() {
			errs = append(errs, fmt.Sprintf("line %d: unit price cannot be negative", i+1))
		}
	}
	return joinValidation("purchase invoice", errs)
}

// SalesInvoiceLine is one line of a sales invoice
type SalesInvoiceLine struct {
	AccountKey  string
	Description string
	Qty         decimal.Decimal
	UnitPrice   decimal.Decimal
}

// SalesInvoice bills a customer for goods or services
type SalesInvoice struct {
	IssueDate   string
	DueDate     string
	Reference   string
	Description string
	// CustomerKey is the remote key of the billed customer
	CustomerKey string
	Lines       []SalesInvoiceLine
}

// Validate checks the invoice is complete enough to submit
func (p SalesInvoice) Validate() error {
	var errs []string
	if p.IssueDate == "" {
		errs = append(errs, "issue date is required")
	}
	if p.Reference == "" {
		errs = append(errs, "reference is required")
	}
	if p.CustomerKey == "" {
		errs = append(errs, "customer is required")
	}
	if len(p.Lines) == 0 {
		errs = append(errs, "at least one line item is required")
	}
	for i, line := range p.Lines {
		if line.AccountKey == "" {
			errs = append(errs, fmt.Sprintf("line %d: account is required", i+1))
		}
		if !line.Qty.IsPositive() {
			errs = append(errs, fmt.Sprintf("line %d: quantity must be positive", i+1))
		}
		if line.UnitPrice.IsNegative() {
			errs = append(errs, fmt.Sprintf("line %d: unit price cannot be negative", i+1))
		}
	}
	return joinValidation("sales invoice", errs)
}

// PaymentLine is one line of a payment
type PaymentLine struct {
	AccountKey  string
	Description string
	Amount      decimal.Decimal
}

// Payment records money leaving a bank or cash account
type Payment struct {
	Date string
	// PaidFromKey is the bank/cash account paid from
	PaidFromKey string
	Payee       string
	Description string
	Reference   string
	Lines       []PaymentLine
}

// Validate checks the payment is complete enough to submit
func (p Payment) Validate() error {
	var errs []string
	if p.Date == "" {
		errs = append(errs, "date is required")
	}
	if p.PaidFromKey == "" {
		errs = append(errs, "paid-from account is required")
	}
	if p.Payee == "" {
		errs = append(errs, "payee is required")
	}
	if len(p.Lines) == 0 {
		errs = append(errs, "at least one line item is required")
	}
	for i, line := range p.Lines {
		if line.AccountKey == "" {
			errs = append(errs, fmt.Sprintf("line %d: account is required", i+1))
		}
		if line.Amount.IsNegative() {
			errs = append(errs, fmt.Sprintf("line %d: amount cannot be negative", i+1))
		}
	}
	return joinValidation("payment", errs)
}

// ReceiptLine is one line of a receipt
type ReceiptLine struct {
	AccountKey  string
	Description string
	Amount      decimal.Decimal
}

// Receipt records money arriving into a bank or cash account
type Receipt struct {
	Date string
	// ReceivedInKey is the bank/cash account received into
	ReceivedInKey string
	Payer         string
	Description   string
	Reference     string
	Lines         []ReceiptLine
}

// Validate checks the receipt is complete enough to submit
func (p Receipt) Validate() error {
	var errs []string
	if p.Date == "" {
		errs = append(errs, "date is required")
	}
	if p.ReceivedInKey == "" {
		errs = append(errs, "received-in account is required")
	}
	if p.Payer == "" {
		errs = append(errs, "payer is required")
	}
	if len(p.Lines) == 0 {
		errs = append(errs, "at least one line item is required")
	}
	for i, line := range p.Lines {
		if line.AccountKey == "" {
			errs = append(errs, fmt.Sprintf("line %d: account is required", i+1))
		}
		if line.Amount.IsNegative() {
			errs = append(errs, fmt.Sprintf("line %d: amount cannot be negative", i+1))
		}
	}
	return joinValidation("receipt", errs)
}

// JournalEntryLine is one leg of a journal entry. Exactly one of Debit or
// Credit must be set.
type JournalEntryLine struct {
	AccountKey  string
	Description string
	Debit       *decimal.Decimal
	Credit      *decimal.Decimal
}

// JournalEntry is a manual accounting adjustment
type JournalEntry struct {
	Date string
	// Narration is the entry memo
	Narration string
	Reference string
	Lines     []JournalEntryLine
}

// Validate checks the entry balances and is complete enough to submit
func (p JournalEntry) Validate() error {
	var errs []string
	if p.Date == "" {
		errs = append(errs, "date is required")
	}
	if p.Narration == "" {
		errs = append(errs, "narration is required")
	}
	if len(p.Lines) < 2 {
		errs = append(errs, "at least two line items are required")
	}
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i, line := range p.Lines {
		if line.AccountKey == "" {
			errs = append(errs, fmt.Sprintf("line %d: account is required", i+1))
		}
		switch {
		case line.Debit == nil && line.Credit == nil:
			errs = append(errs, fmt.Sprintf("line %d: either debit or credit is required", i+1))
		case line.Debit != nil && line.Credit != nil:
			errs = append(errs, fmt.Sprintf("line %d: cannot have both debit and credit", i+1))
		case line.Debit != nil:
			if line.Debit.IsNegative() {
				errs = append(errs, fmt.Sprintf("line %d: debit cannot be negative", i+1))
			}
			totalDebit = totalDebit.Add(*line.Debit)
		case line.Credit != nil:
			if line.Credit.IsNegative() {
				errs = append(errs, fmt.Sprintf("line %d: credit cannot be negative", i+1))
			}
			totalCredit = totalCredit.Add(*line.Credit)
		}
	}
	if !totalDebit.Equal(totalCredit) {
		errs = append(errs, fmt.Sprintf("debits (%s) must equal credits (%s)",
			totalDebit.StringFixed(2), totalCredit.StringFixed(2)))
	}
	return joinValidation("journal entry", errs)
}

// Transfer moves money between two bank or cash accounts
type Transfer struct {
	Date string
	// PaidFromKey is the source bank/cash account
	PaidFromKey string
	// ReceivedInKey is the destination bank/cash account
	ReceivedInKey string
	Amount        decimal.Decimal
	Description   string
	Reference     string
}

// Validate checks the transfer is complete enough to submit
func (p Transfer) Validate() error {
	var errs []string
	if p.Date == "" {
		errs = append(errs, "date is required")
	}
	if p.PaidFromKey == "" {
		errs = append(errs, "paid-from account is required")
	}
	if p.ReceivedInKey == "" {
		errs = append(errs, "received-in account is required")
	}
	if !p.Amount.IsPositive() {
		errs = append(errs, "amount must be positive")
	}
	return joinValidation("transfer", errs)
}

func joinValidation(entry string, errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s: %s", ErrInvalidPayload, entry, strings.Join(errs, "; "))
}
