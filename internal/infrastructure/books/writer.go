package books

import (
	"context"
	"encoding/json"

	"github.com/bookkeep/backend/internal/domain/accounting"
)

// Interface check
var _ accounting.EntryWriter = (*Client)(nil)

// The remote form endpoints take PascalCase payloads and return the key of
// the created entry. Monetary amounts go on the wire as JSON numbers, not
// strings. Every create validates locally first and goes through the
// single-attempt write path.

// customFields2 returns the empty custom fields envelope the form
// endpoints expect on every entry
func customFields2() map[string]any {
	return map[string]any{
		"Strings":      map[string]any{},
		"Decimals":     map[string]any{},
		"Dates":        map[string]any{},
		"Booleans":     map[string]any{},
		"StringArrays": map[string]any{},
	}
}

// extractKey pulls the created entry's key out of a form response
func extractKey(payload []byte) string {
	var parsed map[string]any
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return ""
	}
	return stringField(parsed, "key", "Key")
}

func (c *Client) createForm(ctx context.Context, path string, form map[string]any) (accounting.SubmissionResult, error) {
	payload, err := c.doWrite(ctx, "POST", path, form)
	if err != nil {
		result := accounting.SubmissionResult{Message: err.Error()}
		if rerr, ok := accounting.AsRemoteError(err); ok {
			result.Retryable = rerr.Retryable() && !rerr.Ambiguous
		}
		return result, err
	}
	key := extractKey(payload)
	return accounting.SubmissionResult{
		Success: true,
		Key:     key,
		Message: "created",
	}, nil
}

// CreateExpenseClaim posts a new expense claim
func (c *Client) CreateExpenseClaim(ctx context.Context, claim accounting.ExpenseClaim) (accounting.SubmissionResult, error) {
	if err := claim.Validate(); err != nil {
		return accounting.SubmissionResult{Message: err.Error()}, err
	}
	lines := make([]map[string]any, 0, len(claim.Lines))
	for _, line := range claim.Lines {
		lines = append(lines, map[string]any{
			"Account":           line.AccountKey,
			"LineDescription":   line.Description,
			"Qty":               line.Qty.InexactFloat64(),
			"PurchaseUnitPrice": line.UnitPrice.InexactFloat64(),
		})
	}
	return c.createForm(ctx, "/expense-claim-form", map[string]any{
		"Date":               claim.Date,
		"PaidBy":             claim.PaidBy,
		"Payee":              claim.Payee,
		"Description":        claim.Description,
		"Lines":              lines,
		"HasLineDescription": true,
		"HasLineNumber":      true,
		"CustomFields2":      customFields2(),
	})
}

// CreatePurchaseInvoice posts a new purchase invoice
func (c *Client) CreatePurchaseInvoice(ctx context.Context, invoice accounting.PurchaseInvoice) (accounting.SubmissionResult, error) {
	if err := invoice.Validate(); err != nil {
		return accounting.SubmissionResult{Message: err.Error()}, err
	}
	lines := make([]map[string]any, 0, len(invoice.Lines))
	for _, line := range invoice.Lines {
		lines = append(lines, map[string]any{
			"Account":           line.AccountKey,
			"LineDescription":   line.Description,
			"PurchaseUnitPrice": line.UnitPrice.InexactFloat64(),
		})
	}
	return c.createForm(ctx, "/purchase-invoice-form", map[string]any{
		"IssueDate":          invoice.IssueDate,
		"Reference":          invoice.Reference,
		"Description":        invoice.Description,
		"Supplier":           invoice.SupplierKey,
		"Lines":              lines,
		"HasLineDescription": true,
		"CustomFields2":      customFields2(),
	})
}

// CreateSalesInvoice posts a new sales invoice
func (c *Client) CreateSalesInvoice(ctx context.Context, invoice accounting.SalesInvoice) (accounting.SubmissionResult, error) {
	if err := invoice.Validate(); err != nil {
		return accounting.SubmissionResult{Message: err.Error()}, err
	}
	lines := make([]map[string]any, 0, len(invoice.Lines))
	for _, line := range invoice.Lines {
		lines = append(lines, map[string]any{
			"Account":         line.AccountKey,
			"LineDescription": line.Description,
			"Qty":             line.Qty.InexactFloat64(),
			"SalesUnitPrice":  line.UnitPrice.InexactFloat64(),
		})
	}
	form := map[string]any{
		"IssueDate":          invoice.IssueDate,
		"Reference":          invoice.Reference,
		"Description":        invoice.Description,
		"Customer":           invoice.CustomerKey,
		"Lines":              lines,
		"HasLineDescription": true,
		"CustomFields2":      customFields2(),
	}
	if invoice.DueDate != "" {
		form["DueDate"] = invoice.DueDate
	}
	return c.createForm(ctx, "/sales-invoice-form", form)
}

// CreatePayment posts a new payment out of a bank or cash account
func (c *Client) CreatePayment(ctx context.Context, payment accounting.Payment) (accounting.SubmissionResult, error) {
	if err := payment.Validate(); err != nil {
		return accounting.SubmissionResult{Message: err.Error()}, err
	}
	lines := make([]map[string]any, 0, len(payment.Lines))
	for _, line := range payment.Lines {
		lines = append(lines, map[string]any{
			"Account":         line.AccountKey,
			"LineDescription": line.Description,
			"Amount":          line.Amount.InexactFloat64(),
		})
	}
	return c.createForm(ctx, "/payment-form", map[string]any{
		"Date":               payment.Date,
		"PaidFrom":           payment.PaidFromKey,
		"Payee":              payment.Payee,
		"Description":        payment.Description,
		"Reference":          payment.Reference,
		"Lines":              lines,
		"HasLineDescription": true,
		"CustomFields2":      customFields2(),
	})
}

// CreateReceipt posts a new receipt into a bank or cash account
func (c *Client) CreateReceipt(ctx context.Context, receipt accounting.Receipt) (accounting.SubmissionResult, error) {
	if err := receipt.Validate(); err != nil {
		return accounting.SubmissionResult{Message: err.Error()}, err
	}
	lines := make([]map[string]any, 0, len(receipt.Lines))
	for _, line := range receipt.Lines {
		lines = append(lines, map[string]any{
			"Account":         line.AccountKey,
			"LineDescription": line.Description,
			"Amount":          line.Amount.InexactFloat64(),
		})
	}
	return c.createForm(ctx, "/receipt-form", map[string]any{
		"Date":               receipt.Date,
		"ReceivedIn":         receipt.ReceivedInKey,
		"Payer":              receipt.Payer,
		"Description":        receipt.Description,
		"Reference":          receipt.Reference,
		"Lines":              lines,
		"HasLineDescription": true,
		"CustomFields2":      customFields2(),
	})
}

// CreateJournalEntry posts a new manual journal entry
func (c *Client) CreateJournalEntry(ctx context.Context, entry accounting.JournalEntry) (accounting.SubmissionResult, error) {
	if err := entry.Validate(); err != nil {
		return accounting.SubmissionResult{Message: err.Error()}, err
	}
	lines := make([]map[string]any, 0, len(entry.Lines))
	for _, line := range entry.Lines {
		wire := map[string]any{
			"Account":         line.AccountKey,
			"LineDescription": line.Description,
		}
		if line.Debit != nil {
			wire["Debit"] = line.Debit.InexactFloat64()
			wire["Credit"] = 0.0
		} else if line.Credit != nil {
			wire["Debit"] = 0.0
			wire["Credit"] = line.Credit.InexactFloat64()
		}
		lines = append(lines, wire)
	}
	return c.createForm(ctx, "/journal-entry-form", map[string]any{
		"Date":               entry.Date,
		"Narration":          entry.Narration,
		"Reference":          entry.Reference,
		"Lines":              lines,
		"HasLineDescription": true,
		"CustomFields2":      customFields2(),
	})
}

// CreateTransfer posts a new inter account transfer
func (c *Client) CreateTransfer(ctx context.Context, transfer accounting.Transfer) (accounting.SubmissionResult, error) {
	if err := transfer.Validate(); err != nil {
		return accounting.SubmissionResult{Message: err.Error()}, err
	}
	return c.createForm(ctx, "/inter-account-transfer-form", map[string]any{
		"Date":          transfer.Date,
		"PaidFrom":      transfer.PaidFromKey,
		"ReceivedIn":    transfer.ReceivedInKey,
		"Amount":        transfer.Amount.InexactFloat64(),
		"Description":   transfer.Description,
		"Reference":     transfer.Reference,
		"CustomFields2": customFields2(),
	})
}
