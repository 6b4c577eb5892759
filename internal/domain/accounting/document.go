package accounting

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Source Documents
// ---------------------------------------------------------------------------
//
// Documents are owned by an external persistence collaborator. This module
// only computes status transitions (processed -> submitted | error); the
// collaborator commits them durably.

// DocumentStatus is the lifecycle state of a source document
type DocumentStatus string

const (
	// DocumentStatusPending means the document has not been processed yet
	DocumentStatusPending DocumentStatus = "pending"
	// DocumentStatusProcessed means extraction finished and the document is submittable
	DocumentStatusProcessed DocumentStatus = "processed"
	// DocumentStatusSubmitted means the document was posted to the remote system
	DocumentStatusSubmitted DocumentStatus = "submitted"
	// DocumentStatusError means the last submission attempt failed
	DocumentStatusError DocumentStatus = "error"
)

// IsValid returns true if the status is one of the defined states
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusPending, DocumentStatusProcessed,
		DocumentStatusSubmitted, DocumentStatusError:
		return true
	default:
		return false
	}
}

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// DocumentType is the classified kind of a source document
type DocumentType string

const (
	// DocumentTypeReceipt is a till or purchase receipt
	DocumentTypeReceipt DocumentType = "receipt"
	// DocumentTypeExpenseClaim is an out-of-pocket expense
	DocumentTypeExpenseClaim DocumentType = "expense_claim"
	// DocumentTypeExpense is a generic expense record
	DocumentTypeExpense DocumentType = "expense"
	// DocumentTypeInvoice is a supplier invoice
	DocumentTypeInvoice DocumentType = "invoice"
)

// ExtractedData is the structured data pulled out of a document upstream
// (OCR and classification are external collaborators).
type ExtractedData struct {
	// Date is the document date in YYYY-MM-DD form, may be empty
	Date string
	// VendorName is the payee/supplier name on the document
	VendorName string
	// Description is the extracted narration
	Description string
	// Reference is the document reference number
	Reference string
	// TotalAmount is the extracted document total
	TotalAmount decimal.Decimal
	// AccountKey is the chart-of-accounts key chosen for posting
	AccountKey string
	// SupplierKey is the supplier key for invoice documents
	SupplierKey string
}

// Document is a source document referenced by the submission workflow.
type Document struct {
	// ID is the document identifier assigned by the owning collaborator
	ID uuid.UUID
	// TenantID is the company the document belongs to
	TenantID uuid.UUID
	// Filename is the original upload name, used as a description fallback
	Filename string
	// Type is the classified document type
	Type DocumentType
	// Status is the lifecycle state
	Status DocumentStatus
	// Extracted holds the structured extraction results
	Extracted ExtractedData
	// SubmissionKey is the remote entry key after a successful submission
	SubmissionKey string
	// ErrorMessage holds the last submission failure, if any
	ErrorMessage string
}

// DocumentStore is the persistence collaborator that owns documents.
// Implementations own their own transactions.
type DocumentStore interface {
	// FindProcessed returns the documents among ids that belong to tenantID
	// and are in the processed state, in the order of ids.
	FindProcessed(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*Document, error)
	// Update durably commits a document's status, submission key and error
	// message.
	Update(ctx context.Context, doc *Document) error
}

// ---------------------------------------------------------------------------
// Entry Writer Port
// ---------------------------------------------------------------------------

// EntryWriter creates entries on the remote accounting system. Each call
// performs exactly one remote request and is never retried; failures surface
// as classified errors.
type EntryWriter interface {
	CreateExpenseClaim(ctx context.Context, p ExpenseClaim) (SubmissionResult, error)
	CreatePurchaseInvoice(ctx context.Context, p PurchaseInvoice) (SubmissionResult, error)
	CreateSalesInvoice(ctx context.Context, p SalesInvoice) (SubmissionResult, error)
	CreatePayment(ctx context.Context, p Payment) (SubmissionResult, error)
	CreateReceipt(ctx context.Context, p Receipt) (SubmissionResult, error)
	CreateJournalEntry(ctx context.Context, p JournalEntry) (SubmissionResult, error)
	CreateTransfer(ctx context.Context, p Transfer) (SubmissionResult, error)
}
