// Package submission orchestrates posting processed source documents to the
// remote accounting system, individually or batched into one expense claim.
package submission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bookkeep/backend/internal/domain/accounting"
)

// Mode selects how a batch of documents is posted
type Mode string

const (
	// ModeIndividual posts one remote entry per document
	ModeIndividual Mode = "individual"
	// ModeCombined posts one expense claim with one line per document
	ModeCombined Mode = "combined"
)

// IsValid returns true if the mode is one of the defined modes
func (m Mode) IsValid() bool {
	return m == ModeIndividual || m == ModeCombined
}

// String returns the string representation of Mode
func (m Mode) String() string {
	return string(m)
}

const (
	// combinedFallbackPayee stands in when no document in a combined batch
	// names a vendor
	combinedFallbackPayee = "Various"
	// individualFallbackPayee stands in when a single document names no
	// vendor
	individualFallbackPayee = "Unknown"
)

// Request describes one submission run
type Request struct {
	// TenantID is the company the documents belong to
	TenantID uuid.UUID
	// DocumentIDs are the documents to submit; non-processed ones are skipped
	DocumentIDs []uuid.UUID
	// Mode selects individual or combined posting
	Mode Mode
	// Confirmed must be true before anything is posted
	Confirmed bool
	// SubmitterKey is the employee key recorded as the payer of expense
	// claims
	SubmitterKey string
}

// Service coordinates document submission. It never retries a post: once a
// write may have reached the remote, a retry could double-post the entry.
type Service struct {
	store  accounting.DocumentStore
	writer accounting.EntryWriter
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new submission Service
func NewService(store accounting.DocumentStore, writer accounting.EntryWriter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		writer: writer,
		logger: logger,
		now:    time.Now,
	}
}

// Submit posts the requested documents according to the request mode.
// An unconfirmed request posts nothing and returns a single result asking
// for confirmation. Individual mode isolates failures per document;
// combined mode is all-or-nothing. Bad requests surface as failure results,
// not errors; the returned error is reserved for the document store.
func (s *Service) Submit(ctx context.Context, req Request) ([]accounting.SubmissionResult, error) {
	if !req.Mode.IsValid() {
		return []accounting.SubmissionResult{{
			DocumentIDs: req.DocumentIDs,
			Message:     fmt.Sprintf("invalid submission mode %q", req.Mode),
		}}, nil
	}

	if !req.Confirmed {
		return []accounting.SubmissionResult{{
			RequiresConfirmation: true,
			DocumentIDs:          req.DocumentIDs,
			Message: fmt.Sprintf("confirmation required to submit %d document(s) in %s mode",
				len(req.DocumentIDs), req.Mode),
		}}, nil
	}

	docs, err := s.store.FindProcessed(ctx, req.TenantID, req.DocumentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	if len(docs) == 0 {
		return []accounting.SubmissionResult{{
			DocumentIDs: req.DocumentIDs,
			Message:     "no processed documents to submit",
		}}, nil
	}

	s.logger.Info("submitting documents",
		zap.String("tenant_id", req.TenantID.String()),
		zap.String("mode", req.Mode.String()),
		zap.Int("count", len(docs)),
	)

	switch req.Mode {
	case ModeCombined:
		return s.submitCombined(ctx, req, docs)
	default:
		return s.submitIndividual(ctx, req, docs), nil
	}
}

// submitIndividual posts one entry per document. A failed document is
// marked with its error and the run continues with the rest. A document of
// an unknown type is reported as a failure but keeps its processed status:
// nothing was attempted against it, and a later reclassification can still
// resubmit it.
func (s *Service) submitIndividual(ctx context.Context, req Request, docs []*accounting.Document) []accounting.SubmissionResult {
	results := make([]accounting.SubmissionResult, 0, len(docs))
	for _, doc := range docs {
		result, attempted := s.submitOne(ctx, req, doc)
		result.DocumentIDs = []uuid.UUID{doc.ID}
		if attempted {
			s.commit(ctx, doc, result)
		}
		results = append(results, result)
	}
	return results
}

// submitOne posts a single document. The second return reports whether a
// remote post was attempted at all.
func (s *Service) submitOne(ctx context.Context, req Request, doc *accounting.Document) (accounting.SubmissionResult, bool) {
	switch doc.Type {
	case accounting.DocumentTypeReceipt, accounting.DocumentTypeExpenseClaim, accounting.DocumentTypeExpense:
		result, err := s.writer.CreateExpenseClaim(ctx, s.claimFromDocument(req, doc))
		if err != nil {
			s.logger.Warn("expense claim submission failed",
				zap.String("document_id", doc.ID.String()),
				zap.Error(err),
			)
		}
		return result, true
	case accounting.DocumentTypeInvoice:
		result, err := s.writer.CreatePurchaseInvoice(ctx, s.invoiceFromDocument(doc))
		if err != nil {
			s.logger.Warn("purchase invoice submission failed",
				zap.String("document_id", doc.ID.String()),
				zap.Error(err),
			)
		}
		return result, true
	default:
		return accounting.SubmissionResult{
			Message: fmt.Sprintf("%s: %q", accounting.ErrUnknownDocumentType.Error(), doc.Type),
		}, false
	}
}

// submitCombined posts a single expense claim with one line per document.
// On success every document becomes submitted under the shared entry key;
// on failure no document status changes, so the batch can be resubmitted.
func (s *Service) submitCombined(ctx context.Context, req Request, docs []*accounting.Document) ([]accounting.SubmissionResult, error) {
	claim := accounting.ExpenseClaim{
		Date:        s.batchDate(docs),
		PaidBy:      req.SubmitterKey,
		Payee:       s.batchPayee(docs),
		Description: fmt.Sprintf("Combined submission of %d documents", len(docs)),
		Lines:       make([]accounting.ExpenseClaimLine, 0, len(docs)),
	}
	ids := make([]uuid.UUID, 0, len(docs))
	for _, doc := range docs {
		claim.Lines = append(claim.Lines, accounting.ExpenseClaimLine{
			AccountKey:  doc.Extracted.AccountKey,
			Description: documentNarration(doc),
			Qty:         decimal.NewFromInt(1),
			UnitPrice:   doc.Extracted.TotalAmount,
		})
		ids = append(ids, doc.ID)
	}

	result, err := s.writer.CreateExpenseClaim(ctx, claim)
	result.DocumentIDs = ids
	if err != nil {
		s.logger.Warn("combined submission failed",
			zap.String("tenant_id", req.TenantID.String()),
			zap.Int("count", len(docs)),
			zap.Error(err),
		)
		return []accounting.SubmissionResult{result}, nil
	}
	for _, doc := range docs {
		s.commit(ctx, doc, result)
	}
	return []accounting.SubmissionResult{result}, nil
}

// commit applies a submission outcome to a document and persists it
func (s *Service) commit(ctx context.Context, doc *accounting.Document, result accounting.SubmissionResult) {
	if result.Success {
		doc.Status = accounting.DocumentStatusSubmitted
		doc.SubmissionKey = result.Key
		doc.ErrorMessage = ""
	} else {
		doc.Status = accounting.DocumentStatusError
		doc.ErrorMessage = result.Message
	}
	if err := s.store.Update(ctx, doc); err != nil {
		s.logger.Error("failed to persist document status",
			zap.String("document_id", doc.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *Service) claimFromDocument(req Request, doc *accounting.Document) accounting.ExpenseClaim {
	payee := doc.Extracted.VendorName
	if payee == "" {
		payee = individualFallbackPayee
	}
	return accounting.ExpenseClaim{
		Date:        s.documentDate(doc),
		PaidBy:      req.SubmitterKey,
		Payee:       payee,
		Description: documentNarration(doc),
		Lines: []accounting.ExpenseClaimLine{{
			AccountKey:  doc.Extracted.AccountKey,
			Description: documentNarration(doc),
			Qty:         decimal.NewFromInt(1),
			UnitPrice:   doc.Extracted.TotalAmount,
		}},
	}
}

func (s *Service) invoiceFromDocument(doc *accounting.Document) accounting.PurchaseInvoice {
	reference := doc.Extracted.Reference
	if reference == "" {
		reference = doc.Filename
	}
	return accounting.PurchaseInvoice{
		IssueDate:   s.documentDate(doc),
		Reference:   reference,
		Description: documentNarration(doc),
		SupplierKey: doc.Extracted.SupplierKey,
		Lines: []accounting.PurchaseInvoiceLine{{
			AccountKey:  doc.Extracted.AccountKey,
			Description: documentNarration(doc),
			UnitPrice:   doc.Extracted.TotalAmount,
		}},
	}
}

// documentDate returns the extracted date, falling back to today
func (s *Service) documentDate(doc *accounting.Document) string {
	if doc.Extracted.Date != "" {
		return doc.Extracted.Date
	}
	return s.now().Format("2006-01-02")
}

// batchDate is the first document's date, falling back to today
func (s *Service) batchDate(docs []*accounting.Document) string {
	return s.documentDate(docs[0])
}

// batchPayee is the first named vendor across the batch
func (s *Service) batchPayee(docs []*accounting.Document) string {
	for _, doc := range docs {
		if doc.Extracted.VendorName != "" {
			return doc.Extracted.VendorName
		}
	}
	return combinedFallbackPayee
}

func documentNarration(doc *accounting.Document) string {
	if doc.Extracted.Description != "" {
		return doc.Extracted.Description
	}
	return doc.Filename
}
