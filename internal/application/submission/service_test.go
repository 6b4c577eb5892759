package submission

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookkeep/backend/internal/domain/accounting"
	"github.com/bookkeep/backend/internal/infrastructure/persistence/memory"
)

// stubWriter records calls and fails for payees listed in failPayees
type stubWriter struct {
	claims     []accounting.ExpenseClaim
	invoices   []accounting.PurchaseInvoice
	failPayees map[string]bool
	nextKey    int
}

func (w *stubWriter) CreateExpenseClaim(ctx context.Context, p accounting.ExpenseClaim) (accounting.SubmissionResult, error) {
	w.claims = append(w.claims, p)
	if w.failPayees[p.Payee] {
		err := &accounting.RemoteError{Kind: accounting.ErrorKindValidation, Message: "payee rejected"}
		return accounting.SubmissionResult{Message: err.Message}, err
	}
	w.nextKey++
	return accounting.SubmissionResult{Success: true, Key: fmt.Sprintf("claim-%d", w.nextKey)}, nil
}

func (w *stubWriter) CreatePurchaseInvoice(ctx context.Context, p accounting.PurchaseInvoice) (accounting.SubmissionResult, error) {
	w.invoices = append(w.invoices, p)
	w.nextKey++
	return accounting.SubmissionResult{Success: true, Key: fmt.Sprintf("pinv-%d", w.nextKey)}, nil
}

func (w *stubWriter) CreateSalesInvoice(ctx context.Context, p accounting.SalesInvoice) (accounting.SubmissionResult, error) {
	return accounting.SubmissionResult{}, errors.New("not used")
}

func (w *stubWriter) CreatePayment(ctx context.Context, p accounting.Payment) (accounting.SubmissionResult, error) {
	return accounting.SubmissionResult{}, errors.New("not used")
}

func (w *stubWriter) CreateReceipt(ctx context.Context, p accounting.Receipt) (accounting.SubmissionResult, error) {
	return accounting.SubmissionResult{}, errors.New("not used")
}

func (w *stubWriter) CreateJournalEntry(ctx context.Context, p accounting.JournalEntry) (accounting.SubmissionResult, error) {
	return accounting.SubmissionResult{}, errors.New("not used")
}

func (w *stubWriter) CreateTransfer(ctx context.Context, p accounting.Transfer) (accounting.SubmissionResult, error) {
	return accounting.SubmissionResult{}, errors.New("not used")
}

var _ accounting.EntryWriter = (*stubWriter)(nil)

func newDoc(tenantID uuid.UUID, docType accounting.DocumentType, vendor string, amount float64) *accounting.Document {
	return &accounting.Document{
		ID:       uuid.New(),
		TenantID: tenantID,
		Filename: "scan.pdf",
		Type:     docType,
		Status:   accounting.DocumentStatusProcessed,
		Extracted: accounting.ExtractedData{
			Date:        "2026-05-10",
			VendorName:  vendor,
			Description: "Office purchase",
			TotalAmount: decimal.NewFromFloat(amount),
			AccountKey:  "acc-expense",
			SupplierKey: "sup-1",
		},
	}
}

func setup(docs ...*accounting.Document) (*Service, *memory.DocumentStore, *stubWriter) {
	store := memory.NewDocumentStore()
	for _, doc := range docs {
		store.Put(doc)
	}
	writer := &stubWriter{failPayees: map[string]bool{}}
	return NewService(store, writer, nil), store, writer
}

func ids(docs ...*accounting.Document) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.ID)
	}
	return out
}

func TestSubmitInvalidMode(t *testing.T) {
	svc, _, writer := setup()
	results, err := svc.Submit(context.Background(), Request{
		TenantID:  uuid.New(),
		Mode:      Mode("bulk"),
		Confirmed: true,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Message, "bulk")
	assert.Empty(t, writer.claims)
}

func TestSubmitRequiresConfirmation(t *testing.T) {
	tenantID := uuid.New()
	doc := newDoc(tenantID, accounting.DocumentTypeReceipt, "Acme", 10)
	svc, store, writer := setup(doc)

	results, err := svc.Submit(context.Background(), Request{
		TenantID:    tenantID,
		DocumentIDs: ids(doc),
		Mode:        ModeIndividual,
		Confirmed:   false,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].RequiresConfirmation)
	assert.False(t, results[0].Success)
	assert.Empty(t, writer.claims)

	// Document untouched
	stored, ok := store.Get(doc.ID)
	require.True(t, ok)
	assert.Equal(t, accounting.DocumentStatusProcessed, stored.Status)
}

func TestSubmitNoProcessedDocuments(t *testing.T) {
	tenantID := uuid.New()
	submitted := newDoc(tenantID, accounting.DocumentTypeReceipt, "Acme", 10)
	submitted.Status = accounting.DocumentStatusSubmitted
	svc, _, _ := setup(submitted)

	results, err := svc.Submit(context.Background(), Request{
		TenantID:    tenantID,
		DocumentIDs: ids(submitted),
		Mode:        ModeIndividual,
		Confirmed:   true,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Message, "no processed documents")
}

func TestSubmitSkipsOtherTenants(t *testing.T) {
	tenantID := uuid.New()
	foreign := newDoc(uuid.New(), accounting.DocumentTypeReceipt, "Acme", 10)
	svc, store, _ := setup(foreign)

	results, err := svc.Submit(context.Background(), Request{
		TenantID:    tenantID,
		DocumentIDs: ids(foreign),
		Mode:        ModeIndividual,
		Confirmed:   true,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)

	stored, ok := store.Get(foreign.ID)
	require.True(t, ok)
	assert.Equal(t, accounting.DocumentStatusProcessed, stored.Status)
}

func TestSubmitIndividualMapsDocumentTypes(t *testing.T) {
	tenantID := uuid.New()
	receipt := newDoc(tenantID, accounting.DocumentTypeReceipt, "Cafe", 12.50)
	expense := newDoc(tenantID, accounting.DocumentTypeExpense, "Taxi Co", 30)
	claim := newDoc(tenantID, accounting.DocumentTypeExpenseClaim, "Hotel", 200)
	invoice := newDoc(tenantID, accounting.DocumentTypeInvoice, "Supplier Ltd", 500)
	svc, store, writer := setup(receipt, expense, claim, invoice)

	results, err := svc.Submit(context.Background(), Request{
		TenantID:     tenantID,
		DocumentIDs:  ids(receipt, expense, claim, invoice),
		Mode:         ModeIndividual,
		Confirmed:    true,
		SubmitterKey: "emp-7",
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	// Receipts, expenses and expense claims all become expense claims
	require.Len(t, writer.claims, 3)
	require.Len(t, writer.invoices, 1)
	assert.Equal(t, "emp-7", writer.claims[0].PaidBy)
	assert.Equal(t, "sup-1", writer.invoices[0].SupplierKey)

	for _, result := range results {
		assert.True(t, result.Success)
		require.Len(t, result.DocumentIDs, 1)
		stored, ok := store.Get(result.DocumentIDs[0])
		require.True(t, ok)
		assert.Equal(t, accounting.DocumentStatusSubmitted, stored.Status)
		assert.Equal(t, result.Key, stored.SubmissionKey)
	}
}

func TestSubmitIndividualIsolatesFailures(t *testing.T) {
	tenantID := uuid.New()
	docs := make([]*accounting.Document, 0, 5)
	for i := 0; i < 5; i++ {
		vendor := fmt.Sprintf("Vendor %d", i)
		if i == 2 {
			vendor = "Rejected Vendor"
		}
		docs = append(docs, newDoc(tenantID, accounting.DocumentTypeReceipt, vendor, 10))
	}
	svc, store, writer := setup(docs...)
	writer.failPayees["Rejected Vendor"] = true

	results, err := svc.Submit(context.Background(), Request{
		TenantID:     tenantID,
		DocumentIDs:  ids(docs...),
		Mode:         ModeIndividual,
		Confirmed:    true,
		SubmitterKey: "emp-7",
	})
	require.NoError(t, err)
	require.Len(t, results, 5)

	succeeded := 0
	for i, result := range results {
		stored, ok := store.Get(docs[i].ID)
		require.True(t, ok)
		if result.Success {
			succeeded++
			assert.Equal(t, accounting.DocumentStatusSubmitted, stored.Status)
		} else {
			assert.Equal(t, accounting.DocumentStatusError, stored.Status)
			assert.Contains(t, stored.ErrorMessage, "payee rejected")
		}
	}
	assert.Equal(t, 4, succeeded)
	assert.False(t, results[2].Success)
}

func TestSubmitIndividualUnknownType(t *testing.T) {
	tenantID := uuid.New()
	doc := newDoc(tenantID, accounting.DocumentType("contract"), "Acme", 10)
	svc, store, writer := setup(doc)

	results, err := svc.Submit(context.Background(), Request{
		TenantID:    tenantID,
		DocumentIDs: ids(doc),
		Mode:        ModeIndividual,
		Confirmed:   true,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Message, "contract")
	assert.Empty(t, writer.claims)

	// Nothing was posted, so the document stays processed and a later
	// reclassification can resubmit it
	stored, ok := store.Get(doc.ID)
	require.True(t, ok)
	assert.Equal(t, accounting.DocumentStatusProcessed, stored.Status)
	assert.Empty(t, stored.ErrorMessage)
}

func TestSubmitCombinedSingleClaim(t *testing.T) {
	tenantID := uuid.New()
	a := newDoc(tenantID, accounting.DocumentTypeReceipt, "First Vendor", 10)
	b := newDoc(tenantID, accounting.DocumentTypeExpense, "Second Vendor", 20)
	c := newDoc(tenantID, accounting.DocumentTypeReceipt, "Third Vendor", 15)
	svc, store, writer := setup(a, b, c)

	results, err := svc.Submit(context.Background(), Request{
		TenantID:     tenantID,
		DocumentIDs:  ids(a, b, c),
		Mode:         ModeCombined,
		Confirmed:    true,
		SubmitterKey: "emp-7",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Len(t, results[0].DocumentIDs, 3)

	require.Len(t, writer.claims, 1)
	combined := writer.claims[0]
	assert.Equal(t, "2026-05-10", combined.Date)
	assert.Equal(t, "First Vendor", combined.Payee)
	assert.Equal(t, "emp-7", combined.PaidBy)
	require.Len(t, combined.Lines, 3)
	assert.Equal(t, "45", combined.Total().String())

	for _, doc := range []*accounting.Document{a, b, c} {
		stored, ok := store.Get(doc.ID)
		require.True(t, ok)
		assert.Equal(t, accounting.DocumentStatusSubmitted, stored.Status)
		assert.Equal(t, results[0].Key, stored.SubmissionKey)
	}
}

func TestSubmitCombinedFailureLeavesDocumentsUntouched(t *testing.T) {
	tenantID := uuid.New()
	a := newDoc(tenantID, accounting.DocumentTypeReceipt, "Bad Vendor", 10)
	b := newDoc(tenantID, accounting.DocumentTypeReceipt, "", 20)
	svc, store, writer := setup(a, b)
	writer.failPayees["Bad Vendor"] = true

	results, err := svc.Submit(context.Background(), Request{
		TenantID:     tenantID,
		DocumentIDs:  ids(a, b),
		Mode:         ModeCombined,
		Confirmed:    true,
		SubmitterKey: "emp-7",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Len(t, results[0].DocumentIDs, 2)

	// Nothing was posted, so the batch stays submittable
	for _, doc := range []*accounting.Document{a, b} {
		stored, ok := store.Get(doc.ID)
		require.True(t, ok)
		assert.Equal(t, accounting.DocumentStatusProcessed, stored.Status)
		assert.Empty(t, stored.ErrorMessage)
	}
}

func TestSubmitIndividualPayeeFallback(t *testing.T) {
	tenantID := uuid.New()
	doc := newDoc(tenantID, accounting.DocumentTypeReceipt, "", 10)
	svc, _, writer := setup(doc)

	_, err := svc.Submit(context.Background(), Request{
		TenantID:     tenantID,
		DocumentIDs:  ids(doc),
		Mode:         ModeIndividual,
		Confirmed:    true,
		SubmitterKey: "emp-7",
	})
	require.NoError(t, err)
	require.Len(t, writer.claims, 1)
	assert.Equal(t, "Unknown", writer.claims[0].Payee)
}

func TestSubmitCombinedPayeeFallback(t *testing.T) {
	tenantID := uuid.New()
	a := newDoc(tenantID, accounting.DocumentTypeReceipt, "", 10)
	b := newDoc(tenantID, accounting.DocumentTypeReceipt, "", 20)
	svc, _, writer := setup(a, b)

	_, err := svc.Submit(context.Background(), Request{
		TenantID:     tenantID,
		DocumentIDs:  ids(a, b),
		Mode:         ModeCombined,
		Confirmed:    true,
		SubmitterKey: "emp-7",
	})
	require.NoError(t, err)
	require.Len(t, writer.claims, 1)
	assert.Equal(t, "Various", writer.claims[0].Payee)
}

func TestSubmitCombinedDateFallback(t *testing.T) {
	tenantID := uuid.New()
	doc := newDoc(tenantID, accounting.DocumentTypeReceipt, "Acme", 10)
	doc.Extracted.Date = ""
	svc, _, writer := setup(doc)

	_, err := svc.Submit(context.Background(), Request{
		TenantID:     tenantID,
		DocumentIDs:  ids(doc),
		Mode:         ModeCombined,
		Confirmed:    true,
		SubmitterKey: "emp-7",
	})
	require.NoError(t, err)
	require.Len(t, writer.claims, 1)
	assert.NotEmpty(t, writer.claims[0].Date)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, writer.claims[0].Date)
}
