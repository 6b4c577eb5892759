// Package accounting contains the Accounting Integration bounded context.
// This context models the data exchanged with the remote accounting system
// and the collaborator interfaces the submission workflow depends on.
//
// Key concepts:
//   - Reference entities (Account, Supplier, Customer, ...): remote-owned,
//     read-only master data identified by remote-assigned keys
//   - TransactionRecord: a posted transaction fetched from the remote ledger
//   - Write payloads (ExpenseClaim, PurchaseInvoice, ...): validated input
//     for creating entries on the remote system
//   - RemoteError: classified failure taxonomy for every remote call
//   - Document / DocumentStore: externally persisted source documents whose
//     status the submission workflow transitions
//
// Design Pattern: Ports & Adapters
//   - Ports (EntryWriter, DocumentStore) are defined here in the domain layer
//   - Adapters (the remote API client, persistence) live in infrastructure
package accounting
