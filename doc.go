// Package budget implements the ledger engine of an offline-first personal budget and debt
// tracker.
//
// The core functionalities include:
//   - Ledger Management: an ordered, id-keyed collection of income, expense and debt
//     entries, the single source of truth of every balance.
//   - Balance Engine: stateless replays deriving the wallet, per-account balances and the
//     per-counterparty debt book.
//   - Period Filter: the selector state (all time, year, quarter, month, week, custom range)
//     and the predicate it induces on entries.
//   - Entry Editor: the calculator-driven form that builds and validates entries.
//   - Synchronization: a local cache written on every change and a remote document store
//     reconciled by entry id, the remote copy winning on collision.
//
// The Tracker type ties them together and is the only mutation surface used by the `bgt`
// command-line tool.
package budget
