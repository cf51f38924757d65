// Package client is the wallet's view of the backend.
//
// # Overview
//
// The package provides:
//  1. Narrow API contracts per backend service (UserAPI, AccountAPI,
//     TransactionAPI, UtilityAPI, BillerAPI) and the Gateway interface that
//     embeds them together with Ping and Close.
//  2. HTTPGateway, a JSON-over-HTTP implementation. Reads are retried on
//     transient failures with a constant back-off; writes are sent exactly
//     once. Every attempt passes a rate limiter, carries a fresh X-Request-ID
//     header and is bounded by a per-attempt timeout.
//  3. Local database bootstrap (InitDatabase, RunMigrations) applying the
//     embedded goose migrations to SQLite.
//
// # Error Handling
//
// Non-2xx responses become *APIError, which unwraps to one of the sentinels
// ErrBadRequest, ErrUnauthorized, ErrNotFound, ErrConflict or ErrUnavailable.
// Transport failures wrap ErrUnavailable. Match with errors.Is.
package client
