// Package services contains the wallet's application services. Each one
// reads identity and account state from the session store, calls the
// gateway and returns data for the CLI to render.
//
// Every service that makes the backend move money (transfer, recharge and
// bill payment) refreshes the cached balance afterwards. Utility payments
// can defer that refresh through RefreshDeferred.
//
// Forms are validated before any network call; failures are
// *validation.Error.
package services
