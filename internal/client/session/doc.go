// Package session holds the logged-in identity and the account snapshot for
// one running client.
//
// A Store is built once in main and handed to every service. It keeps two
// tiers: an in-memory copy and a durable copy in a keyvalue.Repository.
// Mutations write the durable tier first, then memory, then notify
// watchers. A failed durable write leaves memory untouched and publishes
// nothing.
//
// # Read-through
//
// The user is loaded eagerly by NewStore. The account is loaded lazily: the
// first CurrentAccount call with an empty memory tier reads durable storage
// once. After that durable storage is only written, until
// ClearCurrentAccount re-arms the lazy load.
//
// # Refresh ordering
//
// RefreshCurrentAccountBalance releases the lock while the gateway call is
// in flight, so concurrent refreshes overlap. By default the last response
// to arrive is applied, which can leave an older balance in place when
// responses arrive out of order. WithOrderedRefresh tags every mutation with
// a sequence number and drops refresh results older than the last applied
// mutation.
//
// # Watching
//
// WatchUser and WatchAccount return a channel holding at most one pending
// value. A slow reader only ever sees the newest value. Each channel is
// primed with the current value and closed by its cancel func or by Close.
package session
