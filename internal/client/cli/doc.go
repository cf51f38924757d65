// Package cli is the interactive UPI wallet client.
//
// App drives the services over a line-oriented REPL. Two background loops
// run next to it: a ticker that pings the gateway and flips the prompt
// between online and offline, and a session-store subscription that keeps
// the prompt's balance current whichever command changed it.
//
// Amounts are shown with FormatRupees (₹1,23,456.00).
package cli
