// Package common holds wire-level constants shared by the gateway client and
// its test doubles.
package common

// RequestIDHeaderName carries a per-attempt correlation id on every gateway
// request.
const RequestIDHeaderName = "X-Request-ID"

// HealthPath is probed by the online/offline watcher.
const HealthPath = "/actuator/health"

// HealthStatusUp is the only health status treated as online.
const HealthStatusUp = "UP"
