// Package timeouts defines shared timeout constants used across the ledger
// process boundaries.
package timeouts

import "time"

// HealthProbe caps how long the CLI probe waits for a SERVING status.
const HealthProbe = 5 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second
