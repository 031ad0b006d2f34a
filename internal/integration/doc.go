// Package integration runs the repository against real Mongo and Postgres
// containers. Run with: go test -tags integration ./internal/integration/...
package integration
