// Package database provides connection management for postgres, mysql and
// sqlite through Bun: DSN building, pool tuning, environment overrides,
// health checks, query hooks, versioned migrations and driver error
// classification.
package database
