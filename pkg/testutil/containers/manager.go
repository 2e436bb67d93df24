//go:build integration

// Package containers starts the backing services used by integration tests.
// Containers are shared per test binary and reaped by Ryuk on exit.
package containers

import "sync"

// Manager owns the containers shared by every suite in a test binary.
type Manager struct {
	postgresOnce sync.Once
	postgres     *PostgresContainer
	postgresErr  error

	redisOnce sync.Once
	redis     *RedisContainer
	redisErr  error

	redpandaOnce sync.Once
	redpanda     *RedpandaContainer
	redpandaErr  error
}

var (
	managerOnce sync.Once
	shared      *Manager
)

// GetManager returns the process-wide container manager.
func GetManager() *Manager {
	managerOnce.Do(func() {
		shared = &Manager{}
	})
	return shared
}
