//go:build integration_pg || integration_ch

// Package containers starts throwaway Postgres and ClickHouse servers for integration tests
package containers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func start(t *testing.T, req tc.ContainerRequest, port string) (host string, mapped string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("start %s: %v", req.Image, err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err = c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	p, err := c.MappedPort(ctx, nat.Port(port))
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	return host, p.Port()
}

// Postgres starts postgres:16-alpine and returns its DSN
func Postgres(t *testing.T) string {
	t.Helper()
	host, port := start(t, tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "sprintly",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(2 * time.Minute),
	}, "5432/tcp")
	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/sprintly?sslmode=disable", host, port)
}

// ClickHouse starts clickhouse-server and returns a native protocol DSN
func ClickHouse(t *testing.T) string {
	t.Helper()
	host, port := start(t, tc.ContainerRequest{
		Image:        "clickhouse/clickhouse-server:24.8-alpine",
		ExposedPorts: []string{"9000/tcp", "8123/tcp"},
		Env: map[string]string{
			"CLICKHOUSE_USER":     "sprintly",
			"CLICKHOUSE_PASSWORD": "sprintly",
			"CLICKHOUSE_DB":       "sprintly",
		},
		WaitingFor: wait.ForHTTP("/ping").WithPort("8123/tcp").WithStartupTimeout(2 * time.Minute),
	}, "9000/tcp")
	return fmt.Sprintf("clickhouse://sprintly:sprintly@%s:%s/sprintly", host, port)
}
