// Package cachetest starts a throwaway Redis container for integration tests.
package cachetest

import (
	"strings"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/platform/cache"
)

const image = "redis:7-alpine"

// New starts Redis and returns a connected cache whose keys are namespaced by
// the test name. The test is skipped in -short mode or when Docker is
// unavailable.
func New(t *testing.T) *cache.Cache {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := t.Context()
	ctr, err := tcredis.Run(ctx, image)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("starting redis container: %v", err)
	}

	url, err := ctr.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("redis connection string: %v", err)
	}

	c, err := cache.New(ctx, url)
	if err != nil {
		t.Fatalf("cache.New() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	return cache.NewFromClient(c.Client, "test:"+strings.ReplaceAll(t.Name(), "/", ":"))
}
