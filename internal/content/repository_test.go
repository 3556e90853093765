package content_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/content"
	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/platform/cache"
)

func TestMemoryRepository_ListByAgeGroup(t *testing.T) {
	repo := content.NewMemoryRepository(
		content.Item{ID: "b", Title: "B", AgeGroup: "6-8"},
		content.Item{ID: "a", Title: "A", AgeGroup: "9-11"},
		content.Item{ID: "c", Title: "C"},
	)
	ctx := context.Background()

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got := ids(all); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("List() = %v, want [a b c]", got)
	}

	young, err := repo.ListByAgeGroup(ctx, " 6-8 ")
	if err != nil {
		t.Fatalf("ListByAgeGroup() error = %v", err)
	}
	if got := ids(young); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("ListByAgeGroup(6-8) = %v, want [b c]", got)
	}
}

func TestMemoryRepository_GetAndUpsert(t *testing.T) {
	repo := content.NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := repo.Upsert(ctx, content.Item{ID: "x", Title: "First"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := repo.Upsert(ctx, content.Item{ID: "x", Title: "Second"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	it, err := repo.Get(ctx, "x")
	if err != nil {
		t.Fatalf("Get(x) error = %v", err)
	}
	if it.Title != "Second" {
		t.Errorf("Title = %q, want Second", it.Title)
	}

	if err := repo.Upsert(ctx, content.Item{Title: "no id"}); err == nil {
		t.Error("Upsert() should reject an item without id")
	}
}

func TestSameAgeGroup(t *testing.T) {
	tests := []struct {
		item, want string
		ok         bool
	}{
		{"", "6-8", true},
		{"6-8", "6-8", true},
		{"Teens", "teens", true},
		{"9-11", "6-8", false},
	}
	for _, tt := range tests {
		if got := content.SameAgeGroup(tt.item, tt.want); got != tt.ok {
			t.Errorf("SameAgeGroup(%q, %q) = %v, want %v", tt.item, tt.want, got, tt.ok)
		}
	}
}

func TestCachedRepository_FallsBackWhenCacheDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })

	next := content.NewMemoryRepository(
		content.Item{ID: "a", Title: "A", AgeGroup: "6-8"},
		content.Item{ID: "b", Title: "B", AgeGroup: "9-11"},
	)
	repo := content.NewCachedRepository(next, cache.NewFromClient(client, "test"), time.Minute)
	ctx := context.Background()

	items, err := repo.ListByAgeGroup(ctx, "6-8")
	if err != nil {
		t.Fatalf("ListByAgeGroup() error = %v", err)
	}
	if got := ids(items); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("ListByAgeGroup() = %v, want [a]", got)
	}

	if err := repo.Upsert(ctx, content.Item{ID: "c", Title: "C"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List() = %v, want 3 items", ids(all))
	}

	if err := repo.HealthCheck(ctx); err == nil {
		t.Error("HealthCheck() should report the unreachable cache")
	}
}
