package content_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/content"
)

func newTestService(policy content.MissingGradePolicy) *content.Service {
	repo := content.NewMemoryRepository(
		content.Item{ID: "a", Title: "Advanced Mouse Skills", GradeLevel: 1, Difficulty: "beginner", AgeGroup: "6-8"},
		content.Item{ID: "b", Title: "Typing Race", GradeLevel: 3, Difficulty: "intermediate", AgeGroup: "6-8"},
		content.Item{ID: "c", Title: "Safe Passwords", Difficulty: "medium"},
		content.Item{ID: "d", Title: "Code Blocks", GradeLevel: 7, Difficulty: "advanced", AgeGroup: "12-14"},
	)
	return content.NewService(repo, content.NewFilter(policy, nil))
}

func TestService_ForLearner(t *testing.T) {
	svc := newTestService(content.PolicyOpen)
	ctx := context.Background()

	tests := []struct {
		name    string
		learner content.Learner
		want    []string
	}{
		{"grade 1 young", content.Learner{Grade: 1, AgeGroup: "6-8"}, []string{"a"}},
		{"grade 4 young", content.Learner{Grade: 4, AgeGroup: "6-8"}, []string{"a", "b", "c"}},
		{"grade 8 teen", content.Learner{Grade: 8, AgeGroup: "12-14"}, []string{"c", "d"}},
		{"grade 8 any age", content.Learner{Grade: 8}, []string{"a", "b", "c", "d"}},
		{"unknown grade", content.Learner{AgeGroup: "12-14"}, []string{"c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := svc.ForLearner(ctx, tt.learner)
			if err != nil {
				t.Fatalf("ForLearner() error = %v", err)
			}
			if got := ids(items); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ForLearner() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestService_ForGrade_SimplifiesGradeOne(t *testing.T) {
	svc := newTestService(content.PolicyOpen)

	items, err := svc.ForGrade(context.Background(), "", 1)
	if err != nil {
		t.Fatalf("ForGrade() error = %v", err)
	}
	if len(items) != 1 || items[0].Title != "Harder Mouse Skills" {
		t.Fatalf("ForGrade(1) = %+v", items)
	}

	// The repository copy is untouched.
	again, _ := svc.ForGrade(context.Background(), "", 2)
	if again[0].Title != "Advanced Mouse Skills" {
		t.Errorf("grade 2 Title = %q, want original text", again[0].Title)
	}
}

func TestService_Get(t *testing.T) {
	svc := newTestService(content.PolicyClosed)
	ctx := context.Background()

	if _, err := svc.Get(ctx, "b", 3); err != nil {
		t.Errorf("Get(b, 3) error = %v", err)
	}
	if _, err := svc.Get(ctx, "b", 2); !errors.Is(err, content.ErrNotAppropriate) {
		t.Errorf("Get(b, 2) error = %v, want ErrNotAppropriate", err)
	}
	if _, err := svc.Get(ctx, "b", content.GradeUnknown); !errors.Is(err, content.ErrNotAppropriate) {
		t.Errorf("Get(b, unknown) with closed policy error = %v, want ErrNotAppropriate", err)
	}
	if _, err := svc.Get(ctx, "nope", 3); !errors.Is(err, content.ErrNotFound) {
		t.Errorf("Get(nope) error = %v, want ErrNotFound", err)
	}
}
