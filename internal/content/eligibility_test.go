package content_test

import (
	"reflect"
	"testing"

	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/content"
)

func ids(items []content.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func abcCatalog() []content.Item {
	return []content.Item{
		{ID: "A", Title: "Mouse Basics", GradeLevel: 1, Difficulty: content.DifficultyBeginner},
		{ID: "B", Title: "Typing Race", GradeLevel: 3, Difficulty: content.DifficultyIntermediate},
		{ID: "C", Title: "Safe Passwords", Difficulty: content.DifficultyMedium},
	}
}

func TestFilterForGrade_Example(t *testing.T) {
	tests := []struct {
		grade content.Grade
		want  []string
	}{
		{1, []string{"A"}},
		{2, []string{"A"}},
		{3, []string{"A", "B"}},
		{4, []string{"A", "B", "C"}},
		{5, []string{"A", "B", "C"}},
		{8, []string{"A", "B", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.grade.String(), func(t *testing.T) {
			got := ids(content.FilterForGrade(abcCatalog(), tt.grade))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterForGrade(%d) = %v, want %v", tt.grade, got, tt.want)
			}
		})
	}
}

func TestRuleFor_Bands(t *testing.T) {
	tests := []struct {
		name  string
		item  content.Item
		grade content.Grade
		want  bool
	}{
		{"g1 accepts grade 1", content.Item{GradeLevel: 1, Difficulty: "hard"}, 1, true},
		{"g1 accepts easy from any grade", content.Item{GradeLevel: 6, Difficulty: "easy"}, 1, true},
		{"g1 rejects grade 2 intermediate", content.Item{GradeLevel: 2, Difficulty: "intermediate"}, 1, false},
		{"g1 rejects ungraded medium", content.Item{Difficulty: "medium"}, 1, false},
		{"g2 accepts grade 2", content.Item{GradeLevel: 2, Difficulty: "advanced"}, 2, true},
		{"g2 rejects grade 3", content.Item{GradeLevel: 3, Difficulty: "easy"}, 2, false},
		{"g2 accepts ungraded easy", content.Item{Difficulty: "easy"}, 2, true},
		{"g3 rejects ungraded medium", content.Item{Difficulty: "medium"}, 3, false},
		{"g4 accepts ungraded medium", content.Item{Difficulty: "medium"}, 4, true},
		{"g4 rejects ungraded intermediate", content.Item{Difficulty: "intermediate"}, 4, false},
		{"g4 rejects grade 5", content.Item{GradeLevel: 5}, 4, false},
		{"g5 accepts ungraded intermediate", content.Item{Difficulty: "intermediate"}, 5, true},
		{"g5 rejects ungraded advanced", content.Item{Difficulty: "advanced"}, 5, false},
		{"g6 accepts ungraded advanced", content.Item{Difficulty: "advanced"}, 6, true},
		{"g6 accepts grade 6", content.Item{GradeLevel: 6}, 6, true},
		{"g6 rejects grade 7", content.Item{GradeLevel: 7}, 6, false},
		{"g12 accepts grade 12", content.Item{GradeLevel: 12}, 12, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := content.RuleFor(tt.grade)(tt.item); got != tt.want {
				t.Errorf("RuleFor(%d)(%+v) = %v, want %v", tt.grade, tt.item, got, tt.want)
			}
		})
	}
}

func TestIsAppropriate_UngatedAlwaysEligible(t *testing.T) {
	ungated := content.Item{ID: "free", Title: "Welcome"}
	for g := content.Grade(0); g <= content.MaxGrade+1; g++ {
		if !content.IsAppropriate(ungated, g) {
			t.Errorf("IsAppropriate(ungated, %d) = false, want true", g)
		}
	}
}

func TestIsAppropriate_AgreesWithFilter(t *testing.T) {
	catalog := mixedCatalog()
	for g := content.Grade(0); g <= content.MaxGrade; g++ {
		kept := map[string]bool{}
		for _, it := range content.FilterForGrade(catalog, g) {
			kept[it.ID] = true
		}
		for _, it := range catalog {
			if got := content.IsAppropriate(it, g); got != kept[it.ID] {
				t.Errorf("grade %d item %s: IsAppropriate = %v, filter kept = %v", g, it.ID, got, kept[it.ID])
			}
		}
	}
}

func TestFilterForGrade_GradeOneExcludesHigherGrades(t *testing.T) {
	for _, it := range content.FilterForGrade(mixedCatalog(), 1) {
		if it.GradeLevel >= 2 && it.Difficulty != content.DifficultyBeginner && it.Difficulty != content.DifficultyEasy {
			t.Errorf("grade 1 received %s (grade %d, %s)", it.ID, it.GradeLevel, it.Difficulty)
		}
	}
}

func TestFilterForGrade_Monotonic(t *testing.T) {
	var lowGrades []content.Item
	for _, it := range mixedCatalog() {
		if it.GradeLevel >= 1 && it.GradeLevel <= 3 {
			lowGrades = append(lowGrades, it)
		}
	}

	five := map[string]bool{}
	for _, it := range content.FilterForGrade(lowGrades, 5) {
		five[it.ID] = true
	}
	for _, it := range content.FilterForGrade(lowGrades, 3) {
		if !five[it.ID] {
			t.Errorf("item %s eligible for grade 3 but not grade 5", it.ID)
		}
	}
}

func TestRuleFor_MonotonicAboveGradeOne(t *testing.T) {
	catalog := mixedCatalog()
	for g := content.Grade(2); g < content.MaxGrade; g++ {
		lower, higher := content.RuleFor(g), content.RuleFor(g+1)
		for _, it := range catalog {
			if lower(it) && !higher(it) {
				t.Errorf("item %s eligible for grade %d but not grade %d", it.ID, g, g+1)
			}
		}
	}
}

func TestFilterForGrade_MissingGradeReturnsCatalog(t *testing.T) {
	catalog := abcCatalog()
	got := content.FilterForGrade(catalog, content.ParseGrade(nil))
	if !reflect.DeepEqual(got, catalog) {
		t.Errorf("FilterForGrade(nil grade) = %v, want catalog unchanged", ids(got))
	}
}

func TestFilter_ClosedPolicyReturnsUngatedOnly(t *testing.T) {
	f := content.NewFilter(content.PolicyClosed, nil)
	catalog := append(abcCatalog(), content.Item{ID: "D", Title: "Welcome"})

	got := ids(f.Apply(catalog, content.GradeUnknown))
	if !reflect.DeepEqual(got, []string{"D"}) {
		t.Errorf("closed policy = %v, want [D]", got)
	}
	if f.IsAppropriate(catalog[0], content.GradeUnknown) {
		t.Error("closed policy should reject graded content for unknown grade")
	}
}

func TestFilterForGrade_Stable(t *testing.T) {
	for g := content.Grade(1); g <= content.MaxGrade; g++ {
		once := content.FilterForGrade(mixedCatalog(), g)
		twice := content.FilterForGrade(once, g)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("grade %d: filtering twice = %v, once = %v", g, ids(twice), ids(once))
		}
	}
}

func TestFilterForGrade_DoesNotMutateInput(t *testing.T) {
	catalog := []content.Item{
		{ID: "x", Title: "Advanced Search", Description: "A difficult task", GradeLevel: 1},
	}
	original := append([]content.Item(nil), catalog...)

	got := content.FilterForGrade(catalog, 1)
	if got[0].Title != "Harder Search" {
		t.Errorf("Title = %q, want Harder Search", got[0].Title)
	}
	if !reflect.DeepEqual(catalog, original) {
		t.Errorf("input mutated: %+v", catalog[0])
	}

	// Other grades see the untouched text.
	if got := content.FilterForGrade(catalog, 2); got[0].Title != "Advanced Search" {
		t.Errorf("grade 2 Title = %q, want Advanced Search", got[0].Title)
	}
}

func TestParseMissingGradePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    content.MissingGradePolicy
		wantErr bool
	}{
		{"", content.PolicyOpen, false},
		{"open", content.PolicyOpen, false},
		{" Closed ", content.PolicyClosed, false},
		{"deny", "", true},
	}
	for _, tt := range tests {
		got, err := content.ParseMissingGradePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMissingGradePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseMissingGradePolicy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func mixedCatalog() []content.Item {
	return []content.Item{
		{ID: "g1-beg", GradeLevel: 1, Difficulty: "beginner"},
		{ID: "g1-adv", GradeLevel: 1, Difficulty: "advanced"},
		{ID: "g2-int", GradeLevel: 2, Difficulty: "intermediate"},
		{ID: "g2-easy", GradeLevel: 2, Difficulty: "easy"},
		{ID: "g3-med", GradeLevel: 3, Difficulty: "medium"},
		{ID: "g4", GradeLevel: 4},
		{ID: "g5-hard", GradeLevel: 5, Difficulty: "hard"},
		{ID: "g7-beg", GradeLevel: 7, Difficulty: "beginner"},
		{ID: "g12", GradeLevel: 12, Difficulty: "advanced"},
		{ID: "u-easy", Difficulty: "easy"},
		{ID: "u-beg", Difficulty: "beginner"},
		{ID: "u-med", Difficulty: "medium"},
		{ID: "u-int", Difficulty: "intermediate"},
		{ID: "u-adv", Difficulty: "advanced"},
		{ID: "u-none", Title: "Welcome"},
	}
}
