package content

import (
	"fmt"
	"slices"
	"strings"
)

// Rule reports whether an item is appropriate for one particular grade.
type Rule func(Item) bool

// MissingGradePolicy decides what a learner without a known grade may see.
type MissingGradePolicy string

const (
	// PolicyOpen returns the whole catalog when the grade is unknown.
	PolicyOpen MissingGradePolicy = "open"
	// PolicyClosed returns only ungated content when the grade is unknown.
	PolicyClosed MissingGradePolicy = "closed"
)

// ParseMissingGradePolicy validates a policy name. Empty means PolicyOpen.
func ParseMissingGradePolicy(s string) (MissingGradePolicy, error) {
	switch p := MissingGradePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PolicyOpen:
		return PolicyOpen, nil
	case PolicyClosed:
		return PolicyClosed, nil
	default:
		return "", fmt.Errorf("unknown missing grade policy %q (want open or closed)", s)
	}
}

type difficultySet map[Difficulty]bool

func difficulties(ds ...Difficulty) difficultySet {
	set := make(difficultySet, len(ds))
	for _, d := range ds {
		set[d] = true
	}
	return set
}

// Difficulties an ungraded item may carry and still be shown to a grade.
// Every set contains the one before it.
var (
	easyDifficulties      = difficulties(DifficultyBeginner, DifficultyEasy)
	gradeFourDifficulties = difficulties(DifficultyBeginner, DifficultyEasy, DifficultyMedium)
	gradeFiveDifficulties = difficulties(DifficultyBeginner, DifficultyEasy, DifficultyMedium, DifficultyIntermediate)
)

// RuleFor returns the eligibility rule of a known grade. Grades 2 through 5
// accept graded content up to their own grade plus ungraded content within
// their difficulty set; grade 6 and above accept any ungraded content.
func RuleFor(g Grade) Rule {
	switch {
	case g == 1:
		return func(it Item) bool {
			return it.GradeLevel == 1 || easyDifficulties[it.Difficulty] || it.Ungated()
		}
	case g == 2 || g == 3:
		return bandRule(g, easyDifficulties)
	case g == 4:
		return bandRule(g, gradeFourDifficulties)
	case g == 5:
		return bandRule(g, gradeFiveDifficulties)
	default:
		return func(it Item) bool {
			return !it.Graded() || it.GradeLevel <= g
		}
	}
}

func bandRule(g Grade, ungraded difficultySet) Rule {
	return func(it Item) bool {
		if it.Graded() {
			return it.GradeLevel <= g
		}
		return it.Difficulty == DifficultyNone || ungraded[it.Difficulty]
	}
}

// Filter narrows a catalog to what a grade may see. A Filter never modifies
// the items it is given; grade 1 results are simplified copies.
type Filter struct {
	policy     MissingGradePolicy
	simplifier *Simplifier
}

// NewFilter creates a filter. A nil simplifier uses the built-in dictionary.
func NewFilter(policy MissingGradePolicy, simplifier *Simplifier) *Filter {
	if policy == "" {
		policy = PolicyOpen
	}
	if simplifier == nil {
		simplifier = DefaultSimplifier()
	}
	return &Filter{policy: policy, simplifier: simplifier}
}

// Policy returns the filter's missing grade policy.
func (f *Filter) Policy() MissingGradePolicy {
	return f.policy
}

// Rule returns the eligibility rule for g, applying the missing grade policy
// when g is unknown.
func (f *Filter) Rule(g Grade) Rule {
	if g.Known() {
		return RuleFor(g)
	}
	if f.policy == PolicyClosed {
		return Item.Ungated
	}
	return func(Item) bool { return true }
}

// IsAppropriate reports whether a single item may be shown to grade g. It
// agrees with Apply for every item.
func (f *Filter) IsAppropriate(it Item, g Grade) bool {
	return f.Rule(g)(it)
}

// Apply returns the items of catalog appropriate for grade g, in catalog order.
func (f *Filter) Apply(catalog []Item, g Grade) []Item {
	if !g.Known() && f.policy == PolicyOpen {
		return slices.Clone(catalog)
	}

	rule := f.Rule(g)
	out := make([]Item, 0, len(catalog))
	for _, it := range catalog {
		if !rule(it) {
			continue
		}
		if g == 1 {
			it = f.simplifier.SimplifyItem(it)
		}
		out = append(out, it)
	}
	return out
}

var defaultFilter = NewFilter(PolicyOpen, nil)

// FilterForGrade applies the default fail-open filter.
func FilterForGrade(catalog []Item, g Grade) []Item {
	return defaultFilter.Apply(catalog, g)
}

// IsAppropriate applies the default fail-open rule to a single item.
func IsAppropriate(it Item, g Grade) bool {
	return defaultFilter.IsAppropriate(it, g)
}
