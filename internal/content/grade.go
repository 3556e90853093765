package content

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Grade is a school grade in 1..12. The zero value means the grade is unknown.
type Grade int

const (
	GradeUnknown Grade = 0
	MinGrade     Grade = 1
	MaxGrade     Grade = 12
)

// Known reports whether g is a valid grade.
func (g Grade) Known() bool {
	return g >= MinGrade && g <= MaxGrade
}

func (g Grade) String() string {
	if !g.Known() {
		return ""
	}
	return fmt.Sprintf("Grade %d", int(g))
}

// ParseGrade coerces a loosely typed grade value into a Grade. Anything that
// does not describe a grade in 1..12 yields GradeUnknown.
func ParseGrade(v any) Grade {
	switch x := v.(type) {
	case nil:
		return GradeUnknown
	case Grade:
		return gradeOf(int64(x))
	case int:
		return gradeOf(int64(x))
	case int32:
		return gradeOf(int64(x))
	case int64:
		return gradeOf(x)
	case float64:
		return gradeFromFloat(x)
	case json.Number:
		return ParseGradeString(x.String())
	case string:
		return ParseGradeString(x)
	default:
		return GradeUnknown
	}
}

// ParseGradeString accepts "3", "Grade 3", "grade-3" and "G3". A sign is part
// of the number, so "-3" and "Grade -3" are unknown.
func ParseGradeString(s string) Grade {
	s = strings.ToLower(strings.TrimSpace(s))
	if rest, ok := cutGradePrefix(s); ok {
		s = strings.TrimSpace(rest)
	}
	if s == "" {
		return GradeUnknown
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return gradeOf(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return gradeFromFloat(f)
	}
	return GradeUnknown
}

// cutGradePrefix strips a leading "grade" or "g" and at most one separator
// directly after it.
func cutGradePrefix(s string) (string, bool) {
	rest, ok := strings.CutPrefix(s, "grade")
	if !ok {
		if rest, ok = strings.CutPrefix(s, "g"); !ok {
			return s, false
		}
	}
	if rest != "" && strings.ContainsRune("-_:", rune(rest[0])) {
		rest = rest[1:]
	}
	return rest, true
}

func gradeOf(n int64) Grade {
	g := Grade(n)
	if !g.Known() {
		return GradeUnknown
	}
	return g
}

func gradeFromFloat(f float64) Grade {
	if math.IsNaN(f) || f != math.Trunc(f) {
		return GradeUnknown
	}
	return gradeOf(int64(f))
}

// MarshalJSON writes known grades as numbers and unknown grades as null.
func (g Grade) MarshalJSON() ([]byte, error) {
	if !g.Known() {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(g))), nil
}

// UnmarshalJSON never fails on a well-formed JSON value: unrecognised grades
// decode to GradeUnknown.
func (g *Grade) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decoding grade: %w", err)
	}
	*g = ParseGrade(raw)
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML catalog files.
func (g *Grade) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode || node.Tag == "!!null" {
		*g = GradeUnknown
		return nil
	}
	*g = ParseGradeString(node.Value)
	return nil
}
