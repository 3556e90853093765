package content

import (
	_ "embed"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed data/simple_words.yaml
var defaultWordsYAML []byte

// Simplifier rewrites text for early readers by swapping whole words from a
// dictionary. Simplify is a fixed point: simplified text is never changed again.
type Simplifier struct {
	words   map[string]string
	pattern *regexp.Regexp
}

// NewSimplifier builds a simplifier from a word -> replacement dictionary.
// It rejects dictionaries where a replacement contains a word that would
// itself be replaced.
func NewSimplifier(words map[string]string) (*Simplifier, error) {
	fold := cases.Fold()
	folded := make(map[string]string, len(words))
	keys := make([]string, 0, len(words))
	for k, v := range words {
		k = fold.String(strings.TrimSpace(k))
		if k == "" {
			return nil, fmt.Errorf("empty word in dictionary")
		}
		if _, dup := folded[k]; dup {
			return nil, fmt.Errorf("duplicate word %q in dictionary", k)
		}
		folded[k] = strings.TrimSpace(v)
		keys = append(keys, k)
	}

	s := &Simplifier{words: folded}
	if len(keys) == 0 {
		return s, nil
	}

	// Longest first so multi-word entries win over their prefixes.
	slices.SortFunc(keys, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = regexp.QuoteMeta(k)
	}
	pattern, err := regexp.Compile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("compiling dictionary: %w", err)
	}
	s.pattern = pattern

	for _, k := range keys {
		if pattern.MatchString(folded[k]) {
			return nil, fmt.Errorf("replacement %q for %q would be simplified again", folded[k], k)
		}
	}
	return s, nil
}

// ParseSimplifierYAML reads a dictionary in the form `words: {word: replacement}`.
func ParseSimplifierYAML(data []byte) (*Simplifier, error) {
	var doc struct {
		Words map[string]string `yaml:"words"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing simplifier dictionary: %w", err)
	}
	return NewSimplifier(doc.Words)
}

var defaultSimplifier = sync.OnceValue(func() *Simplifier {
	s, err := ParseSimplifierYAML(defaultWordsYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in simplifier dictionary: %v", err))
	}
	return s
})

// DefaultSimplifier returns the simplifier built from the embedded dictionary.
func DefaultSimplifier() *Simplifier {
	return defaultSimplifier()
}

// Simplify replaces dictionary words in text, keeping the case shape of each
// match (lower, Capitalised or UPPER).
func (s *Simplifier) Simplify(text string) string {
	if s.pattern == nil || text == "" {
		return text
	}
	fold := cases.Fold()
	return s.pattern.ReplaceAllStringFunc(text, func(match string) string {
		repl, ok := s.words[fold.String(match)]
		if !ok {
			return match
		}
		return matchCase(match, repl)
	})
}

// SimplifyItem returns a copy of it with a simplified title and description.
func (s *Simplifier) SimplifyItem(it Item) Item {
	it.Title = s.Simplify(it.Title)
	it.Description = s.Simplify(it.Description)
	return it
}

func matchCase(match, repl string) string {
	switch {
	case isUpper(match):
		return cases.Upper(language.English).String(repl)
	case startsUpper(match):
		first, rest, _ := strings.Cut(repl, " ")
		first = cases.Title(language.English, cases.NoLower).String(first)
		if rest == "" {
			return first
		}
		return first + " " + rest
	default:
		return repl
	}
}

func isUpper(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters > 1
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
