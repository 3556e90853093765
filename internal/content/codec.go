package content

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalJSON accepts the seed dataset's variations: numeric or string ids,
// "grade" as an alias of "gradeLevel", and difficulty labels in any case.
func (it *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	var raw struct {
		plain
		ID    json.RawMessage `json:"id"`
		Grade *Grade          `json:"grade"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding content item: %w", err)
	}

	id, err := decodeID(raw.ID)
	if err != nil {
		return err
	}

	*it = Item(raw.plain)
	it.ID = id
	if !it.GradeLevel.Known() && raw.Grade != nil {
		it.GradeLevel = *raw.Grade
	}
	it.Difficulty = NormalizeDifficulty(string(it.Difficulty))
	return nil
}

// UnmarshalYAML applies the same normalisation as UnmarshalJSON.
func (it *Item) UnmarshalYAML(node *yaml.Node) error {
	type plain Item
	var raw struct {
		plain `yaml:",inline"`
		Grade *Grade `yaml:"grade"`
	}
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("decoding content item: %w", err)
	}

	*it = Item(raw.plain)
	if !it.GradeLevel.Known() && raw.Grade != nil {
		it.GradeLevel = *raw.Grade
	}
	it.Difficulty = NormalizeDifficulty(string(it.Difficulty))
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("decoding content id: %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("content id must be a string or number: %w", err)
	}
	return n.String(), nil
}
