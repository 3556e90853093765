package content

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed data/catalog.schema.json
var catalogSchemaJSON []byte

var catalogSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(catalogSchemaJSON))
})

// ValidationError lists every schema violation found in a catalog document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid catalog: " + strings.Join(e.Problems, "; ")
}

// DecodeCatalogJSON validates and decodes a catalog document. The document is
// either a JSON array of items or an object with an "items" array.
func DecodeCatalogJSON(data []byte) ([]Item, error) {
	raw, err := catalogArray(data)
	if err != nil {
		return nil, err
	}
	if err := ValidateCatalogJSON(raw); err != nil {
		return nil, err
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return items, nil
}

// ValidateCatalogJSON checks a JSON array of items against the catalog schema.
func ValidateCatalogJSON(raw []byte) error {
	schema, err := catalogSchema()
	if err != nil {
		return fmt.Errorf("loading catalog schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("validating catalog: %w", err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{}
	for _, e := range result.Errors() {
		verr.Problems = append(verr.Problems, e.String())
	}
	return verr
}

func catalogArray(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &ValidationError{Problems: []string{"empty document"}}
	}
	if trimmed[0] != '{' {
		return trimmed, nil
	}

	var doc struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if len(doc.Items) == 0 {
		return nil, &ValidationError{Problems: []string{`object document has no "items" array`}}
	}
	return doc.Items, nil
}
