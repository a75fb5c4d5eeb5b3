// Package validate checks inbound request payloads against the JSON Schemas
// embedded under db/schemas before they are decoded into typed requests.
package validate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/qri-io/jsonschema"

	dbfs "github.com/answerhub/answerhub/db"
)

// ErrInvalid marks payloads that failed schema validation; handlers map it to
// a bad-input response.
var ErrInvalid = errors.New("invalid payload")

var (
	mu      sync.Mutex
	schemas = map[string]*jsonschema.Schema{}
)

func schemaFor(name string) (*jsonschema.Schema, error) {
	mu.Lock()
	defer mu.Unlock()

	if s, ok := schemas[name]; ok {
		return s, nil
	}

	b, err := fs.ReadFile(dbfs.RequestSchemas, path.Join("schemas", name+".json"))
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", name, err)
	}

	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(b, rs); err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}

	schemas[name] = rs
	return rs, nil
}

// Payload validates body against the named embedded schema. The returned
// error describes the first failed constraint in caller-facing terms.
func Payload(ctx context.Context, name string, body []byte) error {
	rs, err := schemaFor(name)
	if err != nil {
		return err
	}

	keyErrs, err := rs.ValidateBytes(ctx, body)
	if err != nil {
		return fmt.Errorf("%w: not valid JSON", ErrInvalid)
	}
	if len(keyErrs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, keyErrs[0].Message)
	}
	return nil
}
