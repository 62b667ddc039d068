package validation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaValidator checks JSON documents against JSON schema files. The save
// pipeline runs it on every envelope before decoding, so implementations must
// be safe for concurrent use; evicted sessions flush through the worker pool
// and several writes can validate at once.
type SchemaValidator interface {
	ValidateFile(dataPath, schemaPath string) error
	ValidateBytes(data []byte, schemaPath string) error
}

type validator struct {
	compiler *jsonschema.Compiler

	mu      sync.RWMutex
	schemas map[string]*jsonschema.Schema
}

// NewSchemaValidator creates a validator with an empty schema cache.
// Schemas compile on first use and stay cached for the validator's lifetime.
func NewSchemaValidator() SchemaValidator {
	return &validator{
		compiler: jsonschema.NewCompiler(),
		schemas:  make(map[string]*jsonschema.Schema),
	}
}

func (v *validator) ValidateFile(dataPath, schemaPath string) error {
	data, err := os.ReadFile(dataPath)
	if err != nil {
		return fmt.Errorf("failed to read data file %s: %w", dataPath, err)
	}
	return v.ValidateBytes(data, schemaPath)
}

func (v *validator) ValidateBytes(data []byte, schemaPath string) error {
	schema, err := v.schema(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to load schema %s: %w", schemaPath, err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse JSON data: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return describeFailure(err)
	}
	return nil
}

// schema returns the compiled schema for path, compiling and caching it on
// first use. Compilation races are tolerated: both goroutines compile the
// same file and the loser's result is simply dropped.
func (v *validator) schema(schemaPath string) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.schemas[schemaPath]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}

	schema, err := v.compile(schemaPath)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	if cached, ok := v.schemas[schemaPath]; ok {
		schema = cached
	} else {
		v.schemas[schemaPath] = schema
	}
	v.mu.Unlock()
	return schema, nil
}

func (v *validator) compile(schemaPath string) (*jsonschema.Schema, error) {
	resolved, err := resolveSchemaPath(schemaPath)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	var schemaDoc interface{}
	if err := json.Unmarshal(raw, &schemaDoc); err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}

	if err := v.compiler.AddResource(schemaPath, schemaDoc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	schema, err := v.compiler.Compile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return schema, nil
}

// describeFailure flattens the validation error tree into one error listing
// every failing location. Save corruption handling logs this wholesale, so
// the message carries the data paths rather than schema internals.
func describeFailure(err error) error {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("validation error: %w", err)
	}
	var lines []string
	collectLeaves(verr, &lines)
	return fmt.Errorf("schema validation failed:\n%s", strings.Join(lines, "\n"))
}

// collectLeaves walks the cause tree and records the deepest failures; the
// intermediate nodes just restate their children.
func collectLeaves(err *jsonschema.ValidationError, lines *[]string) {
	if len(err.Causes) == 0 {
		*lines = append(*lines, "  - at "+instancePath(err)+": "+failedKeyword(err))
		return
	}
	for _, cause := range err.Causes {
		collectLeaves(cause, lines)
	}
}

func instancePath(err *jsonschema.ValidationError) string {
	if len(err.InstanceLocation) == 0 {
		return "(root)"
	}
	return "/" + strings.Join(err.InstanceLocation, "/")
}

func failedKeyword(err *jsonschema.ValidationError) string {
	if err.ErrorKind != nil {
		if path := err.ErrorKind.KeywordPath(); len(path) > 0 {
			return strings.Join(path, ".") + " validation failed"
		}
	}
	return "validation failed"
}

// resolveSchemaPath makes relative schema paths work from any test or tool
// working directory by walking up to the module root (the directory holding
// go.mod). The service itself runs from the repo root and hits the first
// Stat.
func resolveSchemaPath(schemaPath string) (string, error) {
	if filepath.IsAbs(schemaPath) {
		return schemaPath, nil
	}
	if _, err := os.Stat(schemaPath); err == nil {
		return schemaPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	dir := cwd
	for {
		candidate := filepath.Join(dir, schemaPath)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return "", fmt.Errorf("schema file not found: %s", schemaPath)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("schema file not found: %s (searched from %s)", schemaPath, cwd)
}
