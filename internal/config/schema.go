package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/todo-go/internal/utils"
)

const schemaURL = "todo.schema.json"

// configSchema describes the keys accepted in todo.toml.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "todo_path": {"type": "string", "minLength": 1},
    "style": {"enum": ["auto", "ansi", "markdown"]},
    "lock": {"type": "boolean"},
    "lock_timeout_seconds": {"type": "integer", "minimum": 0},
    "log_level": {"enum": ["debug", "info", "warn", "warning", "error", "fatal"]},
    "log_format": {"enum": ["text", "json", "logfmt"]},
    "log_timestamps": {"type": "boolean"}
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// SchemaError is a single config validation problem.
type SchemaError struct {
	Path string // dotted key path, empty for the document root
	Err  error
}

func (e *SchemaError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ValidationErrors collects every problem found in a config file.
type ValidationErrors []*SchemaError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(configSchema)); err != nil {
			compileErr = err
			return
		}
		compiledSchema, compileErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// ValidateFile checks the TOML file at path against the config schema.
// Schema violations are returned as ValidationErrors.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	return Validate(string(data))
}

// Validate checks TOML config content against the config schema.
func Validate(content string) error {
	var raw map[string]interface{}
	if _, err := toml.Decode(content, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	s, err := schema()
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	// Round-trip through JSON so TOML-specific types become plain JSON values.
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshal config for validation: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal config for validation: %w", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}

	if err := s.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		var errs ValidationErrors
		collectSchemaErrors(&errs, ve)
		return errs
	}
	return nil
}

func collectSchemaErrors(errs *ValidationErrors, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		*errs = append(*errs, &SchemaError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}
