// Package validation checks job variables, request bodies and completion
// text against the JSON schemas held in the activity registry.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"conversation-starters/pkg/registry"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error joins the individual messages, sorted so the output is stable.
func (r *ValidationResult) Error() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}

// Validator holds the compiled schemas for every registered activity.
type Validator struct {
	input      map[string]*gojsonschema.Schema
	completion map[string]*gojsonschema.Schema
}

// New compiles the input and completion schemas of reg.
func New(reg *registry.ActivityRegistry) (*Validator, error) {
	v := &Validator{
		input:      make(map[string]*gojsonschema.Schema),
		completion: make(map[string]*gojsonschema.Schema),
	}
	for _, a := range reg.Activities {
		if len(a.InputSchema) > 0 {
			s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(a.InputSchema))
			if err != nil {
				return nil, fmt.Errorf("compile input schema for %s: %w", a.TaskType, err)
			}
			v.input[a.TaskType] = s
		}
		if len(a.CompletionSchema) > 0 {
			s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(a.CompletionSchema))
			if err != nil {
				return nil, fmt.Errorf("compile completion schema for %s: %w", a.TaskType, err)
			}
			v.completion[a.TaskType] = s
		}
	}
	return v, nil
}

// NewDefault builds a Validator from the embedded registry.
func NewDefault() (*Validator, error) {
	reg, err := registry.Default()
	if err != nil {
		return nil, err
	}
	return New(reg)
}

// ValidateInput checks a raw JSON document against the task's input schema.
func (v *Validator) ValidateInput(taskType string, doc []byte) *ValidationResult {
	return validate(v.input[taskType], gojsonschema.NewBytesLoader(doc))
}

// ValidateInputObject checks a Go value, marshalled as JSON, against the
// task's input schema.
func (v *Validator) ValidateInputObject(taskType string, obj interface{}) *ValidationResult {
	return validate(v.input[taskType], gojsonschema.NewGoLoader(obj))
}

// ValidateCompletion checks completion text that already parsed as JSON.
func (v *Validator) ValidateCompletion(taskType string, obj interface{}) *ValidationResult {
	return validate(v.completion[taskType], gojsonschema.NewGoLoader(obj))
}

func validate(schema *gojsonschema.Schema, doc gojsonschema.JSONLoader) *ValidationResult {
	if schema == nil {
		return &ValidationResult{Valid: true}
	}

	result, err := schema.Validate(doc)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: fmt.Sprintf("malformed document: %v", err),
				Code:    "MALFORMED_DOCUMENT",
			}},
		}
	}
	if result.Valid() {
		return &ValidationResult{Valid: true}
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if prop, ok := desc.Details()["property"].(string); ok && desc.Type() == "required" {
			field = prop
		}
		errs = append(errs, ValidationError{
			Field:   field,
			Message: desc.String(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return &ValidationResult{Valid: false, Errors: errs}
}
