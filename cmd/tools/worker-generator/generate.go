// cmd/tools/worker-generator/generate.go
package main

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"shopping-assistant/pkg/registry"
)

type Options struct {
	OutputDir string
	Module    string
	Force     bool
}

// Field is one generated struct field.
type Field struct {
	Name     string
	Type     string
	JSONName string
	Required bool
}

// WorkerData holds data for templates
type WorkerData struct {
	Module       string
	PackageName  string
	Dir          string
	TaskType     string
	Description  string
	Timeout      string
	InputFields  []Field
	OutputFields []Field
	ErrorCodes   []string
}

var ErrFileExists = errors.New("file already exists")

// Generate writes config.go, models.go, handler.go and handler_test.go for
// the activity and returns the paths written.
func Generate(a registry.Activity, opts Options) ([]string, error) {
	data, err := newWorkerData(a, opts.Module)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(opts.OutputDir, data.Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create worker directory: %w", err)
	}

	var written []string
	for _, name := range []string{"config.go", "models.go", "handler.go", "handler_test.go"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil && !opts.Force {
			return written, fmt.Errorf("%w: %s", ErrFileExists, path)
		}

		src, err := render(templates[name], data)
		if err != nil {
			return written, fmt.Errorf("render %s: %w", name, err)
		}
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func newWorkerData(a registry.Activity, module string) (*WorkerData, error) {
	if a.TaskType == "" {
		return nil, errors.New("activity has no task type")
	}
	timeout := a.Timeout
	if timeout == "" {
		timeout = "30s"
	}
	if _, err := time.ParseDuration(timeout); err != nil {
		return nil, fmt.Errorf("invalid timeout %q: %w", timeout, err)
	}

	category := a.Category
	if category == "" {
		category = "shopping"
	}

	return &WorkerData{
		Module:       module,
		PackageName:  packageName(a.TaskType),
		Dir:          filepath.Join(category, a.TaskType),
		TaskType:     a.TaskType,
		Description:  a.Description,
		Timeout:      timeout,
		InputFields:  fieldsFromSchema(a.InputSchema),
		OutputFields: fieldsFromSchema(a.OutputSchema),
		ErrorCodes:   a.ErrorCodes,
	}, nil
}

func render(tmpl *template.Template, data *WorkerData) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated code: %w", err)
	}
	return src, nil
}

// packageName turns "rank-listings" into "ranklistings".
func packageName(taskType string) string {
	return strings.ToLower(strings.NewReplacer("-", "", "_", "", ".", "").Replace(taskType))
}

// fieldsFromSchema reads the properties of an object schema in name order.
func fieldsFromSchema(schema map[string]interface{}) []Field {
	props, _ := schema["properties"].(map[string]interface{})
	required := map[string]bool{}
	if req, ok := schema["required"].([]interface{}); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		details, _ := props[name].(map[string]interface{})
		fields = append(fields, Field{
			Name:     exportedName(name),
			Type:     goType(details["type"]),
			JSONName: name,
			Required: required[name],
		})
	}
	return fields
}

func goType(jsonType interface{}) string {
	switch jsonType {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		return "[]interface{}"
	}
	return "interface{}"
}

func exportedName(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "")
}
