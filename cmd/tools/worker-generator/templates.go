// cmd/tools/worker-generator/templates.go
package main

import "text/template"

var templates = map[string]*template.Template{
	"config.go":       template.Must(template.New("config.go").Parse(configTemplate)),
	"models.go":       template.Must(template.New("models.go").Parse(modelsTemplate)),
	"handler.go":      template.Must(template.New("handler.go").Parse(handlerTemplate)),
	"handler_test.go": template.Must(template.New("handler_test.go").Parse(handlerTestTemplate)),
}

const configTemplate = `// internal/workers/{{ .Dir }}/config.go
package {{ .PackageName }}

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	timeout, _ := time.ParseDuration("{{ .Timeout }}")
	return &Config{
		Timeout: timeout,
	}
}
`

const modelsTemplate = `// internal/workers/{{ .Dir }}/models.go
package {{ .PackageName }}

type Input struct {
{{- range .InputFields }}
	{{ .Name }} {{ .Type }} ` + "`json:\"{{ .JSONName }}{{ if not .Required }},omitempty{{ end }}\"`" + `
{{- end }}
}

type Output struct {
{{- range .OutputFields }}
	{{ .Name }} {{ .Type }} ` + "`json:\"{{ .JSONName }}\"`" + `
{{- end }}
}
`

const handlerTemplate = `// internal/workers/{{ .Dir }}/handler.go
package {{ .PackageName }}

import (
	"context"
	"encoding/json"
	"fmt"

	"{{ .Module }}/internal/common/camunda"
	apperrors "{{ .Module }}/internal/common/errors"
	"{{ .Module }}/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "{{ .TaskType }}"
)

{{ if .Description }}// Handler: {{ .Description }}
{{ end -}}
type Handler struct {
	config *Config
	logger logger.Logger
	errors *apperrors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		logger: scoped,
		errors: apperrors.NewErrorHandler(scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		stdErr := apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
		h.errors.HandleJobError(ctx, client, job, stdErr)
		return stdErr
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return err
	}

	if err := camunda.CompleteJob(context.Background(), client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return err
	}
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
{{- range .InputFields }}{{ if and .Required (eq .Type "string") }}
	if input.{{ .Name }} == "" {
		return nil, apperrors.NewInvalidInputError("{{ .JSONName }} is required")
	}
{{- end }}{{ end }}
	// TODO: implement {{ .TaskType }}
	return &Output{}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
`

const handlerTestTemplate = `// internal/workers/{{ .Dir }}/handler_test.go
package {{ .PackageName }}

import (
	"context"
	"testing"

	"{{ .Module }}/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute(t *testing.T) {
	h := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{
{{- range .InputFields }}{{ if and .Required (eq .Type "string") }}
		{{ .Name }}: "value",
{{- end }}{{ end }}
	})
	require.NoError(t, err)
	assert.NotNil(t, out)
}
`
