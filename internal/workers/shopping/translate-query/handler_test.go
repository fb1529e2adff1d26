// internal/workers/shopping/translate-query/handler_test.go
package translatequery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Logger Implementation
// ==========================

type TestLogger struct {
	t *testing.T
}

func (l *TestLogger) Info(msg string, fields map[string]interface{}) {
	l.t.Logf("INFO: %s %v", msg, fields)
}

func (l *TestLogger) Warn(msg string, fields map[string]interface{}) {
	l.t.Logf("WARN: %s %v", msg, fields)
}

func (l *TestLogger) Error(msg string, fields map[string]interface{}) {
	l.t.Logf("ERROR: %s %v", msg, fields)
}

func (l *TestLogger) With(map[string]interface{}) Logger {
	return l
}

type stubTranslator struct {
	result string
	calls  int
	source string
	target string
}

func (s *stubTranslator) TranslateOrOriginal(_ context.Context, text, source, target string) (string, bool) {
	s.calls++
	s.source, s.target = source, target
	if s.result == "" {
		return text, false
	}
	return s.result, true
}

// ==========================
// Tests
// ==========================

func TestExecute_TranslatesJapanese(t *testing.T) {
	tr := &stubTranslator{result: "wireless earbuds"}
	h := NewHandler(LoadConfig(), tr, &TestLogger{t: t})

	out, err := h.Execute(context.Background(), &Input{Query: "ワイヤレスイヤホン"})
	require.NoError(t, err)

	assert.Equal(t, "ja", out.DetectedLanguage)
	assert.Equal(t, "wireless earbuds", out.TranslatedQuery)
	assert.True(t, out.Translated)
	assert.Equal(t, "ja", tr.source)
	assert.Equal(t, "en", tr.target)
}

func TestExecute_SameLanguageSkipsGateway(t *testing.T) {
	tr := &stubTranslator{result: "unused"}
	h := NewHandler(LoadConfig(), tr, &TestLogger{t: t})

	out, err := h.Execute(context.Background(), &Input{Query: "used camera", TargetLanguage: "en"})
	require.NoError(t, err)

	assert.Zero(t, tr.calls)
	assert.Equal(t, "used camera", out.TranslatedQuery)
	assert.False(t, out.Translated)
}

func TestExecute_FailureKeepsOriginal(t *testing.T) {
	h := NewHandler(LoadConfig(), &stubTranslator{}, &TestLogger{t: t})

	out, err := h.Execute(context.Background(), &Input{Query: "中古カメラ"})
	require.NoError(t, err)
	assert.Equal(t, "中古カメラ", out.TranslatedQuery)
	assert.False(t, out.Translated)
}

func TestExecute_InvalidInput(t *testing.T) {
	h := NewHandler(LoadConfig(), &stubTranslator{}, &TestLogger{t: t})

	_, err := h.Execute(context.Background(), &Input{Query: ""})
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = h.Execute(context.Background(), &Input{Query: "bag", TargetLanguage: "de"})
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}
