package translator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConverter substitutes kompose so the full compose path is testable
// without an external binary.
type fakeConverter struct {
	manifests string
	err       error
	calls     int
}

func (f *fakeConverter) Convert(ctx context.Context, compose []byte, serviceName string) ([]Document, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return loadDocuments([]byte(f.manifests))
}

const convertedManifests = `
apiVersion: apps/v1
kind: Deployment
metadata:
  name: db
spec:
  template:
    spec:
      containers:
        - name: db
          image: postgres:15
          volumeMounts:
            - name: data
              mountPath: /var/lib/postgresql/data
      volumes:
        - name: data
          hostPath:
            path: /var/data
---
apiVersion: v1
kind: Service
metadata:
  name: db
spec:
  ports:
    - port: 5432
`

func TestTranslateManifestSet(t *testing.T) {
	conv := &fakeConverter{}
	tr := NewTranslator(Options{Converter: conv})

	out, err := tr.Translate(context.Background(), []byte(podManifest), nil)
	require.NoError(t, err)
	assert.Zero(t, conv.calls, "converter must not run for manifest input")
	assert.Contains(t, string(out), "my-pod-name-pod:")
	assert.Contains(t, string(out), "topology_template:")
	assert.NotContains(t, string(out), "status:")
}

func TestTranslateComposeAppliesPropagation(t *testing.T) {
	conv := &fakeConverter{manifests: convertedManifests}
	tr := NewTranslator(Options{Converter: conv})

	compose := `
services:
  db:
    image: postgres:15
    volumes:
      - type: bind
        source: /var/data
        target: /var/lib/postgresql/data
        bind:
          propagation: rshared
`
	out, err := tr.Translate(context.Background(), []byte(compose), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, conv.calls)
	assert.Contains(t, string(out), "db-deployment:")
	assert.Contains(t, string(out), "db-service:")
	assert.Contains(t, string(out), "mountPropagation: Bidirectional")
}

func TestTranslateComposeMultiServiceFailsBeforeConversion(t *testing.T) {
	conv := &fakeConverter{manifests: convertedManifests}
	tr := NewTranslator(Options{Converter: conv})

	compose := `
services:
  web:
    image: nginx
  db:
    image: postgres
`
	_, err := tr.Translate(context.Background(), []byte(compose), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, conv.calls)
}

func TestTranslateConversionErrorPropagates(t *testing.T) {
	conv := &fakeConverter{err: conversionf("compose conversion failed: boom")}
	tr := NewTranslator(Options{Converter: conv})

	_, err := tr.Translate(context.Background(), []byte("services:\n  db:\n    image: x\n"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConversion)
}

func TestTranslateWithConfigData(t *testing.T) {
	tr := NewTranslator(Options{})

	configs := []ConfigData{
		{FilePath: "/etc/app/config.json", FileContent: `{"debug": true}`},
	}
	out, err := tr.Translate(context.Background(), []byte(podManifest), configs)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "config-json:")
	assert.Contains(t, text, "subPath: config.json")
	assert.Less(t, strings.Index(text, "config-json:"), strings.Index(text, "my-pod-name-pod:"))
}

func TestTranslateFromFileWritesOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "manifests.yaml")
	output := filepath.Join(dir, "adt-micado.yaml")
	require.NoError(t, os.WriteFile(input, []byte(podManifest), 0o644))

	tr := NewTranslator(Options{OutputPath: output})
	result, err := tr.TranslateFromFile(context.Background(), input, nil)
	require.NoError(t, err)

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, result, written)
}

func TestTranslateFromFileNoOutputOnValidationError(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "manifests.yaml")
	output := filepath.Join(dir, "adt-micado.yaml")
	require.NoError(t, os.WriteFile(input, []byte(podManifest+"---\n"+deploymentManifest), 0o644))

	tr := NewTranslator(Options{OutputPath: output})
	_, err := tr.TranslateFromFile(context.Background(), input, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestTranslateFromFileMissing(t *testing.T) {
	tr := NewTranslator(Options{})
	_, err := tr.TranslateFromFile(context.Background(), "/no/such/file.yaml", nil)
	require.Error(t, err)
}

func TestTranslateFromReader(t *testing.T) {
	tr := NewTranslator(Options{})
	out, err := tr.TranslateFromReader(context.Background(), strings.NewReader(podManifest), nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), "my-pod-name-pod:")
}

func TestTranslateNotYAML(t *testing.T) {
	tr := NewTranslator(Options{})
	_, err := tr.Translate(context.Background(), []byte("\tnot: yaml"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedInput)
}
