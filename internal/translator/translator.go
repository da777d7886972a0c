package translator

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/micado-scale/adtctl/internal/utils/logger"
	"go.uber.org/zap"
)

// ConfigData is an externally supplied file to be injected into the workload
// as a mounted configuration artifact.
type ConfigData struct {
	FilePath         string `yaml:"file_path" json:"file_path"`
	FileContent      string `yaml:"file_content" json:"file_content"`
	MountPropagation string `yaml:"mount_propagation,omitempty" json:"mount_propagation,omitempty"`
}

// Options holds configuration for the translation process.
type Options struct {
	// KomposePath is the kompose binary used for compose input. Ignored when
	// Converter is set.
	KomposePath string
	// OutputPath is where TranslateFromFile writes the ADT. Empty disables
	// the write.
	OutputPath string
	// Converter overrides the compose converter, mainly for tests.
	Converter Converter
}

// Translator is the interface for descriptor translation.
type Translator interface {
	// Translate converts a compose file or manifest set to an ADT.
	Translate(ctx context.Context, data []byte, configs []ConfigData) ([]byte, error)

	// TranslateFromReader reads the descriptor from an io.Reader and
	// translates it.
	TranslateFromReader(ctx context.Context, r io.Reader, configs []ConfigData) ([]byte, error)

	// TranslateFromFile translates a descriptor file and writes the ADT to
	// the configured output path.
	TranslateFromFile(ctx context.Context, filePath string, configs []ConfigData) ([]byte, error)
}

type translatorImpl struct {
	options   Options
	converter Converter
}

// NewTranslator creates a new translator with the given options.
func NewTranslator(opts Options) Translator {
	converter := opts.Converter
	if converter == nil {
		converter = NewKomposeConverter(opts.KomposePath)
	}
	return &translatorImpl{options: opts, converter: converter}
}

// Translate converts a compose file or manifest set to an ADT. No output is
// produced on any validation or conversion failure.
func (t *translatorImpl) Translate(ctx context.Context, data []byte, configs []ConfigData) ([]byte, error) {
	docs, err := loadDocuments(data)
	if err != nil {
		return nil, err
	}

	compose, err := isCompose(docs)
	if err != nil {
		return nil, err
	}

	var hints []Propagation
	if compose {
		logger.Debug("Input classified as docker-compose")
		docs, hints, err = t.normalizeCompose(ctx, data)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Debug("Input classified as kubernetes-manifest", zap.Int("documents", len(docs)))
	}

	templates, err := transformManifests(docs, hints, configs)
	if err != nil {
		return nil, err
	}

	result, err := serialize(ADT{NodeTemplates: templates})
	if err != nil {
		return nil, err
	}

	logger.Info("Translation completed", zap.Int("nodes", templates.Len()))
	return result, nil
}

// normalizeCompose validates the compose descriptor, collects the bind
// propagation hints and hands the descriptor to the converter. Validation
// failures surface before the converter is ever invoked.
func (t *translatorImpl) normalizeCompose(ctx context.Context, data []byte) ([]Document, []Propagation, error) {
	project, err := loadComposeProject(ctx, data)
	if err != nil {
		return nil, nil, err
	}

	name, svc, err := singleService(project)
	if err != nil {
		return nil, nil, err
	}
	hints := bindPropagation(svc)

	logger.Info("Converting compose service", zap.String("service", name))
	docs, err := t.converter.Convert(ctx, data, name)
	if err != nil {
		return nil, nil, err
	}
	return docs, hints, nil
}

// TranslateFromReader reads the descriptor from an io.Reader and translates it.
func (t *translatorImpl) TranslateFromReader(ctx context.Context, r io.Reader, configs []ConfigData) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return t.Translate(ctx, data, configs)
}

// TranslateFromFile translates a descriptor file and, when an output path is
// configured, writes the ADT there. The output file is only touched after a
// fully successful translation.
func (t *translatorImpl) TranslateFromFile(ctx context.Context, filePath string, configs []ConfigData) ([]byte, error) {
	logger.Debug("Translating file", zap.String("file", filePath))

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	result, err := t.Translate(ctx, data, configs)
	if err != nil {
		return nil, err
	}

	if t.options.OutputPath != "" {
		if err := os.WriteFile(t.options.OutputPath, result, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write output to %s: %w", t.options.OutputPath, err)
		}
		logger.Info("ADT written to file", zap.String("path", t.options.OutputPath))
	}

	return result, nil
}
