package translator

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/micado-scale/adtctl/internal/utils/logger"
	"go.uber.org/zap"
)

// Converter turns a single-service compose descriptor into Kubernetes
// manifests. It is an interface so the transformer can be tested without a
// real kompose binary on the path.
type Converter interface {
	Convert(ctx context.Context, compose []byte, serviceName string) ([]Document, error)
}

// KomposeConverter shells out to the kompose binary.
type KomposeConverter struct {
	Binary string
}

// NewKomposeConverter creates a converter around the given kompose binary,
// falling back to whatever "kompose" resolves to on the path.
func NewKomposeConverter(binary string) *KomposeConverter {
	if binary == "" {
		binary = "kompose"
	}
	return &KomposeConverter{Binary: binary}
}

// kompose decorates its output with terminal control sequences; strip them
// before the text reaches logs or error messages.
var ansiEscape = regexp.MustCompile(`\x1b(\[.*?[@-~]|\].*?(\x07|\x1b\\))`)

func stripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// stagedOutputName derives the staged manifest file name from the service
// name. Service names come from user input, so any path separators are
// dropped to keep the file inside the staging directory.
func stagedOutputName(serviceName string) string {
	return filepath.Base(serviceName) + ".yaml"
}

// Convert stages the compose descriptor to a scratch directory, runs kompose
// over it and parses the manifests it produced. The scratch directory, with
// both staged files, is removed on every path.
func (k *KomposeConverter) Convert(ctx context.Context, compose []byte, serviceName string) ([]Document, error) {
	workDir, err := os.MkdirTemp("", "adtctl-kompose-")
	if err != nil {
		return nil, fmt.Errorf("failed to create converter staging directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	inPath := filepath.Join(workDir, "docker-compose.yaml")
	outPath := filepath.Join(workDir, stagedOutputName(serviceName))
	if err := os.WriteFile(inPath, compose, 0o600); err != nil {
		return nil, fmt.Errorf("failed to stage compose descriptor: %w", err)
	}

	cmd := exec.CommandContext(ctx, k.Binary, "convert",
		"-f", inPath,
		"--volumes", "hostPath",
		"--out", outPath,
		"--with-kompose-annotation=false")

	raw, err := cmd.CombinedOutput()
	output := strings.TrimSpace(stripANSI(string(raw)))
	if output != "" {
		logger.Debug("kompose output", zap.String("output", output))
	}
	if err != nil {
		if output == "" {
			output = err.Error()
		}
		return nil, conversionf("compose conversion failed: %s", output)
	}

	converted, err := os.ReadFile(outPath)
	if err != nil {
		return nil, conversionf("converter produced no output for service %s", serviceName)
	}

	docs, err := loadDocuments(converted)
	if err != nil {
		return nil, conversionf("converter produced invalid manifests: %v", err)
	}

	logger.Info("Compose service converted",
		zap.String("service", serviceName),
		zap.Int("manifests", len(docs)))

	return docs, nil
}
