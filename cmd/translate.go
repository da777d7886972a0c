package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/micado-scale/adtctl/internal/translator"
	"github.com/micado-scale/adtctl/internal/utils/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var translateOpts struct {
	toFile string
	stdout bool
	watch  bool
}

// translateCmd represents the translate command
var translateCmd = &cobra.Command{
	Use:   "translate <file>",
	Short: "Translate a compose file or Kubernetes manifests into an ADT",
	Long: `Translate a Docker Compose file or a set of Kubernetes manifests into a
MiCADO ADT. The input format is detected automatically; compose files are
converted to Kubernetes manifests with kompose first.

Examples:
  # Translate manifests and write adt-micado.yaml into the current directory
  adtctl translate manifests.yaml

  # Translate a compose file to a chosen output path
  adtctl translate docker-compose.yaml --to-file my-adt.yaml

  # Print the ADT to stdout
  adtctl translate manifests.yaml --stdout

  # Keep re-translating whenever the input changes
  adtctl translate manifests.yaml --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)
	translateCmd.Flags().StringVar(&translateOpts.toFile, "to-file", "", "write the ADT to this path instead of the default output file")
	translateCmd.Flags().BoolVar(&translateOpts.stdout, "stdout", false, "print the ADT to stdout instead of writing a file")
	translateCmd.Flags().BoolVar(&translateOpts.watch, "watch", false, "re-translate whenever the input file changes")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	inputFile := args[0]

	outputPath := translateOpts.toFile
	if outputPath == "" && !translateOpts.stdout {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve working directory: %w", err)
		}
		outputPath = filepath.Join(cwd, viper.GetString("output.file"))
	}

	t := translator.NewTranslator(translator.Options{
		KomposePath: viper.GetString("kompose.path"),
		OutputPath:  outputPath,
	})

	ctx := cmd.Context()
	run := func() error {
		result, err := t.TranslateFromFile(ctx, inputFile, nil)
		if err != nil {
			return err
		}
		if translateOpts.stdout {
			fmt.Print(string(result))
		} else {
			color.Green("Translation completed successfully")
		}
		return nil
	}

	if err := run(); err != nil {
		return err
	}

	if !translateOpts.watch {
		return nil
	}

	w, err := translator.NewWatcher(func(path string) error {
		logger.Info("Input changed, re-translating", zap.String("file", path))
		return run()
	})
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Watch(inputFile); err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()
	return nil
}
