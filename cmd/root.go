package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/micado-scale/adtctl/internal/utils/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "adtctl",
	Short: "Translate deployment descriptors into MiCADO ADTs",
	Long: `adtctl converts a Docker Compose file or a set of Kubernetes manifests
into an Abstract Deployment Template (ADT) consumed by the MiCADO
orchestrator.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Errors surface as a single line on stdout with exit code 1.
func Execute() {
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/adtctl/adtctl.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug|info|warn|error)")

	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.SetDefault("kompose.path", "kompose")
	viper.SetDefault("output.file", "adt-micado.yaml")
}

// initConfig reads in config file and ADTCTL_* environment variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		viper.AddConfigPath(home + "/.config/adtctl")
		viper.SetConfigType("yaml")
		viper.SetConfigName("adtctl")
	}

	viper.SetEnvPrefix("adtctl")
	viper.AutomaticEnv()

	// Initialize the logger
	if err := logger.Init(viper.GetString("log-level")); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		logger.Info("Using config file", zap.String("file", viper.ConfigFileUsed()))
	}
}
