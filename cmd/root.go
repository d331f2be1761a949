package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"phishguard/internal/app"
	"phishguard/internal/config"
	"phishguard/internal/models"
)

var (
	version = "v0.0.1-default"

	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "phishguard",
	Short: "Phishing URL detector",
	Long: `phishguard scores URLs with five pre-trained classifiers (naive Bayes, SVM,
random forest, XGBoost, logistic regression) and reports each verdict plus a
majority vote, from the command line or through a small web front end.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is given, print help.
		cmd.Help()
	},
	// PersistentPreRunE loads config and every model before any subcommand runs.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipsAppInit(cmd) {
			return nil
		}

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		setupLogging(cfg)

		appInstance, err := app.NewApp(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		ctx := context.WithValue(cmd.Context(), appKey, appInstance)
		cmd.SetContext(ctx)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Define a custom type for the context key to avoid collisions.
type contextKey string

const appKey contextKey = "app"

// GetAppFromContext returns the app stored by PersistentPreRunE.
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}

// skipsAppInit reports whether cmd runs without config or models: the bare
// root, help, version and cobra's shell completion commands.
func skipsAppInit(cmd *cobra.Command) bool {
	if cmd == cmd.Root() {
		return true
	}
	switch cmd.Name() {
	case "help", "version", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	return cmd.HasParent() && cmd.Parent().Name() == "completion"
}

func setupLogging(cfg *config.Config) {
	log.SetOutput(os.Stderr)
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if cfg.Log.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// bindFlags maps command flags onto config keys so flags override the config
// file and environment.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, fs.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %q: %v", flag, err))
		}
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("models-dir", "", "Directory holding the model artifacts")
	bindFlags(rootCmd.PersistentFlags(), map[string]string{
		"log-level":  "log.level",
		"models-dir": "models.dir",
	})

	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Load and validate every model artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}

		reg := appInstance.Registry
		classifierPaths, vectorizerPath := appInstance.Config.ArtifactPaths()

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Key", "Model", "Kind", "Features", "Path"})
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.Append([]string{"-", "Vectorizer", "tfidf_vectorizer", fmt.Sprint(reg.Vectorizer().Dim()), vectorizerPath})
		for _, key := range reg.Keys() {
			c, _ := reg.Classifier(key)
			table.Append([]string{key, models.ModelName(key), c.Kind(), fmt.Sprint(c.NumFeatures()), classifierPaths[key]})
		}
		table.Render()

		fmt.Fprintln(cmd.OutOrStdout(), "All artifacts loaded and consistent.")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}
