package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"kcal/cmd/kcal/ui"
	"kcal/internal/config"
	"kcal/internal/form"
	"kcal/internal/predict"
)

// version is stamped by the release build.
var version = "0.3.0"

var (
	// Global flags
	verbose    bool
	configPath string
	serviceURL string
	themeName  string

	// One-shot prediction flags
	predictAge       string
	predictDuration  string
	predictHeartRate string
	predictBodyTemp  string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "kcal",
	Short: "kcal - calorie prediction in the terminal",
	Long: `kcal estimates calories burnt during a workout from four inputs:
age, duration, average heart rate, and body temperature.

Predictions come from an external model service (see 'kcal predict --help'
and the kcalstub binary for a local one).

Run without arguments to start the interactive form.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Optional .env for local development; real config wins over it.
		_ = godotenv.Load()

		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}

		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}

		// Flags override file and environment.
		if serviceURL != "" {
			cfg.ServiceURL = serviceURL
		}
		if themeName != "" {
			cfg.Theme = themeName
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		// The interactive form owns the terminal, so its logs go to a file.
		interactive := cmd.Name() == cmd.Root().Name()
		logger, err = initLogger(interactive)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

// predictCmd runs a single prediction without the interactive form
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run a single prediction and exit",
	Long: `Validates the four inputs with the same rules as the interactive form,
sends them to the prediction service, and prints the estimate.

Example:
  kcal predict --age 30 --duration 45 --heart-rate 110 --body-temp 37.2`,
	RunE: runPredict,
}

// versionCmd prints the build version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the kcal version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("kcal %s\n", version)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&serviceURL, "service-url", "", "Prediction service base URL")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme: auto, light, dark")

	// One-shot prediction flags; raw strings so validation matches the form.
	predictCmd.Flags().StringVar(&predictAge, "age", "", "Age in years")
	predictCmd.Flags().StringVar(&predictDuration, "duration", "", "Workout duration in minutes")
	predictCmd.Flags().StringVar(&predictHeartRate, "heart-rate", "", "Average heart rate in bpm")
	predictCmd.Flags().StringVar(&predictBodyTemp, "body-temp", "", "Body temperature in °C")

	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initLogger builds the zap logger. Interactive mode writes to the log file
// so output does not fight the form for the terminal.
func initLogger(interactive bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else if lvl, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	if interactive {
		path := cfg.LogFile
		if path == "" {
			path = config.DefaultLogFile()
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		zcfg.OutputPaths = []string{path}
		zcfg.ErrorOutputPaths = []string{path}
	}

	return zcfg.Build()
}

// newPredictClient wires the HTTP client from the resolved config.
func newPredictClient() *predict.Client {
	return predict.NewClient(predict.Config{
		BaseURL: cfg.ServiceURL,
		Timeout: cfg.GetRequestTimeout(),
		Logger:  logger,
	})
}

// runTUI launches the interactive form.
func runTUI() error {
	styles := ui.NewStyles(ui.ThemeByName(cfg.Theme))
	logger.Info("starting interactive form",
		zap.String("service_url", cfg.ServiceURL),
		zap.Int("history_size", cfg.HistorySize))
	return runForm(newPredictClient(), styles, cfg.HistorySize, logger)
}

// runPredict performs a one-shot prediction from flags.
func runPredict(cmd *cobra.Command, args []string) error {
	values := map[string]string{
		form.FieldAge:       predictAge,
		form.FieldDuration:  predictDuration,
		form.FieldHeartRate: predictHeartRate,
		form.FieldBodyTemp:  predictBodyTemp,
	}

	var problems []string
	for _, f := range form.Fields() {
		if msg := form.Validate(f, values[f]); msg != "" {
			problems = append(problems, msg)
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "\n"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	req := predict.Request{
		Age:       form.Number(predictAge),
		Duration:  form.Number(predictDuration),
		HeartRate: form.Number(predictHeartRate),
		BodyTemp:  form.Number(predictBodyTemp),
	}

	calories, err := newPredictClient().Predict(ctx, req)
	if err != nil {
		logger.Warn("prediction failed", zap.Error(err))
		return errors.New(form.FailureMessage)
	}

	tier := form.Classify(calories)
	fmt.Printf("%.2f kcal · %s\n", calories, tier.Label())
	if hint := form.TempHint(predictBodyTemp); hint != "Normal" {
		fmt.Printf("Body temperature reads %s\n", strings.ToLower(hint))
	}
	return nil
}
