package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"SpamCheck/pkg/classifier"
	"SpamCheck/pkg/config"
	"SpamCheck/pkg/health"
	"SpamCheck/pkg/logger"
	"SpamCheck/pkg/tui"
	"SpamCheck/pkg/utils"

	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	apiURL     string
	timeout    int
	verbose    bool
}

// app is the wiring produced from config and flags.
type app struct {
	cfg     *config.Config
	cfgPath string
	log     *logger.Logger
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "spamcheck",
		Short: "Check whether a message is spam",
		Long: `spamcheck sends a message to a spam classification service and shows
the predicted label.

Run without arguments to open the interactive form.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer a.log.Close()
			return a.runForm(cmd.Context())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to configuration file (JSON or YAML)")
	flags.StringVar(&opts.apiURL, "url", "", "Prediction endpoint (overrides config)")
	flags.IntVar(&opts.timeout, "timeout", 0, "Request timeout in seconds, 0 disables (overrides config)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(
		newCheckCmd(opts),
		newPingCmd(opts),
		newInitCmd(opts),
		newLogsCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}

// setup loads the config, applies flag overrides and opens the log file.
func setup(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	cfg, path, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if opts.apiURL != "" {
		cfg.APIURL = opts.apiURL
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSeconds = opts.timeout
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	log, err := logger.New(logger.Options{
		Dir:        cfg.Log.Dir,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	if path != "" {
		log.Debug("config loaded from %s", path)
	}
	if cfg.AuthToken != "" {
		log.Debug("using auth token %s", utils.MaskToken(cfg.AuthToken))
	}

	return &app{cfg: cfg, cfgPath: path, log: log}, nil
}

func (a *app) client() *classifier.Client {
	return classifier.NewClient(classifier.Config{
		URL:       a.cfg.APIURL,
		AuthToken: a.cfg.AuthToken,
		Timeout:   a.cfg.Timeout(),
	}, a.log)
}

func (a *app) checker() *health.Checker {
	retry := utils.DefaultRetryConfig()
	retry.MaxRetries = a.cfg.Probe.MaxRetries
	retry.InitialDelay = a.cfg.ProbeInitialDelay()
	retry.MaxDelay = a.cfg.ProbeMaxDelay()
	return health.NewChecker(a.cfg.APIURL, retry, a.log)
}

// runForm opens the interactive form until the user quits or a signal arrives.
func (a *app) runForm(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	formOpts := tui.Options{
		WrapWidth:    a.cfg.UI.WrapWidth,
		ShowOriginal: a.cfg.UI.ShowOriginal,
		Logger:       a.log,
	}
	if a.cfg.ProbeOnStart {
		formOpts.Prober = a.checker()
	}

	a.log.Info("form started against %s", a.cfg.APIURL)
	if err := tui.Run(ctx, a.client(), formOpts); err != nil {
		// A cancelled context is just our shutdown path
		if ctx.Err() == nil {
			return fmt.Errorf("form error: %w", err)
		}
	}
	a.log.Info("form closed")
	return nil
}
