package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"SpamCheck/pkg/classifier"
	"SpamCheck/pkg/config"
	"SpamCheck/pkg/logger"

	"github.com/spf13/cobra"
)

func newCheckCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [message...]",
		Short: "Classify one message and print the label",
		Long: `Sends a single message to the classification service and prints the
uppercased label. Without arguments the message is read from stdin.

Example:
  spamcheck check "You have WON a free cruise"
  echo "lunch at noon?" | spamcheck check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := readMessage(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			a, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer a.log.Close()

			client := a.client()
			prediction, err := client.Predict(contextOf(cmd), message)
			if err != nil {
				return errors.New(classifier.FailureMessage(err, client.Endpoint()))
			}

			fmt.Fprintln(cmd.OutOrStdout(), prediction.Display())
			return nil
		},
	}
}

// readMessage joins args, or reads stdin when there are none.
func readMessage(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read message from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func newPingCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the classification service is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer a.log.Close()

			status := a.checker().Probe(contextOf(cmd))
			if !status.Reachable {
				return fmt.Errorf("%s: %s", a.cfg.APIURL, status)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s: %s\n", a.cfg.APIURL, status)
			return nil
		},
	}
}

func newInitCmd(opts *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Writes the default configuration to .spamcheck/config.json, or to the
path given with --config. Use a .yaml extension for YAML output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				path = config.DefaultPath
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg := config.DefaultConfig()
			if opts.apiURL != "" {
				cfg.APIURL = opts.apiURL
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newLogsCmd(opts *globalOptions) *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the last lines of the request log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log, err := logger.New(logger.Options{Dir: cfg.Log.Dir, Level: cfg.Log.Level})
			if err != nil {
				return err
			}
			defer log.Close()

			fmt.Fprintln(cmd.OutOrStdout(), log.GetLastLines(lines))
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "Number of lines to show")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "spamcheck v%s\n", version)
		},
	}
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
