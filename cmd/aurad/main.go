package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/five82/aurad/internal/app"
	"github.com/five82/aurad/internal/aura"
	"github.com/five82/aurad/internal/logfeed"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	configPath string
	prefsPath  string
	apiURL     string
	pollEvery  time.Duration
	debug      bool

	jsonOutput bool
	logsLimit  int
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "aurad: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "aurad",
		Short:         "Terminal dashboard for the AURA sentiment backend",
		Long:          "aurad monitors an AURA backend: market sentiment, ICP price, backend logs and the automated cycle.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), appOptions())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default ~/.config/aurad/config.toml)")
	flags.StringVar(&prefsPath, "prefs", "", "preferences file (default ~/.config/aurad/prefs.toml)")
	flags.StringVar(&apiURL, "api", "", "gateway base URL, overrides api_url")
	flags.DurationVar(&pollEvery, "poll", 0, "refresh interval, overrides poll_interval")
	flags.BoolVar(&debug, "debug", false, "debug-level diagnostic logging")

	statusCmd := newStatusCmd()
	statusCmd.Flags().BoolVar(&jsonOutput, "json", false, "print JSON")
	logsCmd := newLogsCmd()
	logsCmd.Flags().BoolVar(&jsonOutput, "json", false, "print JSON")
	logsCmd.Flags().IntVarP(&logsLimit, "lines", "n", 0, "show only the newest n lines")

	cycleCmd := newCycleCmd()
	cycleCmd.AddCommand(newCycleStartCmd(), newCycleStopCmd())
	root.AddCommand(newHealthCmd(), statusCmd, logsCmd, newUpdateCmd(), cycleCmd, newSetKeyCmd())
	return root
}

func appOptions() app.Options {
	return app.Options{
		ConfigPath: configPath,
		PrefsPath:  prefsPath,
		APIURL:     apiURL,
		PollEvery:  pollEvery,
		Debug:      debug,
	}
}

// withClient runs fn against a freshly configured gateway client.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, c *aura.Client, out io.Writer) error) error {
	env, err := app.Setup(appOptions())
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), env.Config.RequestTimeout+2*time.Second)
	defer cancel()

	if err := fn(ctx, env.Client, cmd.OutOrStdout()); err != nil {
		if reason, ok := aura.Reason(err); ok {
			return errors.New(reason)
		}
		return err
	}
	return nil
}

// --- Health ---

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, c *aura.Client, out io.Writer) error {
				msg, err := c.Health(ctx)
				if err != nil {
					return err
				}
				if msg == "" {
					msg = "ok"
				}
				fmt.Fprintf(out, "%s ✓ %s\n", c.BaseURL(), msg)
				return nil
			})
		},
	}
}

// --- Status ---

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the backend's cycle status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, c *aura.Client, out io.Writer) error {
				st, err := c.FetchStatus(ctx)
				if err != nil {
					return err
				}
				if jsonOutput {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(st)
				}
				return printStatus(out, st, time.Now())
			})
		},
	}
}

func printStatus(out io.Writer, st *aura.SystemStatus, now time.Time) error {
	state := "inactive"
	if st.IsActive {
		state = "active"
	}
	last := "never"
	if !st.LastUpdate.IsZero() {
		last = st.LastUpdate.Local().Format(time.DateTime) + " (" + humanize.RelTime(st.LastUpdate, now, "ago", "from now") + ")"
	}
	_, err := fmt.Fprintf(out, "Cycle:       %s\nCycles:      %s\nLogs:        %s\nLast update: %s\n",
		state, humanize.Comma(st.CycleCount), humanize.Comma(st.LogsCount), last)
	return err
}

// --- Logs ---

func newLogsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logs",
		Short: "Print backend logs, oldest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, c *aura.Client, out io.Writer) error {
				lines, err := c.FetchLogs(ctx)
				if err != nil {
					return err
				}
				if logsLimit > 0 && len(lines) > logsLimit {
					lines = lines[len(lines)-logsLimit:]
				}
				if jsonOutput {
					return json.NewEncoder(out).Encode(logfeed.ParseAll(lines))
				}
				for _, line := range lines {
					e := logfeed.Parse(line)
					stamp := e.Stamp
					if !e.Timestamp.IsZero() {
						stamp = e.Timestamp.Local().Format(time.DateTime)
					}
					fmt.Fprintf(out, "%s %-7s %s\n", stamp, e.Severity, e.Message)
				}
				return nil
			})
		},
	}
}

// --- Actions ---

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Trigger a manual update cycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, c *aura.Client, out io.Writer) error {
				msg, err := c.TriggerUpdate(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, orDefault(msg, "Manual update triggered successfully"))
				return nil
			})
		},
	}
}

func newCycleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cycle",
		Short: "Start or stop the automated cycle",
	}
}

func newCycleStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the automated cycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, c *aura.Client, out io.Writer) error {
				msg, err := c.StartCycle(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, orDefault(msg, "Automated cycle started"))
				return nil
			})
		},
	}
}

func newCycleStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the automated cycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, c *aura.Client, out io.Writer) error {
				msg, err := c.StopCycle(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, orDefault(msg, "Automated cycle stopped"))
				return nil
			})
		},
	}
}

func newSetKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-key [key]",
		Short: "Set the backend's upstream API key",
		Long:  "Sets the API key used by the backend. Without an argument the key is read from stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := readKey(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return withClient(cmd, func(ctx context.Context, c *aura.Client, out io.Writer) error {
				if err := c.SetAPIKey(ctx, key); err != nil {
					return err
				}
				fmt.Fprintln(out, "API key updated successfully")
				return nil
			})
		},
	}
}

func readKey(in io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(io.LimitReader(in, 4096))
	if err != nil {
		return "", fmt.Errorf("read key: %w", err)
	}
	return string(trimNewline(data)), nil
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
