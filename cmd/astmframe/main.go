package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/itech-ahb/astmframe/internal/adapters/fs"
	"github.com/itech-ahb/astmframe/internal/cliconfig"
	"github.com/itech-ahb/astmframe/internal/domain"
	"github.com/itech-ahb/astmframe/internal/observability"
	"github.com/itech-ahb/astmframe/internal/ports"
	"github.com/itech-ahb/astmframe/internal/spool"
	"github.com/itech-ahb/astmframe/pkg/framefile"
	"github.com/itech-ahb/astmframe/pkg/interpret"
	"github.com/itech-ahb/astmframe/pkg/log"
)

const longHelp = `Split ASTM E1394 messages into LIS01-A2 frames and reassemble received
frames back into records.

Frame dumps are JSON lines, one frame per line:
  {"n":1,"type":"INTERMEDIATE","text":"H|\\^&|||analyzer\r"}

Configuration is read from $HOME/.astmframe/config.toml (or --config, TOML
or YAML), then ASTMFRAME_* environment variables, then flags.`

var exampleUsage = strings.TrimSpace(`
  astmframe chunk --max-text-size 240 order.astm
  astmframe reassemble --format text capture.frames.jsonl
  astmframe watch --spool-dir /var/spool/astm --metrics-addr :9464
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	root, logger := newRootCmd()
	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("astmframe")
		os.Exit(1)
	}
}

func newRootCmd() (*cobra.Command, *zerolog.Logger) {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	logger := cliconfig.Logger(cfg.LogLevel)

	root := &cobra.Command{
		Use:           "astmframe",
		Short:         "ASTM frame chunker and reassembler",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, &cfg, cfgPath); err != nil {
				return err
			}
			logger = cliconfig.Logger(cfg.LogLevel)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.astmframe/config.toml)")
	root.PersistentFlags().IntVar(&cfg.MaxTextSize, "max-text-size", cfg.MaxTextSize, "maximum text characters per frame")
	root.PersistentFlags().StringVar(&cfg.Format, "format", cfg.Format, "output format: jsonl or text")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: trace, debug, info, warn, error")
	root.PersistentFlags().BoolVar(&cfg.Strict, "strict", cfg.Strict, "treat frame sequences without a message terminator as errors")

	root.AddCommand(
		newChunkCmd(&cfg, &logger),
		newReassembleCmd(&cfg, &logger),
		newWatchCmd(&cfg, &logger),
	)
	return root, &logger
}

// loadConfig layers file, environment and flags, in increasing precedence.
func loadConfig(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string) error {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgPath != "" && !cliconfig.FileExists(cfgPath) {
		return fmt.Errorf("config file %s does not exist", cfgPath)
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}
	return cfg.Validate()
}

func newFactory(cfg *cliconfig.Config, logger zerolog.Logger, source string) (*interpret.DefaultFactory, error) {
	return interpret.NewFactory(
		interpret.WithMaxTextSize(cfg.MaxTextSize),
		interpret.WithLogger(log.NewZerologAdapterWithLogger(logger)),
		interpret.WithObserver(observability.NewObserver(source)),
	)
}

// openInput returns stdin for "" or "-", otherwise the named file.
func openInput(args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(args[0])
}

func newChunkCmd(cfg *cliconfig.Config, logger *zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "chunk [message-file]",
		Short: "Split message text into numbered frames",
		Long: `Read message text (records separated by CR, LF or CRLF) from a file or
stdin and write the frames a sender would transmit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(args)
			if err != nil {
				return err
			}
			defer in.Close()

			data, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("read message: %w", err)
			}
			text := string(data)

			factory, err := newFactory(cfg, *logger, "cli")
			if err != nil {
				return err
			}
			interpreter := factory.ForText(text)
			frames, err := interpreter.MessageToFrames(interpreter.TextToMessage(text))
			if err != nil {
				return err
			}

			var w ports.FrameWriter = framefile.NewEncoder(cmd.OutOrStdout())
			if cfg.Format == cliconfig.FormatText {
				w = framefile.NewTextWriter(cmd.OutOrStdout())
			}
			return framefile.WriteAll(w, frames)
		},
	}
}

func newReassembleCmd(cfg *cliconfig.Config, logger *zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "reassemble [frame-dump]",
		Short: "Reassemble a frame dump into records",
		Long: `Read a JSON lines frame dump from a file or stdin and write the records
closed by message terminator frames.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(args)
			if err != nil {
				return err
			}
			defer in.Close()

			frames, err := framefile.ReadAll(framefile.NewDecoder(in))
			if err != nil {
				return fmt.Errorf("read frames: %w", err)
			}

			factory, err := newFactory(cfg, *logger, "cli")
			if err != nil {
				return err
			}
			msg, err := factory.ForFrames(frames).FramesToMessage(frames)
			if err != nil {
				return err
			}
			if !msg.Complete() {
				if cfg.Strict {
					return domain.ErrIncompleteMessage
				}
				logger.Warn().Int("frames", len(frames)).Msg("no message terminator received; transmission is incomplete")
			}

			if cfg.Format == cliconfig.FormatText {
				return framefile.WriteRecordsText(cmd.OutOrStdout(), msg)
			}
			return framefile.WriteRecords(cmd.OutOrStdout(), msg)
		},
	}
}

func newWatchCmd(cfg *cliconfig.Config, logger *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process frame dumps and message files dropped into a spool directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ValidateWatch(); err != nil {
				return err
			}

			logger.Info().
				Str("spool_dir", cfg.SpoolDir).
				Str("out_dir", cfg.OutDir).
				Str("state_dir", cfg.StateDir).
				Int("max_text_size", cfg.MaxTextSize).
				Dur("debounce", cfg.DebounceDelay).
				Bool("strict", cfg.Strict).
				Bool("once", cfg.Once).
				Msg("configuration")

			factory, err := newFactory(cfg, *logger, "spool")
			if err != nil {
				return err
			}
			w, err := spool.New(spool.Config{
				Dir:           cfg.SpoolDir,
				OutDir:        cfg.OutDir,
				DebounceDelay: cfg.DebounceDelay,
				Strict:        cfg.Strict,
				Once:          cfg.Once,
			}, factory, fs.NewStateFileRepository(cfg.StateDir), log.NewZerologAdapterWithLogger(*logger))
			if err != nil {
				return err
			}

			// Setup signal handling for graceful shutdown
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				select {
				case <-sigCh:
					logger.Info().Msg("received signal, stopping...")
					cancel()
				case <-ctx.Done():
				}
			}()

			if cfg.MetricsAddr != "" {
				srv := &http.Server{
					Addr:              cfg.MetricsAddr,
					Handler:           metricsMux(),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error().Err(err).Msg("metrics server")
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
				logger.Info().Str("addr", cfg.MetricsAddr).Msg("serving metrics")
			}

			return w.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&cfg.SpoolDir, "spool-dir", cfg.SpoolDir, "directory to watch for *.frames.jsonl and *.astm files")
	cmd.Flags().StringVar(&cfg.OutDir, "out-dir", cfg.OutDir, "directory for results (default: <spool-dir>/out)")
	cmd.Flags().StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "directory for spool-state.json (defaults to spool-dir)")
	cmd.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "address to serve prometheus metrics on (disabled when empty)")
	cmd.Flags().DurationVar(&cfg.DebounceDelay, "debounce", cfg.DebounceDelay, "quiet period after the last write before a file is processed")
	cmd.Flags().BoolVar(&cfg.Once, "once", cfg.Once, "process files already present and exit")
	return cmd
}

func metricsMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	return mux
}
