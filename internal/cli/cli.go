package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/vk/flowgridgo/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// options collects the flags shared by all subcommands.
type options struct {
	graph      string
	configPath string
	vars       []string
	previewURL string
	namespace  string
	logLevel   string
	logFormat  string
}

// NewRootCommand builds the flowgrid command tree. Command output goes to
// outW and logs go to logW.
func NewRootCommand(outW, logW io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "flowgrid",
		Short:         "FlowGridGo - a declarative data flow graph for tables and charts.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(logW)

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.graph, "graph", "g", "", "Path to the graph file (.json, .yaml, .hcl) or a directory of .hcl files.")
	flags.StringVar(&opts.configPath, "config", "", "Path to a YAML configuration file.")
	flags.StringArrayVar(&opts.vars, "var", nil, "Set a graph variable as name=value. Repeatable.")
	flags.StringVar(&opts.logLevel, "log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log output format. Options: 'text' or 'json'.")

	run := &cobra.Command{
		Use:   "run [GRAPH_PATH]",
		Short: "Run the graph once and emit every rendered view.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(args)
			if err != nil {
				return err
			}
			return app.NewApp(cmd.OutOrStdout(), logW, cfg).Run(commandContext(cmd))
		},
	}
	run.Flags().StringVar(&opts.previewURL, "preview-url", "", "Publish rendered views to this socket.io server instead of stdout.")
	run.Flags().StringVar(&opts.namespace, "namespace", "", "Socket.io namespace used with --preview-url.")

	contexts := &cobra.Command{
		Use:   "contexts [GRAPH_PATH]",
		Short: "Print the resolved context of every node.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(args)
			if err != nil {
				return err
			}
			return app.NewApp(cmd.OutOrStdout(), logW, cfg).Contexts(commandContext(cmd))
		},
	}

	root.AddCommand(run, contexts)
	return root
}

// Execute runs the command tree against args. Invalid flags, arguments and
// configuration are reported as an ExitError with code 2.
func Execute(ctx context.Context, outW, logW io.Writer, args []string) error {
	root := NewRootCommand(outW, logW)
	root.SetArgs(args)

	started := false
	root.PersistentPreRun = func(*cobra.Command, []string) { started = true }
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error()}
	})

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	if !started {
		// cobra failed before any command ran: unknown command or bad args.
		return &ExitError{Code: 2, Message: err.Error()}
	}
	return err
}

// config builds a validated app configuration from flags, the optional
// config file and the positional graph path.
func (o *options) config(args []string) (*app.Config, error) {
	slog.Debug("CLI parser started.")

	path := o.graph
	if path == "" && len(args) > 0 {
		path = args[0]
	}

	vars, err := app.ParseVars(o.vars)
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}

	cfg := app.Config{
		GraphPath:        path,
		ConfigPath:       o.configPath,
		LogLevel:         o.logLevel,
		LogFormat:        o.logFormat,
		PreviewURL:       o.previewURL,
		PreviewNamespace: o.namespace,
		Variables:        vars,
	}
	if o.configPath != "" {
		file, err := app.LoadFile(o.configPath)
		if err != nil {
			return nil, &ExitError{Code: 2, Message: err.Error()}
		}
		if cfg, err = app.Merge(cfg, file); err != nil {
			return nil, &ExitError{Code: 2, Message: err.Error()}
		}
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("CLI parser finished successfully.", "graph", config.GraphPath)
	return config, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
