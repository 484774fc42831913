package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/internal/config"
	"github.com/goliatone/go-contactform/internal/logging"
	"github.com/goliatone/go-contactform/internal/server"
	"github.com/goliatone/go-contactform/pkg/contact"
	"github.com/goliatone/go-contactform/pkg/model"
	pkgopenapi "github.com/goliatone/go-contactform/pkg/openapi"
	"github.com/goliatone/go-contactform/pkg/orchestrator"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/tui"
	"github.com/goliatone/go-contactform/pkg/renderers/vanilla"
)

var (
	configFile string
	envFile    string
	verbose    bool

	promptFormat string
	renderValues []string
	renderSubmit bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "contactform",
	Short:         "Contact form with live validation",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(config.Options{File: configFile, EnvFile: envFile})
		if err != nil {
			return err
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger, err = logging.New(cfg.Log.Level, cfg.Log.Format)
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
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the form over HTTP",
	RunE:  runServe,
}

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Fill in the form interactively in the terminal",
	RunE:  runPrompt,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the form as a standalone HTML page",
	Long: `Render writes the HTML page to stdout. Each --set field=value is applied
as a change event; --submit then submits the form.`,
	RunE: runRender,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the OpenAPI document for the JSON submission endpoint",
	RunE:  runSchema,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file (ignored when missing)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	promptCmd.Flags().StringVarP(&promptFormat, "format", "f", string(tui.OutputFormatJSON), "output format: json, form or pretty")

	renderCmd.Flags().StringArrayVar(&renderValues, "set", nil, "field=value change event (repeatable)")
	renderCmd.Flags().BoolVar(&renderSubmit, "submit", false, "submit after applying values")

	rootCmd.AddCommand(serveCmd, promptCmd, renderCmd, schemaCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// newOrchestrator applies the configured presets and theme.
func newOrchestrator(renderers ...render.Renderer) (*orchestrator.Orchestrator, error) {
	options := []orchestrator.Option{
		orchestrator.WithRegistry(render.NewRegistry(renderers...)),
	}
	if cfg.Presets != "" {
		data, err := os.ReadFile(cfg.Presets)
		if err != nil {
			return nil, fmt.Errorf("read presets: %w", err)
		}
		preset, err := orchestrator.NewJSONPresetTransformer(data)
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithSchemaTransformer(preset))
	}
	selector, err := cfg.Theme.Selector()
	if err != nil {
		return nil, err
	}
	if selector != nil {
		options = append(options, orchestrator.WithThemeSelector(selector, cfg.Theme.Name, cfg.Theme.Variant))
	}
	return orchestrator.New(options...), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	html, err := vanilla.New(vanilla.WithStylesheet("/assets/" + vanilla.StylesheetName))
	if err != nil {
		return err
	}
	orch, err := newOrchestrator(html)
	if err != nil {
		return err
	}

	srv, err := server.New(ctx,
		server.WithLogger(logger),
		server.WithOrchestrator(orch),
		server.WithSessionTTL(cfg.Server.SessionTTL, 0),
	)
	if err != nil {
		return err
	}
	return srv.Listen(ctx, cfg.Server.Addr)
}

func runPrompt(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	format, ok := tui.ParseOutputFormat(promptFormat)
	if !ok {
		return fmt.Errorf("unsupported format %q", promptFormat)
	}
	renderer, err := tui.New(
		tui.WithOutputFormat(format),
		tui.WithOutput(cmd.ErrOrStderr()),
	)
	if err != nil {
		return err
	}
	orch, err := newOrchestrator(renderer)
	if err != nil {
		return err
	}

	out, err := orch.Generate(ctx, orchestrator.Request{Renderer: renderer.Name()})
	if err != nil {
		return err
	}
	logger.Debug("prompt session finished", zap.String("format", string(format)))
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	html, err := vanilla.New(vanilla.WithDefaultStyles())
	if err != nil {
		return err
	}
	orch, err := newOrchestrator(html)
	if err != nil {
		return err
	}
	form, err := orch.Form(ctx)
	if err != nil {
		return err
	}

	ctrl, err := contact.NewController(contact.WithForm(form))
	if err != nil {
		return err
	}
	for _, pair := range renderValues {
		name, value, found := strings.Cut(pair, "=")
		field, ok := model.ParseFieldName(name)
		if !found || !ok {
			return fmt.Errorf("invalid --set %q: want field=value", pair)
		}
		if err := ctrl.OnFieldChange(field, value); err != nil {
			return err
		}
	}
	if renderSubmit {
		accepted := ctrl.OnSubmit()
		logger.Debug("render submit", zap.Bool("accepted", accepted), zap.Int("errors", ctrl.ErrorCount()))
	}

	out, err := orch.Generate(ctx, orchestrator.Request{
		Snapshot:      ctrl.Snapshot(),
		RenderOptions: render.RenderOptions{Standalone: true},
	})
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func runSchema(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	orch, err := newOrchestrator()
	if err != nil {
		return err
	}
	form, err := orch.Form(ctx)
	if err != nil {
		return err
	}
	data, err := pkgopenapi.JSON(ctx, form, pkgopenapi.DefaultOptions())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
