package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/lens-cli/internal/browser"
	"github.com/xkilldash9x/lens-cli/internal/config"
	"github.com/xkilldash9x/lens-cli/internal/inspector"
	"github.com/xkilldash9x/lens-cli/internal/observability"
	"github.com/xkilldash9x/lens-cli/internal/overlay"
	"github.com/xkilldash9x/lens-cli/internal/overlay/geom"
)

// newInspectCmd creates and configures the `inspect` command.
func newInspectCmd() *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect [url]",
		Short: "Opens a page and attaches the style and measurement overlay to it",
		Args:  cobra.ExactArgs(1),
		// The PreRunE function is a good place to handle configuration finalization
		// before the main execution logic in RunE.
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their corresponding Viper keys. This is the idiomatic way
			// to ensure that command-line flags correctly override values from
			// the config file and environment variables.
			if err := viper.BindPFlag("browser.headless", cmd.Flags().Lookup("headless")); err != nil {
				return err
			}
			if err := viper.BindPFlag("browser.debug", cmd.Flags().Lookup("debug")); err != nil {
				return err
			}
			if err := viper.BindPFlag("overlay.skim_throttle", cmd.Flags().Lookup("skim-throttle")); err != nil {
				return err
			}
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Use the context passed from main.go (signal-aware).
			ctx := cmd.Context()
			logger := observability.GetLogger()

			// 1. Configuration Finalization. Now that flags are properly bound
			// in PreRunE, Viper will apply overrides with the right precedence.
			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return fmt.Errorf("failed to finalize config with flag overrides: %w", err)
			}

			target := args[0]
			if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
				target = "https://" + target
			}

			mode := viper.GetString("mode")
			if _, ok := overlay.ParseMode(mode); !ok && mode != "" {
				logger.Warn("Invalid mode value provided, defaulting to 'inspect'", zap.String("mode", mode))
				mode = overlay.ModeInspect.String()
			}
			cfg.SetInspectConfig(config.InspectConfig{
				TargetURL:      target,
				Mode:           mode,
				SkimProperties: viper.GetStringSlice("skim-properties"),
			})

			logger.Info("Starting inspection session",
				zap.String("target", target),
				zap.String("mode", mode),
				zap.Bool("headless", cfg.Browser().Headless),
				zap.Duration("skim_throttle", cfg.Overlay().SkimThrottle),
			)

			// 2. Initialize Core Components
			components, err := initializeInspectComponents(ctx, cfg, logger)
			if err != nil {
				if components != nil {
					components.Shutdown()
				}
				return fmt.Errorf("failed to initialize inspection components: %w", err)
			}
			defer components.Shutdown()

			// 3. Navigate and run the controller until cancelled.
			if err := components.Session.Navigate(ctx, target); err != nil {
				return fmt.Errorf("failed to open target page: %w", err)
			}

			if err := components.Controller.Run(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					logger.Info("Inspection session ended by user signal")
					return nil
				}
				logger.Error("Inspection session failed", zap.Error(err))
				return err
			}

			logger.Info("Inspection session completed")
			return nil
		},
	}

	// Session configuration override flags.
	inspectCmd.Flags().StringP("mode", "m", "", "Initial overlay mode ('inspect', 'edit', 'skim'). (Overrides config/env)")
	inspectCmd.Flags().StringSlice("skim-properties", nil, "Skim property ids to select at startup (e.g. 'size,margin').")
	inspectCmd.Flags().Bool("headless", false, "Run the browser headless. (Overrides config/env)")
	inspectCmd.Flags().Bool("debug", false, "Enable verbose browser protocol logging. (Overrides config/env)")
	inspectCmd.Flags().Duration("skim-throttle", 0, "Minimum interval between skim relayouts. (Overrides config/env)")

	return inspectCmd
}

// inspectComponents holds initialized services.
type inspectComponents struct {
	Session    *browser.Session
	Controller *inspector.Controller
}

// Shutdown closes the browser session.
func (ic *inspectComponents) Shutdown() {
	if ic.Session != nil {
		ic.Session.Close()
	}
}

// initializeInspectComponents handles dependency injection.
func initializeInspectComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*inspectComponents, error) {
	components := &inspectComponents{}

	// 1. Browser session with the injected page agent.
	session, err := browser.NewSession(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser session: %w", err)
	}
	components.Session = session

	// 2. Page-side collaborators.
	walker := browser.NewWalker(session, cfg.Overlay().MaxSkimElements)
	resolver := browser.NewResolver(session)
	renderer := browser.NewRenderer(session)

	// 3. Overlay engine.
	engine := overlay.NewEngine(overlay.Params{
		TooltipGap:  cfg.Overlay().TooltipGap,
		ClampMargin: cfg.Overlay().ClampMargin,
		PanelSize: geom.Size{
			Width:  cfg.Overlay().PanelWidth,
			Height: cfg.Overlay().PanelHeight,
		},
	}, logger)

	// 4. Controller.
	ctrl, err := inspector.New(cfg, logger, engine, walker, resolver, renderer, walker, session.Events())
	if err != nil {
		return components, fmt.Errorf("failed to create inspector controller: %w", err)
	}
	components.Controller = ctrl

	return components, nil
}
