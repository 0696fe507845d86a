package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/AnyUserName/mediagrid/internal/config"
	"github.com/AnyUserName/mediagrid/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var version = "0.1.0"

// rootOptions carries persistent flags and the loaded config to subcommands.
type rootOptions struct {
	cfgFile string
	verbose bool
	cfg     *config.Config
}

// loaded returns the loaded configuration, or defaults when the persistent
// pre-run was skipped.
func (o *rootOptions) loaded() *config.Config {
	if o.cfg == nil {
		o.cfg = config.NewDefaultConfig()
	}
	return o.cfg
}

func newRootCmd() (*cobra.Command, *rootOptions) {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "mediagrid",
		Short: "Chat media grid layouts and ThumbHash placeholder previews",
		Long: `mediagrid lays out the photos and videos of a chat message as a
Telegram-style grid, decodes their ThumbHash placeholders, and renders
rounded-corner preview images with a manifest for clients.

Layouts are pure geometry: same input, same cells, no image I/O.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v := viper.New()
			if opts.verbose {
				v.Set("logger.level", "debug")
			}
			cfg, err := config.Load(v, opts.cfgFile)
			if err != nil {
				logging.InitializeLogger(config.NewDefaultConfig().Logger)
				return err
			}
			opts.cfg = cfg

			logging.InitializeLogger(cfg.Logger)
			logging.GetLogger().Debug("starting mediagrid",
				zap.String("version", version), zap.String("command", cmd.Name()))
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "", "config file (default is ./mediagrid.yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	root.SetVersionTemplate(fmt.Sprintf(
		"mediagrid %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))

	root.AddCommand(
		newLayoutCmd(),
		newPlaceholderCmd(),
		newRenderCmd(opts),
		newStatsCmd(),
		newValidateCmd(),
	)
	return root, opts
}

// Execute runs the CLI with ctx and flushes the logger on exit.
func Execute(ctx context.Context) error {
	root, _ := newRootCmd()
	defer logging.Sync()

	if err := root.ExecuteContext(ctx); err != nil {
		logging.GetLogger().Debug("command failed", zap.Error(err))
		return err
	}
	return nil
}
