package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"livre3d/internal/config"
	"livre3d/internal/observability"
)

// app carries what the persistent flags resolve to into the subcommands.
type app struct {
	cfgFile   string
	themeFile string
	width     float64
	height    float64

	cfg   *config.Config
	theme config.Theme
	log   *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "livre3d",
		Short:         "livre3d lays out HT3D documents in a 3D scene.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.SetVersionTemplate(`{{printf "livre3d version %s\n" .Version}}`)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./livre3d.yaml)")
	flags.StringVar(&a.themeFile, "theme", "", "theme file, overrides theme.path")
	flags.Float64Var(&a.width, "width", 0, "window width in pixels, overrides viewport.width")
	flags.Float64Var(&a.height, "height", 0, "window height in pixels, overrides viewport.height")

	root.AddCommand(newLayoutCmd(a), newRenderCmd(a), newVersionCmd())
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		observability.InitializeLogger(config.NewDefaultConfig().Logger)
		return err
	}
	if a.width > 0 {
		cfg.Viewport.Width = a.width
	}
	if a.height > 0 {
		cfg.Viewport.Height = a.height
	}
	if a.themeFile != "" {
		cfg.Theme.Path = a.themeFile
	}

	observability.InitializeLogger(cfg.Logger)
	a.cfg = cfg
	a.log = observability.GetLogger()

	a.theme, err = config.LoadTheme(cfg.Theme.Path)
	if err != nil {
		return fmt.Errorf("theme: %w", err)
	}
	a.log.Debug("Starting livre3d",
		zap.String("version", Version),
		zap.String("command", cmd.Name()),
		zap.Float64("width", cfg.Viewport.Width),
		zap.Float64("height", cfg.Viewport.Height))
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "livre3d version %s\n", Version)
			return err
		},
	}
}
