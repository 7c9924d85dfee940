// Command livre3d-view shows an HT3D document in a window. The scene is
// laid out again whenever the window changes size.
package main

import (
	"context"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"livre3d/internal/config"
	"livre3d/internal/observability"
)

func main() {
	var cfgFile, themeFile string
	cmd := &cobra.Command{
		Use:          "livre3d-view [file-or-url]",
		Short:        "Show an HT3D document in a window",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if themeFile != "" {
				cfg.Theme.Path = themeFile
			}
			observability.InitializeLogger(cfg.Logger)
			defer observability.Sync()

			theme, err := config.LoadTheme(cfg.Theme.Path)
			if err != nil {
				return fmt.Errorf("theme: %w", err)
			}
			v := newViewer(cmd.Context(), cfg, theme, observability.GetLogger())
			var initial string
			if len(args) > 0 {
				initial = args[0]
			}
			run(v, cfg, initial)
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./livre3d.yaml)")
	cmd.Flags().StringVar(&themeFile, "theme", "", "theme file, overrides theme.path")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(v *viewer, cfg *config.Config, initial string) {
	a := app.New()
	w := a.NewWindow("livre3d")
	w.Resize(fyne.NewSize(float32(cfg.Viewport.Width), float32(cfg.Viewport.Height)))

	raster := canvas.NewRaster(v.frame)
	status := widget.NewLabel("Enter a path or URL and press Enter")

	location := widget.NewEntry()
	location.SetPlaceHolder("scene.html")
	location.OnSubmitted = func(src string) {
		status.SetText("Loading " + src + "...")
		go func() {
			err := v.open(src)
			fyne.Do(func() {
				if err != nil {
					v.log.Error("open failed", zap.String("src", src), zap.Error(err))
					status.SetText("Error: " + err.Error())
					return
				}
				status.SetText(src)
				w.SetTitle("livre3d - " + src)
				raster.Refresh()
			})
		}()
	}

	top := container.NewBorder(nil, nil, nil, nil, location)
	w.SetContent(container.NewBorder(top, status, nil, nil, raster))
	w.Canvas().Focus(location)

	if initial != "" {
		location.SetText(initial)
		location.OnSubmitted(initial)
	}
	w.ShowAndRun()
}
