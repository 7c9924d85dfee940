package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRenderCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "render <file-or-url>",
		Short: "Lay out a document and render its front view to a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.openPage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			r := page.NewRenderer()
			if err := r.Render(page.Tree); err != nil {
				return err
			}

			if output == "-" {
				return r.EncodePNG(cmd.OutOrStdout())
			}
			if err := r.SavePNG(output); err != nil {
				return fmt.Errorf("saving %s: %w", output, err)
			}
			a.log.Info("Rendered", zap.String("input", args[0]), zap.String("output", output), zap.Int("nodes", page.Tree.Len()))
			fmt.Fprintf(cmd.ErrOrStderr(), "Rendered %s to %s\n", args[0], output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "output.png", "output PNG file, - for stdout")
	return cmd
}
