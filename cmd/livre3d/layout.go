package main

import (
	"fmt"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"livre3d/pkg/layout"
)

// nodeDump is the geometry of one node. Position is relative to the
// parent's anchor; World is the composed anchor.
type nodeDump struct {
	ID       int         `json:"id"`
	Tag      string      `json:"tag"`
	Kind     string      `json:"kind"`
	Text     string      `json:"text,omitempty"`
	Position [3]float64  `json:"position"`
	World    [3]float64  `json:"world"`
	Size     [3]float64  `json:"size"`
	Children []*nodeDump `json:"children,omitempty"`
}

func newLayoutCmd(a *app) *cobra.Command {
	var pixels, compact bool
	cmd := &cobra.Command{
		Use:   "layout <file-or-url>",
		Short: "Lay out a document and print its geometry as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.openPage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			scale := 1.0
			if pixels {
				if scale, err = page.Viewport.WorldToPixels(); err != nil {
					return err
				}
			}
			dump, err := dumpTree(page.Tree, page.Tree.Root(), layout.Vec3{}, scale)
			if err != nil {
				return err
			}

			var out []byte
			if compact {
				out, err = json.Marshal(dump)
			} else {
				out, err = json.MarshalIndent(dump, "", "  ")
			}
			if err != nil {
				return fmt.Errorf("encoding geometry: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().BoolVar(&pixels, "pixels", false, "report geometry in pixels instead of world units")
	cmd.Flags().BoolVar(&compact, "compact", false, "print the JSON on one line")
	return cmd
}

func dumpTree(t *layout.Tree, id layout.NodeID, base layout.Vec3, scale float64) (*nodeDump, error) {
	n := t.Node(id)
	if n == nil {
		return nil, nil
	}
	size, err := n.Size()
	if err != nil {
		return nil, err
	}
	world := base.Add(n.Position())
	d := &nodeDump{
		ID:       int(id),
		Tag:      n.Tag(),
		Kind:     n.Kind().String(),
		Position: scaled(n.Position(), scale),
		World:    scaled(world, scale),
		Size:     scaled(size, scale),
	}
	if run, ok := n.Content().(*layout.TextRun); ok {
		d.Text = run.Text
	}

	var kids []layout.NodeID
	if bg := n.Background(); bg != layout.NoNode {
		kids = append(kids, bg)
	}
	kids = append(kids, n.Children()...)
	for _, c := range kids {
		cd, err := dumpTree(t, c, world, scale)
		if err != nil {
			return nil, err
		}
		d.Children = append(d.Children, cd)
	}
	return d, nil
}

func scaled(v layout.Vec3, s float64) [3]float64 {
	return [3]float64{v.X * s, v.Y * s, v.Z * s}
}
