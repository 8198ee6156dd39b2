package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"muse/editor"
	"muse/graph"
	"muse/ideas"
	"muse/render"
	"muse/render/img"
	"muse/store"
	"muse/term"
	"muse/viewport"
)

// openBoard loads the persisted board, or a fresh one on first run.
func openBoard(a *app) (*store.Badger, *graph.Graph, *viewport.Viewport, error) {
	st, err := store.Open(a.cfg.StorePath)
	if err != nil {
		return nil, nil, nil, err
	}
	state, found, err := st.Load()
	if err != nil {
		st.Close()
		return nil, nil, nil, err
	}
	if !found {
		a.logger.Debug("no stored board, starting fresh")
		return st, graph.New(), viewport.New(), nil
	}
	return st, state.Graph(), state.Viewport(), nil
}

// generationService builds the idea client from the environment, or nil
// when no key is configured.
func generationService() ideas.Service {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil
	}
	return ideas.NewClient(key)
}

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the interactive board editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, g, v, err := openBoard(a)
			if err != nil {
				return err
			}
			defer st.Close()

			ed := editor.New(g, v, nil, a.logger, func(g *graph.Graph, v *viewport.Viewport) {
				if err := st.Save(store.Snapshot(g, v)); err != nil {
					a.logger.Error("save failed", "err", err)
				}
			})
			return term.NewSession(ed, generationService(), a.cfg.Models, a.logger).Run()
		},
	}
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		in     string
		width  int
		height int
		fit    bool
	)
	cmd := &cobra.Command{
		Use:   "render <out.png>",
		Short: "Render the board to a PNG image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var g *graph.Graph
			var v *viewport.Viewport
			if in != "" {
				data, err := os.ReadFile(in)
				if err != nil {
					return err
				}
				state, dropped, err := store.ImportJSON(data)
				if err != nil {
					return err
				}
				if dropped > 0 {
					a.logger.Warn("ignored invalid records", "count", dropped)
				}
				g, v = state.Graph(), state.Viewport()
			} else {
				st, sg, sv, err := openBoard(a)
				if err != nil {
					return err
				}
				st.Close()
				g, v = sg, sv
			}

			surface, err := img.New(width, height)
			if err != nil {
				return err
			}
			if fit {
				fitAll(g, v, float64(width), float64(height))
			}
			render.NewRenderer(surface).Draw(g, v, render.Overlay{})
			if err := surface.SavePNG(args[0]); err != nil {
				return err
			}
			a.logger.Info("rendered board", "nodes", len(g.Nodes), "out", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "render an exported board file instead of the stored board")
	cmd.Flags().IntVar(&width, "width", 1600, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 1000, "image height in pixels")
	cmd.Flags().BoolVar(&fit, "fit", true, "frame all nodes")
	return cmd
}

func fitAll(g *graph.Graph, v *viewport.Viewport, w, h float64) {
	if len(g.Nodes) == 0 {
		return
	}
	b := g.Nodes[0].Bounds()
	for i := 1; i < len(g.Nodes); i++ {
		nb := g.Nodes[i].Bounds()
		x1 := min(b.X, nb.X)
		y1 := min(b.Y, nb.Y)
		x2 := max(b.X+b.W, nb.X+nb.W)
		y2 := max(b.Y+b.H, nb.Y+nb.H)
		b = graph.Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
	}
	v.FitRect(b, w, h, 40)
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <out.json>",
		Short: "Export the board to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, g, v, err := openBoard(a)
			if err != nil {
				return err
			}
			defer st.Close()

			data, err := store.ExportJSON(g, v)
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return err
			}
			a.logger.Info("exported board", "nodes", len(g.Nodes), "out", args[0])
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <in.json>",
		Short: "Import a board file, replacing the stored board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			state, dropped, err := store.ImportJSON(data)
			if err != nil {
				return err
			}
			st, err := store.Open(a.cfg.StorePath)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Save(state); err != nil {
				return err
			}
			a.logger.Info("imported board", "nodes", len(state.Nodes),
				"connections", len(state.Connections), "dropped", dropped)
			return nil
		},
	}
}

func newGenerateCmd(a *app) *cobra.Command {
	var nodeID string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate ideas around a node without opening the editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := generationService()
			if svc == nil {
				return fmt.Errorf("OPENAI_API_KEY is not set")
			}
			st, g, v, err := openBoard(a)
			if err != nil {
				return err
			}
			defer st.Close()

			// A tiny raster surface supplies real text metrics for the
			// auto-sized result nodes.
			surface, err := img.New(16, 16)
			if err != nil {
				return err
			}

			ed := editor.New(g, v, render.NewRenderer(surface).Engine(), a.logger,
				func(g *graph.Graph, v *viewport.Viewport) {
					if err := st.Save(store.Snapshot(g, v)); err != nil {
						a.logger.Error("save failed", "err", err)
					}
				})
			if !ed.SelectNode(nodeID) {
				return fmt.Errorf("no node with id %q", nodeID)
			}
			if err := ed.Generate(svc, a.cfg.Models); err != nil {
				return err
			}
			for c := range ed.Completions() {
				ed.Apply(c)
				if c.Err != nil {
					a.logger.Warn("model failed", "model", c.Model, "err", c.Err)
				}
				if c.Done {
					break
				}
			}
			a.logger.Info("generation finished", "nodes", len(ed.Graph().Nodes))
			return nil
		},
	}
	cmd.Flags().StringVar(&nodeID, "node", "", "source node id (required)")
	cmd.MarkFlagRequired("node")
	return cmd
}
