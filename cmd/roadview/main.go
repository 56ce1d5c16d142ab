// Command roadview renders and inspects road-ahead horizons.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ha1tch/roadview/pkg/config"
	"github.com/ha1tch/roadview/pkg/horizon"
	"github.com/ha1tch/roadview/pkg/render"
	"github.com/ha1tch/roadview/pkg/roadview"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type renderFlags struct {
	configPath  string
	output      string
	width       int
	height      int
	supersample int
	zoomM       int
	debug       bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "roadview",
		Short:         "Schematic road-ahead view of a horizon",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			roadview.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log aggregation and zoom details")

	root.AddCommand(newRenderCmd(), newInfoCmd(), newValidateCmd(), newConvertCmd(), newConfigCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render <horizon>",
		Short: "Render a horizon to PNG or SVG",
		Example: `  roadview render drive.json -o drive.png
  roadview render drive.geojson -o drive.svg --zoom-m 500 --debug`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], f)
		},
	}
	defaults := render.DefaultPNGOptions()
	cmd.Flags().StringVarP(&f.configPath, "config", "c", config.Path(), "configuration file")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file, .png or .svg (default: <horizon>.png)")
	cmd.Flags().IntVar(&f.width, "width", defaults.Width, "image width in pixels")
	cmd.Flags().IntVar(&f.height, "height", defaults.Height, "image height in pixels")
	cmd.Flags().IntVar(&f.supersample, "supersample", defaults.Supersample, "PNG supersampling factor")
	cmd.Flags().IntVar(&f.zoomM, "zoom-m", 0, "displayed length in meters (default: from the configuration)")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "label transitions with their link id")
	return cmd
}

func loadView(horizonPath, configPath string) (*roadview.View, *horizon.Horizon, config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, cfg, err
	}
	h, err := horizon.ReadFile(horizonPath)
	if err != nil {
		return nil, nil, cfg, err
	}
	opts, err := cfg.PainterOptions()
	if err != nil {
		return nil, nil, cfg, err
	}
	v := roadview.NewView(roadview.NewPainter(opts), cfg.Zoom(), cfg.AggregateOptions())
	v.SetSource(h)
	return v, h, cfg, nil
}

func runRender(cmd *cobra.Command, input string, f renderFlags) error {
	v, _, _, err := loadView(input, f.configPath)
	if err != nil {
		return err
	}
	if f.debug {
		opts := v.Painter().Options()
		opts.Debug = true
		v.SetPainter(roadview.NewPainter(opts))
	}
	if f.zoomM > 0 {
		z := v.Zoom()
		z.Auto = false
		z.LengthCM = f.zoomM * 100
		v.SetZoom(z)
	}

	output := f.output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".png"
	}
	out, err := os.Create(output)
	if err != nil {
		return errors.Wrapf(err, "create %s", output)
	}
	defer out.Close()

	switch ext := strings.ToLower(filepath.Ext(output)); ext {
	case ".png":
		err = render.RenderPNG(out, v.Paint, render.PNGOptions{Width: f.width, Height: f.height, Supersample: f.supersample})
	case ".svg":
		err = render.RenderSVG(out, v.Paint, f.width, f.height)
	default:
		err = errors.Errorf("unknown output format %q", ext)
	}
	if err != nil {
		return errors.Wrap(err, output)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, "close %s", output)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Written: %s\n", output)
	return nil
}

func newInfoCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "info <horizon>",
		Short: "Print the sign and area lists of a horizon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, h, _, err := loadView(args[0], configPath)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			snap := v.Snapshot()
			fmt.Fprint(w, h.String())
			fmt.Fprintf(w, "Start lanes: %d (tunnel %v, roundabout %v)\n", snap.Start.Lanes, snap.Start.InTunnel, snap.Start.InRoundabout)
			fmt.Fprintf(w, "Max lanes:   %d\n", snap.MaxLanes)
			fmt.Fprintf(w, "Root link:   %d (in city %v, speed %d)\n", snap.Root.LinkID, snap.Root.InCity, snap.Root.Speed)
			fmt.Fprintf(w, "\nSigns (%d):\n", len(snap.Signs))
			for _, s := range snap.Signs {
				fmt.Fprintf(w, "  %s\n", s)
			}
			fmt.Fprintf(w, "\nAreas (%d):\n", len(snap.Areas))
			for _, a := range snap.Areas {
				fmt.Fprintf(w, "  %s\n", a)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", config.Path(), "configuration file")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <horizon>",
		Short: "Check that a horizon's path and samples reference known links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := horizon.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := h.Validate(); err != nil {
				return errors.Wrap(err, "validation failed")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid horizon with %d links, %d samples, %d m path\n",
				args[0], len(h.Links), h.Len(), h.PathLengthCM()/100)
			return nil
		},
	}
}

func newConvertCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "convert <input.geojson>",
		Short: "Convert a GeoJSON horizon to a JSON fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			h, err := horizon.ReadFile(input)
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(input, filepath.Ext(input)) + ".json"
			}
			if output == input {
				return errors.Errorf("output would overwrite %s", input)
			}
			if err := horizon.WriteFile(output, h); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Written: %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.json)")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path()
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.Errorf("%s exists (use --force to overwrite)", path)
			}
			if err := config.Default().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Written: %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	checkCmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Validate a configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path()
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := config.Load(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
			return nil
		},
	}
	cmd.AddCommand(initCmd, checkCmd)
	return cmd
}
