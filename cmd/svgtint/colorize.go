package main

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"svgtint/config"
	"svgtint/state"
	"svgtint/svg"
	"svgtint/utils/images"
)

func loadDocument(path string) (*etree.Document, *etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, nil, fmt.Errorf("unable to read SVG file '%s': %w", path, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, nil, fmt.Errorf("file '%s' has no root element", path)
	}
	return doc, root, nil
}

// deriveDestination builds the output name when none was given on the command
// line.
func deriveDestination(src, suffix string) string {
	base := filepath.Base(src)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext) + suffix + ext
	} else {
		base += suffix
	}
	return filepath.Join(filepath.Dir(src), config.CleanFileName(base))
}

func checkDestination(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("destination '%s' already exists, use --overwrite to replace it", path)
	}
	return nil
}

func runColorize(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	src := cmd.Args().Get(0)
	if src == "" {
		return fmt.Errorf("no source file specified")
	}
	dst := cmd.Args().Get(1)
	if dst == "" {
		dst = deriveDestination(src, "-tinted")
	}
	if err := checkDestination(dst, cmd.Bool("overwrite")); err != nil {
		return err
	}

	doc, root, err := loadDocument(src)
	if err != nil {
		return err
	}

	cfg := env.Cfg.ColoringConfigFor(env.Debug)
	if cmd.Bool("independent") {
		cfg.IndependentColors = true
	}
	if cmd.Bool("no-preserve-lines") {
		cfg.PreserveLinearStyle = false
	}
	if p := cmd.Float("gradients"); p >= 0 {
		cfg.GradientProbability = p
	}
	if palette := cmd.StringSlice("palette"); len(palette) > 0 {
		cfg.Palette = palette
	}

	colorizer := svg.New(cfg, env.Log)
	colorizer.On(svg.EventColorApplied, func(payload any) {
		if e, ok := payload.(svg.ColorApplied); ok && env.Debug {
			env.Log.Debug("Applied color", zap.String("attribute", e.Attribute), zap.String("color", e.Color), zap.Int("index", e.Index))
		}
	})
	colorizer.On(svg.EventComplete, func(payload any) {
		if e, ok := payload.(svg.Complete); ok {
			env.Log.Info("Recolored elements", zap.Int("processed", e.Processed), zap.Int("total", e.Total))
		}
	})

	var ok bool
	if only := cmd.IntSlice("only"); len(only) > 0 {
		indices := make([]int, 0, len(only))
		for _, v := range only {
			indices = append(indices, int(v))
		}
		ok = colorizer.ApplyPathColors(root, svg.PathOptions{Indices: indices})
	} else {
		ok = colorizer.ApplyColors(root, svg.ApplyOptions{})
	}
	if !ok {
		return fmt.Errorf("unable to recolor '%s': not a usable SVG document", src)
	}

	if err := doc.WriteToFile(dst); err != nil {
		return fmt.Errorf("unable to write destination file '%s': %w", dst, err)
	}
	env.Log.Info("Created recolored SVG", zap.String("file", dst))
	return nil
}

func runState(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	src := cmd.Args().Get(0)
	if src == "" {
		return fmt.Errorf("no source file specified")
	}
	_, root, err := loadDocument(src)
	if err != nil {
		return err
	}

	colorizer := svg.New(env.Cfg.ColoringConfigFor(env.Debug), env.Log)
	report := colorizer.GetColorState(root)
	if report == nil {
		return fmt.Errorf("'%s' is not a usable SVG document", src)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("unable to marshal color state: %w", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}

func runPreview(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	src := cmd.Args().Get(0)
	if src == "" {
		return fmt.Errorf("no source file specified")
	}
	dst := cmd.Args().Get(1)
	if dst == "" {
		dst = strings.TrimSuffix(deriveDestination(src, ""), filepath.Ext(src)) + ".png"
	}
	if err := checkDestination(dst, cmd.Bool("overwrite")); err != nil {
		return err
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("unable to read SVG file '%s': %w", src, err)
	}

	w := int(cmd.Int("width"))
	h := int(cmd.Int("height"))
	if w == 0 && h == 0 {
		w, h = env.Cfg.Preview.Width, env.Cfg.Preview.Height
	}

	img, err := images.RasterizeSVGToImage(data, w, h)
	if err != nil {
		return fmt.Errorf("unable to rasterize '%s': %w", src, err)
	}
	if thumb := int(cmd.Int("thumb")); thumb > 0 {
		img = images.Thumbnail(img, thumb)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("unable to create destination file '%s': %w", dst, err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("unable to encode PNG: %w", err)
	}
	env.Log.Info("Created preview", zap.String("file", dst), zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
	return nil
}
