package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"coverserver/internal/overlay"
	"coverserver/internal/storage"
)

func newOverlayCmd() *cobra.Command {
	var (
		in       string
		out      string
		title    string
		subtitle string
		font     string
		width    int
		height   int
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "overlay",
		Short: "Burn a title and subtitle into a local file or URL and write a PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in == "" || out == "" {
				return fmt.Errorf("--in and --out are required")
			}
			log := cliLogger(cmd)
			src, err := readSource(cmd.Context(), in, timeout)
			if err != nil {
				return err
			}
			if width <= 0 || height <= 0 {
				b := src.Bounds()
				width, height = b.Dx(), b.Dy()
			}

			engine := overlay.NewEngine(overlay.Options{Fonts: overlay.NewFontSource(font, log), Log: log})
			img, err := engine.Compose(src, title, subtitle, image.Pt(width, height))
			if err != nil {
				return err
			}
			data, err := overlay.EncodePNG(img)
			if err != nil {
				return err
			}
			store, err := storage.NewFileStore(filepath.Dir(out))
			if err != nil {
				return err
			}
			path, err := store.Write(cmd.Context(), filepath.Base(out), data)
			if err != nil {
				return err
			}
			log.Info().Str("path", path).Int("width", width).Int("height", height).Msg("cover written")
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "source image path or http(s) URL")
	cmd.Flags().StringVar(&out, "out", "", "output PNG path")
	cmd.Flags().StringVar(&title, "title", "", "main title")
	cmd.Flags().StringVar(&subtitle, "subtitle", "", "subtitle, usually the category name")
	cmd.Flags().StringVar(&font, "font", getenv("FONT_PATH"), "preferred TrueType/OpenType font file")
	cmd.Flags().IntVar(&width, "width", 0, "canvas width; 0 keeps the source width")
	cmd.Flags().IntVar(&height, "height", 0, "canvas height; 0 keeps the source height")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "download timeout for URL sources")
	return cmd
}

func readSource(ctx context.Context, in string, timeout time.Duration) (image.Image, error) {
	if strings.HasPrefix(in, "http://") || strings.HasPrefix(in, "https://") {
		return overlay.NewFetcher(timeout).Fetch(ctx, in)
	}
	f, err := os.Open(in)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()
	return overlay.Decode(f)
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
