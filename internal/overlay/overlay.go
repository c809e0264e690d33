// Package overlay burns a title and a subtitle into a generated cover image.
//
// The background is unknown ahead of time, so the caption colour is chosen
// from the mean brightness of the pixels under the text. Long titles are
// wrapped to fit a fixed horizontal budget, and the title gets a one-pixel
// grey outline drawn from four diagonal offsets.
package overlay

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"coverserver/internal/domain"
)

const (
	DefaultWidth  = 864
	DefaultHeight = 1152
)

var (
	outlineColor   = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	outlineOffsets = []image.Point{image.Pt(-1, -1), image.Pt(-1, 1), image.Pt(1, -1), image.Pt(1, 1)}
)

// Writer persists an encoded cover and returns its path.
type Writer interface {
	WriteUnique(ctx context.Context, prefix, ext string, data []byte) (string, error)
}

// Job is one overlay request.
type Job struct {
	SourceURL string
	Title     string
	Subtitle  string
	Width     int
	Height    int
}

// Rendered is the composited cover and where it was written.
type Rendered struct {
	Image *image.NRGBA
	Path  string
}

// Options configures an Engine.
type Options struct {
	Fonts   *FontSource
	Fetcher *Fetcher
	Store   Writer
	Width   int
	Height  int
	Log     zerolog.Logger
}

// Engine composes captions onto bitmaps. It holds no per-request state and
// is safe for concurrent use.
type Engine struct {
	fonts   *FontSource
	fetcher *Fetcher
	store   Writer
	width   int
	height  int
	log     zerolog.Logger
}

// NewEngine builds an Engine, filling in defaults for missing options.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		fonts:   opts.Fonts,
		fetcher: opts.Fetcher,
		store:   opts.Store,
		width:   opts.Width,
		height:  opts.Height,
		log:     opts.Log,
	}
	if e.fonts == nil {
		e.fonts = NewFontSource("", opts.Log)
	}
	if e.fetcher == nil {
		e.fetcher = NewFetcher(0)
	}
	if e.width <= 0 {
		e.width = DefaultWidth
	}
	if e.height <= 0 {
		e.height = DefaultHeight
	}
	return e
}

// Render fetches the source bitmap, composes the caption and writes the
// result as PNG. Nothing is written unless composing and encoding succeed.
func (e *Engine) Render(ctx context.Context, job Job) (*Rendered, error) {
	if e.store == nil {
		return nil, fmt.Errorf("overlay: no output store configured")
	}
	src, err := e.fetcher.Fetch(ctx, job.SourceURL)
	if err != nil {
		return nil, err
	}
	img, err := e.Compose(src, job.Title, job.Subtitle, e.size(job))
	if err != nil {
		return nil, err
	}
	data, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}
	path, err := e.store.WriteUnique(ctx, "output_image", ".png", data)
	if err != nil {
		return nil, fmt.Errorf("overlay: persist cover: %w", err)
	}
	e.log.Info().Str("path", path).Str("title", job.Title).Msg("cover saved")
	return &Rendered{Image: img, Path: path}, nil
}

func (e *Engine) size(job Job) image.Point {
	size := image.Pt(e.width, e.height)
	if job.Width > 0 && job.Height > 0 {
		size = image.Pt(job.Width, job.Height)
	}
	return size
}

// Compose resamples src to size and draws title and subtitle on it. The
// returned image always has exactly the requested dimensions. A panic from
// the drawing code is reported as domain.ErrRender.
func (e *Engine) Compose(src image.Image, title, subtitle string, size image.Point) (out *image.NRGBA, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: %v", domain.ErrRender, r)
		}
	}()
	if src == nil {
		return nil, fmt.Errorf("%w: nil source image", domain.ErrRender)
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("%w: invalid canvas %dx%d", domain.ErrRender, size.X, size.Y)
	}

	canvas := fit(src, size)
	faces := e.fonts.Faces(TitleSize, SubtitleSize)
	defer faces.Close()

	layout := computeLayout(faces, cleanText(title), cleanText(subtitle), size.X)
	region := layout.Region().Intersect(canvas.Bounds())
	if region.Empty() {
		region = canvas.Bounds()
	}
	bg := MeanColor(canvas, region)
	fg := ContrastColor(bg)
	e.log.Debug().
		Bool("wrapped", layout.Wrapped).
		Int("title_lines", len(layout.Title.Lines)).
		Float64("luminance", Luminance(bg)).
		Msg("caption layout")

	drawBlock(canvas, faces.Title, layout.Title, fg, true)
	drawBlock(canvas, faces.Subtitle, layout.Subtitle, fg, false)
	return canvas, nil
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: encode png: %w", domain.ErrRender, err)
	}
	return buf.Bytes(), nil
}

// fit returns an NRGBA copy of src at exactly size, resampling with a
// Lanczos filter when the dimensions differ.
func fit(src image.Image, size image.Point) *image.NRGBA {
	b := src.Bounds()
	if b.Dx() == size.X && b.Dy() == size.Y {
		return imaging.Clone(src)
	}
	return imaging.Resize(src, size.X, size.Y, imaging.Lanczos)
}

// cleanText NFC-normalises s and collapses runs of whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

func drawBlock(dst *image.NRGBA, face font.Face, b textBlock, fg color.NRGBA, outline bool) {
	for i, line := range b.Lines {
		x, y := b.Xs[i], b.baseline(i)
		if outline {
			for _, off := range outlineOffsets {
				drawString(dst, face, line, x+off.X, y+off.Y, outlineColor)
			}
		}
		drawString(dst, face, line, x, y, fg)
	}
}

func drawString(dst *image.NRGBA, face font.Face, s string, x, baseline int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}
