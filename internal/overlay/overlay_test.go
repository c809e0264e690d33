package overlay

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"coverserver/internal/domain"
	"coverserver/internal/storage"
)

var (
	darkBG  = color.NRGBA{R: 10, G: 10, B: 10, A: 255}
	lightBG = color.NRGBA{R: 245, G: 245, B: 245, A: 255}
)

func newTestEngine(t *testing.T, store Writer) *Engine {
	t.Helper()
	return NewEngine(Options{
		Fonts: NewFontSource("", zerolog.Nop()),
		Store: store,
		Log:   zerolog.Nop(),
	})
}

func TestComposeScenarioDarkBackground(t *testing.T) {
	e := newTestEngine(t, nil)
	src := fill(image.Rect(0, 0, DefaultWidth, DefaultHeight), darkBG)

	out, err := e.Compose(src, "Road Construction of School", "Tender Specialist", image.Pt(DefaultWidth, DefaultHeight))
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	if out.Bounds().Size() != image.Pt(DefaultWidth, DefaultHeight) {
		t.Fatalf("size = %v, want %dx%d", out.Bounds().Size(), DefaultWidth, DefaultHeight)
	}

	faces := e.fonts.Faces(TitleSize, SubtitleSize)
	defer faces.Close()
	layout := computeLayout(faces, "Road Construction of School", "Tender Specialist", DefaultWidth)
	title, sub := layout.Title.Rect(), layout.Subtitle.Rect()
	if title.Overlaps(sub) {
		t.Fatalf("title %v overlaps subtitle %v", title, sub)
	}
	if title.Min.Y != TopMargin {
		t.Fatalf("title top = %d, want %d", title.Min.Y, TopMargin)
	}
	if sub.Min.Y < title.Max.Y+SubtitleGap {
		t.Fatalf("subtitle top = %d, want >= %d", sub.Min.Y, title.Max.Y+SubtitleGap)
	}
	if sub.Max.Y > DefaultHeight/4 {
		t.Fatalf("captions should sit near the top, subtitle ends at %d", sub.Max.Y)
	}
	for name, r := range map[string]image.Rectangle{"title": title, "subtitle": sub} {
		if !hasPixel(out, r, func(c color.NRGBA) bool { return c.R > 200 && c.G > 200 && c.B > 200 }) {
			t.Fatalf("%s region %v has no white pixels", name, r)
		}
	}
	if hasPixel(out, image.Rect(0, sub.Max.Y+10, DefaultWidth, DefaultHeight), func(c color.NRGBA) bool { return c != darkBG }) {
		t.Fatalf("pixels below the captions were modified")
	}
}

func TestComposeLightBackgroundUsesBlack(t *testing.T) {
	e := newTestEngine(t, nil)
	src := fill(image.Rect(0, 0, 620, 400), lightBG)

	out, err := e.Compose(src, "Bridge", "Engineer", image.Pt(620, 400))
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	faces := e.fonts.Faces(TitleSize, SubtitleSize)
	defer faces.Close()
	layout := computeLayout(faces, "Bridge", "Engineer", 620)
	if !hasPixel(out, layout.Title.Rect(), func(c color.NRGBA) bool { return c.R < 30 && c.G < 30 && c.B < 30 }) {
		t.Fatalf("title region has no black pixels")
	}
	if hasPixel(out, layout.Region(), func(c color.NRGBA) bool { return c.R > lightBG.R }) {
		t.Fatalf("light background should not receive white text")
	}
}

func TestComposeWrapsLongTitle(t *testing.T) {
	e := newTestEngine(t, nil)
	faces := e.fonts.Faces(TitleSize, SubtitleSize)
	defer faces.Close()

	titles := []string{
		"Comprehensive Annual Infrastructure Maintenance and Rehabilitation Programme",
		"Supercalifragilisticexpialidocious-antidisestablishmentarianism-floccinaucinihilipilification",
		"Rehabilitasi   Jaringan\tIrigasi  Daerah Kabupaten Sukamaju Tahun Anggaran",
	}
	for _, width := range []int{DefaultWidth, 620, 260} {
		budget := TextBudget(width)
		for _, title := range titles {
			lines, wrapped := wrapTitle(faces.Title, title, budget)
			if !wrapped || len(lines) < 2 {
				t.Fatalf("width %d: %q produced %d lines, want >= 2", width, title, len(lines))
			}
			if w := widest(faces.Title, lines); w > budget {
				t.Fatalf("width %d: widest line %d exceeds budget %d", width, w, budget)
			}
			joined := strings.ReplaceAll(strings.Join(lines, ""), " ", "")
			if want := strings.Join(strings.Fields(title), ""); joined != want {
				t.Fatalf("wrapping lost characters: %q vs %q", joined, want)
			}
		}
	}
}

func TestComposeShortTitleSingleLine(t *testing.T) {
	e := newTestEngine(t, nil)
	faces := e.fonts.Faces(TitleSize, SubtitleSize)
	defer faces.Close()

	lines, wrapped := wrapTitle(faces.Title, "Road Construction", TextBudget(DefaultWidth))
	if wrapped || len(lines) != 1 {
		t.Fatalf("lines = %q, wrapped = %v, want one unwrapped line", lines, wrapped)
	}
}

func TestComposeAlwaysMatchesRequestedSize(t *testing.T) {
	e := newTestEngine(t, nil)
	sources := []image.Image{
		fill(image.Rect(0, 0, 100, 50), darkBG),
		fill(image.Rect(0, 0, 2000, 3000), lightBG),
		fill(image.Rect(0, 0, DefaultWidth, DefaultHeight), darkBG),
	}
	sizes := []image.Point{image.Pt(DefaultWidth, DefaultHeight), image.Pt(620, 400), image.Pt(260, 372), image.Pt(40, 30)}
	for _, src := range sources {
		for _, size := range sizes {
			out, err := e.Compose(src, "Procurement of Office Stationery for the Regional Secretariat", "Procurement Officer", size)
			if err != nil {
				t.Fatalf("Compose(%v -> %v) returned error: %v", src.Bounds().Size(), size, err)
			}
			if got := out.Bounds().Size(); got != size {
				t.Fatalf("Compose(%v -> %v) produced %v", src.Bounds().Size(), size, got)
			}
		}
	}
}

func TestComposeRoundTrip(t *testing.T) {
	e := newTestEngine(t, nil)
	size := image.Pt(DefaultWidth, DefaultHeight)
	src := fill(image.Rect(0, 0, DefaultWidth, DefaultHeight), darkBG)
	const title, subtitle = "Road Construction of School", "Tender Specialist"

	first, err := e.Compose(src, title, subtitle, size)
	if err != nil {
		t.Fatalf("first Compose returned error: %v", err)
	}
	data, err := EncodePNG(first)
	if err != nil {
		t.Fatalf("first EncodePNG returned error: %v", err)
	}
	decoded, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode of own output returned error: %v", err)
	}
	second, err := e.Compose(decoded, title, subtitle, size)
	if err != nil {
		t.Fatalf("second Compose returned error: %v", err)
	}
	data, err = EncodePNG(second)
	if err != nil {
		t.Fatalf("second EncodePNG returned error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("round-trip output is not png: %v", err)
	}
	if img.Bounds().Size() != size {
		t.Fatalf("size = %v, want %v", img.Bounds().Size(), size)
	}
}

func TestComposeEmptyCaptions(t *testing.T) {
	e := newTestEngine(t, nil)
	src := fill(image.Rect(0, 0, 50, 50), darkBG)
	out, err := e.Compose(src, "  ", "", image.Pt(50, 50))
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	if hasPixel(out, out.Bounds(), func(c color.NRGBA) bool { return c != darkBG }) {
		t.Fatalf("empty captions should leave the image untouched")
	}
}

func TestComposeRejectsInvalidCanvas(t *testing.T) {
	e := newTestEngine(t, nil)
	_, err := e.Compose(fill(image.Rect(0, 0, 10, 10), darkBG), "A", "B", image.Pt(0, 10))
	if !errors.Is(err, domain.ErrRender) {
		t.Fatalf("error = %v, want ErrRender", err)
	}
}

func TestFontFallbackWhenFileMissing(t *testing.T) {
	src := NewFontSource(filepath.Join(t.TempDir(), "Arial.ttf"), zerolog.Nop())
	if got := src.Name(); got != "goregular" {
		t.Fatalf("Name = %q, want goregular", got)
	}
	faces := src.Faces(TitleSize, SubtitleSize)
	defer faces.Close()
	if faces.Title == nil || faces.Subtitle == nil {
		t.Fatalf("expected fallback faces")
	}
}

func TestFontFallbackWhenFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.ttf")
	if err := os.WriteFile(path, []byte("not a font"), 0o644); err != nil {
		t.Fatalf("write font: %v", err)
	}
	if got := NewFontSource(path, zerolog.Nop()).Name(); got != "goregular" {
		t.Fatalf("Name = %q, want goregular", got)
	}
}

func TestRenderWritesPNG(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_ = png.Encode(w, fill(image.Rect(0, 0, 300, 400), darkBG))
	}))
	defer srv.Close()

	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	e := newTestEngine(t, store)

	res, err := e.Render(context.Background(), Job{
		SourceURL: srv.URL + "/img.png",
		Title:     "Road Construction of School",
		Subtitle:  "Tender Specialist",
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !regexp.MustCompile(`^output_image_[0-9a-f]{32}\.png$`).MatchString(filepath.Base(res.Path)) {
		t.Fatalf("unexpected file name %q", filepath.Base(res.Path))
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a png: %v", err)
	}
	if got := decoded.Bounds().Size(); got != image.Pt(DefaultWidth, DefaultHeight) {
		t.Fatalf("output size = %v, want %dx%d", got, DefaultWidth, DefaultHeight)
	}
}

func TestRenderJobSizeOverridesDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = png.Encode(w, fill(image.Rect(0, 0, 64, 64), lightBG))
	}))
	defer srv.Close()

	store := &memoryStore{}
	res, err := newTestEngine(t, store).Render(context.Background(), Job{
		SourceURL: srv.URL, Title: "Legacy", Subtitle: "Cover", Width: 620, Height: 400,
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if got := res.Image.Bounds().Size(); got != image.Pt(620, 400) {
		t.Fatalf("size = %v, want 620x400", got)
	}
	if store.writes != 1 {
		t.Fatalf("writes = %d, want 1", store.writes)
	}
}

func TestRenderRetrievalErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		default:
			_, _ = w.Write([]byte("<html>not an image</html>"))
		}
	}))
	defer srv.Close()

	for _, path := range []string{"/missing", "/garbage"} {
		store := &memoryStore{}
		_, err := newTestEngine(t, store).Render(context.Background(), Job{SourceURL: srv.URL + path, Title: "T", Subtitle: "S"})
		if !errors.Is(err, domain.ErrRetrieval) {
			t.Fatalf("%s: error = %v, want ErrRetrieval", path, err)
		}
		if store.writes != 0 {
			t.Fatalf("%s: nothing should be written on failure", path)
		}
	}
}

type memoryStore struct {
	writes int
	last   []byte
}

func (m *memoryStore) WriteUnique(_ context.Context, prefix, ext string, data []byte) (string, error) {
	m.writes++
	m.last = data
	return prefix + "_test" + ext, nil
}

func hasPixel(img *image.NRGBA, r image.Rectangle, match func(color.NRGBA) bool) bool {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if match(img.NRGBAAt(x, y)) {
				return true
			}
		}
	}
	return false
}
