package overlay

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontSource resolves the typeface used for captions. The preferred file is
// tried once per process; when it cannot be read or parsed the embedded Go
// Regular face is used instead and a warning is logged. Resolution never
// fails: the last resort is the fixed basicfont glyph set.
type FontSource struct {
	path string
	log  zerolog.Logger

	once     sync.Once
	typeface *opentype.Font
	name     string
}

// NewFontSource returns a FontSource preferring the font file at path. An
// empty path selects the embedded face without a warning.
func NewFontSource(path string, log zerolog.Logger) *FontSource {
	return &FontSource{path: path, log: log}
}

// Name reports which typeface was resolved.
func (s *FontSource) Name() string {
	s.resolve()
	return s.name
}

func (s *FontSource) resolve() {
	s.once.Do(func() {
		if s.path != "" {
			parsed, err := loadTypeface(s.path)
			if err == nil {
				s.typeface, s.name = parsed, filepath.Base(s.path)
				return
			}
			s.log.Warn().Err(err).Str("font", s.path).Msg("falling back to default font")
		}
		parsed, err := opentype.Parse(goregular.TTF)
		if err != nil {
			s.log.Warn().Err(err).Msg("embedded font unavailable, using basic glyphs")
			s.name = "basicfont"
			return
		}
		s.typeface, s.name = parsed, "goregular"
	})
}

func loadTypeface(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return parsed, nil
}

// Faces holds the title and subtitle faces for one render. Faces are not safe
// for concurrent use, so each render builds its own set.
type Faces struct {
	Title    font.Face
	Subtitle font.Face
}

// Faces builds faces at the given pixel sizes (72 DPI).
func (s *FontSource) Faces(titleSize, subtitleSize float64) *Faces {
	s.resolve()
	return &Faces{
		Title:    s.newFace(titleSize),
		Subtitle: s.newFace(subtitleSize),
	}
}

func (s *FontSource) newFace(size float64) font.Face {
	if s.typeface == nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(s.typeface, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		s.log.Warn().Err(err).Float64("size", size).Msg("create font face failed, using basic glyphs")
		return basicfont.Face7x13
	}
	return face
}

// Close releases both faces.
func (f *Faces) Close() {
	if f == nil {
		return
	}
	for _, face := range []font.Face{f.Title, f.Subtitle} {
		if face != nil {
			_ = face.Close()
		}
	}
}
