package overlay

import (
	"image"
	"strings"

	"golang.org/x/image/font"
)

const (
	TitleSize    = 48
	SubtitleSize = 24
	TopMargin    = 50
	SubtitleGap  = 10
	LineSpacing  = 4
	WrapColumns  = 30
)

// TextBudget is the horizontal space available for captions on a canvas of
// the given width: 780 px on the default 864 px canvas, with equal margins.
func TextBudget(canvasWidth int) int {
	return canvasWidth * 65 / 72
}

// textBlock is a measured, positioned run of lines drawn with one face.
type textBlock struct {
	Lines      []string
	Xs         []int
	Top        int
	Width      int
	Height     int
	LineHeight int
	Ascent     int
	Left       int
}

// Rect is the block's bounding box on the canvas.
func (b textBlock) Rect() image.Rectangle {
	if len(b.Lines) == 0 {
		return image.Rectangle{}
	}
	return image.Rect(b.Left, b.Top, b.Left+b.Width, b.Top+b.Height)
}

// baseline returns the baseline y for line i.
func (b textBlock) baseline(i int) int {
	return b.Top + i*(b.LineHeight+LineSpacing) + b.Ascent
}

// Layout places the title and subtitle on a canvas.
type Layout struct {
	Title    textBlock
	Subtitle textBlock
	Wrapped  bool
}

// Region is the area whose background decides the caption colour.
func (l Layout) Region() image.Rectangle {
	return l.Title.Rect().Union(l.Subtitle.Rect())
}

func computeLayout(faces *Faces, title, subtitle string, canvasWidth int) Layout {
	budget := TextBudget(canvasWidth)
	margin := (canvasWidth - budget) / 2

	titleLines, wrapped := wrapTitle(faces.Title, title, budget)
	var subLines []string
	if subtitle != "" {
		subLines = []string{subtitle}
	}

	t := measureBlock(faces.Title, titleLines, margin, budget, TopMargin)
	s := measureBlock(faces.Subtitle, subLines, margin, budget, TopMargin+t.Height+SubtitleGap)
	return Layout{Title: t, Subtitle: s, Wrapped: wrapped}
}

// measureBlock centres every line, and the block as a whole, inside the
// budget starting at margin.
func measureBlock(face font.Face, lines []string, margin, budget, top int) textBlock {
	m := face.Metrics()
	b := textBlock{
		Lines:      lines,
		Top:        top,
		Ascent:     m.Ascent.Ceil(),
		LineHeight: (m.Ascent + m.Descent).Ceil(),
	}
	if len(lines) == 0 {
		return b
	}
	widths := make([]int, len(lines))
	for i, line := range lines {
		widths[i] = font.MeasureString(face, line).Ceil()
		if widths[i] > b.Width {
			b.Width = widths[i]
		}
	}
	b.Xs = make([]int, len(lines))
	for i, w := range widths {
		b.Xs[i] = margin + (budget-w)/2
	}
	b.Left = margin + (budget-b.Width)/2
	b.Height = len(lines)*b.LineHeight + (len(lines)-1)*LineSpacing
	return b
}

// wrapTitle keeps a title that fits the budget on one line. Otherwise it
// wraps at WrapColumns characters, and when a wrapped line is still too wide
// it wraps by measured width instead, so the result always has at least two
// lines.
func wrapTitle(face font.Face, title string, budget int) ([]string, bool) {
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return nil, false
	}
	if font.MeasureString(face, title).Ceil() <= budget {
		return []string{title}, false
	}
	lines := wrapColumns(title, WrapColumns)
	if len(lines) < 2 || widest(face, lines) > budget {
		lines = wrapPixels(face, title, budget)
	}
	return lines, true
}

func widest(face font.Face, lines []string) int {
	max := 0
	for _, line := range lines {
		if w := font.MeasureString(face, line).Ceil(); w > max {
			max = w
		}
	}
	return max
}

// wrapColumns greedily packs words into lines of at most limit characters.
// Words longer than limit are split.
func wrapColumns(text string, limit int) []string {
	fits := func(line string) bool { return len([]rune(line)) <= limit }
	split := func(word string) []string { return chunkRunes(word, limit) }
	return greedyWrap(text, fits, split)
}

// wrapPixels greedily packs words into lines no wider than budget pixels.
// Words wider than budget are split between runes.
func wrapPixels(face font.Face, text string, budget int) []string {
	fits := func(line string) bool { return font.MeasureString(face, line).Ceil() <= budget }
	split := func(word string) []string {
		var parts []string
		var cur []rune
		for _, r := range word {
			next := append(cur, r)
			if len(cur) > 0 && !fits(string(next)) {
				parts = append(parts, string(cur))
				next = []rune{r}
			}
			cur = next
		}
		if len(cur) > 0 {
			parts = append(parts, string(cur))
		}
		return parts
	}
	return greedyWrap(text, fits, split)
}

func greedyWrap(text string, fits func(string) bool, split func(string) []string) []string {
	var lines []string
	cur := ""
	for _, word := range strings.Fields(text) {
		if cur != "" && fits(cur+" "+word) {
			cur += " " + word
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
			cur = ""
		}
		if fits(word) {
			cur = word
			continue
		}
		parts := split(word)
		lines = append(lines, parts[:len(parts)-1]...)
		cur = parts[len(parts)-1]
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func chunkRunes(word string, size int) []string {
	runes := []rune(word)
	var out []string
	for len(runes) > size {
		out = append(out, string(runes[:size]))
		runes = runes[size:]
	}
	return append(out, string(runes))
}
