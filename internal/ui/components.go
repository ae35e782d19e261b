package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/olivier-w/reelswipe/internal/deck"
	"github.com/olivier-w/reelswipe/internal/motion"
)

const (
	cardWidth     = 36
	cardHeight    = 15
	minCardWidth  = 16
	minCardHeight = 7
	maxTitleLines = 3
)

// continuation marks the second column of a double-width rune.
const continuation rune = -1

type cell struct {
	r     rune
	style cellStyle
}

// canvas is a fixed grid of styled terminal cells. Writes outside the grid
// are dropped.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	w, h = max(w, 0), max(h, 0)
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i].r = ' '
	}
	return c
}

func (c *canvas) set(x, y int, r rune, s cellStyle) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = cell{r: r, style: s}
}

func (c *canvas) text(x, y int, s string, st cellStyle) {
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		c.set(x, y, r, st)
		if rw == 2 {
			c.set(x+1, y, continuation, st)
		}
		x += rw
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	row := make([]cell, c.w)
	for y := 0; y < c.h; y++ {
		copy(row, c.cells[y*c.w:(y+1)*c.w])
		fixWide(row)
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].style == row[start].style {
				continue
			}
			b.WriteString(renderRun(row[start:x]))
			start = x
		}
		if y < c.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// fixWide blanks double-width runes that lost one of their halves to
// clipping or overdraw.
func fixWide(row []cell) {
	for x := range row {
		switch {
		case row[x].r == continuation:
			if x == 0 || runewidth.RuneWidth(row[x-1].r) != 2 {
				row[x].r = ' '
			}
		case runewidth.RuneWidth(row[x].r) == 2:
			if x == len(row)-1 || row[x+1].r != continuation {
				row[x].r = ' '
			}
		}
	}
}

func renderRun(run []cell) string {
	var sb strings.Builder
	for _, c := range run {
		if c.r != continuation {
			sb.WriteRune(c.r)
		}
	}
	st, ok := cellStyles[run[0].style]
	if !ok {
		return sb.String()
	}
	return st.Render(sb.String())
}

// geometry places the resting card inside the stage, in cells.
type geometry struct {
	x, y         int
	w, h         int
	cellW, cellH float64
}

func layoutCard(stageW, stageH int, cellW, cellH float64) geometry {
	w := max(min(cardWidth, stageW-4), minCardWidth)
	h := max(min(cardHeight, stageH-2), minCardHeight)
	return geometry{
		x:     (stageW - w) / 2,
		y:     (stageH - h) / 2,
		w:     w,
		h:     h,
		cellW: cellW,
		cellH: cellH,
	}
}

func (g geometry) contains(col, row int) bool {
	return col >= g.x && col < g.x+g.w && row >= g.y && row < g.y+g.h
}

type faceLine struct {
	text  string
	style cellStyle
}

// cardFace is what a card shows.
type cardFace struct {
	movie deck.Movie
	stamp deck.Verdict
	back  bool
}

func (f cardFace) lines(width int) []faceLine {
	if width <= 0 {
		return nil
	}
	title := styleTitle
	meta := styleMeta
	if f.back {
		title, meta = styleBackCard, styleBackCard
	}

	out := []faceLine{{}, {}}
	for _, l := range wrap(f.movie.Title, width, maxTitleLines) {
		out = append(out, faceLine{text: l, style: title})
	}
	if f.back {
		return out
	}
	out = append(out, faceLine{})

	var facts []string
	if f.movie.Year > 0 {
		facts = append(facts, fmt.Sprintf("%d", f.movie.Year))
	}
	if f.movie.Rating > 0 {
		facts = append(facts, fmt.Sprintf("★ %.1f", f.movie.Rating))
	}
	if len(facts) > 0 {
		out = append(out, faceLine{text: strings.Join(facts, " · "), style: meta})
	}
	if len(f.movie.Genres) > 0 {
		g := runewidth.Truncate(strings.Join(f.movie.Genres, ", "), width, "…")
		out = append(out, faceLine{text: g, style: meta})
	}
	return out
}

// drawCard paints a card displaced by t. Rotation is approximated by
// shearing rows horizontally around the card's center row.
func (c *canvas) drawCard(g geometry, t motion.Transform, face cardFace) {
	ox := g.x + int(math.Round(t.X/g.cellW))
	oy := g.y + int(math.Round(t.Y/g.cellH))
	shear := math.Tan(t.Rot*math.Pi/180) * g.cellH / g.cellW
	mid := float64(g.h-1) / 2

	frame := styleCard
	if face.back {
		frame = styleBackCard
	}
	inner := g.w - 4
	content := face.lines(inner)

	for row := 0; row < g.h; row++ {
		x0 := ox + int(math.Round(-(float64(row)-mid)*shear))
		y := oy + row
		left, fill, right := '│', ' ', '│'
		switch row {
		case 0:
			left, fill, right = '╭', '─', '╮'
		case g.h - 1:
			left, fill, right = '╰', '─', '╯'
		}
		c.set(x0, y, left, frame)
		for x := 1; x < g.w-1; x++ {
			c.set(x0+x, y, fill, frame)
		}
		c.set(x0+g.w-1, y, right, frame)

		if i := row - 1; row > 0 && row < g.h-1 && i < len(content) && content[i].text != "" {
			l := content[i]
			pad := (inner - runewidth.StringWidth(l.text)) / 2
			c.text(x0+2+max(pad, 0), y, l.text, l.style)
		}
		if row == 1 && face.stamp != "" {
			c.drawStamp(x0, y, g.w, face.stamp)
		}
	}
}

func (c *canvas) drawStamp(x0, y, width int, v deck.Verdict) {
	label := " " + v.Label() + " "
	lw := runewidth.StringWidth(label)
	var x int
	switch v {
	case deck.Liked:
		x = x0 + 2
	case deck.Disliked:
		x = x0 + width - 2 - lw
	default:
		x = x0 + (width-lw)/2
	}
	c.text(x, y, label, stampStyle(v))
}

func stampStyle(v deck.Verdict) cellStyle {
	switch v {
	case deck.Liked:
		return styleLike
	case deck.Disliked:
		return styleNope
	case deck.NotSeen:
		return styleNotSeen
	default:
		return styleSkip
	}
}

// wrap breaks s into at most n lines no wider than width.
func wrap(s string, width, n int) []string {
	var lines []string
	cur := ""
	for _, word := range strings.Fields(s) {
		word = runewidth.Truncate(word, width, "…")
		switch {
		case cur == "":
			cur = word
		case runewidth.StringWidth(cur)+1+runewidth.StringWidth(word) <= width:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	if len(lines) > n {
		lines = lines[:n]
		lines[n-1] = runewidth.Truncate(lines[n-1]+" …", width, "…")
	}
	return lines
}

func renderProgressBar(ratio float64, width int) string {
	if width < 10 {
		width = 10
	}
	ratio = math.Max(0, math.Min(1, ratio))
	filled := int(ratio * float64(width))
	return strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
}
