// Package art draws the pet in a terminal: image frames become character
// cells and a missing frame falls back to a drawn cat.
package art

import (
	"image"
	"image/color"
	"strings"

	"github.com/sethgrid/deskpet/internal/scheduler"
)

// Cell geometry used to map window pixels onto terminal cells.
const (
	CellWidth  = 8
	CellHeight = 16
)

// ramp runs from faint to dense.
const ramp = " .:-=+*#%@"

// Cell is one sampled terminal cell. Clear cells are left untouched so the
// background shows through.
type Cell struct {
	Color color.RGBA
	Clear bool
}

// Sample reduces img to cols x rows cells, one sample from the center of
// each cell's region. Mostly transparent pixels come back Clear.
func Sample(img image.Image, cols, rows int) [][]Cell {
	if img == nil || cols <= 0 || rows <= 0 {
		return nil
	}
	b := img.Bounds()
	if b.Empty() {
		return nil
	}

	grid := make([][]Cell, rows)
	for cy := range grid {
		grid[cy] = make([]Cell, cols)
		y := b.Min.Y + (2*cy+1)*b.Dy()/(2*rows)
		for cx := range grid[cy] {
			x := b.Min.X + (2*cx+1)*b.Dx()/(2*cols)
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if c.A < 0x40 {
				grid[cy][cx] = Cell{Clear: true}
				continue
			}
			grid[cy][cx] = Cell{Color: unpremultiply(c)}
		}
	}
	return grid
}

func unpremultiply(c color.RGBA) color.RGBA {
	if c.A == 0xff || c.A == 0 {
		return c
	}
	return color.RGBA{
		R: uint8(uint32(c.R) * 0xff / uint32(c.A)),
		G: uint8(uint32(c.G) * 0xff / uint32(c.A)),
		B: uint8(uint32(c.B) * 0xff / uint32(c.A)),
		A: 0xff,
	}
}

// Glyph picks a ramp character for c. Darker pixels get denser glyphs: the
// pet is drawn dark on a light background.
func Glyph(c Cell) rune {
	if c.Clear {
		return ' '
	}
	lum := (299*int(c.Color.R) + 587*int(c.Color.G) + 114*int(c.Color.B)) / 1000
	i := (255 - lum) * (len(ramp) - 1) / 255
	if i == 0 {
		// opaque pixels never vanish
		i = 1
	}
	return rune(ramp[i])
}

// Render returns img as lines of ramp characters.
func Render(img image.Image, cols, rows int) []string {
	grid := Sample(img, cols, rows)
	lines := make([]string, len(grid))
	for y, row := range grid {
		var sb strings.Builder
		for _, c := range row {
			sb.WriteRune(Glyph(c))
		}
		lines[y] = strings.TrimRight(sb.String(), " ")
	}
	return lines
}

// Placeholder is the cat drawn when no frame is available.
func Placeholder(mode scheduler.Mode) string {
	switch mode {
	case scheduler.ModeForceSleeping:
		return getBedtimeCat()
	case scheduler.ModeSleeping:
		return getSleepingCat()
	case scheduler.ModeFreeRoaming:
		return getWalkingCat()
	}
	return getDefaultCat()
}

func getDefaultCat() string {
	return ` /\_/\
( o.o )
 > ^ <`
}

func getSleepingCat() string {
	return ` /\_/\  z
( -.- )
 > ^ <`
}

func getBedtimeCat() string {
	return ` /\_/\ zZ
( u.u )
 > ^ <`
}

func getWalkingCat() string {
	return ` /\_/\
( o.o )
 /   \`
}

// Cells converts a pixel size into terminal cells, at least one each way.
func Cells(width, height int) (cols, rows int) {
	cols, rows = width/CellWidth, height/CellHeight
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}
