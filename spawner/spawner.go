// Package spawner models the friend markers that the browser scatters over the
// page. Planning is a pure function of the count, the screen and a random
// source; rendering turns a plan into nodes.
//
// The browser side lives in assets/friendAdder.js and follows the same rules.
package spawner

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/ryanhamamura/friendzone/h"
)

const (
	// CookieName is the cookie the marker count is read from.
	CookieName = "friends"

	// MinOffset is the smallest left/top offset a marker is placed at, in pixels.
	MinOffset = 200

	// Label is the text shown inside each marker.
	Label = "😳"
)

// Screen is the drawable area markers are scattered over.
type Screen struct {
	Width  int
	Height int
}

// Marker is one friend placed on the page.
type Marker struct {
	Left  int
	Top   int
	Label string
}

// ParseCount reads the marker count from a cookie string such as
// "a=1; friends=4". Rows are split on "; " and the first row starting with
// "friends=" wins. The value is read like the browser's parseInt: leading
// whitespace and a sign are accepted and parsing stops at the first non-digit,
// so "4abc" and "4.5" both read as 4. No digits, a negative value or an
// overflowing one reads as 0.
func ParseCount(cookies string) int {
	for _, row := range strings.Split(cookies, "; ") {
		if !strings.HasPrefix(row, CookieName+"=") {
			continue
		}
		parts := strings.Split(row, "=")
		return leadingInt(parts[1])
	}
	return 0
}

func leadingInt(v string) int {
	v = strings.TrimLeft(v, " \t\n\r\f\v")
	negative := false
	if v != "" && (v[0] == '+' || v[0] == '-') {
		negative = v[0] == '-'
		v = v[1:]
	}
	end := 0
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == 0 || negative {
		return 0
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0
	}
	return n
}

// Plan places count markers on screen. Each axis is drawn independently as
// max(MinOffset, randInt(dimension) - MinOffset).
func Plan(count int, screen Screen, rnd *rand.Rand) []Marker {
	if count <= 0 {
		return nil
	}
	markers := make([]Marker, 0, count)
	for range count {
		markers = append(markers, Marker{
			Left:  offset(rnd, screen.Width),
			Top:   offset(rnd, screen.Height),
			Label: Label,
		})
	}
	return markers
}

func offset(rnd *rand.Rand, dim int) int {
	drawn := 0
	if dim > 0 {
		drawn = rnd.IntN(dim)
	}
	return max(MinOffset, drawn-MinOffset)
}

// Render turns markers into absolutely positioned nodes.
func Render(markers []Marker) h.H {
	nodes := make([]h.H, 0, len(markers))
	for _, m := range markers {
		nodes = append(nodes, h.Div(
			h.Class("friend-marker"),
			h.Style(position(m)),
			h.Div(h.Class("window-body friend"), h.Text(m.Label)),
		))
	}
	return h.Group(nodes...)
}

func position(m Marker) string {
	return fmt.Sprintf("position: absolute; left: %dpx; top: %dpx; font-size: 30px;", m.Left, m.Top)
}
