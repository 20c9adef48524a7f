// Package monitor models detected displays and the geometry derived from them.
package monitor

import (
	"fmt"
	"image"
	"math"
)

// Monitor describes one detected display in the shared virtual desktop
// coordinate space. Offsets may be negative; width and height are strictly
// positive for any monitor produced by enumeration.
type Monitor struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Primary bool   `json:"primary"`
}

// SimplifyRatio reduces width:height by their GCD and formats it as "W:H".
// The second return value is false when either dimension is zero.
func SimplifyRatio(width, height int) (string, bool) {
	if width <= 0 || height <= 0 {
		return "", false
	}
	g := gcd(width, height)
	return fmt.Sprintf("%d:%d", width/g, height/g), true
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// AspectRatio returns the reduced "W:H" form of the monitor's dimensions.
// The second return value is false when either dimension is zero.
func (m Monitor) AspectRatio() (string, bool) {
	return SimplifyRatio(m.Width, m.Height)
}

// AspectRatioFloat returns width/height rounded to 4 decimal places.
// The second return value is false when the height is zero.
func (m Monitor) AspectRatioFloat() (float64, bool) {
	if m.Height == 0 {
		return 0, false
	}
	v := float64(m.Width) / float64(m.Height)
	return math.Round(v*10000) / 10000, true
}

// Bounds returns the monitor's rectangle in virtual desktop coordinates.
func (m Monitor) Bounds() image.Rectangle {
	return image.Rect(m.X, m.Y, m.X+m.Width, m.Y+m.Height)
}

func (m Monitor) String() string {
	ar, _ := m.AspectRatio()
	return fmt.Sprintf("%s %dx%d+%d+%d (%s)", m.Name, m.Width, m.Height, m.X, m.Y, ar)
}

// BoundingBox computes the virtual-desktop rectangle spanning all monitors.
// Returns an error for an empty monitor list since a zero-monitor desktop has
// no meaningful geometry.
func BoundingBox(monitors []Monitor) (image.Rectangle, error) {
	if len(monitors) == 0 {
		return image.Rectangle{}, fmt.Errorf("no monitors to bound")
	}
	box := monitors[0].Bounds()
	for _, m := range monitors[1:] {
		box = box.Union(m.Bounds())
	}
	return box, nil
}
