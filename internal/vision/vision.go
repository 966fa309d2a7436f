// Package vision turns camera frames into guidance readings with a
// cheap edge-density heuristic. It is nowhere near real depth sensing,
// but it gives the camera mode honest obstacle behavior: busy scenes
// read as close obstacles and the steer direction points away from the
// more cluttered half of the view.
package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"math"

	"github.com/Suprim-idk/MyEyes-this-should-work-i-hope/internal/navigation"
)

const (
	// edgeThreshold is the Sobel magnitude (|gx|+|gy|) above which a
	// pixel counts as an edge.
	edgeThreshold = 200

	// saturationDensity is the edge density read as a touching-distance
	// obstacle. Anything denser clamps to the minimum distance.
	saturationDensity = 0.18
)

// Profile holds the per-side edge densities extracted from a frame.
// Densities are fractions of interior pixels that are edges.
type Profile struct {
	Left  float64
	Right float64
}

// EdgeProfile computes the edge densities of a JPEG frame using a 3x3
// Sobel operator over the grayscale image.
func EdgeProfile(frame []byte) (Profile, error) {
	img, err := jpeg.Decode(bytes.NewReader(frame))
	if err != nil {
		return Profile{}, fmt.Errorf("failed to decode frame: %w", err)
	}
	return profileOf(img), nil
}

// Reading maps the profile to a guidance reading. The denser half
// hosts the obstacle: its density sets the distance and the steer
// direction points to the other side.
func (p Profile) Reading() navigation.Reading {
	density := math.Max(p.Left, p.Right)

	closeness := density / saturationDensity
	if closeness > 1 {
		closeness = 1
	}
	span := float64(navigation.MaxDistanceCM - navigation.MinDistanceCM)
	distance := navigation.MaxDistanceCM - int(math.Round(closeness*span))

	direction := navigation.DirectionLeft
	if p.Left > p.Right {
		direction = navigation.DirectionRight
	}
	return navigation.Reading{Distance: distance, Direction: direction}
}

// FromJPEG is the composition the camera pipeline uses per frame.
func FromJPEG(frame []byte) (navigation.Reading, error) {
	profile, err := EdgeProfile(frame)
	if err != nil {
		return navigation.Reading{}, err
	}
	return profile.Reading(), nil
}

func profileOf(img image.Image) Profile {
	gray := toGray(img)
	w := gray.Rect.Dx()
	h := gray.Rect.Dy()
	if w < 3 || h < 3 {
		return Profile{}
	}

	half := w / 2
	var leftEdges, rightEdges int
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx, gy := sobelAt(gray, x, y)
			if abs(gx)+abs(gy) >= edgeThreshold {
				if x < half {
					leftEdges++
				} else {
					rightEdges++
				}
			}
		}
	}

	// Interior pixel counts per side, for normalizing densities.
	interiorRows := float64(h - 2)
	leftCols := float64(half - 1)
	rightCols := float64(w - 1 - half)
	if leftCols <= 0 || rightCols <= 0 {
		return Profile{}
	}

	return Profile{
		Left:  float64(leftEdges) / (interiorRows * leftCols),
		Right: float64(rightEdges) / (interiorRows * rightCols),
	}
}

// toGray converts img to grayscale with the origin normalized to (0,0).
func toGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)
	return gray
}

func sobelAt(gray *image.Gray, x, y int) (int, int) {
	s := gray.Stride
	p := gray.Pix
	at := func(xx, yy int) int { return int(p[yy*s+xx]) }

	gx := -at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1) +
		at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)
	gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
		at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
	return gx, gy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
