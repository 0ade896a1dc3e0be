// Package chart maps numeric series onto a fixed view box and draws them as static SVG.
package chart

import (
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core"
)

type Kind string

const (
	Line Kind = "line"
	Area Kind = "area"
	Pie  Kind = "pie"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(core.CleanString(s, true /* lower */)); k {
	case "":
		return Line, nil
	case Line, Area, Pie:
		return k, nil
	}
	return "", core.NewValidationError(nil, core.FieldError{Field: "kind", Error: "kind must be one of [line area pie]"})
}

// Box is the view box. Padding is kept empty on every side.
type Box struct {
	Width   float64
	Height  float64
	Padding float64
}

var DefaultBox = Box{Width: 600, Height: 240, Padding: 20}

func (b Box) innerWidth() float64  { return b.Width - 2*b.Padding }
func (b Box) innerHeight() float64 { return b.Height - 2*b.Padding }
func (b Box) bottom() float64      { return b.Height - b.Padding }

type Point struct {
	X, Y float64
}

// Points spreads the values evenly across the box, the minimum at the bottom and the maximum at the top.
// A flat series (or a single value) sits on the middle line.
func Points(values []float64, box Box) []Point {
	if len(values) == 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	pts := make([]Point, len(values))
	for i, v := range values {
		var p Point
		if len(values) == 1 {
			p.X = box.Padding + box.innerWidth()/2
		} else {
			p.X = box.Padding + float64(i)*box.innerWidth()/float64(len(values)-1)
		}
		if hi == lo {
			p.Y = box.Padding + box.innerHeight()/2
		} else {
			p.Y = box.Padding + (hi-v)/(hi-lo)*box.innerHeight()
		}
		pts[i] = p
	}
	return pts
}

// LinePath connects the points: "M x,y L x,y ...".
func LinePath(pts []Point) string {
	if len(pts) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, p := range pts {
		if i == 0 {
			sb.WriteString("M ")
		} else {
			sb.WriteString(" L ")
		}
		sb.WriteString(coords(p.X, p.Y))
	}
	return sb.String()
}

// AreaPath closes the line down to the bottom of the box.
func AreaPath(pts []Point, box Box) string {
	if len(pts) == 0 {
		return ""
	}
	first, last := pts[0], pts[len(pts)-1]
	return LinePath(pts) +
		" L " + coords(last.X, box.bottom()) +
		" L " + coords(first.X, box.bottom()) +
		" Z"
}

type Slice struct {
	Label   string
	Value   float64
	Percent float64
	Path    string
	Color   string
}

var Palette = []string{"#4f46e5", "#10b981", "#f59e0b", "#ef4444", "#06b6d4", "#8b5cf6", "#ec4899", "#64748b"}

// Slices cuts a pie centered on (cx, cy), clockwise from 12 o'clock. Non-positive values get no slice.
func Slices(labels []string, values []float64, cx, cy, r float64) []Slice {
	var total float64
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}
	if total == 0 {
		return nil
	}

	var (
		slices []Slice
		angle  = -math.Pi / 2
	)
	for i, v := range values {
		if v <= 0 {
			continue
		}
		frac := v / total
		end := angle + frac*2*math.Pi
		s := Slice{
			Value:   v,
			Percent: math.Round(frac*10000) / 100,
			Color:   Palette[len(slices)%len(Palette)],
		}
		if i < len(labels) {
			s.Label = labels[i]
		}
		if frac >= 1 {
			// an arc cannot start and end on the same point: draw two halves
			s.Path = fmt.Sprintf("M %s A %s 0 1 1 %s A %s 0 1 1 %s Z",
				coords(cx, cy-r), coords(r, r), coords(cx, cy+r), coords(r, r), coords(cx, cy-r))
		} else {
			large := 0
			if frac > 0.5 {
				large = 1
			}
			s.Path = fmt.Sprintf("M %s L %s A %s 0 %d 1 %s Z",
				coords(cx, cy),
				coords(cx+r*math.Cos(angle), cy+r*math.Sin(angle)),
				coords(r, r),
				large,
				coords(cx+r*math.Cos(end), cy+r*math.Sin(end)))
		}
		slices = append(slices, s)
		angle = end
	}
	return slices
}

// Render writes the series as a standalone SVG document.
func Render(w io.Writer, kind Kind, title string, labels []string, values []float64, box Box) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`,
		num(box.Width), num(box.Height), num(box.Width), num(box.Height))
	if title != "" {
		fmt.Fprintf(&sb, "<title>%s</title>", html.EscapeString(title))
	}

	switch kind {
	case Pie:
		r := math.Min(box.innerWidth(), box.innerHeight()) / 2
		cx, cy := box.Padding+r, box.Height/2
		for i, s := range Slices(labels, values, cx, cy, r) {
			fmt.Fprintf(&sb, `<path d="%s" fill="%s"/>`, s.Path, s.Color)
			fmt.Fprintf(&sb, `<text x="%s" y="%s" font-size="12">%s (%s%%)</text>`,
				num(cx+r+box.Padding), num(box.Padding+float64(i+1)*16), html.EscapeString(s.Label), num(s.Percent))
		}
	default:
		pts := Points(values, box)
		if kind == Area {
			fmt.Fprintf(&sb, `<path d="%s" fill="%s" fill-opacity="0.2" stroke="none"/>`, AreaPath(pts, box), Palette[0])
		}
		fmt.Fprintf(&sb, `<path d="%s" fill="none" stroke="%s" stroke-width="2"/>`, LinePath(pts), Palette[0])
		for i, p := range pts {
			if i < len(labels) {
				fmt.Fprintf(&sb, `<text x="%s" y="%s" font-size="10" text-anchor="middle">%s</text>`,
					num(p.X), num(box.Height-4), html.EscapeString(labels[i]))
			}
		}
	}
	sb.WriteString("</svg>")

	_, err := io.WriteString(w, sb.String())
	return errors.Wrap(err, "writing svg")
}

func coords(x, y float64) string {
	return num(x) + "," + num(y)
}

// num formats with at most 2 decimals, without trailing zeros.
func num(x float64) string {
	s := fmt.Sprintf("%.2f", x)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}
