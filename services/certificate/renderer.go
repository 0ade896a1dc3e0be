// Package certsvc draws grading certificates: a PNG on a bordered canvas,
// its thumbnail, and a single landscape PDF page holding the PNG.
package certsvc

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/trezcool/akademi/core/grading"
)

const (
	// A4 landscape ratio
	Width  = 1600
	Height = 1131

	ThumbWidth = 400
)

var (
	cPaper  = color.RGBA{R: 0xFD, G: 0xFB, B: 0xF5, A: 255}
	cGold   = color.RGBA{R: 0xB8, G: 0x86, B: 0x0B, A: 255}
	cNavy   = color.RGBA{R: 0x1E, G: 0x2A, B: 0x4A, A: 255}
	cGray   = color.RGBA{R: 0x5F, G: 0x63, B: 0x6E, A: 255}
	cAccent = color.RGBA{R: 0x4F, G: 0x46, B: 0xE5, A: 255}
)

type faces struct {
	academy, title, name, body, strong, small font.Face
}

// Renderer implements grading.CertificateRenderer. It is safe for concurrent use.
type Renderer struct {
	fonts *faces
}

var _ grading.CertificateRenderer = (*Renderer)(nil)

func NewRenderer() (*Renderer, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "parsing regular font")
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "parsing bold font")
	}
	italic, err := opentype.Parse(goitalic.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "parsing italic font")
	}

	var faceErr error
	mk := func(f *opentype.Font, size float64) font.Face {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
		if err != nil && faceErr == nil {
			faceErr = err
		}
		return face
	}
	fonts := &faces{
		academy: mk(bold, 30),
		title:   mk(bold, 72),
		name:    mk(bold, 64),
		body:    mk(italic, 30),
		strong:  mk(bold, 40),
		small:   mk(regular, 24),
	}
	if faceErr != nil {
		return nil, errors.Wrap(faceErr, "loading font faces")
	}
	return &Renderer{fonts: fonts}, nil
}

// Draw renders the certificate at full size.
func (r *Renderer) Draw(cert grading.Certificate) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	fill(img, 0, 0, Width, Height, cPaper)

	// double frame
	frame(img, 30, 14, cNavy)
	frame(img, 58, 4, cGold)

	y := 140
	y = r.centered(img, r.fonts.academy, cGold, y, strings.ToUpper(cert.Academy)) + 50
	y = r.centered(img, r.fonts.title, cNavy, y, "Certificate of Completion") + 30
	fill(img, Width/2-120, y, 240, 4, cGold)
	y += 50
	y = r.centered(img, r.fonts.body, cGray, y, "This certifies that") + 30
	y = r.centered(img, r.fonts.name, cAccent, y, cert.StudentName) + 30
	y = r.centered(img, r.fonts.body, cGray, y, "has successfully completed the course") + 24
	for _, line := range wrapLines(r.fonts.strong, cert.Course, Width-400) {
		y = r.centered(img, r.fonts.strong, cNavy, y, line) + 10
	}
	y += 24
	r.centered(img, r.fonts.body, cGray, y, fmt.Sprintf("with grade %s (%s), score %.0f%%", cert.Grade, cert.Remark, cert.Score))

	// footer: date and instructor on the sides, certificate id in the middle
	fy := Height - 200
	left, right := 220, Width-220
	fill(img, left-120, fy, 240, 2, cGray)
	fill(img, right-120, fy, 240, 2, cGray)
	text(img, r.fonts.small, cNavy, left-measure(r.fonts.small, cert.Date.Format("January 2, 2006"))/2, fy+16, cert.Date.Format("January 2, 2006"))
	text(img, r.fonts.small, cGray, left-measure(r.fonts.small, "Date")/2, fy+50, "Date")
	instructor := cert.Instructor
	if instructor == "" {
		instructor = cert.Academy
	}
	text(img, r.fonts.small, cNavy, right-measure(r.fonts.small, instructor)/2, fy+16, instructor)
	text(img, r.fonts.small, cGray, right-measure(r.fonts.small, "Instructor")/2, fy+50, "Instructor")
	r.centered(img, r.fonts.small, cGray, fy+50, "Certificate ID: "+cert.ID)

	return img
}

func (r *Renderer) PNG(cert grading.Certificate, thumbnail bool) ([]byte, error) {
	var img image.Image = r.Draw(cert)
	if thumbnail {
		img = imaging.Resize(img, ThumbWidth, 0, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "encoding certificate png")
	}
	return buf.Bytes(), nil
}

func (r *Renderer) PDF(cert grading.Certificate) ([]byte, error) {
	img, err := r.PNG(cert, false)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Certificate "+cert.ID, true)
	pdf.SetAuthor(cert.Academy, true)
	pdf.SetCreator(cert.Academy, true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(cert.ID, opts, bytes.NewReader(img))
	w, h := pdf.GetPageSize()
	pdf.ImageOptions(cert.ID, 0, 0, w, h, false, opts, 0, "")

	var buf bytes.Buffer
	if err = pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "writing certificate pdf")
	}
	return buf.Bytes(), nil
}

// centered draws one line centered horizontally with its top at y, and returns its bottom.
func (r *Renderer) centered(img *image.RGBA, face font.Face, col color.Color, y int, s string) int {
	text(img, face, col, (Width-measure(face, s))/2, y, s)
	m := face.Metrics()
	return y + m.Ascent.Ceil() + m.Descent.Ceil()
}

func fill(img *image.RGBA, x, y, w, h int, c color.RGBA) {
	draw.Draw(img, image.Rect(x, y, x+w, y+h), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// frame draws a rectangle border of the given thickness, inset from the canvas edges.
func frame(img *image.RGBA, inset, thickness int, c color.RGBA) {
	w, h := Width-2*inset, Height-2*inset
	fill(img, inset, inset, w, thickness, c)
	fill(img, inset, inset+h-thickness, w, thickness, c)
	fill(img, inset, inset, thickness, h, c)
	fill(img, inset+w-thickness, inset, thickness, h, c)
}

func text(img *image.RGBA, face font.Face, col color.Color, x, y int, s string) {
	(&font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: col},
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}).DrawString(s)
}

func measure(face font.Face, s string) int {
	return (&font.Drawer{Face: face}).MeasureString(s).Ceil()
}

func wrapLines(face font.Face, s string, maxW int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		if t := cur + " " + w; measure(face, t) <= maxW {
			cur = t
		} else {
			lines = append(lines, cur)
			cur = w
		}
	}
	return append(lines, cur)
}
