// Package render exports comparison runs as image artifacts: an
// animated GIF of both pendulums and an SVG tip trace.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/shadyrajab/chaos/internal/pendulum"
)

var (
	bgColor        = color.RGBA{R: 250, G: 250, B: 250, A: 255}
	baselineColor  = color.RGBA{R: 0, G: 90, B: 200, A: 255}
	perturbedColor = color.RGBA{R: 210, G: 40, B: 40, A: 255}

	framePalette = color.Palette{
		bgColor,
		color.Black,
		baselineColor,
		perturbedColor,
		color.RGBA{R: 128, G: 128, B: 128, A: 255},
		color.RGBA{R: 190, G: 190, B: 190, A: 255},
	}
)

type GIFOptions struct {
	// Size is the frame width and height in pixels.
	Size int

	// Stride renders every Stride-th sample. 1 renders all of them.
	Stride int

	// Reach sets the plotted world half-width. Zero fits L1+L2 plus a
	// margin.
	Reach float64
}

func DefaultGIFOptions() GIFOptions {
	return GIFOptions{Size: 420, Stride: 2}
}

// EncodeGIF draws both trajectories frame by frame (pivot→m1→m2 rods
// with a time-stamp title) and writes a looping animation.
func EncodeGIF(w io.Writer, params pendulum.Params, baseline, perturbed []pendulum.Frame, times []float64, opts GIFOptions) error {
	n := len(baseline)
	if len(perturbed) < n {
		n = len(perturbed)
	}
	if len(times) < n {
		n = len(times)
	}
	if n == 0 {
		return fmt.Errorf("render: no frames to encode")
	}
	if opts.Size <= 0 {
		opts.Size = DefaultGIFOptions().Size
	}
	if opts.Stride <= 0 {
		opts.Stride = 1
	}
	reach := opts.Reach
	if reach <= 0 {
		reach = params.Reach() * 1.1
	}

	delay := 4 // centiseconds per frame
	if n > 1 {
		delay = int((times[1] - times[0]) * float64(opts.Stride) * 100)
		if delay < 2 {
			delay = 2
		}
	}

	anim := gif.GIF{LoopCount: 0}
	for i := 0; i < n; i += opts.Stride {
		frame, err := drawFrame(baseline[i], perturbed[i], times[i], reach, opts.Size)
		if err != nil {
			return err
		}
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}

	return gif.EncodeAll(w, &anim)
}

// SaveGIF is EncodeGIF to a file path.
func SaveGIF(path string, params pendulum.Params, baseline, perturbed []pendulum.Frame, times []float64, opts GIFOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeGIF(f, params, baseline, perturbed, times, opts)
}

func drawFrame(base, pert pendulum.Frame, t, reach float64, size int) (*image.Paletted, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("t = %6.2f s", t)
	p.X.Min, p.X.Max = -reach, reach
	p.Y.Min, p.Y.Max = -reach, reach
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	if err := addRods(p, pert, perturbedColor); err != nil {
		return nil, err
	}
	if err := addRods(p, base, baselineColor); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(bgColor), image.Point{}, draw.Src)

	canvas := vgimg.NewWith(vgimg.UseImage(img))
	p.Draw(vgdraw.New(canvas))

	paletted := image.NewPaletted(img.Bounds(), framePalette)
	draw.Draw(paletted, paletted.Bounds(), img, image.Point{}, draw.Src)
	return paletted, nil
}

func addRods(p *plot.Plot, f pendulum.Frame, c color.Color) error {
	xys := plotter.XYs{
		{X: 0, Y: 0},
		{X: f.X1, Y: f.Y1},
		{X: f.X2, Y: f.Y2},
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	line.Color = c
	line.Width = vg.Points(2)

	bobs, err := plotter.NewScatter(xys[1:])
	if err != nil {
		return err
	}
	bobs.GlyphStyle.Color = c
	bobs.GlyphStyle.Radius = vg.Points(4)
	bobs.GlyphStyle.Shape = vgdraw.CircleGlyph{}

	p.Add(line, bobs)
	return nil
}
