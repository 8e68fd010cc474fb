package viz

import (
	"bytes"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

type PlotOptions func(p *plot.Plot)

var (
	foreground   color.Color = color.White
	markerColor              = color.RGBA{R: 255, G: 64, B: 64, A: 255}
	markerDashes             = []vg.Length{vg.Points(4), vg.Points(4)}
)

// newPlot returns a plot on a black background with a grid.
func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.BackgroundColor = color.Black
	p.Title.Text = title
	p.Title.TextStyle.Color = foreground
	p.Legend.TextStyle.Color = foreground
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	for _, axis := range []*plot.Axis{&p.X, &p.Y} {
		axis.Color = foreground
		axis.Label.TextStyle.Color = foreground
		axis.Tick.Color = foreground
		axis.Tick.Label.Color = foreground
	}

	p.Add(plotter.NewGrid())
	return p
}

// addVerticalLines draws a dashed marker at each x from yMin to yMax.
func addVerticalLines(p *plot.Plot, xs []float64, yMin, yMax float64) error {
	for _, x := range xs {
		line, err := plotter.NewLine(plotter.XYs{{X: x, Y: yMin}, {X: x, Y: yMax}})
		if err != nil {
			return err
		}
		line.Color = markerColor
		line.Dashes = markerDashes
		p.Add(line)
	}
	return nil
}

func render(name string, p *plot.Plot) *ImageContainer {
	var imageData bytes.Buffer
	w, err := p.WriterTo(8*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		panic(err)
	}
	w.WriteTo(&imageData)
	return &ImageContainer{name: name, data: imageData.Bytes()}
}

func to64(c []float32) []float64 {
	ret := make([]float64, len(c))
	for i := 0; i < len(c); i++ {
		ret[i] = float64(c[i])
	}
	return ret
}
