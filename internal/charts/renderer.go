package charts

import (
	"math"
	"os"
	"path/filepath"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/google/uuid"
)

// Renderer turns a resolved Series into a standalone chart document in
// the temp directory. The caller owns the file and removes it after
// handing it to storage.
type Renderer struct {
	tmpDir string
}

// NewRenderer creates a Renderer writing into the system temp dir.
func NewRenderer() *Renderer {
	return &Renderer{tmpDir: os.TempDir()}
}

// Render writes the chart and returns the local file path.
func (r *Renderer) Render(s Series) (string, error) {
	path := filepath.Join(r.tmpDir, uuid.NewString()+".html")

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	switch s.Kind {
	case KindBar:
		err = r.renderBar(s, f)
	case KindBox:
		err = r.renderBox(s, f)
	default:
		err = r.renderLine(s, f)
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func (r *Renderer) renderLine(s Series, f *os.File) error {
	line := echarts.NewLine()
	line.SetGlobalOptions(globalOptions(s)...)

	data := make([]opts.LineData, len(s.Y))
	for i, v := range s.Y {
		data[i] = opts.LineData{Value: gapNaN(v)}
	}

	line.SetXAxis(s.X).AddSeries("rides", data)
	if s.Kind == KindArea {
		line.SetSeriesOptions(echarts.WithAreaStyleOpts(opts.AreaStyle{Opacity: 0.4}))
	}
	return line.Render(f)
}

func (r *Renderer) renderBar(s Series, f *os.File) error {
	bar := echarts.NewBar()
	bar.SetGlobalOptions(globalOptions(s)...)

	data := make([]opts.BarData, len(s.Y))
	for i, v := range s.Y {
		data[i] = opts.BarData{Value: v}
	}

	bar.SetXAxis(s.X).AddSeries("rides", data)
	return bar.Render(f)
}

func (r *Renderer) renderBox(s Series, f *os.File) error {
	box := echarts.NewBoxPlot()
	box.SetGlobalOptions(globalOptions(s)...)

	data := make([]opts.BoxPlotData, len(s.Box))
	for i, summary := range s.Box {
		data[i] = opts.BoxPlotData{Value: summary}
	}

	box.SetXAxis(s.X).AddSeries("rides", data)
	return box.Render(f)
}

func globalOptions(s Series) []echarts.GlobalOpts {
	return []echarts.GlobalOpts{
		echarts.WithTitleOpts(opts.Title{Title: s.Title}),
		echarts.WithXAxisOpts(opts.XAxis{Name: s.XLabel}),
		echarts.WithYAxisOpts(opts.YAxis{Name: s.YLabel}),
	}
}

// gapNaN maps a not-yet-filled rolling average onto a series gap.
func gapNaN(v float64) interface{} {
	if math.IsNaN(v) {
		return "-"
	}
	return v
}
