package charts

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"bike-share-predict/internal/rides"
	"bike-share-predict/internal/storage"
)

var chartsRendered = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bikeshare_charts_rendered_total",
	Help: "Total number of chart images rendered, by chart type.",
}, []string{"type"})

// Service resolves chart requests against the ride table, renders them
// and publishes the image through the storage gateway.
type Service struct {
	table    *rides.Table
	renderer *Renderer
	images   storage.Gateway
}

// NewService wires the chart pipeline.
func NewService(table *rides.Table, renderer *Renderer, images storage.Gateway) *Service {
	return &Service{table: table, renderer: renderer, images: images}
}

// Plot resolves the selector pair (with default substitution), renders
// the chart and returns the normalized selectors plus the image URL.
func (s *Service) Plot(ctx context.Context, typ, subtype string) (string, string, string, error) {
	typ, subtype = Normalize(typ, subtype)
	log.Printf("creating plot for type: %s and subtype: %s", typ, subtype)

	url, err := s.publish(ctx, Resolve(s.table, typ, subtype))
	if err != nil {
		return typ, subtype, "", err
	}
	chartsRendered.WithLabelValues(typ).Inc()
	return typ, subtype, url, nil
}

// PlotPrediction renders the per-hour prediction chart.
func (s *Service) PlotPrediction(ctx context.Context, hours []int, counts []int) (string, error) {
	series := Series{
		Title:  "Predicted Ride Count per Hour",
		XLabel: "Hour",
		YLabel: "Ride Count",
		Kind:   KindLine,
		Ticks:  ticks(0, 23, 4),
	}
	for i, hour := range hours {
		series.X = append(series.X, strconv.Itoa(hour))
		series.Y = append(series.Y, float64(counts[i]))
	}

	url, err := s.publish(ctx, series)
	if err != nil {
		return "", err
	}
	chartsRendered.WithLabelValues("prediction").Inc()
	return url, nil
}

func (s *Service) publish(ctx context.Context, series Series) (string, error) {
	path, err := s.renderer.Render(series)
	if err != nil {
		return "", err
	}
	defer os.Remove(path)

	return s.images.Upload(ctx, path)
}
