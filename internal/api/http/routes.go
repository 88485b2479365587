package httpapi

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"bike-share-predict/internal/charts"
	"bike-share-predict/internal/features"
	"bike-share-predict/internal/predict"
	"bike-share-predict/internal/rides"
	"bike-share-predict/internal/storage"
)

// Deps are the collaborators the HTTP handlers are wired over.
type Deps struct {
	Table   *rides.Table
	Builder *features.Builder
	Model   *predict.Client
	Charts  *charts.Service
	Data    storage.Gateway
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Post("/predict", func(c *fiber.Ctx) error {
		in, err := parsePredictForm(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		frame, err := deps.Builder.FromForm(in)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return respondPrediction(c, deps, frame)
	})

	v1.Get("/predict/forecast", func(c *fiber.Ctx) error {
		day := 1
		if dayStr := c.Query("day"); dayStr != "" {
			n, err := strconv.Atoi(dayStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "day must be an integer")
			}
			day = n
		}

		frame, err := deps.Builder.FromForecast(c.Context(), day)
		if err != nil {
			if errors.Is(err, features.ErrRange) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather forecast")
		}

		return respondPrediction(c, deps, frame)
	})

	v1.Get("/data", func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		// The table does not clamp; the caller does.
		if page < 1 {
			page = 1
		}
		if max := deps.Table.MaxPage(); page > max {
			page = max
		}

		return c.JSON(fiber.Map{
			"page":    page,
			"maxPage": deps.Table.MaxPage(),
			"columns": rides.DisplayColumns,
			"rows":    deps.Table.Page(page),
		})
	})

	v1.Post("/data/update", func(c *fiber.Ctx) error {
		ts, values, err := parseUpdateForm(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := deps.Table.Update(ts, values); err != nil {
			if errors.Is(err, rides.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(fiber.Map{"updated": ts})
	})

	v1.Post("/data/save", func(c *fiber.Ctx) error {
		name := fmt.Sprintf("updated-ride-data-%s.csv", time.Now().Format("2006-01-02T15.04.05"))
		path := filepath.Join(os.TempDir(), name)

		log.Printf("saving updated data as file %s", name)
		if err := deps.Table.ExportFile(path); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to export ride data")
		}
		defer os.Remove(path)

		location, err := deps.Data.Upload(c.Context(), path)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to store exported data")
		}

		return c.JSON(fiber.Map{"location": location})
	})

	v1.Get("/plot", func(c *fiber.Ctx) error {
		typ, subtype, url, err := deps.Charts.Plot(c.Context(), c.Query("type"), c.Query("subtype"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render chart")
		}

		return c.JSON(fiber.Map{
			"type":    typ,
			"subtype": subtype,
			"img_url": url,
		})
	})
}

func respondPrediction(c *fiber.Ctx, deps Deps, frame features.Frame) error {
	raw, err := deps.Model.Predict(c.Context(), frame)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "inference service unavailable")
	}

	results, err := predict.Format(frame.Hours(), raw)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	predict.PredictionsServed.Inc()

	imgURL, err := deps.Charts.PlotPrediction(c.Context(), frame.Hours(), results.Counts())
	if err != nil {
		log.Printf("prediction plot failed: %v", err)
		// The prediction is still good without its chart.
		imgURL = ""
	}

	return c.JSON(fiber.Map{
		"results": results.Hours,
		"sum":     results.Sum,
		"img_url": imgURL,
	})
}

func parsePredictForm(c *fiber.Ctx) (features.FormInput, error) {
	in := features.FormInput{
		Date:    c.FormValue("date"),
		Holiday: c.FormValue("holiday"),
	}

	fields := []struct {
		name string
		dst  *float64
	}{
		{"hitemp", &in.HiTemp},
		{"lotemp", &in.LoTemp},
		{"wind", &in.Wind},
		{"precip", &in.Precip},
		{"snow", &in.Snow},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(c.FormValue(f.name), 64)
		if err != nil {
			return in, fmt.Errorf("bad %s value", f.name)
		}
		*f.dst = v
	}
	return in, nil
}

func parseUpdateForm(c *fiber.Ctx) (time.Time, []float64, error) {
	ts, err := time.Parse("2006-01-02 15:04:05", c.FormValue("timestamp"))
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("bad timestamp value")
	}

	values := make([]float64, len(rides.DataColumns))
	for i, col := range rides.DataColumns {
		v, err := strconv.ParseFloat(c.FormValue(col), 64)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("bad %s value", col)
		}
		values[i] = v
	}
	return ts, values, nil
}
