package httpapi

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/dronitor/internal/readings"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app. Every route is
// gated on the configured API key set.
func RegisterRoutes(app *fiber.App, service *readings.Service, apiKeys map[string]struct{}) {
	auth := APIKeyAuth(apiKeys)

	app.Post("/upload", auth, func(c *fiber.Ctx) error {
		payload, err := uploadPayload(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		n, err := service.Ingest(c.UserContext(), payload)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to store readings")
		}

		return c.JSON(fiber.Map{
			"message": fmt.Sprintf("Successfully uploaded %d readings", n),
		})
	})

	app.Get("/readings", auth, func(c *fiber.Ctx) error {
		var q readingsQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rs, err := service.Query(c.UserContext(), q.window())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch readings")
		}

		out := make([]readingResponse, 0, len(rs))
		for _, r := range rs {
			out = append(out, readingResponse{
				Longitude: r.Longitude,
				Latitude:  r.Latitude,
				AQI:       r.AQI,
				Timestamp: r.Timestamp.UTC().Format(time.RFC3339),
				RawData:   r.RawData,
			})
		}
		return c.JSON(out)
	})

	app.Get("/files/:date", auth, func(c *fiber.Ctx) error {
		rows, err := service.ReadFile(c.Params("date"))
		if err != nil {
			switch {
			case errors.Is(err, readings.ErrFileNotFound):
				return fiber.NewError(fiber.StatusNotFound, "no data for this date")
			case errors.Is(err, readings.ErrMalformedFile):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read data file")
		}
		return c.JSON(rows)
	})
}

// readingResponse is the wire form of a stored reading. The internal id is
// deliberately omitted.
type readingResponse struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	AQI       float64 `json:"aqi"`
	Timestamp string  `json:"timestamp"`
	RawData   string  `json:"raw_data"`
}

// uploadPayload extracts the uploaded CSV bytes: the multipart "file" part
// when one is present, the raw request body otherwise.
func uploadPayload(c *fiber.Ctx) ([]byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Body(), nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

// readingsQuery holds the hierarchical date filter. month only applies with
// year, day only with year and month.
type readingsQuery struct {
	Year  *int `validate:"omitempty,gte=1,lte=9999"`
	Month *int `validate:"omitempty,gte=1,lte=12"`
	Day   *int `validate:"omitempty,gte=1,lte=31"`
}

func (q *readingsQuery) bind(c *fiber.Ctx) error {
	var err error
	if q.Year, err = intQuery(c, "year"); err != nil {
		return err
	}
	if q.Month, err = intQuery(c, "month"); err != nil {
		return err
	}
	if q.Day, err = intQuery(c, "day"); err != nil {
		return err
	}
	return nil
}

func (q readingsQuery) window() *readings.DateWindow {
	return readings.NewDateWindow(q.Year, q.Month, q.Day)
}

func intQuery(c *fiber.Ctx, name string) (*int, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, v)
	}
	return &n, nil
}
