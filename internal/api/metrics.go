package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/ledsaver/internal/metrics"
)

// LEDMetricsResponse carries the running totals for the managed LED.
type LEDMetricsResponse struct {
	Body struct {
		LEDType        string  `json:"led_type" example:"system" doc:"LED the totals belong to"`
		ColorChanges   float64 `json:"color_changes" example:"120" doc:"Colors written since start"`
		OnMilliseconds float64 `json:"on_milliseconds" example:"3000" doc:"Milliseconds the LED was lit"`
		Errors         float64 `json:"errors" example:"0" doc:"Failed writes"`
	}
}

// registerMetricsRoutes exposes the LED totals as JSON for clients that do
// not scrape /metrics.
func (s *Server) registerMetricsRoutes() {
	if s.options.Manager == nil {
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "get-led-metrics",
		Method:      http.MethodGet,
		Path:        "/api/leds/metrics",
		Summary:     "LED Metrics",
		Description: "Running totals of color changes, lit time and write errors for the managed LED",
		Tags:        []string{"metrics"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*LEDMetricsResponse, error) {
		ledType := s.options.Manager.Status().LEDType
		resp := &LEDMetricsResponse{}
		resp.Body.LEDType = ledType
		if m := metrics.GetLEDMetrics(ledType); m != nil {
			resp.Body.ColorChanges = m.ColorChanges
			resp.Body.OnMilliseconds = m.OnMilliseconds
			resp.Body.Errors = m.Errors
		}
		return resp, nil
	})
}
