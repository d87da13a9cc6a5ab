package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/ledsaver/internal/api/models"
	"github.com/smazurov/ledsaver/internal/led"
	"github.com/smazurov/ledsaver/internal/pattern"
)

// registerLEDRoutes registers LED status and pattern override endpoints
func (s *Server) registerLEDRoutes() {
	// Only register if an LED manager is available
	if s.options.Manager == nil {
		s.logger.Debug("LED manager not available, skipping LED routes")
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/api/status",
		Summary:     "LED Status",
		Description: "Get the active pattern, its counters and the last color written to the LED",
		Tags:        []string{"leds"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(_ context.Context, _ *struct{}) (*models.StatusResponse, error) {
		return &models.StatusResponse{Body: toStatusData(s.options.Manager.Status())}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-led-capabilities",
		Method:      http.MethodGet,
		Path:        "/api/leds/capabilities",
		Summary:     "Get LED Capabilities",
		Description: "Get the list of LED types this board's controller drives",
		Tags:        []string{"leds"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(_ context.Context, _ *struct{}) (*models.LEDCapabilitiesResponse, error) {
		return &models.LEDCapabilitiesResponse{
			Body: models.LEDCapabilitiesData{
				AvailableTypes: s.options.Manager.Controller().Available(),
				ActiveType:     s.options.Manager.Status().LEDType,
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID:   "add-pattern",
		Method:        http.MethodPost,
		Path:          "/api/patterns",
		Summary:       "Add Pattern",
		Description:   "Register a flash pattern at runtime. It competes with the configured patterns by priority until removed or the patterns file is reloaded.",
		Tags:          []string{"leds"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{400, 401},
		Security:      withAuth(),
	}, func(_ context.Context, input *models.PatternRequest) (*models.PatternCreatedResponse, error) {
		src, err := toSource(input.Body)
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid pattern", err)
		}
		id, err := s.options.Manager.Add(src)
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid pattern", err)
		}
		s.logger.Info("Pattern added via API", "pattern", src.Name, "id", id)
		return &models.PatternCreatedResponse{Body: models.PatternCreatedData{ID: id}}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID:   "delete-pattern",
		Method:        http.MethodDelete,
		Path:          "/api/patterns/{id}",
		Summary:       "Remove Pattern",
		Description:   "Remove a registered pattern by source id",
		Tags:          []string{"leds"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{401, 404},
		Security:      withAuth(),
	}, func(_ context.Context, input *models.PatternDeleteRequest) (*struct{}, error) {
		if !s.options.Manager.Remove(input.ID) {
			return nil, huma.Error404NotFound("Pattern not found")
		}
		return nil, nil
	})

	s.logger.Info("LED routes registered")
}

func toSource(req models.PatternRequestData) (led.Source, error) {
	color, err := pattern.ParseColor(req.Color)
	if err != nil {
		return led.Source{}, err
	}

	priority := pattern.PriorityImportant
	if req.Priority != "" {
		if priority, err = pattern.ParsePriority(req.Priority); err != nil {
			return led.Source{}, err
		}
	}

	opts := []pattern.Option{}
	if req.PeriodMS != 0 {
		opts = append(opts, pattern.WithPeriod(req.PeriodMS))
	}
	if req.Flashes != 0 {
		opts = append(opts, pattern.WithFlashes(req.Flashes))
	}

	return led.Source{
		Name:     req.Name,
		Pattern:  pattern.NewEnergySaver(color, opts...),
		Priority: priority,
	}, nil
}

func toStatusData(st led.Status) models.StatusData {
	data := models.StatusData{
		LEDType: st.LEDType,
		Color:   st.Color.String(),
		Active:  st.Active,
		Sources: make([]models.PatternSource, 0, len(st.Sources)),
	}
	if st.State != nil {
		data.State = &models.PatternState{
			Color:       st.State.Color.String(),
			PeriodMS:    st.State.Period,
			Flashes:     st.State.Flashes,
			PeriodTicks: st.State.PeriodTicks,
			FlashTicks:  st.State.FlashTicks,
			Emitted:     st.State.Emitted,
			Phase:       st.State.Phase.String(),
		}
	}
	for _, src := range st.Sources {
		data.Sources = append(data.Sources, models.PatternSource{
			ID:       src.ID,
			Name:     src.Name,
			Priority: src.Priority.String(),
			Active:   src.Active,
		})
	}
	return data
}
