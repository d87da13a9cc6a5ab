package models

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"dev" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc1234" doc:"Git commit hash"`
	BuildDate string `json:"build_date" example:"2026-01-27T10:30:00Z" doc:"Build timestamp"`
	BuildID   string `json:"build_id" example:"42" doc:"Build identifier"`
	GoVersion string `json:"go_version" example:"go1.24.11" doc:"Go compiler version"`
	Compiler  string `json:"compiler" example:"gc" doc:"Go compiler"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"Target platform"`
}

type VersionResponse struct {
	Body VersionData
}

// PatternState mirrors the counters of the active flash pattern.
type PatternState struct {
	Color       string `json:"color" example:"#FF0000" doc:"Flash color as #RRGGBB"`
	PeriodMS    uint32 `json:"period_ms" example:"1000" doc:"Cycle length in milliseconds"`
	Flashes     uint8  `json:"flashes" example:"1" doc:"Flashes per period"`
	PeriodTicks uint32 `json:"period_ticks" example:"420" doc:"Milliseconds elapsed in the current period"`
	FlashTicks  uint32 `json:"flash_ticks" example:"30" doc:"Milliseconds elapsed in the current flash or blank"`
	Emitted     uint8  `json:"emitted" example:"0" doc:"Flashes completed in the current period"`
	Phase       string `json:"phase" example:"flash" enum:"init,flash,blank" doc:"Current phase"`
}

// PatternSource describes one registered pattern.
type PatternSource struct {
	ID       string `json:"id" example:"6f1c2a3e-8d44-4b6e-9a1b-2f0c5d7e9a10" doc:"Source identifier"`
	Name     string `json:"name" example:"heartbeat" doc:"Pattern name"`
	Priority string `json:"priority" example:"normal" enum:"background,normal,important,critical" doc:"Arbitration priority"`
	Active   bool   `json:"active" example:"true" doc:"Whether this pattern currently drives the LED"`
}

// Status models
type StatusData struct {
	LEDType string          `json:"led_type" example:"system" doc:"LED driven by the manager"`
	Color   string          `json:"color" example:"#000000" doc:"Last color written to the LED"`
	Active  string          `json:"active,omitempty" example:"heartbeat" doc:"Name of the active pattern"`
	State   *PatternState   `json:"state,omitempty" doc:"Counters of the active pattern"`
	Sources []PatternSource `json:"sources" doc:"Registered patterns, highest priority first"`
}

type StatusResponse struct {
	Body StatusData
}

// LED capability models
type LEDCapabilitiesData struct {
	AvailableTypes []string `json:"available_types" doc:"List of available LED types on this board"`
	ActiveType     string   `json:"active_type" example:"system" doc:"LED type driven by the manager"`
}

type LEDCapabilitiesResponse struct {
	Body LEDCapabilitiesData
}

// Pattern override models
type PatternRequestData struct {
	Name     string `json:"name" minLength:"1" example:"maintenance" doc:"Pattern name"`
	Color    string `json:"color" example:"orange" doc:"Color name, #RRGGBB or 0xRRGGBB"`
	Priority string `json:"priority,omitempty" default:"important" enum:"background,normal,important,critical" doc:"Arbitration priority"`
	PeriodMS uint32 `json:"period_ms,omitempty" default:"1000" doc:"Cycle length in milliseconds"`
	Flashes  uint8  `json:"flashes,omitempty" default:"1" minimum:"1" doc:"Flashes per period"`
}

type PatternRequest struct {
	Body PatternRequestData
}

type PatternCreatedData struct {
	ID string `json:"id" example:"6f1c2a3e-8d44-4b6e-9a1b-2f0c5d7e9a10" doc:"Source identifier, used to remove the pattern"`
}

type PatternCreatedResponse struct {
	Body PatternCreatedData
}

type PatternDeleteRequest struct {
	ID string `path:"id" doc:"Source identifier"`
}
