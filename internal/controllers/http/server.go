package httpctrl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/opentrack/railtemp/internal/ports"
	"github.com/opentrack/railtemp/internal/railtemp"
	"github.com/opentrack/railtemp/internal/sections"
)

type Server struct {
	svc      ports.SimulationService
	srv      *http.Server
	deviceID string
}

// New returns a runnable server.
func New(svc ports.SimulationService, addr string, deviceID string) *Server {
	mux := http.NewServeMux()
	s := &Server{svc: svc, deviceID: deviceID}

	mux.HandleFunc("POST /v1/simulate", s.handleSimulate)
	mux.HandleFunc("GET /v1/sections", s.handleSections)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// ---- DTOs ----

type sampleDTO struct {
	Time            time.Time `json:"time"`
	AirTemperature  *float64  `json:"air_temperature"`
	WindSpeed       *float64  `json:"wind_speed"`
	SolarIrradiance *float64  `json:"solar_irradiance"`
}

type simulateRequest struct {
	Samples []sampleDTO `json:"samples"`
}

type resultDTO struct {
	Time            time.Time `json:"time"`
	RailTemperature float64   `json:"rail_temperature"`
	SolarGain       float64   `json:"solar_gain"`
	ConvectiveLoss  float64   `json:"convective_loss"`
	RadiativeLoss   float64   `json:"radiative_loss"`
	SunArea         float64   `json:"sun_area"`
	Hconv           float64   `json:"hconv"`
	Error           string    `json:"error,omitempty"`
}

type simulateResponse struct {
	DeviceID string      `json:"device_id"`
	Results  []resultDTO `json:"results"`
}

// ---- Handlers ----

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	var req simulateRequest
	if err := dec.Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.Samples) == 0 {
		writeErr(w, http.StatusBadRequest, "missing field 'samples'")
		return
	}

	samples := make([]railtemp.WeatherSample, len(req.Samples))
	for i, d := range req.Samples {
		if d.AirTemperature == nil || d.WindSpeed == nil || d.SolarIrradiance == nil {
			writeErr(w, http.StatusBadRequest, "sample fields air_temperature, wind_speed and solar_irradiance are required")
			return
		}
		samples[i] = railtemp.WeatherSample{
			Time:            d.Time,
			AirTemperature:  *d.AirTemperature,
			WindSpeed:       *d.WindSpeed,
			SolarIrradiance: *d.SolarIrradiance,
		}
	}

	run, err := s.svc.Run(samples)
	if err != nil {
		writeErr(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp := simulateResponse{
		DeviceID: s.deviceID,
		Results:  make([]resultDTO, len(run.Results)),
	}
	for i, res := range run.Results {
		resp.Results[i] = resultDTO{
			Time:            res.Time,
			RailTemperature: res.RailTemperature,
			SolarGain:       res.SolarGain,
			ConvectiveLoss:  res.ConvectiveLoss,
			RadiativeLoss:   res.RadiativeLoss,
			SunArea:         res.SunArea,
			Hconv:           res.Hconv,
		}
		if i < len(run.Errs) && run.Errs[i] != nil {
			resp.Results[i].Error = run.Errs[i].Error()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSections(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"sections": sections.Names()})
}

// ---- generic helpers ----

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
