package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/litescript/ls-nightwatch/internal/astro"
	"github.com/litescript/ls-nightwatch/internal/ephem"
	"github.com/litescript/ls-nightwatch/internal/forecast"
	"github.com/litescript/ls-nightwatch/internal/imaging"
	"github.com/litescript/ls-nightwatch/internal/report"
	"github.com/litescript/ls-nightwatch/internal/state"
)

const dateLayout = "2006-01-02"

var errNoData = newAPIError(http.StatusServiceUnavailable, CodeNoData, "no forecast has completed yet")

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status  string    `json:"status"`
	HasData bool      `json:"has_data"`
	Time    time.Time `json:"time"`
}

// StatusResponse describes the refresh loop.
type StatusResponse struct {
	RunID           string               `json:"run_id,omitempty"`
	LastRun         *time.Time           `json:"last_run,omitempty"`
	LastError       string               `json:"last_error,omitempty"`
	RunDuration     string               `json:"run_duration"`
	RefreshInterval string               `json:"refresh_interval"`
	History         []state.HistoryEntry `json:"history"`
}

// WindowsResponse lists the imaging windows of one object on one night.
type WindowsResponse struct {
	Date     string           `json:"date"`
	ObjectID string           `json:"object_id"`
	Name     string           `json:"name"`
	Windows  []imaging.Window `json:"windows"`
	Best     *imaging.Window  `json:"best,omitempty"`
	Points   []imaging.Point  `json:"points,omitempty"`
}

// PositionResponse is the horizontal position of an RA/Dec at an instant.
type PositionResponse struct {
	Time     time.Time `json:"time"`
	RAdeg    float64   `json:"ra_deg"`
	DecDeg   float64   `json:"dec_deg"`
	AltDeg   float64   `json:"alt_deg"`
	AzDeg    float64   `json:"az_deg"`
	Airmass  *float64  `json:"airmass,omitempty"`
	Location string    `json:"location,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		HasData: s.state.HasData(),
		Time:    s.now().UTC(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	snap := s.state.Snapshot()
	resp := StatusResponse{
		RunDuration:     snap.RunDuration.String(),
		RefreshInterval: s.state.RefreshInterval().String(),
		History:         snap.History,
	}
	if snap.Result != nil {
		resp.RunID = snap.Result.RunID
	}
	if !snap.LastRun.IsZero() {
		t := snap.LastRun
		resp.LastRun = &t
	}
	if snap.LastError != nil {
		resp.LastError = snap.LastError.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, r, badRequest("limit must be a positive integer"))
			return
		}
		limit = n
	}
	events := s.state.RecentEvents(limit)
	if events == nil {
		events = []state.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleNights(w http.ResponseWriter, r *http.Request) {
	res := s.state.Snapshot().Result
	if res == nil {
		s.writeError(w, r, errNoData)
		return
	}
	writeJSON(w, http.StatusOK, report.ExportForecast(res))
}

func (s *Server) handleNight(w http.ResponseWriter, r *http.Request) {
	res, nf, err := s.lookupNight(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.ExportNight(nf, res.MoonModel))
}

func (s *Server) handleWindows(w http.ResponseWriter, r *http.Request) {
	res, nf, err := s.lookupNight(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	vis, ok := nf.Visibility(id)
	if !ok {
		s.writeError(w, r, notFound("object "+id+" is not visible on "+nf.Night.Key()))
		return
	}

	opt := imaging.WithMoonModel(res.MoonModel)
	windows := imaging.ComputeWindows(vis, nf.Night, nf.Weather, opt)
	if windows == nil {
		windows = []imaging.Window{}
	}
	resp := WindowsResponse{
		Date:     nf.Night.Key(),
		ObjectID: vis.ObjectID,
		Name:     vis.ObjectName,
		Windows:  windows,
		Best:     imaging.BestWindow(windows),
	}
	if r.URL.Query().Get("points") == "true" {
		resp.Points = imaging.Points(vis, nf.Night, nf.Weather, opt)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handlePosition samples a fixed RA/Dec for the forecast location, or for
// lat/lon query parameters when given.
func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ra, err := floatParam(q.Get("ra"), "ra")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dec, err := floatParam(q.Get("dec"), "dec")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var obs astro.Observer
	if q.Has("lat") || q.Has("lon") {
		if obs.LatDeg, err = floatParam(q.Get("lat"), "lat"); err != nil {
			s.writeError(w, r, err)
			return
		}
		if obs.LonDeg, err = floatParam(q.Get("lon"), "lon"); err != nil {
			s.writeError(w, r, err)
			return
		}
	} else {
		res := s.state.Snapshot().Result
		if res == nil {
			s.writeError(w, r, errNoData)
			return
		}
		obs = res.Location
	}

	at := s.now().UTC()
	if raw := q.Get("at"); raw != "" {
		if at, err = time.Parse(time.RFC3339, raw); err != nil {
			s.writeError(w, r, badRequest("at must be an RFC3339 timestamp"))
			return
		}
	}

	pos, err := ephem.Position(ephem.Fixed(ra, dec), obs, at)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := PositionResponse{
		Time:     at,
		RAdeg:    ra,
		DecDeg:   dec,
		AltDeg:   pos.ElDeg,
		AzDeg:    pos.AzDeg,
		Location: obs.Name,
	}
	if pos.ElDeg > 0 {
		am := astro.Airmass(pos.ElDeg)
		resp.Airmass = &am
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) lookupNight(r *http.Request) (*forecast.Result, forecast.NightForecast, error) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, forecast.NightForecast{}, badRequest("date must be YYYY-MM-DD")
	}
	res := s.state.Snapshot().Result
	if res == nil {
		return nil, forecast.NightForecast{}, errNoData
	}
	nf, ok := res.Night(date)
	if !ok {
		return nil, forecast.NightForecast{}, notFound("no forecast for " + date)
	}
	return res, nf, nil
}

func floatParam(raw, name string) (float64, error) {
	if raw == "" {
		return 0, badRequest(name + " is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, badRequest(name + " must be a number")
	}
	return v, nil
}
