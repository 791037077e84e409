package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/DrSkyle/stowage/pkg/catalog"
	"github.com/DrSkyle/stowage/pkg/engine"
	"github.com/DrSkyle/stowage/pkg/engine/sizing"
	"github.com/DrSkyle/stowage/pkg/layout"
	"github.com/DrSkyle/stowage/pkg/station"
)

// ApplyRequest confirms the plan computed at Version.
type ApplyRequest struct {
	Version uint64 `json:"version"`
}

// ApplyResponse is the merge summary and the plan after it.
type ApplyResponse struct {
	Result station.MergeResult `json:"result"`
	Plan   *engine.Plan        `json:"plan"`
}

// ModuleView is one storage module candidate.
type ModuleView struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Maker    string            `json:"maker"`
	Cargo    catalog.CargoType `json:"cargo_type"`
	Capacity float64           `json:"capacity"`
}

// writeJSON encodes v before writing the status, so an unencodable value
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		status = http.StatusInternalServerError
		buf.Reset()
		buf.WriteString(`{"error":"failed to encode response"}` + "\n")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleGetPlan recomputes the plan. Query parameters override the stored
// settings for this request only.
func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	settings, err := settingsFromQuery(s.engine.Settings(), r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := s.engine.PlanWith(r.Context(), settings)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.metrics.ObservePlan(plan)
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Settings())
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	settings := s.engine.Settings()
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid settings: "+err.Error())
		return
	}
	s.engine.SetSettings(settings)
	s.publishPlan(r.Context())
	writeJSON(w, http.StatusOK, s.engine.Settings())
}

func (s *Server) handleGetModules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Station.Snapshot())
}

// handlePutModules replaces the station module list. Unknown module ids are
// rejected with a suggestion.
func (s *Server) handlePutModules(w http.ResponseWriter, r *http.Request) {
	var entries []layout.Entry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		writeError(w, http.StatusBadRequest, "invalid module list: "+err.Error())
		return
	}

	l := layout.Layout{Modules: entries}
	for _, e := range entries {
		if _, err := s.engine.Catalog.RequireModule(e.Module); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if err := layout.Load(s.engine.Station, l); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.publishPlan(r.Context())
	writeJSON(w, http.StatusOK, s.engine.Station.Snapshot())
}

// handleApply merges the recommendations of the current plan, provided the
// client saw the same station version.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request")
		return
	}

	plan, err := s.engine.Plan(r.Context())
	if err != nil {
		s.metrics.ObserveApply(resultError, 0)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if plan.Version != req.Version {
		s.metrics.ObserveApply(resultStale, 0)
		writeError(w, http.StatusConflict, engine.ErrStalePlan.Error())
		return
	}

	added := 0
	for _, a := range plan.Additions() {
		added += a.Count
	}

	res, err := s.engine.Apply(r.Context(), plan)
	if errors.Is(err, engine.ErrStalePlan) {
		s.metrics.ObserveApply(resultStale, 0)
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		s.metrics.ObserveApply(resultError, 0)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.metrics.ObserveApply(resultSuccess, added)

	after, err := s.engine.Plan(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.metrics.ObservePlan(after)
	s.hub.Publish(Message{Type: "plan", Payload: after})

	writeJSON(w, http.StatusOK, ApplyResponse{Result: res, Plan: after})
}

func (s *Server) handleGetFactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Calculator.GetAvailableStorageFactions())
}

// handleGetStorageModules lists candidates for ?cargo= under the current filter.
func (s *Server) handleGetStorageModules(w http.ResponseWriter, r *http.Request) {
	ct := catalog.CargoType(r.URL.Query().Get("cargo"))
	if !ct.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown cargo type %q", ct))
		return
	}

	settings, err := settingsFromQuery(s.engine.Settings(), r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mods := s.engine.Calculator.GetFilteredStorageModules(ct, sizing.FilterFromConfig(settings.Filter))
	out := make([]ModuleView, 0, len(mods))
	for _, m := range mods {
		out = append(out, ModuleView{ID: m.ID, Name: m.Name, Maker: m.Maker, Cargo: m.Cargo.Type, Capacity: m.Cargo.Max})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) requireLayouts(w http.ResponseWriter) bool {
	if s.layouts == nil {
		writeError(w, http.StatusNotFound, "layout store not configured")
		return false
	}
	return true
}

func (s *Server) layoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, layout.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, layout.ErrInvalidName):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	if !s.requireLayouts(w) {
		return
	}
	names, err := s.layouts.List(r.Context())
	if err != nil {
		s.layoutError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	if !s.requireLayouts(w) {
		return
	}
	l, err := s.layouts.Get(r.Context(), r.PathValue("name"))
	if err != nil {
		s.layoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// handleSaveLayout stores the current station under the path name.
func (s *Server) handleSaveLayout(w http.ResponseWriter, r *http.Request) {
	if !s.requireLayouts(w) {
		return
	}
	name := r.PathValue("name")
	if err := layout.ValidName(name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	l := layout.FromSnapshot(name, s.engine.Station.Snapshot(), s.engine.Settings().Station.Sunlight)
	if err := s.layouts.Save(r.Context(), l); err != nil {
		s.layoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// handleLoadLayout replaces the station with a saved layout, or adds it with
// ?mode=add.
func (s *Server) handleLoadLayout(w http.ResponseWriter, r *http.Request) {
	if !s.requireLayouts(w) {
		return
	}
	l, err := s.layouts.Get(r.Context(), r.PathValue("name"))
	if err != nil {
		s.layoutError(w, err)
		return
	}

	switch mode := r.URL.Query().Get("mode"); mode {
	case "", "replace":
		err = layout.Load(s.engine.Station, l)
	case "add":
		_, err = layout.Add(r.Context(), s.engine.Station, l)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown mode %q", mode))
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.publishPlan(r.Context())
	writeJSON(w, http.StatusOK, s.engine.Station.Snapshot())
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	if !s.requireLayouts(w) {
		return
	}
	if err := s.layouts.Delete(r.Context(), r.PathValue("name")); err != nil {
		s.layoutError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleWs subscribes to plan updates, starting with the current plan.
func (s *Server) handleWs(w http.ResponseWriter, r *http.Request) {
	var initial *Message
	if plan, err := s.engine.Plan(r.Context()); err == nil {
		initial = &Message{Type: "plan", Payload: plan}
	}
	s.hub.ServeWs(w, r, initial)
}

// settingsFromQuery applies faction, sizes, input_hours, output_hours and
// sunlight overrides. sizes is "any" or a comma list of s, m, l. Numbers
// must be finite; negative values are clamped to zero.
func settingsFromQuery(base engine.Settings, q url.Values) (engine.Settings, error) {
	out := base

	if q.Has("faction") {
		f := q.Get("faction")
		if f == "any" {
			f = ""
		}
		out.Filter.Faction = f
	}

	if q.Has("sizes") {
		out.Filter.AnySize = false
		out.Filter.Small, out.Filter.Medium, out.Filter.Large = false, false, false
		for _, part := range strings.Split(q.Get("sizes"), ",") {
			switch strings.TrimSpace(strings.ToLower(part)) {
			case "":
			case "any":
				out.Filter.AnySize = true
			case "s", "small":
				out.Filter.Small = true
			case "m", "medium":
				out.Filter.Medium = true
			case "l", "large":
				out.Filter.Large = true
			default:
				return base, fmt.Errorf("unknown size %q", part)
			}
		}
	}

	for key, dst := range map[string]*float64{
		"input_hours":  &out.Retention.InputHours,
		"output_hours": &out.Retention.OutputHours,
		"sunlight":     &out.Station.Sunlight,
	} {
		if !q.Has(key) {
			continue
		}
		v, err := strconv.ParseFloat(q.Get(key), 64)
		if err != nil {
			return base, fmt.Errorf("invalid %s: %w", key, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return base, fmt.Errorf("invalid %s: %q is not a finite number", key, q.Get(key))
		}
		*dst = v
	}

	out.Retention = out.Retention.Normalize()
	out.Station = out.Station.Normalize()
	return out, nil
}
