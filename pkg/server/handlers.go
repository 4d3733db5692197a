// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/vizier-labs/vizier/pkg/catalog"
	"github.com/vizier-labs/vizier/pkg/chart"
	"github.com/vizier-labs/vizier/pkg/dataapi"
	"github.com/vizier-labs/vizier/pkg/export"
	"github.com/vizier-labs/vizier/pkg/geo"
	"github.com/vizier-labs/vizier/pkg/query"
	"github.com/vizier-labs/vizier/pkg/render"
	"github.com/vizier-labs/vizier/pkg/session"
	"github.com/vizier-labs/vizier/pkg/store"
)

const maxBodyBytes = 1 << 20

// sessionView is the session state returned by every session endpoint.
type sessionView struct {
	ID          string           `json:"id"`
	Config      chart.Config     `json:"config"`
	DrillPath   []geo.Step       `json:"drill_path,omitempty"`
	Breadcrumbs []geo.Breadcrumb `json:"breadcrumbs,omitempty"`
	Valid       bool             `json:"valid"`
	Problems    []string         `json:"problems,omitempty"`
}

func (s *Server) viewOf(sess *session.Session) sessionView {
	v := sessionView{
		ID:       sess.ID(),
		Config:   sess.Config(),
		Valid:    sess.Valid(),
		Problems: sess.Problems(),
	}
	if v.Config.ChartType == chart.ChartTypeMap {
		nav := sess.Navigator()
		v.DrillPath = nav.Path()
		v.Breadcrumbs = nav.Breadcrumbs()
	}
	return v
}

// handleSessions serves POST /v1/sessions.
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}
	var body struct {
		Config chart.Config `json:"config"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	sess := s.sessions.Create(body.Config)
	s.writeJSON(w, http.StatusCreated, s.viewOf(sess))
}

// handleSession routes /v1/sessions/{id} and /v1/sessions/{id}/{action}.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/sessions/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("session id is required"))
		return
	}

	sess, err := s.sessions.Get(id)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}

	switch action {
	case "":
		switch r.Method {
		case http.MethodGet:
			s.writeJSON(w, http.StatusOK, s.viewOf(sess))
		case http.MethodDelete:
			if err := s.sessions.Delete(id); err != nil {
				s.writeError(w, http.StatusNotFound, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			s.methodNotAllowed(w, r)
		}
	case "patch":
		s.handlePatch(w, r, sess)
	case "chart-type":
		s.handleChartType(w, r, sess)
	case "prefill":
		s.handlePrefill(w, r, sess)
	case "hierarchy":
		s.handleHierarchy(w, r, sess)
	case "drill-column":
		s.handleDrillColumn(w, r, sess)
	case "drill":
		s.handleDrill(w, r, sess)
	case "drill-up":
		s.handleDrillUp(w, r, sess)
	case "drill-home":
		s.handleDrillHome(w, r, sess)
	case "preview":
		s.handlePreview(w, r, sess)
	case "geojson":
		s.handleGeoJSON(w, r, sess)
	case "export":
		s.handleExport(w, r, sess)
	case "save":
		s.handleSaveSession(w, r, sess)
	default:
		s.writeError(w, http.StatusNotFound, fmt.Errorf("unknown action %q", action))
	}
}

func (s *Server) handlePatch(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodPost && r.Method != http.MethodPatch {
		s.methodNotAllowed(w, r)
		return
	}
	var p chart.Patch
	if !s.decode(w, r, &p) {
		return
	}
	sess.ApplyPatch(p)
	s.writeJSON(w, http.StatusOK, s.viewOf(sess))
}

func (s *Server) handleChartType(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}
	var body struct {
		ChartType chart.ChartType `json:"chart_type"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if body.ChartType == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("chart_type is required"))
		return
	}
	sess.SetChartType(body.ChartType)
	s.writeJSON(w, http.StatusOK, s.viewOf(sess))
}

// handlePrefill fetches the table's columns and applies the auto-prefill
// heuristic. No-op unless the config is still fresh.
func (s *Server) handlePrefill(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}
	cfg := sess.Config()
	if cfg.SchemaName == "" || cfg.TableName == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("select a schema and table before prefill"))
		return
	}
	cols, err := s.backend.FetchColumns(r.Context(), cfg.SchemaName, cfg.TableName)
	if err != nil {
		s.writeBackendError(w, err)
		return
	}
	_, applied := sess.PrefillIfFresh(cols)
	resp := struct {
		sessionView
		Applied bool `json:"prefill_applied"`
	}{s.viewOf(sess), applied}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleHierarchy builds a geographic hierarchy from the backend's region
// type graph and installs it on the session.
func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}
	var body struct {
		CountryCode      string `json:"country_code"`
		GeographicColumn string `json:"geographic_column"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if body.CountryCode == "" || body.GeographicColumn == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("country_code and geographic_column are required"))
		return
	}
	edges, err := s.backend.FetchRegionTypes(r.Context(), body.CountryCode)
	if err != nil {
		s.writeBackendError(w, err)
		return
	}
	h, err := geo.NewHierarchy(body.CountryCode, body.GeographicColumn, edges)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	sess.SetHierarchy(h)
	s.writeJSON(w, http.StatusOK, s.viewOf(sess))
}

func (s *Server) handleDrillColumn(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}
	var body struct {
		Level  int    `json:"level"`
		Column string `json:"column"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	if sess.Config().Hierarchy == nil {
		s.writeError(w, http.StatusConflict, fmt.Errorf("session has no geographic hierarchy"))
		return
	}
	sess.SetDrillColumn(body.Level, body.Column)
	s.writeJSON(w, http.StatusOK, s.viewOf(sess))
}

func (s *Server) handleDrill(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}
	var body struct {
		RegionName string `json:"region_name"`
		RegionID   string `json:"region_id"`
		GeoJSONID  string `json:"geojson_id"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	sess.RegionClick(body.RegionName, geo.RegionClickData{
		RegionID:  body.RegionID,
		GeoJSONID: body.GeoJSONID,
	})
	s.writeJSON(w, http.StatusOK, s.viewOf(sess))
}

func (s *Server) handleDrillUp(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}
	var body struct {
		Target int `json:"target"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	sess.DrillUp(body.Target)
	s.writeJSON(w, http.StatusOK, s.viewOf(sess))
}

func (s *Server) handleDrillHome(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}
	sess.DrillHome()
	s.writeJSON(w, http.StatusOK, s.viewOf(sess))
}

// handlePreview fetches the session's data and renders the chart option.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	cfg := sess.Config()
	rows, err := s.fetchRows(r, sess, cfg)
	if err != nil {
		s.writeBackendError(w, err)
		return
	}
	option, err := s.renderer.Generate(cfg, rows)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		Option    json.RawMessage `json:"option"`
		RowCount  int             `json:"row_count"`
		DrillPath []geo.Step      `json:"drill_path,omitempty"`
	}{json.RawMessage(option), len(rows), sess.Navigator().Path()})
}

func (s *Server) fetchRows(r *http.Request, sess *session.Session, cfg chart.Config) ([]render.Row, error) {
	var (
		raw []map[string]interface{}
		err error
	)
	if cfg.ChartType == chart.ChartTypeMap {
		raw, err = s.backend.FetchMapOverlay(r.Context(), query.BuildMapOverlay(cfg, sess.Navigator()))
	} else {
		raw, err = s.backend.FetchChartData(r.Context(), query.BuildChartData(cfg))
	}
	if err != nil {
		return nil, err
	}
	rows := make([]render.Row, len(raw))
	for i, m := range raw {
		rows[i] = render.Row(m)
	}
	return rows, nil
}

func (s *Server) handleGeoJSON(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	req := query.BuildGeoJSON(sess.Config(), sess.Navigator())
	if req.GeoJSONID == "" {
		s.writeError(w, http.StatusConflict, fmt.Errorf("session has no map boundary selected"))
		return
	}
	raw, err := s.backend.FetchGeoJSON(r.Context(), req)
	if err != nil {
		s.writeBackendError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// handleExport streams the session's preview data as CSV or XLSX.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	cfg := sess.Config()
	rows, err := s.fetchRows(r, sess, cfg)
	if err != nil {
		s.writeBackendError(w, err)
		return
	}

	name := cfg.Title
	if name == "" {
		name = "chart"
	}
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))
		if err := export.WriteCSV(w, cfg, rows); err != nil {
			s.logger.Error("csv export failed", zap.Error(err))
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".xlsx"))
		if err := export.WriteXLSX(w, cfg, rows); err != nil {
			s.logger.Error("xlsx export failed", zap.Error(err))
		}
	default:
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("unknown export format %q", format))
	}
}

// handleSaveSession persists the session's config as a saved chart.
func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	saved, err := s.store.SaveChart(body.Name, body.Description, sess.Config())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, saved)
}

// handleCharts serves GET and POST /v1/charts.
func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		charts, err := s.store.ListCharts()
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.writeJSON(w, http.StatusOK, struct {
			Charts []store.SavedChart `json:"charts"`
		}{charts})
	case http.MethodPost:
		var body struct {
			Name        string       `json:"name"`
			Description string       `json:"description"`
			Config      chart.Config `json:"config"`
		}
		if !s.decode(w, r, &body) {
			return
		}
		saved, err := s.store.SaveChart(body.Name, body.Description, body.Config)
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, saved)
	default:
		s.methodNotAllowed(w, r)
	}
}

// handleChartImport validates external chart JSON and saves it.
func (s *Server) handleChartImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}
	var body struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Chart       json.RawMessage `json:"chart"`
	}
	if !s.decode(w, r, &body) {
		return
	}
	saved, err := s.store.ImportChart(body.Name, body.Description, body.Chart)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, saved)
}

// handleChart serves /v1/charts/{id}.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/charts/")
	switch r.Method {
	case http.MethodGet:
		saved, err := s.store.GetChart(id)
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, saved)
	case http.MethodPut:
		var body struct {
			Name        string       `json:"name"`
			Description string       `json:"description"`
			Config      chart.Config `json:"config"`
		}
		if !s.decode(w, r, &body) {
			return
		}
		saved, err := s.store.UpdateChart(id, body.Name, body.Description, body.Config)
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, saved)
	case http.MethodDelete:
		if err := s.store.DeleteChart(id); err != nil {
			s.writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		s.methodNotAllowed(w, r)
	}
}

// handleDashboards serves GET and POST /v1/dashboards.
func (s *Server) handleDashboards(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		dashboards, err := s.store.ListDashboards()
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		s.writeJSON(w, http.StatusOK, struct {
			Dashboards []store.Dashboard `json:"dashboards"`
		}{dashboards})
	case http.MethodPost:
		var body struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if !s.decode(w, r, &body) {
			return
		}
		d, err := s.store.CreateDashboard(body.Name, body.Description)
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, d)
	default:
		s.methodNotAllowed(w, r)
	}
}

// handleDashboard serves /v1/dashboards/{id} and /v1/dashboards/{id}/charts.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/dashboards/")
	id, sub, _ := strings.Cut(rest, "/")

	if sub == "charts" {
		if r.Method != http.MethodPut {
			s.methodNotAllowed(w, r)
			return
		}
		var body struct {
			ChartIDs []string `json:"chart_ids"`
		}
		if !s.decode(w, r, &body) {
			return
		}
		if err := s.store.SetDashboardCharts(id, body.ChartIDs); err != nil {
			s.writeStoreError(w, err)
			return
		}
		d, err := s.store.GetDashboard(id)
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, d)
		return
	}

	switch r.Method {
	case http.MethodGet:
		d, err := s.store.GetDashboard(id)
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, d)
	case http.MethodDelete:
		if err := s.store.DeleteDashboard(id); err != nil {
			s.writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		s.methodNotAllowed(w, r)
	}
}

// handleSchemas proxies the backend's schema catalog.
func (s *Server) handleSchemas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	schemas, err := s.backend.FetchSchemas(r.Context())
	if err != nil {
		s.writeBackendError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		Schemas []catalog.Schema `json:"schemas"`
	}{schemas})
}

// handleColumns serves the column picker, with optional fuzzy filtering via
// the q parameter.
func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	q := r.URL.Query()
	schema, table := q.Get("schema"), q.Get("table")
	if schema == "" || table == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("schema and table are required"))
		return
	}
	cols, err := s.backend.FetchColumns(r.Context(), schema, table)
	if err != nil {
		s.writeBackendError(w, err)
		return
	}
	cols = catalog.SearchColumns(cols, q.Get("q"))
	s.writeJSON(w, http.StatusOK, struct {
		Columns []catalog.Column `json:"columns"`
	}{cols})
}

// handleRegionTypes proxies the backend's region type graph.
func (s *Server) handleRegionTypes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	country := r.URL.Query().Get("country")
	if country == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("country is required"))
		return
	}
	edges, err := s.backend.FetchRegionTypes(r.Context(), country)
	if err != nil {
		s.writeBackendError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		RegionTypes []geo.RegionTypeEdge `json:"region_types"`
	}{edges})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	defer io.Copy(io.Discard, r.Body)
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(out); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, struct {
		Error string `json:"error"`
	}{err.Error()})
}

// writeStoreError maps store errors onto HTTP statuses.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, store.ErrIncomplete):
		s.writeError(w, http.StatusUnprocessableEntity, err)
	default:
		s.writeError(w, http.StatusBadRequest, err)
	}
}

// writeBackendError maps data backend failures onto HTTP statuses. Backend
// rejections pass their status through; transport failures become 502.
func (s *Server) writeBackendError(w http.ResponseWriter, err error) {
	var apiErr *dataapi.APIError
	if errors.As(err, &apiErr) {
		s.writeError(w, apiErr.StatusCode, err)
		return
	}
	s.writeError(w, http.StatusBadGateway, err)
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
}
