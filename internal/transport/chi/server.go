// Package chi exposes the album library over HTTP for out-of-process UIs
// and the fetch collaborator.
package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/albumdex/internal/domain/album"
	"github.com/kailas-cloud/albumdex/internal/domain/search/order"
	"github.com/kailas-cloud/albumdex/internal/domain/search/query"
	"github.com/kailas-cloud/albumdex/internal/repository/catalog"
	healthuc "github.com/kailas-cloud/albumdex/internal/usecase/health"
	"github.com/kailas-cloud/albumdex/internal/usecase/library"
)

const maxAlbumsBody = 32 << 20

// Library is the recompute pipeline as seen by the HTTP layer.
type Library interface {
	SetQuery(text string)
	ClearFilter()
	SetOrder(k order.Key) error
	SetAlbums(albums []album.Album)
	View() library.View
	Registry() order.Registry
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// QueryParser explains how a query string is tokenized.
type QueryParser interface {
	Parse(q string) query.PredicateSet
}

// Server serves the library endpoints.
type Server struct {
	library       Library
	parser        QueryParser
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(lib Library, parser QueryParser, health HealthChecker, logger *zap.Logger) *Server {
	return &Server{
		library:       lib,
		parser:        parser,
		health:        health,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// StateResponse summarizes the engine.
type StateResponse struct {
	Query         string `json:"query"`
	Order         string `json:"order"`
	IsFiltering   bool   `json:"is_filtering"`
	Matched       int    `json:"matched"`
	Total         int    `json:"total"`
	MatchFailures int    `json:"match_failures"`
	Cycle         uint64 `json:"cycle"`
}

// MatchesResponse is the current match set.
type MatchesResponse struct {
	Items       []catalog.AlbumDTO `json:"items"`
	IsFiltering bool               `json:"is_filtering"`
	Cycle       uint64             `json:"cycle"`
}

// OrderItem is one registered ordering with its keyboard shortcut position.
type OrderItem struct {
	Key      string `json:"key"`
	Shortcut int    `json:"shortcut"`
	Active   bool   `json:"active"`
}

// OrdersResponse lists orderings in declaration order.
type OrdersResponse struct {
	Items   []OrderItem `json:"items"`
	Default string      `json:"default"`
}

// ParseResponse is a tokenized query.
type ParseResponse struct {
	FreeText string            `json:"free_text"`
	Fields   map[string]string `json:"fields"`
}

// AlbumsResponse acknowledges a collection replacement.
type AlbumsResponse struct {
	Albums int `json:"albums"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type queryRequest struct {
	Query *string `json:"query"`
}

type orderRequest struct {
	Order string `json:"order"`
}

func stateFromView(v library.View) StateResponse {
	return StateResponse{
		Query:         v.Query,
		Order:         string(v.Order),
		IsFiltering:   v.IsFiltering,
		Matched:       len(v.Matches),
		Total:         v.Total,
		MatchFailures: v.MatchFailures,
		Cycle:         v.Cycle,
	}
}

// GetState handles GET /state.
func (s *Server) GetState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, stateFromView(s.library.View()))
}

// PutQuery handles PUT /query. The match set updates asynchronously.
func (s *Server) PutQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "query is required")
		return
	}

	s.library.SetQuery(*req.Query)
	writeJSON(w, http.StatusAccepted, stateFromView(s.library.View()))
}

// DeleteQuery handles DELETE /query.
func (s *Server) DeleteQuery(w http.ResponseWriter, _ *http.Request) {
	s.library.ClearFilter()
	writeJSON(w, http.StatusAccepted, stateFromView(s.library.View()))
}

// ParseQuery handles GET /query/parse?q=.
func (s *Server) ParseQuery(w http.ResponseWriter, r *http.Request) {
	p := s.parser.Parse(r.URL.Query().Get("q"))
	fields := p.Fields()
	if fields == nil {
		fields = map[string]string{}
	}
	writeJSON(w, http.StatusOK, ParseResponse{FreeText: p.FreeText(), Fields: fields})
}

// PutOrder handles PUT /order.
func (s *Server) PutOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.library.SetOrder(order.Key(req.Order)); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, stateFromView(s.library.View()))
}

// ListOrders handles GET /orders.
func (s *Server) ListOrders(w http.ResponseWriter, _ *http.Request) {
	reg := s.library.Registry()
	active := s.library.View().Order

	keys := reg.Keys()
	items := make([]OrderItem, len(keys))
	for i, k := range keys {
		items[i] = OrderItem{Key: string(k), Shortcut: i + 1, Active: k == active}
	}
	writeJSON(w, http.StatusOK, OrdersResponse{Items: items, Default: string(reg.DefaultKey())})
}

// GetMatches handles GET /matches.
func (s *Server) GetMatches(w http.ResponseWriter, _ *http.Request) {
	v := s.library.View()
	writeJSON(w, http.StatusOK, MatchesResponse{
		Items:       catalog.FromDomain(v.Matches),
		IsFiltering: v.IsFiltering,
		Cycle:       v.Cycle,
	})
}

// PutAlbums handles PUT /albums, replacing the whole collection.
func (s *Server) PutAlbums(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAlbumsBody)

	var dtos []catalog.AlbumDTO
	if err := json.NewDecoder(r.Body).Decode(&dtos); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	albums, err := catalog.ToDomain(dtos)
	if err != nil {
		s.log(r).Warn("Rejected collection", zap.Error(err))
		writeError(w, http.StatusBadRequest, CodeInvalidAlbum, fmt.Sprintf("invalid album: %v", err))
		return
	}

	s.library.SetAlbums(albums)
	writeJSON(w, http.StatusAccepted, AlbumsResponse{Albums: len(albums)})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}
