// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package server exposes a geocoding.Geocoder as a small JSON API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/geo6/geocoding"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	geocoder geocoding.Geocoder
	log      *slog.Logger
}

func NewServer(geocoder geocoding.Geocoder, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{geocoder: geocoder, log: logger}
}

// Handler returns the routes of the API.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/api/geocode", s.geocode)
	r.GET("/api/reverse", s.reverse)
	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok", "provider": s.geocoder.Name()})
	})

	return r
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.log.Info("listening", "addr", addr, "provider", s.geocoder.Name())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		s.log.Info("request",
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", ctx.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

type GeocodeRequest struct {
	Query        string `form:"q"`
	StreetName   string `form:"street"`
	StreetNumber string `form:"number"`
	PostalCode   string `form:"postal_code"`
	Locality     string `form:"locality"`
	Lang         string `form:"lang"`
	Limit        int    `form:"limit"`
}

type ReverseRequest struct {
	Latitude  *float64 `form:"lat" binding:"required"`
	Longitude *float64 `form:"lng" binding:"required"`
	Radius    float64  `form:"radius"`
	Lang      string   `form:"lang"`
	Limit     int      `form:"limit"`
}

type Response struct {
	Provider string               `json:"provider"`
	Count    int                  `json:"count"`
	Results  geocoding.Collection `json:"results"`
}

func (s *Server) geocode(ctx *gin.Context) {
	var req GeocodeRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "type": geocoding.ErrorTypeInvalidArgument.String()})

		return
	}

	results, err := s.geocoder.Geocode(ctx.Request.Context(), geocoding.GeocodeQuery{
		Text:         req.Query,
		StreetName:   req.StreetName,
		StreetNumber: req.StreetNumber,
		PostalCode:   req.PostalCode,
		Locality:     req.Locality,
		Locale:       req.Lang,
		Limit:        req.Limit,
	})
	if err != nil {
		s.fail(ctx, err)

		return
	}

	s.respond(ctx, results)
}

func (s *Server) reverse(ctx *gin.Context) {
	var req ReverseRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "type": geocoding.ErrorTypeInvalidArgument.String()})

		return
	}

	results, err := s.geocoder.Reverse(ctx.Request.Context(), geocoding.ReverseQuery{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Radius:    req.Radius,
		Locale:    req.Lang,
		Limit:     req.Limit,
	})
	if err != nil {
		s.fail(ctx, err)

		return
	}

	s.respond(ctx, results)
}

func (s *Server) respond(ctx *gin.Context, results geocoding.Collection) {
	if results == nil {
		results = geocoding.Collection{}
	}

	ctx.JSON(http.StatusOK, Response{
		Provider: s.geocoder.Name(),
		Count:    len(results),
		Results:  results,
	})
}

func (s *Server) fail(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError

	var geoErr *geocoding.GeocodingError
	if errors.As(err, &geoErr) {
		status = geoErr.HTTPStatus()
	}

	s.log.Warn("lookup failed", "path", ctx.Request.URL.Path, "status", status, "error", err)

	ctx.JSON(status, gin.H{"error": err.Error(), "type": geocoding.TypeOf(err).String()})
}
