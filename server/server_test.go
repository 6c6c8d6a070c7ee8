// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/geo6/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGeocoder records the last queries and answers with fixed values.
type fakeGeocoder struct {
	results      geocoding.Collection
	err          error
	lastGeocode  geocoding.GeocodeQuery
	lastReverse  geocoding.ReverseQuery
	reverseCalls int
}

func (f *fakeGeocoder) Name() string { return "fake" }

func (f *fakeGeocoder) Geocode(_ context.Context, q geocoding.GeocodeQuery) (geocoding.Collection, error) {
	f.lastGeocode = q

	return f.results, f.err
}

func (f *fakeGeocoder) Reverse(_ context.Context, q geocoding.ReverseQuery) (geocoding.Collection, error) {
	f.lastReverse = q
	f.reverseCalls++

	return f.results, f.err
}

func setupServerTest(t *testing.T, g *fakeGeocoder) http.Handler {
	t.Helper()

	gin.SetMode(gin.TestMode)

	return NewServer(g, nil).Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	return w
}

func TestGeocodeAPI(t *testing.T) {
	g := &fakeGeocoder{results: geocoding.Collection{
		{Latitude: 50.841973, Longitude: 4.362288, StreetName: "Place des Palais", StreetNumber: "1", ProvidedBy: "fake"},
	}}
	h := setupServerTest(t, g)

	w := get(t, h, "/api/geocode?q=Place+des+Palais+1&street=Place+des+Palais&number=1&postal_code=1000&locality=Bruxelles&lang=fr&limit=3")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, geocoding.GeocodeQuery{
		Text:         "Place des Palais 1",
		StreetName:   "Place des Palais",
		StreetNumber: "1",
		PostalCode:   "1000",
		Locality:     "Bruxelles",
		Locale:       "fr",
		Limit:        3,
	}, g.lastGeocode)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "fake", resp.Provider)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Place des Palais", resp.Results[0].StreetName)
}

func TestGeocodeAPIEmpty(t *testing.T) {
	h := setupServerTest(t, &fakeGeocoder{})

	w := get(t, h, "/api/geocode?q=nowhere")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"provider":"fake","count":0,"results":[]}`, w.Body.String())
}

func TestGeocodeAPIBadLimit(t *testing.T) {
	g := &fakeGeocoder{}
	h := setupServerTest(t, g)

	w := get(t, h, "/api/geocode?q=x&limit=many")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_argument")
}

func TestGeocodeAPIErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantType string
	}{
		{"invalid argument", geocoding.NewError(geocoding.ErrorTypeInvalidArgument, "bad"), http.StatusBadRequest, "invalid_argument"},
		{"unsupported", geocoding.NewError(geocoding.ErrorTypeUnsupportedOperation, "ip"), http.StatusNotImplemented, "unsupported_operation"},
		{"credentials", geocoding.NewError(geocoding.ErrorTypeInvalidCredentials, "401"), http.StatusBadGateway, "invalid_credentials"},
		{"quota", geocoding.NewError(geocoding.ErrorTypeQuotaExceeded, "429"), http.StatusTooManyRequests, "quota_exceeded"},
		{"server response", geocoding.NewError(geocoding.ErrorTypeInvalidServerResponse, "500"), http.StatusBadGateway, "invalid_server_response"},
		{"network", geocoding.NewError(geocoding.ErrorTypeNetworkError, "down"), http.StatusServiceUnavailable, "network_error"},
		{"plain error", assert.AnError, http.StatusInternalServerError, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupServerTest(t, &fakeGeocoder{err: tt.err})

			w := get(t, h, "/api/geocode?q=x")
			assert.Equal(t, tt.wantCode, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantType, body["type"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestReverseAPI(t *testing.T) {
	g := &fakeGeocoder{results: geocoding.Collection{{Latitude: 50.841973, Longitude: 4.362288}}}
	h := setupServerTest(t, g)

	w := get(t, h, "/api/reverse?lat=50.841973&lng=4.362288&radius=100&lang=nl&limit=2")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, geocoding.ReverseQuery{
		Latitude:  50.841973,
		Longitude: 4.362288,
		Radius:    100,
		Locale:    "nl",
		Limit:     2,
	}, g.lastReverse)
}

func TestReverseAPIZeroCoordinates(t *testing.T) {
	g := &fakeGeocoder{}
	h := setupServerTest(t, g)

	w := get(t, h, "/api/reverse?lat=0&lng=0")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, g.reverseCalls)
}

func TestReverseAPIMissingCoordinates(t *testing.T) {
	for _, target := range []string{
		"/api/reverse",
		"/api/reverse?lat=50.8",
		"/api/reverse?lng=4.3",
		"/api/reverse?lat=north&lng=4.3",
	} {
		t.Run(target, func(t *testing.T) {
			g := &fakeGeocoder{}
			h := setupServerTest(t, g)

			w := get(t, h, target)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Zero(t, g.reverseCalls)
		})
	}
}

func TestHealthz(t *testing.T) {
	h := setupServerTest(t, &fakeGeocoder{})

	w := get(t, h, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","provider":"fake"}`, w.Body.String())
}

func TestRunStopsOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- NewServer(&fakeGeocoder{}, nil).Run(ctx, "127.0.0.1:0")
	}()

	cancel()
	assert.NoError(t, <-done)
}
