// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jcodagnone/geo6/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	queries []geocoding.GeocodeQuery
}

func (s *stubGeocoder) Name() string { return "stub" }

func (s *stubGeocoder) Geocode(_ context.Context, q geocoding.GeocodeQuery) (geocoding.Collection, error) {
	s.queries = append(s.queries, q)

	switch q.Text {
	case "10.0.0.1":
		return nil, geocoding.NewError(geocoding.ErrorTypeUnsupportedOperation, "no ip")
	case "nowhere":
		return geocoding.Collection{}, nil
	default:
		return geocoding.Collection{{Latitude: 50.841973, Longitude: 4.362288, StreetName: q.Text}}, nil
	}
}

func (s *stubGeocoder) Reverse(_ context.Context, _ geocoding.ReverseQuery) (geocoding.Collection, error) {
	return nil, nil
}

func TestWriteResults(t *testing.T) {
	var out bytes.Buffer

	results := geocoding.Collection{{Latitude: 50.841973, Longitude: 4.362288, StreetName: "Place des Palais"}}
	require.NoError(t, writeResults(&out, results, 9))

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "Place des Palais", got["street_name"])
	assert.Len(t, got["h3"], 15)

	out.Reset()
	require.NoError(t, writeResults(&out, results, 0))
	assert.NotContains(t, out.String(), "h3")

	assert.Error(t, writeResults(&out, results, 16))
}

func TestGeocodeLines(t *testing.T) {
	g := &stubGeocoder{}
	in := strings.NewReader("Rue Neuve 25\n\n10.0.0.1\nnowhere\n  Meir 1  \n")

	var out bytes.Buffer
	require.NoError(t, geocodeLines(context.Background(), g, in, &out, &lookupOptions{Lang: "nl", Limit: 2}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], `"street_name":"Rue Neuve 25"`)
	assert.True(t, strings.HasPrefix(lines[1], "10.0.0.1\t"))
	assert.Equal(t, "nowhere\t\"no results\"", lines[2])
	assert.Contains(t, lines[3], `"street_name":"Meir 1"`)

	require.Len(t, g.queries, 4)
	assert.Equal(t, "nl", g.queries[0].Locale)
	assert.Equal(t, 2, g.queries[0].Limit)
}

func TestParseCoordinates(t *testing.T) {
	lat, lng, err := parseCoordinates("50.841973", "4.362288")
	require.NoError(t, err)
	assert.InDelta(t, 50.841973, lat, 1e-9)
	assert.InDelta(t, 4.362288, lng, 1e-9)

	_, _, err = parseCoordinates("north", "4")
	assert.ErrorContains(t, err, "latitude")

	_, _, err = parseCoordinates("50", "east")
	assert.ErrorContains(t, err, "longitude")
}
