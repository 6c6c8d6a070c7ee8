// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package geo6

import (
	"testing"

	"github.com/jcodagnone/geo6/geocoding"
	"github.com/stretchr/testify/assert"
)

func TestGeocodePath(t *testing.T) {
	tests := []struct {
		name     string
		query    geocoding.GeocodeQuery
		wantPath string
		wantForm PathForm
	}{
		{
			name: "full",
			query: geocoding.GeocodeQuery{
				Text:         "1 Place des Palais 1000 Bruxelles",
				StreetName:   "Place des Palais",
				StreetNumber: "1",
				PostalCode:   "1000",
				Locality:     "Bruxelles",
			},
			wantPath: "/geocode/getAddressList/Bruxelles/1000/Place%20des%20Palais/1",
			wantForm: PathFull,
		},
		{
			name:     "partial with postal code",
			query:    geocoding.GeocodeQuery{StreetName: "Rue Neuve", StreetNumber: "25", PostalCode: "1000"},
			wantPath: "/geocode/getAddressList/1000/Rue%20Neuve/25",
			wantForm: PathPartial,
		},
		{
			name:     "partial with locality",
			query:    geocoding.GeocodeQuery{StreetName: "Meir", StreetNumber: "1", Locality: "Antwerpen"},
			wantPath: "/geocode/getAddressList/Antwerpen/Meir/1",
			wantForm: PathPartial,
		},
		{
			name:     "street only",
			query:    geocoding.GeocodeQuery{StreetName: "Rue de l'Église", StreetNumber: "3"},
			wantPath: "/geocode/getAddressList/Rue%20de%20l%27%C3%89glise/3",
			wantForm: PathStreet,
		},
		{
			name:     "street without number",
			query:    geocoding.GeocodeQuery{StreetName: "Meir", Locality: "Antwerpen"},
			wantPath: "/geocode/getAddressList/Antwerpen/Meir",
			wantForm: PathPartial,
		},
		{
			name:     "free text",
			query:    geocoding.GeocodeQuery{Text: "Grote Markt 1, 2000 Antwerpen"},
			wantPath: "/geocode/getAddressList/Grote%20Markt%201%2C%202000%20Antwerpen",
			wantForm: PathFreeText,
		},
		{
			name:     "postal code and locality without street",
			query:    geocoding.GeocodeQuery{Text: "Bruxelles 1000", PostalCode: "1000", Locality: "Bruxelles"},
			wantPath: "/geocode/getAddressList/Bruxelles/1000",
			wantForm: PathFull,
		},
		{
			name:     "locality without street",
			query:    geocoding.GeocodeQuery{Text: "Antwerpen", Locality: "Antwerpen"},
			wantPath: "/geocode/getAddressList/Antwerpen",
			wantForm: PathPartial,
		},
		{
			name:     "number without street is dropped",
			query:    geocoding.GeocodeQuery{Text: "3 Liège", PostalCode: "4000", Locality: "Liège", StreetNumber: "3"},
			wantPath: "/geocode/getAddressList/Li%C3%A8ge/4000",
			wantForm: PathFull,
		},
		{
			name:     "slash is escaped",
			query:    geocoding.GeocodeQuery{StreetName: "Chaussée de Wavre", StreetNumber: "12/3"},
			wantPath: "/geocode/getAddressList/Chauss%C3%A9e%20de%20Wavre/12%2F3",
			wantForm: PathStreet,
		},
		{
			name:     "blank fields are trimmed",
			query:    geocoding.GeocodeQuery{StreetName: " Meir ", PostalCode: " ", Locality: "  "},
			wantPath: "/geocode/getAddressList/Meir",
			wantForm: PathStreet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, form := GeocodePath(&tt.query)
			assert.Equal(t, tt.wantPath, path)
			assert.Equal(t, tt.wantForm, form, "form %s", form)
		})
	}
}

func TestSelectPathFormTotal(t *testing.T) {
	values := []string{"", "x"}

	// every combination of the five fields maps to exactly one form
	for _, text := range values {
		for _, street := range values {
			for _, number := range values {
				for _, postal := range values {
					for _, locality := range values {
						q := geocoding.GeocodeQuery{
							Text:         text,
							StreetName:   street,
							StreetNumber: number,
							PostalCode:   postal,
							Locality:     locality,
						}

						form := SelectPathForm(&q)
						again := SelectPathForm(&q)
						assert.Equal(t, form, again)

						switch {
						case postal != "" && locality != "":
							assert.Equal(t, PathFull, form)
						case postal != "" || locality != "":
							assert.Equal(t, PathPartial, form)
						case street != "":
							assert.Equal(t, PathStreet, form)
						default:
							assert.Equal(t, PathFreeText, form)
						}
					}
				}
			}
		}
	}
}

func TestReversePath(t *testing.T) {
	tests := []struct {
		name  string
		query geocoding.ReverseQuery
		want  string
	}{
		{
			name:  "no radius",
			query: geocoding.ReverseQuery{Latitude: 50.841973, Longitude: 4.362288},
			want:  "/latlng/50.841973,4.362288",
		},
		{
			name:  "radius",
			query: geocoding.ReverseQuery{Latitude: 50.5, Longitude: 4, Radius: 250},
			want:  "/latlng/50.5,4,250",
		},
		{
			name:  "negative coordinates are plain decimals",
			query: geocoding.ReverseQuery{Latitude: -0.000001, Longitude: -4.25},
			want:  "/latlng/-0.000001,-4.25",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReversePath(&tt.query))
		})
	}
}

func TestPathFormString(t *testing.T) {
	assert.Equal(t, "full", PathFull.String())
	assert.Equal(t, "PathForm(9)", PathForm(9).String())
}
