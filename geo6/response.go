// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package geo6

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ComponentType is the closed set of component kinds the API returns.
type ComponentType string

// Component types.
const (
	ComponentCountry      ComponentType = "country"
	ComponentLocality     ComponentType = "locality"
	ComponentMunicipality ComponentType = "municipality"
	ComponentPostalCode   ComponentType = "postal_code"
	ComponentProvince     ComponentType = "province"
	ComponentRegion       ComponentType = "region"
	ComponentStreet       ComponentType = "street"
	ComponentStreetNumber ComponentType = "street_number"
)

// Valid reports whether t is a known component type.
func (t ComponentType) Valid() bool {
	switch t {
	case ComponentCountry, ComponentLocality, ComponentMunicipality, ComponentPostalCode,
		ComponentProvince, ComponentRegion, ComponentStreet, ComponentStreetNumber:
		return true
	default:
		return false
	}
}

// FeatureCollection is the body of a getAddressList or latlng response.
type FeatureCollection struct {
	Features []Feature `json:"features"`
}

// Feature is one candidate address.
type Feature struct {
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
}

// Geometry holds a GeoJSON position, [lon, lat].
type Geometry struct {
	Type        string    `json:"type,omitempty"`
	Coordinates []float64 `json:"coordinates"`
}

// Properties of a feature.
type Properties struct {
	Components []Component `json:"components"`
}

// Component is a typed address fragment named in up to three languages.
type Component struct {
	Type   ComponentType `json:"type"`
	ID     Identifier    `json:"id,omitempty"`
	NameFR string        `json:"name_fr,omitempty"`
	NameNL string        `json:"name_nl,omitempty"`
	NameDE string        `json:"name_de,omitempty"`
}

// Name returns the component name for locale, empty when missing.
func (c *Component) Name(locale Locale) string {
	switch locale {
	case French:
		return c.NameFR
	case Dutch:
		return c.NameNL
	case German:
		return c.NameDE
	default:
		return ""
	}
}

// Identifier is a component id. The API sends postal codes and house
// numbers either as strings or as numbers.
type Identifier string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *Identifier) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*id = Identifier(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("geo6: component id: %w", err)
		}

		if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
			*id = Identifier(strconv.FormatInt(i, 10))
		} else {
			*id = Identifier(n.String())
		}
	}

	return nil
}
