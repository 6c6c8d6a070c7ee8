// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocoding defines the provider independent geocoding types.
package geocoding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// GeocodeQuery is a forward lookup: free text, structured fields, or both.
type GeocodeQuery struct {
	Text         string `json:"text,omitempty" validate:"max=500"`
	StreetName   string `json:"street_name,omitempty"`
	StreetNumber string `json:"street_number,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Locality     string `json:"locality,omitempty"`

	// Locale is a language hint such as "fr", "nl-BE" or empty.
	Locale string `json:"locale,omitempty" validate:"omitempty,bcp47_language_tag"`

	// Limit caps the number of returned addresses, 0 uses the provider default.
	Limit int `json:"limit,omitempty" validate:"gte=0,lte=100"`
}

// Validate checks the field constraints of the query.
func (q GeocodeQuery) Validate() error {
	return validationError(validate.Struct(q))
}

// ReverseQuery is a reverse lookup around a coordinate.
type ReverseQuery struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`

	// Radius in metres, 0 lets the API decide.
	Radius float64 `json:"radius,omitempty" validate:"gte=0"`

	Locale string `json:"locale,omitempty" validate:"omitempty,bcp47_language_tag"`
	Limit  int    `json:"limit,omitempty" validate:"gte=0,lte=100"`
}

// Validate checks the field constraints of the query.
func (q ReverseQuery) Validate() error {
	return validationError(validate.Struct(q))
}

func validationError(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return WrapError(ErrorTypeInvalidArgument, "invalid query", err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}

	return WrapError(ErrorTypeInvalidArgument, "invalid query fields: "+strings.Join(fields, ", "), err)
}

// AdminLevel places a sub national division in a flat ordered list.
type AdminLevel struct {
	Level int    `json:"level"`
	Name  string `json:"name"`
}

// Address is a normalized geocoding result.
type Address struct {
	Latitude     float64      `json:"latitude"`
	Longitude    float64      `json:"longitude"`
	StreetNumber string       `json:"street_number,omitempty"`
	StreetName   string       `json:"street_name,omitempty"`
	PostalCode   string       `json:"postal_code,omitempty"`
	Locality     string       `json:"locality,omitempty"`
	SubLocality  string       `json:"sub_locality,omitempty"`
	Country      string       `json:"country,omitempty"`
	CountryCode  string       `json:"country_code,omitempty"`
	AdminLevels  []AdminLevel `json:"admin_levels,omitempty"`
	Locale       string       `json:"locale,omitempty"`
	ProvidedBy   string       `json:"provided_by"`
}

// AdminLevel returns the name at the given level.
func (a *Address) AdminLevel(level int) (string, bool) {
	for _, l := range a.AdminLevels {
		if l.Level == level {
			return l.Name, true
		}
	}

	return "", false
}

// Collection is an ordered list of addresses. An empty collection is a valid
// answer.
type Collection []Address

// First returns the first address of the collection.
func (c Collection) First() (Address, bool) {
	if len(c) == 0 {
		return Address{}, false
	}

	return c[0], true
}

// Geocoder is implemented by every geocoding provider.
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, query GeocodeQuery) (Collection, error)
	Reverse(ctx context.Context, query ReverseQuery) (Collection, error)
}
