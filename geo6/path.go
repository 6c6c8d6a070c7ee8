// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package geo6

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/jcodagnone/geo6/geocoding"
)

const (
	geocodePrefix = "/geocode/getAddressList"
	reversePrefix = "/latlng"
)

// PathForm is the shape of a forward geocoding path.
type PathForm int

// Path forms, from least to most structured.
const (
	// PathFreeText: /geocode/getAddressList/{text}
	PathFreeText PathForm = iota
	// PathStreet: /geocode/getAddressList/{street}/{number}
	PathStreet
	// PathPartial: /geocode/getAddressList/{postalCodeOrLocality}/{street}/{number}
	PathPartial
	// PathFull: /geocode/getAddressList/{locality}/{postalCode}/{street}/{number}
	PathFull
)

func (f PathForm) String() string {
	switch f {
	case PathFreeText:
		return "free_text"
	case PathStreet:
		return "street"
	case PathPartial:
		return "partial"
	case PathFull:
		return "full"
	default:
		return "PathForm(" + strconv.Itoa(int(f)) + ")"
	}
}

// SelectPathForm picks the form from the area fields first: postal code and
// locality give the full form, either one the partial form. A street name
// alone gives the street form, anything else is sent as free text.
func SelectPathForm(q *geocoding.GeocodeQuery) PathForm {
	street := strings.TrimSpace(q.StreetName)
	postalCode := strings.TrimSpace(q.PostalCode)
	locality := strings.TrimSpace(q.Locality)

	switch {
	case postalCode != "" && locality != "":
		return PathFull
	case postalCode != "" || locality != "":
		return PathPartial
	case street != "":
		return PathStreet
	default:
		return PathFreeText
	}
}

// GeocodePath builds the escaped request path for q. Empty trailing segments
// are left out, and so is a street number without a street name.
func GeocodePath(q *geocoding.GeocodeQuery) (string, PathForm) {
	form := SelectPathForm(q)

	street := strings.TrimSpace(q.StreetName)

	number := strings.TrimSpace(q.StreetNumber)
	if street == "" {
		number = ""
	}

	var segments []string

	switch form {
	case PathFull:
		segments = []string{q.Locality, q.PostalCode, street, number}
	case PathPartial:
		area := q.PostalCode
		if strings.TrimSpace(area) == "" {
			area = q.Locality
		}

		segments = []string{area, street, number}
	case PathStreet:
		segments = []string{street, number}
	default:
		segments = []string{q.Text}
	}

	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}

	if form != PathFreeText {
		for len(segments) > 1 && segments[len(segments)-1] == "" {
			segments = segments[:len(segments)-1]
		}
	}

	var b strings.Builder

	b.WriteString(geocodePrefix)

	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}

	return b.String(), form
}

// ReversePath builds the request path for a reverse lookup.
func ReversePath(q *geocoding.ReverseQuery) string {
	parts := []string{
		strconv.FormatFloat(q.Latitude, 'f', -1, 64),
		strconv.FormatFloat(q.Longitude, 'f', -1, 64),
	}

	if q.Radius > 0 {
		parts = append(parts, strconv.FormatFloat(q.Radius, 'f', -1, 64))
	}

	return reversePrefix + "/" + strings.Join(parts, ",")
}
