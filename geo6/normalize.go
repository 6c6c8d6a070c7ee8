// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package geo6

import (
	"strconv"
	"strings"

	"github.com/jcodagnone/geo6/geocoding"
	"github.com/jcodagnone/geo6/spatial"
	"github.com/jcodagnone/geo6/utils/textutils"
)

// ProviderName identifies addresses produced by this package.
const ProviderName = "geo6"

// Admin levels used in Belgium.
const (
	AdminLevelRegion       = 1
	AdminLevelProvince     = 2
	AdminLevelMunicipality = 3
)

// ComponentSet is the view of a feature in one locale.
type ComponentSet struct {
	Country      string
	CountryCode  string
	Region       string
	Province     string
	Municipality string
	Locality     string
	PostalCode   string
	Street       string
	StreetNumber string

	// StreetLocale is the locale the street name was taken from.
	StreetLocale Locale
}

// Complete reports whether the set carries the fields a usable address needs.
func (s *ComponentSet) Complete() bool {
	return s.Municipality != "" && s.PostalCode != "" && s.Street != ""
}

// name walks chain until a non empty name is found.
func (c *Component) name(chain []Locale) string {
	n, _ := c.nameFrom(chain)

	return n
}

// nameFrom is name, also reporting the locale the name came from.
func (c *Component) nameFrom(chain []Locale) (string, Locale) {
	for _, l := range chain {
		if n := strings.TrimSpace(c.Name(l)); n != "" {
			return n, l
		}
	}

	return "", ""
}

// idOrName prefers the language independent id.
func (c *Component) idOrName(chain []Locale) string {
	if id := strings.TrimSpace(string(c.ID)); id != "" {
		return id
	}

	return c.name(chain)
}

// setOnce keeps the first non empty value seen for a field.
func setOnce(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// ExtractComponents scans the feature components once and resolves every
// field in locale, falling back to the other locales.
func ExtractComponents(f *Feature, locale Locale) ComponentSet {
	chain := fallbackChain(locale)

	var set ComponentSet

	for i := range f.Properties.Components {
		c := &f.Properties.Components[i]

		switch c.Type {
		case ComponentCountry:
			setOnce(&set.Country, c.name(chain))
			setOnce(&set.CountryCode, strings.ToUpper(strings.TrimSpace(string(c.ID))))
		case ComponentRegion:
			setOnce(&set.Region, c.name(chain))
		case ComponentProvince:
			setOnce(&set.Province, c.name(chain))
		case ComponentMunicipality:
			setOnce(&set.Municipality, c.name(chain))
		case ComponentLocality:
			setOnce(&set.Locality, c.name(chain))
		case ComponentPostalCode:
			setOnce(&set.PostalCode, c.idOrName(chain))
		case ComponentStreet:
			if set.Street == "" {
				set.Street, set.StreetLocale = c.nameFrom(chain)
			}
		case ComponentStreetNumber:
			setOnce(&set.StreetNumber, c.idOrName(chain))
		}
	}

	return set
}

// Extract builds the address of f in locale. It returns false when the
// feature has no usable position or lacks a municipality, postal code or
// street after fallback. The address Locale is the one that supplied the
// street name, which differs from locale when the street had no name in it.
func Extract(f *Feature, locale Locale) (geocoding.Address, bool) {
	point, err := spatial.FromLonLat(f.Geometry.Coordinates)
	if err != nil || !point.Valid() {
		return geocoding.Address{}, false
	}

	set := ExtractComponents(f, locale)
	if !set.Complete() {
		return geocoding.Address{}, false
	}

	levels := make([]geocoding.AdminLevel, 0, 3)
	if set.Region != "" {
		levels = append(levels, geocoding.AdminLevel{Level: AdminLevelRegion, Name: set.Region})
	}

	if set.Province != "" {
		levels = append(levels, geocoding.AdminLevel{Level: AdminLevelProvince, Name: set.Province})
	}

	levels = append(levels, geocoding.AdminLevel{Level: AdminLevelMunicipality, Name: set.Municipality})

	return geocoding.Address{
		Latitude:     point.Lat,
		Longitude:    point.Lng,
		StreetNumber: set.StreetNumber,
		StreetName:   set.Street,
		PostalCode:   set.PostalCode,
		Locality:     set.Municipality,
		SubLocality:  set.Locality,
		Country:      set.Country,
		CountryCode:  set.CountryCode,
		AdminLevels:  levels,
		Locale:       string(set.StreetLocale),
		ProvidedBy:   ProviderName,
	}, true
}

func dedupKey(a *geocoding.Address) string {
	return textutils.FoldKey(
		strconv.FormatFloat(a.Latitude, 'f', 7, 64),
		strconv.FormatFloat(a.Longitude, 'f', 7, 64),
		a.StreetName,
		a.StreetNumber,
		a.PostalCode,
		a.Locality,
		a.SubLocality,
	)
}

// Aggregate turns features into an ordered collection.
//
// With a requested locale each feature contributes one address, every field
// falling back through the other locales on its own. Without one, each
// feature contributes every extractable locale in fr, nl, de order. Addresses
// whose position and address lines fold to those of an earlier one are
// dropped, so a locale that only falls back to another locale's names adds
// nothing. limit caps the number of contributing features, 0 means no cap.
func Aggregate(features []Feature, requested Locale, limit int) geocoding.Collection {
	collection := geocoding.Collection{}
	seen := make(map[string]bool)
	contributing := 0

	add := func(a geocoding.Address) bool {
		key := dedupKey(&a)
		if seen[key] {
			return false
		}

		seen[key] = true
		collection = append(collection, a)

		return true
	}

	for i := range features {
		if limit > 0 && contributing >= limit {
			break
		}

		added := false

		if requested != "" {
			// if requested fails no other locale can succeed, fields already
			// walk the whole chain
			if a, ok := Extract(&features[i], requested); ok {
				added = add(a)
			}
		} else {
			for _, l := range Locales {
				if a, ok := Extract(&features[i], l); ok {
					added = add(a) || added
				}
			}
		}

		if added {
			contributing++
		}
	}

	return collection
}
