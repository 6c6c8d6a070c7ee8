// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jcodagnone/geo6/geocoding"
	"github.com/jcodagnone/geo6/spatial"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type lookupOptions struct {
	StreetName   string
	StreetNumber string
	PostalCode   string
	Locality     string
	Lang         string
	Limit        int
	Radius       float64
	H3Resolution int
}

var geocodeFlags = &lookupOptions{}

// result is an address as printed by the command line.
type result struct {
	geocoding.Address
	H3 string `json:"h3,omitempty"`
}

// writeResults prints one JSON object per address. A positive h3Res adds the
// H3 cell of each address.
func writeResults(w io.Writer, results geocoding.Collection, h3Res int) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, a := range results {
		r := result{Address: a}

		if h3Res > 0 {
			p := spatial.Point{Lat: a.Latitude, Lng: a.Longitude}

			cell, err := p.Cell(h3Res)
			if err != nil {
				return fmt.Errorf("computing h3 cell: %w", err)
			}

			r.H3 = cell.String()
		}

		if err := enc.Encode(r); err != nil {
			return err
		}
	}

	return nil
}

func (o *lookupOptions) structured() bool {
	return o.StreetName != "" || o.StreetNumber != "" || o.PostalCode != "" || o.Locality != ""
}

func (o *lookupOptions) geocodeQuery(text string) geocoding.GeocodeQuery {
	return geocoding.GeocodeQuery{
		Text:         text,
		StreetName:   o.StreetName,
		StreetNumber: o.StreetNumber,
		PostalCode:   o.PostalCode,
		Locality:     o.Locality,
		Locale:       o.Lang,
		Limit:        o.Limit,
	}
}

// geocodeLines runs one free text lookup per input line. Failures are
// reported inline and do not stop the loop.
func geocodeLines(ctx context.Context, g geocoding.Geocoder, in io.Reader, out io.Writer, o *lookupOptions) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		results, err := g.Geocode(ctx, o.geocodeQuery(line))
		if err != nil {
			fmt.Fprintf(out, "%s\t%q\n", line, err)

			continue
		}

		if len(results) == 0 {
			fmt.Fprintf(out, "%s\t%q\n", line, "no results")

			continue
		}

		if err := writeResults(out, results, o.H3Resolution); err != nil {
			return err
		}
	}

	return scanner.Err()
}

var geocodeCmd = &cobra.Command{
	Use:   "geocode [text]",
	Short: "Geocode a Belgian address",
	Long: `Geocodes a free text or structured address and prints one JSON address per
line. Without text nor structured flags it reads one address per line from stdin.

$ geo6 geocode --street "Place des Palais" --number 1 --postal-code 1000 --locality Bruxelles --lang fr
{"latitude":50.841973,"longitude":4.362288,"street_number":"1","street_name":"Place des Palais",…}
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := newProvider()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		text := strings.Join(args, " ")

		if text == "" && !geocodeFlags.structured() {
			if isatty.IsTerminal(os.Stdin.Fd()) {
				fmt.Fprintln(os.Stderr, "Enter addresses to geocode, one per line…")
			}

			return geocodeLines(ctx, provider, os.Stdin, os.Stdout, geocodeFlags)
		}

		results, err := provider.Geocode(ctx, geocodeFlags.geocodeQuery(text))
		if err != nil {
			return err
		}

		return writeResults(os.Stdout, results, geocodeFlags.H3Resolution)
	},
}

func addLookupFlags(cmd *cobra.Command, o *lookupOptions) {
	cmd.Flags().StringVar(&o.Lang, "lang", "", "Preferred language: fr, nl or de. Empty returns every language")
	cmd.Flags().IntVar(&o.Limit, "limit", 0, "Maximum number of places, 0 uses the provider default")
	cmd.Flags().IntVar(&o.H3Resolution, "h3-res", 0, "Add the H3 cell at this resolution (1-15) to each result")
}

func init() {
	rootCmd.AddCommand(geocodeCmd)
	addLookupFlags(geocodeCmd, geocodeFlags)
	geocodeCmd.Flags().StringVar(&geocodeFlags.StreetName, "street", "", "Street name")
	geocodeCmd.Flags().StringVar(&geocodeFlags.StreetNumber, "number", "", "Street number")
	geocodeCmd.Flags().StringVar(&geocodeFlags.PostalCode, "postal-code", "", "Postal code")
	geocodeCmd.Flags().StringVar(&geocodeFlags.Locality, "locality", "", "Municipality")
}
