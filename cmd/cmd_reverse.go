// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jcodagnone/geo6/geocoding"
	"github.com/spf13/cobra"
)

var reverseFlags = &lookupOptions{}

func parseCoordinates(lat, lng string) (float64, float64, error) {
	latitude, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q", lat)
	}

	longitude, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q", lng)
	}

	return latitude, longitude, nil
}

var reverseCmd = &cobra.Command{
	Use:   "reverse <lat> <lng>",
	Short: "Find the addresses nearest to a coordinate",
	Long: `Prints the addresses nearest to a WGS84 coordinate, closest first.

$ geo6 reverse 50.841973 4.362288 --lang nl
{"latitude":50.841973,"longitude":4.362288,"street_number":"1","street_name":"Paleizenplein",…}
`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, lng, err := parseCoordinates(args[0], args[1])
		if err != nil {
			return err
		}

		provider, err := newProvider()
		if err != nil {
			return err
		}

		results, err := provider.Reverse(cmd.Context(), geocoding.ReverseQuery{
			Latitude:  lat,
			Longitude: lng,
			Radius:    reverseFlags.Radius,
			Locale:    reverseFlags.Lang,
			Limit:     reverseFlags.Limit,
		})
		if err != nil {
			return err
		}

		return writeResults(os.Stdout, results, reverseFlags.H3Resolution)
	},
}

func init() {
	rootCmd.AddCommand(reverseCmd)
	addLookupFlags(reverseCmd, reverseFlags)
	reverseCmd.Flags().Float64Var(&reverseFlags.Radius, "radius", 0, "Search radius in metres, 0 lets the server decide")
}
