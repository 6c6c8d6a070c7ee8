// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/jcodagnone/geo6/geo6"
	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

// printHeaders writes headers sorted by name, the way they would be sent.
func printHeaders(w io.Writer, headers map[string]string) {
	names := make([]string, 0, len(headers))
	for k := range headers {
		names = append(names, k)
	}

	slices.Sort(names)

	for _, k := range names {
		fmt.Fprintf(w, "%s: %s\n", k, headers[k])
	}
}

var debugTokenCmd = &cobra.Command{
	Use:   "token <path>",
	Short: "Print the authentication headers for a request path",
	Long: `Signs a GET request for path with the configured credentials and prints the
headers, useful to replay a request with curl.

$ geo6 debug token /geocode/getAddressList/Rue%20Neuve
X-Geo6-Consumer: my-client
X-Geo6-Timestamp: 1700000000
X-Geo6-Token: $6$…
`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		host, err := hostname(cfg.Host)
		if err != nil {
			return err
		}

		path := args[0]
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}

		signer := geo6.NewSigner(cfg.ClientID, cfg.Secret, host)

		token, err := signer.Sign(http.MethodGet, path, time.Now())
		if err != nil {
			return err
		}

		printHeaders(os.Stdout, signer.Headers(token))

		return nil
	},
}

var debugPathFlags = &lookupOptions{}

var debugPathCmd = &cobra.Command{
	Use:   "path [text]",
	Short: "Print the request path a geocode query maps to",
	Long: `Prints the path form and the request path, without calling the API.

$ geo6 debug path --street Meir --number 1 --locality Antwerpen
partial	/geocode/getAddressList/Antwerpen/Meir/1
`,
	RunE: func(_ *cobra.Command, args []string) error {
		q := debugPathFlags.geocodeQuery(strings.Join(args, " "))
		path, form := geo6.GeocodePath(&q)

		fmt.Printf("%s\t%s\n", form, path)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugTokenCmd)
	debugCmd.AddCommand(debugPathCmd)
	debugPathCmd.Flags().StringVar(&debugPathFlags.StreetName, "street", "", "Street name")
	debugPathCmd.Flags().StringVar(&debugPathFlags.StreetNumber, "number", "", "Street number")
	debugPathCmd.Flags().StringVar(&debugPathFlags.PostalCode, "postal-code", "", "Postal code")
	debugPathCmd.Flags().StringVar(&debugPathFlags.Locality, "locality", "", "Municipality")
}
