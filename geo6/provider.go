// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package geo6 implements a geocoding.Geocoder backed by the Geo6 Belgian
// address API. Names are returned in French, Dutch or German.
package geo6

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/netip"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jcodagnone/geo6/geocoding"
	"github.com/jcodagnone/geo6/spatial"
	"github.com/jcodagnone/geo6/utils/httputils"
)

// DefaultHost is the production API endpoint.
const DefaultHost = "https://ws.geo6.be"

const (
	defaultGeocodeLimit = 5
	defaultReverseLimit = 1
	defaultTimeout      = 10 * time.Second

	// bodies are small, anything bigger is not an address list
	maxBodySize  = 4 << 20
	maxErrorBody = 512
)

var _ geocoding.Geocoder = (*Provider)(nil)

// Config holds the client credentials and connection settings.
type Config struct {
	ClientID string
	Secret   string

	// Host is the API base URL, DefaultHost when empty.
	Host string

	// Referer is sent on every request, Host when empty.
	Referer string

	UserAgent string

	// Timeout of a whole request, 10s when zero.
	Timeout time.Duration

	// RateLimit in requests per second, 0 disables client side limiting.
	RateLimit float64
}

type options struct {
	client    *http.Client
	logger    *slog.Logger
	now       func() time.Time
	trace     io.Writer
	traceBody bool
}

// Option customizes a Provider.
type Option func(*options)

// WithHTTPClient replaces the HTTP client built from the Config. Timeout,
// RateLimit, UserAgent and tracing settings are then the caller's business.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.client = client }
}

// WithLogger sets the structured logger, discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock sets the time source used to sign requests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithTrace dumps every HTTP exchange to w. Tokens are redacted.
func WithTrace(w io.Writer, body bool) Option {
	return func(o *options) {
		o.trace = w
		o.traceBody = body
	}
}

// Provider is a Geo6 client. It is safe for concurrent use.
type Provider struct {
	baseURL string
	referer string
	signer  *Signer
	client  *http.Client
	log     *slog.Logger
	now     func() time.Time
}

// New creates a Provider.
func New(cfg Config, opts ...Option) (*Provider, error) {
	if cfg.ClientID == "" || cfg.Secret == "" {
		return nil, geocoding.NewError(geocoding.ErrorTypeInvalidCredentials, "geo6: client id and secret are required")
	}

	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}

	base, err := url.Parse(host)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("geo6: invalid host %q", host)
	}

	o := &options{
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	client := o.client
	if client == nil {
		client = newHTTPClient(&cfg, o)
	}

	referer := cfg.Referer
	if referer == "" {
		referer = base.Scheme + "://" + base.Host + "/"
	}

	return &Provider{
		baseURL: strings.TrimRight(base.String(), "/"),
		referer: referer,
		signer:  NewSigner(cfg.ClientID, cfg.Secret, base.Hostname()),
		client:  client,
		log:     o.logger,
		now:     o.now,
	}, nil
}

func newHTTPClient(cfg *Config, o *options) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	userAgent := "geo6/unknown"
	if cfg.UserAgent != "" {
		userAgent = cfg.UserAgent
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       30 * time.Second,
		ResponseHeaderTimeout: timeout,
	}

	loggingTransport := &httputils.LoggingRoundTripper{
		Writer:    o.trace,
		DumpBody:  o.traceBody,
		Transport: transport,
		Redact:    []string{HeaderToken},
	}

	headerTransport := &httputils.AppendRequestHeadersRoundTripper{
		Headers: map[string]string{
			"User-Agent": userAgent,
			"Accept":     "application/json",
		},
		Transport: httputils.NewRateLimitRoundTripper(loggingTransport, cfg.RateLimit),
	}

	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
			// a redirect would need a new token
			return http.ErrUseLastResponse
		},
		Transport: headerTransport,
	}
}

// Name implements geocoding.Geocoder.
func (p *Provider) Name() string {
	return ProviderName
}

// Geocode resolves a free text or structured address.
func (p *Provider) Geocode(ctx context.Context, query geocoding.GeocodeQuery) (geocoding.Collection, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	query.Text = strings.TrimSpace(query.Text)

	if isIPAddress(query.Text) {
		return nil, geocoding.NewError(geocoding.ErrorTypeUnsupportedOperation,
			"geo6: only street addresses are supported, not IP addresses")
	}

	if query.Text == "" && strings.TrimSpace(query.StreetName) == "" {
		return nil, geocoding.NewError(geocoding.ErrorTypeInvalidArgument,
			"geo6: an address or a street name is required")
	}

	locale, _ := ParseLocale(query.Locale)
	path, form := GeocodePath(&query)

	features, err := p.fetch(ctx, path, slog.String("form", form.String()))
	if err != nil {
		return nil, err
	}

	return Aggregate(features, locale, limitOrDefault(query.Limit, defaultGeocodeLimit)), nil
}

// Reverse returns the addresses nearest to a coordinate, closest first.
// Candidates outside a non zero radius are dropped.
func (p *Provider) Reverse(ctx context.Context, query geocoding.ReverseQuery) (geocoding.Collection, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	origin := spatial.Point{Lat: query.Latitude, Lng: query.Longitude}
	if !spatial.Belgium.Contains(origin) {
		p.log.Warn("geo6 reverse lookup outside Belgium", "point", origin.String())
	}

	locale, _ := ParseLocale(query.Locale)

	features, err := p.fetch(ctx, ReversePath(&query))
	if err != nil {
		return nil, err
	}

	features = nearest(features, &origin, query.Radius)

	return Aggregate(features, locale, limitOrDefault(query.Limit, defaultReverseLimit)), nil
}

// nearest orders features by distance to origin, keeping those within
// radius metres when radius is positive. Features without a position are
// dropped.
func nearest(features []Feature, origin *spatial.Point, radius float64) []Feature {
	type candidate struct {
		feature  Feature
		distance float64
	}

	candidates := make([]candidate, 0, len(features))

	for _, f := range features {
		p, err := spatial.FromLonLat(f.Geometry.Coordinates)
		if err != nil {
			continue
		}

		d := origin.HaversineDistance(&p)
		if radius > 0 && d > radius {
			continue
		}

		candidates = append(candidates, candidate{feature: f, distance: d})
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		switch {
		case a.distance < b.distance:
			return -1
		case a.distance > b.distance:
			return 1
		default:
			return 0
		}
	})

	out := make([]Feature, len(candidates))
	for i, c := range candidates {
		out[i] = c.feature
	}

	return out
}

func (p *Provider) fetch(ctx context.Context, path string, attrs ...any) ([]Feature, error) {
	log := p.log.With(slog.String("request_id", uuid.NewString()), slog.String("path", path)).With(attrs...)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return nil, geocoding.WrapError(geocoding.ErrorTypeInvalidArgument, "geo6: building request", err)
	}

	if err := p.signer.Apply(req, p.referer, p.now()); err != nil {
		return nil, geocoding.WrapError(geocoding.ErrorTypeInvalidCredentials, "geo6: signing request", err)
	}

	start := time.Now()

	resp, err := p.client.Do(req)
	if err != nil {
		log.Error("geo6 request failed", "error", err)

		return nil, geocoding.WrapError(geocoding.ErrorTypeNetworkError, "geo6: request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		log.Error("geo6 reading body failed", "status", resp.StatusCode, "error", err)

		return nil, geocoding.WrapError(geocoding.ErrorTypeInvalidServerResponse, "geo6: reading response", err)
	}

	log = log.With(slog.Int("status", resp.StatusCode), slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode >= http.StatusMultipleChoices || resp.StatusCode < http.StatusOK {
		log.Error("geo6 upstream error")

		return nil, geocoding.ClassifyHTTPError(resp.StatusCode, errorBody(body))
	}

	if len(bytes.TrimSpace(body)) == 0 {
		log.Error("geo6 empty response")

		return nil, geocoding.WrapError(geocoding.ErrorTypeInvalidServerResponse, "geo6: reading response", geocoding.ErrEmptyResponse)
	}

	var fc FeatureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		log.Error("geo6 decode failed", "error", err)

		return nil, geocoding.WrapError(geocoding.ErrorTypeInvalidServerResponse, "geo6: decoding response", err)
	}

	if len(fc.Features) == 0 {
		log.Debug("geo6 no features")
	} else {
		log.Debug("geo6 features", "count", len(fc.Features))
	}

	return fc.Features, nil
}

func errorBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "…"
	}

	return s
}

func isIPAddress(text string) bool {
	text = strings.TrimSuffix(strings.TrimPrefix(text, "["), "]")
	if text == "" {
		return false
	}

	_, err := netip.ParseAddr(text)

	return err == nil
}

func limitOrDefault(limit, def int) int {
	if limit > 0 {
		return limit
	}

	return def
}

// IsEmptyResponse reports whether err comes from a response without body.
func IsEmptyResponse(err error) bool {
	return errors.Is(err, geocoding.ErrEmptyResponse)
}
