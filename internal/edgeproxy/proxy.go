// Package edgeproxy forwards custom-domain traffic to the identity provider's edge.
package edgeproxy

import (
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/smallbiznis/replate/internal/config"
	"github.com/smallbiznis/replate/internal/observability/logger"
	"github.com/smallbiznis/replate/internal/observability/tracing"
	"go.uber.org/zap"
)

const HeaderCNAMEAPIKey = "cname-api-key"

var (
	ErrMissingEdgeLocation = errors.New("edge_location_missing")
	ErrMissingCNAMEAPIKey  = errors.New("cname_api_key_missing")
)

// New returns a reverse proxy that rewrites every request onto the edge
// location and authenticates it with the CNAME API key.
func New(cfg config.Config, log *zap.Logger) (*httputil.ReverseProxy, error) {
	target, err := edgeURL(cfg.EdgeProxy.EdgeLocation)
	if err != nil {
		return nil, err
	}
	apiKey := strings.TrimSpace(cfg.EdgeProxy.CNAMEAPIKey)
	if apiKey == "" {
		return nil, ErrMissingCNAMEAPIKey
	}
	log = log.Named("edgeproxy")

	return &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.Out.URL.Path = r.In.URL.Path
			r.Out.URL.RawPath = r.In.URL.RawPath
			r.Out.URL.RawQuery = r.In.URL.RawQuery
			r.SetXForwarded()
			r.Out.Header.Set(HeaderCNAMEAPIKey, apiKey)
		},
		Transport: tracing.NewTransport(http.DefaultTransport),
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.WithContext(r.Context(), log).Error("edge request failed",
				zap.String("path", r.URL.Path),
				zap.Error(tracing.SafeError(err)),
			)
			w.WriteHeader(http.StatusBadGateway)
		},
	}, nil
}

// edgeURL accepts a bare host (served over https) or a full base URL.
func edgeURL(location string) (*url.URL, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrMissingEdgeLocation
	}
	if !strings.Contains(location, "://") {
		location = "https://" + location
	}
	u, err := url.Parse(location)
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, ErrMissingEdgeLocation
	}
	u.Path = ""
	u.RawPath = ""
	u.RawQuery = ""
	return u, nil
}
