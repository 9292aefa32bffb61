package proxy

import (
	"encoding/json"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Forwarder relays a request to one downstream service, keeping the
// downstream's status and body intact. The gateway's /api prefix is
// stripped before forwarding.
type Forwarder struct {
	target      *url.URL
	proxy       *httputil.ReverseProxy
	stripPrefix string
	logger      zerolog.Logger
}

type Options struct {
	Timeout         time.Duration
	MaxIdleConns    int
	IdleConnTimeout time.Duration
}

func NewForwarder(targetURL, stripPrefix string, opts Options, logger zerolog.Logger) (*Forwarder, error) {
	target, err := url.Parse(targetURL)
	if err != nil {
		return nil, err
	}

	f := &Forwarder{
		target:      target,
		stripPrefix: stripPrefix,
		logger:      logger,
	}

	f.proxy = httputil.NewSingleHostReverseProxy(target)
	f.proxy.Director = f.director
	f.proxy.Transport = &http.Transport{
		MaxIdleConns:          opts.MaxIdleConns,
		IdleConnTimeout:       opts.IdleConnTimeout,
		ResponseHeaderTimeout: opts.Timeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	f.proxy.ErrorHandler = f.errorHandler

	return f, nil
}

func (f *Forwarder) director(req *http.Request) {
	originalPath := req.URL.Path

	req.URL.Scheme = f.target.Scheme
	req.URL.Host = f.target.Host
	req.Host = f.target.Host

	// Убираем префикс gateway, downstream его не знает
	if f.stripPrefix != "" && strings.HasPrefix(req.URL.Path, f.stripPrefix) {
		req.URL.Path = req.URL.Path[len(f.stripPrefix):]
		if req.URL.Path == "" {
			req.URL.Path = "/"
		}
	}

	req.Header.Set("X-Forwarded-Host", req.Host)
	req.Header.Set("X-Forwarded-For", req.RemoteAddr)
	req.Header.Set("X-Forwarded-Proto", req.URL.Scheme)

	f.logger.Debug().
		Str("method", req.Method).
		Str("original_path", originalPath).
		Str("target_path", req.URL.Path).
		Str("target", f.target.String()).
		Msg("Proxying request")
}

func (f *Forwarder) errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	f.logger.Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("target", f.target.String()).
		Msg("Proxy error")

	errorResponse := map[string]any{
		"error":   "Service unavailable",
		"message": "The requested service is temporarily unavailable. Please try again later.",
		"code":    "SERVICE_UNAVAILABLE",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	json.NewEncoder(w).Encode(errorResponse)
}

func (f *Forwarder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.proxy.ServeHTTP(w, r)
}
