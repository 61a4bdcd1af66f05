package client

import (
	"crypto/tls"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/kvwire-go/pkg/resp"
)

// Default timeouts.
const (
	DefaultDialTimeout  = 5 * time.Second
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 30 * time.Second
)

type options struct {
	dialTimeout  time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
	observer     Observer
	limiter      *rate.Limiter
	decoderOpts  []resp.DecoderOption
	tlsConfig    *tls.Config
}

func defaultOptions() options {
	return options{
		dialTimeout:  DefaultDialTimeout,
		readTimeout:  DefaultReadTimeout,
		writeTimeout: DefaultWriteTimeout,
	}
}

// Option configures a Client.
type Option func(*options)

// WithDialTimeout bounds connection establishment. Zero disables the bound.
func WithDialTimeout(d time.Duration) Option {
	return func(o *options) { o.dialTimeout = d }
}

// WithReadTimeout bounds the wait for each reply. Zero disables the bound.
func WithReadTimeout(d time.Duration) Option {
	return func(o *options) { o.readTimeout = d }
}

// WithWriteTimeout bounds each request write. Zero disables the bound.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) { o.writeTimeout = d }
}

// WithObserver receives an event for every request and reply. Multiple
// calls accumulate.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs == nil {
			return
		}
		if o.observer == nil {
			o.observer = obs
			return
		}
		o.observer = Observers(o.observer, obs)
	}
}

// WithRateLimit throttles commands to perSecond with the given burst.
// A non-positive perSecond disables throttling.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(o *options) {
		if perSecond <= 0 {
			o.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithDecoderOptions passes limits to the reply decoder.
func WithDecoderOptions(opts ...resp.DecoderOption) Option {
	return func(o *options) { o.decoderOpts = append(o.decoderOpts, opts...) }
}

// WithTLS makes Dial run a TLS handshake over the new connection. An empty
// ServerName is taken from the dialed host.
func WithTLS(cfg *tls.Config) Option {
	return func(o *options) { o.tlsConfig = cfg }
}
