package security

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/km-arc/go-force/framework/config"
	gohttp "github.com/km-arc/go-force/framework/http"
)

// ClaimsAttribute is the request attribute holding validated *Claims.
const ClaimsAttribute = "security.claims"

// Filter orders. The rate limiter runs before authentication.
const (
	RateLimitOrder = -200
	SecurityOrder  = -100
)

// ── SecurityFilter ────────────────────────────────────────────────────────────

// SecurityFilter guards routes marked Secured with a bearer token.
type SecurityFilter struct {
	validator TokenValidator
	logger    *zap.Logger
}

func NewSecurityFilter(validator TokenValidator, logger *zap.Logger) *SecurityFilter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SecurityFilter{validator: validator, logger: logger}
}

func (f *SecurityFilter) Order() int { return SecurityOrder }

func (f *SecurityFilter) DoFilter(req *gohttp.Request) error {
	route := req.Route()
	if route == nil || !route.Secured {
		return nil
	}

	token := req.BearerToken()
	if token == "" {
		f.logger.Debug("missing token", zap.Stringer("route", route))
		return &AuthorizationError{Message: route.Message()}
	}
	claims, err := f.validate(token)
	if err != nil || claims == nil {
		f.logger.Debug("token rejected", zap.Stringer("route", route), zap.Error(err))
		return &AuthorizationError{Message: route.Message(), Err: err}
	}

	req.SetAttribute(ClaimsAttribute, claims)
	return nil
}

// validate treats a panicking validator like a rejected token.
func (f *SecurityFilter) validate(token string) (claims *Claims, err error) {
	defer func() {
		if r := recover(); r != nil {
			claims, err = nil, fmt.Errorf("%w: validator panicked: %v", ErrInvalidToken, r)
		}
	}()
	return f.validator.Validate(token)
}

// ClaimsFrom returns the claims of the authenticated request carried by ctx.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	req, ok := gohttp.FromContext(ctx)
	if !ok {
		return nil, false
	}
	v, ok := req.Attribute(ClaimsAttribute)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

// ── RateLimitFilter ───────────────────────────────────────────────────────────

// RateLimitFilter keeps one token bucket per client IP.
type RateLimitFilter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	logger   *zap.Logger
}

// NewRateLimitFilter builds the limiter from ratelimit.rps and ratelimit.burst.
// A rate of zero or less disables it.
func NewRateLimitFilter(cfg config.RateLimitConfig, logger *zap.Logger) *RateLimitFilter {
	if logger == nil {
		logger = zap.NewNop()
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &RateLimitFilter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(cfg.RPS),
		burst:    burst,
		logger:   logger,
	}
}

func (f *RateLimitFilter) Order() int { return RateLimitOrder }

// Enabled reports whether requests are limited at all.
func (f *RateLimitFilter) Enabled() bool { return f.limit > 0 }

func (f *RateLimitFilter) DoFilter(req *gohttp.Request) error {
	if !f.Enabled() {
		return nil
	}
	client := req.IP()
	if !f.limiter(client).Allow() {
		f.logger.Warn("rate limit exceeded",
			zap.String("client", client),
			zap.String("method", req.Method()),
			zap.String("path", req.Path()),
		)
		return &TooManyRequestsError{Client: client}
	}
	return nil
}

func (f *RateLimitFilter) limiter(client string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()

	l, ok := f.limiters[client]
	if !ok {
		l = rate.NewLimiter(f.limit, f.burst)
		f.limiters[client] = l
	}
	return l
}

// Clients returns the number of tracked clients.
func (f *RateLimitFilter) Clients() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.limiters)
}
