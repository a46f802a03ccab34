// Package multitenancy describes on whose behalf a caller acts: the host
// (the owning, root context) or one tenant.
//
// The side is always supplied by the caller. FromAccessToken reads it from
// the tenantid claim ABP puts into its access tokens; the signature is not
// verified because the token is only inspected, never trusted, client side.
package multitenancy

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Side is the caller's role.
type Side int

const (
	Host Side = iota
	Tenant
)

func (s Side) String() string {
	if s == Tenant {
		return "tenant"
	}
	return "host"
}

var (
	ErrMalformedToken  = errors.New("multitenancy: malformed access token")
	ErrInvalidTenantID = errors.New("multitenancy: invalid tenant id claim")
)

// Current is the resolved caller context.
type Current struct {
	TenantID   *uuid.UUID
	TenantName string
}

// Side reports Tenant when a tenant id or name is present.
func (c Current) Side() Side {
	if c.TenantID != nil || c.TenantName != "" {
		return Tenant
	}
	return Host
}

// IsTenant is shorthand for c.Side() == Tenant.
func (c Current) IsTenant() bool {
	return c.Side() == Tenant
}

type abpClaims struct {
	TenantID   string `json:"tenantid"`
	TenantName string `json:"tenantname"`
	jwt.RegisteredClaims
}

// FromAccessToken extracts the tenant claims from an ABP access token.
// Host tokens carry no tenantid claim.
func FromAccessToken(token string) (Current, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	var claims abpClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Current{}, errors.Join(ErrMalformedToken, err)
	}

	cur := Current{TenantName: claims.TenantName}
	if claims.TenantID != "" {
		id, err := uuid.Parse(claims.TenantID)
		if err != nil {
			return Current{}, errors.Join(ErrInvalidTenantID, err)
		}
		cur.TenantID = &id
	}
	return cur, nil
}

type contextKey struct{}

// WithCurrent stores the caller context in ctx.
func WithCurrent(ctx context.Context, cur Current) context.Context {
	return context.WithValue(ctx, contextKey{}, cur)
}

// FromContext returns the caller context, defaulting to the host.
func FromContext(ctx context.Context) Current {
	if ctx == nil {
		return Current{}
	}
	cur, _ := ctx.Value(contextKey{}).(Current)
	return cur
}

// LoggerExtractor returns a logger ContextExtractor recording the side and tenant id.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		cur, ok := ctx.Value(contextKey{}).(Current)
		if !ok {
			return slog.Attr{}, false
		}
		attrs := []slog.Attr{slog.String("side", cur.Side().String())}
		if cur.TenantID != nil {
			attrs = append(attrs, slog.String("tenant_id", cur.TenantID.String()))
		}
		return slog.Attr{Key: "multitenancy", Value: slog.GroupValue(attrs...)}, true
	}
}
