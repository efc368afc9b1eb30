package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/NagawaEsther/live-well/internal/domain"
	"github.com/NagawaEsther/live-well/internal/metrics"
	"github.com/NagawaEsther/live-well/internal/service"
)

// Policy decides whether a request may reach its handler. Every route is
// registered with one.
type Policy struct {
	name  string
	allow func(g *service.Guard, claim *domain.IdentityClaim, r *http.Request) error
}

// Public lets every request through, with or without a token.
var Public = Policy{name: "public", allow: func(*service.Guard, *domain.IdentityClaim, *http.Request) error {
	return nil
}}

// Authenticated requires a valid bearer token.
var Authenticated = Policy{name: "authenticated", allow: func(_ *service.Guard, claim *domain.IdentityClaim, _ *http.Request) error {
	if claim == nil {
		return domain.ErrUnauthenticated
	}
	return nil
}}

// AdminOnly requires an administrator token.
var AdminOnly = Policy{name: "admin", allow: func(g *service.Guard, claim *domain.IdentityClaim, _ *http.Request) error {
	return g.RequireAdmin(claim)
}}

// SelfOrAdmin requires the token to belong to the account named by the path
// parameter param, or to an administrator.
func SelfOrAdmin(param string) Policy {
	return Policy{name: "self_or_admin", allow: func(g *service.Guard, claim *domain.IdentityClaim, r *http.Request) error {
		if claim == nil {
			return domain.ErrUnauthenticated
		}
		id, err := pathID(r, param)
		if err != nil {
			return err
		}
		return g.RequireSelfOrAdmin(claim, id)
	}}
}

// AnyRole requires a token carrying one of roles.
func AnyRole(roles ...domain.Role) Policy {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	return Policy{name: "role:" + strings.Join(names, ","), allow: func(g *service.Guard, claim *domain.IdentityClaim, _ *http.Request) error {
		return g.RequireRole(claim, roles...)
	}}
}

// router registers handlers behind a Policy. It resolves the bearer token
// once per request and leaves the claim in the request context.
type router struct {
	mux     *http.ServeMux
	tokens  *service.TokenService
	guard   *service.Guard
	metrics *metrics.Metrics
	errs    errorWriter
}

func (rt *router) handle(pattern string, policy Policy, h http.HandlerFunc) {
	rt.mux.Handle(pattern, rt.protect(policy, h))
}

func (rt *router) protect(policy Policy, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claim, tokenErr := rt.claim(r)
		if tokenErr != nil && policy.name != Public.name {
			rt.count("authenticate", "rejected")
			rt.errs.write(w, r, tokenErr)
			return
		}

		if err := policy.allow(rt.guard, claim, r); err != nil {
			switch {
			case errors.Is(err, domain.ErrForbidden):
				rt.count("authorize", "forbidden")
			case errors.Is(err, domain.ErrUnauthenticated):
				rt.count("authorize", "unauthenticated")
			}
			rt.errs.write(w, r, err)
			return
		}

		if claim != nil {
			r = r.WithContext(context.WithValue(r.Context(), claimContextKey, claim))
		}
		next.ServeHTTP(w, r)
	})
}

// claim returns the identity carried by the Authorization header. A missing
// header is not an error; a malformed or invalid token is.
func (rt *router) claim(r *http.Request) (*domain.IdentityClaim, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, nil
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return nil, domain.ErrUnauthenticated
	}

	claim, err := rt.tokens.Verify(strings.TrimSpace(token))
	if err != nil {
		if errors.Is(err, service.ErrTokenExpired) {
			rt.count("authenticate", "expired")
		}
		return nil, err
	}
	return &claim, nil
}

func (rt *router) count(event, outcome string) {
	if rt.metrics != nil {
		rt.metrics.Auth(event, outcome)
	}
}
