// Package token issues bearer tokens for the secured routes.
package token

import (
	"context"
	"net/http"

	"github.com/km-arc/go-force/framework/routing"
)

// Issuer signs a token for a subject.
type Issuer interface {
	Generate(subject string) (string, error)
}

// Controller serves POST /token/generate/{subject}.
type Controller struct {
	issuer Issuer
}

func NewController(issuer Issuer) *Controller { return &Controller{issuer: issuer} }

func (c *Controller) Prefix() string { return "/token" }

func (c *Controller) Routes() []routing.Route {
	return []routing.Route{
		routing.Post("/generate/{subject}", func(_ context.Context, args []any) (any, error) {
			return c.issuer.Generate(routing.Arg[string](args, 0))
		}, routing.PathVar[string]("subject")).WithStatus(http.StatusCreated).Named("token.generate"),
	}
}
