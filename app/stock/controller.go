// Package stock is a minimal controller answering every verb on /stock.
package stock

import (
	"context"
	"net/http"

	"github.com/km-arc/go-force/framework/routing"
)

type Controller struct{}

func NewController() *Controller { return &Controller{} }

func (c *Controller) Prefix() string { return "/stock" }

func (c *Controller) Routes() []routing.Route {
	// name is declared but never bound, so handlers see "".
	name := routing.Unbound[string]()
	return []routing.Route{
		routing.Get("", reply("info")),
		routing.Post("", reply("created"), name).WithStatus(http.StatusCreated),
		routing.Put("", reply("updated"), name),
		routing.Patch("", reply("patched"), name),
		routing.Delete("", reply("deleted"), name),
	}
}

func reply(msg string) routing.Handler {
	return func(context.Context, []any) (any, error) { return msg, nil }
}
