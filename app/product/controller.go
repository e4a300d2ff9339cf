package product

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	gohttp "github.com/km-arc/go-force/framework/http"
	"github.com/km-arc/go-force/framework/routing"
)

// Controller serves /product.
type Controller struct {
	settings *Settings
	svc      *Service
	logger   *zap.Logger
}

func NewController(settings *Settings, svc *Service, logger *zap.Logger) *Controller {
	return &Controller{settings: settings, svc: svc, logger: logger}
}

func (c *Controller) Prefix() string { return "/product" }

func (c *Controller) Routes() []routing.Route {
	id := routing.PathVar[int64]("id")
	return []routing.Route{
		routing.Get("", c.list, routing.Headers()).Named("product.list"),
		routing.Get("/count", c.count).Named("product.count"),
		routing.Get("/search", c.search, routing.Query[string]("name").Default("Guest")).Named("product.search"),
		routing.Get("/info/{id}/{name}", c.info, id, routing.PathVar[string]("name")).Named("product.info"),
		routing.Get("/{id}", c.get, id).Named("product.get"),
		routing.Post("", c.create, routing.Payload[Form]().Validated()).
			WithStatus(http.StatusCreated).Named("product.create"),
		routing.Put("/{id}", c.update, id, routing.Payload[Form]().Validated()).Named("product.update"),
		routing.Patch("/{id}", c.patch, id, routing.Payload[map[string]any]()).Named("product.patch"),
		routing.Delete("/{id}", c.delete, id).Secure("").Named("product.delete"),
	}
}

func (c *Controller) list(ctx context.Context, args []any) (any, error) {
	headers := routing.Arg[http.Header](args, 0)
	c.logger.Debug("listing products", zap.String("user_agent", headers.Get("User-Agent")))

	products, err := c.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	return gohttp.OK(products).WithHeader("info", c.settings.Name), nil
}

func (c *Controller) count(ctx context.Context, _ []any) (any, error) {
	n, err := c.svc.Count(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]int{"count": n}, nil
}

func (c *Controller) search(ctx context.Context, args []any) (any, error) {
	return c.svc.Search(ctx, routing.Arg[string](args, 0))
}

// info returns the product only when the name in the path matches it.
func (c *Controller) info(ctx context.Context, args []any) (any, error) {
	p, err := c.svc.Get(ctx, routing.Arg[int64](args, 0))
	if err != nil {
		return nil, err
	}
	if p.Name != routing.Arg[string](args, 1) {
		return gohttp.NotFound(map[string]string{"message": "Product name does not match."}), nil
	}
	return p, nil
}

func (c *Controller) get(ctx context.Context, args []any) (any, error) {
	return c.svc.Get(ctx, routing.Arg[int64](args, 0))
}

func (c *Controller) create(ctx context.Context, args []any) (any, error) {
	return c.svc.Create(ctx, *routing.Arg[*Form](args, 0))
}

func (c *Controller) update(ctx context.Context, args []any) (any, error) {
	return c.svc.Update(ctx, routing.Arg[int64](args, 0), *routing.Arg[*Form](args, 1))
}

func (c *Controller) patch(ctx context.Context, args []any) (any, error) {
	return c.svc.Patch(ctx, routing.Arg[int64](args, 0), *routing.Arg[*map[string]any](args, 1))
}

func (c *Controller) delete(ctx context.Context, args []any) (any, error) {
	return nil, c.svc.Delete(ctx, routing.Arg[int64](args, 0))
}
