package http

import "sort"

// Filter runs before the handler of every matched request. Returning an error
// stops the chain and the request fails with that error. Filters may read
// req.Route() and set attributes; they must not change the route.
type Filter interface {
	DoFilter(req *Request) error
}

// Ordered lets a filter choose its position. Lower runs first; filters
// without an order count as 0.
type Ordered interface {
	Order() int
}

// FilterFunc adapts a function to Filter.
type FilterFunc func(req *Request) error

func (f FilterFunc) DoFilter(req *Request) error { return f(req) }

// FilterChain is an ordered, immutable list of filters.
type FilterChain struct {
	filters []Filter
}

// NewFilterChain sorts filters by Order, keeping the given (discovery) order
// among equals.
func NewFilterChain(filters ...Filter) *FilterChain {
	sorted := make([]Filter, len(filters))
	copy(sorted, filters)
	sort.SliceStable(sorted, func(i, j int) bool {
		return orderOf(sorted[i]) < orderOf(sorted[j])
	})
	return &FilterChain{filters: sorted}
}

func orderOf(f Filter) int {
	if o, ok := f.(Ordered); ok {
		return o.Order()
	}
	return 0
}

// Do runs every filter in order and returns the first error.
func (c *FilterChain) Do(req *Request) error {
	if c == nil {
		return nil
	}
	for _, f := range c.filters {
		if err := f.DoFilter(req); err != nil {
			return err
		}
	}
	return nil
}

// Filters returns the filters in execution order.
func (c *FilterChain) Filters() []Filter {
	out := make([]Filter, len(c.filters))
	copy(out, c.filters)
	return out
}

// Len returns the number of filters.
func (c *FilterChain) Len() int { return len(c.filters) }
