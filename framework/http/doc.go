// Package http dispatches requests to controller handlers.
//
// # Pipeline
//
// For every request the Dispatcher:
//
//  1. looks the route up in the routing.Table (404 when nothing matches,
//     including a known path under another verb)
//  2. runs the FilterChain (security, rate limiting, ...)
//  3. binds the handler arguments with the Binder
//  4. invokes the handler, recovering panics
//  5. writes the result, or the view of the first matching exception handler
//
// The request moves through the phases Received, RouteMatched, Filtered,
// Bound, Invoked and Responded; any step may move it to Failed instead.
//
// # Handler results
//
//	return product, nil                     // route status (200 unless WithStatus)
//	return nil, nil                         // 204
//	return http.Created(product), nil       // explicit view
//	return nil, persistence.ErrNotFound     // exception handlers decide
//
// String bodies are written as text/plain, everything else through the Codec
// (JSON by default).
//
// # Exception handlers
//
//	func (a *Advice) ExceptionHandlers() []http.ExceptionHandler {
//	    return []http.ExceptionHandler{
//	        http.On(func(err *fs.PathError) *http.ResponseView { ... }),
//	        http.OnError(sql.ErrNoRows, func(err error) *http.ResponseView { ... }),
//	        http.OnAny(func(err error) *http.ResponseView { ... }),
//	    }
//	}
//
// Without a handler the error is rendered as {"message": "..."} with the
// error's StatusCode(), or 409 Conflict.
package http
