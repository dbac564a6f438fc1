// Package httpserver provides the HTTP server of healthy-server.
//
// The request pipeline, outermost first:
//
//	RequestID -> Instrument -> MatchRoute -> AccessLog -> Recover -> CORS -> RateLimit -> router
//
// Instrument records every request into the metric catalog, labelled with
// the route MatchRoute resolved rather than the raw URL path. Requests that
// match no route are labelled "unmatched".
package httpserver
