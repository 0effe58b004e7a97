// Package catalog is the HTTP client for the products REST API.
//
// # Endpoints
//
// The resource path and update verb come from Routes; the defaults are:
//
//   - GET    /products       list, {"data": [...]} or a bare array
//   - POST   /products       create, body {name, price, description, image}
//   - PATCH  /products/{id}  update (PUT when configured)
//   - DELETE /products/{id}  delete, response body ignored
//
// # Requests
//
// Every call performs exactly one request with Accept: application/json, a
// stockroom User-Agent and a fresh X-Request-ID. There are no retries; the
// only timeout is the http.Client one. Requests are logged at debug level,
// failures at warn.
//
// # Errors
//
// A network failure, a non-2xx status or an undecodable body is returned as
// a *TransportError. Use errors.As or StatusCode to inspect it:
//
//	if catalog.StatusCode(err) == http.StatusNotFound {
//		// already gone
//	}
//
// # Identifiers
//
// Product ids are server-assigned and may be numbers or strings on the wire.
// ID keeps them as text and writes integer ids back as JSON numbers.
package catalog
