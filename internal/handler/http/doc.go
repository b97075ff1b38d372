// Package http implements the HTTP transport layer of the application.
//
// It exposes route wiring, request handlers, and middleware used by the
// device and browser clients. Cross-cutting concerns such as request
// tracing, access logging, CORS, body-size limits, and cookie session
// resolution are handled in this package before requests are delegated to
// the service layer.
package http
