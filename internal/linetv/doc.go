// Package linetv is the HTTP client for the LINE TV static drama catalog.
//
// # Requests
//
// Every call issues exactly one GET to the configured base URL joined with a
// relative path. Requests carry Accept: application/json, a User-Agent of
// reel/0.1, Cache-Control: no-cache and a fresh X-Request-ID. There is no
// retry and no transport cache; the offline package keeps the last good
// payload instead.
//
// # Errors
//
// Each failure is classified as exactly one of
//
//   - ErrInvalidURL: the base URL and path do not compose an absolute URL
//   - ErrConnection: the transport failed before a full response was read
//   - ErrInvalidResponse: the status was not 200
//   - ErrInvalidData: the body was empty
//   - ErrDecode: the body did not match the drama schema
//
// and wrapped in *Error, so callers can use errors.Is against the kind or
// errors.As to read the path and status.
//
// # Decoding
//
// Payloads look like {"data": [drama, ...]}. Keys are snake_case, every
// field is required, created_at must match yyyy-MM-ddTHH:mm:ss.SSSZ exactly
// and rating is passed through as sent, even outside 0 to 5.
package linetv
