// Package api contains the HTTP transport layer: request decoding and
// validation, handlers, and the mapping from internal errors to status
// codes and sanitized messages. Handlers stay thin; all business rules
// live in the service layer.
package api
