// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects, repositories
// (defined in internal/store) and the task cache to fulfill application
// features.
//
// Services receive their dependencies through constructor injection and
// translate store-level errors into application-level errors; the API layer
// maps those onto transport status codes exactly once.
package service
