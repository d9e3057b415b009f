// Package store defines the persistence interfaces for users and tasks,
// along with the errors they surface and transaction orchestration helpers.
// The interfaces keep business rules independent of the concrete database
// technology backing them.
package store
