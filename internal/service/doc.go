// Package service implements the business logic layer for the Gather API.
//
// Services sit between HTTP handlers and repositories. They own every
// authorization rule (group admin, event organizer, participant,
// ownership) and every cross-entity invariant (last admin, last
// organizer, feature flag gates, vote overwrite), while repositories
// stay limited to storage concerns.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts repository interfaces
//   - Repository interfaces are declared here, next to their consumer
//   - Methods take the calling user's ID and validated request structs
//   - Failures are reported with the sentinel errors in errors.go
//
// Handlers translate the sentinels to HTTP status codes; services never
// see HTTP types.
package service
