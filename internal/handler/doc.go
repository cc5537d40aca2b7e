// Package handler provides HTTP request handlers for the Gather API.
//
// The handler package contains all HTTP endpoint implementations organized by
// domain. Each handler struct wraps the service it serves requests for
// (authentication, groups, events, discussions, media, polls, tickets,
// add-ons).
//
// # Handler Pattern
//
// All handlers follow a consistent pattern:
//
//   - Constructor function (NewXxxHandler) accepts the backing service
//   - Methods handle specific HTTP endpoints
//   - Response helpers from response.go standardize output format
//   - Service errors are mapped to RFC 9457 Problem Details via MapServiceError
//
// # Response Format
//
// Handlers use standardized response functions:
//
//   - WriteData: Single resource with optional HATEOAS links
//   - WriteCollection: Paginated list of resources
//   - WriteJSON: Raw JSON response
//   - WriteError: RFC 9457 Problem Details error response
//
// # Authentication
//
// Most handlers require authentication via JWT tokens. The auth middleware
// extracts the user ID and makes it available via middleware.GetUserID. The
// public exceptions are registration, login, ticket type listing and ticket
// purchase.
//
// # Example Usage
//
//	handler := NewGroupHandler(groupService)
//	mux.HandleFunc("GET /api/groups", handler.List)
//	mux.HandleFunc("POST /api/groups", handler.Create)
package handler
