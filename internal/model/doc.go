// Package model defines domain entities and data structures for the Gather API.
//
// The model package contains all struct definitions for domain objects, request/response
// types, and error definitions. Models are used across all layers of the application.
//
// # Domain Entities
//
// Core domain entities include:
//
//   - User: Application user with authentication credentials
//   - Group: Social circle with members and per-member permission flags
//   - Event: Scheduled gathering with organizers, participants and feature flags
//   - Thread, Message: Discussion threads attached to a group or an event
//   - Album, Photo, PhotoComment: Event photo albums
//   - Poll, TicketType, ShoppingItem, CarpoolOffer: Event add-on surfaces
//
// # JSON Serialization
//
// All models use json struct tags for API serialization:
//
//	type Group struct {
//	    ID          string  `json:"id"`
//	    Name        string  `json:"name"`
//	    Description *string `json:"description,omitempty"`
//	}
//
// # Validation Constants
//
// The package defines validation constants:
//
//	const (
//	    MaxGroupNameLength      = 255
//	    MaxMessageContentLength = 2000
//	    MinPasswordLength       = 8
//	)
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string    `json:"type"`
//	    Title   string    `json:"title"`
//	    Status  int       `json:"status"`
//	    Detail  string    `json:"detail"`
//	}
package model
