// Package fixtures provides test data factories for the Gather API.
//
// The fixtures package contains factory functions for creating test data
// with sensible defaults and optional customization.
//
// # Factory Pattern
//
// Create a factory with a database connection:
//
//	f := fixtures.New(testDB)
//
// # Creating Test Data
//
// Factory methods create domain entities:
//
//	user := f.CreateUser(t)                 // Default user
//	group := f.CreateGroup(t, user)         // Group with user as admin
//	f.AddMember(t, group, otherUser)        // Add member
//	event := f.CreateEvent(t, user)         // Event with user as organizer
//
// # Customization
//
// Use option functions for customization:
//
//	user := f.CreateUser(t, func(o *UserOpts) { o.Email = "custom@example.com" })
//	event := f.CreateEvent(t, user, WithAllFeatures(), WithGroup(group))
//
// # Random Data
//
// Unique identifiers are generated automatically:
//
//	user1 := f.CreateUser(t) // user_abc123
//	user2 := f.CreateUser(t) // user_def456
//
// # Cleanup
//
// Test data is cleaned up when the test database is closed.
package fixtures
