// Package helpers provides test utility functions for the Gather API.
//
// The helpers package contains common test utilities for assertions,
// pointer creation, and test data manipulation.
//
// # Pointer Helpers
//
// Create pointers to literal values:
//
//	name := helpers.StringPtr("test")
//	count := helpers.IntPtr(42)
//	flag := helpers.BoolPtr(true)
//
// # JWT Helpers
//
// Generate test JWT tokens:
//
//	jh := helpers.NewJWTHelper(t)
//	token := jh.GenerateToken(t, user)
//	expired := jh.GenerateExpiredToken(t, user)
//
// # Assertion Helpers
//
// Common test assertions:
//
//	helpers.AssertStatus(t, resp, http.StatusOK)
//	helpers.AssertProblemDetails(t, resp, http.StatusNotFound, model.ErrCodeNotFound)
//	helpers.AssertRecordExists(t, db, "user_group", "user_group:123")
//
// # Request Building
//
// Construct authenticated API requests:
//
//	req := helpers.NewRequest(t, "POST", "/api/groups").
//		WithBody(body).
//		WithAuth(jh, user).
//		Build()
package helpers
