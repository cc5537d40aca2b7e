// Package jwt provides JSON Web Token utilities for the Gather API.
//
// The jwt package handles token generation, validation, and claims
// extraction for authentication. Tokens are signed with HS256 using a
// shared secret supplied through configuration.
//
// # Token Generation
//
// Generate tokens for authenticated users:
//
//	service, err := jwt.NewService(jwt.Config{
//	    Secret:         "secret-key",
//	    Issuer:         "gather-api",
//	    ExpirationMins: 60,
//	})
//
//	token, err := service.Sign(jwt.Claims{UserID: userID, Email: email})
//
// # Token Validation
//
// Validate and extract claims:
//
//	claims, err := service.Validate(tokenString)
//	if err != nil {
//	    // Invalid or expired token
//	}
//	userID := claims.UserID
package jwt
