package jwt

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// ============================================================================
// Test Helpers
// ============================================================================

const testSecret = "test-secret-at-least-32-bytes-long!!"

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewTestService(testSecret, "test-issuer", 15*time.Minute)
}

func newTestServiceWithExpiration(t *testing.T, expiration time.Duration) *Service {
	t.Helper()
	return NewTestService(testSecret, "test-issuer", expiration)
}

// ============================================================================
// Service.Sign() Tests
// ============================================================================

func TestSign_ValidClaims_ReturnsToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	claims := Claims{
		UserID: "user:123",
		Email:  "test@example.com",
	}

	token, err := svc.Sign(claims)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Error("expected non-empty token")
	}

	// Token should have 3 parts
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Errorf("expected 3 parts in JWT, got %d", len(parts))
	}
}

func TestSign_SetsIssuer(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	claims := Claims{
		UserID: "user:123",
	}

	token, err := svc.Sign(claims)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	validatedClaims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if validatedClaims.Issuer != "test-issuer" {
		t.Errorf("expected issuer 'test-issuer', got %q", validatedClaims.Issuer)
	}
}

func TestSign_SetsIssuedAt(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	before := time.Now().Add(-1 * time.Second)

	claims := Claims{
		UserID: "user:123",
	}

	token, err := svc.Sign(claims)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	after := time.Now().Add(1 * time.Second)

	validatedClaims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	iat := validatedClaims.IssuedAt.Time
	if iat.Before(before) || iat.After(after) {
		t.Errorf("IssuedAt %v not in expected range [%v, %v]", iat, before, after)
	}
}

func TestSign_SetsDefaultExpiration(t *testing.T) {
	t.Parallel()
	svc := newTestServiceWithExpiration(t, 30*time.Minute)
	now := time.Now()

	claims := Claims{
		UserID: "user:123",
	}

	token, err := svc.Sign(claims)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	validatedClaims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	expectedExpiry := now.Add(30 * time.Minute)
	diff := validatedClaims.ExpiresAt.Time.Sub(expectedExpiry)
	if diff < -5*time.Second || diff > 5*time.Second {
		t.Errorf("ExpiresAt %v not near expected %v", validatedClaims.ExpiresAt.Time, expectedExpiry)
	}
}

func TestSign_PreservesCustomExpiration(t *testing.T) {
	t.Parallel()
	svc := newTestServiceWithExpiration(t, 30*time.Minute)
	customExpiry := time.Now().Add(1 * time.Hour).Truncate(time.Second)

	claims := Claims{
		UserID: "user:123",
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(customExpiry),
		},
	}

	token, err := svc.Sign(claims)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	validatedClaims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if !validatedClaims.ExpiresAt.Time.Equal(customExpiry) {
		t.Errorf("expected custom expiry %v, got %v", customExpiry, validatedClaims.ExpiresAt.Time)
	}
}

func TestSign_PreservesCustomClaimsFields(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	claims := Claims{
		UserID: "user:456",
		Email:  "user@example.com",
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject: "user:456",
			ID:      "unique-jti",
		},
	}

	token, err := svc.Sign(claims)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	validatedClaims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if validatedClaims.Subject != claims.Subject {
		t.Errorf("Subject mismatch: expected %q, got %q", claims.Subject, validatedClaims.Subject)
	}
	if validatedClaims.ID != claims.ID {
		t.Errorf("ID mismatch: expected %q, got %q", claims.ID, validatedClaims.ID)
	}
	if validatedClaims.UserID != claims.UserID {
		t.Errorf("UserID mismatch: expected %q, got %q", claims.UserID, validatedClaims.UserID)
	}
	if validatedClaims.Email != claims.Email {
		t.Errorf("Email mismatch: expected %q, got %q", claims.Email, validatedClaims.Email)
	}
}

// ============================================================================
// Service.Validate() Tests
// ============================================================================

func TestValidate_ValidToken_ReturnsClaims(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	claims := Claims{
		UserID: "user:123",
		Email:  "test@example.com",
	}

	token, err := svc.Sign(claims)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	validatedClaims, err := svc.Validate(token)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if validatedClaims.UserID != "user:123" {
		t.Errorf("expected UserID 'user:123', got %q", validatedClaims.UserID)
	}
	if validatedClaims.Email != "test@example.com" {
		t.Errorf("expected Email 'test@example.com', got %q", validatedClaims.Email)
	}
}

func TestValidate_InvalidFormat_TwoParts_ReturnsErrInvalidToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	_, err := svc.Validate("only.twoparts")

	if err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_InvalidFormat_OnePart_ReturnsErrInvalidToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	_, err := svc.Validate("onlyonepart")

	if err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_InvalidFormat_Empty_ReturnsErrInvalidToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	_, err := svc.Validate("")

	if err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_TamperedClaims_ReturnsErrInvalidSignature(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	claims := Claims{
		UserID: "user:123",
	}

	token, err := svc.Sign(claims)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	// Swap the claims segment for one the key never signed
	parts := strings.Split(token, ".")
	other, err := svc.Sign(Claims{UserID: "user:999"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	otherParts := strings.Split(other, ".")
	tamperedToken := parts[0] + "." + otherParts[1] + "." + parts[2]

	_, err = svc.Validate(tamperedToken)

	if err != ErrInvalidSignature {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestValidate_ExpiredToken_ReturnsErrTokenExpired(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	claims := Claims{
		UserID: "user:123",
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
		},
	}

	token, err := svc.Sign(claims)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	_, err = svc.Validate(token)

	if err != ErrTokenExpired {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidate_WrongIssuer_ReturnsErrInvalidToken(t *testing.T) {
	t.Parallel()
	signingService := NewTestService(testSecret, "issuer-a", 15*time.Minute)
	validatingService := NewTestService(testSecret, "issuer-b", 15*time.Minute)

	claims := Claims{
		UserID: "user:123",
	}

	token, err := signingService.Sign(claims)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	_, err = validatingService.Validate(token)

	if err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for wrong issuer, got %v", err)
	}
}

func TestValidate_DifferentSecret_ReturnsErrInvalidSignature(t *testing.T) {
	t.Parallel()
	svc1 := NewTestService("secret-one-that-is-long-enough!!!", "test-issuer", 15*time.Minute)
	svc2 := NewTestService("secret-two-that-is-long-enough!!!", "test-issuer", 15*time.Minute)

	claims := Claims{
		UserID: "user:123",
	}

	token, err := svc1.Sign(claims)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	_, err = svc2.Validate(token)

	if err != ErrInvalidSignature {
		t.Errorf("expected ErrInvalidSignature when validating with different secret, got %v", err)
	}
}

func TestValidate_RS256Token_ReturnsError(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	// Header claims RS256; the HMAC-only keyfunc must reject it
	none := gojwt.NewWithClaims(gojwt.SigningMethodNone, Claims{UserID: "user:123"})
	token, err := none.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build alg=none token: %v", err)
	}

	_, err = svc.Validate(token)

	if err == nil {
		t.Error("expected error for non-HMAC signing method, got nil")
	}
}

// ============================================================================
// GetExpiration() Tests
// ============================================================================

func TestGetExpiration_ReturnsConfiguredDuration(t *testing.T) {
	t.Parallel()
	svc := newTestServiceWithExpiration(t, 45*time.Minute)

	exp := svc.GetExpiration()

	if exp != 45*time.Minute {
		t.Errorf("expected 45m, got %v", exp)
	}
}

// ============================================================================
// Integration/Round-Trip Tests
// ============================================================================

func TestSignAndValidate_RoundTrip(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	originalClaims := Claims{
		UserID: "user:123",
		Email:  "user@test.com",
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject: "user:123",
		},
	}

	token, err := svc.Sign(originalClaims)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	validatedClaims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if validatedClaims.Subject != originalClaims.Subject {
		t.Errorf("Subject: expected %q, got %q", originalClaims.Subject, validatedClaims.Subject)
	}
	if validatedClaims.UserID != originalClaims.UserID {
		t.Errorf("UserID: expected %q, got %q", originalClaims.UserID, validatedClaims.UserID)
	}
	if validatedClaims.Email != originalClaims.Email {
		t.Errorf("Email: expected %q, got %q", originalClaims.Email, validatedClaims.Email)
	}
}

// ============================================================================
// NewService Tests
// ============================================================================

func TestNewService_WithSecret_ReturnsService(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Secret:         testSecret,
		Issuer:         "test",
		ExpirationMins: 15,
	}

	svc, err := NewService(cfg)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc == nil {
		t.Fatal("expected service, got nil")
	}
	if svc.GetExpiration() != 15*time.Minute {
		t.Errorf("expected 15m expiration, got %v", svc.GetExpiration())
	}
}

func TestNewService_EmptySecret_ReturnsErrInvalidKey(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Issuer:         "test",
		ExpirationMins: 15,
	}

	_, err := NewService(cfg)

	if err != ErrInvalidKey {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}
