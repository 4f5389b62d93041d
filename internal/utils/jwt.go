package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-list-feed/models"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidTokenParams     = errors.New("invalid params for generating JWT Token")
	ErrInvalidAuthHeader      = errors.New("invalid authorization header")
	ErrEmptySubject           = errors.New("empty subject error")
	ErrInvalidTokenClaims     = errors.New("invalid token claims")
	ErrUnexpectedSigningToken = errors.New("unexpected signing method")
)

// GenerateJWTToken creates an HS256 token for userID with iss, sub, iat and exp claims.
//
// Example usage:
//
//	token, err := utils.GenerateJWTToken("list-feed", 42, time.Hour, "secret")
func GenerateJWTToken(issuer string, userID int64, tokenDuration time.Duration, signKey string) (models.Token, error) {
	if issuer == "" || tokenDuration <= 0 || signKey == "" {
		return models.Token{}, ErrInvalidTokenParams
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return models.Token{Token: token, RegisteredClaims: claims, SignedString: signed, UserID: userID}, nil
}

// ValidateAndParseJWTToken verifies signature, issuer and expiry and
// returns the token with UserID parsed from the subject.
func ValidateAndParseJWTToken(tokenString, tokenSignKey, tokenIssuer string) (models.Token, error) {
	parsed := models.Token{}
	token, err := jwt.ParseWithClaims(tokenString, &parsed, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnexpectedSigningToken
		}
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if parsed.Subject == "" {
		return models.Token{}, ErrEmptySubject
	}

	userID, err := parsed.GetUserID()
	if err != nil {
		return models.Token{}, err
	}

	parsed.Token = token
	parsed.SignedString = tokenString
	parsed.UserID = userID
	return parsed, nil
}

// ParseBearerToken extracts the token from a "Bearer <token>" header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authorizationHeader), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrInvalidAuthHeader
	}
	return strings.TrimSpace(token), nil
}

// ParseSessionFromJWT reads subject and expiry without verifying the
// signature. The client uses it to build a session from the token the
// server returned; the server verifies the token on every request.
func ParseSessionFromJWT(tokenString, login string) (models.Session, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims); err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrInvalidTokenClaims, err)
	}
	if claims.Subject == "" {
		return models.Session{}, ErrEmptySubject
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrInvalidTokenClaims, err)
	}

	session := models.Session{UserID: userID, Login: login, Token: tokenString}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}
