package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aidbridge/pkg/types"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

var errMalformedAuthHeader = errors.New("malformed authorization header")

// session is the authenticated caller as carried in the request context.
type session struct {
	UserID string
	Email  string
	Role   types.Role
}

func (s *Service) issueToken(user *types.User) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		Subject(user.ID).
		IssuedAt(now).
		Expiration(now.Add(s.tokenTTL)).
		Claim("role", string(user.Role)).
		Claim("email", user.Email).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), s.signingKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return string(signed), nil
}

func (s *Service) parseToken(raw string) (*session, error) {
	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.HS256(), s.signingKey),
		jwt.WithValidate(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	userID, ok := token.Subject()
	if !ok || userID == "" {
		return nil, errors.New("no user id in token subject claim")
	}

	var role string
	if err := token.Get("role", &role); err != nil {
		return nil, fmt.Errorf("no role claim in token: %w", err)
	}

	// email is optional
	var email string
	_ = token.Get("email", &email)

	return &session{
		UserID: userID,
		Email:  email,
		Role:   types.Role(role),
	}, nil
}

func (s *Service) sessionFromContext(ctx context.Context) (*session, error) {
	sess, ok := ctx.Value(contextKeySession).(*session)
	if !ok {
		return nil, errors.New("session not found in context")
	}
	return sess, nil
}
