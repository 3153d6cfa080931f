package models

import (
	"errors"
	"time"

	"dailydigest/internal/env"

	sj "github.com/brianvoe/sjwt"
)

var ErrInvalidToken = errors.New("invalid token")

// Operator is an administrator of the digest API.
type Operator struct {
	Username string    `json:"username" bson:"username"`
	Password string    `json:"password,omitempty" bson:"password"`
	Created  time.Time `json:"createdAt" bson:"createdAt"`
}

type operatorClaims struct {
	Username string `json:"username"`
}

const operatorTokenTTL = 30 * 24 * time.Hour

func (o *Operator) GenToken() string {
	claims, _ := sj.ToClaims(operatorClaims{Username: o.Username})
	claims.SetIssuedAt(time.Now())
	claims.SetExpiresAt(time.Now().Add(operatorTokenTTL))

	return claims.Generate(env.JWT_SECRET)
}

// ParseToken verifies token and fills in the operator's username.
func (o *Operator) ParseToken(token string) error {
	if !sj.Verify(token, env.JWT_SECRET) {
		return ErrInvalidToken
	}

	claims, err := sj.Parse(token)
	if err != nil {
		return ErrInvalidToken
	}
	if err := claims.Validate(); err != nil {
		return err
	}

	var parsed operatorClaims
	if err := claims.ToStruct(&parsed); err != nil {
		return err
	}
	if parsed.Username == "" {
		return ErrInvalidToken
	}

	o.Username = parsed.Username
	return nil
}
