package jwt

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenTypeAccess = "access"

var ErrInvalidToken = errors.New("invalid token")

// Claims is the subject carried by an access token.
type Claims struct {
	UID   string
	Email string
}

type Service interface {
	GenerateAccessToken(uid string, email string) (token string, expiresAt int64, err error)
	ParseAccessToken(token string) (Claims, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	now                   func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService builds an HS256 token service. accessTokenExpiration is a
// time.ParseDuration string such as "12h".
func NewJWTService(secretKey string, accessTokenExpiration string) (*JWTService, error) {
	expDuration, err := time.ParseDuration(accessTokenExpiration)
	if err != nil {
		return nil, err
	}
	return &JWTService{
		accessTokenExpiration: expDuration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                   time.Now,
	}, nil
}

func (j *JWTService) GenerateAccessToken(uid string, email string) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		"sub":   uid,
		"email": email,
		"type":  tokenTypeAccess,
		"iat":   j.now().Unix(),
		"exp":   expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ParseAccessToken verifies the signature and expiry of token and returns
// its subject.
func (j *JWTService) ParseAccessToken(tokenString string) (Claims, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != tokenTypeAccess {
		return Claims{}, ErrInvalidToken
	}

	if token.Subject() == "" {
		return Claims{}, ErrInvalidToken
	}

	claims := Claims{UID: token.Subject()}
	if email, ok := token.Get("email"); ok {
		claims.Email, _ = email.(string)
	}
	return claims, nil
}
