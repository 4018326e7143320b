package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenIssuer names this service in issued tokens. Validation rejects tokens
// minted by anything else, even when the signing secret matches.
const TokenIssuer = "lostfound"

var ErrInvalidToken = errors.New("invalid token")

// Claims carry the account identity the handlers work with: the Mongo user
// ID, the login email, and the moderator flag gating the insights admin
// surface.
type Claims struct {
	UserID      primitive.ObjectID `json:"user_id"`
	Email       string             `json:"email"`
	IsModerator bool               `json:"is_moderator"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	secretKey []byte
	duration  time.Duration
}

func NewJWTManager(secretKey string, duration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey: []byte(secretKey),
		duration:  duration,
	}
}

// GenerateToken mints an HS256 token for the account. The user ID doubles as
// the registered subject so a token is traceable in access logs without
// decoding the custom claims.
func (j *JWTManager) GenerateToken(userID primitive.ObjectID, email string, isModerator bool) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:      userID,
		Email:       email,
		IsModerator: isModerator,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			Subject:   userID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// ValidateToken parses and verifies a token. The signing method and issuer
// are pinned; an HS256 token from another service sharing the secret, or a
// token carrying no account ID, fails validation.
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (interface{}, error) {
			return j.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
	)
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID.IsZero() {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
