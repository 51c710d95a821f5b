package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	pkgerrors "partnerdesk/pkg/errors"
)

// Claims represents the JWT claims for our access tokens.
type Claims struct {
	Admin     bool   `json:"admin"`
	PartnerID string `json:"partner_id,omitempty"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTService handles JWT creation and validation.
type JWTService struct {
	signingKey []byte
	issuer     string
}

func NewJWTService(signingKey, issuer string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}
}

// GenerateAccessToken mints an HS256 token carrying the caller's role and
// partner affiliation.
func (s *JWTService) GenerateAccessToken(caller Caller, expiresIn time.Duration) (string, error) {
	claims := Claims{
		Admin: caller.Admin,
		Email: caller.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	}
	if caller.PartnerID != uuid.Nil {
		claims.PartnerID = caller.PartnerID.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.signingKey)
}

// ValidateToken parses and verifies a token, returning the caller it encodes.
func (s *JWTService) ValidateToken(tokenString string) (Caller, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Caller{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "token has expired")
		}
		return Caller{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return Caller{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return Caller{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token claims")
	}

	caller := Caller{Admin: claims.Admin, Email: claims.Email}
	if claims.PartnerID != "" {
		partnerID, err := uuid.Parse(claims.PartnerID)
		if err != nil {
			return Caller{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid partner id claim")
		}
		caller.PartnerID = partnerID
	}
	if !caller.Admin && caller.PartnerID == uuid.Nil {
		return Caller{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "token carries neither admin role nor partner affiliation")
	}
	return caller, nil
}
