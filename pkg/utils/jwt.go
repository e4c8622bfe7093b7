package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const staffIssuer = "fidelidade"

// StaffClaims 员工终端令牌，绑定单个门店
type StaffClaims struct {
	ShopSlug string `json:"shop"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateStaffToken 生成员工 JWT Token
func GenerateStaffToken(signingKey, shopSlug string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expireTime := now.Add(ttl)

	claims := StaffClaims{
		ShopSlug: shopSlug,
		Role:     "staff",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   shopSlug,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expireTime),
			Issuer:    staffIssuer,
		},
	}

	tokenClaims := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := tokenClaims.SignedString([]byte(signingKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expireTime, nil
}

// ParseStaffToken 验证员工 JWT Token
func ParseStaffToken(signingKey, tokenString string) (*StaffClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &StaffClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(signingKey), nil
	}, jwt.WithIssuer(staffIssuer))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*StaffClaims); ok && token.Valid {
		if claims.ShopSlug == "" || claims.Role != "staff" {
			return nil, errors.New("token is not a staff token")
		}
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}
