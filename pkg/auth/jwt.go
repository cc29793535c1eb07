package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Роли, которые несут выдаваемые токены
const (
	RoleAdmin      = "admin"
	RoleRespondent = "respondent"
)

// Ошибки разбора токенов
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token is expired")
)

// Claims - полезная нагрузка JWT. Для администратора заполнены UserID/Email;
// для респондента - AccessRecordID/TestID/Email. AccessRecordID служит
// стабильным ключом сессии: сам код доступа в токен не попадает.
type Claims struct {
	UserID         uint   `json:"user_id,omitempty"`
	AccessRecordID uint   `json:"access_record_id,omitempty"`
	TestID         uint   `json:"test_id,omitempty"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService выпускает и проверяет токены доступа (HS256)
type JWTService struct {
	secret           []byte
	adminExpiry      time.Duration
	respondentExpiry time.Duration
}

// NewJWTService создает новый сервис JWT
func NewJWTService(secret string, adminExpiryHrs, respondentExpiryHrs int) (*JWTService, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if adminExpiryHrs <= 0 {
		adminExpiryHrs = 24
	}
	if respondentExpiryHrs <= 0 {
		respondentExpiryHrs = 4
	}
	return &JWTService{
		secret:           []byte(secret),
		adminExpiry:      time.Duration(adminExpiryHrs) * time.Hour,
		respondentExpiry: time.Duration(respondentExpiryHrs) * time.Hour,
	}, nil
}

// GenerateAdminToken выпускает токен администратора
func (s *JWTService) GenerateAdminToken(userID uint, email string) (string, error) {
	return s.generate(&Claims{
		UserID: userID,
		Email:  email,
		Role:   RoleAdmin,
	}, s.adminExpiry)
}

// GenerateRespondentToken выпускает сессионный токен респондента.
// Субъект сессии - запись доступа, а не респондент: повторная выдача кода
// делает прежние токены бесполезными при следующем обращении к данным.
func (s *JWTService) GenerateRespondentToken(accessRecordID, testID uint, email string) (string, error) {
	return s.generate(&Claims{
		AccessRecordID: accessRecordID,
		TestID:         testID,
		Email:          email,
		Role:           RoleRespondent,
	}, s.respondentExpiry)
}

func (s *JWTService) generate(claims *Claims, expiry time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken проверяет подпись и срок действия токена
func (s *JWTService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
