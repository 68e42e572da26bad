package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
	RoleMaster   Role = "master"
)

const (
	TypeAccess = "access"
	TypeSSE    = "sse"
)

var ErrInvalidClaims = errors.New("invalid token claims")

// Claims is the typed view of a token's private claims.
type Claims struct {
	Subject     string
	Role        Role
	EmployeeID  *int64
	CompanyCode *string
	Type        string
}

type Service interface {
	GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error)
	GenerateSSEToken(claims Claims) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (Claims, error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	revokedTokens             map[string]int64
	mu                        sync.RWMutex
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:             make(map[string]int64),
	}
}

func (c Claims) toMap(tokenType string, expiresAt int64) map[string]interface{} {
	m := map[string]interface{}{
		"sub":  c.Subject,
		"role": string(c.Role),
		"type": tokenType,
		"exp":  expiresAt,
	}
	if c.EmployeeID != nil {
		m["employee_id"] = *c.EmployeeID
	}
	if c.CompanyCode != nil {
		m["company_code"] = *c.CompanyCode
	}
	return m
}

func (j *JWTService) GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(claims.toMap(TypeAccess, expiresAt))
	return tokenString, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(claims Claims) (token string, expiresIn int, err error) {
	// SSE tokens are short-lived (5 minutes)
	expiresIn = 300
	expiresAt := time.Now().Add(5 * time.Minute).Unix()

	_, tokenString, err := j.tokenAuth.Encode(claims.toMap(TypeSSE, expiresAt))
	if err != nil {
		return "", 0, err
	}
	return tokenString, expiresIn, nil
}

// ValidateSSEToken validates an SSE token and returns its claims
func (j *JWTService) ValidateSSEToken(tokenString string) (Claims, error) {
	if j.IsTokenRevoked(tokenString) {
		return Claims{}, jwt.ErrInvalidJWT()
	}

	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return Claims{}, err
	}

	claims, err := ClaimsFromMap(token.PrivateClaims())
	if err != nil {
		return Claims{}, err
	}
	claims.Subject = token.Subject()
	if claims.Type != TypeSSE {
		return Claims{}, jwt.ErrInvalidJWT()
	}
	return claims, nil
}

func (j *JWTService) RevokeToken(token string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = time.Now().Unix()
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

// ClaimsFromMap reads the claims map produced by jwtauth.FromContext.
func ClaimsFromMap(m map[string]interface{}) (Claims, error) {
	var c Claims

	role, _ := m["role"].(string)
	switch Role(role) {
	case RoleEmployee, RoleAdmin, RoleMaster:
		c.Role = Role(role)
	default:
		return Claims{}, fmt.Errorf("%w: role", ErrInvalidClaims)
	}

	c.Type, _ = m["type"].(string)
	c.Subject, _ = m["sub"].(string)

	if v, ok := m["employee_id"]; ok && v != nil {
		id, err := toInt64(v)
		if err != nil {
			return Claims{}, fmt.Errorf("%w: employee_id", ErrInvalidClaims)
		}
		c.EmployeeID = &id
	}
	if v, ok := m["company_code"].(string); ok && v != "" {
		c.CompanyCode = &v
	}

	if c.Role == RoleEmployee && c.EmployeeID == nil {
		return Claims{}, fmt.Errorf("%w: employee_id", ErrInvalidClaims)
	}
	return c, nil
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case string:
		return strconv.ParseInt(n, 10, 64)
	}
	return 0, fmt.Errorf("unexpected type %T", v)
}
