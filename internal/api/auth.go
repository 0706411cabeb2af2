package api

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/insightdelivered/statement-ledger/internal/store"
)

const (
	tokenIssuer = "statement-ledger"
	tokenType   = "access"

	// accountLocal is the fiber Locals key holding the authenticated account.
	accountLocal = "account"
)

var errInvalidToken = errors.New("invalid or expired token")

// Claims is the payload of an access token. Sub is the account number.
type Claims struct {
	Sub  string `json:"sub"`
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// Tokens issues and validates HS256 access tokens for the document library.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens builds a token service. An empty secret is replaced by 32
// random bytes, so tokens only validate within this process.
func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	if len(secret) == 0 {
		secret = make([]byte, 32)
		rand.Read(secret)
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Tokens{secret: secret, ttl: ttl, now: time.Now}
}

// Issue signs an access token for account.
func (t *Tokens) Issue(account string) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)
	claims := Claims{
		Sub:  account,
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			Issuer:    tokenIssuer,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expires, nil
}

// Validate parses an access token and returns its claims.
func (t *Tokens) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errInvalidToken
	}
	if claims.Type != tokenType || claims.Sub == "" {
		return nil, errInvalidToken
	}
	return claims, nil
}

// RequireAccount authenticates the Bearer token. On routes with an :account
// parameter the token's account must match it.
func (h *Handler) RequireAccount(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		h.logger.Warn("auth: missing token",
			zap.String("path", c.Path()),
			zap.String("remote_addr", c.IP()),
		)
		return writeError(c, fiber.StatusUnauthorized, "Authentication token required.")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		h.logger.Warn("auth: invalid token format",
			zap.String("path", c.Path()),
			zap.String("remote_addr", c.IP()),
		)
		return writeError(c, fiber.StatusUnauthorized, "Invalid token format.")
	}

	claims, err := h.tokens.Validate(strings.TrimSpace(parts[1]))
	if err != nil {
		h.logger.Warn("auth: invalid or expired token",
			zap.String("path", c.Path()),
			zap.String("remote_addr", c.IP()),
			zap.Error(err),
		)
		return writeError(c, fiber.StatusUnauthorized, "Invalid or expired token.")
	}

	if raw := c.Params("account"); raw != "" {
		account, err := store.NormalizeAccount(raw)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, err.Error())
		}
		if account != claims.Sub {
			h.logger.Warn("auth: account mismatch",
				zap.String("path", c.Path()),
				zap.String("token_account", claims.Sub),
			)
			return writeError(c, fiber.StatusForbidden, "Token does not grant access to this account.")
		}
	}

	c.Locals(accountLocal, claims.Sub)
	return c.Next()
}

// authenticatedAccount is the account RequireAccount stored for this request.
func authenticatedAccount(c *fiber.Ctx) string {
	account, _ := c.Locals(accountLocal).(string)
	return account
}
