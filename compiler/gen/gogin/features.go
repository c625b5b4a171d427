package gogin

import (
	"fmt"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/compiler/gen/seed"
	"github.com/apiforge/forge/schema"
)

// GenFeaturePacks generates the cross-cutting feature files: auth, rate
// limiting and seed data.
func (t *Target) GenFeaturePacks(s *schema.Schema, c *gen.Config) []gen.File {
	var files []gen.File
	if c.FeatureEnabled(gen.FeatureJWTAuth.Name) {
		files = append(files, gen.File{Path: "internal/auth/auth.go", Content: t.authGo(c)})
	}
	if c.FeatureEnabled(gen.FeatureRateLimiting.Name) {
		files = append(files, gen.File{Path: "internal/ratelimit/ratelimit.go", Content: t.ratelimitGo(c)})
	}
	if c.FeatureEnabled(gen.FeatureSeedData.Name) {
		files = append(files, gen.File{Path: "db/seed.sql", Content: seed.SQL(s, c)})
	}
	return files
}

func (t *Target) authGo(c *gen.Config) string {
	src := fmt.Sprintf(authTemplate, c.ParamInt("auth/jwt.expiration-minutes", 60), c.ProjectName)
	return format("internal/auth/auth.go", src)
}

const authTemplate = `package auth

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type loginRequest struct {
	Username string ` + "`json:\"username\" binding:\"required\"`" + `
	Password string ` + "`json:\"password\" binding:\"required\"`" + `
}

type tokenResponse struct {
	Token string ` + "`json:\"token\"`" + `
}

func secret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("change-me")
}

func expiration() time.Duration {
	if v, err := strconv.Atoi(os.Getenv("JWT_EXPIRATION")); err == nil && v > 0 {
		return time.Duration(v) * time.Second
	}
	return %d * time.Minute
}

// Issue signs a token for the given subject.
func Issue(subject string) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    %q,
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration())),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// Verify parses and validates a token, returning its subject.
func Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return secret(), nil
	})
	if err != nil {
		return "", err
	}
	return parsed.Claims.GetSubject()
}

// Register mounts the login route.
func Register(r *gin.RouterGroup) {
	r.POST("/auth/login", login)
}

func login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Credential lookup is deployment-specific; wire it to your user store.
	token, err := Issue(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// Middleware rejects requests without a valid bearer token.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		subject, err := Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("subject", subject)
		c.Next()
	}
}
`

func (t *Target) ratelimitGo(c *gen.Config) string {
	src := fmt.Sprintf(ratelimitTemplate,
		c.ParamInt("ratelimit.per-second", 2), c.ParamInt("ratelimit.burst", 50))
	return format("internal/ratelimit/ratelimit.go", src)
}

const ratelimitTemplate = `package ratelimit

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type limiters struct {
	mu      sync.Mutex
	clients map[string]*rate.Limiter
}

func (l *limiters) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.clients[key]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(%d), %d)
		l.clients[key] = lim
	}
	return lim
}

// Middleware limits each client IP to a fixed request rate.
func Middleware() gin.HandlerFunc {
	l := &limiters{clients: make(map[string]*rate.Limiter)}
	return func(c *gin.Context) {
		if !l.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
`
