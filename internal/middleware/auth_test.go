package middleware

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"photovault/internal/pkg/jwt"
)

func ownerEcho() (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router, router.Group("/")
}

func TestRequireOwner_HeaderToken(t *testing.T) {
	router, g := ownerEcho()
	g.Use(RequireOwner(HeaderTokenAuthenticator{}))
	g.GET("/protected", func(c *gin.Context) {
		c.String(http.StatusOK, Owner(c))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer alice@example.com")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice@example.com", w.Body.String())
}

func TestRequireOwner_MissingHeader(t *testing.T) {
	router, g := ownerEcho()
	g.Use(RequireOwner(HeaderTokenAuthenticator{}))
	g.GET("/protected", func(c *gin.Context) {
		t.Fatal("This handler should not be reached")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRequireOwner_HeaderWithoutToken(t *testing.T) {
	router, g := ownerEcho()
	g.Use(RequireOwner(HeaderTokenAuthenticator{}))
	g.GET("/protected", func(c *gin.Context) {
		t.Fatal("This handler should not be reached")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireOwner_JWT(t *testing.T) {
	tokens := jwt.New("test-secret-123", time.Hour)
	validToken, err := tokens.GenerateToken("bob@example.com")
	assert.NoError(t, err)

	router, g := ownerEcho()
	g.Use(RequireOwner(NewJWTAuthenticator(tokens)))
	g.GET("/protected", func(c *gin.Context) {
		c.String(http.StatusOK, Owner(c))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+validToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bob@example.com", w.Body.String())
}

func TestRequireOwner_JWT_InvalidToken(t *testing.T) {
	tokens := jwt.New("test-secret-123", time.Hour)

	router, g := ownerEcho()
	g.Use(RequireOwner(NewJWTAuthenticator(tokens)))
	g.GET("/protected", func(c *gin.Context) {
		t.Fatal("This handler should not be reached")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOwnerFromForm(t *testing.T) {
	router, g := ownerEcho()
	g.POST("/upload", OwnerFromForm(), func(c *gin.Context) {
		c.String(http.StatusOK, Owner(c))
	})

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	assert.NoError(t, mw.WriteField("email", "carol@example.com"))
	assert.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "carol@example.com", w.Body.String())
}

func TestOwnerFromForm_Missing(t *testing.T) {
	router, g := ownerEcho()
	g.POST("/upload", OwnerFromForm(), func(c *gin.Context) {
		t.Fatal("This handler should not be reached")
	})

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	assert.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_OWNER")
}
