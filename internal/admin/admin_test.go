package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/minigolf/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyAdminKey(t *testing.T) {
	hash, err := HashAdminKey("open-sesame")
	require.NoError(t, err)

	assert.True(t, VerifyAdminKey(hash, "open-sesame"))
	assert.False(t, VerifyAdminKey(hash, "wrong"))
	assert.False(t, VerifyAdminKey("", "open-sesame"))
	assert.False(t, VerifyAdminKey(hash, ""))

	_, err = HashAdminKey("")
	assert.Error(t, err)
}

func TestAdminKeyMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hash, err := HashAdminKey("open-sesame")
	require.NoError(t, err)

	tests := []struct {
		name string
		hash string
		key  string
		want int
	}{
		{"editing disabled", "", "open-sesame", http.StatusForbidden},
		{"missing key", hash, "", http.StatusUnauthorized},
		{"wrong key", hash, "nope", http.StatusUnauthorized},
		{"valid key", hash, "open-sesame", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/levels", AdminKeyMiddleware(&config.Config{AdminKeyHash: tt.hash}), func(c *gin.Context) {
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodPost, "/levels", nil)
			if tt.key != "" {
				req.Header.Set(HeaderAdminKey, tt.key)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
