package models

import (
	"net/http"
	"strings"
	"time"

	"AudioFolio/pkg/middleware"

	"github.com/gin-gonic/gin"
)

const UserField = "_user"

type User struct {
	ID          uint   `gorm:"primaryKey"`
	Email       string `gorm:"size:256;uniqueIndex"`
	DisplayName string `gorm:"size:128"`
	APIToken    string `gorm:"size:64;uniqueIndex"`
	Enabled     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AuthRequired resolves the calling user from the bearer token and aborts
// with 401 when it is absent or unknown.
func AuthRequired(c *gin.Context) {
	token := c.GetHeader("Authorization")
	token = strings.TrimPrefix(token, "Bearer ")
	if token == "" {
		token = c.GetHeader("X-API-Token")
	}
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing auth token"})
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no database"})
		return
	}

	var user User
	if err := db.Where("api_token = ? AND enabled = ?", token, true).First(&user).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid auth token"})
		return
	}

	c.Set(UserField, &user)
	c.Next()
}

// CurrentUser returns the authenticated user, or nil outside AuthRequired.
func CurrentUser(c *gin.Context) *User {
	if v, ok := c.Get(UserField); ok {
		if u, ok := v.(*User); ok {
			return u
		}
	}
	return nil
}
