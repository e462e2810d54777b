package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const DBField = "_db"

// InjectDB exposes the gorm handle to downstream middleware and handlers.
func InjectDB(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(DBField, db)
		c.Next()
	}
}

// GetDB returns the injected gorm handle, or nil when absent.
func GetDB(c *gin.Context) *gorm.DB {
	if v, ok := c.Get(DBField); ok {
		if db, ok := v.(*gorm.DB); ok {
			return db
		}
	}
	return nil
}
