package bootstrap

import "github.com/gin-gonic/gin"

// SetGinMode puts gin in release mode outside development.
func SetGinMode(environment string) {
	if environment == "development" {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
