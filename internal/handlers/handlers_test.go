package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/hh727w/portfolio-api/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)

	_ = logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	})
}
