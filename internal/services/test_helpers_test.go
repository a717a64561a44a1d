package services_test

import (
	"github.com/hh727w/portfolio-api/config"
	"github.com/hh727w/portfolio-api/pkg/logger"
)

func init() {
	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Contact: config.ContactConfig{
			Recipients: []string{"owner@example.com", "backup@example.com"},
			Sender:     config.DefaultSender,
		},
	}
}
