package main

import (
	"os"
	"taskly/config"
	"taskly/di"
	"taskly/shared/logger"
)

// @title taskly API
// @version 1.0
// @description Per-user to-do lists behind username and password authentication.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)
	logger.UseJSONOutput(cfg, os.Stdout)

	http, cleanup := di.InitializeService()
	defer cleanup()

	http.Serve()
}
