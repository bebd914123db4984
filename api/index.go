package handler

import (
	"net/http"
	"os"
	"sync"
	"taskly/config"
	"taskly/di"
	"taskly/shared/logger"
)

var (
	once    sync.Once
	handler http.Handler
)

// Handler is the serverless entrypoint. The service graph is built on the first
// invocation and reused by warm instances.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)
		logger.UseJSONOutput(cfg, os.Stdout)

		server, _ := di.InitializeService()
		handler = server.Handler()
	})

	handler.ServeHTTP(w, r)
}
