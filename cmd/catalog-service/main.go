package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/marktprijs/catalog/internal/config"
	httpAPI "github.com/marktprijs/catalog/internal/http"
	"github.com/marktprijs/catalog/internal/http/controller"
	"github.com/marktprijs/catalog/internal/logger"
	"github.com/marktprijs/catalog/internal/metrics"
	"github.com/marktprijs/catalog/internal/repository/sql"
	"github.com/marktprijs/catalog/internal/service"
)

func main() {
	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)

	logger.InitJSONLogger(conf.DebugMode)

	ctx := context.Background()
	db, err := sql.StartDB(ctx, conf.Database)
	handleErr("starting database", err)
	defer db.Close()

	catalogRepository := sql.NewCatalogRepository(db)
	sessionRepository := sql.NewSessionRepository(db)
	supermarketRepository := sql.NewSupermarketRepository(db)

	catalogService := service.NewCatalogService(catalogRepository)
	sessionTracker := service.NewSessionTracker(sessionRepository, supermarketRepository)

	metrics.StartMetricsServer(conf)

	catalogController := controller.NewCatalogController(catalogService, sessionTracker)
	server := httpAPI.InitRouter(gin.New(), catalogController)

	handleErr("running HTTP server", server.Run(":"+conf.HTTPServer.Port))
}

func handleErr(action string, err error) {
	if err != nil {
		log.Fatalf("error while %s: %v", action, err)
	}
}
