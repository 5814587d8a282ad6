package http

import (
	"github.com/gin-gonic/gin"
	"github.com/marktprijs/catalog/internal/http/controller"
	"github.com/marktprijs/catalog/internal/http/middleware"
)

// InitRouter wires the read-side catalog endpoints.
func InitRouter(server *gin.Engine, catalogCtr *controller.CatalogController) *gin.Engine {
	// Apply recovery middleware globally to prevent panics from crashing the server
	server.Use(middleware.Recovery())
	server.Use(middleware.RequestLogger())

	products := server.Group("/products")
	{
		products.GET("", catalogCtr.ListProducts)
		products.GET("/search", catalogCtr.SearchProducts)
	}

	sessions := server.Group("/sessions")
	{
		sessions.GET("/last-completed", catalogCtr.LastCompletedSession)
	}

	return server
}
