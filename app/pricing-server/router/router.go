package router

import (
	"dynamicPricing/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupPricingRoutes(api *echo.Group, handler *rest.PricingHandler, serviceAuth, serviceOnly echo.MiddlewareFunc) {
	pricing := api.Group("/pricing")

	pricing.POST("/cycle", handler.RunCycle, serviceAuth, serviceOnly)
	pricing.POST("/decisions/:id", handler.ExecuteDecision, serviceAuth, serviceOnly)

	pricing.GET("/optimal/:id", handler.OptimalPrice)
	pricing.GET("/recommendations/:id", handler.Recommendations)
	pricing.GET("/elasticity/:id", handler.Elasticity)
	pricing.GET("/history/:id", handler.PricingHistory)
	pricing.GET("/changes/:id", handler.PriceChanges)
	pricing.GET("/decisions/:id", handler.Decisions)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler) {
	products := api.Group("/products")

	products.GET("", handler.GetAllProducts)
	products.GET("/:id", handler.GetProductByID)
}
