package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"voyago/cmd/fx/planner_fx"
	"voyago/cmd/fx/providers_fx"
	"voyago/internal/api/controllers"
	"voyago/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	app := fx.New(
		providers_fx.Module,
		planner_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			go func() {
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	planController *controllers.PlanController,
	searchController *controllers.SearchController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, planController, searchController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	planController *controllers.PlanController,
	searchController *controllers.SearchController) {

	plansGroup := r.Group("/plans")
	plansGroup.POST("", planController.GeneratePlanHandler)
	plansGroup.POST("/edit", planController.EditPlanHandler)

	searchGroup := r.Group("/search")
	searchGroup.GET("/flights", searchController.SearchFlightsHandler)
	searchGroup.GET("/hotels", searchController.SearchHotelsHandler)
	searchGroup.GET("/places", searchController.SearchPlacesHandler)
}
