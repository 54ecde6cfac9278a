package main

import (
	"context"
	"net/http"

	"address-heatmap/internal/config"
	"address-heatmap/internal/handler"
	"address-heatmap/internal/middleware"
	"address-heatmap/internal/repository"
	"address-heatmap/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	// Load both CSV files up front; a bad input file is fatal and nothing
	// is served.
	store := repository.NewCSVStore(config.AddressCSV, config.CoordinatesCSV)
	if err := store.Load(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("cannot load dataset")
	}

	// Initialize layers
	heatmapService := service.NewHeatmapService(store)
	summaryService := service.NewSummaryService(store)

	heatmapHandler := handler.NewHeatmapHandler(heatmapService)
	summaryHandler := handler.NewSummaryHandler(summaryService)
	statsHandler := handler.NewStatsHandler(summaryService)

	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())

	r.LoadHTMLGlob(config.TemplateGlob)
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api")
	{
		api.GET("/heatmap", heatmapHandler.Heatmap)
		api.GET("/summary", summaryHandler.Summary)
		api.GET("/summary/export", summaryHandler.Export)
		api.GET("/stats", statsHandler.Stats)
		api.GET("/years", statsHandler.Years)
	}

	r.Run(config.ServerAddress)
}
