package main

import (
	"net/http"

	"github.com/fractionft/fraction-marketplace/internal/config"
	"github.com/fractionft/fraction-marketplace/internal/config/di"
	"go.uber.org/zap"
)

func main() {
	config.Init()

	container, err := di.NewContainer()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}

	router := container.GetResolverServer().Router()

	zap.L().Info("Serving resolver on :" + config.Get().Resolver.Port)

	if err := http.ListenAndServe(":"+config.Get().Resolver.Port, router); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to start resolver")
	}
}
