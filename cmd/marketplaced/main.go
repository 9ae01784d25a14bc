package main

import (
	"context"
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

	go container.GetRefresher().Execute(context.Background())

	router := container.GetApiServer().Router()

	zap.L().Info("Serving marketplace api on :" + config.Get().Api.Port)

	if err := http.ListenAndServe(":"+config.Get().Api.Port, router); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to start marketplace api")
	}
}
