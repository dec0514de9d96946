package main

import (
	"log"

	corecmd "github.com/m3rciful/dealbot/core/cmd"
	"github.com/m3rciful/dealbot/internal/app"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return app.LoadConfig(path)
		},
		Bootstrap: func(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return app.Bootstrap(cfg)
		},
	})
	if err != nil {
		log.Fatalf("dealbot: %v", err)
	}
}
