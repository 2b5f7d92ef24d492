package main

import (
	"context"
	"log"

	"github.com/smsportal/portal/internal/portal"
	"github.com/smsportal/portal/internal/portal/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := portal.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}
}
