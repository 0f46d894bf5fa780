package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/tablegate/tablegate"
)

func main() {
	// Load configuration (flags override env)
	cfg, err := tablegate.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// One handle per process, reused across all requests
	db, driver, err := tablegate.OpenGORM(cfg.ServiceURL, cfg.ServiceKey)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	client := tablegate.NewClient(db, driver)
	if err := client.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	app := tablegate.New(cfg, client)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	log.Printf("tablegate listening on %s (mount %s, driver %s)", addr, cfg.BasePath, driver)

	log.Fatal(http.ListenAndServe(addr, app.Handler()))
}
