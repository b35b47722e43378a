package main

import (
	"log"

	"github.com/refdeck/refdeck/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ refdeck failed to start: %v", err)
	}
}
