package main

import (
	"log"

	"github.com/MrSnakeDoc/bang/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ bang failed to start: %v", err)
	}
}
