package main

import (
	"log"

	"github.com/MrSnakeDoc/swaply-web/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ swaply-web failed to start: %v", err)
	}
}
