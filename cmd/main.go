// Package main is the entry point for the SoundMesh visualizer.
//
// SoundMesh renders audio as a physical mesh: the playing track's spectrum
// feeds a spring-lattice simulation whose nodes light up and ripple with
// the music.
//
// Build:
//
//	go build -o build/soundmesh ./cmd
//
// Run:
//
//	./build/soundmesh
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/soundmesh/soundmesh/internal/app"
)

func main() {
	config := app.DefaultConfig()

	application, err := app.NewApplication(config)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Ensure a graceful shutdown
	defer func() {
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
	}()

	// Run application (blocks until the window closed)
	if err := application.Run(); err != nil {
		log.Printf("Application error: %v", err)
	}
}
