// Package main is the entry point for the fcb1010 API server
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fcbtools/fcb1010/pkg/api"
	"github.com/fcbtools/fcb1010/pkg/preset"
)

func main() {
	port := flag.Int("port", 8080, "Server port")
	presetFile := flag.String("presets", "", "Preset bank JSON file to serve")
	flag.Parse()

	bank := preset.NewBank()
	if *presetFile != "" {
		loaded, err := preset.LoadFile(*presetFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load presets: %v\n", err)
			os.Exit(1)
		}
		bank = loaded
	}

	fmt.Printf("Starting fcb1010 API server on port %d...\n", *port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", *port)

	if err := api.StartServer(*port, bank); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
