// Command server runs the add-on catalog proxy.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/WebThingsIO/addon-proxy/internal/infrastructure/config"
	"github.com/WebThingsIO/addon-proxy/internal/infrastructure/server"
)

func main() {
	cfg := config.LoadOrDefault()

	// Flags override the environment.
	port := flag.String("port", cfg.Server.Port, "port for server")
	sourceURL := flag.String("url", cfg.Source.URL, "URL of add-on list endpoint (overrides git source)")
	repo := flag.String("repo", cfg.Source.Repo, "URL of git repository")
	branch := flag.String("branch", cfg.Source.Branch, "branch to use from git repository")
	flag.Parse()

	cfg.Server.Port = *port
	cfg.Source.URL = *sourceURL
	cfg.Source.Repo = *repo
	cfg.Source.Branch = *branch

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// The first fetch must succeed before traffic is accepted.
	if err := srv.Bootstrap(context.Background()); err != nil {
		log.Fatalf("Failed to load initial catalog: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		log.Println("Shutting down gracefully...")
		if err := srv.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	}
}
