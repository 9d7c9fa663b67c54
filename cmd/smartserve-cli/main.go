package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"smartserve/internal/config"
	"smartserve/internal/fridge"
)

var (
	serverURL = flag.String("server", "", "SmartServe API URL (default $SMARTSERVE_API_URL or http://localhost:8080)")
	local     = flag.Bool("local", false, "Forecast in-process instead of calling the server")
)

func main() {
	flag.Parse()
	config.LoadDotEnv()

	client, err := newClient()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(client, fridge.DefaultOptions()))
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v", err)
		os.Exit(1)
	}
}

func newClient() (*ApiClient, error) {
	if *local {
		return NewLocalClient()
	}

	url := *serverURL
	if url == "" {
		url = os.Getenv("SMARTSERVE_API_URL")
	}
	if url == "" {
		url = "http://localhost:8080"
	}

	client := NewApiClient(url)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.CheckHealth(ctx); err != nil {
		fmt.Printf("Warning: API server at %s is not available (%v). Forecasts will fail; use -local to forecast offline.\n", url, err)
	}
	return client, nil
}
