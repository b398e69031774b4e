package main

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/citygate/interstitial/internal/config"
	"github.com/citygate/interstitial/internal/content"
	"github.com/citygate/interstitial/internal/interact"
	"github.com/citygate/interstitial/internal/logging"
	"github.com/citygate/interstitial/internal/ui"
)

func main() {
	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := logging.Init("interstitial"); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Close()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	catalog := content.NewCatalog(cfg.Backend, cfg.RequestTimeout())
	client := interact.NewClient(cfg.Backend, cfg.Bearer(), cfg.RequestTimeout())
	gateway := interact.NewGateway(
		client,
		interact.BrowserOpener{},
		interact.SystemClipboard{},
		cfg.PublicBase,
		cfg.Authenticated(),
	)

	logging.Info("starting presenter", "backend", cfg.Backend, "authenticated", cfg.Authenticated())

	model := ui.NewModel(ctx, catalog, gateway, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logging.Error("UI exited with error", "err", err)
		log.Fatalf("Error running program: %v", err)
	}
}
