package app

import (
	"context"
	"errors"
	"log"
	"net/http"

	"krishisahay/internal/chat"
	"krishisahay/internal/config"
	"krishisahay/internal/crops"
	"krishisahay/internal/facts"
	"krishisahay/internal/gemini"
	"krishisahay/internal/geo"
	"krishisahay/internal/httpapi"
	"krishisahay/internal/metrics"
	"krishisahay/internal/prompts"
	"krishisahay/internal/weather"
)

// App wires the conversation components together.
type App struct {
	cfg     config.Config
	store   *facts.Store
	prompts *prompts.Manager
	mux     *http.ServeMux
}

// New builds the application. A store that fails to open and missing
// credentials degrade the relevant features instead of aborting.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	m := metrics.New()

	var st *facts.Store
	if cfg.DBPath != "" {
		s, err := facts.Open(cfg.DBPath)
		if err != nil {
			log.Printf("store open %s failed: %v (serving from fallback tables)", cfg.DBPath, err)
		} else {
			st = s
			if cfg.SeedDemoData {
				if err := st.SeedDemoData(ctx); err != nil {
					log.Printf("seed demo data: %v", err)
				}
			}
		}
	}

	backend, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}

	pm := prompts.NewManager(cfg.PromptsPath)
	gateway := facts.NewGateway(st, m)
	resolver := crops.NewResolver(backend, pm)
	locator := geo.NewLocator(m)
	wc := weather.New(cfg.WeatherAPIKey, m)
	pipe := chat.NewPipeline(gateway, resolver, locator, wc, backend, pm, m)

	mux := http.NewServeMux()
	router := httpapi.NewRouter(cfg, pipe, st, backend, m)
	router.Register(mux)

	return &App{cfg: cfg, store: st, prompts: pm, mux: mux}, nil
}

// Run starts the prompt watcher and HTTP server, stopping on ctx cancel.
func (a *App) Run(ctx context.Context) error {
	if err := a.prompts.Watch(ctx); err != nil {
		log.Printf("prompt watch: %v", err)
	}
	srv := &http.Server{Addr: a.cfg.HTTPPort, Handler: a.mux}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	log.Printf("http listening on %s", a.cfg.HTTPPort)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		if a.store != nil {
			_ = a.store.Close()
		}
		return nil
	}
	return err
}

func (a *App) Mux() *http.ServeMux { return a.mux }
