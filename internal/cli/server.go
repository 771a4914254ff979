package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"team-trivia-service/internal/config"
	"team-trivia-service/internal/domain"
	"team-trivia-service/internal/game"
	"team-trivia-service/internal/infra/memory"
	pgloader "team-trivia-service/internal/infra/postgres"
	redisinfra "team-trivia-service/internal/infra/redis"
	transport "team-trivia-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.BankLoader = memory.NewStaticBankLoader(builtinBanks())
	if pool != nil {
		loader = pgloader.NewBankLoader(pool)
	}

	bankTTL := config.TTLDuration(cfg.Game.BankTTL, 10*time.Minute)
	var banks game.BankRepository
	if redisClient != nil {
		banks = redisinfra.NewBankRepository(redisClient, loader, bankTTL)
	} else {
		banks = memory.NewBankRepository(loader, bankTTL)
	}

	var store game.SessionRepository
	if redisClient != nil {
		store = redisinfra.NewGameStore(redisClient, redisTTL)
	} else {
		store = memory.NewGameStore()
	}

	perTeam := cfg.Game.PerTeam
	if perTeam <= 0 {
		perTeam = 3
	}

	service := game.NewGameService(store, banks)
	wsHandler := transport.NewWSHandler(service, perTeam)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting trivia service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// builtinBanks provides the compiled-in question pool used when Postgres
// is not configured; swap in the DB-backed loader for authored content.
func builtinBanks() map[string]domain.QuestionBank {
	return map[string]domain.QuestionBank{
		"winds-and-storms": {
			ID: "winds-and-storms",
			Questions: []domain.QuestionTemplate{
				{
					Prompt:        "How does the greenhouse effect relate to the chemical composition of the atmosphere and the formation of global winds?",
					Options:       []string{"It cools the Earth reducing winds", "It creates uneven heating patterns driving wind formation", "It only affects ocean currents", "It prevents wind formation"},
					CorrectAnswer: "It creates uneven heating patterns driving wind formation",
				},
				{
					Prompt:        "What chemical reactions take place when water vapor condenses in clouds during the cyclone formation process?",
					Options:       []string{"Hydrogen bonds break releasing cold", "Hydrogen bonds form releasing latent heat", "No chemical reactions occur", "Only physical changes happen"},
					CorrectAnswer: "Hydrogen bonds form releasing latent heat",
				},
				{
					Prompt:        "Using the ideal gas law, what happens to air pressure as a cyclone moves through a region with increasing humidity?",
					Options:       []string{"Pressure increases significantly", "Pressure decreases due to water vapor displacing air molecules", "Pressure remains constant", "Humidity doesn't affect pressure"},
					CorrectAnswer: "Pressure decreases due to water vapor displacing air molecules",
				},
				{
					Prompt:        "How do temperature variations in different layers of the atmosphere contribute to cyclone formation?",
					Options:       []string{"Temperature has no effect", "Temperature differences create density and pressure variations driving cyclones", "Only surface temperature matters", "Temperature only affects visibility"},
					CorrectAnswer: "Temperature differences create density and pressure variations driving cyclones",
				},
				{
					Prompt:        "How does the chemical composition of seawater affect the development of cyclones?",
					Options:       []string{"Seawater composition is irrelevant", "Salt content affects evaporation rates and humidity levels", "Only water temperature matters", "Chemical composition prevents cyclones"},
					CorrectAnswer: "Salt content affects evaporation rates and humidity levels",
				},
				{
					Prompt:        "Using thermodynamics, why does temperature inside a cyclone decrease despite warm, moist air presence?",
					Options:       []string{"Temperature always increases", "Rising air expands and cools following thermodynamic principles", "Chemical reactions cool the air", "Pressure has no effect on temperature"},
					CorrectAnswer: "Rising air expands and cools following thermodynamic principles",
				},
				{
					Prompt:        "What chemical process releases energy in the eye of a cyclone, influencing wind speed and direction?",
					Options:       []string{"No energy release occurs", "Latent heat release during condensation warms air and strengthens the cyclone", "Only mechanical processes involved", "Chemical reactions weaken cyclones"},
					CorrectAnswer: "Latent heat release during condensation warms air and strengthens the cyclone",
				},
				{
					Prompt:        "Calculate the impact of varying wind speeds on water evaporation rate during cyclone formation.",
					Options:       []string{"Wind speed doesn't affect evaporation", "Higher wind speeds increase evaporation by removing water vapor", "Wind speeds decrease evaporation", "Only temperature affects evaporation"},
					CorrectAnswer: "Higher wind speeds increase evaporation by removing water vapor",
				},
				{
					Prompt:        "How do chemical interactions between warm, moist air and cold air contribute to storm development?",
					Options:       []string{"No chemical interactions occur", "Condensation releases energy fueling storm development", "Only temperature differences matter", "Chemical reactions prevent storms"},
					CorrectAnswer: "Condensation releases energy fueling storm development",
				},
			},
		},
	}
}
