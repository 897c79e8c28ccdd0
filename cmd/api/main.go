package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"junqo/internal/app"
	"junqo/internal/config"
	"junqo/internal/database"
	apphttp "junqo/internal/http"
	"junqo/internal/http/graphql"
	"junqo/internal/http/handlers"
	"junqo/internal/http/metrics"
	httpmw "junqo/internal/http/middleware"
	"junqo/internal/observability"
	"junqo/internal/repository/postgres"
	"junqo/internal/security"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()
	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	userRepo := postgres.NewUserRepository(db)
	offerRepo := postgres.NewOfferRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	studentRepo := postgres.NewStudentProfileRepository(db)
	companyRepo := postgres.NewCompanyProfileRepository(db)
	schoolRepo := postgres.NewSchoolProfileRepository(db)
	experienceRepo := postgres.NewExperienceRepository(db)
	conversationRepo := postgres.NewConversationRepository(db)

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret, cfg.AccessTokenTTL)

	authService := app.NewAuthService(userRepo, studentRepo, companyRepo, schoolRepo, jwtProvider)
	offerService := app.NewOfferService(offerRepo, applicationRepo, logger)
	applicationService := app.NewApplicationService(applicationRepo, offerRepo, studentRepo, companyRepo, conversationRepo, logger)
	profileService := app.NewProfileService(studentRepo, companyRepo, schoolRepo)
	experienceService := app.NewExperienceService(experienceRepo, studentRepo)
	conversationService := app.NewConversationService(conversationRepo)

	var rateLimiter httpmw.Limiter = httpmw.NewRateLimiter()
	if cfg.RedisAddr != "" {
		rateLimiter = httpmw.NewRedisLimiter(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}

	graphqlHandler, err := graphql.NewHandler(graphql.Services{
		Offers:       offerService,
		Applications: applicationService,
		Profiles:     profileService,
	})
	if err != nil {
		log.Fatalf("failed to build graphql schema: %v", err)
	}

	collector := metrics.NewCollector()
	router := apphttp.NewRouter(apphttp.RouterDependencies{
		AuthHandler:         handlers.NewAuthHandler(authService, rateLimiter),
		OfferHandler:        handlers.NewOfferHandler(offerService),
		ApplicationHandler:  handlers.NewApplicationHandler(applicationService, rateLimiter),
		ProfileHandler:      handlers.NewProfileHandler(profileService),
		ExperienceHandler:   handlers.NewExperienceHandler(experienceService),
		ConversationHandler: handlers.NewConversationHandler(conversationService, rateLimiter),
		MetricsHandler:      handlers.NewMetricsHandler(collector),
		GraphQLHandler:      graphqlHandler,
		AuthMiddleware:      httpmw.NewAuthMiddleware(jwtProvider),
		Metrics:             collector,
		Logger:              logger,
		RequestTimeout:      cfg.RequestTimeout,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Msg("API started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
