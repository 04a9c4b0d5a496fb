package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/devlink/devlink/backend/internal/auth/http"
	authservice "github.com/devlink/devlink/backend/internal/auth/service"
	"github.com/devlink/devlink/backend/internal/common/clock"
	"github.com/devlink/devlink/backend/internal/common/config"
	commoncrypto "github.com/devlink/devlink/backend/internal/common/crypto"
	"github.com/devlink/devlink/backend/internal/common/db"
	commonhttp "github.com/devlink/devlink/backend/internal/common/http"
	"github.com/devlink/devlink/backend/internal/common/logger"
	srv "github.com/devlink/devlink/backend/internal/common/server"
	"github.com/devlink/devlink/backend/internal/github"
	posthttp "github.com/devlink/devlink/backend/internal/post/http"
	postrepo "github.com/devlink/devlink/backend/internal/post/repository"
	postservice "github.com/devlink/devlink/backend/internal/post/service"
	profilehttp "github.com/devlink/devlink/backend/internal/profile/http"
	profilerepo "github.com/devlink/devlink/backend/internal/profile/repository"
	profileservice "github.com/devlink/devlink/backend/internal/profile/service"
	userrepo "github.com/devlink/devlink/backend/internal/user/repository"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "api", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	userRepo := userrepo.NewPgRepository(pool)
	postRepo := postrepo.NewPgRepository(pool)
	profileRepo := profilerepo.NewPgRepository(pool)

	hasher := &commoncrypto.BcryptHasher{}
	idGenerator := &commoncrypto.UUIDGenerator{}
	clk := clock.NewRealClock()

	tokens := authservice.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, clk)
	authService := authservice.NewAuthService(userRepo, hasher, idGenerator, tokens, clk, log)
	postService := postservice.NewPostService(postRepo, userRepo, idGenerator, clk, log)
	profileService := profileservice.NewProfileService(profileRepo, userRepo, postRepo, idGenerator, clk, log)
	githubClient := github.NewClient(cfg.GithubClientID, cfg.GithubClientSecret)

	authHandler := authhttp.NewHandler(authService, cfg.JWTSecret, log)
	postHandler := posthttp.NewHandler(postService, cfg.JWTSecret, log)
	profileHandler := profilehttp.NewHandler(profileService, githubClient, cfg.JWTSecret, log)

	mux := http.NewServeMux()
	mux.Handle("/api/users", authHandler)
	mux.Handle("/api/auth", authHandler)
	mux.Handle("/api/posts", postHandler)
	mux.Handle("/api/posts/", postHandler)
	mux.Handle("/api/profile", profileHandler)
	mux.Handle("/api/profile/", profileHandler)
	mux.Handle("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	baseHandler := commonhttp.BuildBaseHandler(log, mux)

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), baseHandler)
	srv.StartWithGracefulShutdown(server, log, "api")
}
