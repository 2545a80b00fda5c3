package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"photovault/internal/config"
	"photovault/internal/database"
	"photovault/internal/domain"
	"photovault/internal/middleware"
	"photovault/internal/modules/auth"
	"photovault/internal/modules/events"
	"photovault/internal/modules/gallery"
	jwtsvc "photovault/internal/pkg/jwt"
	"photovault/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(&domain.Image{}, &domain.ArchivedImage{}); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	if err := userRepo.AutoMigrate(); err != nil {
		log.Fatal(err)
	}
	imageRepo := repository.NewImageRepository(db)
	archiveRepo := repository.NewArchiveRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	var authenticator middleware.Authenticator
	switch cfg.AuthMode {
	case config.AuthModeJWT:
		authenticator = middleware.NewJWTAuthenticator(j)
	default:
		log.Println("AUTH_MODE=token: Authorization tokens are trusted as-is")
		authenticator = middleware.HeaderTokenAuthenticator{}
	}

	hub := events.NewHub()
	defer hub.Close()

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	galleryService := gallery.NewService(imageRepo, archiveRepo, hub, cfg.IngestConcurrency)
	galleryHandler := gallery.NewHandler(galleryService)

	eventsHandler := events.NewHandler(hub, authenticator)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public: accounts + upload (upload resolves its owner from the body)
		authHandler.RegisterRoutes(v1)
		galleryHandler.RegisterRoutes(v1, nil)
		eventsHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.RequireOwner(authenticator))
		{
			galleryHandler.RegisterRoutes(nil, protected)
		}
	}

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
