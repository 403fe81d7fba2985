package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/byAMC31/ProyectoKn/internal/auth"
	"github.com/byAMC31/ProyectoKn/internal/config"
	"github.com/byAMC31/ProyectoKn/internal/database"
	"github.com/byAMC31/ProyectoKn/internal/geocode"
	"github.com/byAMC31/ProyectoKn/internal/storage"
	"github.com/byAMC31/ProyectoKn/internal/users"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded, continuing with environment variables")
	}

	if m := os.Getenv("GIN_MODE"); m != "" {
		gin.SetMode(m)
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db, &users.User{}); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	if err := users.Seed(db); err != nil {
		log.Printf("seeding failed: %v", err)
	}

	store, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		log.Fatalf("failed to prepare uploads dir: %v", err)
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpires)

	r := newRouter(db, tokens, store, cfg.UploadDir)

	log.Printf("listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func newRouter(db *gorm.DB, tokens *auth.TokenService, store *storage.Local, uploadDir string) *gin.Engine {
	r := gin.Default()

	r.Static("/uploads", uploadDir)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	svc := users.NewService(db)
	authHandler := auth.NewHandler(svc, tokens)
	userHandler := users.NewHandler(svc, store)
	geoHandler := geocode.NewHandler(geocode.NewClient(os.Getenv("GEOCODE_BASE_URL")))

	v1 := r.Group("/api/v1")
	v1.POST("/login", authHandler.Login)
	v1.POST("/users/register", userHandler.Register)

	protected := v1.Group("", auth.RequireAuth(db, tokens))
	protected.GET("/users", userHandler.List)
	protected.GET("/users/:id", userHandler.Get)
	protected.PUT("/users/:id", userHandler.Update)
	protected.DELETE("/users/:id", userHandler.Delete)
	protected.PUT("/users/:id/password", userHandler.ChangePassword)
	protected.GET("/geocode/reverse", geoHandler.Reverse)

	return r
}
