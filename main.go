package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/shakti20/Camper/internal/config"
	"github.com/shakti20/Camper/internal/geocode"
	"github.com/shakti20/Camper/internal/handler"
	"github.com/shakti20/Camper/internal/middleware"
	appmongo "github.com/shakti20/Camper/internal/mongo"
	"github.com/shakti20/Camper/internal/repository"
	"github.com/shakti20/Camper/internal/service"
	"github.com/shakti20/Camper/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded")
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	client, err := appmongo.NewClient(cfg.DBURL)
	if err != nil {
		log.Fatalf("mongo connect error: %v", err)
	}
	slog.Info("database connected", "db", cfg.DBName)
	db := client.Database(cfg.DBName)

	listingRepo := repository.NewListingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	photoRepo := repository.NewPhotoRepository(client, cfg.DBName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		cancel()
		log.Fatalf("index error: %v", err)
	}
	cancel()

	geocoder := geocode.NewClient(cfg.GeocoderURL, cfg.MapboxToken)
	sessions := session.NewManager(sessionRepo, userRepo, cfg.SessionSecret)
	listingSvc := service.NewListingService(listingRepo, reviewRepo, photoRepo, geocoder)
	reviewSvc := service.NewReviewService(reviewRepo, listingRepo, userRepo)
	authSvc := service.NewAuthService(userRepo)

	listings := &handler.ListingHandler{Listings: listingSvc, Reviews: reviewSvc, Sessions: sessions}
	reviews := &handler.ReviewHandler{Reviews: reviewSvc, Sessions: sessions}
	auth := &handler.AuthHandler{Auth: authSvc, Sessions: sessions}
	photos := &handler.PhotoHandler{Photos: photoRepo}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Errors())
	r.Use(sessions.Load())
	r.LoadHTMLGlob("templates/*.html")
	r.NoRoute(middleware.NotFound())

	requireLogin := middleware.RequireLogin(sessions)
	requireOwner := middleware.RequireOwner(sessions, listingRepo)

	r.GET("/", listings.Home)
	r.GET("/campgrounds", listings.Index)
	r.GET("/campgrounds/new", requireLogin, listings.New)
	r.POST("/campgrounds", requireLogin, listings.Create)
	r.GET("/campgrounds/:id", listings.Show)
	r.GET("/campgrounds/:id/edit", requireLogin, requireOwner, listings.Edit)
	r.PUT("/campgrounds/:id", requireLogin, requireOwner, listings.Update)
	r.DELETE("/campgrounds/:id", requireLogin, requireOwner, listings.Delete)

	r.POST("/campgrounds/:id/reviews", requireLogin, reviews.Create)
	r.DELETE("/campgrounds/:id/reviews/:reviewId", requireLogin, reviews.Delete)

	r.GET("/register", auth.RegisterPage)
	r.POST("/register", auth.Register)
	r.GET("/login", auth.LoginPage)
	r.POST("/login", auth.Login)
	r.GET("/logout", auth.Logout)

	r.GET("/images/:filename", photos.Show)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: middleware.MethodOverride(r),
	}
	slog.Info("serving", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
