package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"devconnector/auth"
	"devconnector/cache"
	"devconnector/confs"
	"devconnector/db"
	"devconnector/handlers"
	httpHandler "devconnector/handlers/http"
	"devconnector/mail"
	"devconnector/middleware"
	"devconnector/repositories"
	"devconnector/services"
	"devconnector/usecases"
	"devconnector/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps are the outbound collaborators the API talks to. GithubCache is
// optional; without it the cache routes are not mounted.
type Deps struct {
	Mailer      mail.Sender
	Repos       usecases.RepoLister
	GithubCache *cache.TTLCache
}

type Server struct {
	app     *gin.Engine
	db      db.Database
	cfg     confs.Config
	sweeper *services.ResetSweeper
}

func NewServer(cfg confs.Config, database db.Database, deps Deps) *Server {
	s := &Server{
		app: gin.Default(),
		db:  database,
		cfg: cfg,
	}
	s.routes(deps)
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.app
}

func (s *Server) routes(deps Deps) {
	// Setup CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	s.app.Use(cors.New(config))
	s.app.Use(middleware.ErrorHandler())

	// Setup healthcheck route
	s.app.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "OK",
		})
	})

	// Initialize repositories
	userRepo := repositories.NewUserPgRepository(s.db)
	profileRepo := repositories.NewProfilePgRepository(s.db)
	postRepo := repositories.NewPostPgRepository(s.db)

	tokens := auth.NewTokenService(s.cfg.JWTSecret, s.cfg.JWTExpire)
	feed := ws.NewManager()

	// Initialize use cases
	authUseCase := usecases.NewAuthUseCase(userRepo, tokens, deps.Mailer)
	postUseCase := usecases.NewPostUseCase(postRepo, feed)
	profileUseCase := usecases.NewProfileUseCase(profileRepo, deps.Repos)

	s.sweeper = services.NewResetSweeper(userRepo, s.cfg.ResetSweepInterval)

	// Initialize handlers
	authHandler := httpHandler.NewAuthHandler(authUseCase, s.cfg.JWTCookieExpire, s.cfg.IsProduction())
	postHandler := httpHandler.NewPostHandler(postUseCase)
	profileHandler := httpHandler.NewProfileHandler(profileUseCase)
	wsHandler := handlers.NewWSHandler(feed)

	protect := middleware.Protect(tokens, userRepo)

	api := s.app.Group("/api/v1")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.GET("/logout", authHandler.Logout)
			authRoutes.GET("/me", protect, authHandler.Me)
			authRoutes.PUT("/updatedetails", protect, authHandler.UpdateDetails)
			authRoutes.PUT("/updatepassword", protect, authHandler.UpdatePassword)
			authRoutes.POST("/forgotpassword", authHandler.ForgotPassword)
			authRoutes.PUT("/resetpassword/:resettoken", authHandler.ResetPassword)
		}

		posts := api.Group("/posts", protect)
		{
			posts.POST("", postHandler.CreatePost)
			posts.GET("", middleware.ListQuery(repositories.PostFields), postHandler.GetPosts)
			posts.GET("/feed", wsHandler.HandleFeed)
			posts.GET("/feed/connected", wsHandler.GetConnectedUsers)
			posts.GET("/feed/connected/:user_id", wsHandler.GetPresence)
			posts.GET("/:id", postHandler.GetPost)
			posts.PUT("/:id", postHandler.UpdatePost)
			posts.DELETE("/:id", postHandler.DeletePost)
			posts.PUT("/likes/:id", postHandler.LikePost)
			posts.PUT("/unlike/:id", postHandler.UnlikePost)
			posts.PUT("/comment/:id", postHandler.CommentPost)
			posts.DELETE("/comment/:id/:comment_id", postHandler.DeleteComment)
		}

		profile := api.Group("/profile")
		{
			profile.GET("", middleware.ListQuery(repositories.ProfileFields), profileHandler.GetProfiles)
			profile.POST("", protect, profileHandler.CreateProfile)
			profile.PUT("", protect, profileHandler.UpdateProfile)
			profile.DELETE("", protect, profileHandler.DeleteProfile)
			profile.GET("/me", protect, profileHandler.GetMe)
			profile.PUT("/experience", protect, profileHandler.AddExperience)
			profile.DELETE("/experience/:exp_id", protect, profileHandler.DeleteExperience)
			profile.PUT("/education", protect, profileHandler.AddEducation)
			profile.DELETE("/education/:edu_id", protect, profileHandler.DeleteEducation)
			profile.GET("/github/:username", profileHandler.GetGithubRepos)
			profile.GET("/:user_id", profileHandler.GetProfile)
		}

		if deps.GithubCache != nil {
			cacheHandler := handlers.NewCacheHandler(deps.GithubCache)
			cacheRoutes := api.Group("/cache", protect)
			{
				cacheRoutes.GET("/stats", cacheHandler.GetCacheStats)
				cacheRoutes.DELETE("", cacheHandler.ClearCache)
			}
		}
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.sweeper.Start(ctx)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + s.cfg.Port,
		Handler:           s.app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Println("Server stopped gracefully")
	return nil
}
