package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"alumninet/cmd/internal/access"
	"alumninet/cmd/internal/config"
	"alumninet/cmd/internal/domain/database"
	"alumninet/cmd/internal/domain/database/repository"
	"alumninet/cmd/internal/domain/policy"
	"alumninet/cmd/internal/http/handler"
	cognitoclient "alumninet/cmd/internal/infrastructure/aws/cognito"
	"alumninet/cmd/internal/infrastructure/aws/storage"
	"alumninet/cmd/internal/infrastructure/aws/websocket"
	"alumninet/cmd/internal/infrastructure/redis"
	"alumninet/cmd/internal/service"
	"alumninet/cmd/internal/service/jobs"
	"alumninet/cmd/internal/utils/uid"
	"alumninet/cmd/internal/utils/validators"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

const (
	envVarsPrefix    = "/alumninet/prod/"
	defaultSSMRegion = "us-east-2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Loads env vars depending on environment
	if os.Getenv("GO_ENV") == config.EnvProduction {
		loadProdEnv(ctx) // AWS SSM Parameter Store
	} else if err := godotenv.Load(); err != nil {
		log.Warnf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	log.SetLevel(parseLogLevel(cfg.LogLevel))

	validate := validator.New()
	validators.Register(validate)
	uid.Init(cfg.MachineID)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	redisClient, err := redis.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	verifier, err := access.NewJWKSVerifier(cfg.Cognito.JWKSURL(), cfg.Cognito.Issuer(), cfg.Cognito.AppClientID)
	if err != nil {
		log.Fatalf("failed to load cognito signing keys: %v", err)
	}

	cogClient, err := cognitoclient.NewCognitoClient(ctx, cfg.Cognito.Region, cfg.Cognito.UserPoolID, cfg.Cognito.AppClientID)
	if err != nil {
		log.Fatalf("failed to init cognito client: %v", err)
	}

	s3Client, err := storage.NewStorageClient(ctx, cfg.Storage.Region, cfg.Storage.Bucket, cfg.Storage.PublicBaseURL)
	if err != nil {
		log.Fatalf("failed to init storage client: %v", err)
	}

	var gateway websocket.GatewayClient = websocket.DisabledGateway{}
	if cfg.WebSocketEndpoint != "" {
		gateway, err = websocket.NewAWSGatewayClient(ctx, cfg.WebSocketEndpoint, cfg.WebSocketRegion)
		if err != nil {
			log.Fatalf("failed to init websocket gateway: %v", err)
		}
	} else {
		log.Warn("WS_GATEWAY_ENDPOINT not set, realtime notifications are disabled")
	}

	// Repositories
	profileRepo := repository.NewProfileRepository(db)
	jobRepo := repository.NewJobRepository(db)
	eventRepo := repository.NewEventRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	connRepo := repository.NewConnectionRepository(db)
	revocations := redis.NewRevocationList(redisClient)

	// Policies
	profilePolicy := policy.NewProfilePolicy()
	contentPolicy := policy.NewContentPolicy()

	// Services
	wsService := service.NewWebSocketService(connRepo, gateway)
	notificationService := service.NewNotificationService(notificationRepo, wsService)
	authService := service.NewAuthService(profileRepo, validate, cogClient, verifier, revocations, s3Client, wsService)
	profileService := service.NewProfileService(profileRepo, validate, s3Client, profilePolicy, cfg.PublicBaseURL)
	directoryService := service.NewDirectoryService(profileRepo, s3Client)
	jobService := service.NewJobService(jobRepo, validate, contentPolicy)
	eventService := service.NewEventService(eventRepo, validate, contentPolicy)
	storyService := service.NewStoryService(storyRepo, profileRepo, validate, s3Client, contentPolicy)
	adminService := service.NewAdminService(
		profileRepo,
		validate,
		cogClient,
		s3Client,
		profilePolicy,
		jobService,
		eventService,
		storyService,
		profileService,
		notificationService,
		wsService,
	)

	// Handlers
	authRoutes := handler.NewAuthDefault(authService, access.CookieOptions{Secure: cfg.CookieSecure})
	profileRoutes := handler.NewProfileDefault(profileService)
	directoryRoutes := handler.NewDirectoryDefault(directoryService)
	jobRoutes := handler.NewJobDefault(jobService)
	eventRoutes := handler.NewEventDefault(eventService)
	storyRoutes := handler.NewStoryDefault(storyService)
	notificationRoutes := handler.NewNotificationDefault(notificationService)
	wsRoutes := handler.NewWSDefault(wsService, cfg.WebSocketSecret)
	adminRoutes := handler.NewAdminDefault(adminService, profileService)

	resolver := access.NewSessionResolver(verifier, profileRepo, revocations)
	guardPolicy := access.Policy{
		AdminPrefixes:    cfg.Access.AdminPrefixes,
		MemberPrefixes:   cfg.Access.MemberPrefixes,
		LoginPath:        cfg.Access.LoginPath,
		UnauthorizedPath: cfg.Access.UnauthorizedPath,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.PublicBaseURL},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit("6M"))
	e.Use(requestLogger())
	e.Use(access.Middleware(resolver, guardPolicy))

	// Docker Compose healthcheck
	e.GET("/health", handler.HealthCheck)
	e.GET(cfg.Access.LoginPath, handler.LoginPage)
	e.GET(cfg.Access.UnauthorizedPath, handler.UnauthorizedPage)

	// Public pages
	e.GET("/jobs", jobRoutes.GetJobs)
	e.GET("/events", eventRoutes.GetEvents)
	e.GET("/stories", storyRoutes.GetStories)
	e.GET("/verify/:id", profileRoutes.Verify)

	// Member pages
	profilePages := e.Group("/profile", access.RequireAuthenticated())
	profilePages.GET("", profileRoutes.GetOwnProfile)
	profilePages.GET("/card", profileRoutes.GetCard)
	profilePages.GET("/card/qr.png", profileRoutes.GetCardQR)

	directoryPages := e.Group("/directory", access.RequireAuthenticated())
	directoryPages.GET("", directoryRoutes.Search)
	directoryPages.GET("/:id", directoryRoutes.Get)

	// Admin pages
	adminPages := e.Group("/admin", access.RequireAdmin())
	adminPages.GET("", adminRoutes.Dashboard)
	adminPages.GET("/export/profiles.csv", adminRoutes.ExportProfiles)
	adminPages.GET("/events/:id/attendees.csv", adminRoutes.ExportAttendees)
	adminPages.GET("/cards", adminRoutes.GetCards)
	adminPages.GET("/cards/:id/qr.png", adminRoutes.GetCardQR)

	// Auth
	e.POST("/api/auth/register", authRoutes.Register)
	e.POST("/api/auth/confirm", authRoutes.ConfirmSignup)
	e.POST("/api/auth/confirm/resend", authRoutes.ResendConfirmation)
	e.POST("/api/auth/login", authRoutes.Login)
	e.POST("/api/auth/refresh", authRoutes.Refresh)
	e.POST("/api/auth/logout", authRoutes.Logout)
	e.GET("/api/auth/me", authRoutes.Me)

	// Member API
	api := e.Group("/api", access.RequireAuthenticated())
	api.PATCH("/profile", profileRoutes.UpdateProfile)
	api.PUT("/profile/avatar", profileRoutes.UploadAvatar)
	api.POST("/jobs", jobRoutes.CreateJob)
	api.DELETE("/jobs/:id", jobRoutes.DeleteJob)
	api.POST("/events", eventRoutes.ProposeEvent)
	api.GET("/events/mine", eventRoutes.GetOwnEvents)
	api.POST("/events/:id/rsvp", eventRoutes.Rsvp)
	api.POST("/stories", storyRoutes.ShareStory)
	api.GET("/notifications", notificationRoutes.GetNotifications)
	api.POST("/notifications/:id/read", notificationRoutes.MarkRead)

	// Admin API
	adminAPI := e.Group("/api/admin", access.RequireAdmin())
	adminAPI.POST("/profiles/:id/verification", adminRoutes.SetVerification)
	adminAPI.DELETE("/profiles/:id", adminRoutes.DeleteProfile)
	adminAPI.POST("/jobs/:id/:action", adminRoutes.Review(service.KindJobs))
	adminAPI.POST("/events/:id/:action", adminRoutes.Review(service.KindEvents))
	adminAPI.POST("/stories/:id/:action", adminRoutes.Review(service.KindStories))

	// API Gateway websocket integration
	e.POST("/ws/connect", wsRoutes.HandleConnect)
	e.POST("/ws/disconnect", wsRoutes.HandleDisconnect)
	e.POST("/ws/message", wsRoutes.HandleMessage)

	go jobs.NewConnectionCleaner(wsService).Start(ctx)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("graceful shutdown failed: %v", err)
	}
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Infof("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	})
}

func parseLogLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}

func loadProdEnv(ctx context.Context) {
	region := os.Getenv("AWS_SSM_REGION")
	if region == "" {
		region = defaultSSMRegion
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	client := ssm.NewFromConfig(cfg)
	pages := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(envVarsPrefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})

	prefixLength := len(envVarsPrefix)
	loaded := 0
	for pages.HasMorePages() {
		out, err := pages.NextPage(ctx)
		if err != nil {
			log.Fatalf("unable to load prod environment, %v", err)
		}

		// Export vars
		for _, param := range out.Parameters {
			key := (*param.Name)[prefixLength:]
			if enverr := os.Setenv(key, aws.ToString(param.Value)); enverr != nil {
				log.Fatalf("unable to set environment variable, %v", enverr)
			}
			loaded++
		}
	}
	log.Debugf("loaded %d prod environment variables", loaded)
}
