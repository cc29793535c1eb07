package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/assessment-api/internal/config"
	"github.com/yourusername/assessment-api/internal/handler"
	"github.com/yourusername/assessment-api/internal/middleware"
	pgRepo "github.com/yourusername/assessment-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/assessment-api/internal/repository/redis"
	"github.com/yourusername/assessment-api/internal/service"
	"github.com/yourusername/assessment-api/pkg/accesscode"
	"github.com/yourusername/assessment-api/pkg/auth"
	"github.com/yourusername/assessment-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	testRepo := pgRepo.NewTestRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	respondentRepo := pgRepo.NewRespondentRepo(db)
	accessCodeRepo := pgRepo.NewAccessCodeRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Кодек кодов доступа. Пустой ключ - выпуск без HMAC-подписи.
	codec := accesscode.New(cfg.AccessCode.SigningKey)

	// Сервис отправки писем: без API-ключа рассылка выключается
	var emailService service.EmailService
	if cfg.Email.ResendAPIKey != "" {
		emailService, err = service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize email service: %v", err)
			os.Exit(1)
		}
	} else {
		log.Println("RESEND_API_KEY не задан, рассылка кодов доступа отключена")
		emailService = &service.NoopEmailService{}
	}

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs, cfg.JWT.RespondentExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализируем сервисы
	authService := service.NewAuthService(userRepo)
	testService := service.NewTestService(testRepo, accessCodeRepo, cacheRepo, emailService)
	questionService := service.NewQuestionService(questionRepo)
	respondentService := service.NewRespondentService(testRepo, respondentRepo, accessCodeRepo, codec)
	sessionService := service.NewSessionService(accessCodeRepo, testRepo, cacheRepo, codec)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService, jwtService)
	testHandler := handler.NewTestHandler(testService)
	questionHandler := handler.NewQuestionHandler(questionService)
	respondentHandler := handler.NewRespondentHandler(testService, respondentService)
	sessionHandler := handler.NewSessionHandler(sessionService, jwtService)

	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		// Production: не доверять прокси-заголовкам
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", authMiddleware.RequireAuth(), authMiddleware.AdminOnly(), authHandler.Me)
		}

		// Кабинет администратора: управление тестами
		myTests := api.Group("/mytests")
		myTests.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			myTests.POST("", testHandler.CreateTest)
			myTests.GET("", testHandler.ListMyTests)

			byID := myTests.Group("/:id")
			byID.Use(middleware.ExtractUintParam("id", "testID"))
			{
				byID.GET("", testHandler.GetTest)
				byID.PUT("", testHandler.UpdateTest)
				byID.PUT("/questions", testHandler.SaveQuestionMappings)
				byID.PUT("/grading", testHandler.UpdateGradingSettings)
				byID.PUT("/timesettings", testHandler.UpdateTimeSettings)
				byID.POST("/activation", testHandler.Activate)

				byID.POST("/respondents", respondentHandler.SaveRespondents)
				byID.GET("/respondents", respondentHandler.ListRespondents)
				byID.POST("/respondents/import", respondentHandler.ImportRespondents)
			}
		}

		// Банк вопросов
		questions := api.Group("/questions")
		questions.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			questions.POST("", questionHandler.CreateQuestion)
			questions.GET("", questionHandler.ListMyQuestions)
			questions.GET("/:id", middleware.ExtractUintParam("id", "questionID"), questionHandler.GetQuestion)
		}

		// Консоль респондента
		qz := api.Group("/qz")
		{
			qz.POST("/signin", sessionHandler.SignIn)
			qz.GET("/session", authMiddleware.RequireAuth(), authMiddleware.RespondentOnly(), sessionHandler.GetSession)
		}
	}

	// Запускаем HTTP сервер с поддержкой graceful shutdown
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Сервер запущен на порту %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Ошибка сервера: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Получен сигнал завершения, останавливаем сервер...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Ошибка при остановке сервера: %v", err)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Ошибка при закрытии Redis клиента: %v", err)
	}

	log.Println("Сервер остановлен")
}
