package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"errand-service/internal/db"
	"errand-service/internal/handlers"
	"errand-service/internal/middleware"
	"errand-service/internal/observability"
	"errand-service/internal/rabbitmq"
	"errand-service/internal/repositories"
	"errand-service/internal/telemetry"
	"errand-service/internal/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file, using environment variables")
	}

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	secret := []byte(getEnv("JWT_SECRET", "dev-secret"))
	amqpURL := getEnv("AMQP_URL", "")
	exchange := getEnv("AMQP_EXCHANGE", "errand_events")
	environment := getEnv("APP_ENV", "development")

	if endpoint := getEnv("OTLP_ENDPOINT", ""); endpoint != "" {
		shutdown, err := observability.InitTracing(context.Background(), "errand-service", endpoint)
		if err != nil {
			log.Printf("tracing disabled: %v", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	auditPublisher := rabbitmq.NewPublisher(amqpURL, exchange)
	defer auditPublisher.Close()
	log.Printf("audit publisher mode=%s", rabbitmq.PublisherMode(auditPublisher))
	audit := telemetry.NewAuditEmitter(auditPublisher, "audit.errand", "errand-service", environment)

	if eventPublisher, err := observability.NewAMQPPublisher(amqpURL, exchange); err != nil {
		log.Printf("ws event publishing disabled: %v", err)
	} else {
		observability.SetPublisher(eventPublisher)
		defer eventPublisher.Close()
	}

	userRepo := repositories.NewUserRepo(database)
	orderRepo := repositories.NewOrderRepo(database)
	requestRepo := repositories.NewRequestRepo(database)
	roomRepo := repositories.NewRoomRepo(database)
	messageRepo := repositories.NewMessageRepo(database)

	hub := ws.NewHub()

	authHandler := handlers.NewAuthHandler(userRepo, secret, audit)
	orderHandler := handlers.NewOrderHandler(orderRepo, audit)
	requestHandler := handlers.NewRequestHandler(orderRepo, requestRepo, audit)
	chatHandler := handlers.NewChatHandler(roomRepo, messageRepo, userRepo, hub, audit)
	roomWS := ws.NewRoomWebSocketHandler(hub, roomRepo, secret)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))
	router.Use(otelgin.Middleware("errand-service"))
	router.Use(observability.HTTPMetricsMiddleware())

	authRequired := middleware.Auth(secret, userRepo)
	authOptional := middleware.OptionalAuth(secret)

	router.POST("/auth/join", authHandler.Join)
	router.POST("/auth/login", authHandler.Login)
	router.DELETE("/users/me", authRequired, authHandler.DeactivateMe)

	// Browsing the marketplace needs no login; owner=me does.
	router.GET("/orders", authOptional, orderHandler.ListOrders)
	router.GET("/orders/:order_id", orderHandler.GetOrder)
	router.POST("/orders", authRequired, orderHandler.CreateOrder)
	router.DELETE("/orders/:order_id", authRequired, orderHandler.DeleteOrder)

	router.POST("/orders/:order_id/requests", authRequired, requestHandler.CreateRequest)
	router.GET("/requests", authRequired, requestHandler.ListRequests)
	router.PATCH("/requests/:request_id/status", authRequired, requestHandler.UpdateStatus)
	router.DELETE("/requests/:request_id", authRequired, requestHandler.DeleteRequest)

	router.POST("/rooms", authRequired, chatHandler.CreateRoom)
	router.GET("/rooms", authRequired, chatHandler.ListRooms)
	router.GET("/rooms/:room_key/messages", authRequired, chatHandler.GetMessages)
	router.POST("/rooms/:room_key/messages", authRequired, chatHandler.PostMessage)

	router.GET("/ws/rooms/:room_key", roomWS.Handle)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterDebugRoutes(router, audit, getEnv("DEBUG_ROUTES", "") == "true")

	port := getEnv("PORT", "8080")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
