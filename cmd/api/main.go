package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"agrimart-api/internal/config"
	"agrimart-api/internal/handler"
	"agrimart-api/internal/middleware"
	"agrimart-api/internal/model"
	"agrimart-api/internal/repository"
	"agrimart-api/internal/service"
	"agrimart-api/internal/ws"
	"agrimart-api/pkg/database"
	"agrimart-api/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New()
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}
	defer zlog.Sync()

	db := database.Connect(cfg.DSN())
	if err := db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Review{},
		&model.Order{},
		&model.OrderItem{},
		&model.KnowledgePost{},
		&model.KnowledgeComment{},
		&model.AuditLog{},
	); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}

	hub := ws.NewHub(zlog)
	go hub.Run()

	jwtSecret := []byte(cfg.JWTSecret)

	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	knowledgeRepo := repository.NewKnowledgeRepo(db)
	auditRepo := repository.NewAuditLogRepo(db)

	authService := service.NewAuthService(userRepo, jwtSecret, cfg.AdminSecret, zlog)
	userService := service.NewUserService(userRepo, auditRepo, zlog)
	productService := service.NewProductService(productRepo, orderRepo, hub, zlog)
	orderService := service.NewOrderService(orderRepo, productRepo, hub, zlog)
	paymentService := service.NewPaymentService(orderRepo, cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.MockPayments(), hub, zlog)
	knowledgeService := service.NewKnowledgeService(knowledgeRepo)

	userHandler := handler.NewUserHandler(authService, userService)
	productHandler := handler.NewProductHandler(productService)
	orderHandler := handler.NewOrderHandler(orderService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	knowledgeHandler := handler.NewKnowledgeHandler(knowledgeService)

	app := fiber.New(fiber.Config{
		AppName: "AgriMart API v1.0",
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api")

	auth := middleware.RequireAuth(userRepo, jwtSecret)
	admin := middleware.RequireAdmin()
	seller := middleware.RequireSeller()
	staff := middleware.RequireStaff()

	// Users
	users := api.Group("/users")
	users.Post("/", userHandler.Register)
	users.Post("/login", userHandler.Login)
	users.Get("/profile", auth, userHandler.GetProfile)
	users.Put("/profile", auth, userHandler.UpdateProfile)
	users.Post("/unmask-id", auth, staff, userHandler.UnmaskGovtID)
	users.Get("/audit-logs", auth, admin, userHandler.ListAuditLogs)
	users.Get("/", auth, admin, userHandler.ListUsers)
	users.Get("/:id", auth, admin, userHandler.GetUser)
	users.Put("/:id", auth, admin, userHandler.UpdateUser)
	users.Delete("/:id", auth, admin, userHandler.DeleteUser)

	// Products
	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/my-products", auth, seller, productHandler.ListMyProducts)
	products.Get("/:id", productHandler.GetProduct)
	products.Post("/", auth, seller, productHandler.CreateProduct)
	products.Put("/:id", auth, seller, productHandler.UpdateProduct)
	products.Delete("/:id", auth, seller, productHandler.DeleteProduct)
	products.Post("/:id/reviews", auth, productHandler.CreateReview)

	// Orders
	orders := api.Group("/orders", auth)
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/myorders", orderHandler.ListMyOrders)
	orders.Get("/my-sales", seller, orderHandler.ListMySales)
	orders.Get("/", admin, orderHandler.ListOrders)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Put("/:id/pay", orderHandler.PayOrder)
	orders.Put("/:id/ship", orderHandler.ShipOrder)
	orders.Put("/:id/deliver", orderHandler.DeliverOrder)

	// Payments
	razorpay := api.Group("/razorpay")
	razorpay.Get("/key", paymentHandler.GetKey)
	razorpay.Post("/order", auth, paymentHandler.CreateGatewayOrder)
	razorpay.Post("/verify", auth, paymentHandler.VerifyPayment)

	// Knowledge hub
	knowledge := api.Group("/knowledge")
	knowledge.Get("/", knowledgeHandler.ListPosts)
	knowledge.Get("/:id", knowledgeHandler.GetPost)
	knowledge.Post("/", auth, admin, knowledgeHandler.CreatePost)
	knowledge.Put("/:id", auth, admin, knowledgeHandler.UpdatePost)
	knowledge.Delete("/:id", auth, admin, knowledgeHandler.DeletePost)
	knowledge.Post("/:id/comments", auth, knowledgeHandler.CreateComment)

	// Event feed
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		hub.Register <- c
		defer func() { hub.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		zlog.Fatal("forced shutdown", zap.Error(err))
	}

	zlog.Info("server exited")
}
