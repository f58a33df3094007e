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

	"souq_dev_v1/internal/controller"
	"souq_dev_v1/internal/middleware"
	"souq_dev_v1/internal/model"
	"souq_dev_v1/internal/repository"
	"souq_dev_v1/internal/router"
	"souq_dev_v1/internal/service"
	"souq_dev_v1/internal/task"
	"souq_dev_v1/pkg/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	// 1. database
	db := initDatabase()

	// 2. dependency graph
	deps := initDependencies(db)

	// 3. scheduled tasks
	initTasks(deps)

	// 4. routes
	r := gin.Default()
	router.InitRoutes(r, deps.Controllers)

	// 5. serve
	startServer(r)
}

// ==================== Dependency containers ====================

// Dependencies everything main wires together
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories repository collection
type Repositories struct {
	User     repository.UserRepository
	Address  repository.AddressRepository
	Category repository.CategoryRepository
	Product  repository.ProductRepository
	Cart     repository.CartRepository
	Order    repository.OrderRepository
	Payment  repository.PaymentRepository
	Shipment repository.ShipmentRepository
}

// Services service collection
type Services struct {
	User     *service.UserService
	Address  *service.AddressService
	Catalog  *service.CatalogService
	Cart     *service.CartService
	Order    *service.OrderService
	Payment  *service.PaymentService
	Shipment *service.ShipmentService
	Storage  service.StorageProvider
}

// ==================== Initialization ====================

// initDatabase opens the database and migrates the schema.
func initDatabase() *gorm.DB {
	dsn := getEnv("DATABASE_DSN",
		"host=localhost user=souq password=souq dbname=souq port=5432 sslmode=disable TimeZone=Asia/Riyadh")
	return database.InitDB(dsn,
		// Accounts
		&model.User{}, &model.CustomerProfile{}, &model.Address{},
		// Catalog
		&model.Category{}, &model.Product{}, &model.ProductVariant{}, &model.ProductImage{},
		// Cart
		&model.Cart{}, &model.CartItem{},
		// Orders
		&model.Order{}, &model.OrderItem{}, &model.Payment{}, &model.Shipment{},
	)
}

// initDependencies builds the repository, service and controller layers.
func initDependencies(db *gorm.DB) *Dependencies {
	initJWT()

	repos := &Repositories{
		User:     repository.NewUserRepository(db),
		Address:  repository.NewAddressRepository(db),
		Category: repository.NewCategoryRepository(db),
		Product:  repository.NewProductRepository(db),
		Cart:     repository.NewCartRepository(db),
		Order:    repository.NewOrderRepository(db),
		Payment:  repository.NewPaymentRepository(db),
		Shipment: repository.NewShipmentRepository(db),
	}

	var tracking *service.TrackingClient
	if base := getEnv("TRACKING_GATEWAY_URL", ""); base != "" {
		tracking = service.NewTrackingClient(base)
	}

	services := &Services{
		User:     service.NewUserService(repos.User),
		Address:  service.NewAddressService(repos.Address),
		Catalog:  service.NewCatalogService(repos.Category, repos.Product),
		Cart:     service.NewCartService(repos.Cart, repos.Product),
		Order:    service.NewOrderService(repos.Order, repos.Cart, repos.Product, repos.Address),
		Payment:  service.NewPaymentService(repos.Payment, repos.Order),
		Shipment: service.NewShipmentService(repos.Shipment, repos.Order, tracking),
		Storage:  initStorage(),
	}

	catalogCtl := controller.NewCatalogController(services.Catalog)
	if services.Storage != nil {
		catalogCtl.SetStorage(services.Storage)
	}

	orderCtl := controller.NewOrderController(services.Order, services.Cart)
	orderCtl.SetPaymentService(services.Payment)

	controllers := &router.Controllers{
		Auth:     controller.NewAuthController(services.User),
		Address:  controller.NewAddressController(services.Address),
		Catalog:  catalogCtl,
		Cart:     controller.NewCartController(services.Cart),
		Order:    orderCtl,
		Shipment: controller.NewShipmentController(services.Shipment),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// initJWT installs the token configuration from the environment.
func initJWT() {
	cfg := middleware.DefaultJWTConfig()
	if secret := getEnv("JWT_SECRET", ""); secret != "" {
		cfg.SecretKey = secret
	}
	middleware.SetJWTConfig(cfg)
}

// initStorage builds the image storage provider; a failure only disables
// uploads.
func initStorage() service.StorageProvider {
	provider, err := service.NewStorageProvider(&service.StorageConfig{
		Provider:  getEnv("STORAGE_PROVIDER", "s3"),
		Bucket:    getEnv("AWS_BUCKET", ""),
		Region:    getEnv("AWS_REGION", "me-south-1"),
		AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		Endpoint:  getEnv("STORAGE_ENDPOINT", ""),
		CDNDomain: getEnv("STORAGE_CDN_DOMAIN", ""),
		BasePath:  getEnv("STORAGE_BASE_PATH", "products"),
	})
	if err != nil {
		log.Printf("warning: storage init failed, uploads disabled: %v", err)
		return nil
	}
	return provider
}

// ==================== Scheduled tasks ====================

func initTasks(deps *Dependencies) {
	cleanup := task.NewCartCleanupTask(deps.Repos.Cart)
	cleanup.Start()

	log.Println("scheduled tasks started")
}

// ==================== Server ====================

func startServer(r *gin.Engine) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server exited")
}

// ==================== Helpers ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
