package httpserver

import (
	"context"
	"log"
	"net/http"
	"time"

	"storefront/internal/domain"
	"storefront/internal/metrics"
	productrepo "storefront/internal/repository/product"
	catalogsvc "storefront/internal/service/catalog"
	ordersvc "storefront/internal/service/order"
	paymentsvc "storefront/internal/service/payment"
	usersvc "storefront/internal/service/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type UserService interface {
	Signup(ctx context.Context, in usersvc.SignupInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
	PromoteToAdmin(ctx context.Context, actor *domain.User, userID string) (*domain.User, error)
	AccessTTLSeconds() int
}

type CatalogService interface {
	List(ctx context.Context, f productrepo.Filter) (*catalogsvc.ListResult, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, createdBy string, in catalogsvc.CreateInput) (*domain.Product, error)
	Update(ctx context.Context, id string, in productrepo.UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type CartService interface {
	Get(ctx context.Context, userID string) (domain.CartView, error)
	Add(ctx context.Context, userID, productID string, quantity int) (domain.CartView, error)
	UpdateItem(ctx context.Context, userID, productID string, quantity int) (domain.CartView, error)
	Remove(ctx context.Context, userID, productID string) (domain.CartView, error)
	Clear(ctx context.Context, userID string) (domain.CartView, error)
}

type OrderService interface {
	Create(ctx context.Context, user *domain.User, in ordersvc.CreateInput) (*domain.Order, error)
	Get(ctx context.Context, user *domain.User, id string) (*domain.Order, error)
	ListMine(ctx context.Context, user *domain.User) ([]domain.Order, error)
	MarkPaid(ctx context.Context, user *domain.User, id string, result domain.PaymentResult) (*domain.Order, error)
	MarkDelivered(ctx context.Context, id string) (*domain.Order, error)
}

type PaymentService interface {
	Initiate(ctx context.Context, user *domain.User, orderID string) (*paymentsvc.InitiateResult, error)
	Verify(ctx context.Context, user *domain.User, in paymentsvc.VerifyInput) (*domain.Order, error)
}

// Deps carries everything the router needs.
type Deps struct {
	UserSvc    UserService
	CatalogSvc CatalogService
	CartSvc    CartService
	OrderSvc   OrderService
	PaymentSvc PaymentService
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, frontendOrigin string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), metrics.Middleware())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = []string{frontendOrigin}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsCfg.AllowCredentials = true
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", signupHandler(deps.UserSvc))
	auth.POST("/login", loginHandler(deps.UserSvc))
	auth.GET("/me", authRequired(deps.UserSvc), meHandler())
	auth.POST("/logout", authRequired(deps.UserSvc), logoutHandler(deps.UserSvc))

	products := api.Group("/products")
	products.GET("", listProductsHandler(deps.CatalogSvc))
	products.GET("/categories", listCategoriesHandler(deps.CatalogSvc))
	products.GET("/:id", getProductHandler(deps.CatalogSvc))
	products.POST("", authRequired(deps.UserSvc), adminRequired(), createProductHandler(deps.CatalogSvc))
	products.PUT("/:id", authRequired(deps.UserSvc), adminRequired(), updateProductHandler(deps.CatalogSvc))
	products.DELETE("/:id", authRequired(deps.UserSvc), adminRequired(), deleteProductHandler(deps.CatalogSvc))

	api.PUT("/users/:id/role", authRequired(deps.UserSvc), adminRequired(), promoteUserHandler(deps.UserSvc))

	cart := api.Group("/cart", authRequired(deps.UserSvc))
	cart.GET("", getCartHandler(deps.CartSvc))
	cart.POST("", addCartItemHandler(deps.CartSvc))
	cart.DELETE("", clearCartHandler(deps.CartSvc))
	cart.PUT("/item/:productId", updateCartItemHandler(deps.CartSvc))
	cart.DELETE("/item/:productId", removeCartItemHandler(deps.CartSvc))

	orders := api.Group("/orders", authRequired(deps.UserSvc))
	orders.POST("", createOrderHandler(deps.OrderSvc))
	orders.GET("/my", listMyOrdersHandler(deps.OrderSvc))
	orders.GET("/:id", getOrderHandler(deps.OrderSvc))
	orders.PUT("/:id/pay", payOrderHandler(deps.OrderSvc))
	orders.PUT("/:id/deliver", adminRequired(), deliverOrderHandler(deps.OrderSvc))

	payments := api.Group("/payments", authRequired(deps.UserSvc))
	payments.POST("/gateway/order", initiatePaymentHandler(deps.PaymentSvc))
	payments.POST("/gateway/verify", verifyPaymentHandler(deps.PaymentSvc))

	return router
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not configured"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
