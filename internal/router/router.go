package router

import (
	"souq_dev_v1/internal/controller"
	"souq_dev_v1/internal/middleware"
	"souq_dev_v1/internal/model"

	"github.com/gin-gonic/gin"
)

// Controllers everything the router wires up
type Controllers struct {
	Auth     *controller.AuthController
	Address  *controller.AddressController
	Catalog  *controller.CatalogController
	Cart     *controller.CartController
	Order    *controller.OrderController
	Shipment *controller.ShipmentController
}

// InitRoutes registers every route.
func InitRoutes(r *gin.Engine, ctl *Controllers) {
	// Storefront routes: anonymous visitors get a cart session cookie,
	// logged-in customers are recognized through OptionalAuth.
	store := r.Group("/", middleware.OptionalAuth(), middleware.CartSession())
	{
		store.GET("/", ctl.Catalog.Home)
		store.GET("/products", ctl.Catalog.ListProducts)
		store.GET("/products/:slug", ctl.Catalog.GetProductBySlug)
		store.GET("/categories", ctl.Catalog.ListCategories)

		cart := store.Group("/orders")
		{
			// GET /orders/cart/
			cart.GET("/cart/", ctl.Cart.Detail)
			cart.GET("/cart/summary/", ctl.Cart.Summary)
			cart.POST("/cart/add/", ctl.Cart.Add)
			cart.POST("/cart/item/:id/update/", ctl.Cart.UpdateItem)
			cart.POST("/cart/item/:id/remove/", ctl.Cart.RemoveItem)

			// POST /orders/checkout/
			cart.POST("/checkout/", ctl.Order.Checkout)
		}
	}

	api := r.Group("/api")
	{
		// auth
		auth := api.Group("/auth")
		{
			auth.POST("/signup", ctl.Auth.Signup)
			auth.POST("/login", ctl.Auth.Login)
			auth.POST("/refresh", ctl.Auth.Refresh)
			auth.POST("/logout", ctl.Auth.Logout)

			me := auth.Group("", middleware.JWTAuth())
			{
				me.GET("/me", ctl.Auth.Me)
				me.PUT("/me", ctl.Auth.UpdateProfile)
				me.POST("/change-password", ctl.Auth.ChangePassword)
			}
		}

		// customer address book
		addresses := api.Group("/addresses", middleware.JWTAuth())
		{
			addresses.GET("", ctl.Address.List)
			addresses.POST("", ctl.Address.Create)
			addresses.PUT("/:id", ctl.Address.Update)
			addresses.POST("/:id/default", ctl.Address.SetDefault)
			addresses.DELETE("/:id", ctl.Address.Delete)
		}

		// the customer's own orders
		myOrders := api.Group("/orders", middleware.JWTAuth())
		{
			myOrders.GET("/mine", ctl.Order.MyOrders)
			myOrders.GET("/mine/:id", ctl.Order.MyOrderDetail)
		}

		// back office
		admin := api.Group("/admin", middleware.JWTAuth(), middleware.RequireRole(string(model.UserRoleAdmin)))
		{
			admin.GET("/users", ctl.Auth.ListUsers)

			categories := admin.Group("/categories")
			{
				categories.GET("", ctl.Catalog.AdminListCategories)
				categories.POST("", ctl.Catalog.CreateCategory)
				categories.PUT("/:id", ctl.Catalog.UpdateCategory)
				categories.DELETE("/:id", ctl.Catalog.DeleteCategory)
			}

			products := admin.Group("/products")
			{
				products.GET("", ctl.Catalog.AdminListProducts)
				products.GET("/:id", ctl.Catalog.GetProduct)
				products.POST("", ctl.Catalog.CreateProduct)
				products.PUT("/:id", ctl.Catalog.UpdateProduct)
				products.DELETE("/:id", ctl.Catalog.DeleteProduct)

				products.POST("/:id/variants", ctl.Catalog.CreateVariant)

				products.POST("/:id/images", ctl.Catalog.UploadImage)
				products.POST("/:id/images/attach", ctl.Catalog.AttachImage)
				products.POST("/:id/images/:imageId/primary", ctl.Catalog.SetPrimaryImage)
				products.DELETE("/:id/images/:imageId", ctl.Catalog.DeleteImage)
			}

			variants := admin.Group("/variants")
			{
				variants.PUT("/:id", ctl.Catalog.UpdateVariant)
				variants.DELETE("/:id", ctl.Catalog.DeleteVariant)
			}

			orders := admin.Group("/orders")
			{
				orders.GET("", ctl.Order.List)
				orders.GET("/:id", ctl.Order.GetByID)
				orders.PUT("/:id/status", ctl.Order.UpdateStatus)
				orders.POST("/batch-status", ctl.Order.BatchUpdateStatus)
				orders.POST("/:id/recalc", ctl.Order.RecalcTotals)

				orders.POST("/:id/payments", ctl.Order.RecordPayment)
				orders.GET("/:id/payments", ctl.Order.ListPayments)

				orders.POST("/:id/shipment", ctl.Shipment.Create)
				orders.GET("/:id/shipment", ctl.Shipment.GetByOrder)
			}

			payments := admin.Group("/payments")
			{
				payments.PUT("/:id", ctl.Order.UpdatePayment)
			}

			shipments := admin.Group("/shipments")
			{
				shipments.PUT("/:id", ctl.Shipment.Update)
				shipments.PUT("/:id/status", ctl.Shipment.UpdateStatus)
				shipments.POST("/:id/refresh", ctl.Shipment.RefreshTracking)
			}
		}
	}
}
