// Package router wires the HTTP routes to their handlers.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/splittab/splittab/internal/auth"
	"github.com/splittab/splittab/internal/handler"
	"github.com/splittab/splittab/internal/middleware"
	"github.com/splittab/splittab/internal/models"
)

// Register mounts every route on the echo instance. Vendor routes are
// gated to vendor accounts, customer routes to customer accounts; the
// services still perform their own ownership checks underneath.
func Register(
	e *echo.Echo,
	jwtManager *auth.JWTManager,
	authHandler *handler.AuthHandler,
	vendorHandler *handler.VendorHandler,
	customerHandler *handler.CustomerHandler,
	metricsPath string,
) {
	e.Use(middleware.RequestLogger())

	e.GET("/healthz", handler.Health)
	e.GET(metricsPath, echo.WrapHandler(promhttp.Handler()))

	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)

	vendor := e.Group("/vendor",
		middleware.RequireAuth(jwtManager),
		middleware.RequireRole(models.RoleVendor),
	)
	vendor.POST("/menu", vendorHandler.CreateMenuItem)
	vendor.GET("/menu", vendorHandler.ListMenu)
	vendor.PUT("/menu/:itemID", vendorHandler.UpdateMenuItem)
	vendor.DELETE("/menu/:itemID", vendorHandler.DeleteMenuItem)

	vendor.POST("/bills", vendorHandler.CreateBill)
	vendor.GET("/bills", vendorHandler.ListBills)
	vendor.GET("/bills/:billID", vendorHandler.GetBill)
	vendor.POST("/bills/:billID/items", vendorHandler.AddBillItem)
	vendor.DELETE("/bills/:billID/items/:itemID", vendorHandler.RemoveBillItem)
	vendor.DELETE("/bills/:billID", vendorHandler.DeleteBill)

	vendor.POST("/bills/:billID/attach", vendorHandler.AttachGroup)
	vendor.POST("/bills/:billID/move", vendorHandler.MoveGroup)
	vendor.POST("/bills/:billID/detach", vendorHandler.DetachGroups)
	vendor.GET("/bills/:billID/group", vendorHandler.AttachedGroup)
	vendor.GET("/groups", vendorHandler.ListGroups)

	customer := e.Group("/customer",
		middleware.RequireAuth(jwtManager),
		middleware.RequireRole(models.RoleCustomer),
	)
	customer.POST("/groups", customerHandler.CreateGroup)
	customer.GET("/groups", customerHandler.ListGroups)
	customer.POST("/groups/join", customerHandler.JoinGroup)
	customer.GET("/groups/:groupID", customerHandler.GroupDetail)
	customer.POST("/groups/:groupID/leave", customerHandler.LeaveGroup)

	customer.POST("/groups/:groupID/attach", customerHandler.AttachBill)
	customer.GET("/groups/:groupID/bill", customerHandler.GroupBill)
	customer.GET("/groups/:groupID/bill/items/:itemID/split", customerHandler.ShowSplit)
	customer.POST("/groups/:groupID/bill/items/:itemID/assign", customerHandler.AssignSplit)

	customer.POST("/cards", customerHandler.RegisterCard)
	customer.GET("/cards", customerHandler.ListCards)
	customer.DELETE("/cards/:token", customerHandler.RemoveCard)
}
