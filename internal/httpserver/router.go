package httpserver

import (
	"context"
	"log"

	"canteen-backend/internal/domain"
	"canteen-backend/internal/notify"
	campaignsvc "canteen-backend/internal/service/campaign"
	menusvc "canteen-backend/internal/service/menu"
	ordersvc "canteen-backend/internal/service/order"
	staffsvc "canteen-backend/internal/service/staff"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderService is the order surface the handlers need.
type OrderService interface {
	Create(ctx context.Context, in ordersvc.CreateInput) (*domain.Order, error)
	MarkReady(ctx context.Context, billNumber string) (*domain.Order, error)
	MarkItemDelivered(ctx context.Context, billNumber string, index int) (*domain.Order, error)
	MarkDelivered(ctx context.Context, billNumber string) (*domain.Order, error)
	OrdersForDevice(ctx context.Context, deviceToken string) ([]domain.Order, error)
	OrderByLookupToken(ctx context.Context, token string) (*domain.Order, error)
	KitchenQueue(ctx context.Context) ([]domain.Order, error)
	AllOrders(ctx context.Context) ([]domain.Order, error)
	DailyRevenue(ctx context.Context, date string) (*ordersvc.RevenueReport, error)
}

type MenuService interface {
	Create(ctx context.Context, in menusvc.Input) (*domain.MenuItem, error)
	Update(ctx context.Context, id string, in menusvc.Input) (*domain.MenuItem, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.MenuItem, error)
	PublicMenu(ctx context.Context) ([]menusvc.PublicItem, error)
}

type CampaignService interface {
	Create(ctx context.Context, in campaignsvc.Input) (*domain.Campaign, error)
	Update(ctx context.Context, id string, in campaignsvc.Input) (*domain.Campaign, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Campaign, error)
}

type StaffService interface {
	Signup(ctx context.Context, in staffsvc.SignupInput) (*domain.Staff, error)
	Login(ctx context.Context, email, password string) (*domain.Staff, string, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.Staff, error)
	Logout(ctx context.Context, token string) error
	AccessTTLSeconds() int
}

type CanteenService interface {
	IsOpen() bool
	SetOpen(open bool) bool
	Hours(ctx context.Context) (*domain.ServiceHours, error)
	UpdateHours(ctx context.Context, h domain.ServiceHours) (*domain.ServiceHours, error)
}

// NotificationRegistry is the dispatcher surface the handlers need.
type NotificationRegistry interface {
	RegisterSession(deviceID string, t notify.Transport)
	UnregisterSession(deviceID string, t notify.Transport)
	RegisterPushToken(ctx context.Context, deviceID, token string) error
}

// Deps carries the services the router depends on.
type Deps struct {
	OrderSvc    OrderService
	MenuSvc     MenuService
	CampaignSvc CampaignService
	StaffSvc    StaffService
	CanteenSvc  CanteenService
	Notify      NotificationRegistry
	BaseURL     string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "X-Device-Id"},
	}))
	router.SetHTMLTemplate(billTemplate)

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	{
		api.GET("/menu", publicMenuHandler(deps.MenuSvc))
		api.GET("/campaigns", publicCampaignsHandler(deps.CampaignSvc))
		api.GET("/canteen/status", canteenStatusHandler(deps.CanteenSvc))

		api.POST("/orders", createOrderHandler(deps.OrderSvc, deps.CanteenSvc))
		api.GET("/orders/myorders", myOrdersHandler(deps.OrderSvc))
		api.GET("/orders/bill/:lookupToken", billHandler(deps.OrderSvc, deps.BaseURL))

		api.POST("/notifications/register", registerPushTokenHandler(deps.Notify))
		api.GET("/events", eventsHandler(deps.Notify))

		api.POST("/staff/signup", staffSignupHandler(deps.StaffSvc))
		api.POST("/staff/login", staffLoginHandler(deps.StaffSvc))

		staff := api.Group("/staff", requireStaff(deps.StaffSvc))
		{
			staff.POST("/logout", staffLogoutHandler(deps.StaffSvc))
			staff.GET("/me", staffMeHandler())
			staff.GET("/orders", kitchenQueueHandler(deps.OrderSvc))
			staff.PATCH("/orders/:billNumber/ready", markReadyHandler(deps.OrderSvc))
			staff.PATCH("/orders/:billNumber/items/:index/delivered", markItemDeliveredHandler(deps.OrderSvc))
			staff.PATCH("/orders/:billNumber/delivered", markDeliveredHandler(deps.OrderSvc))
		}

		admin := api.Group("/admin", requireStaff(deps.StaffSvc), requireAdmin())
		{
			admin.GET("/orders", allOrdersHandler(deps.OrderSvc))
			admin.GET("/revenue", revenueHandler(deps.OrderSvc))

			admin.GET("/menu", listMenuHandler(deps.MenuSvc))
			admin.POST("/menu", createMenuItemHandler(deps.MenuSvc))
			admin.PUT("/menu/:id", updateMenuItemHandler(deps.MenuSvc))
			admin.DELETE("/menu/:id", deleteMenuItemHandler(deps.MenuSvc))

			admin.GET("/campaigns", listCampaignsHandler(deps.CampaignSvc))
			admin.POST("/campaigns", createCampaignHandler(deps.CampaignSvc))
			admin.PUT("/campaigns/:id", updateCampaignHandler(deps.CampaignSvc))
			admin.DELETE("/campaigns/:id", deleteCampaignHandler(deps.CampaignSvc))

			admin.GET("/service-hours", getServiceHoursHandler(deps.CanteenSvc))
			admin.PUT("/service-hours", updateServiceHoursHandler(deps.CanteenSvc))
			admin.POST("/canteen/toggle", toggleCanteenHandler(deps.CanteenSvc))
		}
	}

	return router, nil
}
