package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/booknbite/backend/controllers"
	"github.com/booknbite/backend/middlewares"
	"github.com/booknbite/backend/scheduler"
	"github.com/booknbite/backend/services"
)

// SetupRouter wires every endpoint. Cache may be nil (menu caching off);
// payment answers 503 until a gateway is configured.
func SetupRouter(db *gorm.DB, sched *scheduler.Scheduler, notifier *services.Notifier, cache *redis.Client, payment *controllers.PaymentController) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(50, 60).RateLimit())

	userCtrl := controllers.NewUserController(db)
	adminCtrl := controllers.NewAdminController(db)
	tableCtrl := controllers.NewTableController(db, sched)
	bookingCtrl := controllers.NewBookingController(db, sched, notifier)
	menuCtrl := controllers.NewMenuController(db, cache)
	orderCtrl := controllers.NewOrderController(db, notifier)
	requestCtrl := controllers.NewServiceRequestController(db, sched)
	ratingCtrl := controllers.NewRatingController(db)
	invoiceCtrl := controllers.NewInvoiceController(db)
	feedbackCtrl := controllers.NewFeedbackController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Public, with a strict limiter on credentials endpoints
	public := r.Group("/api")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	r.GET("/api/menu", menuCtrl.GetAllMenuItems)
	r.GET("/api/tables/available", tableCtrl.GetAvailableTables)

	// Admin dashboard websocket (token via query string)
	r.GET("/api/dashboard/ws", middlewares.WebSocketAuthMiddleware(), controllers.DashboardWSHandler)

	// Authenticated customer surface
	auth := r.Group("/api")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/profile", userCtrl.GetProfile)
		auth.PATCH("/profile", userCtrl.UpdateProfile)

		auth.POST("/bookings", bookingCtrl.CreateBooking)
		auth.GET("/bookings/my", bookingCtrl.GetMyBookings)
		auth.GET("/bookings/active", bookingCtrl.GetActiveBooking)
		auth.GET("/bookings/:booking_id", bookingCtrl.GetBookingByID)
		auth.GET("/bookings/:booking_id/pdf", invoiceCtrl.BookingConfirmationPDF)
		auth.PATCH("/bookings/:booking_id", bookingCtrl.UpdateBooking)
		auth.PATCH("/bookings/:booking_id/cancel", bookingCtrl.CancelBooking)

		auth.POST("/orders", orderCtrl.PlaceOrder)
		auth.GET("/orders/my", orderCtrl.GetMyOrders)
		auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		auth.GET("/orders/:order_id/invoice", invoiceCtrl.OrderInvoicePDF)
		auth.PATCH("/orders/:order_id/cancel", orderCtrl.CancelOrder)

		auth.POST("/requests", requestCtrl.CreateServiceRequest)
		auth.GET("/requests/my", requestCtrl.GetMyServiceRequests)
		auth.DELETE("/requests/:request_id/my", requestCtrl.DeleteMyRequest)

		auth.POST("/menu/:item_id/rating", ratingCtrl.RateMenuItem)
		auth.GET("/ratings/my", ratingCtrl.GetUserRatings)

		auth.POST("/feedback", feedbackCtrl.SubmitFeedback)

		auth.POST("/payment/create-intent", payment.CreatePaymentIntent)
		auth.GET("/payment/key", payment.GetPublishableKey)
	}

	// Admin surface
	admin := r.Group("/api/admin")
	admin.Use(middlewares.AuthMiddleware(), middlewares.AdminOnly())
	{
		admin.GET("/stats", adminCtrl.GetStats)
		admin.GET("/users", adminCtrl.GetAllUsers)
		admin.PATCH("/users/:user_id/status", adminCtrl.UpdateUserStatus)
		admin.PATCH("/users/:user_id/role", adminCtrl.ChangeUserRole)
		admin.DELETE("/users/:user_id", adminCtrl.DeleteUser)
		admin.GET("/notifications", adminCtrl.GetNotifications)

		admin.POST("/tables", tableCtrl.CreateTable)
		admin.GET("/tables", tableCtrl.GetAllTables)
		admin.GET("/tables/:table_id", tableCtrl.GetTableByID)
		admin.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
		admin.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

		admin.GET("/bookings", bookingCtrl.GetAllBookings)
		admin.PATCH("/bookings/:booking_id/status", bookingCtrl.UpdateBookingStatus)
		admin.DELETE("/bookings/:booking_id", bookingCtrl.DeleteBooking)

		admin.POST("/menu", menuCtrl.CreateMenuItem)
		admin.PATCH("/menu/:item_id", menuCtrl.UpdateMenuItem)
		admin.DELETE("/menu/:item_id", menuCtrl.DeleteMenuItem)

		admin.GET("/orders", orderCtrl.GetAllOrders)
		admin.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
		admin.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)

		admin.GET("/requests", requestCtrl.GetAllServiceRequests)
		admin.PATCH("/requests/:request_id/complete", requestCtrl.MarkRequestCompleted)
		admin.DELETE("/requests/:request_id", requestCtrl.DeleteRequest)

		admin.GET("/feedback", feedbackCtrl.GetAllFeedbacks)
		admin.DELETE("/feedback/:feedback_id", feedbackCtrl.DeleteFeedback)
	}

	return r
}
