package routes

import (
	"shaghaf-backend/config"
	"shaghaf-backend/controllers"
	"shaghaf-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"https://app.shaghaf.space",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			return origin == "https://app.shaghaf.space" ||
				origin == "http://localhost:3000"
		},
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Client routes
		clients := api.Group("/clients")
		{
			clients.POST("", controllers.CreateClient)
			clients.GET("", controllers.GetClients)
			clients.GET("/:id", controllers.GetClient)
			clients.PUT("/:id", controllers.UpdateClient)
			clients.DELETE("/:id", controllers.DeleteClient)
		}

		// Product routes
		products := api.Group("/products")
		{
			products.POST("", controllers.CreateProduct)
			products.GET("", controllers.GetProducts)
			products.GET("/:id", controllers.GetProduct)
			products.PUT("/:id", controllers.UpdateProduct)
			products.DELETE("/:id", controllers.DeleteProduct)
		}

		// Service routes
		services := api.Group("/services")
		{
			services.POST("", controllers.CreateService)
			services.GET("", controllers.GetServices)
			services.GET("/:id", controllers.GetService)
			services.PUT("/:id", controllers.UpdateService)
			services.DELETE("/:id", controllers.DeleteService)
		}

		// Room routes
		rooms := api.Group("/rooms")
		{
			rooms.POST("", controllers.CreateRoom)
			rooms.GET("", controllers.GetRooms)
			rooms.PUT("/:id", controllers.UpdateRoom)
			rooms.DELETE("/:id", controllers.DeleteRoom)
		}

		// Booking routes
		bookings := api.Group("/bookings")
		{
			bookings.POST("", controllers.CreateBooking)
			bookings.GET("", controllers.GetBookings)
			bookings.GET("/:id", controllers.GetBooking)
			bookings.POST("/:id/cancel", controllers.CancelBooking)
			bookings.POST("/:id/invoice", controllers.GenerateBookingInvoice)
		}

		// Shared-space session routes
		sessions := api.Group("/sessions")
		{
			sessions.POST("/check-in", controllers.CheckIn)
			sessions.GET("", controllers.GetSessions)
			sessions.GET("/:id", controllers.GetSession)
			sessions.POST("/:id/individuals", controllers.UpdateIndividuals)
			sessions.POST("/:id/items", controllers.AddSessionItem)
			sessions.POST("/:id/checkout", controllers.Checkout)
			sessions.POST("/:id/early-exit", controllers.EarlyExit)
			sessions.POST("/:id/link-booking", controllers.LinkBooking)
		}

		// Invoice routes
		invoices := api.Group("/invoices")
		{
			invoices.POST("", controllers.CreateInvoice)
			invoices.GET("", controllers.GetInvoices)
			invoices.GET("/:id", controllers.GetInvoice)
			invoices.GET("/:id/pdf", controllers.DownloadInvoicePDF)
			invoices.POST("/:id/discount", utils.OwnerOnly(), controllers.ApplyInvoiceDiscount)
			invoices.POST("/:id/payments", controllers.RecordInvoicePayment)
			invoices.POST("/:id/split", controllers.SplitInvoiceItem)
		}

		// Attendance routes
		attendance := api.Group("/attendance")
		{
			attendance.POST("/check-in", controllers.AttendanceCheckIn)
			attendance.POST("/check-out", controllers.AttendanceCheckOut)
			attendance.GET("", controllers.GetAttendance)
		}

		// Reports routes
		reportController := controllers.ReportController{}
		api.GET("/reports", reportController.GetReportAnalytics)

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)

		// Branch settings routes
		profile := api.Group("/profile")
		{
			profile.GET("", controllers.GetBranchProfile)
			profile.PUT("/update-branch", utils.OwnerOnly(), controllers.UpdateBranchProfile)
			profile.PUT("/update-hours", utils.OwnerOnly(), controllers.UpdateWorkingHours)
			profile.PUT("/update-notifications", utils.OwnerOnly(), controllers.UpdateNotificationSettings)
		}

		employees := api.Group("/employees")
		{
			employees.GET("", controllers.GetEmployees)
		}
	}

	return r
}
