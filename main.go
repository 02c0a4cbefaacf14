package main

import (
	"fmt"
	"log"
	"os"

	"shaghaf-backend/config"
	"shaghaf-backend/models"
	"shaghaf-backend/routes"
	"shaghaf-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()
	config.ConnectRedis()

	config.DB.AutoMigrate(
		&models.Branch{},
		&models.User{},
		&models.Client{},
		&models.Product{},
		&models.Service{},
		&models.Room{},
		&models.Booking{},
		&models.Session{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.PaymentMethod{},
		&models.Attendance{},
		&models.NotificationLog{},
	)

	config.Seed(config.DefaultSeed())
}

func main() {
	reminders := services.NewReminderService(config.DB)
	reminders.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
