package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"orderflow/cmd"
	orderhttp "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/out/postgres/assignmentrepo"
	"orderflow/internal/adapters/out/postgres/historyrepo"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/adapters/out/postgres/requestlogrepo"
	"orderflow/internal/adapters/out/postgres/restaurantrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	waitForDatabase(dsn)
	gormDB := openDatabase(dsn)
	migrateDatabase(gormDB)

	app := cmd.NewCompositionRoot(configs, gormDB, logger)

	jobManager := app.CreateJobManager(configs.ExpirySchedule)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:       goDotEnvVariable("HTTP_PORT"),
		DBHost:         goDotEnvVariable("DB_HOST"),
		DBPort:         goDotEnvVariable("DB_PORT"),
		DBUser:         goDotEnvVariable("DB_USER"),
		DBPassword:     goDotEnvVariable("DB_PASSWORD"),
		DBName:         goDotEnvVariable("DB_NAME"),
		DBSslMode:      goDotEnvVariable("DB_SSLMODE"),
		WebhookURL:     goDotEnvVariable("WEBHOOK_URL"),
		WebhookToken:   os.Getenv("WEBHOOK_TOKEN"),
		ExpirySchedule: os.Getenv("EXPIRY_SCHEDULE"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

// waitForDatabase pings the database through database/sql until it
// answers, so a container-orchestrated start does not race the
// database coming up.
func waitForDatabase(dsn string) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Invalid database configuration: %v", err)
	}
	defer db.Close()

	for attempt := 1; attempt <= 30; attempt++ {
		if err = db.Ping(); err == nil {
			return
		}
		time.Sleep(time.Second)
	}

	log.Fatalf("Database is not reachable: %v", err)
}

func openDatabase(dsn string) *gorm.DB {
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return gormDB
}

func migrateDatabase(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&assignmentrepo.AssignmentDTO{},
		&historyrepo.EntryDTO{},
		&historyrepo.AssignmentEventDTO{},
		&restaurantrepo.RestaurantDTO{},
		&requestlogrepo.RequestLogDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()

	server := orderhttp.NewServer(
		app.CreateRespondToAssignmentCommandHandler(),
		app.CreateBroadcastOrderCommandHandler(),
		app.CreateUpdateOrderStatusCommandHandler(),
		app.CreateUpdateAssignmentStatusCommandHandler(),
		app.CreateExpireAssignmentsCommandHandler(),
		app.CreateGetOrderTrackingQueryHandler(),
		app.CreateGetPendingAssignmentsQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
