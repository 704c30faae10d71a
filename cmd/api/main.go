package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/KhoaTran011604/gp-bmt-api/docs" // Swagger docs
	"github.com/KhoaTran011604/gp-bmt-api/internal/config"
	"github.com/KhoaTran011604/gp-bmt-api/internal/database"
	"github.com/KhoaTran011604/gp-bmt-api/internal/handlers"
	"github.com/KhoaTran011604/gp-bmt-api/internal/jobs"
	"github.com/KhoaTran011604/gp-bmt-api/internal/middleware"
	"github.com/KhoaTran011604/gp-bmt-api/internal/repository"
	"github.com/KhoaTran011604/gp-bmt-api/internal/services"
	"github.com/KhoaTran011604/gp-bmt-api/internal/storage"
	"github.com/KhoaTran011604/gp-bmt-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title GP BMT API
// @version 1.0
// @description REST API for the Diocese of Ban Mê Thuột administration system
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Run schema migrations
	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize storage
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, store, cfg, db)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs)

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Stored voucher files
	router.Static("/uploads", cfg.StoragePath)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				// User management
				admin.GET("/users", h.User.Index)
				admin.POST("/users", h.User.Create)
				admin.DELETE("/users/:user_id", h.User.Delete)
				admin.POST("/users/:user_id/restore", h.User.Restore)
				admin.PATCH("/users/:user_id/toggle_status", h.User.ToggleStatus)
				admin.POST("/users/:user_id/force_password", h.User.ForceChangePassword)

				// Receipt cancellation is the only way an approved transaction
				// goes back to pending, so it stays with admins
				admin.DELETE("/receipts/:receipt_id", h.Receipt.Cancel)

				// Paying out an approved payroll period
				admin.POST("/payrolls/mark_paid", h.Payroll.MarkPaid)

				// Master data management
				admin.POST("/parishes", h.Parish.Create)
				admin.PUT("/parishes/:parish_id", h.Parish.Update)
				admin.DELETE("/parishes/:parish_id", h.Parish.Delete)
				admin.POST("/funds", h.Fund.Create)
				admin.PUT("/funds/:fund_id", h.Fund.Update)
				admin.DELETE("/funds/:fund_id", h.Fund.Delete)
				admin.POST("/bank_accounts", h.BankAccount.Create)
				admin.PUT("/bank_accounts/:bank_account_id", h.BankAccount.Update)
				admin.DELETE("/bank_accounts/:bank_account_id", h.BankAccount.Delete)

				// Asset disposal and deletion
				admin.DELETE("/assets/:asset_id", h.Asset.Delete)
				admin.POST("/assets/:asset_id/dispose", h.Asset.Dispose)

				// Audit log
				admin.GET("/audits", h.Audit.Index)

				// Background job status
				admin.GET("/jobs/status", h.Job.Status)
			}

			// Approver routes (admin + accountant): the bookkeeping workflows
			approver := protected.Group("")
			approver.Use(middleware.RequireApprover())
			{
				// Transactions
				approver.POST("/transactions", h.Transaction.Create)
				approver.PUT("/transactions/:transaction_id", h.Transaction.Update)
				approver.DELETE("/transactions/:transaction_id", h.Transaction.Delete)
				approver.POST("/transactions/:transaction_id/approve", h.Transaction.Approve)
				approver.POST("/transactions/:transaction_id/reject", h.Transaction.Reject)
				approver.POST("/transactions/batch_approve", h.Transaction.BatchApprove)
				approver.POST("/transactions/:transaction_id/voucher", h.Transaction.UploadVoucher)

				// Split income/expense aliases over the same collection
				approver.POST("/incomes", h.Transaction.CreateIncome)
				approver.POST("/incomes/:transaction_id/approve", h.Transaction.Approve)
				approver.POST("/incomes/:transaction_id/reject", h.Transaction.Reject)
				approver.POST("/expenses", h.Transaction.CreateExpense)
				approver.POST("/expenses/:transaction_id/approve", h.Transaction.Approve)
				approver.POST("/expenses/:transaction_id/reject", h.Transaction.Reject)

				// Congregants
				approver.POST("/persons", h.Person.Create)
				approver.PUT("/persons/:person_id", h.Person.Update)
				approver.DELETE("/persons/:person_id", h.Person.Delete)

				// Contacts
				approver.POST("/contacts", h.Contact.Create)
				approver.PUT("/contacts/:contact_id", h.Contact.Update)
				approver.DELETE("/contacts/:contact_id", h.Contact.Delete)

				// Staff and employment contracts
				approver.POST("/staff", h.Staff.Create)
				approver.PUT("/staff/:staff_id", h.Staff.Update)
				approver.DELETE("/staff/:staff_id", h.Staff.Delete)
				approver.POST("/staff/:staff_id/contracts", h.Staff.CreateContract)
				approver.POST("/staff/:staff_id/contracts/:contract_id/terminate", h.Staff.TerminateContract)

				// Payroll
				approver.POST("/payrolls", h.Payroll.Create)
				approver.PUT("/payrolls/:payroll_id", h.Payroll.Update)
				approver.DELETE("/payrolls/:payroll_id", h.Payroll.Delete)
				approver.POST("/payrolls/generate", h.Payroll.GeneratePeriod)
				approver.POST("/payrolls/approve", h.Payroll.ApprovePeriod)

				// Assets
				approver.POST("/assets", h.Asset.Create)
				approver.PUT("/assets/:asset_id", h.Asset.Update)

				// Rental contracts
				approver.POST("/rental_contracts", h.Rental.Create)
				approver.PUT("/rental_contracts/:rental_contract_id", h.Rental.Update)
				approver.POST("/rental_contracts/:rental_contract_id/activate", h.Rental.Activate)
				approver.POST("/rental_contracts/:rental_contract_id/terminate", h.Rental.Terminate)
				approver.POST("/rental_contracts/:rental_contract_id/convert_payment", h.Rental.ConvertPayment)
			}

			// Read access for every authenticated role, viewers included
			protected.GET("/parishes", h.Parish.Index)
			protected.GET("/parishes/all", h.Parish.All)
			protected.GET("/parishes/:parish_id", h.Parish.Show)
			protected.GET("/persons", h.Person.Index)
			protected.GET("/persons/:person_id", h.Person.Show)
			protected.GET("/funds", h.Fund.Index)
			protected.GET("/funds/all", h.Fund.All)
			protected.GET("/funds/balances", h.Fund.Balances)
			protected.GET("/funds/:fund_id", h.Fund.Show)
			protected.GET("/bank_accounts", h.BankAccount.Index)
			protected.GET("/bank_accounts/:bank_account_id", h.BankAccount.Show)
			protected.GET("/contacts", h.Contact.Index)
			protected.GET("/contacts/:contact_id", h.Contact.Show)

			protected.GET("/transactions", h.Transaction.Index)
			protected.GET("/transactions/stats", h.Transaction.Stats)
			protected.GET("/transactions/:transaction_id", h.Transaction.Show)
			protected.GET("/incomes", h.Transaction.IndexIncomes)
			protected.GET("/incomes/:transaction_id", h.Transaction.Show)
			protected.GET("/expenses", h.Transaction.IndexExpenses)
			protected.GET("/expenses/:transaction_id", h.Transaction.Show)
			protected.GET("/receipts", h.Receipt.Index)
			protected.GET("/receipts/:receipt_id", h.Receipt.Show)
			protected.GET("/receipts/:receipt_id/pdf", h.Receipt.DownloadPDF)

			protected.GET("/staff", h.Staff.Index)
			protected.GET("/staff/:staff_id", h.Staff.Show)
			protected.GET("/staff/:staff_id/contracts", h.Staff.Contracts)
			protected.GET("/payrolls", h.Payroll.Index)
			protected.GET("/payrolls/export", h.Payroll.Export)
			protected.GET("/payrolls/:payroll_id", h.Payroll.Show)

			protected.GET("/assets", h.Asset.Index)
			protected.GET("/assets/available", h.Asset.Available)
			protected.GET("/assets/:asset_id", h.Asset.Show)
			protected.GET("/rental_contracts", h.Rental.Index)
			protected.GET("/rental_contracts/:rental_contract_id", h.Rental.Show)

			// Reports
			reports := protected.Group("/reports")
			{
				reports.GET("/summary", h.Report.Summary)
				reports.GET("/summary.pdf", h.Report.SummaryPDF)
				reports.GET("/fund_balances", h.Report.FundBalances)
				reports.GET("/cash_book.csv", h.Report.CashBookCSV)
				reports.GET("/fund_statement.pdf", h.Report.FundStatementPDF)
				reports.GET("/transactions.xlsx", h.Report.TransactionsXLSX)
				reports.GET("/transactions.csv", h.Report.TransactionsCSV)
			}

			// Account self-service (admin or the profile owner)
			protected.GET("/users/:user_id", middleware.RequireAdminOrOwner(), h.User.Show)
			protected.PUT("/users/:user_id", middleware.RequireAdminOrOwner(), h.User.Update)
			protected.PATCH("/users/:user_id/change_password", h.User.ChangePassword)

			// Notifications (users manage their own notifications)
			// Static route first so "mark_all_as_read" is not matched as :notification_id
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.POST("/mark_all_as_read", h.Notification.MarkAllAsRead)
				notifications.POST("/:notification_id/mark_as_read", h.Notification.MarkAsRead)
				notifications.GET("/:notification_id", h.Notification.Show)
				notifications.DELETE("/:notification_id", h.Notification.Delete)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Expire rental contracts past their end date every hour
	worker.ScheduleEvery(1*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Expiring overdue rental contracts...")
		return svcs.Rental.ExpireOverdue(ctx)
	})

	// Remind approvers about transactions stuck in pending for over a day
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Reminding about pending approvals...")
		return svcs.Transaction.RemindPendingApprovals(ctx, 24)
	})

	logger.Info("Scheduled recurring jobs")
}
