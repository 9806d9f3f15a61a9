package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"college_erp_echo/internal/handlers"
	"college_erp_echo/internal/middleware"
	"college_erp_echo/internal/services"
)

// requestValidator adapts go-playground/validator to Echo's Validator interface
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize Database
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := services.InitDB(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := services.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Redis is optional: without it report endpoints recompute on every hit
	var cache *services.RedisCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err = services.NewRedisCache(redisURL)
		if err != nil {
			log.Printf("Warning: Redis initialization failed: %v", err)
			log.Println("Report caching disabled")
			cache = nil
		}
	} else {
		log.Println("REDIS_URL not set, report caching disabled")
	}

	// Payments against settled fees are rejected unless explicitly allowed
	blockOverpayment := os.Getenv("BLOCK_OVERPAYMENT") != "false"

	// Initialize services
	email := services.NewEmailService()
	notifier := services.NewNotificationService(db, email)
	billing := services.NewBillingService(db, cache, notifier, blockOverpayment)
	grading := services.NewGradingService(db)

	// Create Echo instance
	e := echo.New()
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Validator = &requestValidator{validate: validator.New()}
	e.HTTPErrorHandler = middleware.CustomErrorHandler

	// Initialize handlers
	feeHandler := handlers.NewFeeHandler(db, billing)
	paymentHandler := handlers.NewPaymentHandler(db, billing)
	reportHandler := handlers.NewReportHandler(db, cache)
	studentHandler := handlers.NewStudentHandler(db)
	teacherHandler := handlers.NewTeacherHandler(db)
	academicHandler := handlers.NewAcademicHandler(db)
	attendanceHandler := handlers.NewAttendanceHandler(db, notifier)
	examHandler := handlers.NewExamHandler(db, grading)
	timetableHandler := handlers.NewTimetableHandler(db)
	notificationHandler := handlers.NewNotificationHandler(db, notifier)
	calendarHandler := handlers.NewCalendarHandler(db)

	api := e.Group("/api")

	// Fees and billing
	api.POST("/fees", feeHandler.CreateFee)
	api.POST("/fees/bulk", feeHandler.BulkAssignFees)
	api.GET("/fees", feeHandler.ListFees)
	api.GET("/fees/export", feeHandler.ExportFeesCSV)
	api.GET("/fees/:id", feeHandler.GetFee)
	api.POST("/fee-structures", feeHandler.CreateFeeStructure)
	api.GET("/fee-structures", feeHandler.ListFeeStructures)
	api.POST("/fee-structures/:id/apply", feeHandler.ApplyFeeStructure)

	// Payments
	api.POST("/payments", paymentHandler.ProcessPayment)
	api.GET("/transactions", paymentHandler.ListTransactions)
	api.POST("/payment-methods", paymentHandler.CreatePaymentMethod)
	api.GET("/payment-methods", paymentHandler.ListPaymentMethods)
	api.DELETE("/payment-methods/:id", paymentHandler.DeactivatePaymentMethod)

	// Reports
	api.GET("/reports/financial", reportHandler.FinancialDashboard)
	api.GET("/reports/attendance", reportHandler.AttendanceOverview)
	api.GET("/reports/performance", reportHandler.AcademicPerformance)
	api.GET("/reports/counts", reportHandler.DashboardCounts)

	// Students
	api.POST("/students", studentHandler.CreateStudent)
	api.GET("/students", studentHandler.ListStudents)
	api.GET("/students/export", studentHandler.ExportStudentsCSV)
	api.GET("/students/:id", studentHandler.GetStudent)
	api.PATCH("/students/:id", studentHandler.UpdateStudent)
	api.DELETE("/students/:id", studentHandler.DeactivateStudent)
	api.GET("/students/:id/attendance", attendanceHandler.StudentAttendance)
	api.GET("/students/:id/results", examHandler.StudentResults)
	api.GET("/students/:id/notifications", notificationHandler.StudentNotifications)

	// Teachers
	api.POST("/teachers", teacherHandler.CreateTeacher)
	api.GET("/teachers", teacherHandler.ListTeachers)
	api.GET("/teachers/export", teacherHandler.ExportTeachersCSV)
	api.GET("/teachers/:id", teacherHandler.GetTeacher)

	// Academic structure
	api.POST("/departments", academicHandler.CreateDepartment)
	api.GET("/departments", academicHandler.ListDepartments)
	api.GET("/departments/:id", academicHandler.GetDepartment)
	api.POST("/courses", academicHandler.CreateCourse)
	api.GET("/courses", academicHandler.ListCourses)
	api.POST("/classes", academicHandler.CreateClass)
	api.GET("/classes", academicHandler.ListClasses)
	api.GET("/classes/:id/timetable", timetableHandler.ClassTimetable)
	api.POST("/subjects", academicHandler.CreateSubject)
	api.GET("/subjects", academicHandler.ListSubjects)

	// Attendance
	api.POST("/attendance", attendanceHandler.MarkAttendance)
	api.GET("/attendance", attendanceHandler.ListAttendance)

	// Exams and results
	api.POST("/exams", examHandler.CreateExam)
	api.GET("/exams", examHandler.ListExams)
	api.POST("/exams/:id/results", examHandler.RecordResult)
	api.POST("/exams/:id/results/bulk", examHandler.BulkRecordResults)
	api.POST("/exams/:id/publish", examHandler.PublishResults)
	api.GET("/exams/:id/results", examHandler.ListResults)

	// Timetable
	api.POST("/time-slots", timetableHandler.CreateTimeSlot)
	api.GET("/time-slots", timetableHandler.ListTimeSlots)
	api.POST("/timetable", timetableHandler.CreateTimetableEntry)
	api.DELETE("/timetable/:id", timetableHandler.DeleteTimetableEntry)

	// Notifications
	api.POST("/notifications", notificationHandler.SendNotice)

	// Academic calendar
	api.POST("/calendar", calendarHandler.CreateEvent)
	api.GET("/calendar", calendarHandler.ListEvents)
	api.DELETE("/calendar/:id", calendarHandler.DeleteEvent)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
