package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/aminejml/permigo/internal/app/controllers"
	"github.com/aminejml/permigo/internal/app/models"
	"github.com/aminejml/permigo/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	onboardingController *controllers.OnboardingController,
	examController *controllers.ExamController,
	schoolController *controllers.SchoolController,
	adminController *controllers.AdminController,
	authMiddleware *middleware.AuthMiddleware,
	accessMiddleware *middleware.AccessMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.POST("/auth/logout", authController.Logout)
	authenticated.POST("/auth/change-password", authController.ChangePassword)

	// Student self-service routes
	student := authenticated.Group("")
	student.Use(authMiddleware.RoleRequired(string(models.RoleStudent)))
	{
		onboarding := student.Group("/onboarding")
		{
			onboarding.GET("/schools", onboardingController.Schools)
			onboarding.POST("/access-method", onboardingController.ChooseMethod)
			onboarding.DELETE("/access-method", onboardingController.ChangeMethod)
			onboarding.POST("/school", onboardingController.LinkSchool)
			onboarding.GET("/school-request", onboardingController.RequestStatus)
		}

		me := student.Group("/students/me")
		{
			me.GET("", studentController.Me)
			me.GET("/access", studentController.AccessStatus)
			me.GET("/events", studentController.Events)
			me.PUT("/fcm-token", studentController.UpdateFCMToken)
		}

		// Exams are premium content: the resolver gates every request
		exams := student.Group("/exams")
		exams.Use(accessMiddleware.RequireFullAccess())
		{
			exams.POST("", examController.Start)
			exams.GET("", examController.History)
			exams.GET("/:id", examController.Detail)
			exams.POST("/:id/submit", examController.Submit)
		}
	}

	// School account routes
	school := authenticated.Group("/school")
	school.Use(authMiddleware.RoleRequired(string(models.RoleSchool)))
	{
		school.GET("/dashboard", schoolController.Dashboard)
		school.GET("/students", schoolController.Students)
		school.POST("/students/:id/approve", schoolController.Approve)
		school.POST("/students/:id/reject", schoolController.Reject)
		school.POST("/students/:id/activate", schoolController.Activate)
		school.POST("/students/:id/detach", schoolController.Detach)
		school.GET("/students/:id/exams", schoolController.StudentExams)
		school.GET("/students/:id/exams/:examId", schoolController.StudentExamDetail)
		school.GET("/exam-stats", schoolController.ExamStats)
		school.GET("/revenue", schoolController.Revenue)
		school.POST("/events", schoolController.CreateEvent)
		school.DELETE("/events/:id", schoolController.DeleteEvent)
	}

	// Admin routes
	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
	{
		admin.POST("/schools", adminController.CreateSchool)
		admin.GET("/schools", adminController.Schools)
		admin.PUT("/schools/:id/active", adminController.SetSchoolActive)
		admin.GET("/students", adminController.Students)
		admin.POST("/students/:id/verify-payment", adminController.VerifyPayment)
		admin.GET("/exam-stats", adminController.ExamStats)
		admin.GET("/stats", adminController.Stats)
	}
}
