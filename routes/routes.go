package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jcconstruction/tracker/handlers"
	"github.com/jcconstruction/tracker/middleware"
	"github.com/jcconstruction/tracker/models"
)

var (
	fieldRoles   = []string{models.RoleContractor, models.RoleManager, models.RoleAdmin}
	managerRoles = []string{models.RoleManager, models.RoleAdmin}
	adminOnly    = []string{models.RoleAdmin}
)

// RegisterRoutes sets up all application routes.
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/login", handlers.Login).Methods("POST")
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir("./uploads"))),
	)

	// Protected API routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)
	api.Use(middleware.RequestLogger)

	api.HandleFunc("/profile", handlers.Profile).Methods("GET")
	api.HandleFunc("/change-password", handlers.ChangePassword).Methods("POST")

	// Jobs: everyone reads (Client Viewers scoped), admins write
	api.HandleFunc("/jobs", handlers.GetAllJobs).Methods("GET")
	api.HandleFunc("/jobs/{id}", handlers.GetJob).Methods("GET")
	api.Handle("/jobs", middleware.RequireRole(adminOnly, http.HandlerFunc(handlers.CreateJob))).Methods("POST")
	api.Handle("/jobs/{id}", middleware.RequireRole(adminOnly, http.HandlerFunc(handlers.UpdateJob))).Methods("PUT")
	api.Handle("/jobs/{id}", middleware.RequireRole(adminOnly, http.HandlerFunc(handlers.DeleteJob))).Methods("DELETE")

	// Field records: contractors and up create, everyone reads
	api.HandleFunc("/time-entries", handlers.GetAllTimeEntries).Methods("GET")
	api.Handle("/time-entries", middleware.RequireRole(fieldRoles, http.HandlerFunc(handlers.CreateTimeEntry))).Methods("POST")
	api.HandleFunc("/materials", handlers.GetAllMaterials).Methods("GET")
	api.Handle("/materials", middleware.RequireRole(fieldRoles, http.HandlerFunc(handlers.CreateMaterial))).Methods("POST")
	api.HandleFunc("/receipts", handlers.GetAllReceipts).Methods("GET")
	api.Handle("/receipts", middleware.RequireRole(fieldRoles, http.HandlerFunc(handlers.CreateReceipt))).Methods("POST")
	api.HandleFunc("/job-files", handlers.GetAllJobFiles).Methods("GET")
	api.Handle("/job-files", middleware.RequireRole(fieldRoles, http.HandlerFunc(handlers.CreateJobFile))).Methods("POST")

	// Down payments: managers and admins only
	api.Handle("/down-payments", middleware.RequireRole(managerRoles, http.HandlerFunc(handlers.GetAllDownPayments))).Methods("GET")
	api.Handle("/down-payments", middleware.RequireRole(managerRoles, http.HandlerFunc(handlers.CreateDownPayment))).Methods("POST")

	// Dashboard and reports
	api.HandleFunc("/dashboard/wip", handlers.GetWIPDashboard).Methods("GET")
	api.HandleFunc("/dashboard/deadlines", handlers.GetDeadlines).Methods("GET")
	api.HandleFunc("/reports/performance", handlers.GetPerformanceReport).Methods("GET")
	api.HandleFunc("/reports/contractors", handlers.GetContractorReport).Methods("GET")
	api.HandleFunc("/reports/materials", handlers.GetMaterialsReport).Methods("GET")
	api.HandleFunc("/reports/{name}/export/excel", handlers.ExportReportToExcel).Methods("GET")
	api.HandleFunc("/reports/{name}/export/csv", handlers.ExportReportToCSV).Methods("GET")

	// Documents: managers and admins generate, everyone reads
	api.HandleFunc("/documents", handlers.GetAllDocuments).Methods("GET")
	api.Handle("/documents/generate", middleware.RequireRole(managerRoles, http.HandlerFunc(handlers.GenerateDocument))).Methods("POST")

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(func(next http.Handler) http.Handler {
		return middleware.RequireRole(adminOnly, next)
	})
	admin.HandleFunc("/users", handlers.GetAllUsers).Methods("GET")
	admin.HandleFunc("/users", handlers.CreateUser).Methods("POST")
	admin.HandleFunc("/users/{id}", handlers.UpdateUser).Methods("PUT")
	admin.HandleFunc("/users/{id}", handlers.DeleteUser).Methods("DELETE")
	admin.HandleFunc("/users/{id}/reset-password", handlers.ResetPassword).Methods("POST")
	admin.HandleFunc("/import/workbook", handlers.ImportWorkbook).Methods("POST")
	admin.HandleFunc("/export/workbook", handlers.ExportWorkbook).Methods("GET")

	return r
}
