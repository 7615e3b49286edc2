package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	adminusers "crewboard/frontend/adminUsers"
	"crewboard/frontend/clients"
	"crewboard/frontend/dashboard"
	"crewboard/frontend/finance"
	"crewboard/frontend/login"
	"crewboard/frontend/notices"
	"crewboard/frontend/prefs"
	"crewboard/frontend/projects"
	"crewboard/frontend/tasks"
	"crewboard/infrastructure/rbac"
)

// RegisterLoginRoutes registers login/logout routes.
func (s *Server) RegisterLoginRoutes() {
	s.router.Get("/login", login.LoginScreenHandler)
	s.router.Post("/login", login.CreateLoginHandler(s.DB, s.SessionCache, s.UserCache))
	s.router.Post("/logout", login.LogoutHandler(s.DB, s.SessionCache))
}

// RegisterFrontendRoutes registers the routes every authenticated user
// can reach. Each route is granted to both roles in the RBAC table.
func (s *Server) RegisterFrontendRoutes(r chi.Router) chi.Router {
	s.addShared("DASHBOARD_VIEW", http.MethodGet, "/app/dashboard")
	r.Get("/dashboard", dashboard.DashboardQueryHandler(s.Stores.Projects, s.Stores.Tasks))

	s.addShared("PROJECTS_LIST_VIEW", http.MethodGet, "/app/projects")
	r.Get("/projects", projects.ProjectsPageQueryHandler(s.DB))
	s.addShared("PROJECTS_CREATE", http.MethodPost, "/app/projects")
	r.Post("/projects", projects.CreateProjectCommandHandler(s.DB, s.Hub))
	s.addShared("PROJECTS_DETAIL_VIEW", http.MethodGet, "/app/projects/*")
	r.Get("/projects/{id}", projects.ProjectDetailQueryHandler(s.DB))
	s.addShared("PROJECTS_EDIT", http.MethodPost, "/app/projects/*")
	r.Post("/projects/{id}", projects.UpdateProjectCommandHandler(s.DB, s.Hub))
	s.addShared("PROJECTS_DELETE", http.MethodPost, "/app/projects/*/delete")
	r.Post("/projects/{id}/delete", projects.DeleteProjectCommandHandler(s.DB, s.Hub))

	s.addShared("TASKS_CREATE", http.MethodPost, "/app/tasks")
	r.Post("/tasks", tasks.CreateTaskCommandHandler(s.DB, s.Hub, s.Activity))
	s.addShared("TASKS_DETAIL_VIEW", http.MethodGet, "/app/tasks/*")
	r.Get("/tasks/{id}", tasks.TaskDetailQueryHandler(s.DB, s.UserCache))
	s.addShared("TASKS_EDIT", http.MethodPost, "/app/tasks/*")
	r.Post("/tasks/{id}", tasks.UpdateTaskCommandHandler(s.DB, s.Hub, s.Activity))
	s.addShared("TASKS_STATUS_EDIT", http.MethodPost, "/app/tasks/*/status")
	r.Post("/tasks/{id}/status", tasks.UpdateTaskStatusCommandHandler(s.DB, s.Hub, s.Activity))
	s.addShared("TASKS_COMMENT_CREATE", http.MethodPost, "/app/tasks/*/comments")
	r.Post("/tasks/{id}/comments", tasks.AddTaskCommentCommandHandler(s.DB, s.Hub, s.Activity))
	s.addShared("TASKS_DELETE", http.MethodPost, "/app/tasks/*/delete")
	r.Post("/tasks/{id}/delete", tasks.DeleteTaskCommandHandler(s.DB, s.Hub))

	s.addShared("NOTICES_LIST_VIEW", http.MethodGet, "/app/notices")
	r.Get("/notices", notices.NoticesPageQueryHandler(s.DB, s.UserCache))
	s.addShared("NOTICES_CREATE", http.MethodPost, "/app/notices")
	r.Post("/notices", notices.CreateNoticeCommandHandler(s.DB, s.Hub))
	s.addShared("NOTICES_DETAIL_VIEW", http.MethodGet, "/app/notices/*")
	r.Get("/notices/{id}", notices.NoticeDetailQueryHandler(s.DB, s.UserCache))
	s.addShared("NOTICES_EDIT", http.MethodPost, "/app/notices/*")
	r.Post("/notices/{id}", notices.UpdateNoticeCommandHandler(s.DB, s.Hub))
	s.addShared("NOTICES_COMMENT_CREATE", http.MethodPost, "/app/notices/*/comments")
	r.Post("/notices/{id}/comments", notices.AddNoticeCommentCommandHandler(s.DB, s.Hub))
	s.addShared("NOTICES_DELETE", http.MethodPost, "/app/notices/*/delete")
	r.Post("/notices/{id}/delete", notices.DeleteNoticeCommandHandler(s.DB, s.Hub))

	s.addShared("CLIENTS_LIST_VIEW", http.MethodGet, "/app/clients")
	r.Get("/clients", clients.ClientsPageQueryHandler(s.DB))
	s.addShared("CLIENTS_CREATE", http.MethodPost, "/app/clients")
	r.Post("/clients", clients.CreateClientCommandHandler(s.DB, s.Hub))
	s.addShared("CLIENTS_EDIT", http.MethodPost, "/app/clients/*")
	r.Post("/clients/{id}", clients.UpdateClientCommandHandler(s.DB, s.Hub))
	s.addShared("CLIENTS_DELETE", http.MethodPost, "/app/clients/*/delete")
	r.Post("/clients/{id}/delete", clients.DeleteClientCommandHandler(s.DB, s.Hub))

	s.addShared("PREFS_VIEW", http.MethodGet, "/app/prefs")
	r.Get("/prefs", prefs.PrefsQueryHandler(s.DB))
	s.addShared("PREFS_EDIT", http.MethodPost, "/app/prefs")
	r.Post("/prefs", prefs.SavePrefCommandHandler(s.DB))

	return r
}

// RegisterAdminRoutes registers admin-only user management routes.
func (s *Server) RegisterAdminRoutes(r chi.Router) chi.Router {
	s.Rbac.Add(rbac.RoleAdmin, "ADMIN_USERS_LIST_VIEW", http.MethodGet, "/app/admin/users")
	r.Get("/admin/users", adminusers.UsersPageQueryHandler(s.DB))
	s.Rbac.Add(rbac.RoleAdmin, "ADMIN_USERS_CREATE", http.MethodPost, "/app/admin/users")
	r.Post("/admin/users", adminusers.CreateUserCommandHandler(s.DB, s.Hub))
	s.Rbac.Add(rbac.RoleAdmin, "ADMIN_USERS_ROLE_EDIT", http.MethodPost, "/app/admin/users/*/role")
	r.Post("/admin/users/{id}/role", adminusers.ChangeRoleCommandHandler(s.DB, s.Hub))
	s.Rbac.Add(rbac.RoleAdmin, "ADMIN_USERS_NAME_EDIT", http.MethodPost, "/app/admin/users/*/name")
	r.Post("/admin/users/{id}/name", adminusers.ChangeNameCommandHandler(s.DB, s.Hub))
	return r
}

// RegisterFinanceRoutes registers admin-only finance routes.
func (s *Server) RegisterFinanceRoutes(r chi.Router) chi.Router {
	s.Rbac.Add(rbac.RoleAdmin, "FINANCE_SUMMARY_VIEW", http.MethodGet, "/app/finance/summary")
	r.Get("/finance/summary", finance.SummaryQueryHandler(s.Stores.Revenues, s.Stores.Expenses))
	s.Rbac.Add(rbac.RoleAdmin, "FINANCE_TREND_VIEW", http.MethodGet, "/app/finance/trend")
	r.Get("/finance/trend", finance.TrendQueryHandler(s.Stores.Revenues, s.Stores.Expenses))
	s.Rbac.Add(rbac.RoleAdmin, "FINANCE_BREAKDOWN_VIEW", http.MethodGet, "/app/finance/breakdown")
	r.Get("/finance/breakdown", finance.BreakdownQueryHandler(s.Stores.Expenses))
	s.Rbac.Add(rbac.RoleAdmin, "FINANCE_PROJECT_VIEW", http.MethodGet, "/app/finance/projects/*")
	r.Get("/finance/projects/{id}", finance.ProjectFinancialsQueryHandler(s.Stores.Revenues, s.Stores.Expenses))

	s.Rbac.Add(rbac.RoleAdmin, "FINANCE_REVENUES_VIEW", http.MethodGet, "/app/finance/revenues")
	r.Get("/finance/revenues", finance.RevenuesQueryHandler(s.DB))
	s.Rbac.Add(rbac.RoleAdmin, "FINANCE_REVENUES_CREATE", http.MethodPost, "/app/finance/revenues")
	r.Post("/finance/revenues", finance.CreateRevenueCommandHandler(s.DB, s.Hub))
	s.Rbac.Add(rbac.RoleAdmin, "FINANCE_REVENUES_EDIT", http.MethodPost, "/app/finance/revenues/*")
	r.Post("/finance/revenues/{id}", finance.UpdateRevenueCommandHandler(s.DB, s.Hub))
	s.Rbac.Add(rbac.RoleAdmin, "FINANCE_REVENUES_DELETE", http.MethodPost, "/app/finance/revenues/*/delete")
	r.Post("/finance/revenues/{id}/delete", finance.DeleteRevenueCommandHandler(s.DB, s.Hub))

	s.Rbac.Add(rbac.RoleAdmin, "FINANCE_EXPENSES_VIEW", http.MethodGet, "/app/finance/expenses")
	r.Get("/finance/expenses", finance.ExpensesQueryHandler(s.DB))
	s.Rbac.Add(rbac.RoleAdmin, "FINANCE_EXPENSES_CREATE", http.MethodPost, "/app/finance/expenses")
	r.Post("/finance/expenses", finance.CreateExpenseCommandHandler(s.DB, s.Hub))
	s.Rbac.Add(rbac.RoleAdmin, "FINANCE_EXPENSES_EDIT", http.MethodPost, "/app/finance/expenses/*")
	r.Post("/finance/expenses/{id}", finance.UpdateExpenseCommandHandler(s.DB, s.Hub))
	s.Rbac.Add(rbac.RoleAdmin, "FINANCE_EXPENSES_DELETE", http.MethodPost, "/app/finance/expenses/*/delete")
	r.Post("/finance/expenses/{id}/delete", finance.DeleteExpenseCommandHandler(s.DB, s.Hub))

	s.Rbac.Add(rbac.RoleAdmin, "FINANCE_BUDGETS_VIEW", http.MethodGet, "/app/finance/budgets")
	r.Get("/finance/budgets", finance.BudgetsQueryHandler(s.DB))
	s.Rbac.Add(rbac.RoleAdmin, "FINANCE_BUDGETS_CREATE", http.MethodPost, "/app/finance/budgets")
	r.Post("/finance/budgets", finance.CreateBudgetCommandHandler(s.DB, s.Hub))
	s.Rbac.Add(rbac.RoleAdmin, "FINANCE_BUDGETS_EDIT", http.MethodPost, "/app/finance/budgets/*")
	r.Post("/finance/budgets/{id}", finance.UpdateBudgetCommandHandler(s.DB, s.Hub))
	s.Rbac.Add(rbac.RoleAdmin, "FINANCE_BUDGETS_DELETE", http.MethodPost, "/app/finance/budgets/*/delete")
	r.Post("/finance/budgets/{id}/delete", finance.DeleteBudgetCommandHandler(s.DB, s.Hub))

	s.Rbac.Add(rbac.RoleAdmin, "FINANCE_EXPORT_ENTRIES", http.MethodGet, "/app/finance/exports/entries.csv")
	r.Get("/finance/exports/entries.csv", finance.EntriesExportCSVHandler(s.DB))
	s.Rbac.Add(rbac.RoleAdmin, "FINANCE_REPORT_PDF", http.MethodGet, "/app/finance/reports/monthly.pdf")
	r.Get("/finance/reports/monthly.pdf", finance.MonthlyReportPDFHandler(s.Stores.Revenues, s.Stores.Expenses))

	return r
}

func (s *Server) addShared(code, method, path string) {
	s.Rbac.Add(rbac.RoleAdmin, code, method, path)
	s.Rbac.Add(rbac.RoleMember, code, method, path)
}
