package middleware

import (
	"net/http"

	"goldloan/models"
)

// Operation представляет операцию API, требующую проверки прав
type Operation string

const (
	OpImportRecords   Operation = "import:records"
	OpUpdateSettings  Operation = "settings:update"
	OpManageUsers     Operation = "users:manage"
	OpCreateBranch    Operation = "branches:create"
	OpReevaluateRisk  Operation = "risk:reevaluate"
	OpViewMetrics     Operation = "metrics:view"
	OpCreateRate      Operation = "rates:create"
	OpDeleteCustomer  Operation = "customers:delete"
	OpDeleteLoan      Operation = "loans:delete"
	OpDeleteOrnament  Operation = "ornaments:delete"
)

// policy сопоставляет операцию списку ролей, которым она разрешена.
// Операции, отсутствующие в таблице, доступны любому аутентифицированному
// сотруднику.
var policy = map[Operation][]models.UserRole{
	OpImportRecords:  {models.RoleAdmin},
	OpUpdateSettings: {models.RoleAdmin},
	OpManageUsers:    {models.RoleAdmin},
	OpCreateBranch:   {models.RoleAdmin},
	OpReevaluateRisk: {models.RoleAdmin, models.RoleBranchManager},
	OpViewMetrics:    {models.RoleAdmin},
	OpCreateRate:     {models.RoleAdmin, models.RoleBranchManager, models.RoleLoanOfficer},
	OpDeleteCustomer: {models.RoleAdmin, models.RoleBranchManager},
	OpDeleteLoan:     {models.RoleAdmin, models.RoleBranchManager},
	OpDeleteOrnament: {models.RoleAdmin, models.RoleBranchManager},
}

// Allowed проверяет, разрешена ли операция для роли
func Allowed(op Operation, role models.UserRole) bool {
	roles, exists := policy[op]
	if !exists {
		return true
	}
	for _, allowed := range roles {
		if role == allowed {
			return true
		}
	}
	return false
}

// RequirePermission возвращает middleware, проверяющий права на операцию.
// Должен стоять после AuthMiddleware: роль берется из контекста запроса.
func RequirePermission(op Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value("role").(models.UserRole)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !Allowed(op, role) {
				http.Error(w, "Access denied", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
