package session

// Client route constants
const (
	RouteHome           = "/"
	RouteLogin          = "/login"
	RouteRegister       = "/register"
	RouteForgotPassword = "/forgot-password"
	RouteStudent        = "/student"

	RouteAdmin      = "/admin"
	RouteAdminUsers = "/admin/user"

	RouteForum      = "/forum"
	RouteForumTopic = "/forum/topics/{topicId}"

	// RouteSessionChanged is where a 401 from the backend sends the user.
	RouteSessionChanged = RouteLogin + "?error=SessionChanged"
)

// RouteForRole is the landing route after a login.
func RouteForRole(role string) string {
	switch RoleType(role) {
	case RoleAdmin:
		return RouteAdmin
	case RoleStudent:
		return RouteStudent
	default:
		return RouteHome
	}
}

// Navigator moves the user between routes. Reload discards whatever in-memory
// view state the host keeps and rebuilds it from storage.
type Navigator interface {
	Navigate(route string)
	Reload()
}

type nopNavigator struct{}

func (nopNavigator) Navigate(string) {}
func (nopNavigator) Reload()         {}
