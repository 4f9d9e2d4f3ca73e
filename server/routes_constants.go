package server

// Route path constants
const (
	RouteIndex           = "/"
	RouteSession         = "/session"
	RouteSessionLogin    = "/session/login"
	RouteSessionLogout   = "/session/logout"
	RouteSessionActivity = "/session/activity"
	RouteSessionRefresh  = "/session/refresh"
)
