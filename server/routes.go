package server

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteIndex+"{$}", ChainMiddleware(s.IndexHandler(), s.APIMiddleware()...))

	s.RegisterRouteFunc("GET "+RouteSession, ChainMiddleware(s.SessionStatusHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteSessionLogin, ChainMiddleware(s.LoginRedirectHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteSessionLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteSessionLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteSessionActivity, ChainMiddleware(s.ActivityHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteSessionRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))

	// CORS preflight for every session route
	s.RegisterRouteFunc("OPTIONS "+RouteSession, ChainMiddleware(noContent, s.APIMiddleware()...))
	s.RegisterRouteFunc("OPTIONS "+RouteSession+"/", ChainMiddleware(noContent, s.APIMiddleware()...))
}
