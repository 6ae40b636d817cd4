package adminapi

// InitRouter registers every API route on the web server. Call after
// webserver.Init.
func InitRouter() {
	registerAuthRoutes()
	registerEmployeeRoutes()
	registerProductRoutes()
	registerCartRoutes()
	registerSaleRoutes()
	registerClientRoutes()
	registerDashboardRoutes()
}
