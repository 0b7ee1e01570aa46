package http_api

// routes sets up the routes for the HTTP server.
func (s *HTTPServer) routes() {
	s.router.GET("/healthz", s.health)
	if s.metrics != nil {
		s.router.GET("/metrics", s.serveMetrics)
	}

	payments := s.router.Group("/api/v1/payments", identityMiddleware())
	payments.POST("", s.createPayment)
	payments.GET("", s.listPayments)
	payments.GET("/:id", s.getPayment)
	payments.POST("/:id/cancel", s.cancelPayment)
	payments.POST("/:id/confirm", s.confirmPayment)
	payments.GET("/:id/transaction", s.getPaymentTransaction)

	public := s.router.Group("/api/v1/public/payments")
	public.GET("/:id", s.getPublicPayment)
	public.POST("/:id/confirm", s.confirmPublicPayment)
}
