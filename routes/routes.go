package routes

// Routes package cung cấp tất cả routing functions cho Address Verifier Service
//
// Cấu trúc:
// - api.go: pipeline routes (/usps/*, /here/*, /verify-line, /county/*), admin (/v1/admin/*), health
// - web.go: trang info /
// - middleware.go: recovery, request id, zap request logger
//
// Sử dụng:
// routes.SetupMiddleware(router, logger)
// routes.SetupAllRoutes(router, addressController, geocodeController, adminController)
