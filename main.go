package main

import "shopcore/internal/app"

// @title           Shopcore API
// @version         1.0
// @description     Retail management backend: password recovery, invoicing, email delivery.
// @BasePath        /api/v1
func main() {
	app.Run()
}
