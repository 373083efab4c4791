package main

import (
	"os"

	"blogicum/cli"
)

// @title Blogicum API
// @version 1.0
// @description A blogging platform with categories, locations, comments and author-only editing.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
