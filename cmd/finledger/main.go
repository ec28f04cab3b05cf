// Package main is the entry point for the finledger CLI and API server.
package main

import (
	"os"

	"github.com/SscSPs/finledger/cmd/finledger/cmd"
)

// @title finledger API
// @version 1.0
// @description Double-entry ledger for normalized financial statement records.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
