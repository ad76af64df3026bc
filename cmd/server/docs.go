package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Trading Journal API
// @version         0.1.0
// @description     Trade journal, top-down analysis, reports and direct messages.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
// @securityDefinitions.apikey CronSecret
// @in              header
// @name            Authorization
