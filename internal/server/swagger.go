package server

//go:generate swag init -g internal/server/server.go -o docs/swagger

// @title Pagelens API
// @version 0.1
// @description Interactive documentation for the page audit API surface.
// @contact.name Pagelens Maintainers
// @contact.url https://github.com/pagelens/pagelens
// @BasePath /
