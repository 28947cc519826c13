package main

import (
	"newsblog/cmd/handlers"
	"newsblog/internal/logger"
)

func main() {
	logger.Init()
	handlers.Execute()
}
