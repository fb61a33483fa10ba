package main

import (
	"cryptobrief/cmd/handlers"
	"cryptobrief/internal/logger"
)

func main() {
	logger.Init()
	handlers.Execute()
}
