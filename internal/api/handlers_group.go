package api

import "github.com/kevinpauljacob/cal/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	MindshareHandler *handler.MindshareHandler
	ListingHandler   *handler.ListingHandler
	AuthHandler      *handler.AuthHandler
}
