package handler

import (
	"github.com/labstack/echo/v4"
)

var helloBody = []byte("hello world")

// HelloHandler is a static responder with no upstream.
type HelloHandler struct{}

// NewHelloHandler creates a HelloHandler.
func NewHelloHandler() *HelloHandler {
	return &HelloHandler{}
}

// Handle writes "hello world" with status 200.
func (h *HelloHandler) Handle(c echo.Context) error {
	return writeFixedLength(c, helloBody)
}
