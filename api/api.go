package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/curriculum-catalog/utils/logger"
	"github.com/sahilchouksey/curriculum-catalog/utils/response"
)

type APIServer struct {
	app           *fiber.App
	listenAddress string
	log           *logger.Logger
}

func NewAPIServer(listenAddress string, log *logger.Logger) *APIServer {
	return &APIServer{
		app:           NewApp(log),
		listenAddress: listenAddress,
		log:           log,
	}
}

// NewApp builds the fiber app with the JSON error handler used by every server and test.
func NewApp(log *logger.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName: "curriculum-catalog",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				if e.Code == fiber.StatusNotFound {
					return response.NotFound(c)
				}
				return response.Error(c, e.Code, e.Message, "HTTP_ERROR")
			}
			log.Error("unhandled request error", "path", c.Path(), "error", err)
			return response.InternalServerError(c, "")
		},
	})
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

func (s *APIServer) Run() error {
	s.log.Info("starting API server", "address", s.listenAddress)
	return s.app.Listen(s.listenAddress)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *APIServer) Shutdown() error {
	return s.app.Shutdown()
}
