package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mpapenbr/stationlog/log"
	"github.com/mpapenbr/stationlog/pkg/model"
	"github.com/mpapenbr/stationlog/pkg/service"
)

type Server struct {
	e       *echo.Echo
	handler *Handler
	log     *log.Logger
}

func NewServer(facade *service.Facade) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	s := &Server{
		e:       e,
		handler: NewHandler(facade),
		log:     log.Default().Named("http"),
	}
	e.Use(s.requestLogger)
	s.handler.Register(e)
	return s
}

// Echo exposes the router, mainly for tests
func (s *Server) Echo() *echo.Echo {
	return s.e
}

// Start blocks until the server is shut down
func (s *Server) Start(addr string) error {
	s.log.Info("Starting http server", log.String("addr", addr))
	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.log.Debug("request",
			log.String("method", c.Request().Method),
			log.String("path", c.Path()),
			log.Int("status", c.Response().Status),
			log.Duration("duration", time.Since(start)))
		return nil
	}
}

// httpStatus maps a facade response onto an http status code
func httpStatus[T any](res model.Response[T]) int {
	switch res.Status {
	case model.StatusSuccess:
		return http.StatusOK
	case model.StatusCreated:
		return http.StatusCreated
	case model.StatusNotFound:
		return http.StatusNotFound
	}
	err := res.Err()
	switch {
	case errors.Is(err, model.ErrInvalidFormat):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrConstraintViolation), errors.Is(err, model.ErrAlreadyLoaded):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respond[T any](c echo.Context, res model.Response[T]) error {
	return c.JSON(httpStatus(res), res)
}
