package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"devhub/internal/commands"
	"devhub/internal/config"
	"devhub/internal/provider"
)

// TokenHeader carries the bridge token on every command request.
const TokenHeader = "X-Devhub-Token"

const (
	maxBodyBytes        = 1 << 20 // 1 MiB
	shutdownGracePeriod = 10 * time.Second
	readTimeout         = 30 * time.Second
	writeTimeout        = 5 * time.Minute
	idleTimeout         = 120 * time.Second
)

// Server is the loopback command bridge.
type Server struct {
	cfg      config.BridgeConfig
	commands *commands.Commands
	logger   zerolog.Logger
	app      *echo.Echo
	address  string
	token    string
}

// New constructs the bridge. When cfg.Token is empty a random token is generated;
// read it back with Token.
func New(cfg config.BridgeConfig, cmds *commands.Commands, logger zerolog.Logger) (*Server, error) {
	if cmds == nil {
		return nil, errors.New("commands must not be nil")
	}

	token := cfg.Token
	if token == "" {
		token = uuid.NewString()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = jsonErrorHandler

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogLatency:   true,
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := logger.Info()
			if v.Error != nil {
				event = logger.Warn().Err(v.Error)
			}
			event.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Int64("latency_ms", v.Latency.Milliseconds()).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.BodyLimit(strconv.Itoa(maxBodyBytes / 1024) + "K"))
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'; form-action 'none'",
	}))

	srv := &Server{
		cfg:      cfg,
		commands: cmds,
		logger:   logger,
		app:      e,
		address:  net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		token:    token,
	}

	srv.registerRoutes()

	return srv, nil
}

// Token returns the token clients must send in TokenHeader.
func (s *Server) Token() string {
	return s.token
}

// Handler exposes the routed echo instance.
func (s *Server) Handler() http.Handler {
	return s.app
}

// Run starts the bridge and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	printStartupBanner(s.address, s.token)
	s.logger.Info().Str("addr", s.address).Msg("starting command bridge")

	httpServer := &http.Server{
		Addr:         s.address,
		Handler:      s.app,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.app.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		if err := s.app.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info().Msg("command bridge stopped")
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) registerRoutes() {
	s.app.GET("/health", s.handleHealth)

	cmds := s.app.Group("/commands", s.requireToken)
	cmds.GET("", s.handleList)
	cmds.POST("/:name", s.handleCommand)
}

func (s *Server) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		got := c.Request().Header.Get(TokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) != 1 {
			return requestError{Status: http.StatusUnauthorized, Message: "missing or invalid bridge token"}
		}
		return next(c)
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"commands": s.commands.Names()})
}

func (s *Server) handleCommand(c echo.Context) error {
	name := c.Param("name")

	args, err := readBody(c)
	if err != nil {
		return err
	}

	out, err := s.commands.Dispatch(c.Request().Context(), name, args)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func readBody(c echo.Context) (json.RawMessage, error) {
	req := c.Request()
	defer req.Body.Close()

	raw, err := io.ReadAll(req.Body)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return nil, err
		}
		return nil, requestError{Status: http.StatusBadRequest, Message: fmt.Sprintf("read request body: %v", err)}
	}
	if len(raw) > 0 && !json.Valid(raw) {
		return nil, requestError{Status: http.StatusBadRequest, Message: "request body must be a JSON object"}
	}
	return raw, nil
}

type requestError struct {
	Status  int
	Message string
}

func (e requestError) Error() string {
	return e.Message
}

type errorBody struct {
	Error string `json:"error"`
}

func jsonErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var reqErr requestError
	if errors.As(err, &reqErr) {
		_ = c.JSON(reqErr.Status, errorBody{Error: reqErr.Message})
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		_ = c.JSON(he.Code, errorBody{Error: fmt.Sprint(he.Message)})
		return
	}

	_ = c.JSON(http.StatusInternalServerError, errorBody{Error: err.Error()})
}

func printStartupBanner(addr, token string) {
	fmt.Println()
	fmt.Println("devhub command bridge ready")
	fmt.Printf("Listening on http://%s\n", addr)
	fmt.Println("Endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /commands")
	fmt.Println("  POST /commands/:name")
	fmt.Printf("Send header %s: %s\n", TokenHeader, token)
	fmt.Printf("Example:\n  curl http://%s/commands/get_system_info -X POST -H '%s: %s'\n\n", addr, TokenHeader, token)
}

// toHTTPError maps a command error to a status; the body always carries the error text.
func toHTTPError(err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, commands.ErrUnknownCommand):
		status = http.StatusNotFound
	case errors.Is(err, commands.ErrInvalidArgument),
		provider.IsKind(err, provider.KindConfiguration):
		status = http.StatusBadRequest
	case provider.IsKind(err, provider.KindNetwork),
		provider.IsKind(err, provider.KindProtocol),
		provider.IsKind(err, provider.KindInvalidResponse),
		provider.IsKind(err, provider.KindProvider):
		status = http.StatusBadGateway
	}
	return requestError{Status: status, Message: err.Error()}
}
