package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/nsscell/portal/core"
	"github.com/nsscell/portal/core/activity"
	"github.com/nsscell/portal/core/college"
	"github.com/nsscell/portal/core/report"
	"github.com/nsscell/portal/core/user"
	"github.com/nsscell/portal/core/volunteer"
)

type (
	// ServerDeps holds all the dependencies the API server needs.
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		UserSvc      user.ServiceInterface
		VolunteerSvc volunteer.ServiceInterface
		ActivitySvc  activity.ServiceInterface
		CollegeSvc   college.ServiceInterface
		ReportSvc    report.ServiceInterface

		DisableReqLogs bool
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := newJWTMiddleware(conf)

	registerUserAPI(v1, jwt, s.deps)
	registerVolunteerAPI(v1, jwt, s.deps)
	registerActivityAPI(v1, jwt, s.deps)
	registerCollegeAPI(v1, jwt, s.deps)
	registerReportAPI(v1, jwt, s.deps)
}

// Start runs the server and relays its failure to Errors().
// It does not block; callers wait on Errors() / ShutdownSignal().
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.app.Start(s.deps.Conf.Server.Host); err != nil && err != http.ErrServerClosed {
			s.errs <- err
		}
	}()
}

// Errors reports fatal server errors.
func (s *Server) Errors() <-chan error { return s.errs }

// ShutdownSignal relays OS interrupt/termination signals, as well as
// internal integrity errors requesting a graceful stop.
func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the NSS Portal API!")
}
