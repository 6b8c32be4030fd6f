package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/ddv2311/movie-booking-api/internal/domain"
	"github.com/ddv2311/movie-booking-api/internal/mailer"
	"github.com/ddv2311/movie-booking-api/internal/payment"
	"github.com/ddv2311/movie-booking-api/internal/repository"
	appvalidator "github.com/ddv2311/movie-booking-api/internal/validator"
	"github.com/ddv2311/movie-booking-api/internal/vcs"
	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
)

var (
	version = vcs.Version()
)

type Application struct {
	config         Config
	logger         *slog.Logger
	db             *pgxpool.Pool
	redis          redis.UniversalClient
	validator      *validator.Validate
	mailer         mailer.Mailer
	sessionManager *scs.SessionManager

	userRepo     domain.UserRepository
	showtimeRepo domain.ShowtimeRepository
	bookingRepo  domain.BookingRepository

	cardProvider    domain.CardPaymentProvider
	instantProvider domain.InstantPaymentProvider
}

type Config struct {
	Port             int
	Env              string
	OtelCollectorUrl string
	DB               DBConfig
	Redis            RedisConfig
	SMTP             SMTPConfig
	Stripe           StripeConfig
	Razorpay         RazorpayConfig
	Pricing          PricingConfig
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

type StripeConfig struct {
	SecretKey string
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
}

// PricingConfig holds the per-seat unit prices in major units. Amounts sent
// to the providers are converted to their minor units (cents, paise).
type PricingConfig struct {
	CardSeatPrice    decimal.Decimal
	InstantSeatPrice decimal.Decimal
}

func Run() error {
	var cfg Config
	var cardSeatPrice, instantSeatPrice string

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")
	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector URL")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", "", "Redis URL")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.SMTP.Host, "smtp-host", "sandbox.smtp.mailtrap.io", "SMTP host")
	flag.IntVar(&cfg.SMTP.Port, "smtp-port", 2525, "SMTP port")
	flag.StringVar(&cfg.SMTP.Username, "smtp-username", "", "SMTP username")
	flag.StringVar(&cfg.SMTP.Password, "smtp-password", "", "SMTP password")
	flag.StringVar(&cfg.SMTP.Sender, "smtp-sender", "MovieBooking <no-reply@moviebooking.example.com>", "SMTP sender")

	flag.StringVar(&cfg.Stripe.SecretKey, "stripe-key", "", "Stripe secret key")
	flag.StringVar(&cfg.Razorpay.KeyID, "razorpay-key-id", "", "Razorpay key id")
	flag.StringVar(&cfg.Razorpay.KeySecret, "razorpay-key-secret", "", "Razorpay key secret")

	flag.StringVar(&cardSeatPrice, "card-seat-price", "10.00", "Per-seat price for card payments (USD)")
	flag.StringVar(&instantSeatPrice, "instant-seat-price", "300", "Per-seat price for instant payments (INR)")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	var err error
	cfg.Pricing.CardSeatPrice, err = decimal.NewFromString(cardSeatPrice)
	if err != nil {
		return fmt.Errorf("invalid card seat price: %w", err)
	}

	cfg.Pricing.InstantSeatPrice, err = decimal.NewFromString(instantSeatPrice)
	if err != nil {
		return fmt.Errorf("invalid instant seat price: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	app, err := New(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	return app.run()
}

type Option func(*Application)

func WithCardProvider(p domain.CardPaymentProvider) Option {
	return func(app *Application) {
		app.cardProvider = p
	}
}

func WithInstantProvider(p domain.InstantPaymentProvider) Option {
	return func(app *Application) {
		app.instantProvider = p
	}
}

func WithMailer(m mailer.Mailer) Option {
	return func(app *Application) {
		app.mailer = m
	}
}

func New(cfg Config, logger *slog.Logger, opts ...Option) (*Application, error) {
	stripe.Key = cfg.Stripe.SecretKey

	db, err := newDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := newRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	app := &Application{
		config:          cfg,
		logger:          logger,
		db:              db,
		redis:           redisClient,
		validator:       appvalidator.NewValidator(),
		mailer:          mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender),
		sessionManager:  newSessionManager(redisClient),
		userRepo:        repository.NewPostgresUserRepository(db),
		showtimeRepo:    repository.NewPostgresShowtimeRepository(db),
		bookingRepo:     repository.NewPostgresBookingRepository(db),
		cardProvider:    payment.NewStripePaymentProvider(),
		instantProvider: payment.NewRazorpayPaymentProvider(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret),
	}

	for _, opt := range opts {
		opt(app)
	}

	return app, nil
}

func (app *Application) Close() {
	app.redis.Close()
	app.db.Close()
}

func newSessionManager(client *redis.Client) *scs.SessionManager {
	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client)
	sessionManager.IdleTimeout = 20 * time.Minute
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func newRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	err := redisotel.InstrumentTracing(rdb)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func newDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware("movie-booking-api", otelchi.WithChiRoutes(r)))
	r.Use(app.logRequest)
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)

	r.Get("/health", app.GetHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", app.RegisterUser)
		r.Post("/login", app.Login)
		r.Post("/logout", app.Logout)
	})

	r.With(app.requireAuthentication).Route("/payment", func(r chi.Router) {
		r.Post("/create-intent", app.CreatePaymentIntentHandler)
		r.Post("/confirm", app.ConfirmPaymentHandler)
		r.Post("/confirm-instant", app.ConfirmInstantPaymentHandler)
	})

	r.With(app.requireAuthentication).Route("/users/me/tickets", func(r chi.Router) {
		r.Get("/", app.GetUserTicketsHandler)
	})

	return r
}
