package integration_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ddv2311/movie-booking-api/internal/app"
	"github.com/ddv2311/movie-booking-api/internal/mailer"
	"github.com/ddv2311/movie-booking-api/internal/payment"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestApp wires the application against real containers with the payment
// providers and the mailer swapped for fakes. DB is a separate pool for
// fixture setup and assertions.
type TestApp struct {
	App             *app.Application
	DB              *pgxpool.Pool
	CardProvider    *payment.FakeCardProvider
	InstantProvider *payment.FakeInstantProvider
	Mailer          *mailer.MockMailer
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cardProvider := &payment.FakeCardProvider{}
	instantProvider := &payment.FakeInstantProvider{
		Key:     "rzp_test_key",
		Secret:  "test_secret",
		OrderID: "order_123",
	}
	mockMailer := &mailer.MockMailer{}

	application, err := app.New(
		cfg,
		logger,
		app.WithCardProvider(cardProvider),
		app.WithInstantProvider(instantProvider),
		app.WithMailer(mockMailer),
	)
	if err != nil {
		return nil, err
	}

	db, err := pgxpool.New(context.Background(), cfg.DB.DSN)
	if err != nil {
		application.Close()
		return nil, err
	}

	return &TestApp{
		App:             application,
		DB:              db,
		CardProvider:    cardProvider,
		InstantProvider: instantProvider,
		Mailer:          mockMailer,
	}, nil
}

func (a *TestApp) Close() {
	a.DB.Close()
	a.App.Close()
}
