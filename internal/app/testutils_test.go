package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/ddv2311/movie-booking-api/api"
	"github.com/ddv2311/movie-booking-api/internal/mailer"
	"github.com/ddv2311/movie-booking-api/internal/mocks"
	appvalidator "github.com/ddv2311/movie-booking-api/internal/validator"
	"github.com/shopspring/decimal"
)

func newTestApplication(opts ...func(*Application)) *Application {
	app := &Application{
		config: Config{
			Env: "test",
			Pricing: PricingConfig{
				CardSeatPrice:    decimal.NewFromInt(10),
				InstantSeatPrice: decimal.NewFromInt(300),
			},
		},
		validator:      appvalidator.NewValidator(),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		sessionManager: scs.New(),
		mailer:         &mailer.MockMailer{},
		userRepo:       &mocks.MockUserRepo{},
		showtimeRepo:   &mocks.MockShowtimeRepo{},
		bookingRepo:    &mocks.MockBookingRepo{},
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

func setupTestSession(t *testing.T, app *Application, r *http.Request, userId int) *http.Request {
	ctx, err := app.sessionManager.Load(r.Context(), "session")
	if err != nil {
		t.Errorf("Failed to load session: %v", err)
	}

	app.sessionManager.Put(ctx, SessionKeyUserId.String(), userId)

	return r.WithContext(ctx)
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest(method, url, bytes.NewReader(jsonData))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantErrMessage string) {
	if wantStatus >= 200 && wantStatus < 300 {
		return
	}

	var errorResp api.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if errorResp.Success {
		t.Error("Error response should carry success=false")
	}

	if wantErrMessage != "" && errorResp.Message != wantErrMessage {
		t.Errorf("Error message = %v, want %v", errorResp.Message, wantErrMessage)
	}
}

func checkValidationErrorResponse(t *testing.T, w *httptest.ResponseRecorder, wantIssue string) {
	var validationResp api.ValidationErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
		t.Fatalf("Failed to decode validation error response: %v", err)
	}

	errorSet := make(map[string]bool)
	for _, vErr := range validationResp.ValidationErrors {
		errorSet[vErr.Issue] = true
	}

	if !errorSet[wantIssue] {
		t.Errorf("Expected validation error message '%s' not found in response", wantIssue)
	}
}

func ptr[T any](v T) *T {
	return &v
}
