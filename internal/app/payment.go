package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ddv2311/movie-booking-api/api"
	"github.com/ddv2311/movie-booking-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
)

func (app *Application) CreatePaymentIntentHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.CreateIntentRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	userId := app.contextGetUserId(r)
	user, err := app.userRepo.GetById(r.Context(), userId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	showtime, err := app.showtimeRepo.GetWithDetails(r.Context(), input.ShowtimeId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.badRequestResponse(w, r, fmt.Errorf("Showtime not found with id of %d", input.ShowtimeId))
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	seats, err := domain.ValidateSeats(input.Seats, showtime.Theater.Plan, showtime.Seats)
	if err != nil {
		logger.Warn("seat validation failed during intent creation", "error", err)
		app.seatErrorResponse(w, r, err)
		return
	}

	metadata := domain.BookingMetadata{
		UserID:      userId,
		ShowtimeID:  showtime.ID,
		Seats:       input.Seats,
		MovieName:   showtime.Movie.Name,
		TheaterInfo: showtime.Theater.Info(),
		Showtime:    showtime.StartTime,
	}

	switch domain.PaymentMethod(input.PaymentMethod) {
	case domain.PaymentMethodCard:
		amount := toMinorUnits(app.config.Pricing.CardSeatPrice, len(seats))

		intent, err := app.cardProvider.CreateIntent(amount, string(stripe.CurrencyUSD), metadata)
		if err != nil {
			logger.Error("card provider rejected intent creation", "error", err)
			app.providerErrorResponse(w, r, err)
			return
		}

		resp := api.CardIntentResponse{
			Success:         true,
			PaymentMethod:   string(domain.PaymentMethodCard),
			ClientSecret:    intent.ClientSecret,
			PaymentIntentId: intent.ID,
			Amount:          amount,
			Currency:        "USD",
		}

		err = app.writeJSON(w, http.StatusOK, resp, nil)
		if err != nil {
			app.serverErrorResponse(w, r, err)
		}

	case domain.PaymentMethodInstant:
		amount := toMinorUnits(app.config.Pricing.InstantSeatPrice, len(seats))

		order, err := app.instantProvider.CreateOrder(amount, "INR", metadata)
		if err != nil {
			logger.Error("instant provider rejected order creation", "error", err)
			app.providerErrorResponse(w, r, err)
			return
		}

		resp := api.InstantIntentResponse{
			Success:       true,
			PaymentMethod: string(domain.PaymentMethodInstant),
			OrderId:       order.ID,
			Amount:        amount,
			Currency:      "INR",
			Key:           app.instantProvider.KeyID(),
			Prefill: api.Prefill{
				Name:  user.Username,
				Email: user.Email,
			},
		}

		err = app.writeJSON(w, http.StatusOK, resp, nil)
		if err != nil {
			app.serverErrorResponse(w, r, err)
		}
	}
}

func (app *Application) ConfirmPaymentHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.ConfirmPaymentRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	intent, err := app.cardProvider.RetrieveIntent(input.PaymentIntentId)
	if err != nil {
		logger.Error("failed to retrieve payment intent", "error", err)
		app.badRequestResponse(w, r, fmt.Errorf("Failed to confirm payment"))
		return
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		logger.Warn("confirmation attempt for incomplete payment", "status", intent.Status)
		app.badRequestResponse(w, r, fmt.Errorf("Payment not completed"))
		return
	}

	metadata, err := domain.BookingMetadataFromMap(intent.Metadata)
	if err != nil {
		logger.Error("intent carries malformed booking metadata", "error", err)
		app.badRequestResponse(w, r, fmt.Errorf("Failed to confirm payment"))
		return
	}

	userId := app.contextGetUserId(r)
	if metadata.UserID != userId {
		logger.Warn("confirmation attempt by a different user than the intent's owner")
		app.badRequestResponse(w, r, fmt.Errorf("Payment user mismatch"))
		return
	}

	booking := domain.Booking{
		UserID:        userId,
		ShowtimeID:    metadata.ShowtimeID,
		PaymentRef:    intent.ID,
		PaymentMethod: domain.PaymentMethodCard,
		TotalAmount:   intent.Amount,
		Currency:      strings.ToUpper(string(intent.Currency)),
	}

	details := api.PaymentDetails{
		Amount:          intent.Amount,
		Currency:        string(intent.Currency),
		PaymentIntentId: intent.ID,
	}

	app.completeBooking(w, r, booking, metadata.Seats, details)
}

func (app *Application) ConfirmInstantPaymentHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.ConfirmInstantPaymentRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	if !app.instantProvider.VerifySignature(input.OrderId, input.PaymentId, input.Signature) {
		logger.Warn("instant payment confirmation with invalid signature")
		app.badRequestResponse(w, r, fmt.Errorf("Invalid payment signature"))
		return
	}

	userId := app.contextGetUserId(r)
	amount := toMinorUnits(app.config.Pricing.InstantSeatPrice, len(input.Seats))

	// Unlike the card path, the seat list here comes from the client body
	// rather than provider-held metadata. Kept to match the provider's
	// checkout flow, which returns only payment ids to the client.
	booking := domain.Booking{
		UserID:        userId,
		ShowtimeID:    input.ShowtimeId,
		PaymentRef:    input.PaymentId,
		PaymentMethod: domain.PaymentMethodInstant,
		TotalAmount:   amount,
		Currency:      "INR",
	}

	details := api.PaymentDetails{
		Amount:    amount,
		Currency:  "INR",
		PaymentId: input.PaymentId,
		OrderId:   input.OrderId,
	}

	app.completeBooking(w, r, booking, input.Seats, details)
}

// completeBooking re-checks seat availability against current showtime
// state, commits the booking, and writes the success response. The
// availability re-check closes the window between intent creation and
// confirmation; the commit itself is still conditional, so a race between
// two confirmations resolves to exactly one winner.
func (app *Application) completeBooking(
	w http.ResponseWriter,
	r *http.Request,
	booking domain.Booking,
	seatIds []string,
	details api.PaymentDetails) {

	logger := app.contextGetLogger(r)

	showtime, err := app.showtimeRepo.GetWithDetails(r.Context(), booking.ShowtimeID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.badRequestResponse(w, r, fmt.Errorf("Showtime not found"))
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	seats, err := domain.ValidateSeats(seatIds, showtime.Theater.Plan, showtime.Seats)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatUnavailable):
			logger.Warn("seats were claimed between intent creation and confirmation")
			app.badRequestResponse(w, r, fmt.Errorf("Seats no longer available"))
		default:
			app.seatErrorResponse(w, r, err)
		}

		return
	}

	booking.Seats = seats

	updatedShowtime, updatedUser, err := app.bookingRepo.CommitBooking(r.Context(), booking)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatUnavailable):
			logger.Warn("concurrent booking won the seat commit race")
			app.badRequestResponse(w, r, fmt.Errorf("Seats no longer available"))
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	app.sendTicketConfirmation(r, updatedUser, updatedShowtime, booking)

	resp := api.BookingResponse{
		Success:        true,
		Data:           toApiShowtime(updatedShowtime),
		UpdatedUser:    toApiUser(updatedUser),
		PaymentDetails: details,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) sendTicketConfirmation(
	r *http.Request,
	user *domain.User,
	showtime *domain.Showtime,
	booking domain.Booking) {

	go func(ctx context.Context) {
		// new logger for this goroutine, inheriting context from the request
		// important for tracing across async boundaries
		gLogger := app.contextGetLogger(r.WithContext(ctx))

		defer func() {
			if err := recover(); err != nil {
				gLogger.Error("panic occurred during sending ticket confirmation mail", "panic", err)
			}
		}()

		seatLabels := make([]string, len(booking.Seats))
		for i, seat := range booking.Seats {
			seatLabels[i] = seat.String()
		}

		data := map[string]any{
			"username":    user.Username,
			"movieName":   showtime.Movie.Name,
			"theaterInfo": showtime.Theater.Info(),
			"showtime":    showtime.StartTime.Format("Jan 2, 2006 15:04"),
			"seats":       strings.Join(seatLabels, ", "),
			"paymentRef":  booking.PaymentRef,
		}

		err := app.mailer.Send(user.Email, "ticket_confirmation.tmpl", data)
		if err != nil {
			gLogger.Error("failed to send ticket confirmation email", "error", err)
		} else {
			gLogger.Info("ticket confirmation email sent successfully")
		}
	}(context.WithoutCancel(r.Context()))
}

func (app *Application) seatErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidSeat):
		app.badRequestResponse(w, r, fmt.Errorf("Seat is not valid"))
	case errors.Is(err, domain.ErrSeatUnavailable):
		app.badRequestResponse(w, r, fmt.Errorf("Seat not available"))
	default:
		app.serverErrorResponse(w, r, err)
	}
}

// providerErrorResponse surfaces the provider's rejection message to the
// caller, as the checkout UI renders it directly.
func (app *Application) providerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	message := "Failed to create payment intent"

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		message = stripeErr.Msg
	} else if err.Error() != "" {
		message = err.Error()
	}

	app.errorResponse(w, r, http.StatusBadRequest, message)
}

func toMinorUnits(seatPrice decimal.Decimal, seatCount int) int64 {
	return seatPrice.
		Mul(decimal.NewFromInt(int64(seatCount))).
		Mul(decimal.NewFromInt(100)).
		IntPart()
}

func toApiShowtime(showtime *domain.Showtime) api.Showtime {
	seats := make([]api.BookedSeat, len(showtime.Seats))
	for i, seat := range showtime.Seats {
		seats[i] = api.BookedSeat{Row: seat.Row, Number: seat.Number}
	}

	return api.Showtime{
		Id:        showtime.ID,
		MovieName: showtime.Movie.Name,
		Theater:   showtime.Theater.Info(),
		StartTime: showtime.StartTime,
		Seats:     seats,
	}
}

func toApiUser(user *domain.User) api.User {
	return api.User{
		Id:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Tickets:  toApiTickets(user.Tickets),
	}
}

func toApiTickets(tickets []domain.Ticket) []api.Ticket {
	apiTickets := make([]api.Ticket, len(tickets))

	for i, t := range tickets {
		seats := make([]api.BookedSeat, len(t.Seats))
		for j, seat := range t.Seats {
			seats[j] = api.BookedSeat{Row: seat.Row, Number: seat.Number}
		}

		apiTickets[i] = api.Ticket{
			Id:            t.ID,
			ShowtimeId:    t.ShowtimeID,
			MovieName:     t.MovieName,
			Theater:       t.TheaterInfo,
			ShowtimeDate:  t.ShowtimeDate,
			Seats:         seats,
			PaymentRef:    t.PaymentRef,
			PaymentMethod: string(t.PaymentMethod),
			TotalAmount:   t.TotalAmount,
			Currency:      t.Currency,
			PaymentDate:   t.PaymentDate,
		}
	}

	return apiTickets
}
