package app

import (
	"net/http"

	"github.com/ddv2311/movie-booking-api/api"
)

func (app *Application) GetUserTicketsHandler(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)

	tickets, err := app.bookingRepo.GetTicketsByUserId(r.Context(), userId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.TicketsResponse{
		Success: true,
		Tickets: toApiTickets(tickets),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
