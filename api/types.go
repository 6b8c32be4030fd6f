// Package api holds the request and response shapes of the HTTP surface.
package api

import "time"

type ErrorResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Success          bool              `json:"success"`
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type CreateIntentRequest struct {
	ShowtimeId    int      `json:"showtimeId" validate:"required,gt=0"`
	Seats         []string `json:"seats" validate:"required,min=1,dive,seatid"`
	PaymentMethod string   `json:"paymentMethod" validate:"required,oneof=card instant"`
}

type CardIntentResponse struct {
	Success         bool   `json:"success"`
	PaymentMethod   string `json:"paymentMethod"`
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentId string `json:"paymentIntentId"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}

type Prefill struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type InstantIntentResponse struct {
	Success       bool    `json:"success"`
	PaymentMethod string  `json:"paymentMethod"`
	OrderId       string  `json:"orderId"`
	Amount        int64   `json:"amount"`
	Currency      string  `json:"currency"`
	Key           string  `json:"key"`
	Prefill       Prefill `json:"prefill"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentId string `json:"paymentIntentId" validate:"required"`
}

type ConfirmInstantPaymentRequest struct {
	OrderId    string   `json:"orderId" validate:"required"`
	PaymentId  string   `json:"paymentId" validate:"required"`
	Signature  string   `json:"signature" validate:"required"`
	ShowtimeId int      `json:"showtimeId" validate:"required,gt=0"`
	Seats      []string `json:"seats" validate:"required,min=1,dive,seatid"`
}

type BookedSeat struct {
	Row    string `json:"row"`
	Number int    `json:"number"`
}

type Showtime struct {
	Id        int          `json:"id"`
	MovieName string       `json:"movieName"`
	Theater   string       `json:"theater"`
	StartTime time.Time    `json:"startTime"`
	Seats     []BookedSeat `json:"seats"`
}

type Ticket struct {
	Id            int          `json:"id"`
	ShowtimeId    int          `json:"showtimeId"`
	MovieName     string       `json:"movieName"`
	Theater       string       `json:"theater"`
	ShowtimeDate  time.Time    `json:"showtimeDate"`
	Seats         []BookedSeat `json:"seats"`
	PaymentRef    string       `json:"paymentRef"`
	PaymentMethod string       `json:"paymentMethod"`
	TotalAmount   int64        `json:"totalAmount"`
	Currency      string       `json:"currency"`
	PaymentDate   time.Time    `json:"paymentDate"`
}

type User struct {
	Id       int      `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Tickets  []Ticket `json:"tickets"`
}

type PaymentDetails struct {
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	PaymentIntentId string `json:"paymentIntentId,omitempty"`
	PaymentId       string `json:"paymentId,omitempty"`
	OrderId         string `json:"orderId,omitempty"`
}

type BookingResponse struct {
	Success        bool           `json:"success"`
	Data           Showtime       `json:"data"`
	UpdatedUser    User           `json:"updatedUser"`
	PaymentDetails PaymentDetails `json:"paymentDetails"`
}

type TicketsResponse struct {
	Success bool     `json:"success"`
	Tickets []Ticket `json:"tickets"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

type UserResponse struct {
	Id        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}
