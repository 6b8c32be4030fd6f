package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/ddv2311/movie-booking-api/internal/domain"
	"github.com/google/uuid"
	"github.com/razorpay/razorpay-go"
)

type RazorpayPaymentProvider struct {
	client *razorpay.Client
	keyID  string
	secret string
}

func NewRazorpayPaymentProvider(keyID, secret string) *RazorpayPaymentProvider {
	return &RazorpayPaymentProvider{
		client: razorpay.NewClient(keyID, secret),
		keyID:  keyID,
		secret: secret,
	}
}

func (r *RazorpayPaymentProvider) CreateOrder(
	amount int64,
	currency string,
	metadata domain.BookingMetadata) (*domain.InstantOrder, error) {

	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  fmt.Sprintf("receipt_%s", uuid.NewString()),
		"notes":    metadata.Notes(),
	}

	order, err := r.client.Order.Create(data, nil)
	if err != nil {
		return nil, err
	}

	orderID, ok := order["id"].(string)
	if !ok {
		return nil, fmt.Errorf("unexpected order response: missing id")
	}

	return &domain.InstantOrder{
		ID:       orderID,
		Amount:   amount,
		Currency: currency,
	}, nil
}

// VerifySignature recomputes HMAC-SHA256 over "orderID|paymentID" with the
// key secret and compares it to the client-supplied signature in constant
// time.
func (r *RazorpayPaymentProvider) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(r.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

func (r *RazorpayPaymentProvider) KeyID() string {
	return r.keyID
}
