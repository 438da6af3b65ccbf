// Package chapa is the HTTP client for the Chapa payment gateway. It
// translates local payment data into gateway requests and gateway responses
// into the normalized verification result. It holds no business logic and
// never mutates entities.
package chapa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/amanuel-t/travel_booking/internal/core/domain"
	"github.com/amanuel-t/travel_booking/internal/core/ports"
	"github.com/amanuel-t/travel_booking/internal/monitoring"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://api.chapa.co/v1"

type Config struct {
	BaseURL     string
	SecretKey   string
	CallbackURL string
	ReturnURL   string
	Timeout     time.Duration
}

type Client struct {
	baseURL     string
	secretKey   string
	callbackURL string
	returnURL   string
	hc          *http.Client
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		secretKey:   cfg.SecretKey,
		callbackURL: cfg.CallbackURL,
		returnURL:   cfg.ReturnURL,
		hc:          &http.Client{Timeout: timeout},
	}
}

type initializeRequest struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	TxRef       string `json:"tx_ref"`
	CallbackURL string `json:"callback_url,omitempty"`
	ReturnURL   string `json:"return_url,omitempty"`
	Title       string `json:"customization[title],omitempty"`
	Description string `json:"customization[description],omitempty"`
}

// InitiateCheckout requests a hosted checkout session. The payment id is
// used as the gateway transaction reference so verification and the
// unauthenticated callback can resolve the payment later.
func (c *Client) InitiateCheckout(ctx context.Context, payment *domain.Payment, booking *domain.Booking, guest *domain.User) (*ports.CheckoutSession, error) {
	if c.secretKey == "" {
		return nil, fmt.Errorf("%w: gateway secret key is not set", domain.ErrConfiguration)
	}

	txRef := payment.ID.String()
	body, err := json.Marshal(initializeRequest{
		Amount:      payment.Amount.String(),
		Currency:    payment.Currency,
		Email:       guest.Email,
		FirstName:   guest.DisplayName(),
		TxRef:       txRef,
		CallbackURL: c.callbackURL,
		ReturnURL:   c.returnURL,
		Title:       "Travel Booking Payment",
		Description: fmt.Sprintf("Payment for booking %s", booking.ID),
	})
	if err != nil {
		return nil, fmt.Errorf("initiateCheckout: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("initiateCheckout: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	start := time.Now()
	resp, err := c.hc.Do(req)
	monitoring.TrackGatewayRequest("initialize", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%w: initialize request failed: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	var reply struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Data    struct {
			CheckoutURL string `json:"checkout_url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("%w: initialize decode: %v", domain.ErrGateway, err)
	}

	if !strings.EqualFold(reply.Status, "success") {
		return nil, fmt.Errorf("%w: %s", domain.ErrPaymentDeclined, reply.Message)
	}

	if reply.Data.CheckoutURL == "" {
		return nil, fmt.Errorf("%w: initialize response missing checkout_url", domain.ErrGateway)
	}

	return &ports.CheckoutSession{
		CheckoutURL: reply.Data.CheckoutURL,
		Reference:   txRef,
	}, nil
}

// VerifyStatus polls the transaction status for a reference obtained at
// initiation and returns the normalized result.
func (c *Client) VerifyStatus(ctx context.Context, reference string) (*ports.VerifyResult, error) {
	if c.secretKey == "" {
		return nil, fmt.Errorf("%w: gateway secret key is not set", domain.ErrConfiguration)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, fmt.Errorf("verifyStatus: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	start := time.Now()
	resp, err := c.hc.Do(req)
	monitoring.TrackGatewayRequest("verify", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%w: verify request failed: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	var reply struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Status    string          `json:"status"`
			Reference string          `json:"reference"`
			Amount    decimal.Decimal `json:"amount"`
			Charge    decimal.Decimal `json:"charge"`
			Method    string          `json:"method"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("%w: verify decode: %v", domain.ErrGateway, err)
	}

	if !strings.EqualFold(reply.Status, "success") {
		return &ports.VerifyResult{Success: false, Message: reply.Message}, nil
	}

	status := strings.ToLower(reply.Data.Status)
	switch status {
	case ports.GatewayStatusSuccess, ports.GatewayStatusFailed, ports.GatewayStatusPending:
	default:
		status = ports.GatewayStatusPending
	}

	return &ports.VerifyResult{
		Success:        true,
		Status:         status,
		Reference:      reply.Data.Reference,
		Amount:         reply.Data.Amount,
		ReceivedAmount: reply.Data.Amount.Sub(reply.Data.Charge),
		Method:         reply.Data.Method,
		Message:        reply.Message,
	}, nil
}
