package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"vcardops/config"
	"vcardops/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	flutterwaveStatusSuccess  = "success"
	flutterwaveRefPrefix      = "HOT-"
	flutterwaveDefaultMessage = "Payment processing failed"
	flutterwaveMaxRawMessage  = 512
)

type flutterwaveCharge struct {
	CardNumber  string      `json:"card_number"`
	CVV         string      `json:"cvv"`
	ExpiryMonth string      `json:"expiry_month"`
	ExpiryYear  string      `json:"expiry_year"`
	Currency    string      `json:"currency"`
	Amount      json.Number `json:"amount"`
	Email       string      `json:"email"`
	TxRef       string      `json:"tx_ref"`
	RedirectURL string      `json:"redirect_url,omitempty"`
}

type flutterwaveLink struct {
	TxRef       string      `json:"tx_ref"`
	Amount      json.Number `json:"amount"`
	Currency    string      `json:"currency"`
	RedirectURL string      `json:"redirect_url,omitempty"`
	Customer    struct {
		Email string `json:"email"`
	} `json:"customer"`
	Customizations struct {
		Title string `json:"title,omitempty"`
	} `json:"customizations"`
}

type flutterwaveResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		ID     json.Number `json:"id"`
		TxRef  string      `json:"tx_ref"`
		Status string      `json:"status"`
		Link   string      `json:"link"`
	} `json:"data"`
	Meta struct {
		Authorization struct {
			Mode     string `json:"mode"`
			Redirect string `json:"redirect"`
		} `json:"authorization"`
	} `json:"meta"`
}

type flutterwave struct {
	client      *http.Client
	encrypter   Encrypter
	baseURL     string
	secretKey   string
	redirectURL string
}

func NewFlutterwave(cfg *config.Config) (Gateway, error) {
	fwCfg := cfg.Gateway.Flutterwave

	encrypter, err := NewTripleDES(fwCfg.EncryptionKey)
	if err != nil {
		return nil, err
	}

	return &flutterwave{
		client:      &http.Client{Timeout: time.Duration(cfg.Gateway.TimeoutSeconds) * time.Second},
		encrypter:   encrypter,
		baseURL:     fwCfg.BaseURL,
		secretKey:   fwCfg.SecretKey,
		redirectURL: fwCfg.RedirectURL,
	}, nil
}

func (f *flutterwave) Name() string {
	return NameFlutterwave
}

func (f *flutterwave) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	payload, err := json.Marshal(flutterwaveCharge{
		CardNumber:  req.Card.Number,
		CVV:         req.Card.CVV,
		ExpiryMonth: req.Card.ExpiryMonth,
		ExpiryYear:  req.Card.ExpiryYear,
		Currency:    req.Currency,
		Amount:      json.Number(req.Amount.StringFixed(2)),
		Email:       req.Email,
		TxRef:       newTxRef(),
		RedirectURL: f.redirectURL,
	})
	if err != nil {
		return ChargeResult{}, fmt.Errorf("failed to marshal charge payload: %w", err)
	}

	sealed, err := f.encrypter.Encrypt(payload)
	if err != nil {
		return ChargeResult{}, fmt.Errorf("failed to encrypt charge payload: %w", err)
	}

	res, err := f.post(ctx, "/charges?type=card", map[string]string{"client": sealed})
	if err != nil {
		return ChargeResult{}, err
	}

	result := ChargeResult{
		TransactionID: res.Data.ID.String(),
		Reference:     res.Data.TxRef,
		Status:        res.Data.Status,
		Message:       res.Message,
	}

	if mode := res.Meta.Authorization.Mode; mode != "" {
		result.RequiresVerification = true
		result.RedirectURL = res.Meta.Authorization.Redirect
		result.Status = mode
	}

	return result, nil
}

func (f *flutterwave) PaymentLink(ctx context.Context, req LinkRequest) (LinkResult, error) {
	body := flutterwaveLink{
		TxRef:       newTxRef(),
		Amount:      json.Number(req.Amount.StringFixed(2)),
		Currency:    req.Currency,
		RedirectURL: f.redirectURL,
	}
	body.Customer.Email = req.Email
	body.Customizations.Title = req.Description

	res, err := f.post(ctx, "/payments", body)
	if err != nil {
		return LinkResult{}, err
	}

	return LinkResult{URL: res.Data.Link, Reference: body.TxRef}, nil
}

func (f *flutterwave) post(ctx context.Context, path string, body any) (*flutterwaveResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal flutterwave request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build flutterwave request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+f.secretKey)

	httpRes, err := f.client.Do(httpReq)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to call flutterwave")

		return nil, fmt.Errorf("failed to call flutterwave: %w", err)
	}
	defer httpRes.Body.Close()

	raw, err := io.ReadAll(httpRes.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read flutterwave response: %w", err)
	}

	if httpRes.StatusCode >= http.StatusInternalServerError {
		log.Error().Int("status", httpRes.StatusCode).Str("path", path).Msg("flutterwave returned server error")

		return nil, fmt.Errorf("flutterwave returned status %d", httpRes.StatusCode)
	}

	var res flutterwaveResponse
	if err = json.Unmarshal(raw, &res); err != nil {
		if httpRes.StatusCode >= http.StatusBadRequest {
			return nil, &RejectedError{Gateway: NameFlutterwave, Code: strconv.Itoa(httpRes.StatusCode), Message: rawMessage(raw)}
		}

		return nil, fmt.Errorf("failed to decode flutterwave response: %w", err)
	}

	if res.Status != flutterwaveStatusSuccess {
		message := res.Message
		if message == "" {
			message = flutterwaveDefaultMessage
		}

		return nil, &RejectedError{Gateway: NameFlutterwave, Code: res.Status, Message: message}
	}

	return &res, nil
}

// rawMessage relays a non-JSON refusal body, capped at
// flutterwaveMaxRawMessage bytes.
func rawMessage(raw []byte) string {
	if len(raw) > flutterwaveMaxRawMessage {
		raw = raw[:flutterwaveMaxRawMessage]
	}

	message := strings.TrimSpace(strings.ToValidUTF8(string(raw), ""))
	if message == "" {
		return flutterwaveDefaultMessage
	}

	return message
}

func newTxRef() string {
	return flutterwaveRefPrefix + strconv.FormatInt(timezone.Now().UnixMilli(), 10)
}
