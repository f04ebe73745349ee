package dashboard

//go:generate go run go.uber.org/mock/mockgen -source=./client.go -destination=./mocks/api_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
	authDto "vcardops/internal/domains/auth/model/dto"
	hotelDto "vcardops/internal/domains/hotel/model/dto"
	paymentDto "vcardops/internal/domains/payment/model/dto"
	"vcardops/internal/domains/reservation/model/dto"
	txDto "vcardops/internal/domains/transaction/model/dto"
	"vcardops/shared/constant"

	"github.com/rs/zerolog/log"
)

const defaultTimeout = 30 * time.Second

// API is the slice of the REST surface the dashboard drives.
type API interface {
	Login(ctx context.Context, email, password string) error
	Reservations(ctx context.Context, chargeable bool) ([]dto.Reservation, error)
	Hotels(ctx context.Context) ([]hotelDto.Hotel, error)
	Transactions(ctx context.Context, reservationID int64) ([]txDto.Transaction, error)
	UpdateNotes(ctx context.Context, reservationID int64, notes string) (dto.UpdateNotesResponse, error)
	DoNotCharge(ctx context.Context, req txDto.DoNotChargeRequest) (txDto.CreateTransactionResponse, error)
	ManualPayment(ctx context.Context, req txDto.ManualPaymentRequest) (txDto.CreateTransactionResponse, error)
	Charge(ctx context.Context, gateway string, req paymentDto.ChargeRequest) (paymentDto.ChargeResponse, error)
	PaymentLink(ctx context.Context, gateway string, req paymentDto.LinkRequest) (paymentDto.LinkResponse, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string

	mu    sync.RWMutex
	token string
}

type ClientOption func(*Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithAPIKey(apiKey string) ClientOption {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	client := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

type tokenEnvelope struct {
	Data authDto.TokenResponse `json:"data"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Login exchanges credentials for an access token used by every later call.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var res tokenEnvelope

	err := c.do(ctx, http.MethodPost, "/api/auth/login", authDto.LoginRequest{Email: email, Password: password}, &res)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.token = res.Data.AccessToken
	c.mu.Unlock()

	return nil
}

func (c *Client) Reservations(ctx context.Context, chargeable bool) (res []dto.Reservation, err error) {
	path := "/api/reservations"
	if chargeable {
		path += "?" + url.Values{constant.RequestParamChargeable: {strconv.FormatBool(true)}}.Encode()
	}

	err = c.do(ctx, http.MethodGet, path, nil, &res)

	return res, err
}

func (c *Client) Hotels(ctx context.Context) (res []hotelDto.Hotel, err error) {
	err = c.do(ctx, http.MethodGet, "/api/hotels", nil, &res)

	return res, err
}

func (c *Client) Transactions(ctx context.Context, reservationID int64) (res []txDto.Transaction, err error) {
	err = c.do(ctx, http.MethodGet, "/api/reservations/"+strconv.FormatInt(reservationID, 10)+"/transactions", nil, &res)

	return res, err
}

func (c *Client) UpdateNotes(ctx context.Context, reservationID int64, notes string) (res dto.UpdateNotesResponse, err error) {
	err = c.do(ctx, http.MethodPost, "/api/cards/update-notes", dto.UpdateNotesRequest{CardID: reservationID, Notes: notes}, &res)

	return res, err
}

func (c *Client) DoNotCharge(ctx context.Context, req txDto.DoNotChargeRequest) (res txDto.CreateTransactionResponse, err error) {
	err = c.do(ctx, http.MethodPost, "/api/cards/do-not-charge", req, &res)

	return res, err
}

func (c *Client) ManualPayment(ctx context.Context, req txDto.ManualPaymentRequest) (res txDto.CreateTransactionResponse, err error) {
	err = c.do(ctx, http.MethodPost, "/api/cards/manual-payment", req, &res)

	return res, err
}

// Charge returns the gateway reply as is. A 200 with success false and
// code requires_verification is not an error at this level.
func (c *Client) Charge(ctx context.Context, gateway string, req paymentDto.ChargeRequest) (res paymentDto.ChargeResponse, err error) {
	err = c.do(ctx, http.MethodPost, "/api/process-payment/"+url.PathEscape(gateway), req, &res)

	return res, err
}

func (c *Client) PaymentLink(ctx context.Context, gateway string, req paymentDto.LinkRequest) (res paymentDto.LinkResponse, err error) {
	err = c.do(ctx, http.MethodPost, "/api/process-payment/"+url.PathEscape(gateway)+"/link", req, &res)

	return res, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	httpReq.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	if c.apiKey != "" {
		httpReq.Header.Set(constant.RequestHeaderAPIKey, c.apiKey)
	}

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()

	if token != "" {
		httpReq.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+token)
	}

	httpRes, err := c.httpClient.Do(httpReq)
	if err != nil {
		mapped := transportError(ctx, err)
		if !errors.Is(mapped, context.Canceled) {
			log.Warn().Err(err).Str("path", path).Msg("dashboard request failed")
		}

		return mapped
	}
	defer httpRes.Body.Close()

	raw, err := io.ReadAll(httpRes.Body)
	if err != nil {
		return transportError(ctx, err)
	}

	if httpRes.StatusCode >= http.StatusBadRequest {
		var errBody errorBody
		_ = json.Unmarshal(raw, &errBody)

		message := errBody.Message
		if message == "" {
			message = MessageGeneric
		}

		log.Debug().Int("status", httpRes.StatusCode).Str("path", path).Str("message", message).Msg("dashboard request rejected")

		return &APIError{
			Kind:    kindForStatus(httpRes.StatusCode),
			Status:  httpRes.StatusCode,
			Code:    errBody.Code,
			Message: message,
		}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	if err = json.Unmarshal(raw, out); err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to decode dashboard response")

		return &APIError{Kind: KindInternal, Status: httpRes.StatusCode, Message: MessageGeneric}
	}

	return nil
}
