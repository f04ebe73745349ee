package dto

import (
	"vcardops/infras/gateway"

	"github.com/shopspring/decimal"
)

const (
	MessagePaymentSucceeded     = "Payment processed successfully"
	MessageVerificationRequired = "Additional verification required"
	MessageLinkCreated          = "Payment link created successfully"
)

type Card struct {
	CardNumber  string `json:"card_number"  validate:"required,numeric,min=12,max=19"`
	CVV         string `json:"cvv"          validate:"required,numeric,min=3,max=4"`
	ExpiryMonth string `json:"expiry_month" validate:"required,numeric,len=2"`
	ExpiryYear  string `json:"expiry_year"  validate:"required,numeric,min=2,max=4"`
}

type ChargeRequest struct {
	Amount        *decimal.Decimal `json:"amount"         validate:"required,money=positive"`
	Currency      string           `json:"currency"       validate:"required,iso4217"`
	Email         string           `json:"email"          validate:"required,email"`
	Card          Card             `json:"card"`
	ReservationID *int64           `json:"reservation_id" validate:"omitempty,gt=0"`
}

func (r *ChargeRequest) ToGateway() gateway.ChargeRequest {
	return gateway.ChargeRequest{
		Amount:   *r.Amount,
		Currency: r.Currency,
		Email:    r.Email,
		Card: gateway.Card{
			Number:      r.Card.CardNumber,
			CVV:         r.Card.CVV,
			ExpiryMonth: r.Card.ExpiryMonth,
			ExpiryYear:  r.Card.ExpiryYear,
		},
	}
}

type ChargeData struct {
	TransactionID string `json:"transactionId"`
	Reference     string `json:"reference"`
	RedirectURL   string `json:"redirectUrl,omitempty"`
	Status        string `json:"status"`
}

// ChargeResponse is returned for accepted charges, including those that
// still need issuer verification (Success false, Code set).
type ChargeResponse struct {
	Success bool       `json:"success"`
	Status  string     `json:"status"`
	Code    string     `json:"code,omitempty"`
	Message string     `json:"message,omitempty"`
	Data    ChargeData `json:"data"`
}

func (r *ChargeResponse) FromResult(res gateway.ChargeResult) {
	r.Data = ChargeData{
		TransactionID: res.TransactionID,
		Reference:     res.Reference,
		RedirectURL:   res.RedirectURL,
		Status:        res.Status,
	}

	if res.RequiresVerification {
		r.Status = "pending"
		r.Code = gateway.CodeRequiresVerification
		r.Message = MessageVerificationRequired

		return
	}

	r.Success = true
	r.Status = "success"
	r.Message = MessagePaymentSucceeded

	if res.Message != "" {
		r.Message = res.Message
	}
}

type LinkRequest struct {
	Amount        *decimal.Decimal `json:"amount"         validate:"required,money=positive"`
	Currency      string           `json:"currency"       validate:"required,iso4217"`
	Email         string           `json:"email"          validate:"omitempty,email"`
	Description   string           `json:"description"`
	ReservationID *int64           `json:"reservation_id" validate:"omitempty,gt=0"`
}

func (r *LinkRequest) ToGateway() gateway.LinkRequest {
	return gateway.LinkRequest{
		Amount:      *r.Amount,
		Currency:    r.Currency,
		Email:       r.Email,
		Description: r.Description,
	}
}

type LinkData struct {
	URL       string `json:"url"`
	Reference string `json:"reference"`
}

type LinkResponse struct {
	Success bool     `json:"success"`
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Data    LinkData `json:"data"`
}
