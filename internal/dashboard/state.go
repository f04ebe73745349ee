package dashboard

import "github.com/shopspring/decimal"

type Tab string

const (
	TabInfo         Tab = "info"
	TabPayment      Tab = "payment"
	TabNotes        Tab = "notes"
	TabTransactions Tab = "transactions"
)

type MethodKind string

const (
	MethodGatewayCharge MethodKind = "gateway_charge"
	MethodManualPayment MethodKind = "manual_payment"
	MethodDoNotCharge   MethodKind = "do_not_charge"
	MethodSendLink      MethodKind = "send_link"
	MethodBankPortal    MethodKind = "bank_portal"
)

// Method is a payment sub-flow. Gateway is set for charges and links only.
type Method struct {
	Kind    MethodKind
	Gateway string
}

func GatewayCharge(gateway string) Method {
	return Method{Kind: MethodGatewayCharge, Gateway: gateway}
}

func SendLink(gateway string) Method {
	return Method{Kind: MethodSendLink, Gateway: gateway}
}

var (
	ManualPayment = Method{Kind: MethodManualPayment}
	DoNotCharge   = Method{Kind: MethodDoNotCharge}
	BankPortal    = Method{Kind: MethodBankPortal}
)

// State is the modal of a single reservation. Exactly one variant holds at a
// time: Closed, Browsing, MethodSelected, Confirming, Submitting or Failed.
type State interface {
	state()
}

type Closed struct{}

type Browsing struct {
	Tab Tab
}

type MethodSelected struct {
	Tab    Tab
	Method Method
}

// Confirming is reached only by do not charge and carries what staff must
// see before the irreversible call.
type Confirming struct {
	Method  Method
	Summary ConfirmSummary
}

type Submitting struct {
	Method Method
}

// Failed keeps the method selected and the form intact. Confirmed records
// whether do not charge had already passed its confirmation screen.
type Failed struct {
	Method    Method
	Err       error
	Confirmed bool
}

func (Closed) state()         {}
func (Browsing) state()       {}
func (MethodSelected) state() {}
func (Confirming) state()     {}
func (Submitting) state()     {}
func (Failed) state()         {}

type ConfirmSummary struct {
	ReservationID        int64
	ExpediaReservationID *int64
	GuestName            string
	Hotel                string
	CheckInDate          string
	Amount               decimal.Decimal
	Currency             string
	Status               string
}

// Form holds what staff typed in the payment tab.
type Form struct {
	Amount          decimal.Decimal
	Currency        string
	Email           string
	CardNumber      string
	Expiry          string
	CVV             string
	ReferenceNumber string
	PaymentMethod   string
	Notes           string
	Description     string
}
