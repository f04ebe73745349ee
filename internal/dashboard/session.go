package dashboard

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"
	"vcardops/infras/gateway"
	paymentDto "vcardops/internal/domains/payment/model/dto"
	"vcardops/internal/domains/reservation/model/dto"
	txDto "vcardops/internal/domains/transaction/model/dto"
	"vcardops/shared/constant"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	NoticeDuration    = 3 * time.Second
	MessageNotesSaved = "Notes updated successfully"
	expirySeparator   = "/"
	schemeHTTP        = "http"
	schemeHTTPS       = "https"
)

var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)

// AfterFunc schedules f after d and returns a function that cancels it.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

func realAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Outcome is what a successful submission changed. Reservation is the
// locally patched copy; Reload asks the caller to refetch instead.
type Outcome struct {
	Method        Method
	Reservation   dto.Reservation
	TransactionID int64
	Charge        paymentDto.ChargeData
	Link          string
	PortalURL     string
	Reload        bool

	// patch applies the columns the action changed server-side.
	patch func(*dto.Reservation)
}

type Snapshot struct {
	State       State
	Reservation dto.Reservation
	Form        Form
	NotesDraft  string
	NotesSaving bool
	NotesErr    error
	Notice      string
}

// Session drives the action modal of one reservation at a time. API calls
// run without holding the lock; the Submitting state rejects a second
// submission until the first returns.
type Session struct {
	api       API
	afterFunc AfterFunc

	mu          sync.Mutex
	state       State
	reservation dto.Reservation
	form        Form
	notesDraft  string
	notesSaving bool
	notesErr    error
	notice      string
	noticeGen   int
	stopNotice  func() bool
}

type SessionOption func(*Session)

// WithAfterFunc replaces the timer used to clear the notes notice.
func WithAfterFunc(afterFunc AfterFunc) SessionOption {
	return func(s *Session) {
		s.afterFunc = afterFunc
	}
}

func NewSession(api API, opts ...SessionOption) *Session {
	session := &Session{
		api:       api,
		afterFunc: realAfterFunc,
		state:     Closed{},
	}

	for _, opt := range opts {
		opt(session)
	}

	return session
}

// Open shows res on the info tab with the notes draft and the default
// charge amount seeded from it.
func (s *Session) Open(res dto.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.(Submitting); ok {
		return ErrBusy
	}

	s.clearNotice()
	s.state = Browsing{Tab: TabInfo}
	s.reservation = res
	s.notesDraft = deref(res.Notes)
	s.notesSaving = false
	s.notesErr = nil
	s.form = seedForm(res)

	return nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.(Submitting); ok {
		return ErrBusy
	}

	s.clearNotice()
	s.state = Closed{}

	return nil
}

func (s *Session) SelectTab(tab Tab) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch st := s.state.(type) {
	case Closed:
		return ErrNotOpen
	case Submitting:
		return ErrBusy
	case Browsing:
		s.state = Browsing{Tab: tab}
	case MethodSelected:
		s.state = MethodSelected{Tab: tab, Method: st.Method}
	case Confirming:
		s.state = MethodSelected{Tab: tab, Method: st.Method}
	case Failed:
		s.state = MethodSelected{Tab: tab, Method: st.Method}
	}

	return nil
}

// SelectMethod enters a payment sub-flow. Switching methods drops any
// pending confirmation.
func (s *Session) SelectMethod(method Method) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state.(type) {
	case Closed:
		return ErrNotOpen
	case Submitting:
		return ErrBusy
	}

	s.state = MethodSelected{Tab: TabPayment, Method: method}

	return nil
}

// ClearMethod is the "back to payment methods" action.
func (s *Session) ClearMethod() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state.(type) {
	case Closed:
		return ErrNotOpen
	case Submitting:
		return ErrBusy
	}

	s.state = Browsing{Tab: TabPayment}

	return nil
}

func (s *Session) SetForm(form Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state.(type) {
	case Closed:
		return ErrNotOpen
	case Submitting:
		return ErrBusy
	}

	s.form = form

	return nil
}

func (s *Session) SetNotesDraft(notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.(Closed); ok {
		return ErrNotOpen
	}

	s.notesDraft = notes

	return nil
}

// CanConfirm reports whether the confirm control is enabled. Manual
// payments need a reference number first.
func (s *Session) CanConfirm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	method, _, err := s.pendingMethod()
	if err != nil {
		return false
	}

	if method.Kind == MethodManualPayment {
		return strings.TrimSpace(s.form.ReferenceNumber) != ""
	}

	return true
}

// Confirm moves do not charge to its confirmation screen and returns the
// fields to show on it.
func (s *Session) Confirm() (ConfirmSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.state.(Confirming); ok {
		return st.Summary, nil
	}

	method, _, err := s.pendingMethod()
	if err != nil {
		return ConfirmSummary{}, err
	}

	if method.Kind != MethodDoNotCharge {
		return ConfirmSummary{}, ErrNotConfirmable
	}

	summary := confirmSummary(s.reservation, s.form)
	s.state = Confirming{Method: method, Summary: summary}

	return summary, nil
}

// Submit runs the selected sub-flow. On success the modal closes and the
// patched reservation is returned; on failure the state becomes Failed with
// the method and form kept. A cancelled call returns to the pre-submission
// state without an error to show.
func (s *Session) Submit(ctx context.Context) (Outcome, error) {
	s.mu.Lock()

	method, confirmed, err := s.pendingMethod()
	if err != nil {
		s.mu.Unlock()

		return Outcome{}, err
	}

	if method.Kind == MethodDoNotCharge && !confirmed {
		s.mu.Unlock()

		return Outcome{}, ErrConfirmationRequired
	}

	if err = validate(method, s.reservation, s.form); err != nil {
		s.state = Failed{Method: method, Err: err, Confirmed: confirmed}
		s.mu.Unlock()

		return Outcome{}, err
	}

	if method.Kind == MethodBankPortal {
		defer s.mu.Unlock()

		portal, _ := portalURL(s.reservation)
		s.state = Closed{}

		return Outcome{Method: method, Reservation: s.reservation, PortalURL: portal}, nil
	}

	res, form := s.reservation, s.form
	s.state = Submitting{Method: method}
	s.mu.Unlock()

	outcome, err := s.dispatch(ctx, method, res, form)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.state = MethodSelected{Tab: TabPayment, Method: method}
			if confirmed {
				s.state = Confirming{Method: method, Summary: confirmSummary(res, form)}
			}

			return Outcome{}, err
		}

		log.Warn().Err(err).Int64("reservation_id", res.ID).Str("method", string(method.Kind)).Msg("reservation action failed")

		s.state = Failed{Method: method, Err: err, Confirmed: confirmed}

		return Outcome{}, err
	}

	// Notes may have been saved while the request was in flight, so only the
	// changed columns are folded into the current row.
	target := &outcome.Reservation
	if s.reservation.ID == res.ID {
		target = &s.reservation
	}

	if outcome.patch != nil {
		outcome.patch(target)
	}

	outcome.Reservation = *target
	s.state = Closed{}

	return outcome, nil
}

// SaveNotes writes the notes draft. It does not touch the payment sub-flow
// and may run while a payment is being submitted. On success a notice is
// shown for NoticeDuration.
func (s *Session) SaveNotes(ctx context.Context) error {
	s.mu.Lock()

	if _, ok := s.state.(Closed); ok {
		s.mu.Unlock()

		return ErrNotOpen
	}

	if s.notesSaving {
		s.mu.Unlock()

		return ErrBusy
	}

	id, draft := s.reservation.ID, s.notesDraft
	s.notesSaving = true
	s.notesErr = nil
	s.mu.Unlock()

	res, err := s.api.UpdateNotes(ctx, id, draft)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reservation.ID != id {
		return err
	}

	s.notesSaving = false

	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.notesErr = err
		}

		return err
	}

	notes := res.Notes
	s.reservation.Notes = &notes
	s.notesDraft = notes

	message := res.Message
	if message == "" {
		message = MessageNotesSaved
	}

	s.showNotice(message)

	return nil
}

// Transactions loads the ledger for the transactions tab.
func (s *Session) Transactions(ctx context.Context) ([]txDto.Transaction, error) {
	s.mu.Lock()

	if _, ok := s.state.(Closed); ok {
		s.mu.Unlock()

		return nil, ErrNotOpen
	}

	id := s.reservation.ID
	s.mu.Unlock()

	return s.api.Transactions(ctx, id)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		State:       s.state,
		Reservation: s.reservation,
		Form:        s.form,
		NotesDraft:  s.notesDraft,
		NotesSaving: s.notesSaving,
		NotesErr:    s.notesErr,
		Notice:      s.notice,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *Session) pendingMethod() (Method, bool, error) {
	switch st := s.state.(type) {
	case MethodSelected:
		return st.Method, false, nil
	case Confirming:
		return st.Method, true, nil
	case Failed:
		return st.Method, st.Confirmed, nil
	case Submitting:
		return Method{}, false, ErrBusy
	case Closed:
		return Method{}, false, ErrNotOpen
	default:
		return Method{}, false, ErrNoMethod
	}
}

func (s *Session) dispatch(ctx context.Context, method Method, res dto.Reservation, form Form) (Outcome, error) {
	outcome := Outcome{Method: method, Reservation: res}

	switch method.Kind {
	case MethodGatewayCharge:
		reply, err := s.api.Charge(ctx, method.Gateway, chargeRequest(res, form))
		if err != nil {
			return outcome, err
		}

		if reply.Code == gateway.CodeRequiresVerification {
			return outcome, &APIError{Kind: KindUpstream, Code: reply.Code, Message: MessageContactSupport}
		}

		if !reply.Success {
			return outcome, &APIError{Kind: KindUpstream, Code: reply.Code, Message: orGeneric(reply.Message)}
		}

		outcome.Charge = reply.Data
		outcome.Reload = true
	case MethodManualPayment:
		amount := form.Amount
		reply, err := s.api.ManualPayment(ctx, txDto.ManualPaymentRequest{
			ReservationID:   res.ID,
			AmountUSD:       &amount,
			Currency:        form.Currency,
			ReferenceNumber: strings.TrimSpace(form.ReferenceNumber),
			PaymentMethod:   form.PaymentMethod,
			Notes:           form.Notes,
		})
		if err != nil {
			return outcome, err
		}

		outcome.TransactionID = reply.TransactionID
		outcome.patch = func(row *dto.Reservation) {
			row.RemainingBalance = decrement(row.RemainingBalance, amount)
		}
	case MethodDoNotCharge:
		reply, err := s.api.DoNotCharge(ctx, doNotChargeRequest(res, form.Notes))
		if err != nil {
			return outcome, err
		}

		outcome.TransactionID = reply.TransactionID
		outcome.patch = func(row *dto.Reservation) {
			status := constant.StatusDoNotCharge
			row.Status = &status
		}
	case MethodSendLink:
		amount := form.Amount
		id := res.ID
		reply, err := s.api.PaymentLink(ctx, method.Gateway, paymentDto.LinkRequest{
			Amount:        &amount,
			Currency:      currencyOf(res, form),
			Email:         form.Email,
			Description:   form.Description,
			ReservationID: &id,
		})
		if err != nil {
			return outcome, err
		}

		outcome.Link = reply.Data.URL
	default:
		return outcome, ErrNoMethod
	}

	return outcome, nil
}

func (s *Session) showNotice(message string) {
	s.clearNotice()

	s.noticeGen++
	gen := s.noticeGen
	s.notice = message
	s.stopNotice = s.afterFunc(NoticeDuration, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.noticeGen == gen {
			s.notice = ""
			s.stopNotice = nil
		}
	})
}

func (s *Session) clearNotice() {
	if s.stopNotice != nil {
		s.stopNotice()
		s.stopNotice = nil
	}

	s.noticeGen++
	s.notice = ""
}

func validate(method Method, res dto.Reservation, form Form) error {
	switch method.Kind {
	case MethodGatewayCharge:
		if form.CardNumber == "" || form.Expiry == "" || form.CVV == "" {
			return validationError(MessageCardIncomplete)
		}

		if !expiryPattern.MatchString(form.Expiry) {
			return validationError(MessageExpiryMalformed)
		}

		if !form.Amount.IsPositive() {
			return validationError(MessageAmountInvalid)
		}
	case MethodManualPayment:
		if strings.TrimSpace(form.ReferenceNumber) == "" {
			return validationError(MessageReferenceMissing)
		}

		if form.Amount.IsNegative() {
			return validationError(MessageAmountInvalid)
		}
	case MethodSendLink:
		if !form.Amount.IsPositive() {
			return validationError(MessageAmountInvalid)
		}
	case MethodDoNotCharge:
		if res.ExpediaReservationID == nil {
			return validationError(MessageExpediaMissing)
		}
	case MethodBankPortal:
		_, err := portalURL(res)

		return err
	}

	return nil
}

// portalURL accepts fullSidePanelText only when it is an absolute http(s)
// URL. For most sources the field holds scraped text instead.
func portalURL(res dto.Reservation) (string, error) {
	text := strings.TrimSpace(deref(res.FullSidePanelText))

	parsed, err := url.ParseRequestURI(text)
	if err != nil || parsed.Host == "" || (parsed.Scheme != schemeHTTP && parsed.Scheme != schemeHTTPS) {
		return "", validationError(MessagePortalMissing)
	}

	return parsed.String(), nil
}

func chargeRequest(res dto.Reservation, form Form) paymentDto.ChargeRequest {
	amount := form.Amount
	id := res.ID
	month, year, _ := strings.Cut(form.Expiry, expirySeparator)

	return paymentDto.ChargeRequest{
		Amount:   &amount,
		Currency: currencyOf(res, form),
		Email:    form.Email,
		Card: paymentDto.Card{
			CardNumber:  strings.ReplaceAll(form.CardNumber, " ", ""),
			CVV:         form.CVV,
			ExpiryMonth: month,
			ExpiryYear:  year,
		},
		ReservationID: &id,
	}
}

// doNotChargeRequest writes off the whole remaining balance.
func doNotChargeRequest(res dto.Reservation, notes string) txDto.DoNotChargeRequest {
	amount := decimal.Zero
	if res.RemainingBalance != nil {
		amount = *res.RemainingBalance
	}

	return txDto.DoNotChargeRequest{
		ReservationID:        res.ID,
		AmountUSD:            &amount,
		PaymentChannel:       constant.PaymentChannelDoNotCharge,
		ExpediaReservationID: res.ExpediaReservationID,
		TypeOfTransaction:    constant.TransactionTypeDoNotCharge,
		Notes:                notes,
	}
}

func confirmSummary(res dto.Reservation, form Form) ConfirmSummary {
	amount := decimal.Zero
	if res.RemainingBalance != nil {
		amount = *res.RemainingBalance
	}

	return ConfirmSummary{
		ReservationID:        res.ID,
		ExpediaReservationID: res.ExpediaReservationID,
		GuestName:            deref(res.GuestName),
		Hotel:                deref(res.Hotel),
		CheckInDate:          deref(res.CheckInDate),
		Amount:               amount,
		Currency:             currencyOf(res, form),
		Status:               deref(res.Status),
	}
}

func seedForm(res dto.Reservation) Form {
	form := Form{
		Currency:   res.Currency,
		CardNumber: deref(res.CardNumber),
		Expiry:     deref(res.ExpirationDate),
		CVV:        deref(res.CVV),
	}

	if res.RemainingBalance != nil {
		form.Amount = *res.RemainingBalance
	}

	return form
}

func currencyOf(res dto.Reservation, form Form) string {
	switch {
	case form.Currency != "":
		return form.Currency
	case res.Currency != "":
		return res.Currency
	default:
		return constant.DefaultCurrency
	}
}

// decrement never takes a balance below zero.
func decrement(balance *decimal.Decimal, amount decimal.Decimal) *decimal.Decimal {
	current := decimal.Zero
	if balance != nil {
		current = *balance
	}

	next := decimal.Max(current.Sub(amount), decimal.Zero)

	return &next
}

func orGeneric(message string) string {
	if message == "" {
		return MessageGeneric
	}

	return message
}

func deref(value *string) string {
	if value == nil {
		return ""
	}

	return *value
}
