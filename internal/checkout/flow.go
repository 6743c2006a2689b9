// Package checkout implements the 4-step checkout flow. The draft lives
// only for the duration of the flow: it is never persisted and is
// discarded when the session starts a new checkout.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vitrine/storefront/internal/domain"
	"github.com/vitrine/storefront/internal/store"
)

// Step is strictly linear: shipping-info → shipping-method → payment →
// confirmation. Back navigation never loses entered data.
type Step int

const (
	StepShippingInfo Step = iota + 1
	StepShippingMethod
	StepPayment
	StepConfirmation
)

func (s Step) String() string {
	switch s {
	case StepShippingInfo:
		return "shipping-info"
	case StepShippingMethod:
		return "shipping-method"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	default:
		return "unknown"
	}
}

type ShippingMethod struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	ETA   string `json:"eta"`
}

// ShippingMethods are the three flat-fee tiers. Prices are minor units.
var ShippingMethods = []ShippingMethod{
	{ID: "standard", Name: "Entrega Padrão", Price: 1990, ETA: "4-7 dias úteis"},
	{ID: "express", Name: "Entrega Expressa", Price: 2990, ETA: "2-3 dias úteis"},
	{ID: "same-day", Name: "Entrega no Mesmo Dia", Price: 3990, ETA: "Hoje, se pedido até às 12h"},
}

func shippingMethodByID(id string) (ShippingMethod, bool) {
	for _, m := range ShippingMethods {
		if m.ID == id {
			return m, true
		}
	}
	return ShippingMethod{}, false
}

type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit-card"
	PaymentBankSlip   PaymentMethod = "bank-slip"
	PaymentPix        PaymentMethod = "pix"
)

type CardDetails struct {
	Number string `json:"number"`
	Name   string `json:"name"`
	Expiry string `json:"expiry"`
	CVC    string `json:"cvc"`
}

// Draft is the transient checkout state.
type Draft struct {
	Email            string         `json:"email"`
	ShippingAddress  domain.Address `json:"shipping_address"`
	BillingAddress   domain.Address `json:"billing_address"`
	UseSameAddress   bool           `json:"use_same_address"`
	ShippingMethodID string         `json:"shipping_method_id"`
	PaymentMethod    PaymentMethod  `json:"payment_method"`
	Card             CardDetails    `json:"-"`
	SavePaymentInfo  bool           `json:"save_payment_info"`
	AcceptTerms      bool           `json:"accept_terms"`
}

// ValidationError is surfaced to the user as a notification; it never
// reaches the backend.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	errMissingShipping = &ValidationError{Message: "Por favor, preencha todos os campos obrigatórios."}
	errMissingCard     = &ValidationError{Message: "Por favor, preencha todos os campos do cartão de crédito."}
	errTermsRequired   = &ValidationError{Message: "Por favor, aceite os termos e condições para continuar."}
	errUnknownShipping = &ValidationError{Message: "Método de entrega inválido."}
	errBusy            = &ValidationError{Message: "Seu pedido já está sendo processado."}
)

// Backend is the checkout slice of the commerce API.
type Backend interface {
	SetShippingAddress(ctx context.Context, cartID string, addr domain.Address) (*domain.Cart, error)
	CompleteCheckout(ctx context.Context, cartID string) (*domain.Order, error)
}

type Snapshot struct {
	Step        Step             `json:"step"`
	StepName    string           `json:"step_name"`
	Draft       Draft            `json:"draft"`
	Processing  bool             `json:"processing"`
	Subtotal    int64            `json:"subtotal"`
	ShippingFee int64            `json:"shipping_fee"`
	Total       int64            `json:"total"`
	Methods     []ShippingMethod `json:"shipping_methods"`
	Order       *domain.Order    `json:"order,omitempty"`
}

// Flow owns one checkout attempt for one cart.
type Flow struct {
	mu      sync.Mutex
	backend Backend
	cart    *store.CartStore
	log     *slog.Logger

	// processingDelay mimics the payment gateway round trip; sleep is
	// injectable for tests.
	processingDelay time.Duration
	sleep           func(time.Duration)

	step       Step
	draft      Draft
	processing bool
	order      *domain.Order
}

func NewFlow(b Backend, cart *store.CartStore, processingDelay time.Duration, log *slog.Logger) *Flow {
	return &Flow{
		backend:         b,
		cart:            cart,
		log:             log,
		processingDelay: processingDelay,
		sleep:           time.Sleep,
		step:            StepShippingInfo,
		draft: Draft{
			UseSameAddress:   true,
			ShippingMethodID: "standard",
			PaymentMethod:    PaymentCreditCard,
			ShippingAddress:  domain.Address{CountryCode: "BR"},
			BillingAddress:   domain.Address{CountryCode: "BR"},
		},
	}
}

// SubmitShippingInfo validates step 1 and advances to shipping-method.
// Email and every shipping field except the pre-filled country are
// required.
func (f *Flow) SubmitShippingInfo(email string, shipping domain.Address, useSameAddress bool, billing domain.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if email == "" || shipping.FirstName == "" || shipping.LastName == "" ||
		shipping.Address == "" || shipping.City == "" || shipping.Province == "" ||
		shipping.PostalCode == "" || shipping.Phone == "" {
		return errMissingShipping
	}

	if shipping.CountryCode == "" {
		shipping.CountryCode = "BR"
	}
	if useSameAddress {
		billing = shipping
	}

	f.draft.Email = email
	f.draft.ShippingAddress = shipping
	f.draft.BillingAddress = billing
	f.draft.UseSameAddress = useSameAddress

	if f.step == StepShippingInfo {
		f.step = StepShippingMethod
	}
	return nil
}

// SubmitShippingMethod records the tier and advances to payment. Step 2
// has no required free-form fields; only the tier must exist.
func (f *Flow) SubmitShippingMethod(methodID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := shippingMethodByID(methodID); !ok {
		return errUnknownShipping
	}

	f.draft.ShippingMethodID = methodID
	if f.step == StepShippingMethod {
		f.step = StepPayment
	}
	return nil
}

// SubmitPayment validates step 3, runs the simulated processing delay,
// then pushes the shipping address and completes the cart through the
// backend. The processing flag is the only re-entrancy guard; there is
// no idempotency key.
func (f *Flow) SubmitPayment(ctx context.Context, method PaymentMethod, card CardDetails, savePaymentInfo, acceptTerms bool) error {
	f.mu.Lock()
	if f.processing {
		f.mu.Unlock()
		return errBusy
	}

	if method == PaymentCreditCard {
		if card.Number == "" || card.Name == "" || card.Expiry == "" || card.CVC == "" {
			f.mu.Unlock()
			return errMissingCard
		}
	}
	if !acceptTerms {
		f.mu.Unlock()
		return errTermsRequired
	}

	f.draft.PaymentMethod = method
	f.draft.Card = card
	f.draft.SavePaymentInfo = savePaymentInfo
	f.draft.AcceptTerms = acceptTerms
	f.processing = true

	cartID := f.cart.Snapshot().CartID
	shipping := f.draft.ShippingAddress
	delay := f.processingDelay
	sleep := f.sleep
	f.mu.Unlock()

	sleep(delay)

	err := f.complete(ctx, cartID, shipping)

	f.mu.Lock()
	f.processing = false
	if err == nil {
		f.step = StepConfirmation
	}
	f.mu.Unlock()

	return err
}

func (f *Flow) complete(ctx context.Context, cartID string, shipping domain.Address) error {
	if _, err := f.backend.SetShippingAddress(ctx, cartID, shipping); err != nil {
		f.log.Error("failed to set shipping address", "cart_id", cartID, "error", err)
		return fmt.Errorf("set shipping address: %w", err)
	}

	order, err := f.backend.CompleteCheckout(ctx, cartID)
	if err != nil {
		f.log.Error("failed to complete checkout", "cart_id", cartID, "error", err)
		return fmt.Errorf("complete checkout: %w", err)
	}

	f.mu.Lock()
	f.order = order
	f.mu.Unlock()
	return nil
}

// Back steps backwards without touching the draft.
func (f *Flow) Back() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step > StepShippingInfo && f.step < StepConfirmation {
		f.step--
	}
}

// Total is the server-reported subtotal plus the selected tier's flat
// fee. No tax, no discounts.
func (f *Flow) Total() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.totalLocked()
}

func (f *Flow) totalLocked() int64 {
	subtotal := f.cart.Snapshot().Subtotal
	method, ok := shippingMethodByID(f.draft.ShippingMethodID)
	if !ok {
		return subtotal
	}
	return subtotal + method.Price
}

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	var fee int64
	if method, ok := shippingMethodByID(f.draft.ShippingMethodID); ok {
		fee = method.Price
	}

	return Snapshot{
		Step:        f.step,
		StepName:    f.step.String(),
		Draft:       f.draft,
		Processing:  f.processing,
		Subtotal:    f.cart.Snapshot().Subtotal,
		ShippingFee: fee,
		Total:       f.totalLocked(),
		Methods:     ShippingMethods,
		Order:       f.order,
	}
}
