package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/exactmatch/storefront/internal/cart"
	"github.com/exactmatch/storefront/internal/orders"
	"github.com/exactmatch/storefront/pkg/config"
	"github.com/exactmatch/storefront/pkg/db/models"
	pkgerrors "github.com/exactmatch/storefront/pkg/errors"
	"github.com/exactmatch/storefront/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// cartStore is the slice of the cart the checkout flow needs.
type cartStore interface {
	Items() []cart.Item
	Clear(ctx context.Context)
}

// Service turns the current cart plus a submitted form into an archived
// order. Payment is simulated: the flow waits out a configured processing
// delay and then always succeeds, matching the M-Pesa placeholder the
// storefront ships with.
type Service interface {
	Submit(ctx context.Context, form Form) (*models.Order, error)
}

type service struct {
	cart     cartStore
	archive  orders.Service
	validate *validator.Validate
	logg     *logger.Logger

	required []string
	delay    time.Duration
}

// NewService builds the checkout service.
func NewService(cartStore cartStore, archive orders.Service, cfg config.CheckoutConfig, logg *logger.Logger) (Service, error) {
	if cartStore == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if archive == nil {
		return nil, fmt.Errorf("order archive required")
	}
	return &service{
		cart:     cartStore,
		archive:  archive,
		validate: validator.New(),
		logg:     logg,
		required: cfg.RequiredFields,
		delay:    cfg.ProcessingDelay,
	}, nil
}

// Submit validates the form against the configured required fields, runs the
// simulated payment, archives the order, and clears the cart. The cart is
// only cleared after the order is safely archived; any failure leaves it
// untouched so the shopper can retry. The order mirrors the cart as it stood
// when submission began: both the lines and the total come from the one
// snapshot taken here, so a mutation racing the payment delay cannot skew them.
func (s *service) Submit(ctx context.Context, form Form) (*models.Order, error) {
	items := s.cart.Items()
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	if details := s.formErrors(form); len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout form is incomplete").WithDetails(details)
	}

	if err := s.processPayment(ctx); err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: fmt.Sprintf("EM%d", time.Now().UnixMilli()),
		Name:        customerName(form),
		Email:       form.Email,
		Phone:       form.Phone,
		MpesaPhone:  form.MpesaPhone,
		Total:       linesTotal(items),
		Items:       orderLines(items),
	}

	saved, err := s.archive.Archive(ctx, order)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "archiving order failed", err)
		}
		return nil, err
	}

	s.cart.Clear(ctx)
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "order_number", saved.OrderNumber), "order placed")
	}
	return saved, nil
}

func (s *service) formErrors(form Form) map[string]string {
	details := map[string]string{}
	for _, field := range form.missing(s.required) {
		details[field] = "this field is required"
	}
	if form.Email != "" {
		if err := s.validate.Var(form.Email, "email"); err != nil {
			details[FieldEmail] = "must be a valid email address"
		}
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// processPayment stands in for the M-Pesa STK push round trip. It holds for
// the configured delay and fails only if the caller gives up first.
func (s *service) processPayment(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return pkgerrors.Wrap(pkgerrors.CodePayment, ctx.Err(), "payment interrupted")
	}
}

// customerName falls back to first/last name when the single-field variant
// of the form is left blank.
func customerName(form Form) string {
	if form.Name != "" {
		return form.Name
	}
	if form.FirstName == "" && form.LastName == "" {
		return ""
	}
	if form.FirstName == "" {
		return form.LastName
	}
	if form.LastName == "" {
		return form.FirstName
	}
	return form.FirstName + " " + form.LastName
}

// linesTotal sums unit price times quantity over the captured lines.
func linesTotal(items []cart.Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func orderLines(items []cart.Item) models.OrderItems {
	lines := make(models.OrderItems, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.OrderItem{
			ProductID: item.ID,
			Name:      item.Name,
			Brand:     item.Brand,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Specs:     item.Specs,
		})
	}
	return lines
}
