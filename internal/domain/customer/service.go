package customer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/xenking/order-capture/internal/domain/domainerr"
	"github.com/xenking/order-capture/internal/domain/order"
	"github.com/xenking/order-capture/internal/domain/product"
)

const instrumentationName = "github.com/xenking/order-capture/internal/domain/customer"

// ProductNotFoundError indicates an order referenced a product missing from
// the catalog.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// Unwrap makes errors.Is(err, product.ErrNotFound) hold.
func (e *ProductNotFoundError) Unwrap() error { return product.ErrNotFound }

// ItemRequest is a single requested cart line.
type ItemRequest struct {
	ProductID string
	Quantity  int
}

// PlaceOrderRequest holds the input for placing an order.
type PlaceOrderRequest struct {
	CustomerID   string
	Items        []ItemRequest
	DeliveryDate time.Time
	GiftWrap     bool
	// ShippingAddress overrides the customer's default address when set.
	ShippingAddress *order.Address
}

// CreateCustomerRequest holds the input for registering a customer.
type CreateCustomerRequest struct {
	Name    string
	Email   string
	Address order.Address
}

// ServiceConfig configures a Service. Zero values select wall clock time,
// random UUIDs and no-op telemetry.
type ServiceConfig struct {
	Now            Clock
	NewID          IDSource
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

func (cfg *ServiceConfig) setDefaults() {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = tracenoop.NewTracerProvider()
	}
	if cfg.MeterProvider == nil {
		cfg.MeterProvider = metricnoop.NewMeterProvider()
	}
}

// Service coordinates the catalog and customer repositories to place orders.
type Service struct {
	customers Repository
	products  product.Repository
	locks     *keyedMutex

	now   Clock
	newID IDSource

	tracer   trace.Tracer
	placed   metric.Int64Counter
	rejected metric.Int64Counter
}

// NewService creates a customer Service.
func NewService(cfg ServiceConfig, customers Repository, products product.Repository) (*Service, error) {
	cfg.setDefaults()
	meter := cfg.MeterProvider.Meter(instrumentationName)

	placed, err := meter.Int64Counter("orders.placed",
		metric.WithDescription("Number of orders placed"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "orders.placed counter")
	}
	rejected, err := meter.Int64Counter("orders.rejected",
		metric.WithDescription("Number of order placements refused by the domain"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "orders.rejected counter")
	}

	return &Service{
		customers: customers,
		products:  products,
		locks:     newKeyedMutex(),
		now:       cfg.Now,
		newID:     cfg.NewID,
		tracer:    cfg.TracerProvider.Tracer(instrumentationName),
		placed:    placed,
		rejected:  rejected,
	}, nil
}

func (s *Service) options() []Option {
	return []Option{WithClock(s.now), WithIDSource(s.newID)}
}

// CreateCustomer registers a new customer without orders.
func (s *Service) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	c, err := New(s.newID(), req.Name, strings.TrimSpace(req.Email), req.Address, s.options()...)
	if err != nil {
		return nil, err
	}
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, errors.Wrap(err, "create customer")
	}
	zctx.From(ctx).Info("Customer created", zap.String("customer_id", c.ID()))
	return c, nil
}

// GetCustomer returns the customer with its order history.
func (s *Service) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	c, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get customer")
	}
	return c, nil
}

// Orders returns the customer's orders, oldest first.
func (s *Service) Orders(ctx context.Context, customerID string) ([]*order.Order, error) {
	c, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return c.Orders(), nil
}

// PlaceOrder builds a cart from the requested items, snapshots it into an
// order and appends the order to the customer's history.
//
// Placements for the same customer are serialized. Nothing is persisted when
// any step fails.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (_ *order.Order, rerr error) {
	ctx, span := s.tracer.Start(ctx, "customer.PlaceOrder",
		trace.WithAttributes(
			attribute.String("customer.id", req.CustomerID),
			attribute.Int("order.items", len(req.Items)),
		),
	)
	defer func() {
		if rerr != nil {
			span.RecordError(rerr)
			span.SetStatus(codes.Error, rerr.Error())
		}
		span.End()
	}()

	lg := zctx.From(ctx).With(zap.String("customer_id", req.CustomerID))

	o, err := s.placeOrder(ctx, req)
	if err != nil {
		if isRejection(err) {
			s.rejected.Add(ctx, 1)
			lg.Warn("Order rejected", zap.Error(err))
		} else {
			lg.Error("Place order", zap.Error(err))
		}
		return nil, err
	}

	s.placed.Add(ctx, 1)
	span.SetAttributes(attribute.String("order.id", o.ID()))
	lg.Info("Order placed",
		zap.String("order_id", o.ID()),
		zap.Int("lines", o.Len()),
		zap.Stringer("total", o.Total()),
	)
	return o, nil
}

func (s *Service) placeOrder(ctx context.Context, req PlaceOrderRequest) (*order.Order, error) {
	unlock := s.locks.Lock(req.CustomerID)
	defer unlock()

	c, err := s.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, errors.Wrap(err, "get customer")
	}

	deliveryDate, err := order.NewDeliveryDate(req.DeliveryDate, s.now())
	if err != nil {
		return nil, err
	}

	cart, err := s.buildCart(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	address := c.Address()
	if req.ShippingAddress != nil {
		address = *req.ShippingAddress
	}

	o, err := c.PlaceOrder(cart, deliveryDate, req.GiftWrap, address)
	if err != nil {
		return nil, err
	}
	if err := s.customers.AppendOrder(ctx, c.ID(), o); err != nil {
		return nil, errors.Wrap(err, "append order")
	}
	return o, nil
}

// buildCart fetches every referenced product in one batch and adds the items
// in request order.
func (s *Service) buildCart(ctx context.Context, items []ItemRequest) (*order.Cart, error) {
	cart := order.NewCart()
	if len(items) == 0 {
		return cart, nil
	}

	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	byID := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	for _, req := range items {
		p, ok := byID[req.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: req.ProductID}
		}
		if !p.InStock {
			return nil, domainerr.InvalidOperation("add_item", fmt.Sprintf("product %s is out of stock", p.ID))
		}
		item, err := order.NewCartItem(p, req.Quantity)
		if err != nil {
			return nil, err
		}
		if err := cart.AddItem(item); err != nil {
			return nil, err
		}
	}
	return cart, nil
}

func isRejection(err error) bool {
	var notFound *ProductNotFoundError
	return errors.Is(err, domainerr.ErrInvalidValue) ||
		errors.Is(err, domainerr.ErrInvalidOperation) ||
		errors.Is(err, ErrNotFound) ||
		errors.As(err, &notFound)
}
