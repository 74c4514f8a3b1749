//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/xenking/order-capture/internal/domain/customer"
	"github.com/xenking/order-capture/internal/domain/money"
	"github.com/xenking/order-capture/internal/domain/order"
	"github.com/xenking/order-capture/internal/domain/product"
	"github.com/xenking/order-capture/internal/fake"
	"github.com/xenking/order-capture/internal/storage/postgres"
)

func startPostgres(ctx context.Context) (*tcpostgres.PostgresContainer, string, error) {
	container, err := tcpostgres.Run(ctx, "postgres:17.6-alpine3.22",
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("container.ConnectionString: %w", err)
	}
	return container, connStr, nil
}

type storageSuite struct {
	suite.Suite

	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	products  *postgres.ProductRepository
	customers *postgres.CustomerRepository
	now       time.Time
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(storageSuite))
}

func (s *storageSuite) SetupSuite() {
	ctx := s.T().Context()

	var (
		connStr string
		err     error
	)
	s.container, connStr, err = startPostgres(ctx)
	s.Require().NoError(err)

	s.pool, err = postgres.NewPool(ctx, connStr)
	s.Require().NoError(err)
	s.Require().NoError(postgres.RunMigrations(ctx, s.pool))
	// Migrations are idempotent.
	s.Require().NoError(postgres.RunMigrations(ctx, s.pool))

	s.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s.products = postgres.NewProductRepository(s.pool, nil)
	s.customers = postgres.NewCustomerRepository(s.pool,
		customer.WithClock(func() time.Time { return s.now }),
	)
}

func (s *storageSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	s.NoError(testcontainers.TerminateContainer(s.container))
}

func (s *storageSuite) TearDownTest() {
	_, err := s.pool.Exec(context.Background(),
		`TRUNCATE order_lines, orders, customers, products`)
	s.NoError(err)
}

var productOpts = cmp.Options{
	cmp.Comparer(func(a, b money.Money) bool { return a.Equal(b) }),
	cmpopts.SortSlices(func(a, b product.Product) bool { return a.ID < b.ID }),
}

func (s *storageSuite) TestProducts() {
	ctx := s.T().Context()
	f := gofakeit.New(40)

	var want []product.Product
	for range 3 {
		p := fake.NewProduct(f)
		id, err := s.products.Create(ctx, p)
		s.Require().NoError(err)
		p.ID = id
		want = append(want, p)
	}

	got, err := s.products.List(ctx)
	s.Require().NoError(err)
	if diff := cmp.Diff(want, got, productOpts); diff != "" {
		s.Failf("List mismatch", "(-want +got):\n%s", diff)
	}

	one, err := s.products.GetByID(ctx, want[1].ID)
	s.Require().NoError(err)
	s.Equal(want[1].Name, one.Name)

	batch, err := s.products.GetByIDs(ctx, []string{want[0].ID, "missing", want[2].ID})
	s.Require().NoError(err)
	s.Len(batch, 2)

	s.Require().NoError(s.products.Delete(ctx, want[0].ID))
	s.ErrorIs(s.products.Delete(ctx, want[0].ID), product.ErrNotFound)
	_, err = s.products.GetByID(ctx, want[0].ID)
	s.ErrorIs(err, product.ErrNotFound)
}

func (s *storageSuite) TestCustomerOrders() {
	ctx := s.T().Context()
	f := gofakeit.New(41)

	c, err := customer.New(f.UUID(), f.Name(), f.Email(), fake.Address(f))
	s.Require().NoError(err)
	s.Require().NoError(s.customers.Create(ctx, c))
	s.ErrorIs(s.customers.Create(ctx, c), customer.ErrAlreadyExists)

	ps := fake.Products(f, 2)
	ps[0].Price = money.MustParse("3.10")
	ps[1].Price = money.MustParse("7.25")
	for _, p := range ps {
		s.Require().NoError(s.products.Upsert(ctx, p))
	}

	loaded, err := s.customers.GetByID(ctx, c.ID())
	s.Require().NoError(err)

	var placed []*order.Order
	for i := 1; i <= 2; i++ {
		cart := order.NewCart()
		for _, p := range ps {
			item, err := order.NewCartItem(p, i)
			s.Require().NoError(err)
			s.Require().NoError(cart.AddItem(item))
		}
		dd, err := order.NewDeliveryDate(s.now.Add(48*time.Hour), s.now)
		s.Require().NoError(err)

		o, err := loaded.PlaceOrder(cart, dd, i == 2, loaded.Address())
		s.Require().NoError(err)
		s.Require().NoError(s.customers.AppendOrder(ctx, c.ID(), o))
		placed = append(placed, o)
	}

	// Catalog changes do not reach placed orders.
	changed := ps[0]
	changed.Price = money.MustParse("99.00")
	s.Require().NoError(s.products.Upsert(ctx, changed))
	s.Require().NoError(s.products.Delete(ctx, ps[1].ID))

	reloaded, err := s.customers.GetByID(ctx, c.ID())
	s.Require().NoError(err)
	history := reloaded.Orders()
	s.Require().Len(history, 2)
	for i, o := range history {
		s.Equal(placed[i].ID(), o.ID())
		s.Equal(placed[i].GiftWrap(), o.GiftWrap())
		s.True(placed[i].DeliveryDate().Time().Equal(o.DeliveryDate().Time()))
		s.Equal(placed[i].Total().String(), o.Total().String())
		s.Require().Equal(2, o.Len())
		s.Equal(ps[0].ID, o.Lines()[0].ProductID())
		s.Equal("3.10", o.Lines()[0].UnitPrice().String())
		for j, l := range o.Lines() {
			s.Equal(placed[i].Lines()[j].LineTotal().String(), l.LineTotal().String())
		}
	}
	s.Equal("20.70", history[1].Total().String())

	s.ErrorIs(s.customers.AppendOrder(ctx, "ghost", placed[0]), customer.ErrNotFound)
	_, err = s.customers.GetByID(ctx, "ghost")
	s.ErrorIs(err, customer.ErrNotFound)
}
