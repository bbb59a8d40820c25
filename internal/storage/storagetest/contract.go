// Package storagetest содержит общие проверки контракта репозиториев,
// которые прогоняются для каждой реализации хранилища.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/orderstore/internal/domain"
)

// Repositories — набор репозиториев одной реализации хранилища.
type Repositories struct {
	Customers domain.CustomerRepository
	Products  domain.ProductRepository
	Orders    domain.OrderRepository
}

// Factory создаёт пустое хранилище для каждого теста.
type Factory func(t *testing.T) Repositories

// ContractSuite проверяет поведение репозиториев, общее для всех реализаций.
type ContractSuite struct {
	suite.Suite

	// NewRepositories вызывается перед каждым тестом.
	NewRepositories Factory
	// EnforcesReferences включает проверки внешних ключей (только для реляционных хранилищ).
	EnforcesReferences bool

	repos Repositories
	ctx   context.Context
}

func (s *ContractSuite) SetupTest() {
	s.Require().NotNil(s.NewRepositories, "NewRepositories must be set")
	s.repos = s.NewRepositories(s.T())
	s.ctx = context.Background()
}

// seedCustomer сохраняет клиента с адресом.
func (s *ContractSuite) seedCustomer(id, name string) domain.Customer {
	customer, err := domain.NewCustomer(id, name)
	s.Require().NoError(err)
	addr, err := domain.NewAddress("Rua 1", 108, "19260000", "Mirante")
	s.Require().NoError(err)
	customer.ChangeAddress(addr)

	s.Require().NoError(s.repos.Customers.Create(s.ctx, customer))
	return customer
}

func (s *ContractSuite) seedProduct(id, name string, priceMinor int64) domain.Product {
	product, err := domain.NewProduct(id, name, priceMinor)
	s.Require().NoError(err)

	s.Require().NoError(s.repos.Products.Create(s.ctx, product))
	return product
}

func (s *ContractSuite) newOrder(id, customerID string, items ...domain.OrderItem) domain.Order {
	order, err := domain.NewOrder(id, customerID, items)
	s.Require().NoError(err)
	return order
}

func (s *ContractSuite) newItem(id string, product domain.Product, quantity int32) domain.OrderItem {
	item, err := domain.NewOrderItem(id, product.Name, product.PriceMinor, product.ID, quantity)
	s.Require().NoError(err)
	return item
}

func (s *ContractSuite) TestOrder_CreateAndFind() {
	customer := s.seedCustomer("123", "Carlos Henrique")
	product := s.seedProduct("123", "Produto 1", 10)

	order := s.newOrder("123", customer.ID, s.newItem("1", product, 2))
	s.Require().NoError(s.repos.Orders.Create(s.ctx, order))

	got, err := s.repos.Orders.Find(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(order, got)
	s.Equal(int64(20), got.Total())
}

func (s *ContractSuite) TestOrder_FindMissing() {
	_, err := s.repos.Orders.Find(s.ctx, "456ABC")
	s.Require().ErrorIs(err, domain.ErrOrderNotFound)
	s.EqualError(err, "order not found")
}

func (s *ContractSuite) TestOrder_FindAll() {
	customer := s.seedCustomer("123", "Carlos Henrique")
	product := s.seedProduct("123", "Produto 1", 10)

	order1 := s.newOrder("123", customer.ID, s.newItem("1", product, 2))
	order2 := s.newOrder("124", customer.ID, s.newItem("2", product, 10))
	s.Require().NoError(s.repos.Orders.Create(s.ctx, order1))
	s.Require().NoError(s.repos.Orders.Create(s.ctx, order2))

	orders, err := s.repos.Orders.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Len(orders, 2)
	s.ElementsMatch([]domain.Order{order1, order2}, orders)
}

func (s *ContractSuite) TestOrder_FindAllEmpty() {
	orders, err := s.repos.Orders.FindAll(s.ctx)
	s.Require().NoError(err)
	s.NotNil(orders)
	s.Empty(orders)
}

func (s *ContractSuite) TestOrder_ItemsKeepInsertionOrder() {
	customer := s.seedCustomer("123", "Carlos Henrique")
	product1 := s.seedProduct("p-1", "Produto 1", 10)
	product2 := s.seedProduct("p-2", "Produto 2", 35)

	order := s.newOrder("123", customer.ID,
		s.newItem("z-item", product2, 1),
		s.newItem("a-item", product1, 3),
		s.newItem("m-item", product2, 2),
	)
	s.Require().NoError(s.repos.Orders.Create(s.ctx, order))

	got, err := s.repos.Orders.Find(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(order.Items, got.Items)
	s.Equal(int64(10*3+35*3), got.Total())
}

func (s *ContractSuite) TestOrder_Update() {
	customer := s.seedCustomer("123", "Carlos Henrique")
	customer2 := s.seedCustomer("124", "Amarildo Carlos")
	product := s.seedProduct("123", "Produto 1", 10)

	order := s.newOrder("123", customer.ID, s.newItem("1", product, 2))
	s.Require().NoError(s.repos.Orders.Create(s.ctx, order))

	s.Require().NoError(order.ChangeCustomer(customer2.ID))
	s.Require().NoError(order.AddItem(s.newItem("2", product, 5)))
	s.Require().NoError(s.repos.Orders.Update(s.ctx, order))

	got, err := s.repos.Orders.Find(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(order, got)
	s.Equal(customer2.ID, got.CustomerID)
	s.Equal(int64(70), got.Total())
}

func (s *ContractSuite) TestOrder_UpdateMissing() {
	customer := s.seedCustomer("123", "Carlos Henrique")
	product := s.seedProduct("123", "Produto 1", 10)

	order := s.newOrder("missing", customer.ID, s.newItem("1", product, 1))
	s.Require().ErrorIs(s.repos.Orders.Update(s.ctx, order), domain.ErrOrderNotFound)
}

func (s *ContractSuite) TestOrder_CreateDuplicate() {
	customer := s.seedCustomer("123", "Carlos Henrique")
	product := s.seedProduct("123", "Produto 1", 10)

	order := s.newOrder("123", customer.ID, s.newItem("1", product, 2))
	s.Require().NoError(s.repos.Orders.Create(s.ctx, order))

	dup := s.newOrder("123", customer.ID, s.newItem("99", product, 1))
	s.Require().ErrorIs(s.repos.Orders.Create(s.ctx, dup), domain.ErrAlreadyExists)
}

func (s *ContractSuite) TestOrder_CreateDuplicateItemID() {
	customer := s.seedCustomer("123", "Carlos Henrique")
	product := s.seedProduct("123", "Produto 1", 10)

	order := s.newOrder("123", customer.ID, s.newItem("1", product, 2))
	s.Require().NoError(s.repos.Orders.Create(s.ctx, order))

	// ID позиции уникален во всём хранилище, а не только внутри заказа.
	other := s.newOrder("124", customer.ID, s.newItem("1", product, 1))
	s.Require().ErrorIs(s.repos.Orders.Create(s.ctx, other), domain.ErrAlreadyExists)

	_, err := s.repos.Orders.Find(s.ctx, other.ID)
	s.Require().ErrorIs(err, domain.ErrOrderNotFound)

	got, err := s.repos.Orders.Find(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(order, got)
}

func (s *ContractSuite) TestOrder_UpdateReplacesItems() {
	customer := s.seedCustomer("123", "Carlos Henrique")
	product1 := s.seedProduct("p-1", "Produto 1", 10)
	product2 := s.seedProduct("p-2", "Produto 2", 35)

	order := s.newOrder("123", customer.ID,
		s.newItem("1", product1, 2),
		s.newItem("2", product2, 1),
	)
	s.Require().NoError(s.repos.Orders.Create(s.ctx, order))

	// Позиция 1 удалена, у позиции 2 изменились количество и цена.
	changed, err := domain.NewOrderItem("2", product2.Name, 40, product2.ID, 4)
	s.Require().NoError(err)
	order.Items = []domain.OrderItem{changed}
	s.Require().NoError(s.repos.Orders.Update(s.ctx, order))

	got, err := s.repos.Orders.Find(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(order, got)
	s.Require().Len(got.Items, 1)
	s.Equal(changed, got.Items[0])
	s.Equal(int64(160), got.Total())

	orders, err := s.repos.Orders.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(orders, 1)
	s.Equal([]domain.OrderItem{changed}, orders[0].Items)
}

func (s *ContractSuite) TestOrder_RejectsInvalidOrder() {
	customer := s.seedCustomer("123", "Carlos Henrique")
	product := s.seedProduct("123", "Produto 1", 10)

	order := s.newOrder("123", customer.ID, s.newItem("1", product, 2))
	s.Require().NoError(s.repos.Orders.Create(s.ctx, order))

	// Заказ без позиций не записывается, хранимая версия остаётся прежней.
	emptied := order
	emptied.Items = nil
	s.Require().ErrorIs(s.repos.Orders.Update(s.ctx, emptied), domain.ErrItemsRequired)

	got, err := s.repos.Orders.Find(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(order, got)

	// Позиции с отрицательными количеством и ценой собраны в обход конструктора.
	broken := domain.Order{
		ID:         "124",
		CustomerID: customer.ID,
		Items: []domain.OrderItem{
			{ID: "2", Name: product.Name, PriceMinor: -1, ProductID: product.ID, Quantity: -3},
		},
	}
	err = s.repos.Orders.Create(s.ctx, broken)
	s.Require().ErrorIs(err, domain.ErrItemQtyInvalid)
	s.Require().ErrorIs(err, domain.ErrItemPriceInvalid)

	_, err = s.repos.Orders.Find(s.ctx, broken.ID)
	s.Require().ErrorIs(err, domain.ErrOrderNotFound)
}

func (s *ContractSuite) TestOrder_CreateRejectedByReferences() {
	if !s.EnforcesReferences {
		s.T().Skip("storage does not enforce references")
	}
	product := s.seedProduct("123", "Produto 1", 10)

	order := s.newOrder("123", "no-such-customer", s.newItem("1", product, 2))
	s.Require().Error(s.repos.Orders.Create(s.ctx, order))

	// Запись составная: ни заказ, ни позиции не должны остаться.
	orders, err := s.repos.Orders.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(orders)
}

func (s *ContractSuite) TestCustomer_CreateFindUpdate() {
	customer := s.seedCustomer("123", "Carlos Henrique")

	got, err := s.repos.Customers.Find(s.ctx, customer.ID)
	s.Require().NoError(err)
	s.Equal(customer, got)

	s.Require().NoError(got.ChangeName("Carlos H."))
	s.Require().NoError(got.Activate())
	s.Require().NoError(s.repos.Customers.Update(s.ctx, got))

	updated, err := s.repos.Customers.Find(s.ctx, customer.ID)
	s.Require().NoError(err)
	s.Equal(got, updated)
	s.True(updated.IsActive())
}

func (s *ContractSuite) TestCustomer_Errors() {
	_, err := s.repos.Customers.Find(s.ctx, "missing")
	s.Require().ErrorIs(err, domain.ErrCustomerNotFound)

	ghost := domain.Customer{ID: "ghost", Name: "Ghost"}
	s.Require().ErrorIs(s.repos.Customers.Update(s.ctx, ghost), domain.ErrCustomerNotFound)

	s.seedCustomer("123", "Carlos Henrique")
	dup := domain.Customer{ID: "123", Name: "Other"}
	s.Require().ErrorIs(s.repos.Customers.Create(s.ctx, dup), domain.ErrAlreadyExists)
}

func (s *ContractSuite) TestCustomer_FindAll() {
	c1 := s.seedCustomer("123", "Carlos Henrique")
	c2 := s.seedCustomer("124", "Amarildo Carlos")

	customers, err := s.repos.Customers.FindAll(s.ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]domain.Customer{c1, c2}, customers)
}

func (s *ContractSuite) TestProduct_CreateFindUpdate() {
	product := s.seedProduct("123", "Produto 1", 10)

	got, err := s.repos.Products.Find(s.ctx, product.ID)
	s.Require().NoError(err)
	s.Equal(product, got)

	s.Require().NoError(got.ChangePrice(25))
	s.Require().NoError(got.ChangeName("Produto 1 v2"))
	s.Require().NoError(s.repos.Products.Update(s.ctx, got))

	updated, err := s.repos.Products.Find(s.ctx, product.ID)
	s.Require().NoError(err)
	s.Equal(got, updated)
}

func (s *ContractSuite) TestProduct_ErrorsAndFindAll() {
	_, err := s.repos.Products.Find(s.ctx, "missing")
	s.Require().ErrorIs(err, domain.ErrProductNotFound)
	s.Require().ErrorIs(s.repos.Products.Update(s.ctx, domain.Product{ID: "missing", Name: "x"}), domain.ErrProductNotFound)

	p1 := s.seedProduct("123", "Produto 1", 10)
	p2 := s.seedProduct("124", "Produto 2", 20)

	products, err := s.repos.Products.FindAll(s.ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]domain.Product{p1, p2}, products)
}
