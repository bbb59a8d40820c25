package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/orderstore/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
// ID позиций уникальны во всём хранилище, как первичный ключ order_items.
type orderRepositoryInMemory struct {
	mu         sync.RWMutex
	items      map[string]domain.Order
	itemOwners map[string]string // item id -> order id
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items:      make(map[string]domain.Order),
		itemOwners: make(map[string]string),
	}
}

// Create сохраняет новый заказ, если ID заказа и ID позиций ещё не заняты.
func (r *orderRepositoryInMemory) Create(_ context.Context, order domain.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID]; exists {
		return domain.ErrAlreadyExists
	}
	if err := r.checkItemIDs(order); err != nil {
		return err
	}
	// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
	r.items[order.ID] = order.Clone()
	r.claimItems(order)
	return nil
}

// Update перезаписывает заказ вместе с позициями.
func (r *orderRepositoryInMemory) Update(_ context.Context, order domain.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	previous, ok := r.items[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if err := r.checkItemIDs(order); err != nil {
		return err
	}

	for _, item := range previous.Items {
		delete(r.itemOwners, item.ID)
	}
	r.items[order.ID] = order.Clone()
	r.claimItems(order)
	return nil
}

// checkItemIDs отклоняет позиции, чей ID повторяется в заказе или принадлежит другому заказу.
func (r *orderRepositoryInMemory) checkItemIDs(order domain.Order) error {
	seen := make(map[string]struct{}, len(order.Items))
	for _, item := range order.Items {
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("%w: order item %s", domain.ErrAlreadyExists, item.ID)
		}
		seen[item.ID] = struct{}{}

		if owner, taken := r.itemOwners[item.ID]; taken && owner != order.ID {
			return fmt.Errorf("%w: order item %s", domain.ErrAlreadyExists, item.ID)
		}
	}
	return nil
}

func (r *orderRepositoryInMemory) claimItems(order domain.Order) {
	for _, item := range order.Items {
		r.itemOwners[item.ID] = order.ID
	}
}

// Find возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) Find(_ context.Context, id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order.Clone(), nil
}

// FindAll возвращает все заказы, отсортированные по ID.
func (r *orderRepositoryInMemory) FindAll(_ context.Context) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		result = append(result, order.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
