package memory

// Store bundles the in-memory repositories owned by the composition root.
type Store struct {
	Orders   *OrderRepository
	Events   *OrderEventRepository
	Couriers *CourierRepository
	Users    *UserRepository
}

func New() *Store {
	return &Store{
		Orders:   NewOrderRepository(),
		Events:   NewOrderEventRepository(),
		Couriers: NewCourierRepository(),
		Users:    NewUserRepository(),
	}
}
