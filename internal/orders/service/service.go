package service

import (
	"storefront-system/internal/orders/repository"
)

type Service struct {
	OrderService OrderServiceInterface
}

func New(repo *repository.Repository) *Service {
	return &Service{
		OrderService: NewOrderService(repo.OrderRepo),
	}
}
