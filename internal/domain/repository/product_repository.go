package repository

import "github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"

// ProductRepository define el puerto de persistencia del catálogo.
type ProductRepository interface {
	Create(product *entity.Product) error
	Update(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	List() ([]*entity.Product, error)
}
