package repository

import (
	"time"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
)

// WorkdayRepository define el puerto de persistencia de jornadas.
// GetOpen devuelve nil (sin error) cuando no hay jornada abierta.
type WorkdayRepository interface {
	Create(workday *entity.Workday) error
	Update(workday *entity.Workday) error
	GetOpen() (*entity.Workday, error)
	GetByDate(date time.Time) (*entity.Workday, error)
	List(limit int) ([]*entity.Workday, error)
}

// UserRepository define el puerto de persistencia de usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}
