package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/repository"
)

var _ repository.WorkdayRepository = (*WorkdayRepo)(nil)

// WorkdayRepo implementación de WorkdayRepository (usable con pool o tx).
// El índice único parcial sobre status = 'open' garantiza una sola
// jornada abierta aunque dos procesos intenten abrir a la vez.
type WorkdayRepo struct {
	q Querier
}

// NewWorkdayRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkdayRepository(q Querier) *WorkdayRepo {
	return &WorkdayRepo{q: q}
}

const workdayColumns = `id, date, status, opened_by, opened_at, closed_by, closed_at`

// Create persiste una jornada.
func (r *WorkdayRepo) Create(workday *entity.Workday) error {
	query := `
		INSERT INTO workdays (id, date, status, opened_by, opened_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		workday.ID, workday.Date, workday.Status, workday.OpenedBy, workday.OpenedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert workday: %w", err)
	}
	return nil
}

// Update actualiza una jornada (cierre).
func (r *WorkdayRepo) Update(workday *entity.Workday) error {
	query := `
		UPDATE workdays SET status = $2, closed_by = $3, closed_at = $4
		WHERE id = $1`
	closedBy := (*string)(nil)
	if workday.ClosedBy != "" {
		closedBy = &workday.ClosedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		workday.ID, workday.Status, closedBy, workday.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("update workday: %w", err)
	}
	return nil
}

// GetOpen devuelve la jornada abierta, o nil si no hay ninguna.
func (r *WorkdayRepo) GetOpen() (*entity.Workday, error) {
	query := `SELECT ` + workdayColumns + ` FROM workdays WHERE status = 'open'`
	return r.scanOne(query)
}

// GetByDate obtiene la jornada de una fecha.
func (r *WorkdayRepo) GetByDate(date time.Time) (*entity.Workday, error) {
	query := `SELECT ` + workdayColumns + ` FROM workdays WHERE date = $1`
	return r.scanOne(query, date)
}

func (r *WorkdayRepo) scanOne(query string, args ...any) (*entity.Workday, error) {
	var w entity.Workday
	var closedBy *string
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&w.ID, &w.Date, &w.Status, &w.OpenedBy, &w.OpenedAt, &closedBy, &w.ClosedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get workday: %w", err)
	}
	if closedBy != nil {
		w.ClosedBy = *closedBy
	}
	return &w, nil
}

// List lista jornadas recientes primero.
func (r *WorkdayRepo) List(limit int) ([]*entity.Workday, error) {
	if limit <= 0 {
		limit = 30
	}
	query := `SELECT ` + workdayColumns + ` FROM workdays ORDER BY date DESC LIMIT $1`
	rows, err := r.q.Query(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("list workdays: %w", err)
	}
	defer rows.Close()
	var list []*entity.Workday
	for rows.Next() {
		var w entity.Workday
		var closedBy *string
		if err := rows.Scan(&w.ID, &w.Date, &w.Status, &w.OpenedBy, &w.OpenedAt, &closedBy, &w.ClosedAt); err != nil {
			return nil, fmt.Errorf("scan workday: %w", err)
		}
		if closedBy != nil {
			w.ClosedBy = *closedBy
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación de UserRepository (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un usuario.
func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Role, user.Status,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	query := `
		SELECT id, email, password_hash, name, role, status, created_at, updated_at
		FROM users WHERE id = $1`
	return r.scanOne(query, id)
}

// FindByEmail busca un usuario por email.
func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	query := `
		SELECT id, email, password_hash, name, role, status, created_at, updated_at
		FROM users WHERE email = $1`
	return r.scanOne(query, email)
}

func (r *UserRepo) scanOne(query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Status,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
