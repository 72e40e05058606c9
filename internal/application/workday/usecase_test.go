package workday_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/workday"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/infrastructure/memory"
)

func newUseCase(t *testing.T) *workday.UseCase {
	t.Helper()
	store := memory.NewStore()
	return workday.NewUseCase(memory.NewTxRunner(store), store.Repos().Workdays)
}

func TestOpenDay_TruncaLaFechaADía(t *testing.T) {
	uc := newUseCase(t)

	opened, err := uc.OpenDay(context.Background(), time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC), "admin")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), opened.Date)
	assert.Equal(t, entity.WorkdayStatusOpen, opened.Status)
	assert.Equal(t, "admin", opened.OpenedBy)

	current, err := uc.Current()
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, opened.ID, current.ID)
}

// Nunca hay dos jornadas abiertas a la vez.
func TestOpenDay_SoloUnaAbierta(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	_, err := uc.OpenDay(ctx, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), "admin")
	require.NoError(t, err)

	_, err = uc.OpenDay(ctx, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), "admin")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// Una fecha cerrada no se reabre: el día quedó saldado.
func TestOpenDay_NoReabreFechaCerrada(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	_, err := uc.OpenDay(ctx, date, "admin")
	require.NoError(t, err)
	closed, err := uc.CloseDay(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, entity.WorkdayStatusClosed, closed.Status)
	assert.Equal(t, "admin", closed.ClosedBy)
	require.NotNil(t, closed.ClosedAt)

	_, err = uc.OpenDay(ctx, date, "admin")
	require.ErrorIs(t, err, domain.ErrAlreadyClosed)

	// El día siguiente sí abre.
	next, err := uc.OpenDay(ctx, date.AddDate(0, 0, 1), "admin")
	require.NoError(t, err)
	assert.Equal(t, date.AddDate(0, 0, 1), next.Date)
}

func TestCloseDay_SinJornadaAbierta(t *testing.T) {
	uc := newUseCase(t)
	_, err := uc.CloseDay(context.Background(), "admin")
	require.ErrorIs(t, err, domain.ErrNoOpenDay)
}

func TestCurrent_SinJornadaDevuelveNil(t *testing.T) {
	uc := newUseCase(t)
	current, err := uc.Current()
	require.NoError(t, err)
	assert.Nil(t, current)
}

// List devuelve el historial, más recientes primero.
func TestList_HistorialDeJornadas(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	for day := 14; day <= 16; day++ {
		_, err := uc.OpenDay(ctx, time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC), "admin")
		require.NoError(t, err)
		_, err = uc.CloseDay(ctx, "admin")
		require.NoError(t, err)
	}

	workdays, err := uc.List(2)
	require.NoError(t, err)
	require.Len(t, workdays, 2)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), workdays[0].Date)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), workdays[1].Date)
}
