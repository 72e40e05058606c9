package memory

import (
	"sort"
	"time"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
)

type workdayRepo struct{ s *Store }

func (r *workdayRepo) Create(w *entity.Workday) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.workdays[w.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.workdays[w.ID] = *w
	return nil
}

func (r *workdayRepo) Update(w *entity.Workday) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.workdays[w.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.workdays[w.ID] = *w
	return nil
}

func (r *workdayRepo) GetOpen() (*entity.Workday, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id := range r.s.workdays {
		w := r.s.workdays[id]
		if w.Status == entity.WorkdayStatusOpen {
			return &w, nil
		}
	}
	return nil, nil
}

func (r *workdayRepo) GetByDate(date time.Time) (*entity.Workday, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id := range r.s.workdays {
		w := r.s.workdays[id]
		if w.Date.Equal(date) {
			return &w, nil
		}
	}
	return nil, nil
}

func (r *workdayRepo) List(limit int) ([]*entity.Workday, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Workday, 0, len(r.s.workdays))
	for id := range r.s.workdays {
		w := r.s.workdays[id]
		out = append(out, &w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
