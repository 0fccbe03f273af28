package memory

import (
	"context"
	"sort"
	"sync"

	"agenda/internal/domain"
)

type ScheduleRuleRepo struct {
	mu     sync.Mutex
	nextID int64
	rules  map[int64]domain.WeeklyScheduleRule
}

func NewScheduleRuleRepository() *ScheduleRuleRepo {
	return &ScheduleRuleRepo{rules: make(map[int64]domain.WeeklyScheduleRule)}
}

func (r *ScheduleRuleRepo) Create(_ context.Context, rule domain.WeeklyScheduleRule) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	rule.ID = r.nextID
	r.rules[rule.ID] = rule
	return rule.ID, nil
}

func (r *ScheduleRuleRepo) GetByID(_ context.Context, id int64) (*domain.WeeklyScheduleRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rule, ok := r.rules[id]
	if !ok {
		return nil, nil
	}
	return &rule, nil
}

func (r *ScheduleRuleRepo) Update(_ context.Context, rule domain.WeeklyScheduleRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rules[rule.ID]; ok {
		r.rules[rule.ID] = rule
	}
	return nil
}

func (r *ScheduleRuleRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rules[id]; !ok {
		return false, nil
	}
	delete(r.rules, id)
	return true, nil
}

func (r *ScheduleRuleRepo) List(_ context.Context, filter domain.ScheduleRuleFilter) ([]domain.WeeklyScheduleRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rules []domain.WeeklyScheduleRule
	for _, id := range sortedIDs(r.rules) {
		rule := r.rules[id]
		if rule.ProfessionalID != filter.ProfessionalID {
			continue
		}
		if filter.ActiveOnly && !rule.Active {
			continue
		}
		rules = append(rules, rule)
	}

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].DayOfWeek != rules[j].DayOfWeek {
			return rules[i].DayOfWeek < rules[j].DayOfWeek
		}
		return rules[i].StartTime < rules[j].StartTime
	})
	return rules, nil
}

type HolidayRepo struct {
	mu       sync.Mutex
	nextID   int64
	holidays map[int64]domain.Holiday
}

func NewHolidayRepository() *HolidayRepo {
	return &HolidayRepo{holidays: make(map[int64]domain.Holiday)}
}

// activeConflict mirrors the partial unique index on active holiday dates.
func (r *HolidayRepo) activeConflict(h domain.Holiday) bool {
	if !h.Active {
		return false
	}
	for id, existing := range r.holidays {
		if id != h.ID && existing.Active && existing.Date.Equal(h.Date) {
			return true
		}
	}
	return false
}

func (r *HolidayRepo) Create(_ context.Context, h domain.Holiday) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h.ID = 0
	if r.activeConflict(h) {
		return 0, domain.ErrDuplicateHoliday
	}

	r.nextID++
	h.ID = r.nextID
	r.holidays[h.ID] = h
	return h.ID, nil
}

func (r *HolidayRepo) GetByID(_ context.Context, id int64) (*domain.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.holidays[id]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (r *HolidayRepo) GetActiveByDate(_ context.Context, date domain.Date) (*domain.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range sortedIDs(r.holidays) {
		h := r.holidays[id]
		if h.Active && h.Date.Equal(date) {
			return &h, nil
		}
	}
	return nil, nil
}

func (r *HolidayRepo) Update(_ context.Context, h domain.Holiday) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.holidays[h.ID]; !ok {
		return nil
	}
	if r.activeConflict(h) {
		return domain.ErrDuplicateHoliday
	}
	r.holidays[h.ID] = h
	return nil
}

func (r *HolidayRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.holidays[id]; !ok {
		return false, nil
	}
	delete(r.holidays, id)
	return true, nil
}

func (r *HolidayRepo) Find(_ context.Context, filter domain.HolidayFilter) ([]domain.Holiday, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.Holiday
	for _, id := range sortedIDs(r.holidays) {
		h := r.holidays[id]
		if filter.Year != nil && h.Date.Year() != *filter.Year {
			continue
		}
		if filter.Active != nil && h.Active != *filter.Active {
			continue
		}
		if filter.IsRecurring != nil && h.IsRecurring != *filter.IsRecurring {
			continue
		}
		matched = append(matched, h)
	}

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date.Before(matched[j].Date) })
	return page(matched, filter.Limit, filter.Offset), len(matched), nil
}

type NonWorkingPeriodRepo struct {
	mu      sync.Mutex
	nextID  int64
	periods map[int64]domain.NonWorkingPeriod
}

func NewNonWorkingPeriodRepository() *NonWorkingPeriodRepo {
	return &NonWorkingPeriodRepo{periods: make(map[int64]domain.NonWorkingPeriod)}
}

func (r *NonWorkingPeriodRepo) taken(p domain.NonWorkingPeriod) bool {
	for id, existing := range r.periods {
		if id != p.ID && existing.ProfessionalID == p.ProfessionalID && existing.Date.Equal(p.Date) {
			return true
		}
	}
	return false
}

func (r *NonWorkingPeriodRepo) Create(_ context.Context, p domain.NonWorkingPeriod) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = 0
	if r.taken(p) {
		return 0, domain.ErrDuplicateNonWorkingPeriod
	}

	r.nextID++
	p.ID = r.nextID
	r.periods[p.ID] = p
	return p.ID, nil
}

func (r *NonWorkingPeriodRepo) GetByID(_ context.Context, id int64) (*domain.NonWorkingPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.periods[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *NonWorkingPeriodRepo) GetByProfessionalAndDate(_ context.Context, professionalID int64, date domain.Date) (*domain.NonWorkingPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.periods {
		if p.ProfessionalID == professionalID && p.Date.Equal(date) {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *NonWorkingPeriodRepo) Update(_ context.Context, p domain.NonWorkingPeriod) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.periods[p.ID]; !ok {
		return nil
	}
	if r.taken(p) {
		return domain.ErrDuplicateNonWorkingPeriod
	}
	r.periods[p.ID] = p
	return nil
}

func (r *NonWorkingPeriodRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.periods[id]; !ok {
		return false, nil
	}
	delete(r.periods, id)
	return true, nil
}

func (r *NonWorkingPeriodRepo) ListByProfessional(_ context.Context, professionalID int64, from, to *domain.Date) ([]domain.NonWorkingPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var periods []domain.NonWorkingPeriod
	for _, id := range sortedIDs(r.periods) {
		p := r.periods[id]
		if p.ProfessionalID != professionalID {
			continue
		}
		if from != nil && p.Date.Before(*from) {
			continue
		}
		if to != nil && p.Date.After(*to) {
			continue
		}
		periods = append(periods, p)
	}

	sort.SliceStable(periods, func(i, j int) bool { return periods[i].Date.Before(periods[j].Date) })
	return periods, nil
}

type SlotConfigRepo struct {
	mu      sync.Mutex
	nextID  int64
	configs map[int64]domain.SlotGenerationConfig
}

func NewSlotConfigRepository() *SlotConfigRepo {
	return &SlotConfigRepo{configs: make(map[int64]domain.SlotGenerationConfig)}
}

func (r *SlotConfigRepo) Create(_ context.Context, cfg domain.SlotGenerationConfig) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.configs {
		if existing.ProfessionalID == cfg.ProfessionalID {
			return 0, domain.ErrDuplicateConfig
		}
	}

	r.nextID++
	cfg.ID = r.nextID
	r.configs[cfg.ID] = cfg
	return cfg.ID, nil
}

func (r *SlotConfigRepo) GetByID(_ context.Context, id int64) (*domain.SlotGenerationConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg, ok := r.configs[id]
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}

func (r *SlotConfigRepo) GetByProfessionalID(_ context.Context, professionalID int64) (*domain.SlotGenerationConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cfg := range r.configs {
		if cfg.ProfessionalID == professionalID {
			return &cfg, nil
		}
	}
	return nil, nil
}

func (r *SlotConfigRepo) Update(_ context.Context, cfg domain.SlotGenerationConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.configs[cfg.ID]; ok {
		r.configs[cfg.ID] = cfg
	}
	return nil
}

func (r *SlotConfigRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.configs[id]; !ok {
		return false, nil
	}
	delete(r.configs, id)
	return true, nil
}

func (r *SlotConfigRepo) List(_ context.Context, autoGenerateOnly bool) ([]domain.SlotGenerationConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var configs []domain.SlotGenerationConfig
	for _, id := range sortedIDs(r.configs) {
		cfg := r.configs[id]
		if autoGenerateOnly && !cfg.AutoGenerateSlots {
			continue
		}
		configs = append(configs, cfg)
	}

	sort.SliceStable(configs, func(i, j int) bool { return configs[i].ProfessionalID < configs[j].ProfessionalID })
	return configs, nil
}
