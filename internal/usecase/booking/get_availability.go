package booking

import (
	"context"
	"time"

	domain "github.com/MartinRAM24/app-gestion-citas/internal/domain/booking"
)

type GetAvailability struct {
	repo  domain.Repository
	cache domain.AvailabilityCache
}

func NewGetAvailability(
	repo domain.Repository,
	cache domain.AvailabilityCache,
) *GetAvailability {
	return &GetAvailability{repo: repo, cache: cache}
}

// Execute returns the free slots for a date: the generated slot sequence
// minus the times already booked. The cached view is advisory; conflicts
// are settled at insert time by the unique index.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	date time.Time,
) ([]string, error) {

	if free, ok := uc.cache.Get(ctx, date); ok {
		return free, nil
	}

	slots := domain.SlotsFor(date)
	free := []string{}

	if len(slots) > 0 {
		occupied, err := uc.repo.OccupiedTimes(ctx, date)
		if err != nil {
			return nil, err
		}

		taken := make(map[string]bool, len(occupied))
		for _, t := range occupied {
			taken[t] = true
		}

		for _, s := range slots {
			if !taken[s] {
				free = append(free, s)
			}
		}
	}

	uc.cache.Set(ctx, date, free)
	return free, nil
}
