package usecases

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/0xcro3dile/careercraft/internal/domain/entities"
	"github.com/0xcro3dile/careercraft/internal/domain/ports"
)

// TrackerUseCase manages job application records.
type TrackerUseCase struct {
	store ports.ApplicationStore
}

// NewTrackerUseCase creates a TrackerUseCase.
func NewTrackerUseCase(store ports.ApplicationStore) *TrackerUseCase {
	return &TrackerUseCase{store: store}
}

// Create validates and stores a new application.
func (uc *TrackerUseCase) Create(ctx context.Context, app *entities.Application) error {
	if app.Status == "" {
		app.Status = entities.StatusNotApplied
	}
	if err := app.Validate(); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrEmptyInput, err)
	}
	app.ID = uuid.NewString()
	app.CreatedAt = time.Now().UTC()
	if app.DateApplied.IsZero() {
		app.DateApplied = app.CreatedAt
	}
	return uc.store.CreateApplication(ctx, app)
}

// Get returns one application.
func (uc *TrackerUseCase) Get(ctx context.Context, id string) (*entities.Application, error) {
	return uc.store.GetApplication(ctx, id)
}

// List returns every application.
func (uc *TrackerUseCase) List(ctx context.Context) ([]entities.Application, error) {
	return uc.store.ListApplications(ctx)
}

// Update replaces an existing application's fields.
func (uc *TrackerUseCase) Update(ctx context.Context, app *entities.Application) error {
	if err := app.Validate(); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrEmptyInput, err)
	}
	existing, err := uc.store.GetApplication(ctx, app.ID)
	if err != nil {
		return err
	}
	app.CreatedAt = existing.CreatedAt
	if app.DateApplied.IsZero() {
		app.DateApplied = existing.DateApplied
	}
	return uc.store.UpdateApplication(ctx, app)
}

// Delete removes an application.
func (uc *TrackerUseCase) Delete(ctx context.Context, id string) error {
	return uc.store.DeleteApplication(ctx, id)
}

// Summary counts applications by status and sent applications by day.
func (uc *TrackerUseCase) Summary(ctx context.Context) (*entities.TrackerSummary, error) {
	apps, err := uc.store.ListApplications(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(apps), nil
}

// Summarize builds the tracker overview from a list of applications.
func Summarize(apps []entities.Application) *entities.TrackerSummary {
	s := &entities.TrackerSummary{
		Total:    len(apps),
		ByStatus: make(map[entities.ApplicationStatus]int),
		ByDate:   []entities.DailyCount{},
	}

	perDay := make(map[string]int)
	for _, a := range apps {
		s.ByStatus[a.Status]++
		if a.Status.Submitted() {
			s.Applied++
		}
		if !a.DateApplied.IsZero() {
			perDay[a.DateApplied.Format("2006-01-02")]++
		}
		switch a.Status {
		case entities.StatusInterviewing:
			s.Interviewing++
		case entities.StatusOffer:
			s.Offers++
		}
	}

	for day, n := range perDay {
		s.ByDate = append(s.ByDate, entities.DailyCount{Date: day, Count: n})
	}
	sort.Slice(s.ByDate, func(i, j int) bool { return s.ByDate[i].Date < s.ByDate[j].Date })
	return s
}
