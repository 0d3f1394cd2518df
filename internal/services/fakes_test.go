package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CristianCureu/fitness-app-api/internal/repos"
	"github.com/CristianCureu/fitness-app-api/internal/types"
)

// In-memory repo fakes. Only the methods the tested services touch are
// implemented with behavior; the rest return zero values.

type fakeSessionRepo struct {
	sessions   []*types.ScheduledSession
	created    []*types.ScheduledSession
	lastFilter repos.ScheduledSessionFilter
	updates    []map[string]interface{}
}

func (f *fakeSessionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ScheduledSession) ([]*types.ScheduledSession, error) {
	f.created = append(f.created, rows...)
	f.sessions = append(f.sessions, rows...)
	return rows, nil
}

func (f *fakeSessionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ScheduledSession, error) {
	var out []*types.ScheduledSession
	for _, s := range f.sessions {
		for _, id := range ids {
			if s.ID == id {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) List(ctx context.Context, tx *gorm.DB, filter repos.ScheduledSessionFilter) ([]*types.ScheduledSession, int64, error) {
	f.lastFilter = filter
	return f.sessions, int64(len(f.sessions)), nil
}

func (f *fakeSessionRepo) ListScheduledForDay(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, dayStart, dayEnd time.Time) ([]*types.ScheduledSession, error) {
	var out []*types.ScheduledSession
	for _, s := range f.sessions {
		if s.ClientID != clientID || s.Status != types.SessionScheduled {
			continue
		}
		if s.StartAt.Before(dayStart) || s.StartAt.After(dayEnd) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSessionRepo) ListForClientBetween(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, from, to time.Time) ([]*types.ScheduledSession, error) {
	var out []*types.ScheduledSession
	for _, s := range f.sessions {
		if s.ClientID != clientID {
			continue
		}
		if s.StartAt.Before(from) || s.StartAt.After(to) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSessionRepo) CountScheduled(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (int64, error) {
	var count int64
	for _, s := range f.sessions {
		if s.ClientID == clientID && s.Status == types.SessionScheduled {
			count++
		}
	}
	return count, nil
}

func (f *fakeSessionRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	f.updates = append(f.updates, fields)
	for _, s := range f.sessions {
		if s.ID != id {
			continue
		}
		if status, ok := fields["status"].(string); ok {
			s.Status = status
		}
		switch at := fields["completed_at"].(type) {
		case time.Time:
			s.CompletedAt = &at
		case nil:
			if _, present := fields["completed_at"]; present {
				s.CompletedAt = nil
			}
		}
	}
	return nil
}

func (f *fakeSessionRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	return nil
}

func (f *fakeSessionRepo) FullDeleteFutureScheduled(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, from time.Time) error {
	var kept []*types.ScheduledSession
	for _, s := range f.sessions {
		if s.ClientID == clientID && s.Status == types.SessionScheduled && !s.StartAt.Before(from) {
			continue
		}
		kept = append(kept, s)
	}
	f.sessions = kept
	return nil
}

type fakeCheckinRepo struct {
	checkins []*types.DailyCheckin
}

func (f *fakeCheckinRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.DailyCheckin) error {
	f.checkins = append(f.checkins, row)
	return nil
}

func (f *fakeCheckinRepo) ListForClientBetween(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, from, to time.Time) ([]*types.DailyCheckin, error) {
	var out []*types.DailyCheckin
	for _, c := range f.checkins {
		if c.ClientID != clientID {
			continue
		}
		if c.Date.Before(from) || c.Date.After(to) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCheckinRepo) ListByClientID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, limit int) ([]*types.DailyCheckin, error) {
	return f.checkins, nil
}

type fakeClientProgramRepo struct {
	assignment *types.ClientProgram
}

func (f *fakeClientProgramRepo) GetByClientID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (*types.ClientProgram, error) {
	return f.assignment, nil
}

func (f *fakeClientProgramRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ClientProgram) error {
	f.assignment = row
	return nil
}

func (f *fakeClientProgramRepo) UpdateTrainingDays(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, trainingDays []byte, isCustomized bool) error {
	return nil
}

func (f *fakeClientProgramRepo) FullDeleteByClientID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) error {
	f.assignment = nil
	return nil
}

type fakeClientProfileRepo struct {
	profiles []*types.ClientProfile
}

func (f *fakeClientProfileRepo) Create(ctx context.Context, tx *gorm.DB, profiles []*types.ClientProfile) ([]*types.ClientProfile, error) {
	f.profiles = append(f.profiles, profiles...)
	return profiles, nil
}

func (f *fakeClientProfileRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ClientProfile, error) {
	var out []*types.ClientProfile
	for _, p := range f.profiles {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (f *fakeClientProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.ClientProfile, error) {
	for _, p := range f.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeClientProfileRepo) ListByTrainer(ctx context.Context, tx *gorm.DB, trainerID uuid.UUID, filter repos.ClientProfileFilter) ([]*types.ClientProfile, int64, error) {
	return f.profiles, int64(len(f.profiles)), nil
}

func (f *fakeClientProfileRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return nil
}

func (f *fakeClientProfileRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	return nil
}

type fakeProgramRepo struct {
	programs []*types.WorkoutProgram
}

func (f *fakeProgramRepo) Create(ctx context.Context, tx *gorm.DB, programs []*types.WorkoutProgram) ([]*types.WorkoutProgram, error) {
	f.programs = append(f.programs, programs...)
	return programs, nil
}

func (f *fakeProgramRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.WorkoutProgram, error) {
	var out []*types.WorkoutProgram
	for _, p := range f.programs {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (f *fakeProgramRepo) ListVisibleToTrainer(ctx context.Context, tx *gorm.DB, trainerID uuid.UUID) ([]*types.WorkoutProgram, error) {
	return f.programs, nil
}

func (f *fakeProgramRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return nil
}

func (f *fakeProgramRepo) ReplaceSessions(ctx context.Context, tx *gorm.DB, programID uuid.UUID, sessions []*types.ProgramSession) error {
	return nil
}

func (f *fakeProgramRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	return nil
}

type fakeRecLogRepo struct {
	entries []*types.RecommendationLog
	updates []map[string]interface{}
}

func (f *fakeRecLogRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.RecommendationLog) ([]*types.RecommendationLog, error) {
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	f.entries = append(f.entries, rows...)
	return rows, nil
}

func (f *fakeRecLogRepo) GetLatestPending(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (*types.RecommendationLog, error) {
	for i := len(f.entries) - 1; i >= 0; i-- {
		entry := f.entries[i]
		if entry.ClientID == clientID && entry.TrainerAccepted == nil {
			return entry, nil
		}
	}
	return nil, nil
}

func (f *fakeRecLogRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	f.updates = append(f.updates, fields)
	for _, entry := range f.entries {
		if entry.ID != id {
			continue
		}
		if accepted, ok := fields["trainer_accepted"].(bool); ok {
			entry.TrainerAccepted = &accepted
		}
	}
	return nil
}

func (f *fakeRecLogRepo) ListByClientID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, limit int) ([]*types.RecommendationLog, error) {
	return f.entries, nil
}
