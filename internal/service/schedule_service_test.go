package service

import (
	"github.com/Freeeeeet/studio_bot/internal/model"
)

func (s *ServiceSuite) mondaySchedule() *model.Schedule {
	schedule, err := s.schedules.CreateSchedule(s.ctx, ScheduleInput{
		Name: "Вечерняя группа",
		TimeSlots: []model.TimeSlot{
			{DayOfWeek: model.Monday, StartTime: "18:00", EndTime: "19:30"},
		},
	})
	s.Require().NoError(err)
	return schedule
}

func (s *ServiceSuite) TestCreateScheduleValidation() {
	tests := []struct {
		name  string
		input ScheduleInput
	}{
		{"empty name", ScheduleInput{TimeSlots: []model.TimeSlot{{DayOfWeek: model.Monday, StartTime: "10:00", EndTime: "11:00"}}}},
		{"no slots", ScheduleInput{Name: "Пусто"}},
		{"weekday out of range", ScheduleInput{Name: "X", TimeSlots: []model.TimeSlot{{DayOfWeek: 7, StartTime: "10:00", EndTime: "11:00"}}}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.schedules.CreateSchedule(s.ctx, tt.input)
			s.ErrorIs(err, ErrInvalidInput)
		})
	}
}

func (s *ServiceSuite) TestExpandScheduleMondaysOfJanuary() {
	schedule := s.mondaySchedule()

	records, err := s.schedules.ExpandSchedule(s.ctx, schedule.ID, 1, 2025)
	s.Require().NoError(err)

	days := make([]int, 0, len(records))
	for _, record := range records {
		days = append(days, record.Day)
		s.Equal("18:00", record.StartTime)
	}
	s.Equal([]int{6, 13, 20, 27}, days)
}

func (s *ServiceSuite) TestExpandScheduleInvalidMonth() {
	schedule := s.mondaySchedule()

	_, err := s.schedules.ExpandSchedule(s.ctx, schedule.ID, 13, 2025)
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *ServiceSuite) TestGenerateClassesIsNotIdempotent() {
	schedule := s.mondaySchedule()

	first, err := s.schedules.GenerateClasses(s.ctx, schedule.ID, 3, 2025)
	s.Require().NoError(err)
	s.Len(first.Sessions, 5)
	s.Zero(first.Duplicates)

	second, err := s.schedules.GenerateClasses(s.ctx, schedule.ID, 3, 2025)
	s.Require().NoError(err)
	s.Len(second.Sessions, 5)
	s.Equal(5, second.Duplicates)

	month, year := 3, 2025
	sessions, err := s.classes.ListSessions(s.ctx, model.SessionFilter{Month: &month, Year: &year})
	s.Require().NoError(err)
	s.Len(sessions, 10)

	ids := make(map[string]bool)
	for _, session := range sessions {
		ids[session.ID.String()] = true
		s.Empty(session.Attendances)
		s.Empty(session.Teachers)
	}
	s.Len(ids, 10)
}

func (s *ServiceSuite) TestGenerateMissingClassesSkipsExisting() {
	schedule := s.mondaySchedule()
	s.createSession(3, 3, 2025, "18:00", "19:30")

	result, err := s.schedules.GenerateMissingClasses(s.ctx, schedule.ID, 3, 2025)
	s.Require().NoError(err)
	s.Len(result.Sessions, 4)
	s.Equal(1, result.Skipped)

	again, err := s.schedules.GenerateMissingClasses(s.ctx, schedule.ID, 3, 2025)
	s.Require().NoError(err)
	s.Empty(again.Sessions)
	s.Equal(5, again.Skipped)
}

func (s *ServiceSuite) TestGenerateMissingForAll() {
	s.mondaySchedule()
	_, err := s.schedules.CreateSchedule(s.ctx, ScheduleInput{
		Name:      "Утро",
		TimeSlots: model.SlotsForDays([]model.Weekday{model.Saturday}, "10:00", "11:00"),
	})
	s.Require().NoError(err)

	created, err := s.schedules.GenerateMissingForAll(s.ctx, 1, 2025)
	s.Require().NoError(err)
	// 4 понедельника + 4 субботы января 2025
	s.Equal(8, created)

	created, err = s.schedules.GenerateMissingForAll(s.ctx, 1, 2025)
	s.Require().NoError(err)
	s.Zero(created)
}

func (s *ServiceSuite) TestGenerateForUnknownSchedule() {
	schedule := s.mondaySchedule()
	s.Require().NoError(s.schedules.DeleteSchedule(s.ctx, schedule.ID))

	_, err := s.schedules.GenerateClasses(s.ctx, schedule.ID, 1, 2025)
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceSuite) TestDeleteScheduleKeepsSessions() {
	schedule := s.mondaySchedule()
	_, err := s.schedules.GenerateClasses(s.ctx, schedule.ID, 1, 2025)
	s.Require().NoError(err)

	s.Require().NoError(s.schedules.DeleteSchedule(s.ctx, schedule.ID))

	sessions, err := s.classes.ListSessions(s.ctx, model.SessionFilter{})
	s.Require().NoError(err)
	s.Len(sessions, 4)

	s.ErrorIs(s.schedules.DeleteSchedule(s.ctx, schedule.ID), ErrNotFound)
}

func (s *ServiceSuite) TestUpdateScheduleDoesNotTouchSessions() {
	schedule := s.mondaySchedule()
	_, err := s.schedules.GenerateClasses(s.ctx, schedule.ID, 1, 2025)
	s.Require().NoError(err)

	slots := []model.TimeSlot{{DayOfWeek: model.Friday, StartTime: "09:00", EndTime: "10:00"}}
	name := "Пятница"
	updated, err := s.schedules.UpdateSchedule(s.ctx, schedule.ID, SchedulePatch{Name: &name, TimeSlots: &slots})
	s.Require().NoError(err)
	s.Equal("Пятница", updated.Name)
	s.Equal(slots, updated.TimeSlots)

	sessions, err := s.classes.ListSessions(s.ctx, model.SessionFilter{})
	s.Require().NoError(err)
	for _, session := range sessions {
		s.Equal("18:00", session.StartTime)
	}
}
