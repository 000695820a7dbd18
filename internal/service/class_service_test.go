package service

import (
	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/google/uuid"
)

func (s *ServiceSuite) TestCreateSessionRejectsIllegalDate() {
	_, err := s.classes.CreateSession(s.ctx, SessionInput{Day: 30, Month: 2, Year: 2024, StartTime: "10:00", EndTime: "11:00"})
	s.ErrorIs(err, ErrInvalidInput)

	session, err := s.classes.CreateSession(s.ctx, SessionInput{Day: 29, Month: 2, Year: 2024, StartTime: "10:00", EndTime: "11:00"})
	s.Require().NoError(err)
	s.Equal(29, session.Day)
}

func (s *ServiceSuite) TestBulkCreateSessionsDoesNotDedupe() {
	records := []model.SlotRecord{
		{Day: 6, Month: 1, Year: 2025, StartTime: "18:00", EndTime: "19:00"},
		{Day: 6, Month: 1, Year: 2025, StartTime: "18:00", EndTime: "19:00"},
	}

	sessions, err := s.classes.BulkCreateSessions(s.ctx, records)
	s.Require().NoError(err)
	s.Len(sessions, 2)
	s.NotEqual(sessions[0].ID, sessions[1].ID)

	_, err = s.classes.BulkCreateSessions(s.ctx, []model.SlotRecord{{Day: 32, Month: 1, Year: 2025}})
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *ServiceSuite) TestListSessionsOrdering() {
	s.createSession(10, 2, 2025, "18:00", "19:00")
	s.createSession(3, 2, 2025, "18:00", "19:00")
	s.createSession(3, 2, 2025, "09:00", "10:00")
	s.createSession(1, 3, 2025, "09:00", "10:00")

	month := 2
	sessions, err := s.classes.ListSessions(s.ctx, model.SessionFilter{Month: &month})
	s.Require().NoError(err)
	s.Require().Len(sessions, 3)
	s.Equal([]int{3, 3, 10}, []int{sessions[0].Day, sessions[1].Day, sessions[2].Day})
	s.Equal("09:00", sessions[0].StartTime)

	bad := 13
	_, err = s.classes.ListSessions(s.ctx, model.SessionFilter{Month: &bad})
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *ServiceSuite) TestUpdateSessionKeepsAttendance() {
	session := s.createSession(6, 1, 2025, "18:00", "19:00")
	student := s.createStudent(1, "Аня")
	_, err := s.classes.MarkAttendance(s.ctx, session.ID, []AttendanceEntry{{StudentID: student.ID.String()}})
	s.Require().NoError(err)

	day := 7
	start := "19:00"
	updated, err := s.classes.UpdateSession(s.ctx, session.ID, SessionPatch{Day: &day, StartTime: &start})
	s.Require().NoError(err)
	s.Equal(7, updated.Day)
	s.Equal("19:00", updated.StartTime)
	s.Equal("19:00", updated.EndTime)
	s.Len(updated.Attendances, 1)

	_, err = s.classes.UpdateSession(s.ctx, uuid.New(), SessionPatch{Day: &day})
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceSuite) TestSessionTeachersSetKeptAndCleared() {
	first, second, third := uuid.New(), uuid.New(), uuid.New()
	session, err := s.classes.CreateSession(s.ctx, SessionInput{
		Day: 6, Month: 1, Year: 2025,
		StartTime: "18:00", EndTime: "19:00",
		Teachers: []uuid.UUID{first},
	})
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{first}, session.Teachers)

	replaced, err := s.classes.UpdateSession(s.ctx, session.ID, SessionPatch{Teachers: &[]uuid.UUID{second, third}})
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{second, third}, replaced.Teachers)
	s.Equal("18:00", replaced.StartTime)

	// Поле не передано: преподаватели остаются
	day := 7
	moved, err := s.classes.UpdateSession(s.ctx, session.ID, SessionPatch{Day: &day})
	s.Require().NoError(err)
	s.Equal(7, moved.Day)
	s.Equal([]uuid.UUID{second, third}, moved.Teachers)

	// Пустой список очищает поле, остальное не меняется
	cleared, err := s.classes.UpdateSession(s.ctx, session.ID, SessionPatch{Teachers: &[]uuid.UUID{}})
	s.Require().NoError(err)
	s.Empty(cleared.Teachers)
	s.Equal(7, cleared.Day)
	s.Equal("18:00", cleared.StartTime)
	s.Equal("19:00", cleared.EndTime)

	stored, err := s.classes.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Empty(stored.Teachers)
}

func (s *ServiceSuite) TestDeleteSession() {
	session := s.createSession(6, 1, 2025, "18:00", "19:00")

	s.Require().NoError(s.classes.DeleteSession(s.ctx, session.ID))
	_, err := s.classes.GetSession(s.ctx, session.ID)
	s.ErrorIs(err, ErrNotFound)
	s.ErrorIs(s.classes.DeleteSession(s.ctx, session.ID), ErrNotFound)
}

func (s *ServiceSuite) TestMarkAttendanceUpsertsByStudent() {
	session := s.createSession(6, 1, 2025, "18:00", "19:00")
	a, b := uuid.New(), uuid.New()

	updated, err := s.classes.MarkAttendance(s.ctx, session.ID, []AttendanceEntry{
		{StudentID: a.String()},
		{StudentID: b.String(), Status: model.AttendanceAbsent},
	})
	s.Require().NoError(err)
	s.Require().Len(updated.Attendances, 2)
	s.Equal(model.AttendancePresent, updated.Attendances[0].Status)
	s.Equal(model.AttendanceAbsent, updated.Attendances[1].Status)

	// Повторная отметка меняет статус, новую запись не добавляет
	updated, err = s.classes.MarkAttendance(s.ctx, session.ID, []AttendanceEntry{
		{StudentID: b.String(), Status: model.AttendancePresent},
	})
	s.Require().NoError(err)
	s.Len(updated.Attendances, 2)
	s.Equal(2, updated.CountPresent())
}

func (s *ServiceSuite) TestMarkAttendanceIsIdempotent() {
	session := s.createSession(6, 1, 2025, "18:00", "19:00")
	entries := []AttendanceEntry{{StudentID: uuid.NewString()}, {StudentID: uuid.NewString(), Status: model.AttendanceAbsent}}

	first, err := s.classes.MarkAttendance(s.ctx, session.ID, entries)
	s.Require().NoError(err)
	second, err := s.classes.MarkAttendance(s.ctx, session.ID, entries)
	s.Require().NoError(err)

	s.Equal(first.Attendances, second.Attendances)
}

func (s *ServiceSuite) TestMarkAttendanceSkipsMalformedIDs() {
	session := s.createSession(6, 1, 2025, "18:00", "19:00")
	valid := uuid.New()

	updated, err := s.classes.MarkAttendance(s.ctx, session.ID, []AttendanceEntry{
		{StudentID: "not-a-uuid"},
		{StudentID: ""},
		{StudentID: valid.String()},
	})
	s.Require().NoError(err)
	s.Require().Len(updated.Attendances, 1)
	s.Equal(valid, updated.Attendances[0].StudentID)
}

func (s *ServiceSuite) TestMarkAttendanceInvalidStatusWritesNothing() {
	session := s.createSession(6, 1, 2025, "18:00", "19:00")

	_, err := s.classes.MarkAttendance(s.ctx, session.ID, []AttendanceEntry{
		{StudentID: uuid.NewString()},
		{StudentID: uuid.NewString(), Status: "late"},
	})
	s.ErrorIs(err, ErrInvalidInput)

	stored, err := s.classes.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Empty(stored.Attendances)
}

func (s *ServiceSuite) TestMarkAttendanceLastEntryWins() {
	session := s.createSession(6, 1, 2025, "18:00", "19:00")
	student := uuid.NewString()

	updated, err := s.classes.MarkAttendance(s.ctx, session.ID, []AttendanceEntry{
		{StudentID: student, Status: model.AttendancePresent},
		{StudentID: student, Status: model.AttendanceAbsent},
	})
	s.Require().NoError(err)
	s.Require().Len(updated.Attendances, 1)
	s.Equal(model.AttendanceAbsent, updated.Attendances[0].Status)
}

func (s *ServiceSuite) TestMarkAttendanceUnknownSession() {
	_, err := s.classes.MarkAttendance(s.ctx, uuid.New(), []AttendanceEntry{{StudentID: uuid.NewString()}})
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceSuite) TestStudentAttendanceHistory() {
	student := uuid.New()
	later := s.createSession(20, 1, 2025, "18:00", "19:00")
	earlier := s.createSession(6, 1, 2025, "18:00", "19:00")
	s.createSession(13, 1, 2025, "18:00", "19:00") // без отметки ученика

	_, err := s.classes.MarkAttendance(s.ctx, later.ID, []AttendanceEntry{{StudentID: student.String(), Status: model.AttendanceAbsent}})
	s.Require().NoError(err)
	_, err = s.classes.MarkAttendance(s.ctx, earlier.ID, []AttendanceEntry{{StudentID: student.String()}})
	s.Require().NoError(err)

	history, err := s.classes.StudentAttendanceHistory(s.ctx, student)
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Equal(earlier.ID, history[0].SessionID)
	s.Equal(model.AttendancePresent, history[0].Status)
	s.Equal(later.ID, history[1].SessionID)
	s.Equal(model.AttendanceAbsent, history[1].Status)
	s.Equal(20, history[1].Date.Day())
}
