package service

import (
	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/google/uuid"
)

func (s *ServiceSuite) TestRegisterUser() {
	user, err := s.users.RegisterUser(s.ctx, 42, "anya", "Аня", "", "ru")
	s.Require().NoError(err)
	s.Equal(model.UserTypeStudent, user.UserType)
	s.NotEqual(uuid.Nil, user.ID)

	again, err := s.users.RegisterUser(s.ctx, 42, "anya_new", "Аня", "К.", "ru")
	s.Require().NoError(err)
	s.Equal(user.ID, again.ID)

	stored, err := s.users.GetByTelegramID(s.ctx, 42)
	s.Require().NoError(err)
	s.Equal("anya_new", stored.Username)
}

func (s *ServiceSuite) TestRegisterConfiguredAdmin() {
	admin, err := s.users.RegisterUser(s.ctx, 1000, "boss", "Ольга", "", "ru")
	s.Require().NoError(err)
	s.True(admin.IsAdmin())
}

func (s *ServiceSuite) TestUnknownUser() {
	user, err := s.users.GetByTelegramID(s.ctx, 7)
	s.Require().NoError(err)
	s.Nil(user)

	_, err = s.users.GetByID(s.ctx, uuid.New())
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceSuite) TestSetUserType() {
	student := s.createStudent(1, "Аня")
	s.createStudent(2, "Борис")

	teacher, err := s.users.SetUserType(s.ctx, student.ID, model.UserTypeTeacher)
	s.Require().NoError(err)
	s.True(teacher.IsTeacher())

	teachers, err := s.users.ListByType(s.ctx, model.UserTypeTeacher)
	s.Require().NoError(err)
	s.Require().Len(teachers, 1)
	s.Equal(student.ID, teachers[0].ID)

	all, err := s.users.ListByType(s.ctx, "")
	s.Require().NoError(err)
	s.Len(all, 2)

	_, err = s.users.SetUserType(s.ctx, student.ID, "owner")
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.users.SetUserType(s.ctx, uuid.New(), model.UserTypeSponsor)
	s.ErrorIs(err, ErrNotFound)
}
