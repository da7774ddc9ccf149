package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lmendes/studytrack/internal/models"
	"github.com/lmendes/studytrack/internal/repository"
	"github.com/lmendes/studytrack/internal/repository/sqlite"
	"github.com/lmendes/studytrack/internal/testutil"
)

type SubjectRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.SubjectRepository
}

func (s *SubjectRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewSubjectRepository(s.db)
}

func (s *SubjectRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *SubjectRepositorySuite) day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	s.Require().NoError(err)
	return t
}

func (s *SubjectRepositorySuite) newSubject(name string, next *time.Time) models.Subject {
	return models.Subject{
		Name:           name,
		Details:        "details for " + name,
		Stability:      1.0,
		Difficulty:     1.0,
		LastReviewDate: s.day("2024-01-01"),
		NextReviewDate: next,
	}
}

func (s *SubjectRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	next := s.day("2024-01-05")

	id, err := s.repo.Insert(ctx, s.newSubject("Algorithms", &next))
	s.Require().NoError(err)
	s.Require().Greater(id, int64(0))

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("Algorithms", got.Name)
	s.Equal("details for Algorithms", got.Details)
	s.Equal(1.0, got.Stability)
	s.Equal(1.0, got.Difficulty)
	s.Nil(got.Retrievability)
	s.Require().NotNil(got.NextReviewDate)
	s.Equal(next.Format("2006-01-02"), got.NextReviewDate.Format("2006-01-02"))
	s.Nil(got.ManualReviewDate)
	s.False(got.ReviewCompleted)
}

func (s *SubjectRepositorySuite) TestGetNotFound() {
	got, err := s.repo.Get(context.Background(), 9999)
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *SubjectRepositorySuite) TestUpdate() {
	ctx := context.Background()
	next := s.day("2024-01-05")
	id, err := s.repo.Insert(ctx, s.newSubject("Calculus", &next))
	s.Require().NoError(err)

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)

	r := 0.75
	newNext := s.day("2024-01-10")
	got.Stability = 1.44
	got.Difficulty = 0.9025
	got.Retrievability = &r
	got.NextReviewDate = &newNext
	got.RepeatCount = 2
	got.ReviewCompleted = true
	s.Require().NoError(s.repo.Update(ctx, *got))

	updated, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal(1.44, updated.Stability)
	s.Equal(0.9025, updated.Difficulty)
	s.Require().NotNil(updated.Retrievability)
	s.InDelta(0.75, *updated.Retrievability, 1e-9)
	s.Equal(2, updated.RepeatCount)
	s.True(updated.ReviewCompleted)
	s.Equal("2024-01-10", updated.NextReviewDate.Format("2006-01-02"))
}

func (s *SubjectRepositorySuite) TestListOrdersByOperativeDueDate() {
	ctx := context.Background()

	next3 := s.day("2024-01-03")
	next5 := s.day("2024-01-05")
	next2 := s.day("2024-01-02")
	manual1 := s.day("2024-01-01")

	_, err := s.repo.Insert(ctx, s.newSubject("third", &next3))
	s.Require().NoError(err)

	overridden := s.newSubject("first", &next5)
	overridden.ManualReviewDate = &manual1
	_, err = s.repo.Insert(ctx, overridden)
	s.Require().NoError(err)

	_, err = s.repo.Insert(ctx, s.newSubject("second", &next2))
	s.Require().NoError(err)

	_, err = s.repo.Insert(ctx, s.newSubject("undated", nil))
	s.Require().NoError(err)

	subjects, err := s.repo.List(ctx, models.SubjectFilter{})
	s.Require().NoError(err)
	s.Require().Len(subjects, 4)
	s.Equal("first", subjects[0].Name)
	s.Equal("second", subjects[1].Name)
	s.Equal("third", subjects[2].Name)
	s.Equal("undated", subjects[3].Name)
}

func (s *SubjectRepositorySuite) TestListSearch() {
	ctx := context.Background()
	next := s.day("2024-01-05")

	_, err := s.repo.Insert(ctx, s.newSubject("Linear Algebra", &next))
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, s.newSubject("History", &next))
	s.Require().NoError(err)

	subjects, err := s.repo.List(ctx, models.SubjectFilter{Search: "algebra"})
	s.Require().NoError(err)
	s.Require().Len(subjects, 1)
	s.Equal("Linear Algebra", subjects[0].Name)

	// Details match too.
	subjects, err = s.repo.List(ctx, models.SubjectFilter{Search: "details for History"})
	s.Require().NoError(err)
	s.Require().Len(subjects, 1)
	s.Equal("History", subjects[0].Name)
}

func (s *SubjectRepositorySuite) TestListByNames() {
	ctx := context.Background()
	next := s.day("2024-01-05")

	for _, name := range []string{"a", "b", "c"} {
		_, err := s.repo.Insert(ctx, s.newSubject(name, &next))
		s.Require().NoError(err)
	}

	subjects, err := s.repo.List(ctx, models.SubjectFilter{Names: []string{"a", "c"}})
	s.Require().NoError(err)
	s.Require().Len(subjects, 2)
}

func (s *SubjectRepositorySuite) TestSetReviewCompleted() {
	ctx := context.Background()
	next := s.day("2024-01-05")

	for _, name := range []string{"a", "b", "c"} {
		_, err := s.repo.Insert(ctx, s.newSubject(name, &next))
		s.Require().NoError(err)
	}

	s.Require().NoError(s.repo.SetReviewCompleted(ctx, []string{"a", "b"}, true))

	subjects, err := s.repo.List(ctx, models.SubjectFilter{})
	s.Require().NoError(err)
	completed := 0
	for _, subject := range subjects {
		if subject.ReviewCompleted {
			completed++
			s.NotEqual("c", subject.Name)
		}
	}
	s.Equal(2, completed)
}

func (s *SubjectRepositorySuite) TestDelete() {
	ctx := context.Background()
	next := s.day("2024-01-05")
	id, err := s.repo.Insert(ctx, s.newSubject("gone", &next))
	s.Require().NoError(err)

	s.Require().NoError(s.repo.Delete(ctx, id))

	got, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *SubjectRepositorySuite) TestDeleteAll() {
	ctx := context.Background()
	next := s.day("2024-01-05")
	for _, name := range []string{"a", "b"} {
		_, err := s.repo.Insert(ctx, s.newSubject(name, &next))
		s.Require().NoError(err)
	}

	s.Require().NoError(s.repo.DeleteAll(ctx))

	subjects, err := s.repo.List(ctx, models.SubjectFilter{})
	s.Require().NoError(err)
	s.Empty(subjects)
}

func (s *SubjectRepositorySuite) TestReviewHistory() {
	ctx := context.Background()
	next := s.day("2024-01-05")
	id, err := s.repo.Insert(ctx, s.newSubject("with history", &next))
	s.Require().NoError(err)

	for i, rating := range []models.Rating{models.RatingGood, models.RatingExcellent} {
		s.Require().NoError(s.repo.InsertReviewEntry(ctx, models.ReviewEntry{
			SubjectID:      id,
			ReviewedOn:     s.day("2024-01-01").AddDate(0, 0, i),
			Rating:         rating,
			Stability:      1.2,
			Difficulty:     0.95,
			Retrievability: 1.0,
		}))
	}

	entries, err := s.repo.ReviewHistory(ctx, id)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(models.RatingGood, entries[0].Rating)
	s.Equal(models.RatingExcellent, entries[1].Rating)
	s.Equal(id, entries[0].SubjectID)
}

func (s *SubjectRepositorySuite) TestReplaceAllRoundTrip() {
	ctx := context.Background()
	next := s.day("2024-01-05")

	id, err := s.repo.Insert(ctx, s.newSubject("keep me", &next))
	s.Require().NoError(err)
	s.Require().NoError(s.repo.InsertReviewEntry(ctx, models.ReviewEntry{
		SubjectID:      id,
		ReviewedOn:     s.day("2024-01-01"),
		Rating:         models.RatingGood,
		Stability:      1.2,
		Difficulty:     0.95,
		Retrievability: 1.0,
	}))

	exported, err := s.repo.List(ctx, models.SubjectFilter{})
	s.Require().NoError(err)
	for i := range exported {
		history, err := s.repo.ReviewHistory(ctx, exported[i].ID)
		s.Require().NoError(err)
		exported[i].ReviewHistory = history
	}

	s.Require().NoError(s.repo.ReplaceAll(ctx, exported))

	restored, err := s.repo.List(ctx, models.SubjectFilter{})
	s.Require().NoError(err)
	s.Require().Len(restored, 1)
	s.Equal(id, restored[0].ID)
	s.Equal("keep me", restored[0].Name)

	history, err := s.repo.ReviewHistory(ctx, id)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(models.RatingGood, history[0].Rating)
}

func (s *SubjectRepositorySuite) TestReplaceAllWithEmptySetClears() {
	ctx := context.Background()
	next := s.day("2024-01-05")
	_, err := s.repo.Insert(ctx, s.newSubject("old", &next))
	s.Require().NoError(err)

	s.Require().NoError(s.repo.ReplaceAll(ctx, nil))

	subjects, err := s.repo.List(ctx, models.SubjectFilter{})
	s.Require().NoError(err)
	s.Empty(subjects)
}

func TestSubjectRepositorySuite(t *testing.T) {
	suite.Run(t, new(SubjectRepositorySuite))
}
