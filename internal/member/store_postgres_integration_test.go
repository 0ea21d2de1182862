//go:build integration

package member_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"samadhan/internal/eligibility"
	"samadhan/internal/member"
	id "samadhan/pkg/domain"
	"samadhan/pkg/platform/sentinel"
	"samadhan/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *member.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = member.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "members"))
}

func newTestMember(name, aadhar string) member.Member {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return member.Member{
		ID:             id.NewMemberID(),
		Name:           name,
		NormalizedName: member.NormalizeName(name),
		PhoneNumber:    "9000000001",
		DateOfBirth:    "1960-04-12",
		AadharLastFour: aadhar,
		ProgramID:      "prog-wardha",
		Location:       member.Location{Village: "Seloo", District: "Wardha", State: "Maharashtra"},
		QuestionAnswers: []eligibility.QuestionAnswer{{
			QuestionID:  "q-age",
			ConceptName: "Age",
			SelectedOptions: []eligibility.SelectedOption{
				{Name: "64"},
			},
		}},
		EligibleSchemes: []eligibility.Match{{ID: "s-pension", Name: "Old Age Pension"}},
		RegisteredBy:    "agent-7",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (s *PostgresStoreSuite) TestCreateAndFindRoundTrip() {
	ctx := context.Background()
	m := newTestMember("Asha Devi", "4321")
	s.Require().NoError(s.store.Create(ctx, m))

	found, err := s.store.FindByID(ctx, m.ID)
	s.Require().NoError(err)
	s.Equal(m.Name, found.Name)
	s.Equal(m.NormalizedName, found.NormalizedName)
	s.Equal(m.Location, found.Location)
	s.Equal(m.QuestionAnswers, found.QuestionAnswers)
	s.Equal(m.EligibleSchemes, found.EligibleSchemes)
	s.Equal(m.RegisteredBy, found.RegisteredBy)
	s.True(found.FamilyID.IsNil())

	byKey, err := s.store.FindByNaturalKey(ctx, m.Key())
	s.Require().NoError(err)
	s.Equal(m.ID, byKey.ID)
}

func (s *PostgresStoreSuite) TestNaturalKeyConflictUnderConcurrency() {
	ctx := context.Background()
	const goroutines = 30

	var wg sync.WaitGroup
	var created, conflicted atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m := newTestMember("Asha Devi", "4321")
			err := s.store.Create(ctx, m)
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflicted.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), created.Load(), "exactly one create should win")
	s.Equal(int32(goroutines-1), conflicted.Load(), "all others should conflict")
}

func (s *PostgresStoreSuite) TestUpdateLeavesIdentityColumns() {
	ctx := context.Background()
	m := newTestMember("Asha Devi", "4321")
	s.Require().NoError(s.store.Create(ctx, m))

	m.PhoneNumber = "9111111111"
	m.Name = "Renamed"
	m.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	s.Require().NoError(s.store.Update(ctx, m))

	found, err := s.store.FindByID(ctx, m.ID)
	s.Require().NoError(err)
	s.Equal("9111111111", found.PhoneNumber)
	s.Equal("Asha Devi", found.Name, "update must not touch identity columns")
}

func (s *PostgresStoreSuite) TestUpdateMissingMember() {
	err := s.store.Update(context.Background(), newTestMember("Ghost", "0000"))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestFamilyAssignment() {
	ctx := context.Background()
	m := newTestMember("Asha Devi", "4321")
	s.Require().NoError(s.store.Create(ctx, m))
	familyID := id.NewFamilyID()

	s.Require().NoError(s.store.SetFamilyID(ctx, m.ID, familyID))

	listed, err := s.store.ListByFamily(ctx, familyID)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(m.ID, listed[0].ID)

	assigned, err := s.store.ListAssigned(ctx)
	s.Require().NoError(err)
	s.Len(assigned, 1)

	// Clearing with the zero FamilyID nulls the column.
	s.Require().NoError(s.store.SetFamilyID(ctx, m.ID, id.FamilyID{}))
	assigned, err = s.store.ListAssigned(ctx)
	s.Require().NoError(err)
	s.Empty(assigned)
}

func (s *PostgresStoreSuite) TestListByProgram() {
	ctx := context.Background()
	a := newTestMember("Asha Devi", "4321")
	b := newTestMember("Ram Patil", "8765")
	b.CreatedAt = a.CreatedAt.Add(time.Second)
	s.Require().NoError(s.store.Create(ctx, a))
	s.Require().NoError(s.store.Create(ctx, b))

	listed, err := s.store.ListByProgram(ctx, "prog-wardha")
	s.Require().NoError(err)
	s.Require().Len(listed, 2)
	s.Equal(a.ID, listed[0].ID, "ordered by creation time")

	other, err := s.store.ListByProgram(ctx, "prog-other")
	s.Require().NoError(err)
	s.Empty(other)
}

func (s *PostgresStoreSuite) TestFindMissing() {
	_, err := s.store.FindByID(context.Background(), id.NewMemberID())
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindByNaturalKey(context.Background(),
		member.NewNaturalKey("nobody", "9999", "prog-wardha"))
	s.ErrorIs(err, sentinel.ErrNotFound)
}
