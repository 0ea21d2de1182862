//go:build integration

package family_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"samadhan/internal/family"
	id "samadhan/pkg/domain"
	"samadhan/pkg/platform/sentinel"
	"samadhan/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *family.PostgresStore
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
	s.store = family.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "families"))
}

func newTestFamily(name string) family.Family {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return family.Family{
		ID:                 id.NewFamilyID(),
		FamilyName:         name,
		ProgramID:          "prog-wardha",
		MemberIDs:          []id.MemberID{id.NewMemberID(), id.NewMemberID()},
		MemberNames:        []string{"Asha Devi", "Ram Patil"},
		MemberAadharList:   []string{"4321", "8765"},
		MemberPhoneNumbers: []string{"9000000001", "9000000002"},
		CreatedBy:          "agent-7",
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func (s *PostgresStoreSuite) TestCreateAndFindRoundTrip() {
	ctx := context.Background()
	f := newTestFamily("Devi Household")
	s.Require().NoError(s.store.Create(ctx, f))

	found, err := s.store.FindByID(ctx, f.ID)
	s.Require().NoError(err)
	s.Equal(f.FamilyName, found.FamilyName)
	s.Equal(f.MemberIDs, found.MemberIDs)
	s.Equal(f.MemberNames, found.MemberNames)
	s.Equal(f.MemberAadharList, found.MemberAadharList)
	s.Equal(f.MemberPhoneNumbers, found.MemberPhoneNumbers)
	s.True(found.Aligned())
}

func (s *PostgresStoreSuite) TestDuplicateIDConflicts() {
	ctx := context.Background()
	f := newTestFamily("Devi Household")
	s.Require().NoError(s.store.Create(ctx, f))
	s.ErrorIs(s.store.Create(ctx, f), sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestUpdateRewritesArraysTogether() {
	ctx := context.Background()
	f := newTestFamily("Devi Household")
	s.Require().NoError(s.store.Create(ctx, f))

	f.MemberIDs = f.MemberIDs[:1]
	f.MemberNames = f.MemberNames[:1]
	f.MemberAadharList = f.MemberAadharList[:1]
	f.MemberPhoneNumbers = f.MemberPhoneNumbers[:1]
	f.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	s.Require().NoError(s.store.Update(ctx, f))

	found, err := s.store.FindByID(ctx, f.ID)
	s.Require().NoError(err)
	s.Require().Len(found.MemberIDs, 1)
	s.True(found.Aligned())
	s.Equal([]string{"Asha Devi"}, found.MemberNames)
}

func (s *PostgresStoreSuite) TestUpdateMissingFamily() {
	err := s.store.Update(context.Background(), newTestFamily("Ghost Household"))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListByProgramAndAll() {
	ctx := context.Background()
	a := newTestFamily("Devi Household")
	b := newTestFamily("Patil Household")
	b.ProgramID = "prog-nagpur"
	b.CreatedAt = a.CreatedAt.Add(time.Second)
	s.Require().NoError(s.store.Create(ctx, a))
	s.Require().NoError(s.store.Create(ctx, b))

	wardha, err := s.store.ListByProgram(ctx, "prog-wardha")
	s.Require().NoError(err)
	s.Require().Len(wardha, 1)
	s.Equal(a.ID, wardha[0].ID)

	all, err := s.store.ListAll(ctx)
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *PostgresStoreSuite) TestFindMissing() {
	_, err := s.store.FindByID(context.Background(), id.NewFamilyID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}
