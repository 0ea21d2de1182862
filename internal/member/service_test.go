package member_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"samadhan/internal/audit"
	"samadhan/internal/eligibility"
	"samadhan/internal/member"
	"samadhan/internal/member/mocks"
	"samadhan/internal/platform/logger"
	id "samadhan/pkg/domain"
	domainerrors "samadhan/pkg/domain-errors"
	"samadhan/pkg/platform/sentinel"
	"samadhan/pkg/requestcontext"
)

type countingCounter struct{ created int }

func (c *countingCounter) IncrementMembersCreated() { c.created++ }

func newService(store member.Store) (*member.Service, *audit.InMemoryStore, *countingCounter) {
	auditStore := audit.NewInMemoryStore()
	counter := &countingCounter{}
	svc := member.NewService(store, audit.NewStorePublisher(auditStore, logger.New()), counter, logger.New())
	return svc, auditStore, counter
}

func submission() member.Submission {
	return member.Submission{
		Name:           "Asha Devi",
		PhoneNumber:    "9876543210",
		DateOfBirth:    "1988-04-12",
		AadharLastFour: "4321",
		ProgramID:      "prog-wardha",
		Location:       member.Location{Village: "Kharangna", District: "Wardha", State: "Maharashtra"},
		EligibleSchemes: []eligibility.Match{
			{ID: "s-pension", Name: "Old Age Pension"},
		},
	}
}

func TestRegisterCreatesNewMember(t *testing.T) {
	store := member.NewInMemoryStore()
	svc, auditStore, counter := newService(store)

	ctx := requestcontext.WithAgentID(context.Background(), "agent-7")
	created, outcome, err := svc.Register(ctx, submission(), "")
	require.NoError(t, err)

	assert.Equal(t, member.OutcomeCreated, outcome)
	assert.False(t, created.ID.IsNil())
	assert.Equal(t, "asha devi", created.NormalizedName)
	assert.Equal(t, id.AgentID("agent-7"), created.RegisteredBy)
	assert.Equal(t, 1, counter.created)

	events := auditStore.All()
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionMemberCreated, events[0].Action)
	assert.Equal(t, created.ID.String(), events[0].MemberID)
}

func TestRegisterSecondPassMergeUpdatesSameRecord(t *testing.T) {
	store := member.NewInMemoryStore()
	svc, _, _ := newService(store)
	ctx := context.Background()

	first, _, err := svc.Register(ctx, submission(), "")
	require.NoError(t, err)

	// Same person, fresh answers, different casing and spacing in the name.
	second := submission()
	second.Name = "ASHA  devi"
	second.PhoneNumber = "9000000000"
	merged, outcome, err := svc.Register(ctx, second, member.DecisionMerge)
	require.NoError(t, err)

	assert.Equal(t, member.OutcomeMerged, outcome)
	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, "9000000000", merged.PhoneNumber)
	// Identity fields survive the merge untouched.
	assert.Equal(t, "Asha Devi", merged.Name)
	assert.Equal(t, "asha devi", merged.NormalizedName)
	assert.Equal(t, "4321", merged.AadharLastFour)
	assert.Equal(t, 1, store.Count())
}

func TestRegisterDuplicateWithoutDecisionWritesNothing(t *testing.T) {
	store := member.NewInMemoryStore()
	svc, _, _ := newService(store)
	ctx := context.Background()

	first, _, err := svc.Register(ctx, submission(), "")
	require.NoError(t, err)

	again := submission()
	again.PhoneNumber = "9000000000"
	existing, outcome, err := svc.Register(ctx, again, "")
	require.NoError(t, err)

	assert.Equal(t, member.OutcomeDuplicate, outcome)
	assert.Equal(t, first.ID, existing.ID)
	// The stored record keeps its original phone number.
	stored, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", stored.PhoneNumber)
}

func TestRegisterDiscardKeepsExistingRecord(t *testing.T) {
	store := member.NewInMemoryStore()
	svc, auditStore, _ := newService(store)
	ctx := context.Background()

	first, _, err := svc.Register(ctx, submission(), "")
	require.NoError(t, err)

	existing, outcome, err := svc.Register(ctx, submission(), member.DecisionDiscard)
	require.NoError(t, err)
	assert.Equal(t, member.OutcomeDiscarded, outcome)
	assert.Equal(t, first.ID, existing.ID)
	assert.Equal(t, 1, store.Count())

	events := auditStore.All()
	require.Len(t, events, 2)
	assert.Equal(t, audit.ActionMemberDiscarded, events[1].Action)
}

func TestRegisterRejectsUnknownDecision(t *testing.T) {
	store := member.NewInMemoryStore()
	svc, _, _ := newService(store)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, submission(), "")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, submission(), "overwrite")
	require.Error(t, err)
	assert.True(t, domainerrors.HasCode(err, domainerrors.CodeBadRequest))
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newService(member.NewInMemoryStore())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*member.Submission)
	}{
		{"missing name", func(s *member.Submission) { s.Name = "   " }},
		{"missing aadhar", func(s *member.Submission) { s.AadharLastFour = "" }},
		{"missing program", func(s *member.Submission) { s.ProgramID = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := submission()
			tc.mutate(&sub)
			_, _, err := svc.Register(ctx, sub, "")
			require.Error(t, err)
			assert.True(t, domainerrors.HasCode(err, domainerrors.CodeBadRequest))
		})
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	store := member.NewInMemoryStore()
	svc, _, _ := newService(store)
	ctx := context.Background()

	key := member.NewNaturalKey("Asha Devi", "4321", "prog-wardha")
	_, found, err := svc.Resolve(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = svc.Resolve(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	created, _, err := svc.Register(ctx, submission(), "")
	require.NoError(t, err)

	got, found, err := svc.Resolve(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, created.ID, got.ID)
	again, found, err := svc.Resolve(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, got.ID, again.ID)
}

func TestRegisterRetriesAfterCreateConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	svc, _, _ := newService(store)

	sub := submission()
	key := member.NewNaturalKey(sub.Name, sub.AadharLastFour, sub.ProgramID)
	winner := member.Member{
		ID:             id.NewMemberID(),
		Name:           sub.Name,
		NormalizedName: key.NormalizedName,
		AadharLastFour: key.AadharLastFour,
		ProgramID:      key.ProgramID,
		PhoneNumber:    "1111111111",
	}

	// First lookup sees nothing; the insert then collides with a concurrent
	// registration, and the re-read finds the winner.
	gomock.InOrder(
		store.EXPECT().FindByNaturalKey(gomock.Any(), key).
			Return(member.Member{}, fmt.Errorf("member key lookup: %w", sentinel.ErrNotFound)),
		store.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(fmt.Errorf("member natural key: %w", sentinel.ErrConflict)),
		store.EXPECT().FindByNaturalKey(gomock.Any(), key).Return(winner, nil),
		store.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil),
	)

	merged, outcome, err := svc.Register(context.Background(), sub, member.DecisionMerge)
	require.NoError(t, err)
	assert.Equal(t, member.OutcomeMerged, outcome)
	assert.Equal(t, winner.ID, merged.ID)
	assert.Equal(t, sub.PhoneNumber, merged.PhoneNumber)
}

func TestMergeWithoutFamilyKeepsAssignment(t *testing.T) {
	store := member.NewInMemoryStore()
	svc, _, _ := newService(store)
	ctx := context.Background()

	created, _, err := svc.Register(ctx, submission(), "")
	require.NoError(t, err)

	familyID := id.NewFamilyID()
	require.NoError(t, store.SetFamilyID(ctx, created.ID, familyID))

	// A re-registration with no family context must not detach the member.
	merged, _, err := svc.Register(ctx, submission(), member.DecisionMerge)
	require.NoError(t, err)
	assert.Equal(t, familyID, merged.FamilyID)
}

func TestRegisterStampsTimesFromContext(t *testing.T) {
	store := member.NewInMemoryStore()
	svc, _, _ := newService(store)

	now := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	created, _, err := svc.Register(ctx, submission(), "")
	require.NoError(t, err)
	assert.Equal(t, now, created.CreatedAt)
	assert.Equal(t, now, created.UpdatedAt)
}
