package family_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samadhan/internal/audit"
	"samadhan/internal/family"
	familymetrics "samadhan/internal/family/metrics"
	"samadhan/internal/member"
	"samadhan/internal/platform/logger"
	id "samadhan/pkg/domain"
	domainerrors "samadhan/pkg/domain-errors"
	"samadhan/pkg/platform/tx"
)

type fixture struct {
	families *family.InMemoryStore
	members  *member.InMemoryStore
	audit    *audit.InMemoryStore
	service  *family.Service
}

var testMetrics = familymetrics.New()

func newFixture(t *testing.T) *fixture {
	t.Helper()
	families := family.NewInMemoryStore()
	members := member.NewInMemoryStore()
	auditStore := audit.NewInMemoryStore()
	log := logger.New()
	service := family.NewService(families, members, tx.NewLockRunner(),
		audit.NewStorePublisher(auditStore, log), testMetrics, log)
	return &fixture{families: families, members: members, audit: auditStore, service: service}
}

func (f *fixture) addMember(t *testing.T, name, aadhar, phone string) member.Member {
	t.Helper()
	m := member.Member{
		ID:             id.NewMemberID(),
		Name:           name,
		NormalizedName: member.NormalizeName(name),
		AadharLastFour: aadhar,
		PhoneNumber:    phone,
		ProgramID:      "prog-wardha",
	}
	require.NoError(t, f.members.Create(context.Background(), m))
	return m
}

func TestCreateFamilyProjectsArraysAndBackReferences(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	a := fx.addMember(t, "Asha Devi", "4321", "9000000001")
	b := fx.addMember(t, "Ram Devi", "8765", "9000000002")

	created, err := fx.service.Create(ctx, "Devi Household", "prog-wardha", []id.MemberID{a.ID, b.ID})
	require.NoError(t, err)

	assert.True(t, created.Aligned())
	assert.Equal(t, []id.MemberID{a.ID, b.ID}, created.MemberIDs)
	assert.Equal(t, []string{"Asha Devi", "Ram Devi"}, created.MemberNames)
	assert.Equal(t, []string{"4321", "8765"}, created.MemberAadharList)
	assert.Equal(t, []string{"9000000001", "9000000002"}, created.MemberPhoneNumbers)

	for _, memberID := range []id.MemberID{a.ID, b.ID} {
		stored, err := fx.members.FindByID(ctx, memberID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, stored.FamilyID)
	}
}

func TestCreateFamilyRejectsUnknownMember(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.service.Create(context.Background(), "Ghost Household", "prog-wardha",
		[]id.MemberID{id.NewMemberID()})
	require.Error(t, err)
	assert.True(t, domainerrors.HasCode(err, domainerrors.CodeBadRequest))
}

func TestAttachMemberIsAddOnlyAndIdempotent(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	a := fx.addMember(t, "Asha Devi", "4321", "9000000001")
	created, err := fx.service.Create(ctx, "Devi Household", "prog-wardha", []id.MemberID{a.ID})
	require.NoError(t, err)

	b := fx.addMember(t, "Ram Devi", "8765", "9000000002")
	require.NoError(t, fx.service.AttachMember(ctx, created.ID, b))

	got, err := fx.service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []id.MemberID{a.ID, b.ID}, got.MemberIDs)
	assert.True(t, got.Aligned())

	storedB, err := fx.members.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, storedB.FamilyID)

	// Re-attaching must not duplicate the row in the arrays.
	require.NoError(t, fx.service.AttachMember(ctx, created.ID, b))
	got, err = fx.service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, got.MemberIDs, 2)
}

// Membership edit: target=[A,B] against previous=[A,C] adds B, removes C, and
// rebuilds the arrays in target order.
func TestSetMembershipReconcilesBothSides(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	a := fx.addMember(t, "Asha Devi", "4321", "9000000001")
	c := fx.addMember(t, "Chand Devi", "1111", "9000000003")
	created, err := fx.service.Create(ctx, "Devi Household", "prog-wardha", []id.MemberID{a.ID, c.ID})
	require.NoError(t, err)

	b := fx.addMember(t, "Ram Devi", "8765", "9000000002")
	updated, err := fx.service.SetMembership(ctx, created.ID, []id.MemberID{a.ID, b.ID})
	require.NoError(t, err)

	assert.Equal(t, []id.MemberID{a.ID, b.ID}, updated.MemberIDs)
	assert.Equal(t, []string{"Asha Devi", "Ram Devi"}, updated.MemberNames)
	assert.Equal(t, []string{"4321", "8765"}, updated.MemberAadharList)
	assert.Equal(t, []string{"9000000001", "9000000002"}, updated.MemberPhoneNumbers)
	assert.True(t, updated.Aligned())

	storedB, err := fx.members.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, storedB.FamilyID)

	storedC, err := fx.members.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, storedC.FamilyID.IsNil())
}

func TestSetMembershipIsIdempotent(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	a := fx.addMember(t, "Asha Devi", "4321", "9000000001")
	b := fx.addMember(t, "Ram Devi", "8765", "9000000002")
	created, err := fx.service.Create(ctx, "Devi Household", "prog-wardha", []id.MemberID{a.ID})
	require.NoError(t, err)

	target := []id.MemberID{a.ID, b.ID}
	first, err := fx.service.SetMembership(ctx, created.ID, target)
	require.NoError(t, err)
	auditEventsAfterFirst := len(fx.audit.All())

	second, err := fx.service.SetMembership(ctx, created.ID, target)
	require.NoError(t, err)

	assert.Equal(t, first.MemberIDs, second.MemberIDs)
	assert.Equal(t, first.MemberNames, second.MemberNames)
	assert.Equal(t, first.MemberAadharList, second.MemberAadharList)
	assert.Equal(t, first.MemberPhoneNumbers, second.MemberPhoneNumbers)
	// No additional membership-change events on the no-op second run.
	assert.Equal(t, auditEventsAfterFirst, len(fx.audit.All()))
}

func TestSetMembershipRejectsUnknownTarget(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	a := fx.addMember(t, "Asha Devi", "4321", "9000000001")
	created, err := fx.service.Create(ctx, "Devi Household", "prog-wardha", []id.MemberID{a.ID})
	require.NoError(t, err)

	_, err = fx.service.SetMembership(ctx, created.ID, []id.MemberID{a.ID, id.NewMemberID()})
	require.Error(t, err)
	assert.True(t, domainerrors.HasCode(err, domainerrors.CodeBadRequest))

	// The failed edit must not have touched the stored family.
	got, err := fx.service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []id.MemberID{a.ID}, got.MemberIDs)
}

func TestSearchMatchesNameAndAadhar(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	a := fx.addMember(t, "Asha Devi", "4321", "9000000001")
	b := fx.addMember(t, "Sunil Pawar", "9876", "9000000002")
	_, err := fx.service.Create(ctx, "Devi Household", "prog-wardha", []id.MemberID{a.ID})
	require.NoError(t, err)
	_, err = fx.service.Create(ctx, "Pawar Household", "prog-wardha", []id.MemberID{b.ID})
	require.NoError(t, err)

	byName, err := fx.service.Search(ctx, "prog-wardha", "pawar")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Pawar Household", byName[0].FamilyName)

	byAadhar, err := fx.service.Search(ctx, "prog-wardha", "4321")
	require.NoError(t, err)
	require.Len(t, byAadhar, 1)
	assert.Equal(t, "Devi Household", byAadhar[0].FamilyName)

	all, err := fx.service.Search(ctx, "prog-wardha", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
