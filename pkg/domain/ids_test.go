package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMemberID(t *testing.T) {
	t.Run("valid uuid parses", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseMemberID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, valid.String(), id.String())
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := ParseMemberID("not-a-uuid")
		require.Error(t, err)
	})

	t.Run("nil uuid is rejected", func(t *testing.T) {
		_, err := ParseMemberID(uuid.Nil.String())
		require.Error(t, err)
	})
}

func TestParseFamilyID(t *testing.T) {
	valid := uuid.New()
	id, err := ParseFamilyID(valid.String())
	require.NoError(t, err)
	assert.Equal(t, valid.String(), id.String())

	_, err = ParseFamilyID("")
	require.Error(t, err)
}

func TestIsNil(t *testing.T) {
	assert.True(t, MemberID{}.IsNil())
	assert.True(t, FamilyID{}.IsNil())
	assert.True(t, SessionID{}.IsNil())
	assert.False(t, NewMemberID().IsNil())
	assert.False(t, NewFamilyID().IsNil())
	assert.False(t, NewSessionID().IsNil())
}
