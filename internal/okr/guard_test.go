package okr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/okr-tracker/internal/models"
)

const (
	userA uint64 = 1
	userB uint64 = 2
)

func TestAuthorizeObjective(t *testing.T) {
	ownedByA := models.Objective{ID: 10, UserID: userA}
	ownedByB := models.Objective{ID: 11, UserID: userB}

	assert.Equal(t, Allowed, AuthorizeObjective(userA, ownedByA))
	assert.Equal(t, Denied, AuthorizeObjective(userA, ownedByB))
	assert.Equal(t, Denied, AuthorizeObjective(0, models.Objective{ID: 12}))
}

func TestAuthorizeKeyResult(t *testing.T) {
	parentA := models.Objective{ID: 10, UserID: userA}
	parentB := models.Objective{ID: 11, UserID: userB}
	krA := models.KeyResult{ID: 100, ObjectiveID: parentA.ID}
	krB := models.KeyResult{ID: 101, ObjectiveID: parentB.ID}

	assert.Equal(t, Allowed, AuthorizeKeyResult(userA, krA, parentA))
	assert.Equal(t, Denied, AuthorizeKeyResult(userA, krB, parentB))

	// a parent that is not the key result's objective never grants access
	assert.Equal(t, Denied, AuthorizeKeyResult(userA, krB, parentA))
}

func TestDecisionErr(t *testing.T) {
	require.NoError(t, Allowed.Err())
	require.ErrorIs(t, Denied.Err(), ErrNotOwner)
	assert.Equal(t, "allowed", Allowed.String())
	assert.Equal(t, "denied", Denied.String())
}
