package policy_test

import (
	"testing"

	"housemanagement/internal/models"
	"housemanagement/internal/policy"
	"housemanagement/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_SeesAll(t *testing.T) {
	regular := &models.User{Username: "owner"}
	staff := &models.User{Username: "staff", IsStaff: true}
	admin := &models.User{Username: "admin", IsSuperuser: true}

	testCases := []struct {
		name     string
		user     *models.User
		resource policy.Resource
		expected bool
	}{
		{"regular quotes", regular, policy.Quotes, false},
		{"regular conversations", regular, policy.Conversations, false},
		{"staff quotes", staff, policy.Quotes, false},
		{"staff projects", staff, policy.Projects, false},
		{"staff conversations", staff, policy.Conversations, true},
		{"superuser designs", admin, policy.Designs, true},
		{"superuser conversations", admin, policy.Conversations, true},
		{"anonymous", nil, policy.Designs, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, policy.For(tc.user, tc.resource).SeesAll())
		})
	}
}

func TestScope_Allows(t *testing.T) {
	owner := &models.User{BaseModel: models.BaseModel{ID: 7}, Username: "owner"}
	admin := &models.User{BaseModel: models.BaseModel{ID: 1}, IsSuperuser: true}

	assert.True(t, policy.For(owner, policy.Quotes).Allows(7))
	assert.False(t, policy.For(owner, policy.Quotes).Allows(8))
	assert.True(t, policy.For(admin, policy.Quotes).Allows(8))
	assert.False(t, policy.For(nil, policy.Quotes).Allows(7))
}

func TestScope_Apply(t *testing.T) {
	db := testutil.NewTestDB(t)

	alice := testutil.CreateUser(t, db.SQL)
	bob := testutil.CreateUser(t, db.SQL)
	staff := testutil.CreateUser(t, db.SQL, testutil.Staff)
	admin := testutil.CreateUser(t, db.SQL, testutil.Superuser)

	aliceDesign := testutil.CreateDesign(t, db.SQL, alice)
	bobDesign := testutil.CreateDesign(t, db.SQL, bob)
	testutil.CreateQuote(t, db.SQL, aliceDesign, alice, models.QuoteStatusPending)
	testutil.CreateQuote(t, db.SQL, bobDesign, bob, models.QuoteStatusPending)

	project := testutil.CreateProject(t, db.SQL, alice, nil)
	require.NoError(t, db.SQL.Create(&models.Conversation{ProjectID: project.ID, CustomerID: alice.ID}).Error)

	countQuotes := func(user *models.User) int64 {
		var count int64
		require.NoError(t, db.SQL.Model(&models.Quote{}).
			Scopes(policy.For(user, policy.Quotes).Apply).
			Count(&count).Error)
		return count
	}

	countConversations := func(user *models.User) int64 {
		var count int64
		require.NoError(t, db.SQL.Model(&models.Conversation{}).
			Scopes(policy.For(user, policy.Conversations).Apply).
			Count(&count).Error)
		return count
	}

	t.Run("owner sees only own quotes", func(t *testing.T) {
		assert.Equal(t, int64(1), countQuotes(alice))
		assert.Equal(t, int64(1), countQuotes(bob))
	})

	t.Run("staff without superuser sees own quotes only", func(t *testing.T) {
		assert.Equal(t, int64(0), countQuotes(staff))
	})

	t.Run("superuser sees every quote", func(t *testing.T) {
		assert.Equal(t, int64(2), countQuotes(admin))
	})

	t.Run("anonymous sees nothing", func(t *testing.T) {
		assert.Equal(t, int64(0), countQuotes(nil))
	})

	t.Run("conversations visible to customer and staff", func(t *testing.T) {
		assert.Equal(t, int64(1), countConversations(alice))
		assert.Equal(t, int64(0), countConversations(bob))
		assert.Equal(t, int64(1), countConversations(staff))
	})
}

func TestScope_Owned(t *testing.T) {
	admin := &models.User{BaseModel: models.BaseModel{ID: 1}, IsSuperuser: true}

	scope := policy.Owned(admin, policy.Designs)
	assert.False(t, scope.SeesAll())
	assert.True(t, scope.Allows(1))
	assert.False(t, scope.Allows(2))
}

func TestScope_Participants(t *testing.T) {
	staff := &models.User{BaseModel: models.BaseModel{ID: 3}, IsStaff: true}
	customer := &models.User{BaseModel: models.BaseModel{ID: 4}}

	assert.False(t, policy.For(staff, policy.Projects).SeesAll())
	assert.True(t, policy.Participants(staff, policy.Projects).SeesAll())
	assert.False(t, policy.Participants(customer, policy.Projects).SeesAll())
	assert.True(t, policy.Participants(customer, policy.Projects).Allows(4))
}

func TestScope_System(t *testing.T) {
	scope := policy.System(policy.Quotes)
	assert.True(t, scope.SeesAll())
	assert.True(t, scope.Allows(99))
	assert.Nil(t, scope.User())
}
