package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected string
	}{
		{
			name:     "first and last name",
			user:     User{Username: "somchai", FirstName: "Somchai", LastName: "Jaidee"},
			expected: "Somchai Jaidee",
		},
		{
			name:     "first name only",
			user:     User{Username: "somchai", FirstName: "Somchai"},
			expected: "Somchai",
		},
		{
			name:     "falls back to username",
			user:     User{Username: "somchai", FirstName: "  "},
			expected: "somchai",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.DisplayName())
		})
	}
}

func TestUser_Visibility(t *testing.T) {
	tests := []struct {
		name             string
		user             *User
		seeEverything    bool
		seeConversations bool
	}{
		{name: "nil user", user: nil},
		{name: "customer", user: &User{Username: "c"}},
		{name: "staff", user: &User{Username: "s", IsStaff: true}, seeConversations: true},
		{
			name:             "superuser",
			user:             &User{Username: "a", IsSuperuser: true},
			seeEverything:    true,
			seeConversations: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.seeEverything, tt.user.CanSeeEverything())
			assert.Equal(t, tt.seeConversations, tt.user.CanSeeAllConversations())
		})
	}
}

func TestUser_HasEmail(t *testing.T) {
	var nilUser *User
	assert.False(t, nilUser.HasEmail())
	assert.False(t, (&User{Email: "   "}).HasEmail())
	assert.True(t, (&User{Email: "owner@example.com"}).HasEmail())
}

func TestUser_BeforeSave(t *testing.T) {
	t.Run("derives full name", func(t *testing.T) {
		user := &User{Username: "somchai", FirstName: "Somchai", LastName: "Jaidee"}
		require.NoError(t, user.BeforeSave(nil))
		assert.Equal(t, "Somchai Jaidee", user.FullName)
	})

	t.Run("rejects blank username", func(t *testing.T) {
		user := &User{Username: " "}
		assert.Error(t, user.BeforeSave(nil))
	})
}

func TestUser_ToResponse(t *testing.T) {
	user := &User{
		BaseModel:    BaseModel{ID: 7},
		Username:     "somchai",
		Email:        "owner@example.com",
		PasswordHash: "secret",
		IsStaff:      true,
		Profile:      &Profile{Phone: "081-234-5678"},
	}

	response := user.ToResponse()

	assert.Equal(t, uint(7), response.ID)
	assert.Equal(t, "somchai", response.FullName)
	assert.True(t, response.IsStaff)
	assert.False(t, response.IsSuperuser)
	require.NotNil(t, response.Profile)
	assert.Equal(t, "081-234-5678", response.Profile.Phone)
}
