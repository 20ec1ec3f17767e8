package user

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aviato-app/aviato-match/internal/domain/shared"
)

func TestUser_Validate(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{"valid", User{ID: "u1", Name: "Maya", ReviewRating: 4.5, ReviewCount: 3}, false},
		{"negative approval is fine", User{ID: "u1", Name: "Maya", ApprovalRating: -7}, false},
		{"missing id", User{Name: "Maya"}, true},
		{"missing name", User{ID: "u1"}, true},
		{"review out of range", User{ID: "u1", Name: "Maya", ReviewRating: 5.5}, true},
		{"negative review count", User{ID: "u1", Name: "Maya", ReviewCount: -1}, true},
		{"bad avatar", User{ID: "u1", Name: "Maya", AvatarURL: "not a url"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, shared.IsValidation(err))
				assert.True(t, errors.Is(err, shared.ErrInvalidUser))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUser_WithMatchPercentage(t *testing.T) {
	u := User{ID: "u1", Name: "Maya"}
	scored := u.WithMatchPercentage(80)

	assert.False(t, u.HasMatchPercentage())
	require.True(t, scored.HasMatchPercentage())
	assert.Equal(t, 80, *scored.MatchPercentage)
}

func TestUser_Labels(t *testing.T) {
	assert.Equal(t, "+12", User{ApprovalRating: 12}.ApprovalLabel())
	assert.Equal(t, "0", User{ApprovalRating: 0}.ApprovalLabel())
	assert.Equal(t, "-3", User{ApprovalRating: -3}.ApprovalLabel())

	assert.Equal(t, "4.8 (12)", User{ReviewRating: 4.8, ReviewCount: 12}.ReviewLabel())
	assert.Equal(t, "5 (1)", User{ReviewRating: 5, ReviewCount: 1}.ReviewLabel())
}
