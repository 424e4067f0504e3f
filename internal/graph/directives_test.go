package graph

import (
	"context"
	"testing"

	"paulapastas-be/internal/graph/model"
	"paulapastas-be/internal/utils"

	"github.com/stretchr/testify/assert"
)

func TestHasRole(t *testing.T) {
	customer := utils.SetUserContext(context.Background(), 7, "ana@example.com", "USER")
	admin := utils.SetUserContext(context.Background(), 1, "paula@example.com", utils.RoleAdmin)

	tests := []struct {
		name    string
		ctx     context.Context
		role    model.Role
		wantErr error
	}{
		{"anonymous on user field", context.Background(), model.RoleUser, ErrUnauthenticated},
		{"anonymous on admin field", context.Background(), model.RoleAdmin, ErrUnauthenticated},
		{"customer on user field", customer, model.RoleUser, nil},
		{"customer on admin field", customer, model.RoleAdmin, ErrForbidden},
		{"admin on admin field", admin, model.RoleAdmin, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := func(ctx context.Context) (any, error) {
				called = true
				return "ok", nil
			}

			res, err := HasRole(tt.ctx, nil, next, tt.role)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, called)
				assert.Nil(t, res)
				return
			}
			assert.NoError(t, err)
			assert.True(t, called)
			assert.Equal(t, "ok", res)
		})
	}
}
