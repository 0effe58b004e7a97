package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/stockroom/internal/catalog"
)

func TestMutation_SettlesExactlyOnce(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name string
		err  error
	}{
		{"success", nil},
		{"failure", boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pendingDuringRun bool
			var m *Mutation[string]
			m = NewMutation(KindUpdate, func(_ context.Context, payload string) (catalog.Product, error) {
				pendingDuringRun = m.Pending()
				return catalog.Product{ID: catalog.ID(payload)}, tt.err
			})

			var outcomes []Outcome
			err := m.Execute(context.Background(), "7", func(o Outcome) {
				assert.False(t, m.Pending(), "pending cleared before continuation")
				outcomes = append(outcomes, o)
			})

			assert.ErrorIs(t, err, tt.err)
			assert.True(t, pendingDuringRun)
			assert.False(t, m.Pending())
			require.Len(t, outcomes, 1)
			assert.Equal(t, KindUpdate, outcomes[0].Kind)
			assert.Equal(t, tt.err, outcomes[0].Err)
			assert.Equal(t, catalog.ID("7"), outcomes[0].Product.ID)
		})
	}
}

func TestMutation_NilContinuation(t *testing.T) {
	m := NewMutation(KindDelete, func(context.Context, catalog.ID) (catalog.Product, error) {
		return catalog.Product{}, nil
	})
	require.NoError(t, m.Execute(context.Background(), "1", nil))
	assert.Equal(t, KindDelete, m.Kind())
}

func TestKindAndSeverityStrings(t *testing.T) {
	assert.Equal(t, "create", KindCreate.String())
	assert.Equal(t, "update", KindUpdate.String())
	assert.Equal(t, "delete", KindDelete.String())
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "success", SeveritySuccess.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "edit", ModeEdit.String())
}
