package admin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/stockroom/internal/catalog"
)

const (
	testTimeout = 2 * time.Second
	testTick    = 5 * time.Millisecond
)

func TestFormState_LoadFromThenInputRoundTrips(t *testing.T) {
	products := []catalog.Product{
		{ID: "1", Name: "Pen", Price: 10, Description: "blue", Image: "pen.png"},
		{ID: "sku-9", Name: "", Price: 0, Description: "", Image: ""},
		{ID: "42", Name: "  spaced  ", Price: -3, Description: "multi\nline", Image: "/img/a.jpg"},
	}
	for _, p := range products {
		f := NewFormState()
		f.LoadFrom(p)

		in, err := f.Input()
		require.NoError(t, err)
		assert.Equal(t, p.Input(), in)
		assert.Equal(t, p.ID, f.ID())
		assert.Equal(t, ModeEdit, f.Mode())
	}
}

func TestFormState_ResetAlwaysYieldsDefaults(t *testing.T) {
	f := NewFormState()
	f.LoadFrom(catalog.Product{ID: "3", Name: "Mug", Price: 7, Description: "tall", Image: "mug.png"})
	require.NoError(t, f.SetField(FieldPrice, "garbage"))

	f.Reset()

	assert.Equal(t, FormValues{Price: "0"}, f.Values())
	assert.True(t, f.ID().IsZero())
	assert.Equal(t, ModeCreate, f.Mode())
	in, err := f.Input()
	require.NoError(t, err)
	assert.Equal(t, catalog.ProductInput{}, in)
}

func TestFormState_SetFieldTouchesOnlyThatField(t *testing.T) {
	f := NewFormState()
	f.LoadFrom(catalog.Product{ID: "3", Name: "Mug", Price: 7, Description: "tall", Image: "mug.png"})

	for _, field := range Fields() {
		require.NoError(t, f.SetField(field, ""))
	}
	assert.Equal(t, FormValues{ID: "3"}, f.Values(), "clearing every field keeps the id")
	assert.Equal(t, ModeEdit, f.Mode())

	require.NoError(t, f.SetField(FieldName, "Cup"))
	assert.Equal(t, "Cup", f.Values().Get(FieldName))
	assert.Equal(t, "", f.Values().Get(FieldImage))
}

func TestFormState_SetFieldRejectsUnknownField(t *testing.T) {
	f := NewFormState()
	assert.Error(t, f.SetField("id", "9"))
	assert.True(t, f.ID().IsZero())
}

func TestFormState_PriceCoercion(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		invalid bool
	}{
		{"5", 5, false},
		{" 12 ", 12, false},
		{"", 0, false},
		{"   ", 0, false},
		{"-4", -4, false},
		{"1.5", 0, true},
		{"12abc", 0, true},
		{"five", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			f := NewFormState()
			require.NoError(t, f.SetField(FieldPrice, tt.raw))
			in, err := f.Input()
			if tt.invalid {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, FieldPrice, ve.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, in.Price)
		})
	}
}

func TestFormState_RevisionGuardsReset(t *testing.T) {
	f := NewFormState()
	require.NoError(t, f.SetField(FieldName, "Cup"))
	rev := f.Revision()

	require.NoError(t, f.SetField(FieldName, "Saucer"))
	assert.False(t, f.resetIfUnchanged(rev))
	assert.Equal(t, "Saucer", f.Values().Name)

	assert.True(t, f.resetIfUnchanged(f.Revision()))
	assert.Equal(t, FormValues{Price: "0"}, f.Values())
}
