package services

import (
	"testing"

	"github.com/microsite-ads/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsGhost(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		product *models.ProductConfig
		ghost   bool
	}{
		{"placeholder name", "amino", product("amino", "Untitled Product", models.VerticalHealth), true},
		{"placeholder name is exact", "amino", product("amino", "Untitled Product 2", models.VerticalHealth), false},
		{"garbage marker", "amino", product("amino", "Amino [object Object]", models.VerticalHealth), true},
		{"good product", "good", product("good", "Good Product", models.VerticalHealth), false},
		{"ghost key general", "other:123", product("other:123", "Something", models.VerticalGeneral), true},
		{"ghost key other", "other:9", product("other:9", "Something", models.VerticalOther), true},
		{"ghost key classified", "other:123", product("other:123", "Something", models.VerticalHealth), false},
		{"sentinel without ghost key", "misc", product("misc", "Misc", models.VerticalGeneral), false},
		{"key decides, not embedded slug", "fine", product("other:1", "Fine", models.VerticalGeneral), false},
		{"nil entry", "x", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ghost, isGhost(tt.key, tt.product))
		})
	}
}

func TestCleanup(t *testing.T) {
	st := seeded(map[string]*models.ProductConfig{
		"untitled":  product("untitled", "Untitled Product", models.VerticalDIY),
		"good":      product("good", "Good Product", models.VerticalHealth),
		"other:123": product("other:123", "Imported", models.VerticalGeneral),
		"other:456": product("other:456", "Imported", models.VerticalHealth),
		"broken":    product("broken", "[object Object]", models.VerticalPets),
	})
	cfg := st.Read(t.Context())
	cfg.ActiveProductSlug = "broken"
	require.NoError(t, st.Write(t.Context(), cfg))

	auditor := &fakeAuditor{}
	svc := newProductService(st, auditor)

	res, err := svc.Cleanup(t.Context(), admin)
	require.NoError(t, err)
	assert.Equal(t, []string{"broken", "other:123", "untitled"}, res.Deleted)
	assert.Equal(t, 2, st.Writes())

	cfg = st.Read(t.Context())
	assert.Len(t, cfg.Products, 2)
	assert.NotNil(t, cfg.Product("good"))
	assert.NotNil(t, cfg.Product("other:456"))
	assert.Empty(t, cfg.ActiveProductSlug)
	assert.Equal(t, []string{"products_cleaned"}, auditor.actions())

	// second scan finds nothing and does not write
	res, err = svc.Cleanup(t.Context(), admin)
	require.NoError(t, err)
	assert.Empty(t, res.Deleted)
	assert.Equal(t, 2, st.Writes())
}

func TestCleanupWriteFailure(t *testing.T) {
	st := seeded(map[string]*models.ProductConfig{"untitled": product("untitled", "Untitled Product", models.VerticalDIY)})
	st.WriteErr = errBoom
	svc := newProductService(st, nil)

	_, err := svc.Cleanup(t.Context(), admin)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.NotNil(t, st.Read(t.Context()).Product("untitled"))
}
