package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBritz/Aidpoint1/internal/core/domain"
)

func TestCatalogSeedAndGroup(t *testing.T) {
	db := newMemDB()
	svc := NewCatalogService(memCatalog{db}, nopLogger)
	ctx := context.Background()

	entries := func() []*domain.Privilege {
		return []*domain.Privilege{
			{Name: "view_applications", Category: "application_management"},
			{Name: "aid_request", Category: "operations"},
			{Name: "approve_applications", Category: "application_management"},
			{Name: "misc"},
		}
	}
	require.NoError(t, svc.Seed(ctx, entries()))
	firstID := db.privileges["aid_request"].ID
	require.NoError(t, svc.Seed(ctx, entries()))
	assert.Len(t, db.privileges, 4)
	assert.Equal(t, firstID, db.privileges["aid_request"].ID, "reseeding keeps ids")

	groups, err := svc.Grouped(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "application_management", groups[0].Category)
	assert.Equal(t, "approve_applications", groups[0].Privileges[0].Name)
	assert.Equal(t, "view_applications", groups[0].Privileges[1].Name)
	assert.Equal(t, "general", groups[1].Category)
	assert.Equal(t, "operations", groups[2].Category)

	assert.Error(t, svc.Seed(ctx, []*domain.Privilege{{Name: ""}}))
}
