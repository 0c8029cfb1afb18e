package services

import (
	"context"
	"strings"
	"testing"

	"github.com/Ramsey-B/fern/pkg/faults"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/reqcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyList_SearchAndPaginate(t *testing.T) {
	h := newHarness()
	h.store.seed(models.Companies,
		map[string]any{"id": "c1", "name": "Acme", "region": "North", "created_at": "2026-01-03T00:00:00Z"},
		map[string]any{"id": "c2", "name": "Globex", "region": "South", "created_at": "2026-01-02T00:00:00Z"},
		map[string]any{"id": "c3", "name": "Acme West", "region": "West", "created_at": "2026-01-01T00:00:00Z"},
	)
	svc := h.companies(2)

	page, err := svc.List(context.Background(), "acme", 1)
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Acme", page.Data[0].Name, "newest first")
	assert.Equal(t, "Acme West", page.Data[1].Name)
	assert.Equal(t, 2, page.Pagination.TotalItems)
	assert.False(t, page.Pagination.HasNext)

	page, err = svc.List(context.Background(), "", 2)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.True(t, page.Pagination.HasPrev)
}

func TestCompanyGet_JoinsAndLastActivity(t *testing.T) {
	h := newHarness()
	h.store.seed(models.Companies,
		map[string]any{"id": "c1", "name": "Acme", "created_at": "2026-01-01T00:00:00Z"},
	)
	h.store.seed(models.Contacts,
		map[string]any{"id": "p1", "name": "Ana", "company_id": "c1"},
		map[string]any{"id": "p2", "name": "Bo", "company_id": "other"},
	)
	// opportunity references the company by a fuzzy name variant
	h.store.seed(models.Opportunities,
		map[string]any{"id": "o1", "summary": "Renewal", "company_name": "Acme Co., Ltd. (Taiwan)"},
	)
	h.store.seed(models.Interactions,
		map[string]any{"id": "i1", "company_id": "c1", "occurred_at": "2026-02-10T00:00:00Z"},
	)
	h.store.seed(models.EventLogs,
		map[string]any{"id": "e1", "company_id": "c1", "occurred_at": "2026-03-01T00:00:00Z"},
	)
	svc := h.companies(10)

	detail, err := svc.Get(context.Background(), "c1")
	require.NoError(t, err)

	require.Len(t, detail.Contacts, 1)
	assert.Equal(t, "Ana", detail.Contacts[0].Name)

	require.Len(t, detail.Opportunities, 1)
	assert.Equal(t, "c1", detail.Opportunities[0].CompanyID)
	assert.Equal(t, "Acme", detail.Opportunities[0].CompanyLabel)

	assert.Equal(t, "2026-03-01T00:00:00Z", detail.LastActivity, "max timestamp across both child collections")
}

func TestCompanyGet_LastActivityFallsBackToCreation(t *testing.T) {
	h := newHarness()
	h.store.seed(models.Companies,
		map[string]any{"id": "c1", "name": "Quiet Co", "created_at": "2026-01-01T00:00:00Z"},
	)
	svc := h.companies(10)

	detail, err := svc.Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01T00:00:00Z", detail.LastActivity)
}

func TestCompanyGet_NotFound(t *testing.T) {
	h := newHarness()
	svc := h.companies(10)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, faults.IsNotFound(err))
}

func TestCompanyGroupByRegion_ZeroCountRegionKept(t *testing.T) {
	h := newHarness()
	h.store.seed(models.Companies,
		map[string]any{"id": "c1", "name": "Acme", "region": "North"},
	)
	svc := h.companies(10, "North", "South")

	groups, err := svc.GroupByRegion(context.Background())
	require.NoError(t, err)

	require.Contains(t, groups, "South")
	assert.Equal(t, 0, groups["South"].Count)
	assert.Empty(t, groups["South"].Members)
	assert.Equal(t, 1, groups["North"].Count)
}

func TestCompanyUpdate_MergesAndAppendsNotes(t *testing.T) {
	h := newHarness()
	h.store.seed(models.Companies,
		map[string]any{"id": "c1", "name": "Acme", "region": "North", "notes": "first touch"},
		map[string]any{"id": "c2", "name": "Globex"},
	)
	svc := h.companies(10)

	ctx := reqcontext.SetUserID(context.Background(), "alice")
	name := "Acme Global"
	notes := "renewed contract"
	updated, err := svc.Update(ctx, "c1", models.UpdateCompanyRequest{Name: &name, Notes: &notes})
	require.NoError(t, err)

	assert.Equal(t, "Acme Global", updated.Name)
	assert.Equal(t, "North", updated.Region, "untouched fields survive the merge")
	assert.True(t, strings.HasPrefix(updated.Notes, "first touch\n[alice, "), "existing notes are never discarded")
	assert.True(t, strings.HasSuffix(updated.Notes, "] renewed contract"))

	// the update targeted exactly the located row handle
	require.Len(t, h.store.updates, 1)
	assert.Equal(t, int64(1), h.store.updates[0].row)

	assert.Equal(t, []string{"updated"}, h.auditor.actions())
}

func TestCompanyUpdate_ReadAfterWrite(t *testing.T) {
	h := newHarness()
	h.store.seed(models.Companies,
		map[string]any{"id": "c1", "name": "Old Name", "created_at": "2026-01-01T00:00:00Z"},
	)
	svc := h.companies(10)
	ctx := context.Background()

	// prime the cache
	_, err := svc.List(ctx, "", 1)
	require.NoError(t, err)

	name := "New Name"
	_, err = svc.Update(ctx, "c1", models.UpdateCompanyRequest{Name: &name})
	require.NoError(t, err)

	page, err := svc.List(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "New Name", page.Data[0].Name, "write invalidates the cached collection")
}

func TestCompanyCreateAndDelete(t *testing.T) {
	h := newHarness()
	svc := h.companies(10)
	ctx := reqcontext.SetUserID(context.Background(), "bob")

	created, err := svc.Create(ctx, models.CreateCompanyRequest{Name: "Initech", Region: "East"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.CreatedAt)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.True(t, faults.IsNotFound(err))

	assert.Equal(t, []string{"created", "deleted"}, h.auditor.actions())
}
