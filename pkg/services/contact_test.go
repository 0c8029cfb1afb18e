package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Ramsey-B/fern/pkg/faults"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/reqcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOfficial_JoinsCompanyName(t *testing.T) {
	h := newHarness()
	h.store.seed(models.Companies,
		map[string]any{"id": "c1", "name": "Acme"},
	)
	h.store.seed(models.Contacts,
		map[string]any{"id": "p1", "name": "Ana", "company_id": "c1"},
		map[string]any{"id": "p2", "name": "Bo", "company_id": "dangling"},
	)
	svc := h.contacts(10)

	page, err := svc.ListOfficial(context.Background(), "", 1)
	require.NoError(t, err)
	require.Len(t, page.Data, 2)

	byID := map[string]models.Contact{}
	for _, c := range page.Data {
		byID[c.ID] = c
	}
	assert.Equal(t, "Acme", byID["p1"].CompanyName)
	assert.Empty(t, byID["p2"].CompanyName, "dangling company id stays unresolved")
}

func TestListLeads_FuzzyMatchAttachesCompanyID(t *testing.T) {
	h := newHarness()
	h.store.seed(models.Companies,
		map[string]any{"id": "c1", "name": "Acme"},
	)
	h.store.seed(models.Leads,
		map[string]any{"id": "l1", "name": "Cara", "company_name": "ACME Co., Ltd."},
		map[string]any{"id": "l2", "name": "Dee", "company_name": "Nowhere Gmbh"},
		map[string]any{"id": "l3", "name": "Eli", "company_name": ""},
	)
	svc := h.contacts(10)

	page, err := svc.ListLeads(context.Background(), "", 1)
	require.NoError(t, err)
	require.Len(t, page.Data, 3)

	byID := map[string]models.Lead{}
	for _, l := range page.Data {
		byID[l.ID] = l
	}
	assert.Equal(t, "c1", byID["l1"].MatchedCompanyID, "fuzzy key match attaches the company id")
	assert.Empty(t, byID["l2"].MatchedCompanyID)
	assert.Empty(t, byID["l3"].MatchedCompanyID)
}

func TestPromoteLead(t *testing.T) {
	h := newHarness()
	h.store.seed(models.Companies,
		map[string]any{"id": "c1", "name": "Acme"},
	)
	h.store.seed(models.Leads,
		map[string]any{"id": "l1", "name": "Cara", "email": "cara@example.com", "company_name": "Acme", "source": "webform"},
	)
	svc := h.contacts(10)
	ctx := reqcontext.SetUserID(context.Background(), "alice")

	contact, err := svc.PromoteLead(ctx, "l1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "Cara", contact.Name)
	assert.Equal(t, "c1", contact.CompanyID)
	assert.Equal(t, "cara@example.com", contact.Email)

	// the lead is gone afterward
	leads, err := svc.ListLeads(ctx, "", 1)
	require.NoError(t, err)
	assert.Empty(t, leads.Data)

	assert.Equal(t, []string{"promoted"}, h.auditor.actions())
}

func TestPromoteLead_LeadRemovalFailureLeavesContactVisible(t *testing.T) {
	h := newHarness()
	h.store.seed(models.Companies,
		map[string]any{"id": "c1", "name": "Acme"},
	)
	h.store.seed(models.Leads,
		map[string]any{"id": "l1", "name": "Cara", "company_name": "Acme"},
	)
	svc := h.contacts(10)
	ctx := context.Background()

	// warm the contacts cache with the pre-promotion state
	before, err := svc.ListOfficial(ctx, "", 1)
	require.NoError(t, err)
	require.Empty(t, before.Data)

	h.store.deleteErr = errors.New("register timeout")
	_, err = svc.PromoteLead(ctx, "l1", "c1")
	require.Error(t, err)

	// the contact is durable and must not hide behind the stale cache
	contacts, err := svc.ListOfficial(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, contacts.Data, 1)
	assert.Equal(t, "c1", contacts.Data[0].CompanyID)

	// the lead survives alongside it
	leads, err := svc.ListLeads(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, leads.Data, 1)

	// no audit entry for the failed promotion
	assert.Empty(t, h.auditor.actions())
}

func TestPromoteLead_MissingTargets(t *testing.T) {
	h := newHarness()
	h.store.seed(models.Leads,
		map[string]any{"id": "l1", "name": "Cara"},
	)
	svc := h.contacts(10)

	_, err := svc.PromoteLead(context.Background(), "ghost", "c1")
	assert.True(t, faults.IsNotFound(err))

	_, err = svc.PromoteLead(context.Background(), "l1", "ghost")
	assert.True(t, faults.IsNotFound(err))
}

func TestContactCreate_RequiresExistingCompany(t *testing.T) {
	h := newHarness()
	svc := h.contacts(10)

	_, err := svc.Create(context.Background(), models.CreateContactRequest{Name: "Ana", CompanyID: "ghost"})
	assert.True(t, faults.IsNotFound(err))
}

func TestContactUpdateAndDelete(t *testing.T) {
	h := newHarness()
	h.store.seed(models.Companies,
		map[string]any{"id": "c1", "name": "Acme"},
	)
	h.store.seed(models.Contacts,
		map[string]any{"id": "p1", "name": "Ana", "company_id": "c1", "email": "old@example.com"},
	)
	svc := h.contacts(10)
	ctx := context.Background()

	email := "new@example.com"
	updated, err := svc.Update(ctx, "p1", models.UpdateContactRequest{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "Ana", updated.Name, "untouched fields survive")

	require.NoError(t, svc.Delete(ctx, "p1"))
	err = svc.Delete(ctx, "p1")
	assert.True(t, faults.IsNotFound(err))
}
