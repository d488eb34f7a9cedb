package review

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findash-api/internal/models"
)

// fakeStore serves canned sessions and applies patches in place, echoing the
// authoritative items back the way the HTTP store would.
type fakeStore struct {
	sessions map[string]*models.ImportSession
}

func newFakeStore(sessions ...*models.ImportSession) *fakeStore {
	store := &fakeStore{sessions: make(map[string]*models.ImportSession)}
	for _, s := range sessions {
		store.sessions[s.ID] = s
	}
	return store
}

func (f *fakeStore) Get(_ context.Context, importID string) (*models.ImportSession, error) {
	session, ok := f.sessions[importID]
	if !ok {
		return nil, fmt.Errorf("unknown session %s", importID)
	}
	copySession := *session
	copySession.Items = append([]models.ImportItem{}, session.Items...)
	return &copySession, nil
}

func (f *fakeStore) UpdateItem(_ context.Context, importID, itemID string, patch models.UpdateImportItemRequest) (*models.ImportItem, error) {
	session := f.sessions[importID]
	for i := range session.Items {
		if session.Items[i].ID == itemID {
			applyTestPatch(&session.Items[i], patch)
			copyItem := session.Items[i]
			return &copyItem, nil
		}
	}
	return nil, fmt.Errorf("unknown item %s", itemID)
}

func (f *fakeStore) UpdateItemsBatch(_ context.Context, importID string, req models.BatchUpdateImportItemsRequest) ([]models.ImportItem, error) {
	session := f.sessions[importID]
	patch := req.Patch()

	var updated []models.ImportItem
	for _, id := range req.ItemIDs {
		for i := range session.Items {
			if session.Items[i].ID == id {
				applyTestPatch(&session.Items[i], patch)
				updated = append(updated, session.Items[i])
			}
		}
	}
	return updated, nil
}

func (f *fakeStore) Confirm(_ context.Context, importID string) error {
	f.sessions[importID].Status = models.ImportStatusCompleted
	return nil
}

func (f *fakeStore) Cancel(_ context.Context, importID string) error {
	f.sessions[importID].Status = models.ImportStatusCancelled
	return nil
}

func applyTestPatch(item *models.ImportItem, patch models.UpdateImportItemRequest) {
	if patch.SupplierID != nil {
		v := *patch.SupplierID
		item.SupplierID = &v
	}
	if patch.CategoryID != nil {
		v := *patch.CategoryID
		item.CategoryID = &v
	}
	if patch.AccountType != nil {
		item.AccountType = *patch.AccountType
	}
}

type fakeResolver struct{}

func (fakeResolver) Counterparties(context.Context) ([]Option, error) {
	return []Option{{ID: "sup-1", Name: "ACME"}, {ID: "cli-1", Name: "Beta"}}, nil
}

func (fakeResolver) Categories(context.Context) ([]Option, error) {
	return []Option{{ID: "cat-1", Name: "Services"}}, nil
}

func testSession(id string, itemCount int) *models.ImportSession {
	session := &models.ImportSession{
		ID:           id,
		CompanyID:    "co1",
		FileName:     "extrato.csv",
		FileType:     models.ImportFileTypeCSV,
		Status:       models.ImportStatusPendingReview,
		TotalRecords: itemCount,
	}
	for i := 0; i < itemCount; i++ {
		session.Items = append(session.Items, models.ImportItem{
			ID:          fmt.Sprintf("item-%d", i),
			ImportID:    id,
			Description: fmt.Sprintf("line %d", i),
			AccountType: models.EntryTypePayable,
		})
	}
	return session
}

func strp(s string) *string { return &s }

func TestControllerLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("resets selection and paging", func(t *testing.T) {
		store := newFakeStore(testSession("imp-1", 3))
		ctrl := NewController(store, fakeResolver{})

		require.NoError(t, ctrl.Load(ctx, "imp-1"))
		ctrl.ToggleSelect("item-0")
		assert.Equal(t, 1, ctrl.SelectedCount())

		require.NoError(t, ctrl.Load(ctx, "imp-1"))
		assert.Equal(t, 0, ctrl.SelectedCount())
		assert.Equal(t, 1, ctrl.Page())
	})

	t.Run("resolves lookup names", func(t *testing.T) {
		store := newFakeStore(testSession("imp-1", 1))
		ctrl := NewController(store, fakeResolver{})
		require.NoError(t, ctrl.Load(ctx, "imp-1"))

		assert.Equal(t, "ACME", ctrl.CounterpartyName("sup-1"))
		assert.Equal(t, "Services", ctrl.CategoryName("cat-1"))
		assert.Empty(t, ctrl.CounterpartyName("missing"))
	})

	t.Run("unknown session surfaces the error", func(t *testing.T) {
		ctrl := NewController(newFakeStore(), fakeResolver{})
		assert.Error(t, ctrl.Load(ctx, "missing"))
	})

	t.Run("failed reload clears the snapshot", func(t *testing.T) {
		store := newFakeStore(testSession("imp-1", 3))
		ctrl := NewController(store, fakeResolver{})
		require.NoError(t, ctrl.Load(ctx, "imp-1"))
		require.NotNil(t, ctrl.Session())

		require.Error(t, ctrl.Load(ctx, "missing"))

		assert.Nil(t, ctrl.Session())
		assert.Equal(t, 0, ctrl.SelectedCount())
		assert.Equal(t, 1, ctrl.Page())
		assert.ErrorIs(t, ctrl.EditSingle(ctx, "item-0", models.UpdateImportItemRequest{}), ErrNoSession)
	})
}

func TestControllerPaging(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(testSession("imp-1", 60))
	ctrl := NewController(store, fakeResolver{})
	require.NoError(t, ctrl.Load(ctx, "imp-1"))

	assert.Equal(t, 3, ctrl.TotalPages())
	assert.Len(t, ctrl.PagedItems(), PageSize)
	assert.Equal(t, "item-0", ctrl.PagedItems()[0].ID)

	ctrl.GoToPage(3)
	assert.Len(t, ctrl.PagedItems(), 10)
	assert.Equal(t, "item-50", ctrl.PagedItems()[0].ID)

	// Out-of-range targets clamp instead of failing.
	ctrl.GoToPage(99)
	assert.Equal(t, 3, ctrl.Page())
	ctrl.GoToPage(-1)
	assert.Equal(t, 1, ctrl.Page())
}

func TestControllerSelection(t *testing.T) {
	ctx := context.Background()

	t.Run("toggle flips membership and ignores unknown ids", func(t *testing.T) {
		store := newFakeStore(testSession("imp-1", 3))
		ctrl := NewController(store, fakeResolver{})
		require.NoError(t, ctrl.Load(ctx, "imp-1"))

		ctrl.ToggleSelect("item-1")
		assert.True(t, ctrl.IsSelected("item-1"))

		ctrl.ToggleSelect("item-1")
		assert.False(t, ctrl.IsSelected("item-1"))

		ctrl.ToggleSelect("ghost")
		assert.Equal(t, 0, ctrl.SelectedCount())
	})

	t.Run("select all spans every page", func(t *testing.T) {
		store := newFakeStore(testSession("imp-1", 60))
		ctrl := NewController(store, fakeResolver{})
		require.NoError(t, ctrl.Load(ctx, "imp-1"))

		ctrl.ToggleSelectAll()
		assert.Equal(t, 60, ctrl.SelectedCount())
		assert.True(t, ctrl.AllSelected())
		assert.True(t, ctrl.IsSelected("item-59"))

		ctrl.ToggleSelectAll()
		assert.Equal(t, 0, ctrl.SelectedCount())
	})
}

func TestControllerEditSingle(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(testSession("imp-1", 3))
	ctrl := NewController(store, fakeResolver{})
	require.NoError(t, ctrl.Load(ctx, "imp-1"))

	before := ctrl.Session()

	err := ctrl.EditSingle(ctx, "item-1", models.UpdateImportItemRequest{
		SupplierID: strp("sup-1"),
		CategoryID: strp("cat-1"),
	})
	require.NoError(t, err)

	after := ctrl.Session()
	require.NotNil(t, after.Items[1].SupplierID)
	assert.Equal(t, "sup-1", *after.Items[1].SupplierID)
	assert.Equal(t, 1, ctrl.ReadyCount())

	// The previous snapshot is untouched.
	assert.Nil(t, before.Items[1].SupplierID)
}

func TestControllerApplyBulk(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(testSession("imp-1", 3))
	ctrl := NewController(store, fakeResolver{})
	require.NoError(t, ctrl.Load(ctx, "imp-1"))

	ctrl.ToggleSelect("item-0")
	ctrl.ToggleSelect("item-2")

	err := ctrl.ApplyBulk(ctx, models.UpdateImportItemRequest{
		SupplierID: strp("sup-1"),
		CategoryID: strp("cat-1"),
	})
	require.NoError(t, err)

	session := ctrl.Session()
	assert.NotNil(t, session.Items[0].SupplierID)
	assert.Nil(t, session.Items[1].SupplierID)
	assert.NotNil(t, session.Items[2].SupplierID)

	assert.Equal(t, 2, ctrl.ReadyCount())
	assert.False(t, ctrl.AllReady())

	// Selection and page survive the bulk apply.
	assert.Equal(t, 2, ctrl.SelectedCount())
	assert.True(t, ctrl.IsSelected("item-0"))
	assert.Equal(t, 1, ctrl.Page())
}

func TestControllerApplyBulkEmptySelection(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(testSession("imp-1", 2))
	ctrl := NewController(store, fakeResolver{})
	require.NoError(t, ctrl.Load(ctx, "imp-1"))

	require.NoError(t, ctrl.ApplyBulk(ctx, models.UpdateImportItemRequest{CategoryID: strp("cat-2")}))
	assert.Nil(t, ctrl.Session().Items[0].CategoryID)
	assert.Nil(t, ctrl.Session().Items[1].CategoryID)
}

func TestControllerLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("confirm refreshes to terminal state", func(t *testing.T) {
		store := newFakeStore(testSession("imp-1", 2))
		ctrl := NewController(store, fakeResolver{})
		require.NoError(t, ctrl.Load(ctx, "imp-1"))
		assert.True(t, ctrl.IsEditable())

		require.NoError(t, ctrl.Confirm(ctx))
		assert.False(t, ctrl.IsEditable())
		assert.Equal(t, models.ImportStatusCompleted, ctrl.Session().Status)
	})

	t.Run("cancel refreshes to terminal state", func(t *testing.T) {
		store := newFakeStore(testSession("imp-1", 2))
		ctrl := NewController(store, fakeResolver{})
		require.NoError(t, ctrl.Load(ctx, "imp-1"))

		require.NoError(t, ctrl.Cancel(ctx))
		assert.False(t, ctrl.IsEditable())
		assert.Equal(t, models.ImportStatusCancelled, ctrl.Session().Status)
	})

	t.Run("operations before load fail", func(t *testing.T) {
		ctrl := NewController(newFakeStore(), fakeResolver{})
		assert.ErrorIs(t, ctrl.Confirm(ctx), ErrNoSession)
		assert.ErrorIs(t, ctrl.Cancel(ctx), ErrNoSession)
		assert.ErrorIs(t, ctrl.EditSingle(ctx, "x", models.UpdateImportItemRequest{}), ErrNoSession)
	})
}

func TestControllerDerivedValues(t *testing.T) {
	ctx := context.Background()

	t.Run("empty session has one page and is never ready", func(t *testing.T) {
		store := newFakeStore(testSession("imp-1", 0))
		ctrl := NewController(store, fakeResolver{})
		require.NoError(t, ctrl.Load(ctx, "imp-1"))

		assert.Equal(t, 1, ctrl.TotalPages())
		assert.Empty(t, ctrl.PagedItems())
		assert.False(t, ctrl.AllReady())
		assert.False(t, ctrl.AllSelected())
	})

	t.Run("all ready once every item is classified", func(t *testing.T) {
		store := newFakeStore(testSession("imp-1", 2))
		ctrl := NewController(store, fakeResolver{})
		require.NoError(t, ctrl.Load(ctx, "imp-1"))

		ctrl.ToggleSelectAll()
		require.NoError(t, ctrl.ApplyBulk(ctx, models.UpdateImportItemRequest{
			SupplierID: strp("sup-1"),
			CategoryID: strp("cat-1"),
		}))

		assert.Equal(t, 2, ctrl.ReadyCount())
		assert.True(t, ctrl.AllReady())
	})
}
