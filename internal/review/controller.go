package review

import (
	"context"
	"errors"
	"sync"

	"findash-api/internal/models"
)

// PageSize is how many items the review screen shows at once.
const PageSize = 25

// ErrNoSession is returned by operations invoked before a successful Load.
var ErrNoSession = errors.New("no import session loaded")

// Store is the session backend the controller drives. Implementations must
// return authoritative state: the controller reconciles its snapshot from
// what comes back, never from what it sent.
type Store interface {
	Get(ctx context.Context, importID string) (*models.ImportSession, error)
	UpdateItem(ctx context.Context, importID, itemID string, patch models.UpdateImportItemRequest) (*models.ImportItem, error)
	UpdateItemsBatch(ctx context.Context, importID string, req models.BatchUpdateImportItemsRequest) ([]models.ImportItem, error)
	Confirm(ctx context.Context, importID string) error
	Cancel(ctx context.Context, importID string) error
}

// Controller holds the client-side state of one review screen: the current
// session snapshot, the row selection and the page cursor. All mutation goes
// through the Store; the snapshot is replaced wholesale or item-by-item from
// store responses. Safe for concurrent use; the lock is never held across
// store calls.
type Controller struct {
	store    Store
	resolver Resolver

	mu         sync.Mutex
	session    *models.ImportSession
	targetID   string
	selected   map[string]struct{}
	page       int
	loading    bool
	confirming bool

	counterpartyNames map[string]string
	categoryNames     map[string]string
}

func NewController(store Store, resolver Resolver) *Controller {
	return &Controller{
		store:    store,
		resolver: resolver,
		selected: make(map[string]struct{}),
		page:     1,
	}
}

// Load fetches the session and resets selection and paging. If Load is
// called again for a different session before the first fetch returns, the
// slower response is discarded.
func (c *Controller) Load(ctx context.Context, importID string) error {
	c.mu.Lock()
	c.targetID = importID
	c.loading = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	names, err := c.resolveNames(ctx)
	if err != nil {
		c.clearIfTarget(importID)
		return err
	}

	session, err := c.store.Get(ctx, importID)
	if err != nil {
		c.clearIfTarget(importID)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.targetID != importID {
		return nil
	}
	c.session = session
	c.selected = make(map[string]struct{})
	c.page = 1
	c.counterpartyNames = names.counterparties
	c.categoryNames = names.categories
	return nil
}

// EditSingle patches one item and swaps the store's authoritative result
// into the snapshot by id.
func (c *Controller) EditSingle(ctx context.Context, itemID string, patch models.UpdateImportItemRequest) error {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return ErrNoSession
	}
	importID := c.session.ID
	c.mu.Unlock()

	item, err := c.store.UpdateItem(ctx, importID, itemID, patch)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.replaceItems(importID, *item)
	return nil
}

// ApplyBulk patches every selected item with the same values. Selection and
// page survive the call; items the store skipped stay as they were.
func (c *Controller) ApplyBulk(ctx context.Context, patch models.UpdateImportItemRequest) error {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return ErrNoSession
	}
	importID := c.session.ID
	ids := make([]string, 0, len(c.selected))
	for _, item := range c.session.Items {
		if _, ok := c.selected[item.ID]; ok {
			ids = append(ids, item.ID)
		}
	}
	c.mu.Unlock()

	if len(ids) == 0 {
		return nil
	}

	updated, err := c.store.UpdateItemsBatch(ctx, importID, models.BatchUpdateImportItemsRequest{
		ItemIDs:     ids,
		SupplierID:  patch.SupplierID,
		CategoryID:  patch.CategoryID,
		AccountType: patch.AccountType,
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.replaceItems(importID, updated...)
	return nil
}

// Confirm closes the session and refreshes the snapshot with its terminal
// state.
func (c *Controller) Confirm(ctx context.Context) error {
	return c.transition(ctx, c.store.Confirm)
}

// Cancel discards the session and refreshes the snapshot.
func (c *Controller) Cancel(ctx context.Context) error {
	return c.transition(ctx, c.store.Cancel)
}

func (c *Controller) transition(ctx context.Context, op func(context.Context, string) error) error {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return ErrNoSession
	}
	importID := c.session.ID
	c.confirming = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.confirming = false
		c.mu.Unlock()
	}()

	if err := op(ctx, importID); err != nil {
		return err
	}

	session, err := c.store.Get(ctx, importID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil && c.session.ID == importID {
		c.session = session
	}
	return nil
}

// ToggleSelect flips one row in and out of the selection. Unknown ids are
// ignored.
func (c *Controller) ToggleSelect(itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return
	}

	found := false
	for _, item := range c.session.Items {
		if item.ID == itemID {
			found = true
			break
		}
	}
	if !found {
		return
	}

	if _, ok := c.selected[itemID]; ok {
		delete(c.selected, itemID)
	} else {
		c.selected[itemID] = struct{}{}
	}
}

// ToggleSelectAll selects every item across all pages, or clears the
// selection when everything is already selected.
func (c *Controller) ToggleSelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return
	}

	if len(c.selected) == len(c.session.Items) && len(c.session.Items) > 0 {
		c.selected = make(map[string]struct{})
		return
	}
	for _, item := range c.session.Items {
		c.selected[item.ID] = struct{}{}
	}
}

// GoToPage moves the page cursor, clamped to the valid range. Purely local.
func (c *Controller) GoToPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.totalPagesLocked()
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}
	c.page = page
}

// Session returns the current snapshot; callers must treat it as read-only.
func (c *Controller) Session() *models.ImportSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// PagedItems returns the slice of items visible on the current page.
func (c *Controller) PagedItems() []models.ImportItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}

	start := (c.page - 1) * PageSize
	if start >= len(c.session.Items) {
		return nil
	}
	end := start + PageSize
	if end > len(c.session.Items) {
		end = len(c.session.Items)
	}
	return c.session.Items[start:end]
}

// ReadyCount is how many items are fully classified.
func (c *Controller) ReadyCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return 0
	}

	count := 0
	for i := range c.session.Items {
		if c.session.Items[i].IsClassified() {
			count++
		}
	}
	return count
}

// AllReady reports whether confirmation would pass the classification check.
func (c *Controller) AllReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil || len(c.session.Items) == 0 {
		return false
	}
	for i := range c.session.Items {
		if !c.session.Items[i].IsClassified() {
			return false
		}
	}
	return true
}

// AllSelected reports whether the selection spans every item.
func (c *Controller) AllSelected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil || len(c.session.Items) == 0 {
		return false
	}
	return len(c.selected) == len(c.session.Items)
}

// SelectedCount is the size of the current selection.
func (c *Controller) SelectedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.selected)
}

// IsSelected reports whether one row is in the selection.
func (c *Controller) IsSelected(itemID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.selected[itemID]
	return ok
}

// Page is the current 1-based page number.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// TotalPages is at least 1 even for an empty session.
func (c *Controller) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPagesLocked()
}

// IsLoading reports whether a Load is in flight.
func (c *Controller) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// IsConfirming reports whether a terminal transition is in flight.
func (c *Controller) IsConfirming() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirming
}

// IsEditable mirrors the snapshot's lifecycle state.
func (c *Controller) IsEditable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil && c.session.IsEditable()
}

// CounterpartyName resolves a supplier or client id for display.
func (c *Controller) CounterpartyName(id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counterpartyNames[id]
}

// CategoryName resolves a category id for display.
func (c *Controller) CategoryName(id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.categoryNames[id]
}

// clearIfTarget drops the snapshot after a failed load so the view cannot
// keep editing a session it failed to refresh. A load for a different
// session that completed meanwhile is left alone.
func (c *Controller) clearIfTarget(importID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.targetID != importID {
		return
	}
	c.session = nil
	c.selected = make(map[string]struct{})
	c.page = 1
}

func (c *Controller) totalPagesLocked() int {
	if c.session == nil || len(c.session.Items) == 0 {
		return 1
	}
	return (len(c.session.Items) + PageSize - 1) / PageSize
}

// replaceItems swaps updated items into a fresh copy of the snapshot.
// Callers hold the lock. The old snapshot is never mutated, so readers that
// grabbed it earlier keep a consistent view.
func (c *Controller) replaceItems(importID string, updated ...models.ImportItem) {
	if c.session == nil || c.session.ID != importID {
		return
	}

	byID := make(map[string]models.ImportItem, len(updated))
	for _, item := range updated {
		byID[item.ID] = item
	}

	next := *c.session
	next.Items = make([]models.ImportItem, len(c.session.Items))
	copy(next.Items, c.session.Items)
	for i := range next.Items {
		if item, ok := byID[next.Items[i].ID]; ok {
			next.Items[i] = item
		}
	}
	c.session = &next
}
