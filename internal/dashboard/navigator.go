package dashboard

import (
	"context"
	"fmt"
	"sync"

	apperrors "growtheory/internal/errors"
	"growtheory/internal/models"
)

// PageSource is anything that can produce a dashboard page, usually a Cache.
type PageSource interface {
	GetPage(ctx context.Context, n int) (*models.DashboardPage, error)
}

// Navigator tracks the page being viewed. Requests outside the known page
// range are rejected before anything is fetched.
type Navigator struct {
	source PageSource

	mu         sync.Mutex
	current    *models.DashboardPage
	page       int
	generation uint64
}

// NewNavigator creates a navigator over source.
func NewNavigator(source PageSource) *Navigator {
	return &Navigator{source: source}
}

// Goto loads page n and makes it current. If a later Goto completes first,
// this call's response is discarded and the newer page is returned.
func (n *Navigator) Goto(ctx context.Context, page int) (*models.DashboardPage, error) {
	n.mu.Lock()
	if err := n.checkLocked(page); err != nil {
		n.mu.Unlock()
		return nil, err
	}
	n.generation++
	gen := n.generation
	n.mu.Unlock()

	result, err := n.source.GetPage(ctx, page)
	if err != nil {
		return nil, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if gen != n.generation {
		return n.current, nil
	}
	n.current = result
	n.page = page
	return result, nil
}

// Next moves one page forward.
func (n *Navigator) Next(ctx context.Context) (*models.DashboardPage, error) {
	return n.Goto(ctx, n.Page()+1)
}

// Prev moves one page back.
func (n *Navigator) Prev(ctx context.Context) (*models.DashboardPage, error) {
	return n.Goto(ctx, n.Page()-1)
}

// Page returns the current page number, 0 before the first load.
func (n *Navigator) Page() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.page
}

// Current returns the page being viewed, nil before the first load.
func (n *Navigator) Current() *models.DashboardPage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// HasNext reports whether a page follows the current one.
func (n *Navigator) HasNext() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current != nil && n.page < n.current.Pagination.TotalPages
}

// HasPrev reports whether a page precedes the current one.
func (n *Navigator) HasPrev() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.page > 1
}

func (n *Navigator) checkLocked(page int) error {
	if page < 1 {
		return fmt.Errorf("%w: page %d", apperrors.ErrPageOutOfRange, page)
	}
	// Page 1 always exists, even on an empty dashboard.
	if page != 1 && n.current != nil && !n.current.Pagination.Contains(page) {
		return fmt.Errorf("%w: page %d of %d", apperrors.ErrPageOutOfRange, page, n.current.Pagination.TotalPages)
	}
	return nil
}
