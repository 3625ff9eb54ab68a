// Package confirm holds catalog mutations until the operator confirms or
// cancels them. Only one action can wait for confirmation at a time.
package confirm

import (
	"context"

	"github.com/agentstation/catalogadmin/pkg/products"
)

// Kind names the mutation an action performs.
type Kind string

// Action kinds.
const (
	KindAdd    Kind = "add"
	KindEdit   Kind = "edit"
	KindDelete Kind = "delete"
)

// Applier performs confirmed mutations against the catalog.
type Applier interface {
	Create(ctx context.Context, draft products.Draft) (products.Entry, error)
	Update(ctx context.Context, id int, patch products.Patch) (products.Entry, error)
	Delete(ctx context.Context, id int) error
}

// Action is a pending catalog mutation. The set of actions is closed:
// Add, Edit and Delete are the only implementations.
type Action interface {
	Kind() Kind
	// Target returns the id of the affected entry, or 0 for Add.
	Target() int
	apply(ctx context.Context, to Applier) (products.Entry, error)
	release()
}

// Add creates a new entry from Draft.
type Add struct {
	Draft products.Draft
}

// Edit changes Original by Changes.
type Edit struct {
	Original products.Entry
	Changes  products.Patch
}

// Delete removes Original.
type Delete struct {
	Original products.Entry
}

// Kind implements Action.
func (Add) Kind() Kind { return KindAdd }

// Kind implements Action.
func (Edit) Kind() Kind { return KindEdit }

// Kind implements Action.
func (Delete) Kind() Kind { return KindDelete }

// Target implements Action.
func (Add) Target() int { return 0 }

// Target implements Action.
func (a Edit) Target() int { return a.Original.ID }

// Target implements Action.
func (a Delete) Target() int { return a.Original.ID }

func (a Add) apply(ctx context.Context, to Applier) (products.Entry, error) {
	return to.Create(ctx, a.Draft)
}

func (a Edit) apply(ctx context.Context, to Applier) (products.Entry, error) {
	return to.Update(ctx, a.Original.ID, a.Changes)
}

func (a Delete) apply(ctx context.Context, to Applier) (products.Entry, error) {
	if err := to.Delete(ctx, a.Original.ID); err != nil {
		return products.Entry{}, err
	}
	return a.Original, nil
}

func (a Add) release()    { _ = a.Draft.Image.Release() }
func (a Edit) release()   { _ = a.Changes.Image.Release() }
func (a Delete) release() {}
