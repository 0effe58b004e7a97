package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/stockroom/internal/catalog"
	"github.com/five82/stockroom/internal/state"
)

// Options wire a Controller to its collaborators.
type Options struct {
	Client        catalog.Service
	Store         *state.Store
	Notifier      Notifier
	Confirmer     Confirmer
	Logger        logrus.FieldLogger
	ToastDuration time.Duration
}

// Controller is the headless part of the products view. It routes form
// submission to create or update based on the form id, gates deletes behind
// confirmation, and refreshes the store after mutations settle instead of
// patching the list locally.
//
// Blocking methods (Mount, Refresh, Submit, Delete) are meant to run off the
// UI loop.
type Controller struct {
	client    catalog.Service
	store     *state.Store
	notifier  Notifier
	confirmer Confirmer
	log       logrus.FieldLogger
	toast     time.Duration

	form   *FormState
	create *Mutation[catalog.ProductInput]
	update *Mutation[UpdateRequest]
	remove *Mutation[catalog.ID]

	unmounted atomic.Bool
}

// NewController validates opts and builds a Controller with an empty form.
func NewController(opts Options) (*Controller, error) {
	if opts.Client == nil {
		return nil, errors.New("controller needs a product client")
	}
	if opts.Store == nil {
		return nil, errors.New("controller needs a product store")
	}

	c := &Controller{
		client:    opts.Client,
		store:     opts.Store,
		notifier:  opts.Notifier,
		confirmer: opts.Confirmer,
		log:       opts.Logger,
		toast:     opts.ToastDuration,
		form:      NewFormState(),
	}
	if c.notifier == nil {
		c.notifier = NotifierFunc(func(Notification) {})
	}
	if c.confirmer == nil {
		// Without a way to ask, never delete.
		c.confirmer = ConfirmFunc(func(context.Context, string) bool { return false })
	}
	if c.log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		c.log = discard
	}
	if c.toast <= 0 {
		c.toast = DefaultToastDuration
	}

	c.create = NewMutation(KindCreate, func(ctx context.Context, in catalog.ProductInput) (catalog.Product, error) {
		return c.client.Create(ctx, in)
	})
	c.update = NewMutation(KindUpdate, func(ctx context.Context, req UpdateRequest) (catalog.Product, error) {
		return c.client.Update(ctx, req.ID, req.Input)
	})
	c.remove = NewMutation(KindDelete, func(ctx context.Context, id catalog.ID) (catalog.Product, error) {
		return catalog.Product{}, c.client.Delete(ctx, id)
	})
	return c, nil
}

// Form exposes the form for rendering.
func (c *Controller) Form() *FormState {
	return c.form
}

// Snapshot returns the store's current snapshot.
func (c *Controller) Snapshot() state.Snapshot {
	return c.store.Snapshot()
}

// Mount loads the list for the first time.
func (c *Controller) Mount(ctx context.Context) error {
	c.unmounted.Store(false)
	c.store.Mute(false)
	return c.store.Refresh(ctx)
}

// Unmount abandons in-flight work: requests keep running, but once they
// settle no refresh, notification or form reset follows. List failures
// stop reaching the notifier too.
func (c *Controller) Unmount() {
	c.unmounted.Store(true)
	c.store.Mute(true)
}

// Refresh re-fetches the list on demand.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.store.Refresh(ctx)
}

// Busy reports whether any mutation is in flight.
func (c *Controller) Busy() bool {
	return c.create.Pending() || c.update.Pending() || c.remove.Pending()
}

// Submitting reports whether a create or update is in flight.
func (c *Controller) Submitting() bool {
	return c.create.Pending() || c.update.Pending()
}

// Edit loads p into the form, switching to edit mode.
func (c *Controller) Edit(p catalog.Product) {
	c.form.LoadFrom(p)
}

// Cancel drops any edit in progress and returns to create mode.
func (c *Controller) Cancel() {
	c.form.Reset()
}

// SetField records operator input for one field.
func (c *Controller) SetField(field Field, value string) error {
	return c.form.SetField(field, value)
}

// Submit validates the form and dispatches an update when it carries an id,
// a create otherwise. The form keeps its text while the request is in flight.
// On success it is reset (unless edited meanwhile), the operator is told and
// the list refreshed; on failure the text is kept so nothing is retyped.
func (c *Controller) Submit(ctx context.Context) error {
	rev := c.form.Revision()
	values := c.form.Values()

	input, err := values.Input()
	if err != nil {
		c.notify(SeverityError, "Invalid product", err.Error())
		return err
	}

	if values.ID.IsZero() {
		return c.create.Execute(ctx, input, func(o Outcome) {
			c.settleSubmit(ctx, o, rev, "", "Product Created", "Product has been created successfully")
		})
	}
	req := UpdateRequest{ID: values.ID, Input: input}
	return c.update.Execute(ctx, req, func(o Outcome) {
		c.settleSubmit(ctx, o, rev, req.ID, "Product Edited", "Product has been edited successfully")
	})
}

func (c *Controller) settleSubmit(ctx context.Context, o Outcome, rev uint64, id catalog.ID, title, desc string) {
	if id.IsZero() {
		id = o.Product.ID
	}
	entry := c.log.WithFields(logrus.Fields{"mutation": o.Kind.String(), "id": id.String()})
	if o.Err != nil {
		entry.WithError(o.Err).Warn("mutation failed")
	} else {
		entry.Info("mutation settled")
	}

	if c.unmounted.Load() {
		return
	}
	if o.Err != nil {
		c.notify(SeverityError, fmt.Sprintf("Unable to %s product", o.Kind), o.Err.Error())
		return
	}
	c.form.resetIfUnchanged(rev)
	c.notify(SeveritySuccess, title, desc)
	_ = c.store.Refresh(ctx)
}

// Delete asks for confirmation and then deletes id. Declining returns
// ErrDeclined without touching the network. Whatever the result, the list is
// refreshed once the request settles.
func (c *Controller) Delete(ctx context.Context, id catalog.ID) error {
	if id.IsZero() {
		return errors.New("delete: product id required")
	}
	if !c.confirmer.Confirm(ctx, c.deletePrompt(id)) {
		return ErrDeclined
	}

	return c.remove.Execute(ctx, id, func(o Outcome) {
		entry := c.log.WithFields(logrus.Fields{"mutation": o.Kind.String(), "id": id.String()})
		if o.Err != nil {
			entry.WithError(o.Err).Warn("mutation failed")
		} else {
			entry.Info("mutation settled")
		}

		if c.unmounted.Load() {
			return
		}
		if o.Err != nil {
			c.notify(SeverityError, "Unable to delete product", o.Err.Error())
		} else {
			if c.form.ID() == id {
				c.form.Reset()
			}
			c.notify(SeveritySuccess, "Product Deleted", "Product has been deleted successfully")
		}
		_ = c.store.Refresh(ctx)
	})
}

func (c *Controller) deletePrompt(id catalog.ID) string {
	for _, p := range c.store.Snapshot().Products {
		if p.ID == id && p.Name != "" {
			return fmt.Sprintf("Are you sure you want to delete %q (#%s)?", p.Name, id)
		}
	}
	return "Are you sure you want to delete this product?"
}

func (c *Controller) notify(sev Severity, title, desc string) {
	c.notifier.Notify(Notification{
		Title:       title,
		Description: desc,
		Severity:    sev,
		Duration:    c.toast,
	})
}
