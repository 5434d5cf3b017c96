// internal/pin/notify.go
//
// Change hooks.
//
// Service calls a Notifier after each committed mutation so the live map
// (internal/live) and the event broker (internal/broker) can fan the change
// out.  A notifier error never fails the request; Service logs it and moves
// on because the row is already written.
package pin

import (
	"context"
	"errors"
)

// Notifier receives pin change events.
type Notifier interface {
	PinUpdated(ctx context.Context, v View) error
	PinDeleted(ctx context.Context, pinID string) error
	PinsExpired(ctx context.Context, count int64) error
}

// Notifiers fans one event out to several notifiers and joins their errors.
type Notifiers []Notifier

func (ns Notifiers) PinUpdated(ctx context.Context, v View) error {
	var errs []error
	for _, n := range ns {
		errs = append(errs, n.PinUpdated(ctx, v))
	}
	return errors.Join(errs...)
}

func (ns Notifiers) PinDeleted(ctx context.Context, pinID string) error {
	var errs []error
	for _, n := range ns {
		errs = append(errs, n.PinDeleted(ctx, pinID))
	}
	return errors.Join(errs...)
}

func (ns Notifiers) PinsExpired(ctx context.Context, count int64) error {
	var errs []error
	for _, n := range ns {
		errs = append(errs, n.PinsExpired(ctx, count))
	}
	return errors.Join(errs...)
}
