package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/actionbridge/pkg/domain"
	"github.com/aretw0/actionbridge/pkg/registry"
	"github.com/mitchellh/mapstructure"
)

// Shortcut returns an executor that always dispatches with method m.
// A different method embedded in the action is overridden; the mismatch is
// logged and reported through Hooks.OnMethodOverride, never failed.
func (d *Dispatcher) Shortcut(m domain.Method) registry.ExecutorFunc {
	return func(ctx context.Context, args any) (any, error) {
		action, err := DecodeAction(args)
		if err != nil {
			return nil, err
		}

		if action.Method != "" && !action.Method.Same(m) {
			d.logger.WarnContext(ctx, "action method overridden by shortcut",
				"declared", string(action.Method),
				"enforced", string(m),
				"path", action.Path,
			)
			if d.hooks.OnMethodOverride != nil {
				d.hooks.OnMethodOverride(ctx, &domain.OverrideEvent{
					EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventMethodOverride},
					Declared:  action.Method,
					Enforced:  m,
					Path:      action.Path,
				})
			}
		}

		return d.Dispatch(ctx, action.WithMethod(m)).Await(ctx)
	}
}

// DecodeAction converts executor arguments into an Action.
// Arguments may already be an Action or a generic map as produced by JSON
// decoding. The result is not validated.
func DecodeAction(args any) (domain.Action, error) {
	switch a := args.(type) {
	case domain.Action:
		return a, nil
	case *domain.Action:
		if a == nil {
			return domain.Action{}, &domain.ActionError{Err: errNoArgs}
		}
		return *a, nil
	case nil:
		return domain.Action{}, &domain.ActionError{Err: errNoArgs}
	}

	var action domain.Action
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &action,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return domain.Action{}, err
	}
	if err := dec.Decode(args); err != nil {
		return domain.Action{}, &domain.ActionError{Err: fmt.Errorf("invalid action arguments: %w", err)}
	}
	return action, nil
}
