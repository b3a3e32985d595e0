package command

import (
	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-policydoc/editor"
	"github.com/goliatone/go-policydoc/query"
)

// RegisterHandlers wires editor commands and queries to go-command.
func RegisterHandlers(reg *gcmd.Registry, svc editor.Service) ([]dispatcher.Subscription, error) {
	if svc == nil {
		return nil, errors.New("editor service is required", errors.CategoryValidation).
			WithTextCode("SERVICE_REQUIRED")
	}

	update := NewUpdateFieldHandler(svc)
	seed := NewSeedFieldsHandler(svc)
	exp := NewExportDocumentHandler(svc)

	fields := query.NewDocumentFieldsHandler(svc)
	rendered := query.NewRenderedDocumentHandler(svc)
	last := query.NewLastExportHandler(svc)

	subscriptions := []dispatcher.Subscription{
		dispatcher.SubscribeCommand(update),
		dispatcher.SubscribeCommand(seed),
		dispatcher.SubscribeCommand(exp),
		dispatcher.SubscribeQuery(fields),
		dispatcher.SubscribeQuery(rendered),
		dispatcher.SubscribeQuery(last),
	}

	if reg != nil {
		handlers := []any{update, seed, exp, fields, rendered, last}
		for _, handler := range handlers {
			if err := reg.RegisterCommand(handler); err != nil {
				return subscriptions, err
			}
		}
	}

	return subscriptions, nil
}

// Unsubscribe releases dispatcher subscriptions.
func Unsubscribe(subscriptions []dispatcher.Subscription) {
	for _, sub := range subscriptions {
		sub.Unsubscribe()
	}
}
