package admin

import (
	"context"
	"encoding/json"
	"errors"

	"go.cachewatch.io/adminapi/events"
	"go.cachewatch.io/adminapi/schemagen"
)

// registerInconsistencySubscriptions registers the event fields of the
// Inconsistency entity. The subscription transport attaches the published
// payload to the resolver context for every delivered event.
func registerInconsistencySubscriptions(sb *schemagen.Schema) {
	s := sb.Subscription()

	s.FieldFunc("inconsistencyReported", func(ctx context.Context) (*Inconsistency, error) {
		payload := events.FromContext(ctx)
		if payload == nil {
			return nil, errors.New("no event payload on context")
		}

		var record Inconsistency
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, err
		}
		return &record, nil
	}, "Fires for every newly reported inconsistency.")
}
