package sink

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/funnel/pkg/errors"
	"github.com/matzehuels/funnel/pkg/funnel/widget"
)

// RenderJSON writes the chart layout: canvas size, body rectangle, segment
// coordinates and label boxes with their connectors.
func RenderJSON(ctx context.Context, c *widget.Chart) ([]byte, error) {
	done := track(ctx, FormatJSON, c)

	out := jsonOutput{Title: c.Config().Title, Snapshot: c.Snapshot()}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		err = errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
		done(0, err)
		return nil, err
	}
	done(len(data), nil)
	return data, nil
}

type jsonOutput struct {
	Title string `json:"title,omitempty"`
	widget.Snapshot
}
