package cwl

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
)

// Event is one log event as returned by the backend. Timestamps are
// epoch milliseconds, assigned by CloudWatch.
type Event struct {
	Timestamp     int64  `json:"ts"`
	Message       string `json:"msg"`
	LogStreamName string `json:"stream,omitempty"`
	EventID       string `json:"event_id,omitempty"`
}

// RequestParameters scopes a fetch. LogGroupName is required; all other
// fields are optional. StreamNames and StreamNamePrefix are mutually
// exclusive (the backend rejects requests carrying both).
type RequestParameters struct {
	LogGroupName     string
	StreamNames      []string
	StreamNamePrefix string
	StartTime        int64 // epoch millis, 0 = unbounded
	EndTime          int64 // epoch millis, 0 = unbounded
	Limit            int64 // max events across all pages, 0 = unlimited
	Debug            bool  // page diagnostics to stderr
}

// pageSize is the per-call event cap requested from the backend. The
// cumulative Limit is enforced client-side across pages.
const pageSize = int32(10000)

// Fetch retrieves all events in the request scope, following the
// continuation token across pages until the backend is exhausted or the
// cumulative count reaches params.Limit. Page order is preserved as
// returned; CloudWatch emits events in non-decreasing timestamp order
// and Fetch does not re-sort. An empty scope yields an empty slice.
func (c *Client) Fetch(ctx context.Context, params RequestParameters) ([]Event, error) {
	if params.LogGroupName == "" {
		return nil, &FetchError{Group: params.LogGroupName, Err: fmt.Errorf("log group name is required")}
	}

	input := &cloudwatchlogs.FilterLogEventsInput{
		LogGroupName: &params.LogGroupName,
	}
	if len(params.StreamNames) > 0 {
		input.LogStreamNames = params.StreamNames
	}
	if params.StreamNamePrefix != "" {
		input.LogStreamNamePrefix = &params.StreamNamePrefix
	}
	if params.StartTime > 0 {
		input.StartTime = &params.StartTime
	}
	if params.EndTime > 0 {
		input.EndTime = &params.EndTime
	}
	perPage := pageSize
	if params.Limit > 0 && params.Limit < int64(perPage) {
		perPage = int32(params.Limit)
	}
	input.Limit = &perPage

	var events []Event
	var nextToken *string
	pages := 0

	for {
		input.NextToken = nextToken

		out, err := c.api.FilterLogEvents(ctx, input)
		if err != nil {
			return nil, &FetchError{Group: params.LogGroupName, Err: err}
		}
		pages++

		for _, fe := range out.Events {
			ev := Event{}
			if fe.Timestamp != nil {
				ev.Timestamp = *fe.Timestamp
			}
			if fe.Message != nil {
				ev.Message = *fe.Message
			}
			if fe.LogStreamName != nil {
				ev.LogStreamName = *fe.LogStreamName
			}
			if fe.EventId != nil {
				ev.EventID = *fe.EventId
			}
			events = append(events, ev)
			if params.Limit > 0 && int64(len(events)) >= params.Limit {
				if params.Debug {
					fmt.Fprintf(os.Stderr, "fetch: limit %d reached after %d pages\n", params.Limit, pages)
				}
				return events, nil
			}
		}

		if params.Debug {
			fmt.Fprintf(os.Stderr, "fetch: page %d, %d events, total %d\n", pages, len(out.Events), len(events))
		}

		nextToken = out.NextToken
		if nextToken == nil {
			break
		}
	}

	return events, nil
}
