package cwl

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

// Group describes a log group.
type Group struct {
	Name          string
	CreationTime  int64 // epoch millis
	StoredBytes   int64
	RetentionDays int32 // 0 = never expire
}

// Stream describes a log stream within a group.
type Stream struct {
	Name           string
	FirstEventTime int64 // epoch millis, 0 when the stream is empty
	LastEventTime  int64
}

// ListGroups returns all log groups, optionally restricted to a name
// prefix, following continuation tokens until exhausted.
func (c *Client) ListGroups(ctx context.Context, prefix string) ([]Group, error) {
	input := &cloudwatchlogs.DescribeLogGroupsInput{}
	if prefix != "" {
		input.LogGroupNamePrefix = &prefix
	}

	var groups []Group
	for {
		out, err := c.api.DescribeLogGroups(ctx, input)
		if err != nil {
			return nil, &FetchError{Group: prefix, Err: err}
		}
		for _, g := range out.LogGroups {
			groups = append(groups, groupFrom(g))
		}
		if out.NextToken == nil {
			break
		}
		input.NextToken = out.NextToken
	}

	return groups, nil
}

// ListStreams returns all streams of a log group, optionally restricted
// to a name prefix, following continuation tokens until exhausted.
func (c *Client) ListStreams(ctx context.Context, group, prefix string) ([]Stream, error) {
	input := &cloudwatchlogs.DescribeLogStreamsInput{
		LogGroupName: &group,
	}
	if prefix != "" {
		input.LogStreamNamePrefix = &prefix
	}

	var streams []Stream
	for {
		out, err := c.api.DescribeLogStreams(ctx, input)
		if err != nil {
			return nil, &FetchError{Group: group, Err: err}
		}
		for _, s := range out.LogStreams {
			streams = append(streams, streamFrom(s))
		}
		if out.NextToken == nil {
			break
		}
		input.NextToken = out.NextToken
	}

	return streams, nil
}

func groupFrom(g types.LogGroup) Group {
	out := Group{}
	if g.LogGroupName != nil {
		out.Name = *g.LogGroupName
	}
	if g.CreationTime != nil {
		out.CreationTime = *g.CreationTime
	}
	if g.StoredBytes != nil {
		out.StoredBytes = *g.StoredBytes
	}
	if g.RetentionInDays != nil {
		out.RetentionDays = *g.RetentionInDays
	}
	return out
}

func streamFrom(s types.LogStream) Stream {
	out := Stream{}
	if s.LogStreamName != nil {
		out.Name = *s.LogStreamName
	}
	if s.FirstEventTimestamp != nil {
		out.FirstEventTime = *s.FirstEventTimestamp
	}
	if s.LastEventTimestamp != nil {
		out.LastEventTime = *s.LastEventTimestamp
	}
	return out
}
