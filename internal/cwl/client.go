// Package cwl wraps the CloudWatch Logs API used by cwgrep: paginated
// event retrieval plus log group and stream discovery.
package cwl

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
)

// api abstracts the CloudWatch Logs client methods used by Client.
type api interface {
	FilterLogEvents(ctx context.Context, params *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error)
	DescribeLogGroups(ctx context.Context, params *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error)
	DescribeLogStreams(ctx context.Context, params *cloudwatchlogs.DescribeLogStreamsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogStreamsOutput, error)
}

// Options controls client construction.
type Options struct {
	Region  string // overrides the default region chain when non-empty
	Profile string // shared config profile, default chain when empty
}

// Client fetches log events from CloudWatch Logs.
type Client struct {
	api api
}

// New builds a Client from the default AWS config chain.
func New(ctx context.Context, opts Options) (*Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Client{api: cloudwatchlogs.NewFromConfig(cfg)}, nil
}

// FetchError wraps a backend rejection of a retrieval request.
type FetchError struct {
	Group string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Group, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
