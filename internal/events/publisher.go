// Package events publishes domain events to an EventBridge bus.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
)

const SourceUserContext = "user-context"

var ErrRejected = errors.New("event rejected by bus")

type EventBridge interface {
	PutEvents(context.Context, *eventbridge.PutEventsInput, ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

type Publisher struct {
	Client EventBridge
	Bus    string
	Source string
}

func NewPublisher(client EventBridge, bus string) *Publisher {
	return &Publisher{Client: client, Bus: bus, Source: SourceUserContext}
}

// Publish sends one event whose detail is the JSON encoding of detail.
func (p *Publisher) Publish(ctx context.Context, detailType string, detail any) error {
	b, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("encode %s: %w", detailType, err)
	}

	out, err := p.Client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{{
			Source:       aws.String(p.Source),
			DetailType:   aws.String(detailType),
			Detail:       aws.String(string(b)),
			EventBusName: aws.String(p.Bus),
		}},
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", detailType, err)
	}
	if out.FailedEntryCount > 0 {
		code := ""
		if len(out.Entries) > 0 && out.Entries[0].ErrorCode != nil {
			code = *out.Entries[0].ErrorCode
		}
		return fmt.Errorf("put %s: %w: %s", detailType, ErrRejected, code)
	}
	return nil
}
