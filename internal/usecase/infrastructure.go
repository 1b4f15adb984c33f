package usecase

import "context"

type EventProducer interface {
	WriteEvent(ctx context.Context, event *ProductChangeEvent) error
}
