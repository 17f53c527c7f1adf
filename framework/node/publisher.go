package node

import (
	"context"
	"fmt"

	"mahjong/framework/game"
	"mahjong/framework/stream"
)

// NatsPublisher 把牌桌事件发布到 {subject}.{gameID}
type NatsPublisher struct {
	cli     Client
	subject string
}

func NewNatsPublisher(cli Client, subject string) *NatsPublisher {
	return &NatsPublisher{cli: cli, subject: subject}
}

// Connect 连接 nats 并返回发布者
func Connect(url, subject string) (*NatsPublisher, error) {
	cli := NewNatsClient()
	if err := cli.Run(url); err != nil {
		return nil, err
	}
	return NewNatsPublisher(cli, subject), nil
}

func SubjectOf(subject, gameID string) string {
	return subject + "." + gameID
}

func (p *NatsPublisher) Publish(ctx context.Context, e game.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := stream.NewMessage(string(e.Type), e.GameID, e)
	if err != nil {
		return err
	}
	buf, err := msg.Encode()
	if err != nil {
		return err
	}
	if err := p.cli.SendMessage(SubjectOf(p.subject, e.GameID), buf); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// Client 供订阅方复用连接
func (p *NatsPublisher) Client() Client {
	return p.cli
}

func (p *NatsPublisher) Close() error {
	return p.cli.Close()
}
