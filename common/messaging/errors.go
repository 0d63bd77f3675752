package messaging

import (
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/zeromicro/go-zero/core/logx"
)

// ErrInvalidPayload 消息体无法解析
var ErrInvalidPayload = errors.New("invalid message payload")

// nonRetryableError 不可重试错误：重试也不会成功（如消息格式错误）
type nonRetryableError struct {
	err error
}

func (e *nonRetryableError) Error() string {
	return e.err.Error()
}

func (e *nonRetryableError) Unwrap() error {
	return e.err
}

// NewNonRetryableError 标记为不可重试
func NewNonRetryableError(err error) error {
	if err == nil {
		return nil
	}
	return &nonRetryableError{err: err}
}

// IsRetryable 判断错误是否可重试，未标记的错误视为可重试
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var nr *nonRetryableError
	return !errors.As(err, &nr) && !errors.Is(err, ErrInvalidPayload)
}

// dropNonRetryable 不可重试的错误直接确认消息，只记日志
func dropNonRetryable(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		msgs, err := h(msg)
		if err != nil && !IsRetryable(err) {
			logx.Errorf("[MQ] 丢弃不可重试消息: uuid=%s, topic=%s, err=%v",
				msg.UUID, message.SubscribeTopicFromCtx(msg.Context()), err)
			return nil, nil
		}
		return msgs, err
	}
}
