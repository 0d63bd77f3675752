package messaging

import (
	"fmt"
	"strings"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/zeromicro/go-zero/core/logx"
)

// watermillLogger 把 Watermill 日志转发到 logx
type watermillLogger struct {
	serviceName string
	fields      watermill.LogFields
}

// newWatermillLogger 创建 Watermill 日志适配器
func newWatermillLogger(serviceName string) watermill.LoggerAdapter {
	return &watermillLogger{serviceName: serviceName}
}

func (l *watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	logx.Errorf("[Watermill] [%s] %s: %v %s", l.serviceName, msg, err, l.format(fields))
}

func (l *watermillLogger) Info(msg string, fields watermill.LogFields) {
	logx.Infof("[Watermill] [%s] %s %s", l.serviceName, msg, l.format(fields))
}

func (l *watermillLogger) Debug(msg string, fields watermill.LogFields) {
	logx.Debugf("[Watermill] [%s] %s %s", l.serviceName, msg, l.format(fields))
}

// Trace 级别过于嘈杂，降为 Debug
func (l *watermillLogger) Trace(msg string, fields watermill.LogFields) {
	logx.Debugf("[Watermill] [%s] %s %s", l.serviceName, msg, l.format(fields))
}

func (l *watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillLogger{
		serviceName: l.serviceName,
		fields:      l.fields.Add(fields),
	}
}

func (l *watermillLogger) format(fields watermill.LogFields) string {
	all := l.fields.Add(fields)
	if len(all) == 0 {
		return ""
	}
	parts := make([]string, 0, len(all))
	for k, v := range all {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, " ")
}
