package mirror

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Conn 结果镜像所需的最小发布接口，*nats.Conn 直接满足
type Conn interface {
	Publish(subject string, data []byte) error
}

// Publisher 把每次查询结果尽力而为地镜像到外部消息通道。
// 发布失败只记日志，永远不影响发起查询的请求
type Publisher struct {
	conn    Conn
	subject string
	logger  *logrus.Logger
}

// NewPublisher 创建结果镜像。conn为nil时降级为仅记录日志
func NewPublisher(conn Conn, subject string, logger *logrus.Logger) *Publisher {
	return &Publisher{
		conn:    conn,
		subject: subject,
		logger:  logger,
	}
}

// Publish 异步发布一条查询结果，调用方不等待也不感知失败
func (p *Publisher) Publish(label string, payload any) {
	go p.publish(label, payload)
}

func (p *Publisher) publish(label string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		// 序列化失败不静默丢弃：改发错误负载
		data = []byte(fmt.Sprintf("序列化%s结果失败: %v", label, err))
		p.logger.Errorf("镜像序列化失败: %s: %v", label, err)
	}

	p.logger.Infof("%s: %s", label, string(data))
	if p.conn == nil {
		return
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		p.logger.Errorf("镜像发布失败: %s: %v", label, err)
	}
}
