package domain

import (
	"context"
	"time"
)

const (
	UserRegisteredEventType = "user.registered"
	UserLoggedInEventType   = "user.logged_in"
)

// UserRegisteredEvent 用户注册事件
type UserRegisteredEvent struct {
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

// UserLoggedInEvent 用户登录事件
type UserLoggedInEvent struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher 事件发布者接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
