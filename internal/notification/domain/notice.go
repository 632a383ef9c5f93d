package domain

import (
	"context"
	"time"
)

// Level 提示级别
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice 面向用户的临时提示
type Notice struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier 通知端口；业务逻辑只向其发出提示，不关心如何展示
type Notifier interface {
	Notify(ctx context.Context, visitID string, notice Notice) error
}

// Success 构造成功提示
func Success(msg string) Notice { return Notice{Level: LevelSuccess, Message: msg} }

// Info 构造普通提示
func Info(msg string) Notice { return Notice{Level: LevelInfo, Message: msg} }

// Warning 构造警告提示
func Warning(msg string) Notice { return Notice{Level: LevelWarning, Message: msg} }

// Failure 构造错误提示
func Failure(msg string) Notice { return Notice{Level: LevelError, Message: msg} }
