package session

import (
	"sync"

	"github.com/Hemu21/crowdfunding/internal/logger"
	"github.com/Hemu21/crowdfunding/internal/model"
	"github.com/Hemu21/crowdfunding/internal/service"
	"github.com/Hemu21/crowdfunding/internal/wallet"
)

// EventKind 会话变更事件类型
type EventKind int

const (
	EventAccountChanged EventKind = iota
	EventThemeChanged
)

// Event 会话变更事件
type Event struct {
	Kind  EventKind
	Value string
}

// PreferenceStore 偏好持久化能力, 由database.PreferenceStore实现
type PreferenceStore interface {
	Get(key string) (string, error)
	Put(key, value string) error
}

// Session 会话状态
// 持有当前账户/主题偏好, 并向消费方暴露共享的聚合服务和写入适配器;
// 显式构造注入, 进程内为页面会话生命周期存在, 无需显式销毁
type Session struct {
	mu      sync.RWMutex
	account string
	theme   string
	subs    map[int]chan Event
	nextSub int

	prefs     PreferenceStore
	Aggregate *service.AggregateService
	Writer    *wallet.Writer
}

// New 创建会话
// 账户来自钱包能力的当前签名账户; 主题从偏好存储读取, 缺省为light
func New(aggregate *service.AggregateService, writer *wallet.Writer, prefs PreferenceStore) *Session {
	theme := model.ThemeLight
	if prefs != nil {
		stored, err := prefs.Get(model.PreferenceKeyTheme)
		if err != nil {
			logger.Warn("Failed to load theme preference: %v", err)
		} else if stored == model.ThemeDark {
			theme = model.ThemeDark
		}
	}

	account := ""
	if writer != nil {
		account = writer.Account()
	}

	return &Session{
		account:   account,
		theme:     theme,
		subs:      make(map[int]chan Event),
		prefs:     prefs,
		Aggregate: aggregate,
		Writer:    writer,
	}
}

// Account 当前账户地址, 无账户时为空字符串
func (s *Session) Account() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account
}

// OnAccountChange 钱包能力报告账户变化时调用
// 账户可能随时变更或消失(空字符串)
func (s *Session) OnAccountChange(account string) {
	s.mu.Lock()
	if s.account == account {
		s.mu.Unlock()
		return
	}
	s.account = account
	s.mu.Unlock()

	s.publish(Event{Kind: EventAccountChanged, Value: account})
}

// Theme 当前主题
func (s *Session) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// ToggleTheme 切换主题并持久化
func (s *Session) ToggleTheme() string {
	s.mu.Lock()
	if s.theme == model.ThemeDark {
		s.theme = model.ThemeLight
	} else {
		s.theme = model.ThemeDark
	}
	theme := s.theme
	s.mu.Unlock()

	if s.prefs != nil {
		if err := s.prefs.Put(model.PreferenceKeyTheme, theme); err != nil {
			logger.Error("Failed to persist theme preference: %v", err)
		}
	}

	s.publish(Event{Kind: EventThemeChanged, Value: theme})
	return theme
}

// Subscribe 订阅会话变更事件
// 返回事件通道和取消函数; 消费方挂载时订阅, 卸载时必须取消
func (s *Session) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Event, 8)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if ch, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// publish 向所有订阅者广播事件
func (s *Session) publish(event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.subs {
		select {
		case ch <- event:
		default: // 订阅者未及时消费, 丢弃
		}
	}
}
