package reminder

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/beeep"
)

// Permission 通知权限状态
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// ParsePermission 解析权限，未知值视为尚未决定
func ParsePermission(s string) Permission {
	switch Permission(strings.ToLower(strings.TrimSpace(s))) {
	case PermissionGranted:
		return PermissionGranted
	case PermissionDenied:
		return PermissionDenied
	default:
		return PermissionDefault
	}
}

// Notifier 发出平台通知
type Notifier interface {
	Notify(title, body string) error
}

// Sound 播放提示音
type Sound interface {
	Play() error
}

// Prompter 向用户请求通知权限
type Prompter interface {
	Prompt() (Permission, error)
}

// PrompterFunc 把函数适配为 Prompter
type PrompterFunc func() (Permission, error)

func (f PrompterFunc) Prompt() (Permission, error) { return f() }

// Signal 尽力而为的提醒：没有授权时静默丢弃，失败只记日志
type Signal struct {
	mu         sync.Mutex
	permission Permission

	audioUnlocked atomic.Bool

	notifier Notifier
	sound    Sound
}

// NewSignal sound 可以为 nil
func NewSignal(permission Permission, notifier Notifier, sound Sound) *Signal {
	return &Signal{
		permission: permission,
		notifier:   notifier,
		sound:      sound,
	}
}

// Permission 当前权限
func (s *Signal) Permission() Permission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.permission
}

// SetPermission 直接设置权限
func (s *Signal) SetPermission(p Permission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.permission = p
}

// RequestPermission 权限尚未决定时询问一次
func (s *Signal) RequestPermission(p Prompter) Permission {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.permission != PermissionDefault || p == nil {
		return s.permission
	}

	got, err := p.Prompt()
	if err != nil {
		log.Printf("Notification permission request failed: %v", err)
		return s.permission
	}
	s.permission = got
	return got
}

// UnlockAudio 记录第一次用户交互，之后允许播放声音
func (s *Signal) UnlockAudio() {
	s.audioUnlocked.Store(true)
}

// AudioUnlocked 是否已允许播放声音
func (s *Signal) AudioUnlocked() bool {
	return s.audioUnlocked.Load()
}

// Fire 发出提醒
func (s *Signal) Fire(text string) {
	if s.Permission() != PermissionGranted {
		return
	}

	if s.notifier != nil {
		if err := s.notifier.Notify("Task Reminder", fmt.Sprintf("It's time for: %s", text)); err != nil {
			log.Printf("Notification failed: %v", err)
		}
	}

	if s.sound == nil || !s.AudioUnlocked() {
		return
	}
	if err := s.sound.Play(); err != nil {
		log.Printf("Sound playback failed: %v", err)
	}
}

// DesktopNotifier 通过系统桌面通知发送
type DesktopNotifier struct {
	Icon string
}

func (d DesktopNotifier) Notify(title, body string) error {
	return beeep.Notify(title, body, d.Icon)
}

// Beep 系统提示音
type Beep struct{}

func (Beep) Play() error {
	return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
}

// LogNotifier 只写日志，用于没有桌面环境的服务器
type LogNotifier struct{}

func (LogNotifier) Notify(title, body string) error {
	log.Printf("[%s] %s", title, body)
	return nil
}
