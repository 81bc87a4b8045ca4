// Package notifier 提供站内看板通知功能的实现
package notifier

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// DashboardNotifier 站内看板通知器，把通知保留在内存环形缓冲中供前端轮询
type DashboardNotifier struct {
	config *DashboardNotifierConfig
	id     string
	name   string

	mu      sync.RWMutex
	entries []*Notification
	next    int
	full    bool
}

const defaultDashboardMaxEntries = 200

// NewDashboardNotifier 创建新的看板通知器
func NewDashboardNotifier(config *NotifierConfig) (Notifier, error) {
	if config.Type != NotifierTypeDashboard {
		return nil, fmt.Errorf("通知器类型不是dashboard: %s", config.Type)
	}

	// 解析配置
	var dashConfig DashboardNotifierConfig
	configData, err := json.Marshal(config.Config)
	if err != nil {
		return nil, fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := json.Unmarshal(configData, &dashConfig); err != nil {
		return nil, fmt.Errorf("解析看板通知器配置失败: %w", err)
	}

	if dashConfig.MaxEntries <= 0 {
		dashConfig.MaxEntries = defaultDashboardMaxEntries
	}

	return &DashboardNotifier{
		config:  &dashConfig,
		id:      config.ID,
		name:    config.Name,
		entries: make([]*Notification, dashConfig.MaxEntries),
	}, nil
}

// Send 记录通知到环形缓冲
func (n *DashboardNotifier) Send(notification *Notification) (*NotificationResult, error) {
	n.mu.Lock()
	n.entries[n.next] = notification
	n.next = (n.next + 1) % len(n.entries)
	if n.next == 0 {
		n.full = true
	}
	n.mu.Unlock()

	return &NotificationResult{
		NotifierID:   n.id,
		NotifierName: n.name,
		NotifierType: NotifierTypeDashboard,
		Success:      true,
		Timestamp:    time.Now().Unix(),
	}, nil
}

// Recent 返回最近的通知，新的在前
func (n *DashboardNotifier) Recent(limit int) []*Notification {
	n.mu.RLock()
	defer n.mu.RUnlock()

	size := n.next
	if n.full {
		size = len(n.entries)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	result := make([]*Notification, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (n.next - i + len(n.entries)) % len(n.entries)
		result = append(result, n.entries[idx])
	}
	return result
}

// GetType 获取通知器类型
func (n *DashboardNotifier) GetType() NotifierType {
	return NotifierTypeDashboard
}

// GetID 获取通知器ID
func (n *DashboardNotifier) GetID() string {
	return n.id
}

// GetName 获取通知器名称
func (n *DashboardNotifier) GetName() string {
	return n.name
}
