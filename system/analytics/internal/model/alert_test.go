package model

import (
	"testing"
	"time"
)

// TestChannelsForSeverity 测试按告警级别决定通知渠道
func TestChannelsForSeverity(t *testing.T) {
	tests := []struct {
		severity AlertSeverity
		want     ChannelList
	}{
		{AlertSeverityCritical, ChannelList{ChannelEmail, ChannelSlack, ChannelDashboard}},
		{AlertSeverityHigh, ChannelList{ChannelEmail, ChannelDashboard}},
		{AlertSeverityMedium, ChannelList{ChannelDashboard}},
		{AlertSeverityLow, ChannelList{ChannelDashboard}},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			got := ChannelsForSeverity(tt.severity)
			if len(got) != len(tt.want) {
				t.Fatalf("ChannelsForSeverity(%s) = %v, want %v", tt.severity, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ChannelsForSeverity(%s)[%d] = %s, want %s", tt.severity, i, got[i], tt.want[i])
				}
			}
		})
	}
}

// TestChannelListWithChannel 测试渠道追加的幂等性
func TestChannelListWithChannel(t *testing.T) {
	channels := ChannelList{ChannelDashboard}
	if channels.Contains(ChannelEmail) {
		t.Fatal("初始集合不应包含EMAIL")
	}

	channels = channels.WithChannel(ChannelEmail)
	if !channels.Contains(ChannelEmail) {
		t.Fatal("追加后应包含EMAIL")
	}
	if len(channels) != 2 {
		t.Fatalf("len = %d, want 2", len(channels))
	}

	// 重复追加不产生新元素
	channels = channels.WithChannel(ChannelEmail)
	if len(channels) != 2 {
		t.Errorf("重复追加后 len = %d, want 2", len(channels))
	}
}

// TestAlertAgeMinutes 测试告警存在时长计算
func TestAlertAgeMinutes(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	alert := &Alert{}
	alert.CreatedAt = now.Add(-45*time.Minute - 30*time.Second)

	if got := alert.AgeMinutes(now); got != 45 {
		t.Errorf("AgeMinutes() = %d, want 45", got)
	}
}
