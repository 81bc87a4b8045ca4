package model

import (
	"testing"
	"time"
)

// TestEngagementScore 测试参与度评分公式
func TestEngagementScore(t *testing.T) {
	// 10次页面浏览 + 5次行为*2 + 1次反馈*5 + 2次内容*3 + 120分钟时长(封顶10) - 1次错误 = 40
	s := &Session{
		PageViewCount:     10,
		ActionCount:       5,
		FeedbackSubmitted: 1,
		ContentViewed:     2,
		ErrorsEncountered: 1,
		DurationSeconds:   120 * 60,
	}
	if got := s.EngagementScore(); got != 40 {
		t.Errorf("EngagementScore() = %v, want 40", got)
	}
}

// TestEngagementScoreDurationCap 测试时长贡献封顶
func TestEngagementScoreDurationCap(t *testing.T) {
	s := &Session{DurationSeconds: 1000 * 60}
	if got := s.EngagementScore(); got != 10 {
		t.Errorf("超长会话时长贡献应封顶为10，got %v", got)
	}

	s = &Session{DurationSeconds: 30 * 60}
	if got := s.EngagementScore(); got != 3 {
		t.Errorf("30分钟会话时长贡献应为3，got %v", got)
	}
}

// TestEngagementScoreFloor 测试评分下限为0
func TestEngagementScoreFloor(t *testing.T) {
	s := &Session{ErrorsEncountered: 100}
	if got := s.EngagementScore(); got != 0 {
		t.Errorf("EngagementScore() = %v, want 0", got)
	}
}

// TestComputeDuration 测试时长计算
func TestComputeDuration(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	ended := start.Add(90 * time.Second)

	s := &Session{LastActivityAt: start.Add(60 * time.Second)}
	s.CreatedAt = start
	if got := s.ComputeDuration(); got != 60 {
		t.Errorf("未结束会话按最近活跃时间计算，got %d, want 60", got)
	}

	s.EndedAt = &ended
	if got := s.ComputeDuration(); got != 90 {
		t.Errorf("已结束会话按结束时间计算，got %d, want 90", got)
	}

	// 时钟回拨不产生负时长
	s2 := &Session{LastActivityAt: start.Add(-time.Minute)}
	s2.CreatedAt = start
	if got := s2.ComputeDuration(); got != 0 {
		t.Errorf("负时长应归零，got %d", got)
	}
}
