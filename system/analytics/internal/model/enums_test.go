package model

import (
	"testing"
)

// TestAlertStatusTransitions 测试告警状态机的合法流转
func TestAlertStatusTransitions(t *testing.T) {
	cases := []struct {
		from    AlertStatus
		to      AlertStatus
		allowed bool
	}{
		{AlertStatusActive, AlertStatusAcknowledged, true},
		{AlertStatusActive, AlertStatusResolved, true},
		{AlertStatusActive, AlertStatusDismissed, true},
		{AlertStatusAcknowledged, AlertStatusResolved, true},
		{AlertStatusAcknowledged, AlertStatusDismissed, true},
		{AlertStatusAcknowledged, AlertStatusActive, false},
		{AlertStatusResolved, AlertStatusActive, false},
		{AlertStatusResolved, AlertStatusAcknowledged, false},
		{AlertStatusResolved, AlertStatusDismissed, false},
		{AlertStatusDismissed, AlertStatusResolved, false},
		{AlertStatusActive, AlertStatusActive, false},
	}

	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.allowed {
			t.Errorf("%s -> %s: CanTransitionTo() = %v, want %v", c.from, c.to, got, c.allowed)
		}
	}
}

// TestAlertStatusIsTerminal 测试终态判定
func TestAlertStatusIsTerminal(t *testing.T) {
	if AlertStatusActive.IsTerminal() {
		t.Error("ACTIVE 不应是终态")
	}
	if AlertStatusAcknowledged.IsTerminal() {
		t.Error("ACKNOWLEDGED 不应是终态")
	}
	if !AlertStatusResolved.IsTerminal() {
		t.Error("RESOLVED 应是终态")
	}
	if !AlertStatusDismissed.IsTerminal() {
		t.Error("DISMISSED 应是终态")
	}
}

// TestCategoryForActionType 测试行为类型到分类的映射
func TestCategoryForActionType(t *testing.T) {
	cases := []struct {
		actionType ActionType
		want       ActionCategory
	}{
		{ActionTypePageView, ActionCategoryNavigation},
		{ActionTypeButtonClick, ActionCategoryInteraction},
		{ActionTypeFormSubmit, ActionCategoryInteraction},
		{ActionTypeSearch, ActionCategoryInteraction},
		{ActionTypeContentViewed, ActionCategoryContent},
		{ActionTypeContentCreated, ActionCategoryContent},
		{ActionTypeFeedbackSubmitted, ActionCategoryFeedback},
		{ActionTypeLogin, ActionCategoryAuth},
		{ActionTypeLogout, ActionCategoryAuth},
		{ActionTypeErrorEncountered, ActionCategoryError},
		{ActionTypeAPICall, ActionCategorySystem},
		{ActionType("UNKNOWN_THING"), ActionCategorySystem},
	}

	for _, c := range cases {
		if got := CategoryForActionType(c.actionType); got != c.want {
			t.Errorf("CategoryForActionType(%s) = %s, want %s", c.actionType, got, c.want)
		}
	}
}
