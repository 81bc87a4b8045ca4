package notifier

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestWebhookNotifierSend 测试Webhook通知的请求体与自定义请求头
func TestWebhookNotifierSend(t *testing.T) {
	var gotBody map[string]interface{}
	var gotHeader http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Errorf("请求体不是合法JSON: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n, err := NewWebhookNotifier(&NotifierConfig{
		ID:   "test-webhook",
		Type: NotifierTypeWebhook,
		Name: "测试Webhook",
		Config: &WebhookNotifierConfig{
			URL:     server.URL,
			Headers: map[string]string{"X-Api-Key": "secret"},
		},
	})
	if err != nil {
		t.Fatalf("创建Webhook通知器失败: %v", err)
	}

	result, err := n.Send(&Notification{
		ID:        "n-1",
		Title:     "系统健康度下降",
		Content:   "健康度为warning",
		Level:     NotificationLevelWarning,
		Labels:    map[string]string{"source": "health-check"},
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if !result.Success {
		t.Fatalf("Send() 未成功: %s", result.Error)
	}

	if gotBody["id"] != "n-1" || gotBody["title"] != "系统健康度下降" || gotBody["level"] != "warning" {
		t.Errorf("请求体字段错误: %v", gotBody)
	}
	labels, ok := gotBody["labels"].(map[string]interface{})
	if !ok || labels["source"] != "health-check" {
		t.Errorf("labels = %v, want source=health-check", gotBody["labels"])
	}
	if gotHeader.Get("X-Api-Key") != "secret" {
		t.Errorf("自定义请求头未透传: %v", gotHeader.Get("X-Api-Key"))
	}
	if gotHeader.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %s, want application/json", gotHeader.Get("Content-Type"))
	}
}

// TestWebhookNotifierSendNon2xx 测试非2xx响应返回失败结果
func TestWebhookNotifierSendNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	n, err := NewWebhookNotifier(&NotifierConfig{
		ID:     "test-webhook",
		Type:   NotifierTypeWebhook,
		Name:   "测试Webhook",
		Config: &WebhookNotifierConfig{URL: server.URL},
	})
	if err != nil {
		t.Fatalf("创建Webhook通知器失败: %v", err)
	}

	result, err := n.Send(&Notification{
		ID:        "n-2",
		Title:     "标题",
		Content:   "内容",
		Level:     NotificationLevelInfo,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if result.Success {
		t.Error("非2xx响应应返回失败结果")
	}
}
