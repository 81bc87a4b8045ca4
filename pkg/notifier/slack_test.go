package notifier

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestSlackNotifierSend 测试Slack通知发送与请求体结构
func TestSlackNotifierSend(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Errorf("请求体不是合法JSON: %v", err)
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	n, err := NewSlackNotifier(&NotifierConfig{
		ID:   "test-slack",
		Type: NotifierTypeSlack,
		Name: "测试Slack",
		Config: &SlackNotifierConfig{
			WebhookURL:     server.URL,
			Channel:        "#alerts",
			Username:       "analytics-bot",
			MentionChannel: true,
		},
	})
	if err != nil {
		t.Fatalf("创建Slack通知器失败: %v", err)
	}

	result, err := n.Send(&Notification{
		ID:        "n-1",
		Title:     "错误率超阈值",
		Content:   "最近5分钟错误率为7.2%",
		Level:     NotificationLevelCritical,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if !result.Success {
		t.Fatalf("Send() 未成功: %s", result.Error)
	}

	if gotBody["channel"] != "#alerts" {
		t.Errorf("channel = %v, want #alerts", gotBody["channel"])
	}
	if gotBody["username"] != "analytics-bot" {
		t.Errorf("username = %v, want analytics-bot", gotBody["username"])
	}

	text, _ := gotBody["text"].(string)
	if !strings.Contains(text, "错误率超阈值") {
		t.Errorf("标题未包含原始内容: %s", text)
	}
	if gotBody["icon_emoji"] != ":warning:" {
		t.Errorf("critical级别应携带warning图标, got %v", gotBody["icon_emoji"])
	}

	attachments, ok := gotBody["attachments"].([]interface{})
	if !ok || len(attachments) != 1 {
		t.Fatalf("attachments = %v, want 长度为1的数组", gotBody["attachments"])
	}
	attachment := attachments[0].(map[string]interface{})
	if attachment["color"] != "#ff0000" {
		t.Errorf("critical级别颜色 = %v, want #ff0000", attachment["color"])
	}
	content, _ := attachment["text"].(string)
	if !strings.HasPrefix(content, "<!channel>") {
		t.Errorf("开启MentionChannel后内容应以<!channel>开头: %s", content)
	}
}

// TestSlackNotifierSendFailure 测试接口返回异常时的失败结果
func TestSlackNotifierSendFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"非200状态码", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"响应体不是ok", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("invalid_payload"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			n, err := NewSlackNotifier(&NotifierConfig{
				ID:     "test-slack",
				Type:   NotifierTypeSlack,
				Name:   "测试Slack",
				Config: &SlackNotifierConfig{WebhookURL: server.URL},
			})
			if err != nil {
				t.Fatalf("创建Slack通知器失败: %v", err)
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
				t.Error("Send() 应返回失败结果")
			}
			if result.Error == "" {
				t.Error("失败结果应携带错误信息")
			}
		})
	}
}

// TestNewSlackNotifierMissingURL 测试缺少Webhook URL时的校验
func TestNewSlackNotifierMissingURL(t *testing.T) {
	_, err := NewSlackNotifier(&NotifierConfig{
		ID:     "test-slack",
		Type:   NotifierTypeSlack,
		Name:   "测试Slack",
		Config: &SlackNotifierConfig{},
	})
	if err == nil {
		t.Fatal("缺少Webhook URL应返回错误")
	}
}
