// Package notifier 提供Slack通知功能的实现
package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"
)

// SlackNotifier Slack通知器
type SlackNotifier struct {
	config *SlackNotifierConfig
	logger *zap.Logger
	id     string
	name   string
}

// 默认的标题模板
const defaultSlackTitleTemplate = "【{{.Level}}】{{.Title}}"

// 默认的内容模板 (mrkdwn格式)
const defaultSlackContentTemplate = `*消息标题*: {{.Title}}
*消息级别*: {{.Level}}
*发送时间*: {{formatTime .CreatedAt}}

{{.Content}}
{{if .Labels}}
*标签信息*
{{range $key, $value := .Labels}}• {{$key}}: {{$value}}
{{end}}{{end}}{{if .Data}}
*附加数据*
{{range $key, $value := .Data}}• {{$key}}: {{$value}}
{{end}}{{end}}`

// NewSlackNotifier 创建新的Slack通知器
func NewSlackNotifier(config *NotifierConfig) (Notifier, error) {
	if config.Type != NotifierTypeSlack {
		return nil, fmt.Errorf("通知器类型不是slack: %s", config.Type)
	}

	// 解析配置
	var slackConfig SlackNotifierConfig
	configData, err := json.Marshal(config.Config)
	if err != nil {
		return nil, fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := json.Unmarshal(configData, &slackConfig); err != nil {
		return nil, fmt.Errorf("解析Slack通知器配置失败: %w", err)
	}

	// 验证必要字段
	if slackConfig.WebhookURL == "" {
		return nil, fmt.Errorf("slack Webhook URL不能为空")
	}

	// 设置默认值
	if slackConfig.TitleTemplate == "" {
		slackConfig.TitleTemplate = defaultSlackTitleTemplate
	}
	if slackConfig.ContentTemplate == "" {
		slackConfig.ContentTemplate = defaultSlackContentTemplate
	}

	logger, _ := zap.NewProduction()

	return &SlackNotifier{
		config: &slackConfig,
		logger: logger,
		id:     config.ID,
		name:   config.Name,
	}, nil
}

// Send 发送Slack通知
func (n *SlackNotifier) Send(notification *Notification) (*NotificationResult, error) {
	result := &NotificationResult{
		NotifierID:   n.id,
		NotifierName: n.name,
		NotifierType: NotifierTypeSlack,
		Success:      false,
		Timestamp:    time.Now().Unix(),
	}

	// 渲染标题
	titleTmpl, err := template.New("title").Parse(n.config.TitleTemplate)
	if err != nil {
		result.Error = fmt.Sprintf("解析标题模板失败: %s", err.Error())
		return result, nil
	}

	var titleBuf bytes.Buffer
	if err := titleTmpl.Execute(&titleBuf, notification); err != nil {
		result.Error = fmt.Sprintf("渲染标题模板失败: %s", err.Error())
		return result, nil
	}
	title := titleBuf.String()

	// 渲染内容
	contentTmpl := template.New("content").Funcs(template.FuncMap{
		"formatTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05")
		},
	})

	contentTmpl, err = contentTmpl.Parse(n.config.ContentTemplate)
	if err != nil {
		result.Error = fmt.Sprintf("解析内容模板失败: %s", err.Error())
		return result, nil
	}

	var contentBuf bytes.Buffer
	if err := contentTmpl.Execute(&contentBuf, notification); err != nil {
		result.Error = fmt.Sprintf("渲染内容模板失败: %s", err.Error())
		return result, nil
	}
	content := contentBuf.String()

	if n.config.MentionChannel {
		content = "<!channel> " + content
	}

	// 构造请求体
	requestBody := map[string]interface{}{
		"text": title,
		"attachments": []map[string]interface{}{
			{
				"color":  levelColor(notification.Level),
				"text":   content,
				"ts":     notification.CreatedAt.Unix(),
				"footer": n.name,
			},
		},
	}

	if n.config.Channel != "" {
		requestBody["channel"] = n.config.Channel
	}
	if n.config.Username != "" {
		requestBody["username"] = n.config.Username
	}
	if notification.Level == NotificationLevelError || notification.Level == NotificationLevelCritical {
		requestBody["icon_emoji"] = ":warning:"
	}

	requestData, err := json.Marshal(requestBody)
	if err != nil {
		result.Error = fmt.Sprintf("序列化请求体失败: %s", err.Error())
		return result, nil
	}

	// 发送HTTP请求
	resp, err := http.Post(n.config.WebhookURL, "application/json", bytes.NewBuffer(requestData))
	if err != nil {
		result.Error = fmt.Sprintf("发送HTTP请求失败: %s", err.Error())
		return result, nil
	}
	defer resp.Body.Close()

	// 检查响应状态
	if resp.StatusCode != http.StatusOK {
		result.Error = fmt.Sprintf("HTTP响应状态异常: %d", resp.StatusCode)
		return result, nil
	}

	// Slack的Webhook成功时返回纯文本ok
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Error = fmt.Sprintf("读取响应失败: %s", err.Error())
		return result, nil
	}
	if strings.TrimSpace(string(body)) != "ok" {
		result.Error = fmt.Sprintf("slack接口返回错误: %s", string(body))
		return result, nil
	}

	result.Success = true
	n.logger.Info("Slack通知发送成功",
		zap.String("id", notification.ID),
		zap.String("title", notification.Title))

	return result, nil
}

// GetType 获取通知器类型
func (n *SlackNotifier) GetType() NotifierType {
	return NotifierTypeSlack
}

// GetID 获取通知器ID
func (n *SlackNotifier) GetID() string {
	return n.id
}

// GetName 获取通知器名称
func (n *SlackNotifier) GetName() string {
	return n.name
}

// levelColor 根据通知级别返回附件颜色
func levelColor(level NotificationLevel) string {
	switch level {
	case NotificationLevelCritical:
		return "#ff0000"
	case NotificationLevelError:
		return "#e06c3a"
	case NotificationLevelWarning:
		return "#f2c744"
	default:
		return "#36a64f"
	}
}
