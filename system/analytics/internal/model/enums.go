package model

// SessionStatus 会话状态
type SessionStatus string

const (
	SessionStatusActive   SessionStatus = "ACTIVE"
	SessionStatusInactive SessionStatus = "INACTIVE"
	SessionStatusExpired  SessionStatus = "EXPIRED"
)

// DeviceType 设备类型
type DeviceType string

const (
	DeviceTypeDesktop DeviceType = "DESKTOP"
	DeviceTypeMobile  DeviceType = "MOBILE"
	DeviceTypeTablet  DeviceType = "TABLET"
)

// ActionType 用户行为类型
type ActionType string

const (
	ActionTypePageView          ActionType = "PAGE_VIEW"
	ActionTypeButtonClick       ActionType = "BUTTON_CLICK"
	ActionTypeFormSubmit        ActionType = "FORM_SUBMIT"
	ActionTypeSearch            ActionType = "SEARCH"
	ActionTypeContentViewed     ActionType = "CONTENT_VIEWED"
	ActionTypeContentCreated    ActionType = "CONTENT_CREATED"
	ActionTypeFeedbackSubmitted ActionType = "FEEDBACK_SUBMITTED"
	ActionTypeLogin             ActionType = "LOGIN"
	ActionTypeLogout            ActionType = "LOGOUT"
	ActionTypeErrorEncountered  ActionType = "ERROR_ENCOUNTERED"
	ActionTypeAPICall           ActionType = "API_CALL"
)

// ActionCategory 行为分类
type ActionCategory string

const (
	ActionCategoryNavigation  ActionCategory = "NAVIGATION"
	ActionCategoryInteraction ActionCategory = "INTERACTION"
	ActionCategoryContent     ActionCategory = "CONTENT"
	ActionCategoryFeedback    ActionCategory = "FEEDBACK"
	ActionCategoryAuth        ActionCategory = "AUTH"
	ActionCategoryError       ActionCategory = "ERROR"
	ActionCategorySystem      ActionCategory = "SYSTEM"
)

// CategoryForActionType 行为类型到分类的固定映射，未覆盖的类型归入SYSTEM
func CategoryForActionType(t ActionType) ActionCategory {
	switch t {
	case ActionTypePageView:
		return ActionCategoryNavigation
	case ActionTypeButtonClick, ActionTypeFormSubmit, ActionTypeSearch:
		return ActionCategoryInteraction
	case ActionTypeContentViewed, ActionTypeContentCreated:
		return ActionCategoryContent
	case ActionTypeFeedbackSubmitted:
		return ActionCategoryFeedback
	case ActionTypeLogin, ActionTypeLogout:
		return ActionCategoryAuth
	case ActionTypeErrorEncountered:
		return ActionCategoryError
	case ActionTypeAPICall:
		return ActionCategorySystem
	default:
		return ActionCategorySystem
	}
}

// MetricType 指标类型
type MetricType string

const (
	MetricTypePerformance MetricType = "PERFORMANCE"
	MetricTypeUsage       MetricType = "USAGE"
	MetricTypeError       MetricType = "ERROR"
	MetricTypeBusiness    MetricType = "BUSINESS"
)

// MetricCategory 指标分类
type MetricCategory string

const (
	MetricCategoryResponseTime   MetricCategory = "response-time"
	MetricCategoryErrorRate      MetricCategory = "error-rate"
	MetricCategoryMemoryUsage    MetricCategory = "memory-usage"
	MetricCategoryCPUUsage       MetricCategory = "cpu-usage"
	MetricCategoryActiveSessions MetricCategory = "active-sessions"
	MetricCategoryErrorCount     MetricCategory = "error-count"
)

// AlertType 告警类型
type AlertType string

const (
	AlertTypePerformance    AlertType = "PERFORMANCE"
	AlertTypeError          AlertType = "ERROR"
	AlertTypeUsage          AlertType = "USAGE"
	AlertTypeSecurity       AlertType = "SECURITY"
	AlertTypeSystem         AlertType = "SYSTEM"
	AlertTypeBusiness       AlertType = "BUSINESS"
	AlertTypeDatabase       AlertType = "DATABASE"
	AlertTypeDeployment     AlertType = "DEPLOYMENT"
	AlertTypeCircuitBreaker AlertType = "CIRCUIT_BREAKER"
)

// AlertSeverity 告警级别
type AlertSeverity string

const (
	AlertSeverityLow      AlertSeverity = "LOW"
	AlertSeverityMedium   AlertSeverity = "MEDIUM"
	AlertSeverityHigh     AlertSeverity = "HIGH"
	AlertSeverityCritical AlertSeverity = "CRITICAL"
)

// AlertStatus 告警状态
type AlertStatus string

const (
	AlertStatusActive       AlertStatus = "ACTIVE"
	AlertStatusAcknowledged AlertStatus = "ACKNOWLEDGED"
	AlertStatusResolved     AlertStatus = "RESOLVED"
	AlertStatusDismissed    AlertStatus = "DISMISSED"
)

// IsTerminal 是否为终态
func (s AlertStatus) IsTerminal() bool {
	return s == AlertStatusResolved || s == AlertStatusDismissed
}

// CanTransitionTo 状态机转移规则
func (s AlertStatus) CanTransitionTo(next AlertStatus) bool {
	switch s {
	case AlertStatusActive:
		return next == AlertStatusAcknowledged || next == AlertStatusResolved || next == AlertStatusDismissed
	case AlertStatusAcknowledged:
		return next == AlertStatusResolved || next == AlertStatusDismissed
	default:
		return false
	}
}

// NotificationChannel 通知渠道
type NotificationChannel string

const (
	ChannelDashboard NotificationChannel = "DASHBOARD"
	ChannelEmail     NotificationChannel = "EMAIL"
	ChannelSlack     NotificationChannel = "SLACK"
	ChannelWebhook   NotificationChannel = "WEBHOOK"
)

// ReportType 报表周期类型
type ReportType string

const (
	ReportTypeDaily   ReportType = "DAILY"
	ReportTypeWeekly  ReportType = "WEEKLY"
	ReportTypeMonthly ReportType = "MONTHLY"
	ReportTypeManual  ReportType = "MANUAL"
)

// ReportCategory 报表分类
type ReportCategory string

const (
	ReportCategoryUserActivity      ReportCategory = "USER_ACTIVITY"
	ReportCategorySystemPerformance ReportCategory = "SYSTEM_PERFORMANCE"
	ReportCategoryContentUsage      ReportCategory = "CONTENT_USAGE"
	ReportCategoryFeedbackAnalysis  ReportCategory = "FEEDBACK_ANALYSIS"
	ReportCategoryBusinessMetrics   ReportCategory = "BUSINESS_METRICS"
	ReportCategoryComprehensive     ReportCategory = "COMPREHENSIVE"
)

// IsValid 是否为已知的报表分类
func (c ReportCategory) IsValid() bool {
	switch c {
	case ReportCategoryUserActivity, ReportCategorySystemPerformance, ReportCategoryContentUsage,
		ReportCategoryFeedbackAnalysis, ReportCategoryBusinessMetrics, ReportCategoryComprehensive:
		return true
	}
	return false
}

// ReportStatus 报表状态
type ReportStatus string

const (
	ReportStatusGenerating ReportStatus = "GENERATING"
	ReportStatusCompleted  ReportStatus = "COMPLETED"
	ReportStatusFailed     ReportStatus = "FAILED"
)
