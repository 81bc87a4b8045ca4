package service

import (
	"testing"

	"github.com/Renagang21/o4o-platform-sub035/system/analytics/internal/model"
)

// TestMatchThresholdRule 测试阈值规则表的命中与未命中
func TestMatchThresholdRule(t *testing.T) {
	tests := []struct {
		name         string
		category     model.MetricCategory
		value        float64
		wantHit      bool
		wantSeverity model.AlertSeverity
		wantType     model.AlertType
	}{
		{"响应时间超阈值", model.MetricCategoryResponseTime, 1500, true, model.AlertSeverityHigh, model.AlertTypePerformance},
		{"响应时间恰好1000不命中", model.MetricCategoryResponseTime, 1000, false, "", ""},
		{"错误率超阈值", model.MetricCategoryErrorRate, 7.2, true, model.AlertSeverityCritical, model.AlertTypeError},
		{"错误率3不命中", model.MetricCategoryErrorRate, 3, false, "", ""},
		{"内存使用超阈值", model.MetricCategoryMemoryUsage, 90, true, model.AlertSeverityHigh, model.AlertTypeSystem},
		{"内存使用恰好85不命中", model.MetricCategoryMemoryUsage, 85, false, "", ""},
		{"无规则的分类不命中", model.MetricCategoryCPUUsage, 99, false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, hit := matchThresholdRule(&model.Metric{
				Category: tt.category,
				Value:    tt.value,
			})
			if hit != tt.wantHit {
				t.Fatalf("matchThresholdRule(%s, %v) hit = %v, want %v", tt.category, tt.value, hit, tt.wantHit)
			}
			if !hit {
				return
			}
			if rule.Severity != tt.wantSeverity {
				t.Errorf("severity = %s, want %s", rule.Severity, tt.wantSeverity)
			}
			if rule.Type != tt.wantType {
				t.Errorf("type = %s, want %s", rule.Type, tt.wantType)
			}
		})
	}
}
