package service

import "testing"

// TestComputeHealthLabel 测试健康度判定的阈值边界
func TestComputeHealthLabel(t *testing.T) {
	tests := []struct {
		name         string
		errorRatePct float64
		responseMs   float64
		want         HealthLabel
	}{
		{"高错误率判critical", 6, 100, HealthCritical},
		{"超长响应判critical", 0, 2500, HealthCritical},
		{"中错误率判warning", 3, 100, HealthWarning},
		{"较长响应判warning", 0, 1500, HealthWarning},
		{"低错误率判good", 1, 100, HealthGood},
		{"一般响应判good", 0, 600, HealthGood},
		{"零错误快响应判excellent", 0, 100, HealthExcellent},
		{"错误率恰好5不触发critical", 5, 100, HealthWarning},
		{"响应恰好1000不触发warning", 0, 1000, HealthGood},
		{"响应恰好500不触发good", 0, 500, HealthExcellent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeHealthLabel(tt.errorRatePct, tt.responseMs)
			if got != tt.want {
				t.Errorf("ComputeHealthLabel(%v, %v) = %s, want %s", tt.errorRatePct, tt.responseMs, got, tt.want)
			}
		})
	}
}

// TestComputeEngagementPct 测试活跃用户占比计算
func TestComputeEngagementPct(t *testing.T) {
	tests := []struct {
		name        string
		activeUsers int64
		totalUsers  int64
		want        float64
	}{
		{"一半活跃", 50, 100, 50},
		{"全部活跃", 20, 20, 100},
		{"无人活跃", 0, 30, 0},
		{"无历史用户不除零", 5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeEngagementPct(tt.activeUsers, tt.totalUsers)
			if got != tt.want {
				t.Errorf("ComputeEngagementPct(%d, %d) = %v, want %v", tt.activeUsers, tt.totalUsers, got, tt.want)
			}
		})
	}
}
