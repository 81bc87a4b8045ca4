package model

import (
	"testing"
)

// TestParseUserAgent 测试User-Agent解析
func TestParseUserAgent(t *testing.T) {
	cases := []struct {
		name    string
		ua      string
		device  DeviceType
		browser string
		os      string
	}{
		{
			name:    "Windows Chrome 桌面端",
			ua:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			device:  DeviceTypeDesktop,
			browser: "chrome",
			os:      "windows",
		},
		{
			name:    "iPhone Safari 移动端",
			ua:      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			device:  DeviceTypeMobile,
			browser: "safari",
			os:      "ios",
		},
		{
			name:    "iPad 平板",
			ua:      "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1",
			device:  DeviceTypeTablet,
			browser: "safari",
			os:      "ios",
		},
		{
			name:    "Android Chrome 移动端",
			ua:      "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
			device:  DeviceTypeMobile,
			browser: "chrome",
			os:      "android",
		},
		{
			name:    "Edge 桌面端",
			ua:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
			device:  DeviceTypeDesktop,
			browser: "edge",
			os:      "windows",
		},
		{
			name:    "无法识别",
			ua:      "curl/8.0.1",
			device:  DeviceTypeDesktop,
			browser: "unknown",
			os:      "unknown",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			info := ParseUserAgent(c.ua)
			if info.Device != c.device {
				t.Errorf("Device = %s, want %s", info.Device, c.device)
			}
			if info.Browser != c.browser {
				t.Errorf("Browser = %s, want %s", info.Browser, c.browser)
			}
			if info.OS != c.os {
				t.Errorf("OS = %s, want %s", info.OS, c.os)
			}
		})
	}
}
