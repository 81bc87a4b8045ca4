package model

import "strings"

// DeviceInfo 从User-Agent解析出的设备信息
type DeviceInfo struct {
	Device  DeviceType
	Browser string
	OS      string
}

// ParseUserAgent 按子串匹配解析User-Agent，识别不了的归为DESKTOP/unknown
func ParseUserAgent(userAgent string) DeviceInfo {
	ua := strings.ToLower(userAgent)

	info := DeviceInfo{
		Device:  DeviceTypeDesktop,
		Browser: "unknown",
		OS:      "unknown",
	}

	if strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad") {
		info.Device = DeviceTypeTablet
	} else if strings.Contains(ua, "mobile") || strings.Contains(ua, "android") || strings.Contains(ua, "iphone") {
		info.Device = DeviceTypeMobile
	}

	switch {
	case strings.Contains(ua, "edg"):
		info.Browser = "edge"
	case strings.Contains(ua, "chrome"):
		info.Browser = "chrome"
	case strings.Contains(ua, "firefox"):
		info.Browser = "firefox"
	case strings.Contains(ua, "safari"):
		info.Browser = "safari"
	}

	switch {
	case strings.Contains(ua, "windows"):
		info.OS = "windows"
	case strings.Contains(ua, "android"):
		info.OS = "android"
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"), strings.Contains(ua, "ios"):
		info.OS = "ios"
	case strings.Contains(ua, "mac"):
		info.OS = "mac"
	case strings.Contains(ua, "linux"):
		info.OS = "linux"
	}

	return info
}
