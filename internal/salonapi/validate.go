package salonapi

import (
	"regexp"
	"strings"

	"github.com/wolfman30/salon-booking/internal/backend"
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// validateBooking returns the message for the first invalid field, or "".
func validateBooking(req backend.CreateBookingRequest) string {
	switch {
	case strings.TrimSpace(req.UserProfile.UserID) == "":
		return "缺少欄位：userProfile.userId"
	case req.Date == "":
		return "缺少欄位：date"
	case !datePattern.MatchString(req.Date):
		return "日期格式錯誤，須為 YYYY-MM-DD"
	case req.Time == "":
		return "缺少欄位：time"
	case !timePattern.MatchString(req.Time):
		return "時間格式錯誤，須為 HH:MM (24 小時制)"
	case len(req.ServiceIDs) == 0:
		return "serviceIds 必須為非空陣列"
	}
	for _, id := range req.ServiceIDs {
		if strings.TrimSpace(id) == "" {
			return "serviceIds 不可包含空值"
		}
	}
	return ""
}

func validateUser(req backend.RegisterUserRequest) string {
	switch {
	case strings.TrimSpace(req.UserID) == "":
		return "缺少欄位：userId"
	case strings.TrimSpace(req.Phone) == "":
		return "缺少欄位：phone"
	case strings.TrimSpace(req.Birthday) == "":
		return "缺少欄位：birthday"
	case !datePattern.MatchString(strings.TrimSpace(req.Birthday)):
		return "生日格式錯誤，須為 YYYY-MM-DD"
	}
	return ""
}
