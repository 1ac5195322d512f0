package cache

import (
	"fmt"
	"net/url"
	"strings"
)

// GET /api/profile
// profile:{user_id}
func ProfileKey(userID string) string {
	return fmt.Sprintf("profile:%s", url.PathEscape(strings.TrimSpace(userID)))
}

// GET /api/inquiries
// inquiries:user:{user_id}
func InquiryListKey(userID string) string {
	return fmt.Sprintf("inquiries:user:%s", url.PathEscape(strings.TrimSpace(userID)))
}

// GET /api/inquiries/{id}
// inquiry:{id}
func InquiryKey(id string) string {
	return fmt.Sprintf("inquiry:%s", url.PathEscape(strings.TrimSpace(id)))
}
