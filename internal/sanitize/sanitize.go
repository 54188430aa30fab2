// Package sanitize 负责留言入库前的内容净化：
// 昵称兜底与脏话过滤、媒体链接白名单化。
package sanitize

import (
	"math/rand"
	"regexp"
	"strings"

	goaway "github.com/TwiN/go-away"
)

// maxMediaURLLen 超长链接直接丢弃而不是报错。
const maxMediaURLLen = 2048

var mediaScheme = regexp.MustCompile(`(?i)^https?://`)

// 匿名昵称使用的固定动物集合。
var anonAnimals = []string{
	"Fox", "Panda", "Otter", "Dolphin", "Lynx",
	"Hawk", "Koala", "Tiger", "Raven", "Wolf",
}

// Nickname 归一化昵称：去空白、为空时随机分配匿名动物昵称、过脏话过滤器。
// 这里的随机只是装饰性的，math/rand 即可。
func Nickname(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		name = "Anonymous " + anonAnimals[rand.Intn(len(anonAnimals))]
	}
	return goaway.Censor(name)
}

// Content 归一化留言正文：去空白并过脏话过滤器。
func Content(raw string) string {
	return goaway.Censor(strings.TrimSpace(raw))
}

// MediaURL 归一化媒体链接。空输入、非 http(s) 协议或超长链接
// 一律归一化为 nil（静默丢弃，不视为错误）。
func MediaURL(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if !mediaScheme.MatchString(trimmed) {
		return nil
	}
	if len(trimmed) > maxMediaURLLen {
		return nil
	}
	return &trimmed
}

// IsAnonNickname 判断昵称是否出自固定的匿名动物集合，测试用。
func IsAnonNickname(name string) bool {
	for _, a := range anonAnimals {
		if name == "Anonymous "+a {
			return true
		}
	}
	return false
}
