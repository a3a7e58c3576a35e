// Package i18n holds the message catalogs for the grid, the shell and the
// one-shot commands.
package i18n

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// fallbackLocale 缺失键时回退的目录
const fallbackLocale = "en"

// catalogs 按规范化 locale 索引的消息目录
var catalogs = map[string]map[string]string{
	"en":    EnMessages,
	"zh-CN": ZhCNMessages,
}

// I18n 单个 locale 的翻译器
// I18n translates keys for one locale, falling back to English.
type I18n struct {
	locale   string
	messages map[string]string
}

var (
	mu     sync.RWMutex
	global *I18n
)

// Global 返回全局 i18n 实例，首次调用时按环境变量检测 locale
// Global returns the process-wide translator, detecting the locale from the
// environment on first use.
func Global() *I18n {
	mu.RLock()
	g := global
	mu.RUnlock()
	if g != nil {
		return g
	}
	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		global = New("")
	}
	return global
}

// Init 以指定 locale 替换全局实例；空字符串表示自动检测
// Init replaces the global translator. An empty locale means detect.
func Init(locale string) {
	i := New(locale)
	mu.Lock()
	global = i
	mu.Unlock()
}

// T 全局翻译快捷函数
// T is a global translation shortcut
func T(key string, args ...any) string {
	return Global().T(key, args...)
}

// New 创建 i18n 实例
// New creates a translator for locale. Unknown locales get the English
// catalog.
func New(locale string) *I18n {
	locale = strings.TrimSpace(locale)
	if locale == "" || strings.EqualFold(locale, "auto") {
		locale = DetectLocale()
	}
	locale = normalizeLocale(locale)

	messages := make(map[string]string, len(EnMessages))
	for k, v := range catalogs[fallbackLocale] {
		messages[k] = v
	}
	for k, v := range catalogs[locale] {
		messages[k] = v
	}
	return &I18n{locale: locale, messages: messages}
}

// T 翻译函数；缺失的键原样返回
// T returns the message for key, formatted with args. A missing key is
// returned as is.
func (i *I18n) T(key string, args ...any) string {
	tmpl, ok := i.messages[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

// Locale 返回当前 locale
// Locale returns current locale
func (i *I18n) Locale() string {
	return i.locale
}

// Supported lists the locales that have a catalog.
func Supported() []string {
	out := make([]string, 0, len(catalogs))
	for l := range catalogs {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// DetectLocale 自动检测 locale
// DetectLocale reads HABITS_LANG, then the usual POSIX locale variables.
func DetectLocale() string {
	for _, env := range []string{"HABITS_LANG", "LANG", "LC_ALL", "LC_MESSAGES"} {
		v := strings.TrimSpace(os.Getenv(env))
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		return normalizeLocale(v)
	}
	return fallbackLocale
}

func normalizeLocale(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallbackLocale
	}
	// 去掉 .UTF-8 / @euro 等后缀 / Remove encoding and modifier suffixes
	if idx := strings.IndexAny(s, ".@"); idx >= 0 {
		s = s[:idx]
	}
	s = strings.ReplaceAll(s, "_", "-")
	lower := strings.ToLower(s)

	switch {
	case strings.HasPrefix(lower, "zh"):
		return "zh-CN"
	case strings.HasPrefix(lower, "en"):
		return "en"
	}
	// 默认返回原始值 / Default return original
	return s
}
