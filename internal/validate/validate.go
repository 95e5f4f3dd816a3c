package validate

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	DefaultPage      = 1
	DefaultLimit     = 10
	MaxLimit         = 100
	DefaultTimeframe = 30
	MaxTimeframe     = 365
)

var (
	reEmail    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reCategory = regexp.MustCompile(`^[a-z][a-z0-9_]{0,31}$`)
	reKey      = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.-]{0,63}$`)
	rePhone    = regexp.MustCompile(`^[0-9 +().-]{0,32}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return strings.ToLower(s), reEmail.MatchString(s)
}

// Search trims a free-text filter and caps it at 100 characters. It is
// only ever bound as a query parameter.
func Search(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > 100 {
		s = string([]rune(s)[:100])
	}
	return s
}

// Page parses a 1-based page number; junk and values below 1 give 1.
func Page(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return DefaultPage
	}
	return n
}

// Limit parses a page size, defaulting to 10 and clamping to 1..100.
func Limit(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// Timeframe parses an analytics window in days. Empty means 30.
func Timeframe(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultTimeframe, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > MaxTimeframe {
		return 0, false
	}
	return n, true
}

// ID parses a positive integer row id.
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > 255 {
		return "", false
	}
	return s, true
}

func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePhone.MatchString(s)
}

// Password enforces the rules for new accounts: 8 to 72 bytes (bcrypt's
// limit) with lower, upper, digit and symbol.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 72 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

// SettingsCategory validates a settings group name such as "store".
func SettingsCategory(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reCategory.MatchString(s)
}

func SettingKey(s string) bool { return reKey.MatchString(s) }

// ImageURL accepts site-relative paths and http(s) URLs.
func ImageURL(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 2048 {
		return "", false
	}
	if strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//") {
		return s, true
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}
	return s, true
}

// LocalPath returns from when it is a same-site absolute path, else def.
// Used for post-login redirects.
func LocalPath(from, def string) string {
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.Contains(from, `\`) {
		return def
	}
	u, err := url.Parse(from)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return def
	}
	return from
}
