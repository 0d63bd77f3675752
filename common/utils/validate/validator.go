package validate

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"campus-connect/common/errorx"
)

// Checker 依次校验字段，只保留第一个失败
//
//	err := validate.New().
//		MaxLength("title", req.Title, 100).
//		URL("imageUrl", req.ImageUrl).
//		Err()
type Checker struct {
	err error
}

// New 创建校验器
func New() *Checker {
	return &Checker{}
}

func (c *Checker) fail(format string, args ...any) *Checker {
	if c.err == nil {
		c.err = errorx.ErrInvalidParams(fmt.Sprintf(format, args...))
	}
	return c
}

// MaxLength 字符数（非字节数）不超过 max
func (c *Checker) MaxLength(field, s string, max int) *Checker {
	if !MaxLength(s, max) {
		return c.fail("%s 不能超过 %d 个字符", field, max)
	}
	return c
}

// URL 为空或 http(s) 绝对地址
func (c *Checker) URL(field, s string) *Checker {
	if IsBlank(s) {
		return c
	}
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return c.fail("%s 需为 http(s) 地址", field)
	}
	return c
}

// Tags 标签数量与单个标签长度
func (c *Checker) Tags(field string, tags []string, maxCount, maxLen int) *Checker {
	if len(tags) > maxCount {
		return c.fail("%s 最多 %d 个", field, maxCount)
	}
	for _, t := range tags {
		if IsBlank(t) {
			return c.fail("%s 不能包含空标签", field)
		}
		if !MaxLength(t, maxLen) {
			return c.fail("%s 单个不能超过 %d 个字符", field, maxLen)
		}
	}
	return c
}

// Err 第一个失败的字段，全部通过返回 nil
func (c *Checker) Err() error {
	return c.err
}

// IsBlank 判断字符串为空白
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// MaxLength 判断字符串长度不超过最大值
func MaxLength(s string, max int) bool {
	return utf8.RuneCountInString(s) <= max
}
