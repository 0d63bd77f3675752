package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus-connect/common/breakerx"

	"github.com/go-resty/resty/v2"
	"github.com/zeromicro/go-zero/core/breaker"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-1.5-flash"
	defaultTimeout = 15 * time.Second
)

// ErrUnconfigured 未配置 API Key
var ErrUnconfigured = errors.New("assistant: api key not configured")

// Config Gemini 配置
type Config struct {
	APIKey  string        `json:",optional,env=GEMINI_API_KEY"`
	Model   string        `json:",default=gemini-1.5-flash"`
	BaseURL string        `json:",default=https://generativelanguage.googleapis.com"`
	Timeout time.Duration `json:",default=15s"`
}

// GeminiClient generateContent 接口的 REST 客户端
type GeminiClient struct {
	apiKey string
	model  string
	http   *resty.Client
	brk    breaker.Breaker
}

// NewGeminiClient 创建客户端；APIKey 为空时 Complete 返回 ErrUnconfigured
func NewGeminiClient(c Config) *GeminiClient {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}

	return &GeminiClient{
		apiKey: strings.TrimSpace(c.APIKey),
		model:  c.Model,
		http: resty.New().
			SetHostURL(strings.TrimRight(c.BaseURL, "/")).
			SetTimeout(c.Timeout).
			SetHeader("Content-Type", "application/json"),
		brk: breakerx.New(breakerx.Config{Name: "gemini"}),
	}
}

// Configured 是否配置了 API Key
func (g *GeminiClient) Configured() bool {
	return g != nil && g.apiKey != ""
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete 单轮生成
func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	if !g.Configured() {
		return "", ErrUnconfigured
	}

	var text string
	err := g.brk.DoWithAcceptable(func() error {
		var out generateResponse
		resp, err := g.http.R().
			SetContext(ctx).
			SetHeader("x-goog-api-key", g.apiKey).
			SetBody(generateRequest{Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}}}).
			SetResult(&out).
			SetError(&out).
			Post(fmt.Sprintf("/v1beta/models/%s:generateContent", g.model))
		if err != nil {
			return fmt.Errorf("gemini request: %w", err)
		}
		if resp.IsError() {
			msg := strings.TrimSpace(resp.String())
			if out.Error != nil {
				msg = out.Error.Message
			}
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode(), msg)
		}

		for _, c := range out.Candidates {
			for _, p := range c.Content.Parts {
				if t := strings.TrimSpace(p.Text); t != "" {
					text = t
					return nil
				}
			}
		}
		return errors.New("gemini response missing text")
	}, func(err error) bool {
		return err == nil || errors.Is(err, context.Canceled)
	})
	return text, err
}
