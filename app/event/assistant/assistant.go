// Package assistant 校园活动智能助手：聊天与个性化推荐
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campus-connect/app/event/model"
	"campus-connect/common/errorx"

	"github.com/zeromicro/go-zero/core/logx"
)

// MaxRecommendations 推荐条数上限
const MaxRecommendations = 5

// Completer 单轮文本生成
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Profile 推荐使用的用户画像
type Profile struct {
	Name      string   `json:"name,omitempty"`
	Major     string   `json:"major,omitempty"`
	Year      string   `json:"year,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

// Assistant 智能助手
type Assistant struct {
	completer Completer
}

// New 创建助手
func New(c Completer) *Assistant {
	return &Assistant{completer: c}
}

// Chat 回答用户问题；chatContext 为可选的页面上下文（例如当前活动详情）
func (a *Assistant) Chat(ctx context.Context, message, chatContext string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", errorx.ErrInvalidParams("消息不能为空")
	}
	if a == nil || a.completer == nil {
		return "", errorx.New(errorx.CodeAssistantUnavailable)
	}
	if chatContext == "" {
		chatContext = "General campus event assistance"
	}

	prompt := fmt.Sprintf("You are CampusConnect AI, a helpful assistant for a college event platform.\n"+
		"Context: %s\nUser message: %s\n"+
		"Answer about campus events, RSVPs, clubs or campus life in under 150 words.", chatContext, message)

	reply, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		if !errors.Is(err, ErrUnconfigured) {
			logx.WithContext(ctx).Errorf("[Assistant] 聊天失败: %v", err)
		}
		return "", errorx.Wrap(errorx.CodeAssistantUnavailable, err)
	}
	return reply, nil
}

// Recommend 从候选活动中推荐标题；失败或未配置时返回空列表
func (a *Assistant) Recommend(ctx context.Context, profile Profile, history []string, candidates []model.Event) []string {
	if a == nil || a.completer == nil || len(candidates) == 0 {
		return []string{}
	}

	available := make([]string, 0, len(candidates))
	for _, e := range candidates {
		available = append(available, fmt.Sprintf("%s (%s)", e.Title, e.Category))
	}
	prompt := fmt.Sprintf("Recommend events for a student.\n"+
		"Profile: name=%s, major=%s, year=%s, interests=%s\n"+
		"Past events: %s\nAvailable events: %s\n"+
		"Return the top %d most relevant event titles as a comma-separated list. "+
		"Only use titles from the available events.",
		profile.Name, profile.Major, profile.Year, strings.Join(profile.Interests, ", "),
		strings.Join(history, ", "), strings.Join(available, ", "), MaxRecommendations)

	reply, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		if !errors.Is(err, ErrUnconfigured) {
			logx.WithContext(ctx).Errorf("[Assistant] 推荐失败: %v", err)
		}
		return []string{}
	}
	return ParseTitles(reply, candidates)
}

// ParseTitles 解析逗号分隔的标题：只保留候选中存在的（忽略大小写），去重，最多 MaxRecommendations 个。
// 返回候选中的原始标题写法。
func ParseTitles(reply string, candidates []model.Event) []string {
	known := make(map[string]string, len(candidates))
	for _, e := range candidates {
		key := strings.ToLower(strings.TrimSpace(e.Title))
		if _, ok := known[key]; !ok && key != "" {
			known[key] = e.Title
		}
	}

	out := []string{}
	seen := map[string]bool{}
	for _, raw := range strings.Split(reply, ",") {
		key := strings.ToLower(strings.Trim(strings.TrimSpace(raw), `"'*.`))
		title, ok := known[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, title)
		if len(out) == MaxRecommendations {
			break
		}
	}
	return out
}
