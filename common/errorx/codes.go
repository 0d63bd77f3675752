/**
 * @projectName: CampusConnect
 * @package: errorx
 * @className: codes
 * @description: 统一错误码定义
 * @version: 1.0
 */

package errorx

// 错误码规范：
// 0       - 成功
// 1xxx    - 通用错误
// 2xxx    - 认证错误
// 3xxx    - 活动（Event）错误
// 5xxx    - 社团错误
// 6xxx    - 智能助手错误

const (
	CodeSuccess            = 0    // 成功
	CodeInternalError      = 1000 // 内部服务器错误
	CodeInvalidParams      = 1001 // 参数校验失败
	CodeUnauthorized       = 1002 // 未授权访问
	CodeForbidden          = 1003 // 禁止访问
	CodeTooManyRequests    = 1005 // 请求过于频繁
	CodeServiceUnavailable = 1006 // 服务暂不可用

	// 认证 2001-2010
	CodeLoginRequired = 2001 // 需要登录
	CodeTokenInvalid  = 2002 // Token无效
	CodeTokenExpired  = 2003 // Token已过期

	// 活动 3001-3020
	CodeEventNotFound    = 3001 // 活动不存在
	CodeAlreadyRsvpd     = 3002 // 已报名
	CodeNotRsvpd         = 3003 // 未报名
	CodeRsvpClosed       = 3004 // 报名已关闭
	CodeEventFull        = 3005 // 名额已满
	CodeInvalidCode      = 3006 // 签到码错误
	CodeRsvpRequired     = 3007 // 签到前需先报名
	CodeAlreadyCheckedIn = 3008 // 已签到
	CodeCommentsDisabled = 3009 // 评论已关闭
	CodeRemoteFailure    = 3010 // 存储调用失败

	// 社团 5001-5010
	CodeClubNotFound  = 5001 // 社团不存在
	CodeAlreadyMember = 5002 // 已是社团成员
	CodeNotMember     = 5003 // 不是社团成员

	// 智能助手 6001-6010
	CodeAssistantUnavailable = 6001 // 助手未配置或不可用
)

// codeMessages 错误码对应的默认消息
var codeMessages = map[int]string{
	CodeSuccess:              "success",
	CodeInternalError:        "内部服务器错误",
	CodeInvalidParams:        "参数校验失败",
	CodeUnauthorized:         "未授权访问",
	CodeForbidden:            "禁止访问",
	CodeTooManyRequests:      "请求过于频繁，请稍后再试",
	CodeServiceUnavailable:   "服务暂不可用",
	CodeLoginRequired:        "请先登录",
	CodeTokenInvalid:         "登录状态无效",
	CodeTokenExpired:         "登录已过期",
	CodeEventNotFound:        "活动不存在",
	CodeAlreadyRsvpd:         "您已报名该活动",
	CodeNotRsvpd:             "您尚未报名该活动",
	CodeRsvpClosed:           "该活动已关闭报名",
	CodeEventFull:            "活动名额已满",
	CodeInvalidCode:          "签到码无效",
	CodeRsvpRequired:         "请先报名再签到",
	CodeAlreadyCheckedIn:     "您已签到",
	CodeCommentsDisabled:     "该活动已关闭评论",
	CodeRemoteFailure:        "数据服务调用失败，请稍后重试",
	CodeClubNotFound:         "社团不存在",
	CodeAlreadyMember:        "您已是该社团成员",
	CodeNotMember:            "您不是该社团成员",
	CodeAssistantUnavailable: "智能助手暂不可用",
}

// GetMessage 根据错误码获取默认消息
func GetMessage(code int) string {
	if msg, ok := codeMessages[code]; ok {
		return msg
	}
	return "未知错误"
}
