package assistant

import (
	"context"

	"campus-connect/app/event/api/internal/logic"
	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"
	"campus-connect/common/errorx"
	"campus-connect/common/utils/validate"

	"github.com/zeromicro/go-zero/core/logx"
)

type ChatLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 智能助手对话
func NewChatLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ChatLogic {
	return &ChatLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ChatLogic) Chat(req *types.ChatReq) (resp *types.ChatResp, err error) {
	if _, err := logic.CurrentActor(l.ctx); err != nil {
		return nil, err
	}
	if !validate.MaxLength(req.Message, logic.MaxMessageLen) || !validate.MaxLength(req.Context, logic.MaxMessageLen) {
		return nil, errorx.ErrInvalidParams("消息过长")
	}
	reply, err := l.svcCtx.Assistant.Chat(l.ctx, req.Message, req.Context)
	if err != nil {
		return nil, err
	}
	return &types.ChatResp{Reply: reply}, nil
}
