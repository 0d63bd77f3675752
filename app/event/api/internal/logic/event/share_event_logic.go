package event

import (
	"context"

	"campus-connect/app/event/api/internal/logic"
	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type ShareEventLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 分享计数，匿名也可调用
func NewShareEventLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ShareEventLogic {
	return &ShareEventLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ShareEventLogic) ShareEvent(req *types.EventIdReq) (resp *types.ActionResp, err error) {
	if err := l.svcCtx.Events.Share(l.ctx, req.Id, logic.OptionalActor(l.ctx)); err != nil {
		return nil, err
	}
	return &types.ActionResp{Success: true}, nil
}
