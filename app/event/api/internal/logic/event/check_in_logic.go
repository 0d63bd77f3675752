package event

import (
	"context"

	"campus-connect/app/event/api/internal/logic"
	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type CheckInLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 签到
func NewCheckInLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CheckInLogic {
	return &CheckInLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *CheckInLogic) CheckIn(req *types.CheckInReq) (resp *types.ActionResp, err error) {
	actor, err := logic.CurrentActor(l.ctx)
	if err != nil {
		return nil, err
	}
	if err := l.svcCtx.Events.CheckIn(l.ctx, req.Id, actor, req.Code); err != nil {
		return nil, err
	}
	return &types.ActionResp{Success: true}, nil
}
