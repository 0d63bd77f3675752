package event

import (
	"context"

	"campus-connect/app/event/api/internal/logic"
	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"
	"campus-connect/common/errorx"

	"github.com/zeromicro/go-zero/core/logx"
)

type EventActivityLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 活动互动日志（仅组织者）
func NewEventActivityLogic(ctx context.Context, svcCtx *svc.ServiceContext) *EventActivityLogic {
	return &EventActivityLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *EventActivityLogic) EventActivity(req *types.ActivityLogReq) (resp *types.ActivityLogResp, err error) {
	actor, err := logic.CurrentActor(l.ctx)
	if err != nil {
		return nil, err
	}

	e, err := l.svcCtx.Events.Get(l.ctx, req.Id, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := logic.RequireOrganizer(e, actor.ID); err != nil {
		return nil, err
	}

	logs, err := l.svcCtx.Logs.ForEvent(l.ctx, req.Id, req.Limit)
	if err != nil {
		l.Errorf("[EventActivity] 读取日志失败: eventId=%s, err=%v", req.Id, err)
		return nil, errorx.ErrRemoteFailure(err)
	}
	return &types.ActivityLogResp{List: logs}, nil
}
