package event

import (
	"context"

	"campus-connect/app/event/api/internal/logic"
	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type DeleteEventLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 删除活动及其日志（仅组织者）
func NewDeleteEventLogic(ctx context.Context, svcCtx *svc.ServiceContext) *DeleteEventLogic {
	return &DeleteEventLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *DeleteEventLogic) DeleteEvent(req *types.EventIdReq) (resp *types.ActionResp, err error) {
	actor, err := logic.CurrentActor(l.ctx)
	if err != nil {
		return nil, err
	}

	current, err := l.svcCtx.Events.Get(l.ctx, req.Id, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := logic.RequireOrganizer(current, actor.ID); err != nil {
		return nil, err
	}

	if err := l.svcCtx.Events.Delete(l.ctx, req.Id); err != nil {
		return nil, err
	}
	l.Infof("[DeleteEvent] 活动已删除: eventId=%s, organizer=%s", req.Id, actor.ID)
	return &types.ActionResp{Success: true}, nil
}
