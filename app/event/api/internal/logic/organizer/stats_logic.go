package organizer

import (
	"context"

	"campus-connect/app/event/api/internal/logic"
	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/view"

	"github.com/zeromicro/go-zero/core/logx"
)

type StatsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 组织者数据概览
func NewStatsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *StatsLogic {
	return &StatsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *StatsLogic) Stats() (resp *view.Stats, err error) {
	actor, err := logic.CurrentActor(l.ctx)
	if err != nil {
		return nil, err
	}

	// 包含非公开活动，直接查存储而不是镜像
	events, err := l.svcCtx.Events.ByOrganizer(l.ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	stats := view.Summarize(events, actor.ID, l.svcCtx.Now())
	return &stats, nil
}
