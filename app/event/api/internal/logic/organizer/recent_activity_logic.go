package organizer

import (
	"context"

	"campus-connect/app/event/api/internal/logic"
	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"
	"campus-connect/app/event/model"
	"campus-connect/common/errorx"

	"github.com/zeromicro/go-zero/core/logx"
)

// 每次从日志集合扫描的条数
const recentScan = 500

type RecentActivityLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 组织者名下全部活动的最近互动
func NewRecentActivityLogic(ctx context.Context, svcCtx *svc.ServiceContext) *RecentActivityLogic {
	return &RecentActivityLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *RecentActivityLogic) RecentActivity(req *types.RecentActivityReq) (resp *types.ActivityLogResp, err error) {
	actor, err := logic.CurrentActor(l.ctx)
	if err != nil {
		return nil, err
	}

	events, err := l.svcCtx.Events.ByOrganizer(l.ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	owned := make(map[string]struct{}, len(events))
	for _, e := range events {
		owned[e.ID] = struct{}{}
	}

	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	logs, err := l.svcCtx.Logs.Recent(l.ctx, recentScan)
	if err != nil {
		l.Errorf("[RecentActivity] 读取日志失败: organizer=%s, err=%v", actor.ID, err)
		return nil, errorx.ErrRemoteFailure(err)
	}

	out := make([]model.ActivityLog, 0, limit)
	for _, entry := range logs {
		if _, ok := owned[entry.EventID]; !ok {
			continue
		}
		out = append(out, entry)
		if len(out) == limit {
			break
		}
	}
	return &types.ActivityLogResp{List: out}, nil
}
