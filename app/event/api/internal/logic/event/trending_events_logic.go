package event

import (
	"context"

	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type TrendingEventsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 热门活动 Top N
func NewTrendingEventsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *TrendingEventsLogic {
	return &TrendingEventsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *TrendingEventsLogic) TrendingEvents(req *types.TrendingReq) (resp *types.TrendingResp, err error) {
	limit := req.Limit
	if limit <= 0 {
		limit = l.svcCtx.Config.Events.TrendingLimit
	}
	items, err := l.svcCtx.Trending.TopN(l.ctx, limit)
	if err != nil {
		return nil, err
	}
	return &types.TrendingResp{List: items}, nil
}
