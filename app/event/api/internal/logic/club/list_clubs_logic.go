package club

import (
	"context"

	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type ListClubsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 活跃社团列表
func NewListClubsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListClubsLogic {
	return &ListClubsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ListClubsLogic) ListClubs() (resp *types.ListClubsResp, err error) {
	clubs, err := l.svcCtx.Clubs.ListActive(l.ctx)
	if err != nil {
		return nil, err
	}
	return &types.ListClubsResp{List: clubs}, nil
}
