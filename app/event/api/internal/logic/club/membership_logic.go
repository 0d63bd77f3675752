package club

import (
	"context"

	"campus-connect/app/event/api/internal/logic"
	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type MembershipLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 加入 / 退出社团
func NewMembershipLogic(ctx context.Context, svcCtx *svc.ServiceContext) *MembershipLogic {
	return &MembershipLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *MembershipLogic) Join(req *types.ClubIdReq) (resp *types.ActionResp, err error) {
	actor, err := logic.CurrentActor(l.ctx)
	if err != nil {
		return nil, err
	}
	if err := l.svcCtx.Clubs.Join(l.ctx, req.Id, actor.ID); err != nil {
		return nil, err
	}
	return &types.ActionResp{Success: true}, nil
}

func (l *MembershipLogic) Leave(req *types.ClubIdReq) (resp *types.ActionResp, err error) {
	actor, err := logic.CurrentActor(l.ctx)
	if err != nil {
		return nil, err
	}
	if err := l.svcCtx.Clubs.Leave(l.ctx, req.Id, actor.ID); err != nil {
		return nil, err
	}
	return &types.ActionResp{Success: true}, nil
}
