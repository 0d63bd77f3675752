package event

import (
	"context"

	"campus-connect/app/event/api/internal/logic"
	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"
	"campus-connect/app/event/model"

	"github.com/zeromicro/go-zero/core/logx"
)

type InteractLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 报名、点赞、收藏及其撤销
func NewInteractLogic(ctx context.Context, svcCtx *svc.ServiceContext) *InteractLogic {
	return &InteractLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *InteractLogic) Rsvp(req *types.EventIdReq) (*types.ActionResp, error) {
	return l.do(req.Id, l.svcCtx.Events.Rsvp)
}

func (l *InteractLogic) CancelRsvp(req *types.EventIdReq) (*types.ActionResp, error) {
	return l.do(req.Id, l.svcCtx.Events.CancelRsvp)
}

func (l *InteractLogic) Like(req *types.EventIdReq) (*types.ActionResp, error) {
	return l.do(req.Id, l.svcCtx.Events.Like)
}

func (l *InteractLogic) Unlike(req *types.EventIdReq) (*types.ActionResp, error) {
	return l.do(req.Id, l.svcCtx.Events.Unlike)
}

func (l *InteractLogic) Save(req *types.EventIdReq) (*types.ActionResp, error) {
	return l.do(req.Id, l.svcCtx.Events.Save)
}

func (l *InteractLogic) Unsave(req *types.EventIdReq) (*types.ActionResp, error) {
	return l.do(req.Id, l.svcCtx.Events.Unsave)
}

func (l *InteractLogic) do(eventID string, op func(context.Context, string, model.Actor) error) (*types.ActionResp, error) {
	actor, err := logic.CurrentActor(l.ctx)
	if err != nil {
		return nil, err
	}
	if err := op(l.ctx, eventID, actor); err != nil {
		return nil, err
	}
	return &types.ActionResp{Success: true}, nil
}
