package event

import (
	"context"

	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"
	"campus-connect/app/event/model"
	"campus-connect/common/ctxdata"
	"campus-connect/common/errorx"

	"github.com/zeromicro/go-zero/core/logx"
)

type GetEventLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 活动详情（带当前用户的个人状态）
func NewGetEventLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GetEventLogic {
	return &GetEventLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GetEventLogic) GetEvent(req *types.EventIdReq) (resp *model.Event, err error) {
	viewer := ctxdata.GetUserIDFromCtx(l.ctx)
	e, err := l.svcCtx.Events.Get(l.ctx, req.Id, viewer)
	if err != nil {
		return nil, err
	}
	// 非公开活动只对组织者可见
	if !e.IsPublic && e.OrganizerID != viewer {
		return nil, errorx.ErrEventNotFound()
	}
	return &e, nil
}
