package event

import (
	"context"

	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"
	"campus-connect/common/ctxdata"

	"github.com/zeromicro/go-zero/core/logx"
)

type RecordViewLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 浏览计数，已登录用户在去重窗口内只计一次
func NewRecordViewLogic(ctx context.Context, svcCtx *svc.ServiceContext) *RecordViewLogic {
	return &RecordViewLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *RecordViewLogic) RecordView(req *types.EventIdReq) (resp *types.ViewResp, err error) {
	viewer := ctxdata.GetUserIDFromCtx(l.ctx)
	if !l.svcCtx.Views.First(l.ctx, req.Id, viewer) {
		return &types.ViewResp{Counted: false}, nil
	}
	if err := l.svcCtx.Events.RecordView(l.ctx, req.Id); err != nil {
		return nil, err
	}
	return &types.ViewResp{Counted: true}, nil
}
