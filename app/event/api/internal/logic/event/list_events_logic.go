package event

import (
	"context"

	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"
	"campus-connect/app/event/view"
	"campus-connect/common/ctxdata"

	"github.com/zeromicro/go-zero/core/logx"
)

type ListEventsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 活动列表（本地镜像上的搜索、筛选、排序、游标分页）
func NewListEventsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListEventsLogic {
	return &ListEventsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ListEventsLogic) ListEvents(req *types.ListEventsReq) (resp *types.ListEventsResp, err error) {
	q, err := view.Query{
		Search:   req.Q,
		Category: req.Category,
		Filter:   view.Filter(req.Filter),
		Sort:     view.SortKey(req.Sort),
		Viewer:   ctxdata.GetUserIDFromCtx(l.ctx),
		Now:      l.svcCtx.Now(),
	}.Normalize()
	if err != nil {
		return nil, err
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = l.svcCtx.Config.Events.PageSize
	}

	state := l.svcCtx.Events.State()
	page, err := view.Paginate(view.Apply(state.Events, q), q.Sort, req.Cursor, pageSize)
	if err != nil {
		return nil, err
	}

	return &types.ListEventsResp{
		List:       page.Items,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
		Loading:    state.Loading,
	}, nil
}
