package event

import (
	"context"

	"campus-connect/app/event/api/internal/logic"
	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"
	"campus-connect/app/event/model"
	"campus-connect/common/errorx"

	"github.com/zeromicro/go-zero/core/logx"
)

type UpdateEventLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 更新活动（仅组织者）
func NewUpdateEventLogic(ctx context.Context, svcCtx *svc.ServiceContext) *UpdateEventLogic {
	return &UpdateEventLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *UpdateEventLogic) UpdateEvent(req *types.UpdateEventReq) (resp *types.ActionResp, err error) {
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

	patch, err := toPatch(req)
	if err != nil {
		return nil, err
	}
	if err := (logic.EventFields{
		Title:       patch.Title,
		Description: patch.Description,
		Venue:       patch.Venue,
		Category:    patch.Category,
		ImageURL:    patch.ImageURL,
		Tags:        patch.Tags,
	}).Validate(); err != nil {
		return nil, err
	}

	// 时间区间按合并后的结果校验
	start, end := current.EventDate, current.EndDate
	if patch.EventDate != nil {
		start = *patch.EventDate
	}
	if patch.EndDate != nil {
		end = patch.EndDate
	}
	if end != nil && end.Before(start) {
		return nil, errorx.ErrInvalidParams("结束时间不能早于开始时间")
	}

	if err := l.svcCtx.Events.Update(l.ctx, req.Id, patch); err != nil {
		return nil, err
	}
	return &types.ActionResp{Success: true}, nil
}

func toPatch(req *types.UpdateEventReq) (model.EventPatch, error) {
	patch := model.EventPatch{
		Title:         req.Title,
		Description:   req.Description,
		ImageURL:      req.ImageUrl,
		Category:      req.Category,
		Venue:         req.Venue,
		Tags:          req.Tags,
		MaxAttendees:  req.MaxAttendees,
		IsPublic:      req.IsPublic,
		RSVPOpen:      req.RsvpOpen,
		AllowComments: req.AllowComments,
		CheckInCode:   req.CheckInCode,
	}
	if req.EventDate != nil {
		t, err := logic.ParseTime("eventDate", *req.EventDate)
		if err != nil {
			return patch, err
		}
		if t == nil {
			return patch, errorx.ErrInvalidParams("活动时间不能为空")
		}
		patch.EventDate = t
	}
	if req.EndDate != nil {
		t, err := logic.ParseTime("endDate", *req.EndDate)
		if err != nil {
			return patch, err
		}
		patch.EndDate = t
	}
	return patch, nil
}
