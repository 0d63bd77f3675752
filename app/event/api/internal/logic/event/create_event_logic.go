package event

import (
	"context"

	"campus-connect/app/event/api/internal/logic"
	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"
	"campus-connect/app/event/repo"
	"campus-connect/common/errorx"

	"github.com/zeromicro/go-zero/core/logx"
)

type CreateEventLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 创建活动
func NewCreateEventLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CreateEventLogic {
	return &CreateEventLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *CreateEventLogic) CreateEvent(req *types.CreateEventReq) (resp *types.CreateEventResp, err error) {
	actor, err := logic.CurrentActor(l.ctx)
	if err != nil {
		return nil, err
	}

	if err := (logic.EventFields{
		Title:       &req.Title,
		Description: &req.Description,
		Venue:       &req.Venue,
		Category:    &req.Category,
		ImageURL:    &req.ImageUrl,
		Tags:        req.Tags,
	}).Validate(); err != nil {
		return nil, err
	}

	start, err := logic.ParseTime("eventDate", req.EventDate)
	if err != nil {
		return nil, err
	}
	if start == nil {
		return nil, errorx.ErrInvalidParams("活动时间不能为空")
	}
	end, err := logic.ParseTime("endDate", req.EndDate)
	if err != nil {
		return nil, err
	}

	// 关联社团时校验社团存在
	if req.ClubId != "" {
		if _, err := l.svcCtx.Clubs.Get(l.ctx, req.ClubId); err != nil {
			return nil, err
		}
	}

	e, err := l.svcCtx.Events.Create(l.ctx, repo.NewEvent{
		Title:         req.Title,
		Description:   req.Description,
		ImageURL:      req.ImageUrl,
		Category:      req.Category,
		Venue:         req.Venue,
		Tags:          req.Tags,
		ClubID:        req.ClubId,
		EventDate:     *start,
		EndDate:       end,
		MaxAttendees:  req.MaxAttendees,
		IsPublic:      req.IsPublic,
		RSVPOpen:      req.RsvpOpen,
		AllowComments: req.AllowComments,
		CheckInCode:   req.CheckInCode,
	}, actor)
	if err != nil {
		return nil, err
	}

	l.Infof("[CreateEvent] 活动已创建: eventId=%s, organizer=%s", e.ID, actor.ID)
	return &types.CreateEventResp{Event: e, CheckInCode: e.CheckInCode}, nil
}
