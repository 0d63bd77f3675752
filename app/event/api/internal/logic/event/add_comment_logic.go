package event

import (
	"context"

	"campus-connect/app/event/api/internal/logic"
	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"
	"campus-connect/app/event/model"
	"campus-connect/common/errorx"
	"campus-connect/common/utils/validate"

	"github.com/zeromicro/go-zero/core/logx"
)

type AddCommentLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 发表评论
func NewAddCommentLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AddCommentLogic {
	return &AddCommentLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *AddCommentLogic) AddComment(req *types.AddCommentReq) (resp *model.Comment, err error) {
	actor, err := logic.CurrentActor(l.ctx)
	if err != nil {
		return nil, err
	}
	if !validate.MaxLength(req.Text, logic.MaxCommentLen) {
		return nil, errorx.ErrInvalidParams("评论过长")
	}
	c, err := l.svcCtx.Events.AddComment(l.ctx, req.Id, actor, req.Text)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
