package club

import (
	"context"

	"campus-connect/app/event/api/internal/logic"
	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"
	clubsvc "campus-connect/app/event/club"
	"campus-connect/app/event/model"
	"campus-connect/common/utils/validate"

	"github.com/zeromicro/go-zero/core/logx"
)

type CreateClubLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 创建社团，创建者成为首个成员
func NewCreateClubLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CreateClubLogic {
	return &CreateClubLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *CreateClubLogic) CreateClub(req *types.CreateClubReq) (resp *model.Club, err error) {
	actor, err := logic.CurrentActor(l.ctx)
	if err != nil {
		return nil, err
	}
	if err := validate.New().
		MaxLength("name", req.Name, logic.MaxTitleLen).
		MaxLength("description", req.Description, logic.MaxDescriptionLen).
		MaxLength("category", req.Category, logic.MaxCategoryLen).
		URL("logoUrl", req.LogoUrl).
		URL("coverImageUrl", req.CoverImageUrl).
		Err(); err != nil {
		return nil, err
	}

	c, err := l.svcCtx.Clubs.Create(l.ctx, clubsvc.NewClub{
		Name:          req.Name,
		Description:   req.Description,
		LogoURL:       req.LogoUrl,
		CoverImageURL: req.CoverImageUrl,
		Category:      req.Category,
	}, actor)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
