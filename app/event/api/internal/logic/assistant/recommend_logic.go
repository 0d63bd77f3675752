package assistant

import (
	"context"

	"campus-connect/app/event/api/internal/logic"
	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"
	assistantsvc "campus-connect/app/event/assistant"
	"campus-connect/app/event/model"
	"campus-connect/app/event/view"

	"github.com/zeromicro/go-zero/core/logx"
)

type RecommendLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

// 个性化推荐：在即将开始的公开活动中挑选
func NewRecommendLogic(ctx context.Context, svcCtx *svc.ServiceContext) *RecommendLogic {
	return &RecommendLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *RecommendLogic) Recommend(req *types.RecommendReq) (resp *types.RecommendResp, err error) {
	actor, err := logic.CurrentActor(l.ctx)
	if err != nil {
		return nil, err
	}

	q, err := view.Query{Filter: view.FilterUpcoming, Viewer: actor.ID, Now: l.svcCtx.Now()}.Normalize()
	if err != nil {
		return nil, err
	}
	candidates := view.Apply(l.svcCtx.Events.State().Events, q)

	profile := assistantsvc.Profile{
		Name:      req.Profile.Name,
		Major:     req.Profile.Major,
		Year:      req.Profile.Year,
		Interests: req.Profile.Interests,
	}
	if profile.Name == "" {
		profile.Name = actor.Name
	}

	titles := l.svcCtx.Assistant.Recommend(l.ctx, profile, req.History, candidates)

	byTitle := make(map[string]model.Event, len(candidates))
	for _, e := range candidates {
		if _, ok := byTitle[e.Title]; !ok {
			byTitle[e.Title] = e
		}
	}
	matched := make([]model.Event, 0, len(titles))
	for _, t := range titles {
		if e, ok := byTitle[t]; ok {
			matched = append(matched, e)
		}
	}
	return &types.RecommendResp{Titles: titles, Events: matched}, nil
}
