// Package club 社团：创建、加入、退出、列表
package club

import (
	"context"
	"errors"
	"strings"
	"time"

	"campus-connect/app/event/model"
	"campus-connect/app/event/store"
	"campus-connect/common/errorx"

	"github.com/zeromicro/go-zero/core/logx"
)

// Collection 社团集合名
const Collection = "clubs"

const maxAttempts = 3

var errConflict = errors.New("concurrent modification, retries exhausted")

// Service 社团服务
type Service struct {
	clubs store.Collection[model.Club]
	now   func() time.Time
}

// New 创建社团服务
func New(clubs store.Collection[model.Club]) *Service {
	return &Service{clubs: clubs, now: time.Now}
}

// NewClub 创建社团的输入
type NewClub struct {
	Name          string
	Description   string
	LogoURL       string
	CoverImageURL string
	Category      string
}

// Create 创建社团，创建者自动成为第一名成员
func (s *Service) Create(ctx context.Context, in NewClub, creator model.Actor) (model.Club, error) {
	if creator.ID == "" {
		return model.Club{}, errorx.ErrUnauthorized()
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Club{}, errorx.ErrInvalidParams("社团名称不能为空")
	}

	c := model.Club{
		Name:          name,
		Description:   in.Description,
		LogoURL:       in.LogoURL,
		CoverImageURL: in.CoverImageURL,
		Category:      in.Category,
		CreatedBy:     creator.ID,
		CreatedAt:     s.now(),
		Members:       []string{creator.ID},
		MemberCount:   1,
		IsActive:      true,
	}
	id, err := s.clubs.Insert(ctx, c)
	if err != nil {
		logx.WithContext(ctx).Errorf("[Club] 创建失败: creator=%s, err=%v", creator.ID, err)
		return model.Club{}, errorx.ErrRemoteFailure(err)
	}
	c.ID = id
	return c, nil
}

// Get 读取社团
func (s *Service) Get(ctx context.Context, clubID string) (model.Club, error) {
	c, err := s.clubs.Get(ctx, clubID)
	if errors.Is(err, store.ErrNotFound) {
		return model.Club{}, errorx.New(errorx.CodeClubNotFound)
	}
	if err != nil {
		return model.Club{}, errorx.ErrRemoteFailure(err)
	}
	if c.Members == nil {
		c.Members = []string{}
	}
	return c, nil
}

// ListActive 活跃社团，按创建时间倒序
func (s *Service) ListActive(ctx context.Context) ([]model.Club, error) {
	clubs, err := s.clubs.Find(ctx, store.Where(model.FieldClubIsActive, true).Sort(model.FieldClubCreatedAt, true))
	if err != nil {
		return nil, errorx.ErrRemoteFailure(err)
	}
	return clubs, nil
}

// Join 加入社团
func (s *Service) Join(ctx context.Context, clubID, userID string) error {
	return s.membership(ctx, clubID, userID, true)
}

// Leave 退出社团
func (s *Service) Leave(ctx context.Context, clubID, userID string) error {
	return s.membership(ctx, clubID, userID, false)
}

func (s *Service) membership(ctx context.Context, clubID, userID string, join bool) error {
	if userID == "" {
		return errorx.ErrUnauthorized()
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		c, err := s.Get(ctx, clubID)
		if err != nil {
			return err
		}

		member := model.Contains(c.Members, userID)
		var m store.Mutation
		switch {
		case join && member:
			return errorx.New(errorx.CodeAlreadyMember)
		case join:
			m = store.Mutation{
				AddToSet: map[string]any{model.FieldClubMembers: userID},
				Inc:      map[string]int{model.FieldClubMemberCount: 1},
				Guards:   []store.Guard{store.Absent(model.FieldClubMembers, userID)},
			}
		case !member:
			return errorx.New(errorx.CodeNotMember)
		default:
			m = store.Mutation{
				Pull:   map[string]any{model.FieldClubMembers: userID},
				Guards: []store.Guard{store.Present(model.FieldClubMembers, userID)},
			}
			if c.MemberCount > 0 {
				m.Inc = map[string]int{model.FieldClubMemberCount: -1}
			} else {
				m.Set = map[string]any{model.FieldClubMemberCount: 0}
			}
		}

		matched, err := s.clubs.Update(ctx, clubID, m)
		if err != nil {
			logx.WithContext(ctx).Errorf("[Club] 更新成员失败: clubId=%s, userId=%s, err=%v", clubID, userID, err)
			return errorx.ErrRemoteFailure(err)
		}
		if matched {
			return nil
		}
	}
	return errorx.ErrRemoteFailure(errConflict)
}
