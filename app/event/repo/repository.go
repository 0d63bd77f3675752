// Package repo 活动仓储
//
// 所有修改都是“读-校验-写”：先读最新文档，校验前置条件，再发出带条件的原子写。
// 成员条件（rsvp 中是否已有该用户）始终随写入一起提交，保证
// currentAttendees == len(rsvp)；容量条件默认只在读取时校验，
// 开启 WithStrictCapacity 后同样随写入提交。
package repo

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"strings"
	"time"

	"campus-connect/app/event/activitylog"
	"campus-connect/app/event/model"
	"campus-connect/app/event/store"
	"campus-connect/common/errorx"

	"github.com/zeromicro/go-zero/core/logx"
)

// Collection 活动集合名
const Collection = "events"

var errConflict = errors.New("concurrent modification, retries exhausted")

// Repository 活动仓储
type Repository struct {
	events    store.Collection[model.Event]
	committer store.Committer
	logger    *activitylog.Logger
	mirror    *Mirror
	opts      options
}

// New 创建活动仓储
func New(events store.Collection[model.Event], committer store.Committer, logger *activitylog.Logger, opts ...Option) *Repository {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Repository{
		events:    events,
		committer: committer,
		logger:    logger,
		mirror:    NewMirror(),
		opts:      o,
	}
}

// ==================== 响应式读取 ====================

// Run 订阅公开活动（按活动时间升序），每次快照整体覆盖本地镜像；阻塞到 ctx 结束
func (r *Repository) Run(ctx context.Context) error {
	ch, err := r.events.Subscribe(ctx, publicEventsQuery())
	if err != nil {
		r.mirror.fail(err)
		return errorx.ErrRemoteFailure(err)
	}

	logx.Info("[EventRepo] 开始同步公开活动")
	for snap := range ch {
		if snap.Err != nil {
			logx.Errorf("[EventRepo] 订阅推送失败: %v", snap.Err)
			r.mirror.fail(snap.Err)
			continue
		}
		for i := range snap.Items {
			snap.Items[i].Normalize()
		}
		r.mirror.replace(snap.Items)
	}
	return nil
}

// State 当前镜像状态
func (r *Repository) State() State {
	return r.mirror.Snapshot()
}

// Subscribe 订阅镜像状态变化
func (r *Repository) Subscribe() (<-chan State, func()) {
	return r.mirror.Subscribe()
}

func publicEventsQuery() store.Query {
	return store.Where(model.FieldIsPublic, true).Sort(model.FieldEventDate, false)
}

// ==================== 查询 ====================

// Get 读取最新活动，并按访问者计算个人状态
func (r *Repository) Get(ctx context.Context, eventID, viewerID string) (model.Event, error) {
	e, err := r.load(ctx, eventID)
	if err != nil {
		return model.Event{}, err
	}
	return e.ForViewer(viewerID), nil
}

// ByOrganizer 某组织者创建的全部活动（含非公开）
func (r *Repository) ByOrganizer(ctx context.Context, organizerID string) ([]model.Event, error) {
	events, err := r.events.Find(ctx, store.Where(model.FieldOrganizerID, organizerID).Sort(model.FieldEventDate, false))
	if err != nil {
		return nil, errorx.ErrRemoteFailure(err)
	}
	for i := range events {
		events[i].Normalize()
	}
	return events, nil
}

// ==================== 创建 ====================

// NewEvent 创建活动的输入；三个开关为 nil 时默认开启
type NewEvent struct {
	Title         string
	Description   string
	ImageURL      string
	Category      string
	Venue         string
	Tags          []string
	ClubID        string
	EventDate     time.Time
	EndDate       *time.Time
	MaxAttendees  int
	IsPublic      *bool
	RSVPOpen      *bool
	AllowComments *bool
	CheckInCode   string
}

// Create 创建活动：集合为空、计数为零
func (r *Repository) Create(ctx context.Context, in NewEvent, organizer model.Actor) (created model.Event, err error) {
	defer func(start time.Time) { observe("create", start, err) }(time.Now())

	if organizer.ID == "" {
		return model.Event{}, errorx.ErrUnauthorized()
	}
	if err := validateNewEvent(in); err != nil {
		return model.Event{}, err
	}

	code := strings.TrimSpace(in.CheckInCode)
	if code == "" {
		if code, err = generateCheckInCode(); err != nil {
			return model.Event{}, errorx.Wrap(errorx.CodeInternalError, err)
		}
	}

	now := r.opts.now()
	e := model.Event{
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		ImageURL:      in.ImageURL,
		Category:      in.Category,
		Venue:         in.Venue,
		Tags:          in.Tags,
		ClubID:        in.ClubID,
		OrganizerID:   organizer.ID,
		Organizer:     model.Organizer{Name: organizer.Name, AvatarURL: organizer.PhotoURL},
		EventDate:     in.EventDate,
		EndDate:       in.EndDate,
		CreatedAt:     now,
		UpdatedAt:     now,
		MaxAttendees:  in.MaxAttendees,
		IsPublic:      boolOr(in.IsPublic, true),
		RSVPOpen:      boolOr(in.RSVPOpen, true),
		AllowComments: boolOr(in.AllowComments, true),
		CheckInCode:   code,
	}
	e.Normalize()

	id, err := r.events.Insert(ctx, e)
	if err != nil {
		logx.WithContext(ctx).Errorf("[EventRepo] 创建活动失败: organizer=%s, err=%v", organizer.ID, err)
		return model.Event{}, errorx.ErrRemoteFailure(err)
	}
	e.ID = id

	if e.IsPublic {
		r.mirror.insert(e)
	}
	r.opts.notifier.EventCreated(ctx, e)
	return e, nil
}

func validateNewEvent(in NewEvent) error {
	if strings.TrimSpace(in.Title) == "" {
		return errorx.ErrInvalidParams("活动标题不能为空")
	}
	if in.EventDate.IsZero() {
		return errorx.ErrInvalidParams("活动时间不能为空")
	}
	if in.EndDate != nil && in.EndDate.Before(in.EventDate) {
		return errorx.ErrInvalidParams("结束时间不能早于开始时间")
	}
	if in.MaxAttendees < 0 {
		return errorx.ErrInvalidParams("人数上限不能为负数")
	}
	return nil
}

// generateCheckInCode 生成签到码
func generateCheckInCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)
	return "CK" + code[:10], nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// ==================== 报名 ====================

// Rsvp 报名
func (r *Repository) Rsvp(ctx context.Context, eventID string, actor model.Actor) (err error) {
	defer func(start time.Time) { observe("rsvp", start, err) }(time.Now())
	if actor.ID == "" {
		return errorx.ErrUnauthorized()
	}

	e, err := r.readVerifyWrite(ctx, eventID, "rsvp",
		func(e *model.Event) error {
			switch {
			case model.Contains(e.RSVP, actor.ID):
				return errorx.New(errorx.CodeAlreadyRsvpd)
			case !e.RSVPOpen:
				return errorx.New(errorx.CodeRsvpClosed)
			case e.IsFull():
				return errorx.New(errorx.CodeEventFull)
			}
			return nil
		},
		func(e *model.Event) store.Mutation {
			m := store.Mutation{
				AddToSet: map[string]any{model.FieldRSVP: actor.ID},
				Inc:      map[string]int{model.FieldCurrentAttendees: 1},
				Guards:   []store.Guard{store.Absent(model.FieldRSVP, actor.ID)},
			}
			if r.opts.strictCapacity && e.HasCapacityLimit() {
				m.Guards = append(m.Guards, store.LenBelow(model.FieldRSVP, e.MaxAttendees))
			}
			return m
		},
		func(e *model.Event) {
			if !model.Contains(e.RSVP, actor.ID) {
				e.RSVP = append(e.RSVP, actor.ID)
				e.CurrentAttendees++
			}
		})
	if err != nil {
		return err
	}

	r.afterInteraction(ctx, e, actor, model.ActionRSVP, "")
	return nil
}

// CancelRsvp 取消报名
func (r *Repository) CancelRsvp(ctx context.Context, eventID string, actor model.Actor) (err error) {
	defer func(start time.Time) { observe("cancel_rsvp", start, err) }(time.Now())
	if actor.ID == "" {
		return errorx.ErrUnauthorized()
	}

	e, err := r.readVerifyWrite(ctx, eventID, "cancel_rsvp",
		func(e *model.Event) error {
			if !model.Contains(e.RSVP, actor.ID) {
				return errorx.New(errorx.CodeNotRsvpd)
			}
			return nil
		},
		func(e *model.Event) store.Mutation {
			m := store.Mutation{
				Pull:   map[string]any{model.FieldRSVP: actor.ID},
				Guards: []store.Guard{store.Present(model.FieldRSVP, actor.ID)},
			}
			if e.CurrentAttendees > 0 {
				m.Inc = map[string]int{model.FieldCurrentAttendees: -1}
			} else {
				// 计数已漂移为 0，按下限写回
				m.Set = map[string]any{model.FieldCurrentAttendees: 0}
			}
			return m
		},
		func(e *model.Event) {
			e.RSVP = model.RemoveFromSet(e.RSVP, actor.ID)
			if e.CurrentAttendees > 0 {
				e.CurrentAttendees--
			}
		})
	if err != nil {
		return err
	}

	r.afterInteraction(ctx, e, actor, model.ActionCancelRSVP, "")
	return nil
}

// ==================== 点赞 / 收藏 ====================

// Like 点赞；重复点赞不报错
func (r *Repository) Like(ctx context.Context, eventID string, actor model.Actor) (err error) {
	defer func(start time.Time) { observe("like", start, err) }(time.Now())
	return r.toggleSet(ctx, eventID, actor, model.FieldLikes, true, model.ActionLike)
}

// Unlike 取消点赞
func (r *Repository) Unlike(ctx context.Context, eventID string, actor model.Actor) (err error) {
	defer func(start time.Time) { observe("unlike", start, err) }(time.Now())
	return r.toggleSet(ctx, eventID, actor, model.FieldLikes, false, model.ActionUnlike)
}

// Save 收藏
func (r *Repository) Save(ctx context.Context, eventID string, actor model.Actor) (err error) {
	defer func(start time.Time) { observe("save", start, err) }(time.Now())
	return r.toggleSet(ctx, eventID, actor, model.FieldSaves, true, model.ActionSave)
}

// Unsave 取消收藏
func (r *Repository) Unsave(ctx context.Context, eventID string, actor model.Actor) (err error) {
	defer func(start time.Time) { observe("unsave", start, err) }(time.Now())
	return r.toggleSet(ctx, eventID, actor, model.FieldSaves, false, model.ActionUnsave)
}

// toggleSet 点赞/收藏类集合的增删，不校验成员关系
func (r *Repository) toggleSet(ctx context.Context, eventID string, actor model.Actor, field string, add bool, action model.Action) error {
	if actor.ID == "" {
		return errorx.ErrUnauthorized()
	}

	e, err := r.readVerifyWrite(ctx, eventID, string(action), nil,
		func(*model.Event) store.Mutation {
			if add {
				return store.Mutation{AddToSet: map[string]any{field: actor.ID}}
			}
			return store.Mutation{Pull: map[string]any{field: actor.ID}}
		},
		func(e *model.Event) {
			set := &e.Likes
			if field == model.FieldSaves {
				set = &e.Saves
			}
			if add {
				*set = model.AddToSet(*set, actor.ID)
			} else {
				*set = model.RemoveFromSet(*set, actor.ID)
			}
		})
	if err != nil {
		return err
	}

	r.afterInteraction(ctx, e, actor, action, "")
	return nil
}

// ==================== 签到 ====================

// CheckIn 签到；code 为空表示未出示签到码
func (r *Repository) CheckIn(ctx context.Context, eventID string, actor model.Actor, code string) (err error) {
	defer func(start time.Time) { observe("checkin", start, err) }(time.Now())
	if actor.ID == "" {
		return errorx.ErrUnauthorized()
	}
	code = strings.TrimSpace(code)

	e, err := r.readVerifyWrite(ctx, eventID, "checkin",
		func(e *model.Event) error {
			switch {
			case code != "" && code != e.CheckInCode:
				return errorx.New(errorx.CodeInvalidCode)
			case !model.Contains(e.RSVP, actor.ID):
				return errorx.New(errorx.CodeRsvpRequired)
			case model.Contains(e.CheckedInAttendees, actor.ID):
				return errorx.New(errorx.CodeAlreadyCheckedIn)
			}
			return nil
		},
		func(*model.Event) store.Mutation {
			return store.Mutation{
				AddToSet: map[string]any{model.FieldCheckedInAttendees: actor.ID},
				Guards: []store.Guard{
					store.Present(model.FieldRSVP, actor.ID),
					store.Absent(model.FieldCheckedInAttendees, actor.ID),
				},
			}
		},
		func(e *model.Event) {
			e.CheckedInAttendees = model.AddToSet(e.CheckedInAttendees, actor.ID)
		})
	if err != nil {
		return err
	}

	r.afterInteraction(ctx, e, actor, model.ActionCheckIn, "")
	return nil
}

// ==================== 评论 ====================

// AddComment 追加评论
func (r *Repository) AddComment(ctx context.Context, eventID string, actor model.Actor, text string) (comment model.Comment, err error) {
	defer func(start time.Time) { observe("comment", start, err) }(time.Now())
	if actor.ID == "" {
		return model.Comment{}, errorx.ErrUnauthorized()
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Comment{}, errorx.ErrInvalidParams("评论内容不能为空")
	}

	comment = model.Comment{
		ID:         r.opts.newID(),
		UserID:     actor.ID,
		UserName:   actor.Name,
		UserAvatar: actor.PhotoURL,
		Text:       text,
		CreatedAt:  r.opts.now(),
		Likes:      []string{},
	}

	e, err := r.readVerifyWrite(ctx, eventID, "comment",
		func(e *model.Event) error {
			if !e.AllowComments {
				return errorx.New(errorx.CodeCommentsDisabled)
			}
			return nil
		},
		func(*model.Event) store.Mutation {
			return store.Mutation{Push: map[string]any{model.FieldComments: comment}}
		},
		func(e *model.Event) {
			e.Comments = append(e.Comments, comment)
		})
	if err != nil {
		return model.Comment{}, err
	}

	r.afterInteraction(ctx, e, actor, model.ActionComment, text)
	return comment, nil
}

// ==================== 分享 / 浏览 ====================

// Share 分享计数；actor 为 nil 表示匿名分享，只计数不记日志
func (r *Repository) Share(ctx context.Context, eventID string, actor *model.Actor) (err error) {
	defer func(start time.Time) { observe("share", start, err) }(time.Now())

	e, err := r.readVerifyWrite(ctx, eventID, "share", nil,
		func(*model.Event) store.Mutation {
			return store.Mutation{Inc: map[string]int{model.FieldShareCount: 1}}
		},
		func(e *model.Event) { e.ShareCount++ })
	if err != nil {
		return err
	}

	if actor != nil && actor.ID != "" {
		r.afterInteraction(ctx, e, *actor, model.ActionShare, "")
		return nil
	}
	r.opts.notifier.Interaction(ctx, eventID, "", model.ActionShare)
	return nil
}

// RecordView 浏览量 +1
func (r *Repository) RecordView(ctx context.Context, eventID string) (err error) {
	defer func(start time.Time) { observe("view", start, err) }(time.Now())

	_, err = r.readVerifyWrite(ctx, eventID, "view", nil,
		func(*model.Event) store.Mutation {
			return store.Mutation{Inc: map[string]int{model.FieldViewCount: 1}}
		},
		func(e *model.Event) { e.ViewCount++ })
	return err
}

// ==================== 更新 / 删除 ====================

// Update 合并补丁字段并刷新 updatedAt；权限由调用方在上层校验
func (r *Repository) Update(ctx context.Context, eventID string, patch model.EventPatch) (err error) {
	defer func(start time.Time) { observe("update", start, err) }(time.Now())

	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return errorx.ErrInvalidParams("活动标题不能为空")
	}
	if patch.MaxAttendees != nil && *patch.MaxAttendees < 0 {
		return errorx.ErrInvalidParams("人数上限不能为负数")
	}

	now := r.opts.now()
	fields := patch.Fields()
	fields[model.FieldUpdatedAt] = now

	_, err = r.readVerifyWrite(ctx, eventID, "update", nil,
		func(*model.Event) store.Mutation {
			return store.Mutation{Set: fields}
		},
		func(e *model.Event) {
			patch.Apply(e)
			e.UpdatedAt = now
		})
	return err
}

// Delete 删除活动，并在同一批次中删除其全部日志
func (r *Repository) Delete(ctx context.Context, eventID string) (err error) {
	defer func(start time.Time) { observe("delete", start, err) }(time.Now())

	if _, err := r.load(ctx, eventID); err != nil {
		return err
	}

	batch := store.NewBatch().
		Delete(Collection, eventID).
		DeleteWhere(activitylog.Collection, store.Cond{Field: model.FieldLogEventID, Value: eventID})
	if err := r.committer.Commit(ctx, batch); err != nil {
		logx.WithContext(ctx).Errorf("[EventRepo] 删除活动失败: eventId=%s, err=%v", eventID, err)
		return errorx.ErrRemoteFailure(err)
	}

	r.mirror.remove(eventID)
	r.opts.notifier.EventDeleted(ctx, eventID)
	return nil
}

// ==================== 内部实现 ====================

// load 读取最新文档
func (r *Repository) load(ctx context.Context, eventID string) (model.Event, error) {
	if strings.TrimSpace(eventID) == "" {
		return model.Event{}, errorx.ErrEventNotFound()
	}

	e, err := r.events.Get(ctx, eventID)
	if errors.Is(err, store.ErrNotFound) {
		return model.Event{}, errorx.ErrEventNotFound()
	}
	if err != nil {
		logx.WithContext(ctx).Errorf("[EventRepo] 读取活动失败: eventId=%s, err=%v", eventID, err)
		return model.Event{}, errorx.ErrRemoteFailure(err)
	}
	e.Normalize()
	return e, nil
}

// readVerifyWrite 读取、校验、条件写；条件未命中说明期间文档被并发修改，
// 重新读取并按最新状态再次校验
func (r *Repository) readVerifyWrite(
	ctx context.Context,
	eventID, op string,
	check func(e *model.Event) error,
	mutation func(e *model.Event) store.Mutation,
	optimistic func(e *model.Event),
) (model.Event, error) {
	for attempt := 1; attempt <= r.opts.maxAttempts; attempt++ {
		current, err := r.load(ctx, eventID)
		if err != nil {
			return model.Event{}, err
		}
		if check != nil {
			if err := check(&current); err != nil {
				return current, err
			}
		}

		matched, err := r.events.Update(ctx, eventID, mutation(&current))
		if err != nil {
			logx.WithContext(ctx).Errorf("[EventRepo] 写入失败: op=%s, eventId=%s, err=%v", op, eventID, err)
			return current, errorx.ErrRemoteFailure(err)
		}
		if matched {
			if optimistic != nil {
				r.mirror.patch(eventID, optimistic)
			}
			return current, nil
		}

		logx.WithContext(ctx).Infof("[EventRepo] 条件写未命中，重新读取: op=%s, eventId=%s, attempt=%d", op, eventID, attempt)
	}
	return model.Event{}, errorx.ErrRemoteFailure(errConflict)
}

// afterInteraction 成功后记日志并发布互动消息
func (r *Repository) afterInteraction(ctx context.Context, e model.Event, actor model.Actor, action model.Action, details string) {
	r.logger.Log(ctx, e.ID, e.Title, actor, action, details)
	r.opts.notifier.Interaction(ctx, e.ID, actor.ID, action)
}
