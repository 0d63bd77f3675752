package repo

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"campus-connect/app/event/activitylog"
	"campus-connect/app/event/model"
	"campus-connect/app/event/store"
	"campus-connect/common/errorx"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	repo   *Repository
	store  *store.MemoryStore
	events *store.MemoryCollection[model.Event]
	logs   *store.MemoryCollection[model.ActivityLog]
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	s := store.NewMemoryStore()
	events := store.NewMemoryCollection[model.Event](s, Collection)
	logs := store.NewMemoryCollection[model.ActivityLog](s, activitylog.Collection)
	logger := activitylog.New(logs).WithClock(func() time.Time { return fixedNow })

	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return &fixture{
		repo:   New(events, s, logger, opts...),
		store:  s,
		events: events,
		logs:   logs,
	}
}

func (f *fixture) seed(t *testing.T, e model.Event) string {
	t.Helper()
	if e.Title == "" {
		e.Title = "Welcome Party"
	}
	if e.EventDate.IsZero() {
		e.EventDate = fixedNow.Add(48 * time.Hour)
	}
	e.IsPublic = true
	e.Normalize()
	id, err := f.events.Insert(context.Background(), e)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return id
}

func (f *fixture) get(t *testing.T, id string) model.Event {
	t.Helper()
	e, err := f.events.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get %s: %v", id, err)
	}
	return e
}

func (f *fixture) logCount(t *testing.T, eventID string) int {
	t.Helper()
	logs, err := f.logs.Find(context.Background(), store.Where(model.FieldLogEventID, eventID))
	if err != nil {
		t.Fatalf("find logs: %v", err)
	}
	return len(logs)
}

func user(id string) model.Actor {
	return model.Actor{ID: id, Name: "User " + id}
}

func wantCode(t *testing.T, err error, code int) {
	t.Helper()
	if got := errorx.CodeOf(err); got != code {
		t.Fatalf("error code = %d (%v), want %d", got, err, code)
	}
}

func TestRsvpKeepsCountEqualToSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seed(t, model.Event{RSVPOpen: true})

	steps := []struct {
		user   string
		cancel bool
	}{
		{"u1", false}, {"u2", false}, {"u1", true}, {"u3", false},
		{"u1", false}, {"u2", true}, {"u3", true}, {"u2", false},
	}
	for i, s := range steps {
		var err error
		if s.cancel {
			err = f.repo.CancelRsvp(ctx, id, user(s.user))
		} else {
			err = f.repo.Rsvp(ctx, id, user(s.user))
		}
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		e := f.get(t, id)
		if e.CurrentAttendees != len(e.RSVP) {
			t.Fatalf("step %d: currentAttendees=%d, len(rsvp)=%d", i, e.CurrentAttendees, len(e.RSVP))
		}
	}

	e := f.get(t, id)
	if len(e.RSVP) != 2 || !model.Contains(e.RSVP, "u1") || !model.Contains(e.RSVP, "u2") {
		t.Fatalf("unexpected rsvp set %v", e.RSVP)
	}
}

func TestRsvpTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seed(t, model.Event{RSVPOpen: true})

	if err := f.repo.Rsvp(ctx, id, user("u1")); err != nil {
		t.Fatalf("first rsvp: %v", err)
	}
	before := f.get(t, id)

	wantCode(t, f.repo.Rsvp(ctx, id, user("u1")), errorx.CodeAlreadyRsvpd)

	after := f.get(t, id)
	if after.CurrentAttendees != before.CurrentAttendees || len(after.RSVP) != len(before.RSVP) {
		t.Fatalf("second rsvp changed state: %+v -> %+v", before.RSVP, after.RSVP)
	}
	if n := f.logCount(t, id); n != 1 {
		t.Fatalf("logs = %d, want 1", n)
	}
}

func TestCancelRsvpWithoutRsvp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seed(t, model.Event{RSVPOpen: true, RSVP: []string{"u2"}, CurrentAttendees: 1})

	wantCode(t, f.repo.CancelRsvp(ctx, id, user("u1")), errorx.CodeNotRsvpd)

	e := f.get(t, id)
	if e.CurrentAttendees != 1 || len(e.RSVP) != 1 {
		t.Fatalf("cancel without rsvp changed state: %+v", e)
	}
	if n := f.logCount(t, id); n != 0 {
		t.Fatalf("logs = %d, want 0", n)
	}
}

func TestCancelRsvpRepairsDriftedCounter(t *testing.T) {
	f := newFixture(t)
	id := f.seed(t, model.Event{RSVPOpen: true, RSVP: []string{"u1"}, CurrentAttendees: 0})

	if err := f.repo.CancelRsvp(context.Background(), id, user("u1")); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if e := f.get(t, id); e.CurrentAttendees != 0 || len(e.RSVP) != 0 {
		t.Fatalf("counter should floor at zero, got %d", e.CurrentAttendees)
	}
}

func TestRsvpClosedRegardlessOfCapacity(t *testing.T) {
	tests := []struct {
		name  string
		event model.Event
	}{
		{"unlimited", model.Event{RSVPOpen: false}},
		{"room left", model.Event{RSVPOpen: false, MaxAttendees: 10}},
		{"full", model.Event{RSVPOpen: false, MaxAttendees: 1, RSVP: []string{"u9"}, CurrentAttendees: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			id := f.seed(t, tt.event)
			wantCode(t, f.repo.Rsvp(context.Background(), id, user("u1")), errorx.CodeRsvpClosed)
		})
	}
}

func TestRsvpFull(t *testing.T) {
	f := newFixture(t)
	id := f.seed(t, model.Event{RSVPOpen: true, MaxAttendees: 2, RSVP: []string{"a", "b"}, CurrentAttendees: 2})

	wantCode(t, f.repo.Rsvp(context.Background(), id, user("u1")), errorx.CodeEventFull)
	if e := f.get(t, id); e.CurrentAttendees != 2 {
		t.Fatalf("currentAttendees = %d, want 2", e.CurrentAttendees)
	}
}

func TestCapacityOneScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seed(t, model.Event{RSVPOpen: true, MaxAttendees: 1})

	if err := f.repo.Rsvp(ctx, id, user("u1")); err != nil {
		t.Fatalf("u1 rsvp: %v", err)
	}
	if e := f.get(t, id); e.CurrentAttendees != 1 {
		t.Fatalf("currentAttendees = %d, want 1", e.CurrentAttendees)
	}

	wantCode(t, f.repo.Rsvp(ctx, id, user("u2")), errorx.CodeEventFull)

	if err := f.repo.CancelRsvp(ctx, id, user("u1")); err != nil {
		t.Fatalf("u1 cancel: %v", err)
	}
	if e := f.get(t, id); e.CurrentAttendees != 0 {
		t.Fatalf("currentAttendees = %d, want 0", e.CurrentAttendees)
	}

	if err := f.repo.Rsvp(ctx, id, user("u2")); err != nil {
		t.Fatalf("u2 rsvp: %v", err)
	}
	e := f.get(t, id)
	if e.CurrentAttendees != 1 || !model.Contains(e.RSVP, "u2") {
		t.Fatalf("unexpected final state %v / %d", e.RSVP, e.CurrentAttendees)
	}
}

// racingEvents 在第一次条件写之前插入另一名用户的报名，模拟并发
type racingEvents struct {
	store.Collection[model.Event]
	raced atomic.Bool
	rival string
}

func (r *racingEvents) Update(ctx context.Context, id string, m store.Mutation) (bool, error) {
	if r.raced.CompareAndSwap(false, true) {
		_, err := r.Collection.Update(ctx, id, store.Mutation{
			AddToSet: map[string]any{model.FieldRSVP: r.rival},
			Inc:      map[string]int{model.FieldCurrentAttendees: 1},
		})
		if err != nil {
			return false, err
		}
	}
	return r.Collection.Update(ctx, id, m)
}

func TestStrictCapacityUnderRace(t *testing.T) {
	tests := []struct {
		name     string
		strict   bool
		wantCode int
		wantSize int
	}{
		{"weak capacity overbooks", false, errorx.CodeSuccess, 2},
		{"strict capacity rejects", true, errorx.CodeEventFull, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			id := f.seed(t, model.Event{RSVPOpen: true, MaxAttendees: 1})
			racing := &racingEvents{Collection: f.events, rival: "rival"}
			r := New(racing, f.store, activitylog.New(f.logs), WithStrictCapacity(tt.strict))

			wantCode(t, r.Rsvp(context.Background(), id, user("u1")), tt.wantCode)

			e := f.get(t, id)
			if len(e.RSVP) != tt.wantSize || e.CurrentAttendees != len(e.RSVP) {
				t.Fatalf("rsvp=%v currentAttendees=%d", e.RSVP, e.CurrentAttendees)
			}
		})
	}
}

// staleEvents 条件写永远不命中
type staleEvents struct {
	store.Collection[model.Event]
	updates atomic.Int32
}

func (s *staleEvents) Update(context.Context, string, store.Mutation) (bool, error) {
	s.updates.Add(1)
	return false, nil
}

func TestRetriesExhausted(t *testing.T) {
	f := newFixture(t)
	id := f.seed(t, model.Event{RSVPOpen: true})
	stale := &staleEvents{Collection: f.events}
	r := New(stale, f.store, activitylog.New(f.logs))

	wantCode(t, r.Rsvp(context.Background(), id, user("u1")), errorx.CodeRemoteFailure)
	if got := stale.updates.Load(); got != 3 {
		t.Fatalf("attempts = %d, want 3", got)
	}
	if n := f.logCount(t, id); n != 0 {
		t.Fatalf("failed rsvp should not be logged, got %d logs", n)
	}
}

// brokenEvents 读取失败
type brokenEvents struct {
	store.Collection[model.Event]
}

func (brokenEvents) Get(context.Context, string) (model.Event, error) {
	return model.Event{}, errors.New("connection reset")
}

func TestRemoteFailure(t *testing.T) {
	f := newFixture(t)
	r := New(brokenEvents{f.events}, f.store, activitylog.New(f.logs))

	err := r.Like(context.Background(), "any", user("u1"))
	wantCode(t, err, errorx.CodeRemoteFailure)
	if !strings.Contains(errors.Unwrap(err).Error(), "connection reset") {
		t.Fatalf("cause should be kept, got %v", errors.Unwrap(err))
	}
}

func TestOperationsOnMissingEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := user("u1")

	ops := map[string]func() error{
		"rsvp":    func() error { return f.repo.Rsvp(ctx, "missing", u) },
		"cancel":  func() error { return f.repo.CancelRsvp(ctx, "missing", u) },
		"like":    func() error { return f.repo.Like(ctx, "missing", u) },
		"unlike":  func() error { return f.repo.Unlike(ctx, "missing", u) },
		"save":    func() error { return f.repo.Save(ctx, "missing", u) },
		"unsave":  func() error { return f.repo.Unsave(ctx, "missing", u) },
		"checkin": func() error { return f.repo.CheckIn(ctx, "missing", u, "") },
		"share":   func() error { return f.repo.Share(ctx, "missing", &u) },
		"view":    func() error { return f.repo.RecordView(ctx, "missing") },
		"delete":  func() error { return f.repo.Delete(ctx, "missing") },
		"update":  func() error { return f.repo.Update(ctx, "missing", model.EventPatch{}) },
		"comment": func() error {
			_, err := f.repo.AddComment(ctx, "missing", u, "hi")
			return err
		},
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			wantCode(t, op(), errorx.CodeEventNotFound)
		})
	}
}

func TestLikeUnlike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seed(t, model.Event{})

	for i := 0; i < 2; i++ {
		if err := f.repo.Like(ctx, id, user("u1")); err != nil {
			t.Fatalf("like: %v", err)
		}
	}
	if e := f.get(t, id); len(e.Likes) != 1 {
		t.Fatalf("likes = %v, want one entry", e.Likes)
	}

	if err := f.repo.Unlike(ctx, id, user("u1")); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	// 未点赞时取消点赞同样成功
	if err := f.repo.Unlike(ctx, id, user("u1")); err != nil {
		t.Fatalf("second unlike: %v", err)
	}
	if e := f.get(t, id); len(e.Likes) != 0 {
		t.Fatalf("likes = %v, want empty", e.Likes)
	}
}

func TestSaveUnsaveAreLogged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seed(t, model.Event{})

	if err := f.repo.Save(ctx, id, user("u1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if e := f.get(t, id); !model.Contains(e.Saves, "u1") {
		t.Fatalf("saves = %v", e.Saves)
	}
	if err := f.repo.Unsave(ctx, id, user("u1")); err != nil {
		t.Fatalf("unsave: %v", err)
	}

	logs, err := activitylog.New(f.logs).ForEvent(ctx, id, 0)
	if err != nil {
		t.Fatalf("ForEvent: %v", err)
	}
	actions := map[model.Action]bool{}
	for _, l := range logs {
		actions[l.Action] = true
	}
	if !actions[model.ActionSave] || !actions[model.ActionUnsave] {
		t.Fatalf("actions = %v", actions)
	}
}

func TestCheckIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seed(t, model.Event{RSVPOpen: true, CheckInCode: "CKSECRET"})

	wantCode(t, f.repo.CheckIn(ctx, id, user("u1"), ""), errorx.CodeRsvpRequired)

	if err := f.repo.Rsvp(ctx, id, user("u1")); err != nil {
		t.Fatalf("rsvp: %v", err)
	}
	wantCode(t, f.repo.CheckIn(ctx, id, user("u1"), "WRONG"), errorx.CodeInvalidCode)

	if err := f.repo.CheckIn(ctx, id, user("u1"), " CKSECRET "); err != nil {
		t.Fatalf("checkin: %v", err)
	}
	wantCode(t, f.repo.CheckIn(ctx, id, user("u1"), ""), errorx.CodeAlreadyCheckedIn)

	e := f.get(t, id)
	if len(e.CheckedInAttendees) != 1 || e.CheckedInAttendees[0] != "u1" {
		t.Fatalf("checkedInAttendees = %v", e.CheckedInAttendees)
	}
}

func TestAddComment(t *testing.T) {
	f := newFixture(t, WithIDGenerator(func() string { return "c1" }))
	ctx := context.Background()
	id := f.seed(t, model.Event{AllowComments: true})

	c, err := f.repo.AddComment(ctx, id, user("u1"), "  see you there  ")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if c.ID != "c1" || c.Text != "see you there" || c.UserID != "u1" || len(c.Likes) != 0 {
		t.Fatalf("unexpected comment %+v", c)
	}

	e := f.get(t, id)
	if len(e.Comments) != 1 || e.Comments[0].ID != "c1" {
		t.Fatalf("comments = %+v", e.Comments)
	}

	logs, _ := activitylog.New(f.logs).ForEvent(ctx, id, 0)
	if len(logs) != 1 || logs[0].Action != model.ActionComment || logs[0].Details != "see you there" {
		t.Fatalf("logs = %+v", logs)
	}

	_, err = f.repo.AddComment(ctx, id, user("u1"), "   ")
	wantCode(t, err, errorx.CodeInvalidParams)
}

func TestAddCommentDisabled(t *testing.T) {
	f := newFixture(t)
	id := f.seed(t, model.Event{AllowComments: false})

	_, err := f.repo.AddComment(context.Background(), id, user("u1"), "hello")
	wantCode(t, err, errorx.CodeCommentsDisabled)

	if e := f.get(t, id); len(e.Comments) != 0 {
		t.Fatalf("comments = %+v, want none", e.Comments)
	}
}

func TestShare(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seed(t, model.Event{})
	u := user("u1")

	if err := f.repo.Share(ctx, id, nil); err != nil {
		t.Fatalf("anonymous share: %v", err)
	}
	if err := f.repo.Share(ctx, id, &u); err != nil {
		t.Fatalf("share: %v", err)
	}

	if e := f.get(t, id); e.ShareCount != 2 {
		t.Fatalf("shareCount = %d, want 2", e.ShareCount)
	}
	if n := f.logCount(t, id); n != 1 {
		t.Fatalf("logs = %d, want 1 (anonymous share is not logged)", n)
	}
}

func TestRecordView(t *testing.T) {
	f := newFixture(t)
	id := f.seed(t, model.Event{})

	for i := 0; i < 3; i++ {
		if err := f.repo.RecordView(context.Background(), id); err != nil {
			t.Fatalf("view: %v", err)
		}
	}
	if e := f.get(t, id); e.ViewCount != 3 {
		t.Fatalf("viewCount = %d", e.ViewCount)
	}
	if n := f.logCount(t, id); n != 0 {
		t.Fatalf("views should not be logged, got %d", n)
	}
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seed(t, model.Event{Title: "Old", RSVPOpen: true})

	title := "New"
	closed := false
	if err := f.repo.Update(ctx, id, model.EventPatch{Title: &title, RSVPOpen: &closed}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	e := f.get(t, id)
	if e.Title != "New" || e.RSVPOpen || !e.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected event %+v", e)
	}

	empty := " "
	wantCode(t, f.repo.Update(ctx, id, model.EventPatch{Title: &empty}), errorx.CodeInvalidParams)
}

func TestDeleteCascadesLogs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	keep := f.seed(t, model.Event{RSVPOpen: true})
	gone := f.seed(t, model.Event{RSVPOpen: true})

	for _, id := range []string{keep, gone} {
		if err := f.repo.Rsvp(ctx, id, user("u1")); err != nil {
			t.Fatalf("rsvp: %v", err)
		}
		if err := f.repo.Like(ctx, id, user("u1")); err != nil {
			t.Fatalf("like: %v", err)
		}
	}

	if err := f.repo.Delete(ctx, gone); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.events.Get(ctx, gone); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("event should be gone, got %v", err)
	}
	if n := f.logCount(t, gone); n != 0 {
		t.Fatalf("logs for deleted event = %d", n)
	}
	if n := f.logCount(t, keep); n != 2 {
		t.Fatalf("logs for other event = %d, want 2", n)
	}

	wantCode(t, f.repo.Delete(ctx, gone), errorx.CodeEventNotFound)
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	organizer := model.Actor{ID: "org", Name: "Org", PhotoURL: "https://img/org.png"}

	e, err := f.repo.Create(ctx, NewEvent{Title: " Hack Night ", EventDate: fixedNow.Add(time.Hour)}, organizer)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.ID == "" || e.Title != "Hack Night" || e.OrganizerID != "org" {
		t.Fatalf("unexpected event %+v", e)
	}
	if !e.IsPublic || !e.RSVPOpen || !e.AllowComments {
		t.Fatalf("flags should default to true: %+v", e)
	}
	if !strings.HasPrefix(e.CheckInCode, "CK") || len(e.CheckInCode) != 12 {
		t.Fatalf("check-in code = %q", e.CheckInCode)
	}
	if e.CurrentAttendees != 0 || len(e.RSVP) != 0 {
		t.Fatalf("new event should be empty: %+v", e)
	}
	if _, ok := f.repo.mirror.Find(e.ID); !ok {
		t.Fatal("public event should appear in the mirror")
	}

	private := false
	hidden, err := f.repo.Create(ctx, NewEvent{Title: "Staff", EventDate: fixedNow, IsPublic: &private, CheckInCode: "MINE"}, organizer)
	if err != nil {
		t.Fatalf("Create private: %v", err)
	}
	if hidden.CheckInCode != "MINE" {
		t.Fatalf("explicit code should be kept, got %q", hidden.CheckInCode)
	}
	if _, ok := f.repo.mirror.Find(hidden.ID); ok {
		t.Fatal("private event should not appear in the mirror")
	}

	_, err = f.repo.Create(ctx, NewEvent{Title: "", EventDate: fixedNow}, organizer)
	wantCode(t, err, errorx.CodeInvalidParams)
	_, err = f.repo.Create(ctx, NewEvent{Title: "x"}, organizer)
	wantCode(t, err, errorx.CodeInvalidParams)
}

func TestGetForViewer(t *testing.T) {
	f := newFixture(t)
	id := f.seed(t, model.Event{RSVP: []string{"u1"}, CurrentAttendees: 1, Likes: []string{"u2"}})

	e, err := f.repo.Get(context.Background(), id, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !e.UserHasRSVPd || e.UserHasLiked {
		t.Fatalf("viewer flags wrong: %+v", e)
	}
}

type recordingNotifier struct {
	interactions []model.Action
	created      int
	deleted      int
}

func (n *recordingNotifier) EventCreated(context.Context, model.Event) { n.created++ }
func (n *recordingNotifier) Interaction(_ context.Context, _, _ string, a model.Action) {
	n.interactions = append(n.interactions, a)
}
func (n *recordingNotifier) EventDeleted(context.Context, string) { n.deleted++ }

func TestNotifier(t *testing.T) {
	n := &recordingNotifier{}
	f := newFixture(t, WithNotifier(n))
	ctx := context.Background()

	e, err := f.repo.Create(ctx, NewEvent{Title: "Talk", EventDate: fixedNow}, user("org"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_ = f.repo.Rsvp(ctx, e.ID, user("u1"))
	_ = f.repo.Rsvp(ctx, e.ID, user("u1")) // 失败不通知
	_ = f.repo.Share(ctx, e.ID, nil)
	if err := f.repo.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if n.created != 1 || n.deleted != 1 {
		t.Fatalf("created=%d deleted=%d", n.created, n.deleted)
	}
	want := []model.Action{model.ActionRSVP, model.ActionShare}
	if len(n.interactions) != len(want) {
		t.Fatalf("interactions = %v, want %v", n.interactions, want)
	}
	for i := range want {
		if n.interactions[i] != want[i] {
			t.Fatalf("interactions = %v, want %v", n.interactions, want)
		}
	}
}

func TestRunMirrorsPublicEvents(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	later := f.seed(t, model.Event{Title: "Later", EventDate: fixedNow.Add(72 * time.Hour), RSVPOpen: true})
	sooner := f.seed(t, model.Event{Title: "Sooner", EventDate: fixedNow.Add(24 * time.Hour)})

	done := make(chan error, 1)
	go func() { done <- f.repo.Run(ctx) }()

	states, stop := f.repo.Subscribe()
	defer stop()

	waitFor(t, states, func(s State) bool { return !s.Loading && len(s.Events) == 2 })
	s := f.repo.State()
	if s.Events[0].ID != sooner || s.Events[1].ID != later {
		t.Fatalf("events should be ordered by date: %v, %v", s.Events[0].Title, s.Events[1].Title)
	}

	if err := f.repo.Rsvp(ctx, later, user("u1")); err != nil {
		t.Fatalf("rsvp: %v", err)
	}
	waitFor(t, states, func(s State) bool {
		for _, e := range s.Events {
			if e.ID == later {
				return e.CurrentAttendees == 1
			}
		}
		return false
	})

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func waitFor(t *testing.T, states <-chan State, ok func(State) bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-states:
			if ok(s) {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for state")
		}
	}
}
