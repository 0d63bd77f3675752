package view

import (
	"math"
	"time"

	"campus-connect/app/event/model"
)

// Stats 组织者数据概览
type Stats struct {
	TotalEvents          int `json:"totalEvents"`
	TotalAttendees       int `json:"totalAttendees"`
	UpcomingEvents       int `json:"upcomingEvents"`
	TotalLikes           int `json:"totalLikes"`
	AvgAttendeesPerEvent int `json:"avgAttendeesPerEvent"`
	TotalCheckIns        int `json:"totalCheckIns"`
	TotalShares          int `json:"totalShares"`
	TotalViews           int `json:"totalViews"`
	TotalComments        int `json:"totalComments"`
}

// Summarize 统计 organizerID 创建的活动；organizerID 为空时统计全部
func Summarize(events []model.Event, organizerID string, now time.Time) Stats {
	var s Stats
	for _, e := range events {
		if organizerID != "" && e.OrganizerID != organizerID {
			continue
		}
		s.TotalEvents++
		s.TotalAttendees += len(e.RSVP)
		s.TotalLikes += len(e.Likes)
		s.TotalCheckIns += len(e.CheckedInAttendees)
		s.TotalShares += e.ShareCount
		s.TotalViews += e.ViewCount
		s.TotalComments += len(e.Comments)
		if e.IsUpcoming(now) {
			s.UpcomingEvents++
		}
	}
	if s.TotalEvents > 0 {
		s.AvgAttendeesPerEvent = int(math.Round(float64(s.TotalAttendees) / float64(s.TotalEvents)))
	}
	return s
}
