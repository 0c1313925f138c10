package models

import "time"

// DayBucketLayout formats a time into the day key used by dismissals.
const DayBucketLayout = "2006-01-02"

// DayBucket returns the local-day key for t.
func DayBucket(t time.Time) string {
	return t.Format(DayBucketLayout)
}

// Dismissal is a swipe-away edge scoped to a single local day. It keeps
// the dismissed user out of the viewer's feed for the rest of that day
// only; tomorrow the candidate may reappear.
type Dismissal struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FromUserID uint      `gorm:"not null;uniqueIndex:idx_dismissal_day" json:"from_user_id"`
	ToUserID   uint      `gorm:"not null;uniqueIndex:idx_dismissal_day" json:"to_user_id"`
	Day        string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_dismissal_day;index" json:"day"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Dismissal) TableName() string {
	return "dismissals"
}
