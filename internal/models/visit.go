package models

// MaxIdentityLength bounds Visit.IP, the only indexed free-text column.
const MaxIdentityLength = 255

// Visit records one visitor session, optionally carrying a guestbook message.
// Author and Message are nil until a message is attached, and are always set
// together. VisitedAt is the last activity time in milliseconds since epoch.
type Visit struct {
	Base
	IP                 string  `json:"ip"                   gorm:"type:varchar(255);not null;index:idx_visits_ip_visited_at,priority:1"`
	VisitedAt          int64   `json:"visited_at"           gorm:"not null;index;index:idx_visits_ip_visited_at,priority:2"`
	VisitedFromCity    *string `json:"visited_from_city"    gorm:"type:text"`
	VisitedFromCountry *string `json:"visited_from_country" gorm:"type:text"`
	Author             *string `json:"author"               gorm:"type:text"`
	Message            *string `json:"message"              gorm:"type:text"`
}

func (Visit) TableName() string { return "visits" }

// Authored reports whether a message has been attached to the visit.
func (v *Visit) Authored() bool {
	return v.Author != nil && v.Message != nil
}
