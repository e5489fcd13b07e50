package domain

type Priority int

const (
	PriorityNormal Priority = iota
	PriorityHigh
)

type Notification struct {
	ChannelID     string
	Text          string
	Priority      Priority
	MentionUserID string
}
