package model

// ReflectionResponse 用户对某条灵修某个反思问题的回答
// swagger:model ReflectionResponse
type ReflectionResponse struct {
	UUIDBase
	UserID       string      `gorm:"type:varchar(64);not null;uniqueIndex:idx_user_devotion_question;comment:身份服务用户ID" json:"userId"`
	DevotionID   uint        `gorm:"not null;uniqueIndex:idx_user_devotion_question" json:"devotionId"`
	QuestionKey  QuestionKey `gorm:"type:varchar(8);not null;uniqueIndex:idx_user_devotion_question" json:"questionKey"`
	ResponseText string      `gorm:"type:text" json:"responseText"`
}

func (ReflectionResponse) TableName() string {
	return "user_devotion_responses"
}
