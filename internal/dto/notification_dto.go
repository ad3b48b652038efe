package dto

type PostNotificationRequest struct {
	AccessKey string `json:"accessKey"`
	ProductID string `json:"productId"`
	Category  string `json:"category"`
	MsgType   string `json:"msgType" validate:"required"`
	DeviceID  string `json:"deviceId" validate:"required"`
	ChannelID int    `json:"channelId"`
	UTCTime   int64  `json:"utcTime"`
	LocalTime int64  `json:"localTime"`
	EventID   string `json:"id"`
	AlarmType string `json:"alarmType"`
	UserName  string `json:"userName"`
}
