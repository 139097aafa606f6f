package config

// NotificationConfig defines configuration for notifications. An empty
// WebhookURL selects the console sink.
type NotificationConfig struct {
	WebhookURL string `json:"webhook_url,omitempty" yaml:"webhook_url,omitempty" validate:"omitempty,httpurl"`
	AlwaysPost bool   `json:"always_post" yaml:"always_post"`
}

// NewDefaultNotificationConfig creates default notification configuration
func NewDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		WebhookURL: "",
		AlwaysPost: false,
	}
}
