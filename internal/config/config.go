package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DeliveryMethod identifies which CRM delivery mechanism is active.
type DeliveryMethod string

const (
	DeliveryEmbed      DeliveryMethod = "embed"
	DeliveryWebhook    DeliveryMethod = "webhook"
	DeliveryServerless DeliveryMethod = "serverless"
	DeliveryNone       DeliveryMethod = "none"
)

// Config holds application configuration. It is read once at startup and never
// mutated afterwards.
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	// CRM integration. Which delivery mechanism is active is a pure function
	// of which of these are set, see DeliveryMethod.
	CRMEmbedCode   string
	CRMWebhookURL  string
	CRMAPIEndpoint string
	CRMAPIKey      string
	CRMTimeout     time.Duration

	// Relay endpoint used by the serverless delivery path. Empty means
	// "derive from PublicBaseURL".
	RelaySubmitURL string

	// Retry tuning for the submission pipeline.
	RetryMaxAttempts int
	RetryBaseDelay   time.Duration

	// Secondary notification channel (FormSubmit-style form relay).
	FormRelayEndpoint string
	FormRelayTo       string
	FormRelaySubject  string
	FormRelayRedirect string

	// Operator email notifications.
	NotifyProvider   string
	NotifyRecipients []string
	EmailFromAddress string
	EmailFromName    string
	SendGridAPIKey   string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// Site chrome configuration surfaced to clients.
	GTMContainerID string
	WhatsAppNumber string

	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		CRMEmbedCode:   getEnv("CRM_EMBED_CODE", ""),
		CRMWebhookURL:  getEnv("CRM_WEBHOOK_URL", ""),
		CRMAPIEndpoint: getEnv("CRM_API_ENDPOINT", ""),
		CRMAPIKey:      getEnv("CRM_API_KEY", ""),
		CRMTimeout:     getEnvAsDuration("CRM_TIMEOUT", 10*time.Second),

		RelaySubmitURL: getEnv("RELAY_SUBMIT_URL", ""),

		RetryMaxAttempts: getEnvAsInt("RETRY_MAX_ATTEMPTS", 4),
		RetryBaseDelay:   getEnvAsDuration("RETRY_BASE_DELAY", 2*time.Second),

		FormRelayEndpoint: getEnv("FORM_RELAY_ENDPOINT", ""),
		FormRelayTo:       getEnv("FORM_RELAY_TO", ""),
		FormRelaySubject:  getEnv("FORM_RELAY_SUBJECT", "New enquiry from the website"),
		FormRelayRedirect: getEnv("FORM_RELAY_REDIRECT", ""),

		NotifyProvider:   strings.ToLower(strings.TrimSpace(getEnv("NOTIFY_PROVIDER", ""))),
		NotifyRecipients: getEnvAsSlice("NOTIFY_RECIPIENTS", nil),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "UrjaVolt Energy"),
		SendGridAPIKey:   getEnv("SENDGRID_API_KEY", ""),

		AWSRegion:          getEnv("AWS_REGION", "ap-south-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

		GTMContainerID: getEnv("GTM_CONTAINER_ID", ""),
		WhatsAppNumber: getEnv("WHATSAPP_NUMBER", ""),

		CORSOrigins:    getEnvAsSlice("CORS_ORIGINS", nil),
		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 10),
	}
}

// DeliveryMethod resolves the active CRM delivery mechanism. Priority is fixed:
// an embed snippet wins over a webhook URL, which wins over the API endpoint/key
// pair. DeliveryNone means lead delivery is not configured at all; callers must
// treat it as a configuration fault, not a transient failure.
func (c *Config) DeliveryMethod() DeliveryMethod {
	if strings.TrimSpace(c.CRMEmbedCode) != "" {
		return DeliveryEmbed
	}
	if strings.TrimSpace(c.CRMWebhookURL) != "" {
		return DeliveryWebhook
	}
	if strings.TrimSpace(c.CRMAPIEndpoint) != "" && strings.TrimSpace(c.CRMAPIKey) != "" {
		return DeliveryServerless
	}
	return DeliveryNone
}

// IsProduction reports whether the process runs with production error hygiene.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
