package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Generation backend
	v.SetDefault("generation.provider", "huggingface")
	v.SetDefault("generation.endpoint", "https://api-inference.huggingface.co/models")
	v.SetDefault("generation.model", "microsoft/DialoGPT-medium")
	v.SetDefault("generation.apiToken", "")
	v.SetDefault("generation.timeout", 30*time.Second)
	v.SetDefault("generation.maxRetries", 3)
	v.SetDefault("generation.temperature", 0.7)
	v.SetDefault("generation.topP", 0.9)
	v.SetDefault("generation.maxNewTokens", 150)
	v.SetDefault("generation.warmupDelay", 5*time.Second)

	// Generation circuit breaker
	v.SetDefault("generation.circuitBreaker.enabled", true)
	v.SetDefault("generation.circuitBreaker.maxRequests", 3)
	v.SetDefault("generation.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("generation.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("generation.circuitBreaker.minRequests", 3)
	v.SetDefault("generation.circuitBreaker.failureThreshold", 0.6)

	// Transcription backends, in fallback order
	v.SetDefault("transcription.methods", []string{"google", "sphinx"})
	v.SetDefault("transcription.endpoints", map[string]string{})
	v.SetDefault("transcription.apiToken", "")
	v.SetDefault("transcription.timeout", 30*time.Second)
	v.SetDefault("transcription.maxRetries", 2)

	// Audio capture
	v.SetDefault("audio.sampleRate", 16000)

	// Interview flow
	v.SetDefault("interview.minQuestions", 5)
	v.SetDefault("interview.maxQuestions", 7)

	// Storage layout
	v.SetDefault("storage.dataDir", "data")
	v.SetDefault("storage.rolesFile", "data/roles.json")
	v.SetDefault("storage.reportsDir", "data/reports")
	v.SetDefault("storage.sessionsDir", "data/interview_sessions")
	v.SetDefault("storage.watchCatalog", false)
	v.SetDefault("storage.watchDebounce", time.Second)

	// Server configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.apiKeys", []string{})
	v.SetDefault("server.maxRequestSize", 1024*1024) // 1MB

	// Rate limiting
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)

	// App configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 1024*1024)

	// Vault configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.generationToken", "")

	// Observability configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "intervue")
	v.SetDefault("observability.serviceVersion", "")
	v.SetDefault("observability.serviceInstance", "")
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)

	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)

	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})

	v.SetDefault("observability.healthCheck.timeout", 15*time.Second)
	v.SetDefault("observability.healthCheck.backendCheckTimeout", 10*time.Second)
}
