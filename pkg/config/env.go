package config

const (
	EnvPrefix = "PRICESNAP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv              = "PRICESNAP_APP_ENV"
	EnvPort                = "PRICESNAP_APP_PORT"
	EnvLogLevel            = "PRICESNAP_LOG_LEVEL"
	EnvLogFormat           = "PRICESNAP_LOG_FORMAT"
	EnvUpstreamTimeout     = "PRICESNAP_UPSTREAM_TIMEOUT"
	EnvUpstreamResultLimit = "PRICESNAP_UPSTREAM_RESULT_LIMIT"
	EnvSerpAPIKey          = "PRICESNAP_SERPAPI_API_KEY"
	EnvSerpAPIBaseURL      = "PRICESNAP_SERPAPI_BASE_URL"
	EnvDataForSEOLogin     = "PRICESNAP_DATAFORSEO_LOGIN"
	EnvDataForSEOPassword  = "PRICESNAP_DATAFORSEO_PASSWORD"
	EnvDataForSEOBaseURL   = "PRICESNAP_DATAFORSEO_BASE_URL"
	EnvRedisURL            = "PRICESNAP_REDIS_URL"
	EnvCacheTTL            = "PRICESNAP_CACHE_TTL"
	EnvEmbedOrigins        = "PRICESNAP_EMBED_ALLOWED_ORIGINS"
	EnvEmbedFrameAncestors = "PRICESNAP_EMBED_FRAME_ANCESTORS"
)
