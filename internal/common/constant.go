package common

// AuthorizationHeaderName is the HTTP header carrying the access token, either
// raw or with the BearerScheme prefix.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the optional scheme prefix of the authorization header.
const BearerScheme = "Bearer"

// RequestIDHeaderName is echoed back on every response.
const RequestIDHeaderName = "X-Request-Id"

// Application environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)
