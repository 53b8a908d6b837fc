package common

// AuthorizationHeader carries the access token as "Bearer <token>".
const AuthorizationHeader = "Authorization"

// BearerScheme is the only accepted authorization scheme.
const BearerScheme = "Bearer"

// RefreshTokenBytes is the amount of random data behind a refresh token.
// The hex-encoded token is twice as long.
const RefreshTokenBytes = 32
