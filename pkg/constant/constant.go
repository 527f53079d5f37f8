package constant

const (
	// BearerScheme is the Authorization header scheme for access tokens.
	BearerScheme = "Bearer"

	// RefreshTokenCookie carries the refresh token on browser clients.
	RefreshTokenCookie = "refresh_token"

	// RefreshTokenByteLength is the number of random bytes per refresh
	// token before hex encoding (512 bits of entropy).
	RefreshTokenByteLength = 64

	// MinPasswordLength is enforced at the transport boundary.
	MinPasswordLength = 8
)
