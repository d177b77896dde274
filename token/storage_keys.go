package token

// Storage keys shared by the token store, the session reader and logout.
const (
	KeyAccessToken     = "accessToken"
	KeyRefreshToken    = "refreshToken"
	KeyUserID          = "userId"
	KeyUserName        = "userName"
	KeyFullName        = "fullName"
	KeyUserRole        = "userRole"
	KeyRole            = "role"
	KeyStatus          = "status"
	KeyRememberMe      = "rememberMe"
	KeyRememberedEmail = "rememberedEmail"
)

// TokenKeys are the credential keys.
var TokenKeys = []string{KeyAccessToken, KeyRefreshToken}

// IdentityKeys are every plain identity field any login path has written.
var IdentityKeys = []string{KeyUserID, KeyUserName, KeyFullName, KeyUserRole, KeyRole, KeyStatus}
