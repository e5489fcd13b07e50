package domain

type Settings struct {
	// CredentialRef is the secret store key holding the session token.
	CredentialRef     string
	AdminRoleID       string
	LogChannelID      string
	MuteNotifications bool
}
