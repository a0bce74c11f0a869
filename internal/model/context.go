package model

// AccessContext is the single canonical result of credential validation.
// Legacy per-student tokens are translated into a family-scoped context
// here; nothing downstream branches on the raw token shape.
type AccessContext struct {
	Token     *AccessToken
	Scope     TokenScope
	EventID   string
	FolderID  *string
	SubjectID *string

	AllowDownload  bool
	AllowComments  bool
	PhotoAllowlist []string

	CanView     bool
	CanDownload bool
	CanPurchase bool
	CanComment  bool

	// Source records how the credential arrived: "alias" or "token".
	Source string
}
