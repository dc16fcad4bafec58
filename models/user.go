package models

// User is a registered ledger participant.
// PasswordHash holds the encoded bcrypt output and must never carry plaintext.
type User struct {
	// Username is the unique login of the user (column u_name).
	Username string `json:"username"`

	// PasswordHash is the encoded bcrypt hash (column p_word).
	// It embeds algorithm version, cost, salt and digest and is
	// never exposed via JSON.
	PasswordHash string `json:"-"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Credentials is the plaintext username/password pair supplied by a caller
// at registration or login. It lives only for the duration of a call.
type Credentials struct {
	Username string
	Password string
}
