package domain

// Session is the pair of bearer credentials issued by the marketplace API.
// An empty AccessToken means nobody is signed in.
type Session struct {
	AccessToken  string
	RefreshToken string
}

// Valid reports whether the session carries an access token.
func (s Session) Valid() bool { return s.AccessToken != "" }
