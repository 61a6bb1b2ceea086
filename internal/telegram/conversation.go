package telegram

// The /start flow is a three-step form: email, first name, last name. Each
// chat session is independent, so a plain state enum plus the collected
// fields is all the bookkeeping needed.

type linkState int

const (
	stateAwaitEmail linkState = iota
	stateAwaitFirstName
	stateAwaitLastName
)

type conversation struct {
	state     linkState
	email     string
	firstName string
	lastName  string
}

// advance feeds one user message into the conversation. It returns the reply
// to send and whether the form is complete.
func (c *conversation) advance(text string) (reply string, done bool) {
	switch c.state {
	case stateAwaitEmail:
		c.email = text
		c.state = stateAwaitFirstName
		return "Thank you! Now, please send me your first name.", false
	case stateAwaitFirstName:
		c.firstName = text
		c.state = stateAwaitLastName
		return "Great! Finally, please send me your last name.", false
	default:
		c.lastName = text
		return "", true
	}
}
