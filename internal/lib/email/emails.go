package email

// SendWelcomeEmail greets a newly registered reader. name may be empty.
func (c *Client) SendWelcomeEmail(to, name string) error {
	if name == "" {
		name = "reader"
	}

	data := map[string]string{
		"UserName":  name,
		"UserEmail": to,
	}

	return c.SendEmail(
		to,
		"Welcome to Bookwarm!",
		TemplateWelcome,
		data,
	)
}
