package view

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

var helpTopics = []FAQ{
	{
		Question: "How do I compare courses?",
		Answer:   "Open Compare, pick up to three courses and their fees, placement rate, rating and duration are shown side by side.",
	},
	{
		Question: "How do I save a course?",
		Answer:   "Log in, open the course page and choose Save to Dashboard. Saved courses are listed on your dashboard.",
	},
	{
		Question: "How do I write a review?",
		Answer:   "Log in, go to Reviews, select the course, give it a star rating and add a comment.",
	},
	{
		Question: "How do I change my username, email or password?",
		Answer:   "Log in and open Update Profile. Leave the password fields empty to keep your current password.",
	},
	{
		Question: "Why was I sent back to the login page?",
		Answer:   "Your session expired or was rejected by the server. Log in again to continue.",
	},
	{
		Question: "How do I contact the team?",
		Answer:   "Use the Contact page while logged in. We reply to the email address you provide.",
	},
}

// HelpTopics devuelve las preguntas frecuentes de la pantalla de ayuda.
func HelpTopics() []FAQ {
	return append([]FAQ(nil), helpTopics...)
}
