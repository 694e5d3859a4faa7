package transport

type ProfileUpdateRequest struct {
	Name   string  `json:"name"`
	Avatar *string `json:"ava"`
}

type TaskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	PerformerID string `json:"performer_id"`
}

type TaskCompleteRequest struct {
	Comment string `json:"comment"`
}

type AuthLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type PreferenceRequest struct {
	Value string `json:"value"`
}
