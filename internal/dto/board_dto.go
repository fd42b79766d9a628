package dto

type BoardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type StatusRequest struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

type TicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Urgency     string `json:"urgency"`
	Status      string `json:"status"`
	AssignedTo  string `json:"assigned_to"`
}

type CommentRequest struct {
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url,omitempty"`
}

type InviteRequest struct {
	InvitationCode string `json:"invitation_code"`
}

type ProfileRequest struct {
	Name string `json:"name"`
}

type PushTokenRequest struct {
	Token string `json:"token"`
}

type IDResponse struct {
	ID string `json:"id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// MemberResponse is the public view of a board member.
type MemberResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
