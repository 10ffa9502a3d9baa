package catalog

import "encoding/json"

// User identifies an account on the catalog backend.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Book mirrors a catalog record as returned by /books endpoints.
type Book struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	SubTitle    string `json:"sub_title,omitempty"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author"`
	Editors     string `json:"editors,omitempty"`
	ImageURL    string `json:"image,omitempty"`
	Published   bool   `json:"published"`
	PublishedAt string `json:"published_at,omitempty"`
	Publisher   string `json:"publisher"`
	Language    string `json:"language"`
	OwnerID     int64  `json:"userId"`
	Owner       *User  `json:"user,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// Credentials is the /auth/login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the /auth/register payload.
type Registration struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// AuthResponse is returned by both auth endpoints.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// BookDraft is the POST /books payload. The backend assigns the id and
// the owner; the client never sends either.
type BookDraft struct {
	Title       string `json:"title"`
	SubTitle    string `json:"sub_title,omitempty"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author"`
	Editors     string `json:"editors,omitempty"`
	ImageURL    string `json:"image,omitempty"`
	Published   bool   `json:"published"`
	PublishedAt string `json:"published_at,omitempty"`
	Publisher   string `json:"publisher"`
	Language    string `json:"language"`
}

// BookPatch carries a partial update for PATCH /books/{id}. Nil fields
// are left untouched by the backend.
type BookPatch struct {
	Title       *string `json:"title,omitempty"`
	SubTitle    *string `json:"sub_title,omitempty"`
	Description *string `json:"description,omitempty"`
	Author      *string `json:"author,omitempty"`
	Editors     *string `json:"editors,omitempty"`
	ImageURL    *string `json:"image,omitempty"`
	Published   *bool   `json:"published,omitempty"`
	PublishedAt *string `json:"published_at,omitempty"`
	Publisher   *string `json:"publisher,omitempty"`
	Language    *string `json:"language,omitempty"`
}

// errorBody is the backend's error envelope. NestJS-style backends
// return message either as a string or as an array of strings.
type errorBody struct {
	StatusCode int             `json:"statusCode"`
	Message    json.RawMessage `json:"message"`
	Error      string          `json:"error"`
}

func (b errorBody) message() string {
	if len(b.Message) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(b.Message, &single); err == nil {
		return single
	}
	var many []string
	if err := json.Unmarshal(b.Message, &many); err == nil && len(many) > 0 {
		return many[0]
	}
	return ""
}
