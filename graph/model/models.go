package model

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   *int   `json:"age,omitempty"`
}

type Post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
	AuthorID  string `json:"author"`
}

type Comment struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	AuthorID string `json:"author"`
	PostID   string `json:"post"`
}

type CreateUserInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   *int   `json:"age,omitempty"`
}

type CreatePostInput struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
	Author    string `json:"author"`
}

type CreateCommentInput struct {
	Text   string `json:"text"`
	Author string `json:"author"`
	Post   string `json:"post"`
}

// NewUser собирает пользователя из входных данных мутации и сгенерированного ID
func NewUser(id string, input CreateUserInput) *User {
	user := &User{
		ID:    id,
		Name:  input.Name,
		Email: input.Email,
	}
	if input.Age != nil {
		age := *input.Age
		user.Age = &age
	}
	return user
}

func NewPost(id string, input CreatePostInput) *Post {
	return &Post{
		ID:        id,
		Title:     input.Title,
		Body:      input.Body,
		Published: input.Published,
		AuthorID:  input.Author,
	}
}

func NewComment(id string, input CreateCommentInput) *Comment {
	return &Comment{
		ID:       id,
		Text:     input.Text,
		AuthorID: input.Author,
		PostID:   input.Post,
	}
}
